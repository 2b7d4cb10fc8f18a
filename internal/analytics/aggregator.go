package analytics

import (
	"context"
	"log/slog"
	"strings"

	"bloglytics/internal/core"
)

// Aggregator computes derived statistics by joining the users, posts
// and comments collections at call time. It is stateless and read-only:
// nothing is cached, every call is a point-in-time snapshot.
type Aggregator struct {
	Logger *slog.Logger

	DB    core.DB
	Users core.UserRepository
}

func (a *Aggregator) Init(_ context.Context) error {
	a.Logger = a.Logger.With("component", "analytics.Aggregator")
	return nil
}

// sortColumns maps the permitted sort keys onto SQL expressions. Only
// values that survived ListParams.Normalize reach this table.
var sortColumns = map[core.SortField]string{
	core.SortByCreatedAt:       "u.created_at",
	core.SortByFirstName:       "u.first_name",
	core.SortByLastName:        "u.last_name",
	core.SortByEmail:           "u.email",
	core.SortByBlogCount:       "blog_count",
	core.SortByTotalBlogLikes:  "total_blog_likes",
	core.SortByCommentsWritten: "comments_written",
	core.SortByCommentsOnBlogs: "comments_on_blogs",
}

const userStatsColumns = `
	(SELECT count(*) FROM posts p WHERE p.author_id = u.id) AS blog_count,
	(SELECT count(*) FROM post_likes pl JOIN posts p ON p.id = pl.post_id WHERE p.author_id = u.id) AS total_blog_likes,
	(SELECT count(*) FROM comments c WHERE c.author_id = u.id) AS comments_written,
	(SELECT count(*) FROM comments c JOIN posts p ON p.id = c.post_id WHERE p.author_id = u.id) AS comments_on_blogs`

// UserList returns one page of users annotated with their derived
// metrics. The search is a case-insensitive substring match over first
// name, last name and email; stats and filtering are pushed down to the
// store, no comment rows are materialized here.
func (a *Aggregator) UserList(ctx context.Context, params core.ListParams) (core.UserPage, error) {
	params, err := params.Normalize()
	if err != nil {
		return core.UserPage{}, err
	}

	where := "TRUE"
	args := []any{}
	if params.Search != "" {
		pattern := "%" + escapeLike(params.Search) + "%"
		where = `(u.first_name ILIKE ? OR u.last_name ILIKE ? OR u.email ILIKE ?)`
		args = []any{pattern, pattern, pattern}
	}

	var total int64
	err = a.DB.
		Raw(`SELECT count(*) FROM users u WHERE `+where, args...).
		WithContext(ctx).
		Scan(&total).Error
	if err != nil {
		return core.UserPage{}, err
	}

	order := sortColumns[params.SortBy] + " " + strings.ToUpper(string(params.SortDir)) + ", u.id ASC"

	var users []core.UserWithStats
	err = a.DB.
		Raw(`
			SELECT u.id, u.first_name, u.last_name, u.email, u.photo_url, u.occupation,
			       u.is_admin, u.is_blocked, u.created_at,`+userStatsColumns+`
			FROM users u
			WHERE `+where+`
			ORDER BY `+order+`
			LIMIT ? OFFSET ?`,
			append(args, params.PageSize, params.Offset())...,
		).
		WithContext(ctx).
		Scan(&users).Error
	if err != nil {
		return core.UserPage{}, err
	}

	return core.UserPage{
		Users:    users,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

// Platform returns the platform-wide counter bundle and the top five
// authors by post count. Ties on post count break on author creation
// time, so repeated calls against unchanged data agree.
func (a *Aggregator) Platform(ctx context.Context) (core.PlatformStats, error) {
	var stats core.PlatformStats

	err := a.DB.
		Raw(`
			SELECT
				(SELECT count(*) FROM users) AS total_users,
				(SELECT count(*) FROM users WHERE is_blocked) AS blocked_users,
				(SELECT count(*) FROM users WHERE is_admin) AS admin_users,
				(SELECT count(*) FROM posts) AS total_posts,
				(SELECT count(*) FROM posts WHERE is_published) AS published_posts,
				(SELECT count(*) FROM posts WHERE NOT is_published) AS unpublished_posts,
				(SELECT count(*) FROM post_likes) AS total_post_likes,
				(SELECT count(*) FROM comments) AS total_comments`,
		).
		WithContext(ctx).
		Scan(&stats).Error
	if err != nil {
		return core.PlatformStats{}, err
	}

	err = a.DB.
		Raw(`
			SELECT u.id AS user_id, u.first_name, u.last_name, u.email,
			       count(DISTINCT p.id) AS post_count,
			       count(pl.user_id) AS like_sum
			FROM posts p
			JOIN users u ON u.id = p.author_id
			LEFT JOIN post_likes pl ON pl.post_id = p.id
			GROUP BY u.id
			ORDER BY post_count DESC, u.created_at ASC
			LIMIT 5`,
		).
		WithContext(ctx).
		Scan(&stats.TopAuthors).Error
	if err != nil {
		return core.PlatformStats{}, err
	}

	return stats, nil
}

// UserStats returns one user's full stat bundle.
func (a *Aggregator) UserStats(ctx context.Context, userID string) (core.UserModel, core.UserStats, error) {
	user, err := a.Users.Get(ctx, userID)
	if err != nil {
		return core.UserModel{}, core.UserStats{}, err
	}

	var stats core.UserStats
	err = a.DB.
		Raw(`
			SELECT
				(SELECT count(*) FROM posts WHERE author_id = ?) AS blog_count,
				(SELECT count(*) FROM posts WHERE author_id = ? AND is_published) AS published_count,
				(SELECT count(*) FROM post_likes pl JOIN posts p ON p.id = pl.post_id WHERE p.author_id = ?) AS total_likes,
				(SELECT count(*) FROM comments WHERE author_id = ?) AS comments_written,
				(SELECT count(*) FROM comments c JOIN posts p ON p.id = c.post_id WHERE p.author_id = ?) AS comments_on_blogs`,
			userID, userID, userID, userID, userID,
		).
		WithContext(ctx).
		Scan(&stats).Error
	if err != nil {
		return core.UserModel{}, core.UserStats{}, err
	}

	return user, stats, nil
}

// escapeLike neutralizes LIKE metacharacters in user input so the
// search stays a literal substring match.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
