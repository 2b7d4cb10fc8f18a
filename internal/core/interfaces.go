package core

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"bloglytics/pkg/async"
)

type DB interface {
	Model(a any) *gorm.DB
	Raw(sql string, values ...any) *gorm.DB
	Exec(sql string, values ...any) *gorm.DB
	WithContext(ctx context.Context) *gorm.DB
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	EstimatedCount(tableName string) (int64, error)
	HealthCheck(ctx context.Context) error
	DB() (*sql.DB, error)
}

type Migrator interface {
	Up(ctx context.Context) error
	Down(ctx context.Context) error
}

type UserRepository interface {
	Get(ctx context.Context, id string) (UserModel, error)
	SetBlocked(ctx context.Context, id string, blocked bool) (UserModel, error)
}

type PostRepository interface {
	Get(ctx context.Context, id string) (PostModel, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type CommentRepository interface {
	Get(ctx context.Context, id string) (CommentModel, error)
	Insert(ctx context.Context, comment *CommentModel) error
	UpdateContent(ctx context.Context, id, content string) (CommentModel, error)
	Delete(ctx context.Context, id string) error

	// ToggleLike flips actorID's membership in the comment's liker set and
	// refreshes the cached count, all in one transaction.
	ToggleLike(ctx context.Context, commentID, actorID string) (CommentModel, error)

	// ListForPost returns every comment on the post, any depth, ordered by
	// creation time ascending.
	ListForPost(ctx context.Context, postID string) ([]CommentModel, error)

	// ListForAuthorPosts pages through comments attached to posts authored
	// by authorID, ordered by creation time descending.
	ListForAuthorPosts(ctx context.Context, authorID string, offset, limit int) ([]CommentModel, error)
}

type CommentEngine interface {
	Create(ctx context.Context, actor Actor, postID, content string, parentID *string) (CommentModel, error)
	Edit(ctx context.Context, actor Actor, commentID, content string) (CommentModel, error)
	Delete(ctx context.Context, actor Actor, commentID string) error
	ToggleLike(ctx context.Context, actor Actor, commentID string) (CommentModel, error)
	ListForPost(ctx context.Context, postID string) ([]CommentNode, error)
	AuthoredFeed(ctx context.Context, actor Actor) <-chan async.Result[CommentModel]
}

type Aggregator interface {
	UserList(ctx context.Context, params ListParams) (UserPage, error)
	Platform(ctx context.Context) (PlatformStats, error)
	UserStats(ctx context.Context, userID string) (UserModel, UserStats, error)
}

type Moderation interface {
	SetBlocked(ctx context.Context, actor Actor, targetID string, blocked bool) (UserModel, error)
}
