package blogclient

import (
	"context"
	"strconv"
	"time"
)

type User struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	PhotoURL   string    `json:"photoUrl"`
	Occupation string    `json:"occupation"`
	IsAdmin    bool      `json:"isAdmin"`
	IsBlocked  bool      `json:"isBlocked"`
	CreatedAt  time.Time `json:"createdAt"`
}

type UserWithStats struct {
	User
	BlogCount       int64 `json:"blogCount"`
	TotalBlogLikes  int64 `json:"totalBlogLikes"`
	CommentsWritten int64 `json:"commentsWritten"`
	CommentsOnBlogs int64 `json:"commentsOnBlogs"`
}

type UserPage struct {
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Total int64           `json:"total"`
	Pages int64           `json:"pages"`
	Users []UserWithStats `json:"users"`
}

type UserListQuery struct {
	Search    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type UserStats struct {
	BlogCount       int64 `json:"blogCount"`
	Published       int64 `json:"published"`
	TotalLikes      int64 `json:"totalLikes"`
	CommentsWritten int64 `json:"commentsWritten"`
	CommentsOnBlogs int64 `json:"commentsOnBlogs"`
}

type UserStatsResponse struct {
	User  User      `json:"user"`
	Stats UserStats `json:"stats"`
}

type UserCounts struct {
	TotalUsers   int64 `json:"totalUsers"`
	BlockedUsers int64 `json:"blockedUsers"`
	AdminUsers   int64 `json:"adminUsers"`
}

type BlogCounts struct {
	TotalBlogs       int64 `json:"totalBlogs"`
	PublishedBlogs   int64 `json:"publishedBlogs"`
	UnpublishedBlogs int64 `json:"unpublishedBlogs"`
	TotalLikes       int64 `json:"totalLikes"`
}

type CommentCounts struct {
	TotalComments int64 `json:"totalComments"`
}

type TopAuthor struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	BlogCount int64  `json:"blogCount"`
	LikeSum   int64  `json:"likeSum"`
}

type PlatformStats struct {
	Users      UserCounts    `json:"users"`
	Blogs      BlogCounts    `json:"blogs"`
	Comments   CommentCounts `json:"comments"`
	TopAuthors []TopAuthor   `json:"topAuthors"`
}

// Users returns one page of the admin user listing.
func (c *Client) Users(ctx context.Context, query UserListQuery) (*UserPage, error) {
	req := c.r(ctx).
		SetResult(&UserPage{}).
		SetError(&apiMessage{})

	if query.Search != "" {
		req.SetQueryParam("search", query.Search)
	}
	if query.Page > 0 {
		req.SetQueryParam("page", strconv.Itoa(query.Page))
	}
	if query.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(query.Limit))
	}
	if query.SortBy != "" {
		req.SetQueryParam("sortBy", query.SortBy)
	}
	if query.SortOrder != "" {
		req.SetQueryParam("sortOrder", query.SortOrder)
	}

	res, err := req.Get(c.baseURL + "/api/v1/admin/users")
	if err != nil {
		return nil, err
	}
	if err := apiError(res); err != nil {
		return nil, err
	}
	return res.Result().(*UserPage), nil
}

func (c *Client) UserStats(ctx context.Context, userID string) (*UserStatsResponse, error) {
	res, err := c.r(ctx).
		SetResult(&UserStatsResponse{}).
		SetError(&apiMessage{}).
		Get(c.baseURL + "/api/v1/admin/users/" + userID)
	if err != nil {
		return nil, err
	}
	if err := apiError(res); err != nil {
		return nil, err
	}
	return res.Result().(*UserStatsResponse), nil
}

// SetBlocked blocks or unblocks the target user.
func (c *Client) SetBlocked(ctx context.Context, userID string, blocked bool) (*User, error) {
	res, err := c.r(ctx).
		SetBody(map[string]bool{"value": blocked}).
		SetResult(&User{}).
		SetError(&apiMessage{}).
		Patch(c.baseURL + "/api/v1/admin/users/" + userID + "/block")
	if err != nil {
		return nil, err
	}
	if err := apiError(res); err != nil {
		return nil, err
	}
	return res.Result().(*User), nil
}

func (c *Client) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	res, err := c.r(ctx).
		SetResult(&PlatformStats{}).
		SetError(&apiMessage{}).
		Get(c.baseURL + "/api/v1/admin/stats")
	if err != nil {
		return nil, err
	}
	if err := apiError(res); err != nil {
		return nil, err
	}
	return res.Result().(*PlatformStats), nil
}
