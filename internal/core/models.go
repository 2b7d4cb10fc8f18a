package core

import (
	"time"
)

// Actor is the authenticated identity performing an operation. It is
// supplied explicitly by the calling layer on every call, never pulled
// from ambient state.
type Actor struct {
	ID      string
	Admin   bool
	Blocked bool
}

// UserModel is an identity record. Users are never deleted by this
// service; password hash is opaque here.
type UserModel struct {
	ID           string `gorm:"primaryKey"`
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	PhotoURL     string
	Occupation   string
	Admin        bool `gorm:"column:is_admin"`
	Blocked      bool `gorm:"column:is_blocked"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return "users"
}

// PostModel is a blog entry. Its liker set lives in post_likes; the
// likes count is always count(*) over that set, never a stored column.
type PostModel struct {
	ID          string `gorm:"primaryKey"`
	AuthorID    string
	Title       string
	Content     string
	Published   bool `gorm:"column:is_published"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PostModel) TableName() string {
	return "posts"
}

// CommentModel is a comment or a reply. ParentID nil means top-level;
// non-nil references a top-level comment on the same post. LikesCount
// mirrors the cardinality of comment_likes and is updated in the same
// transaction as any membership change.
type CommentModel struct {
	ID       string `gorm:"primaryKey"`
	PostID   string
	AuthorID string
	ParentID *string
	Content  string

	LikesCount int
	EditedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CommentModel) TableName() string {
	return "comments"
}

func (c CommentModel) TopLevel() bool {
	return c.ParentID == nil
}

// CommentTree is the two-tier structure returned for a post: top-level
// comments in conversation order, each with its replies in the same
// order. Depth is capped at two, so there is no recursion.
type CommentNode struct {
	Comment CommentModel
	Replies []CommentModel
}

// UserStats is the per-user stat bundle. All four counters are derived
// from raw joins at call time.
type UserStats struct {
	BlogCount      int64
	PublishedCount int64
	TotalLikes     int64
	CommentsWritten int64
	CommentsOnBlogs int64
}

// UserWithStats annotates a user row with its derived metrics for the
// admin listing. Kept flat so raw aggregation rows scan into it
// directly.
type UserWithStats struct {
	ID         string
	FirstName  string
	LastName   string
	Email      string
	PhotoURL   string
	Occupation string
	Admin      bool `gorm:"column:is_admin"`
	Blocked    bool `gorm:"column:is_blocked"`
	CreatedAt  time.Time

	BlogCount       int64
	TotalBlogLikes  int64
	CommentsWritten int64
	CommentsOnBlogs int64
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users    []UserWithStats
	Total    int64
	Page     int
	PageSize int
}

func (p UserPage) Pages() int64 {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.Total + int64(p.PageSize) - 1) / int64(p.PageSize)
}

// TopAuthor is one entry of the platform top-authors ranking.
type TopAuthor struct {
	UserID    string
	FirstName string
	LastName  string
	Email     string
	PostCount int64
	LikeSum   int64
}

// PlatformStats is the platform-wide counters bundle.
type PlatformStats struct {
	TotalUsers   int64
	BlockedUsers int64
	AdminUsers   int64

	TotalPosts       int64
	PublishedPosts   int64
	UnpublishedPosts int64
	TotalPostLikes   int64

	TotalComments int64

	TopAuthors []TopAuthor
}
