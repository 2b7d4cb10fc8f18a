package api

import "time"

// Wire types, shared with pkg/blogclient.

type Comment struct {
	ID            string     `json:"id"`
	PostID        string     `json:"postId"`
	UserID        string     `json:"userId"`
	ParentID      *string    `json:"parentId"`
	Content       string     `json:"content"`
	NumberOfLikes int        `json:"numberOfLikes"`
	EditedAt      *time.Time `json:"editedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type CommentNode struct {
	Comment
	Replies []Comment `json:"replies"`
}

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
