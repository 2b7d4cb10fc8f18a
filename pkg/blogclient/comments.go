package blogclient

import (
	"context"
	"time"
)

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

type commentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parentId,omitempty"`
}

// CreateComment posts a top-level comment, or a reply when parentID is
// non-nil.
func (c *Client) CreateComment(ctx context.Context, postID, content string, parentID *string) (*Comment, error) {
	res, err := c.r(ctx).
		SetBody(commentRequest{Content: content, ParentID: parentID}).
		SetResult(&Comment{}).
		SetError(&apiMessage{}).
		Post(c.baseURL + "/api/v1/posts/" + postID + "/comments")
	if err != nil {
		return nil, err
	}
	if err := apiError(res); err != nil {
		return nil, err
	}
	return res.Result().(*Comment), nil
}

func (c *Client) EditComment(ctx context.Context, commentID, content string) (*Comment, error) {
	res, err := c.r(ctx).
		SetBody(commentRequest{Content: content}).
		SetResult(&Comment{}).
		SetError(&apiMessage{}).
		Put(c.baseURL + "/api/v1/comments/" + commentID)
	if err != nil {
		return nil, err
	}
	if err := apiError(res); err != nil {
		return nil, err
	}
	return res.Result().(*Comment), nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	res, err := c.r(ctx).
		SetError(&apiMessage{}).
		Delete(c.baseURL + "/api/v1/comments/" + commentID)
	if err != nil {
		return err
	}
	return apiError(res)
}

// ToggleCommentLike flips the caller's like on the comment and returns
// the updated record.
func (c *Client) ToggleCommentLike(ctx context.Context, commentID string) (*Comment, error) {
	res, err := c.r(ctx).
		SetResult(&Comment{}).
		SetError(&apiMessage{}).
		Post(c.baseURL + "/api/v1/comments/" + commentID + "/like")
	if err != nil {
		return nil, err
	}
	if err := apiError(res); err != nil {
		return nil, err
	}
	return res.Result().(*Comment), nil
}

// PostComments returns the post's comment tree.
func (c *Client) PostComments(ctx context.Context, postID string) ([]CommentNode, error) {
	res, err := c.r(ctx).
		SetResult(&[]CommentNode{}).
		SetError(&apiMessage{}).
		Get(c.baseURL + "/api/v1/posts/" + postID + "/comments")
	if err != nil {
		return nil, err
	}
	if err := apiError(res); err != nil {
		return nil, err
	}
	return *res.Result().(*[]CommentNode), nil
}

// MyComments returns every comment on the caller's posts, most recent
// first.
func (c *Client) MyComments(ctx context.Context) ([]Comment, error) {
	res, err := c.r(ctx).
		SetResult(&[]Comment{}).
		SetError(&apiMessage{}).
		Get(c.baseURL + "/api/v1/my/comments")
	if err != nil {
		return nil, err
	}
	if err := apiError(res); err != nil {
		return nil, err
	}
	return *res.Result().(*[]Comment), nil
}
