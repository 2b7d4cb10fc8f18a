package comments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samber/lo"

	"bloglytics/internal/core"
	"bloglytics/pkg/async"
)

var (
	commentsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloglytics_comments_written_total",
		Help: "The total number of created comments and replies",
	}, []string{"kind"})

	likesToggled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bloglytics_comment_likes_toggled_total",
		Help: "The total number of comment like toggles",
	})
)

// feedPageSize is the batch size AuthoredFeed fetches from the store.
const feedPageSize = 100

// Engine owns the comment lifecycle: creation, edits, deletes, like
// toggles and retrieval. Every operation takes the acting identity
// explicitly; the engine re-checks the blocked flag even though the
// access gate already did.
type Engine struct {
	Logger *slog.Logger

	Posts    core.PostRepository
	Comments core.CommentRepository
}

func (e *Engine) Init(_ context.Context) error {
	e.Logger = e.Logger.With("component", "comments.Engine")
	return nil
}

func (e *Engine) Create(ctx context.Context, actor core.Actor, postID, content string, parentID *string) (core.CommentModel, error) {
	if err := requireActor(actor); err != nil {
		return core.CommentModel{}, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return core.CommentModel{}, fmt.Errorf("%w: comment content is empty", core.ErrValidation)
	}

	exists, err := e.Posts.Exists(ctx, postID)
	if err != nil {
		return core.CommentModel{}, err
	}
	if !exists {
		return core.CommentModel{}, fmt.Errorf("%w: post %s", core.ErrNotFound, postID)
	}

	kind := "comment"
	if parentID != nil {
		if err := e.checkParent(ctx, postID, *parentID); err != nil {
			return core.CommentModel{}, err
		}
		kind = "reply"
	}

	comment := core.CommentModel{
		ID:       uuid.NewString(),
		PostID:   postID,
		AuthorID: actor.ID,
		ParentID: parentID,
		Content:  content,
	}

	if err := e.Comments.Insert(ctx, &comment); err != nil {
		return core.CommentModel{}, err
	}

	commentsWritten.WithLabelValues(kind).Inc()
	e.Logger.Debug("comment created", "id", comment.ID, "post", postID, "kind", kind)

	return comment, nil
}

// checkParent validates a reply target: the parent must exist, sit on
// the same post, and be top-level. Replying to a reply is a conflict,
// the thread depth is capped at two.
func (e *Engine) checkParent(ctx context.Context, postID, parentID string) error {
	parent, err := e.Comments.Get(ctx, parentID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("%w: parent comment %s does not exist", core.ErrValidation, parentID)
		}
		return err
	}

	if parent.PostID != postID {
		return fmt.Errorf("%w: parent comment belongs to another post", core.ErrValidation)
	}
	if !parent.TopLevel() {
		return fmt.Errorf("%w: replies cannot be replied to", core.ErrConflict)
	}

	return nil
}

func (e *Engine) Edit(ctx context.Context, actor core.Actor, commentID, content string) (core.CommentModel, error) {
	if err := requireActor(actor); err != nil {
		return core.CommentModel{}, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return core.CommentModel{}, fmt.Errorf("%w: comment content is empty", core.ErrValidation)
	}

	comment, err := e.Comments.Get(ctx, commentID)
	if err != nil {
		return core.CommentModel{}, err
	}
	if comment.AuthorID != actor.ID {
		return core.CommentModel{}, fmt.Errorf("%w: only the author can edit a comment", core.ErrForbidden)
	}

	return e.Comments.UpdateContent(ctx, commentID, content)
}

// Delete removes the comment. Deleting a top-level comment deletes its
// replies as well; the schema cascades, so the policy holds even for
// writes that bypass the engine.
func (e *Engine) Delete(ctx context.Context, actor core.Actor, commentID string) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	comment, err := e.Comments.Get(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != actor.ID {
		return fmt.Errorf("%w: only the author can delete a comment", core.ErrForbidden)
	}

	return e.Comments.Delete(ctx, commentID)
}

func (e *Engine) ToggleLike(ctx context.Context, actor core.Actor, commentID string) (core.CommentModel, error) {
	if err := requireActor(actor); err != nil {
		return core.CommentModel{}, err
	}

	comment, err := e.Comments.ToggleLike(ctx, commentID, actor.ID)
	if err != nil {
		return core.CommentModel{}, err
	}

	likesToggled.Inc()

	return comment, nil
}

// ListForPost returns the post's comment tree: top-level comments in
// creation order, each with its replies in creation order.
func (e *Engine) ListForPost(ctx context.Context, postID string) ([]core.CommentNode, error) {
	exists, err := e.Posts.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: post %s", core.ErrNotFound, postID)
	}

	rows, err := e.Comments.ListForPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	return buildTree(rows), nil
}

// buildTree splits an ordered flat list into the two-tier structure.
// Input order is preserved on both tiers.
func buildTree(rows []core.CommentModel) []core.CommentNode {
	topLevel := lo.Filter(rows, func(c core.CommentModel, _ int) bool {
		return c.TopLevel()
	})

	nodes := lo.Map(topLevel, func(c core.CommentModel, _ int) core.CommentNode {
		return core.CommentNode{Comment: c, Replies: []core.CommentModel{}}
	})

	byParent := make(map[string]int, len(nodes))
	for i, n := range nodes {
		byParent[n.Comment.ID] = i
	}

	for _, c := range rows {
		if c.TopLevel() {
			continue
		}
		if i, ok := byParent[*c.ParentID]; ok {
			nodes[i].Replies = append(nodes[i].Replies, c)
		}
	}

	return nodes
}

// AuthoredFeed lazily streams every comment attached to a post authored
// by the actor, most recent first, for moderation and notification
// views. The sequence is finite and restartable; each call re-reads the
// store from the top.
func (e *Engine) AuthoredFeed(ctx context.Context, actor core.Actor) <-chan async.Result[core.CommentModel] {
	return async.Generator(ctx, func(yield async.Yielder[core.CommentModel]) error {
		if err := requireActor(actor); err != nil {
			return err
		}

		for offset := 0; ; offset += feedPageSize {
			page, err := e.Comments.ListForAuthorPosts(ctx, actor.ID, offset, feedPageSize)
			if err != nil {
				return err
			}

			for _, comment := range page {
				if !yield(comment) {
					return nil
				}
			}

			if len(page) < feedPageSize {
				return nil
			}
		}
	})
}

func requireActor(actor core.Actor) error {
	if actor.ID == "" {
		return fmt.Errorf("%w: missing actor identity", core.ErrForbidden)
	}
	if actor.Blocked {
		return fmt.Errorf("%w: account is blocked", core.ErrForbidden)
	}
	return nil
}
