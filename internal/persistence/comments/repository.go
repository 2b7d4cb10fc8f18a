package comments

import (
	"context"
	"time"

	"gorm.io/gorm"

	"bloglytics/internal/core"
	"bloglytics/internal/persistence"
)

type Repository struct {
	DB core.DB
}

func (r *Repository) Get(ctx context.Context, id string) (core.CommentModel, error) {
	var comment core.CommentModel
	err := r.DB.
		Model(&core.CommentModel{}).
		WithContext(ctx).
		Where("id = ?", id).
		First(&comment).Error

	return comment, persistence.Translate(err)
}

func (r *Repository) Insert(ctx context.Context, comment *core.CommentModel) error {
	err := r.DB.
		Model(&core.CommentModel{}).
		WithContext(ctx).
		Create(comment).Error

	return persistence.Translate(err)
}

func (r *Repository) UpdateContent(ctx context.Context, id, content string) (core.CommentModel, error) {
	res := r.DB.
		Model(&core.CommentModel{}).
		WithContext(ctx).
		Where("id = ?", id).
		Updates(map[string]any{
			"content":   content,
			"edited_at": time.Now(),
		})
	if res.Error != nil {
		return core.CommentModel{}, persistence.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return core.CommentModel{}, core.ErrNotFound
	}

	return r.Get(ctx, id)
}

// Delete removes the comment. Replies go with it, the schema cascades
// on parent_id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res := r.DB.
		Model(&core.CommentModel{}).
		WithContext(ctx).
		Where("id = ?", id).
		Delete(&core.CommentModel{})
	if res.Error != nil {
		return persistence.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return core.ErrNotFound
	}

	return nil
}

// ToggleLike flips actorID's membership in the liker set and refreshes
// the cached count from the set's cardinality, all in one transaction.
// The comment row is locked first so two concurrent toggles serialize
// instead of losing one of the updates.
func (r *Repository) ToggleLike(ctx context.Context, commentID, actorID string) (core.CommentModel, error) {
	var comment core.CommentModel

	err := r.DB.Transaction(ctx, func(tx *gorm.DB) error {
		var locked []string
		if err := tx.Raw(`SELECT id FROM comments WHERE id = ? FOR UPDATE`, commentID).Scan(&locked).Error; err != nil {
			return err
		}
		if len(locked) == 0 {
			return core.ErrNotFound
		}

		res := tx.Exec(`DELETE FROM comment_likes WHERE comment_id = ? AND user_id = ?`, commentID, actorID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Exec(`INSERT INTO comment_likes (comment_id, user_id) VALUES (?, ?)`, commentID, actorID).Error; err != nil {
				return err
			}
		}

		return tx.Raw(`
			UPDATE comments
			SET likes_count = (SELECT count(*) FROM comment_likes WHERE comment_id = ?),
			    updated_at = now()
			WHERE id = ?
			RETURNING *`, commentID, commentID,
		).Scan(&comment).Error
	})

	return comment, persistence.Translate(err)
}

func (r *Repository) ListForPost(ctx context.Context, postID string) ([]core.CommentModel, error) {
	var comments []core.CommentModel
	err := r.DB.
		Model(&core.CommentModel{}).
		WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error

	return comments, persistence.Translate(err)
}

func (r *Repository) ListForAuthorPosts(ctx context.Context, authorID string, offset, limit int) ([]core.CommentModel, error) {
	var comments []core.CommentModel
	err := r.DB.
		Model(&core.CommentModel{}).
		WithContext(ctx).
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("posts.author_id = ?", authorID).
		Order("comments.created_at DESC, comments.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error

	return comments, persistence.Translate(err)
}
