package posts

import (
	"context"

	"bloglytics/internal/core"
	"bloglytics/internal/persistence"
)

type Repository struct {
	DB core.DB
}

func (r *Repository) Get(ctx context.Context, id string) (core.PostModel, error) {
	var post core.PostModel
	err := r.DB.
		Model(&core.PostModel{}).
		WithContext(ctx).
		Where("id = ?", id).
		First(&post).Error

	return post, persistence.Translate(err)
}

func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.DB.
		Model(&core.PostModel{}).
		WithContext(ctx).
		Where("id = ?", id).
		Count(&count).Error

	return count > 0, persistence.Translate(err)
}
