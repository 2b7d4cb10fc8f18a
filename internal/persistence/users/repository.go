package users

import (
	"context"

	"bloglytics/internal/core"
	"bloglytics/internal/persistence"
)

type Repository struct {
	DB core.DB
}

func (r *Repository) Get(ctx context.Context, id string) (core.UserModel, error) {
	var user core.UserModel
	err := r.DB.
		Model(&core.UserModel{}).
		WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error

	return user, persistence.Translate(err)
}

func (r *Repository) SetBlocked(ctx context.Context, id string, blocked bool) (core.UserModel, error) {
	res := r.DB.
		Model(&core.UserModel{}).
		WithContext(ctx).
		Where("id = ?", id).
		Update("is_blocked", blocked)
	if res.Error != nil {
		return core.UserModel{}, persistence.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return core.UserModel{}, core.ErrNotFound
	}

	return r.Get(ctx, id)
}
