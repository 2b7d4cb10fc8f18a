package moderation

import (
	"context"
	"fmt"
	"log/slog"

	"bloglytics/internal/core"
)

// Service owns the block/unblock lifecycle of user accounts.
type Service struct {
	Logger *slog.Logger

	Users core.UserRepository
}

func (s *Service) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "moderation.Service")
	return nil
}

// SetBlocked updates the target's blocked flag. An administrator acting
// on their own account is rejected by id equality before any store
// round-trip.
func (s *Service) SetBlocked(ctx context.Context, actor core.Actor, targetID string, blocked bool) (core.UserModel, error) {
	if actor.ID == targetID {
		return core.UserModel{}, fmt.Errorf("%w: cannot block or unblock your own account", core.ErrValidation)
	}

	user, err := s.Users.SetBlocked(ctx, targetID, blocked)
	if err != nil {
		return core.UserModel{}, err
	}

	s.Logger.Info("user block flag updated", "user", targetID, "blocked", blocked, "actor", actor.ID)

	return user, nil
}
