package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"bloglytics/internal/core"
)

const actorHeader = "X-User-ID"

const actorContextKey = contextKey("actor")

// Gate is the access-gate boundary. Authentication itself happens
// upstream; the gate trusts the identity header set by the fronting
// proxy, loads the account, and rejects unknown or blocked actors
// before any engine is invoked.
type Gate struct {
	Logger *slog.Logger

	Users core.UserRepository
}

func (g *Gate) Init(_ context.Context) error {
	g.Logger = g.Logger.With("component", "api.Gate")
	return nil
}

// Authenticated resolves the actor and stores it in the request
// context. 401 without an identity, 403 for a blocked account.
func (g *Gate) Authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(actorHeader)
		if id == "" {
			writeMessage(w, http.StatusUnauthorized, "User not authenticated")
			return
		}

		user, err := g.Users.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				writeMessage(w, http.StatusUnauthorized, "User not found")
				return
			}
			g.Logger.Error("actor lookup failed", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		if user.Blocked {
			writeMessage(w, http.StatusForbidden, "Account is blocked. Contact admin.")
			return
		}

		actor := core.Actor{ID: user.ID, Admin: user.Admin, Blocked: user.Blocked}
		ctx := context.WithValue(r.Context(), actorContextKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Admin requires an authenticated administrator. Must sit behind
// Authenticated.
func (g *Gate) Admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !actorFrom(r.Context()).Admin {
			writeMessage(w, http.StatusForbidden, "Access denied. Admins only.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func actorFrom(ctx context.Context) core.Actor {
	actor, _ := ctx.Value(actorContextKey).(core.Actor)
	return actor
}
