package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/icemedialab/varta/internal/model"
	"github.com/icemedialab/varta/internal/store"
)

type contextKey string

const contextKeyUser contextKey = "user"

// SessionRestorer resolves the workspace's active session.
type SessionRestorer interface {
	Restore(ctx context.Context) (*model.User, error)
}

// RequireSession rejects requests when nobody is signed in to the workspace
// and puts the signed-in user on the request context otherwise.
func RequireSession(sessions SessionRestorer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := sessions.Restore(r.Context())
			if err != nil {
				if errors.Is(err, store.ErrNoSession) {
					writeError(w, http.StatusUnauthorized, "please sign in to continue")
					return
				}
				slog.Error("session: restore failed", "err", err)
				writeError(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the signed-in user, or nil outside RequireSession.
func UserFromContext(ctx context.Context) *model.User {
	u, _ := ctx.Value(contextKeyUser).(*model.User)
	return u
}
