// Package auth holds identity helpers: report id generation and seeding of
// the first workspace user.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"

	"github.com/icemedialab/varta/internal/model"
)

// NewID generates a random 16-character hex ID.
func NewID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// UserSeeder is the minimal interface needed for seeding the first user.
type UserSeeder interface {
	CountAll(ctx context.Context) (int, error)
	Register(ctx context.Context, u model.User) (*model.User, error)
}

// SeedFirstUser registers an initial user when the workspace has none.
// An empty email disables seeding.
func SeedFirstUser(ctx context.Context, users UserSeeder, email, fullName string) {
	if email == "" {
		return
	}

	count, err := users.CountAll(ctx)
	if err != nil {
		slog.Error("seed: failed to count users", "err", err)
		return
	}
	if count > 0 {
		return
	}

	if fullName == "" {
		fullName = email
	}
	u, err := users.Register(ctx, model.User{Email: email, FullName: fullName})
	if err != nil {
		slog.Error("seed: failed to register user", "err", err)
		return
	}
	slog.Info("seed: registered first user", "email", u.Email)
}
