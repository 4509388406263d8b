package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/icemedialab/varta/internal/model"
	"github.com/icemedialab/varta/internal/storage"
)

// Login makes the user with the given email the active session.
// An unknown email returns ErrNotFound and leaves the session unchanged.
func (s *SessionStore) Login(ctx context.Context, email string) (*model.User, error) {
	email = model.NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(users, email)
	if i < 0 {
		return nil, ErrNotFound
	}

	raw, err := json.Marshal(sessionRef{Email: email})
	if err != nil {
		return nil, err
	}
	if err := s.backend.Set(ctx, storage.KeySession, raw); err != nil {
		return nil, err
	}
	slog.Info("session: logged in", "email", email)
	return &users[i], nil
}

// Logout clears the active session. It is idempotent.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.backend.Delete(ctx, storage.KeySession)
}

// CurrentSession resolves the session reference against the user list.
// It returns ErrNoSession when nobody is logged in; a reference to a user
// that no longer exists is cleared and reported the same way.
func (s *SessionStore) CurrentSession(ctx context.Context) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, err := s.loadSession(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(users, email)
	if i < 0 {
		slog.Warn("session: clearing reference to unknown user", "email", email)
		if err := s.backend.Delete(ctx, storage.KeySession); err != nil {
			return nil, err
		}
		return nil, ErrNoSession
	}
	return &users[i], nil
}

// HasSession reports whether a session reference is stored, without
// resolving it.
func (s *SessionStore) HasSession(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.loadSession(ctx)
	if errors.Is(err, ErrNoSession) {
		return false, nil
	}
	return err == nil, err
}
