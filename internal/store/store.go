// Package store implements the workspace session store: the user list, the
// active session reference and each user's report history, persisted as
// named JSON entries in a storage.Backend.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/icemedialab/varta/internal/model"
	"github.com/icemedialab/varta/internal/storage"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrNoSession      = errors.New("no active session")
	ErrInvalidUser    = errors.New("invalid user")
)

// SessionStore owns the user list and the session entry of one workspace.
// Read-modify-write cycles are serialised by mu; writers in other processes
// sharing the backend still race (last write wins).
type SessionStore struct {
	backend storage.Backend
	now     func() time.Time

	mu sync.Mutex
}

func NewSessionStore(backend storage.Backend) *SessionStore {
	return &SessionStore{
		backend: backend,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type sessionRef struct {
	Email string `json:"email"`
}

func (s *SessionStore) loadUsers(ctx context.Context) ([]model.User, error) {
	raw, err := s.backend.Get(ctx, storage.KeyUsers)
	if errors.Is(err, storage.ErrNoEntry) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var users []model.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("decode user list: %w", err)
	}
	return users, nil
}

func (s *SessionStore) saveUsers(ctx context.Context, users []model.User) error {
	if users == nil {
		users = []model.User{}
	}
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, storage.KeyUsers, raw)
}

func (s *SessionStore) loadSession(ctx context.Context) (string, error) {
	raw, err := s.backend.Get(ctx, storage.KeySession)
	if errors.Is(err, storage.ErrNoEntry) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}

	var ref sessionRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		return "", fmt.Errorf("decode session: %w", err)
	}
	if ref.Email == "" {
		return "", ErrNoSession
	}
	return ref.Email, nil
}

func indexOf(users []model.User, email string) int {
	for i := range users {
		if users[i].Email == email {
			return i
		}
	}
	return -1
}
