package store

import (
	"context"

	"github.com/icemedialab/varta/internal/model"
)

// AppendReport prepends report to the user's history (newest first) and
// returns the updated user. An unknown email returns ErrNotFound.
func (s *SessionStore) AppendReport(ctx context.Context, email string, report model.Report) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(users, model.NormalizeEmail(email))
	if i < 0 {
		return nil, ErrNotFound
	}

	u := users[i]
	history := make([]model.Report, 0, len(u.Reports)+1)
	history = append(history, report)
	u.Reports = append(history, u.Reports...)

	if err := s.upsertLocked(ctx, u); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindReport returns one report from the user's history.
func (s *SessionStore) FindReport(ctx context.Context, email, id string) (*model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(users, model.NormalizeEmail(email))
	if i < 0 {
		return nil, ErrNotFound
	}
	for _, r := range users[i].Reports {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, ErrNotFound
}
