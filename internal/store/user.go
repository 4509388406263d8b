package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/icemedialab/varta/internal/model"
)

// ProfileUpdate carries profile edits. Empty fields are left unchanged.
type ProfileUpdate struct {
	FullName   string
	Role       model.Role
	Department string
}

// ListUsers returns every user in insertion order.
func (s *SessionStore) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadUsers(ctx)
}

// CountAll returns the number of registered users.
func (s *SessionStore) CountAll(ctx context.Context) (int, error) {
	users, err := s.ListUsers(ctx)
	return len(users), err
}

// FindUser returns the user with the given email or ErrNotFound.
func (s *SessionStore) FindUser(ctx context.Context, email string) (*model.User, error) {
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
	return &users[i], nil
}

// UpsertUser inserts the user, or replaces the stored user with the same
// email. The session holds an email reference, so an active session sees the
// replacement immediately.
func (s *SessionStore) UpsertUser(ctx context.Context, u model.User) error {
	u.Email = model.NormalizeEmail(u.Email)
	if u.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidUser)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.upsertLocked(ctx, u)
}

func (s *SessionStore) upsertLocked(ctx context.Context, u model.User) error {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return err
	}
	if i := indexOf(users, u.Email); i >= 0 {
		users[i] = u
	} else {
		users = append(users, u)
	}
	return s.saveUsers(ctx, users)
}

// Register adds a new user, filling in the registration defaults. A user
// with the same email must not exist.
func (s *SessionStore) Register(ctx context.Context, u model.User) (*model.User, error) {
	u.Email = model.NormalizeEmail(u.Email)
	u.FullName = strings.TrimSpace(u.FullName)
	if u.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidUser)
	}
	if u.Role == "" {
		u.Role = model.RoleStrategist
	}
	if u.Department == "" {
		u.Department = model.DefaultDepartment
	}
	if u.JoinedAt.IsZero() {
		u.JoinedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	if indexOf(users, u.Email) >= 0 {
		return nil, ErrDuplicateEmail
	}
	if err := s.saveUsers(ctx, append(users, u)); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile applies profile edits to an existing user.
func (s *SessionStore) UpdateProfile(ctx context.Context, email string, p ProfileUpdate) (*model.User, error) {
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
	if name := strings.TrimSpace(p.FullName); name != "" {
		u.FullName = name
	}
	if p.Role != "" {
		u.Role = p.Role
	}
	if dept := strings.TrimSpace(p.Department); dept != "" {
		u.Department = dept
	}

	if err := s.upsertLocked(ctx, u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Import merges users exported from another workspace (including the legacy
// browser layout). Existing emails are replaced. It returns the number of
// users written.
func (s *SessionStore) Import(ctx context.Context, incoming []model.User) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return 0, err
	}
	for _, u := range incoming {
		u.Email = model.NormalizeEmail(u.Email)
		if u.Email == "" {
			return 0, fmt.Errorf("%w: imported user without email", ErrInvalidUser)
		}
		if i := indexOf(users, u.Email); i >= 0 {
			users[i] = u
		} else {
			users = append(users, u)
		}
	}
	if err := s.saveUsers(ctx, users); err != nil {
		return 0, err
	}
	return len(incoming), nil
}
