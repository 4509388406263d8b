// Package dashboard holds the view controller: the state behind the
// dashboard screens and the flows that move between them.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/icemedialab/varta/internal/auth"
	"github.com/icemedialab/varta/internal/dto"
	"github.com/icemedialab/varta/internal/intel"
	"github.com/icemedialab/varta/internal/model"
	"github.com/icemedialab/varta/internal/store"
)

var ErrBusy = errors.New("a report is already being generated")

// Sessions is the part of store.SessionStore the controller drives.
type Sessions interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	FindUser(ctx context.Context, email string) (*model.User, error)
	Register(ctx context.Context, u model.User) (*model.User, error)
	Login(ctx context.Context, email string) (*model.User, error)
	Logout(ctx context.Context) error
	CurrentSession(ctx context.Context) (*model.User, error)
	UpdateProfile(ctx context.Context, email string, p store.ProfileUpdate) (*model.User, error)
	AppendReport(ctx context.Context, email string, r model.Report) (*model.User, error)
}

type Controller struct {
	sessions  Sessions
	generator intel.Generator
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string

	mu    sync.Mutex
	state State
}

func New(sessions Sessions, generator intel.Generator, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		sessions:  sessions,
		generator: generator,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     auth.NewID,
		state:     State{View: ViewHome},
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Restore syncs the controller with the persisted session. A session that
// changed hands (or ended) since the last call resets the screen.
func (c *Controller) Restore(ctx context.Context) (*model.User, error) {
	user, err := c.sessions.CurrentSession(ctx)
	if err != nil && !errors.Is(err, store.ErrNoSession) {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if user == nil || c.state.User == nil || c.state.User.Email != user.Email {
		c.resetLocked()
	}
	c.state.User = user
	if user == nil {
		return nil, store.ErrNoSession
	}
	return user, nil
}

// Register creates the account and signs it in.
func (c *Controller) Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	_, err := c.sessions.Register(ctx, model.User{
		Email:    req.Email,
		FullName: strings.TrimSpace(req.FullName),
		Role:     model.Role(req.Role),
	})
	if err != nil {
		c.setError(UserMessage(err))
		return nil, fmt.Errorf("register: %w", err)
	}
	c.logger.Info("user registered", "email", model.NormalizeEmail(req.Email))

	return c.Login(ctx, req.Email)
}

func (c *Controller) Login(ctx context.Context, email string) (*model.User, error) {
	user, err := c.sessions.Login(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.setError(MsgEmailNotFound)
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	c.mu.Lock()
	c.resetLocked()
	c.state.User = user
	c.mu.Unlock()
	return user, nil
}

// Logout ends the session and returns to the home screen.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.sessions.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	c.mu.Lock()
	c.resetLocked()
	c.state.User = nil
	c.mu.Unlock()
	return nil
}

func (c *Controller) ShowHome() error {
	return c.navigate(ViewHome, nil)
}

func (c *Controller) ShowProfile() error {
	return c.navigate(ViewProfile, nil)
}

// ShowDirectory switches to the directory and returns every employee.
func (c *Controller) ShowDirectory(ctx context.Context) ([]model.User, error) {
	if err := c.navigate(ViewDirectory, nil); err != nil {
		return nil, err
	}
	return c.sessions.ListUsers(ctx)
}

// ShowEmployee opens another employee's profile.
func (c *Controller) ShowEmployee(ctx context.Context, email string) (*model.User, error) {
	if err := c.requireUser(); err != nil {
		return nil, err
	}
	employee, err := c.sessions.FindUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find employee: %w", err)
	}
	if err := c.navigate(ViewEmployeeProfile, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// OpenReport displays a report from the signed-in user's history.
func (c *Controller) OpenReport(id string) (*model.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.User == nil {
		return nil, store.ErrNoSession
	}
	for i := range c.state.User.Reports {
		if c.state.User.Reports[i].ID == id {
			r := c.state.User.Reports[i]
			c.state.Report = &r
			c.state.View = ViewHome
			c.state.Employee = nil
			c.state.Error = ""
			return &r, nil
		}
	}
	return nil, fmt.Errorf("report %s: %w", id, store.ErrNotFound)
}

// ClearReport starts a new strategy.
func (c *Controller) ClearReport() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Report = nil
	c.state.Error = ""
}

func (c *Controller) UpdateProfile(ctx context.Context, req dto.ProfileRequest) (*model.User, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	email, err := c.currentEmail()
	if err != nil {
		return nil, err
	}

	user, err := c.sessions.UpdateProfile(ctx, email, store.ProfileUpdate{
		FullName:   req.FullName,
		Role:       model.Role(req.Role),
		Department: req.Department,
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	c.mu.Lock()
	c.state.User = user
	c.mu.Unlock()
	return user, nil
}

// Generate runs one report generation for the signed-in user. While a
// generation is in flight further calls fail with ErrBusy. On failure the
// user-facing message is recorded and the previous report stays on screen.
func (c *Controller) Generate(ctx context.Context, q model.Query) (*model.Report, error) {
	q = q.Normalize()

	c.mu.Lock()
	if c.state.User == nil {
		c.mu.Unlock()
		return nil, store.ErrNoSession
	}
	if c.state.Loading {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	if err := dto.Validate(q); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	email := c.state.User.Email
	c.state.Loading = true
	c.state.Error = ""
	c.mu.Unlock()

	c.logger.Info("generating report", "email", email, "keyword", q.Keyword)
	doc, err := c.generator.Generate(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false

	if err != nil {
		c.state.Error = UserMessage(err)
		c.logger.Error("report generation failed", "email", email, "keyword", q.Keyword, "err", err)
		return nil, fmt.Errorf("generate: %w", err)
	}

	report := model.NewReport(c.newID(), c.now(), q, *doc)
	user, err := c.sessions.AppendReport(ctx, email, report)
	if err != nil {
		c.state.Error = MsgGenerateFailed
		c.logger.Error("saving report failed", "email", email, "report_id", report.ID, "err", err)
		return nil, fmt.Errorf("save report: %w", err)
	}

	c.logger.Info("report generated", "email", email, "report_id", report.ID)
	// The session may have ended or changed hands while the call was running.
	if c.state.User == nil || c.state.User.Email != email {
		return &report, nil
	}
	c.state.User = user
	c.state.Report = &report
	c.state.View = ViewHome
	c.state.Employee = nil
	return &report, nil
}

func (c *Controller) navigate(v View, employee *model.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.User == nil {
		return store.ErrNoSession
	}
	c.state.View = v
	c.state.Employee = employee
	c.state.Error = ""
	return nil
}

func (c *Controller) requireUser() error {
	_, err := c.currentEmail()
	return err
}

func (c *Controller) currentEmail() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.User == nil {
		return "", store.ErrNoSession
	}
	return c.state.User.Email, nil
}

func (c *Controller) setError(msg string) {
	c.mu.Lock()
	c.state.Error = msg
	c.mu.Unlock()
}

// resetLocked returns to the home screen, dropping everything tied to the
// previous user except the loading flag of an in-flight generation.
func (c *Controller) resetLocked() {
	c.state = State{View: ViewHome, Loading: c.state.Loading}
}
