package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/icemedialab/varta/internal/auth"
	"github.com/icemedialab/varta/internal/config"
	"github.com/icemedialab/varta/internal/crypto"
	"github.com/icemedialab/varta/internal/dashboard"
	"github.com/icemedialab/varta/internal/intel"
	"github.com/icemedialab/varta/internal/storage"
	"github.com/icemedialab/varta/internal/store"
	"golang.org/x/sync/errgroup"
)

// App is one workspace: its storage, session store, credential vault and
// dashboard controller. The HTTP server and the CLI both run on top of it.
type App struct {
	config   *config.Config
	logger   *slog.Logger
	backend  storage.Backend
	sessions *store.SessionStore
	vault    *store.CredentialStore
	dash     *dashboard.Controller
	version  string
}

type options struct {
	generator intel.Generator
	version   string
}

type Option func(*options)

// WithGenerator replaces the Gemini generator.
func WithGenerator(g intel.Generator) Option {
	return func(o *options) { o.generator = g }
}

func WithVersion(v string) Option {
	return func(o *options) { o.version = v }
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	o := options{version: "(devel)"}
	for _, opt := range opts {
		opt(&o)
	}

	backend, err := storage.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	var crypter *crypto.Crypter
	if cfg.VaultSecret != "" {
		if crypter, err = crypto.NewFromSecret(cfg.VaultSecret); err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("init vault: %w", err)
		}
	} else {
		logger.Debug("VAULT_SECRET not set, alternate API key disabled")
	}

	sessions := store.NewSessionStore(backend)
	vault := store.NewCredentialStore(backend, crypter)

	gen := o.generator
	if gen == nil {
		prompts, err := intel.LoadPrompts(cfg.PromptsFile)
		if err != nil {
			_ = backend.Close()
			return nil, err
		}
		gen = intel.NewGeminiGenerator(intel.GeminiConfig{
			APIKey:          cfg.GeminiAPIKey,
			Model:           cfg.GeminiModel,
			SearchGrounding: cfg.SearchGrounding,
			Prompts:         prompts,
			Override:        vault,
			Logger:          logger,
		})
	}

	auth.SeedFirstUser(ctx, sessions, cfg.SeedUserEmail, cfg.SeedUserName)

	dash := dashboard.New(sessions, gen, logger)
	if _, err := dash.Restore(ctx); err != nil && !errors.Is(err, store.ErrNoSession) {
		_ = backend.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	return &App{
		config:   cfg,
		logger:   logger,
		backend:  backend,
		sessions: sessions,
		vault:    vault,
		dash:     dash,
		version:  o.version,
	}, nil
}

func (app *App) Close() error {
	return app.backend.Close()
}

func (app *App) Dashboard() *dashboard.Controller { return app.dash }

func (app *App) Sessions() *store.SessionStore { return app.sessions }

func (app *App) Vault() *store.CredentialStore { return app.vault }

func (app *App) Logger() *slog.Logger { return app.logger }

// Start serves the HTTP API until ctx is cancelled, then shuts down
// gracefully.
func (app *App) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%s", app.config.Port),
		Handler:     app.routes(),
		IdleTimeout: time.Minute,
		ReadTimeout: 5 * time.Second,
		// Report generation waits on the model for well over a minute.
		WriteTimeout: 3 * time.Minute,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	g.Go(func() error {
		app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env, "storage", app.config.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		app.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	app.logger.Info("stopped server")
	return nil
}

// NewLogger builds the text logger used by the server and the CLI and
// installs it as the slog default.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// LogLevel is debug in development and info otherwise.
func LogLevel(cfg *config.Config) slog.Level {
	if cfg.IsDevelopment() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
