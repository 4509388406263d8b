package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/icemedialab/varta/internal/app"
	"github.com/icemedialab/varta/internal/config"
	"github.com/icemedialab/varta/internal/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := app.NewLogger(os.Stdout, app.LogLevel(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger, app.WithVersion(version.Version()))
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	defer a.Close()

	return a.Start(ctx)
}
