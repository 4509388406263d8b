// Command migrate applies the storage migrations for the configured driver
// without starting the server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/icemedialab/varta/internal/config"
	"github.com/icemedialab/varta/internal/storage"
)

func main() {
	ctx := context.Background()

	cfg := config.FromEnv()
	if err := cfg.Finalize(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	if cfg.DBDriver == config.DriverMemory {
		slog.Info("memory driver has nothing to migrate")
		return
	}

	backend, err := storage.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		slog.Error("migration failed", "driver", cfg.DBDriver, "err", err)
		os.Exit(1)
	}
	defer backend.Close()

	slog.Info("migrations applied", "driver", cfg.DBDriver)
}
