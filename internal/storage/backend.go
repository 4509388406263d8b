// Package storage provides the named-entry persistence used by the workspace
// store. Each entry is an opaque byte value addressed by a string key, the
// same layout the browser client kept in local storage.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Entry keys used by the workspace.
const (
	KeyUsers      = "varta_users"
	KeySession    = "varta_session"
	KeyCredential = "varta_credential"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ErrNoEntry is returned by Get when the key has never been written or was deleted.
var ErrNoEntry = errors.New("storage: no entry")

// Backend stores named byte entries.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Open returns a migrated backend for driver.
func Open(ctx context.Context, driver, dsn string) (Backend, error) {
	switch driver {
	case DriverSQLite:
		return OpenSQLite(ctx, dsn)
	case DriverPostgres:
		return OpenPostgres(ctx, dsn)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}
