package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	ctx := context.Background()

	sqliteMem, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteMem.Close() })

	sqliteFile, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "nested", "varta.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteFile.Close() })

	out := map[string]Backend{
		"memory":      NewMemory(),
		"sqlite":      sqliteMem,
		"sqlite-file": sqliteFile,
	}

	if dsn := os.Getenv("VARTA_TEST_POSTGRES_URL"); dsn != "" {
		pg, err := OpenPostgres(ctx, dsn)
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = pg.Delete(ctx, "test_key")
			_ = pg.Close()
		})
		out["postgres"] = pg
	}
	return out
}

func TestBackend_GetSetDelete(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := b.Get(ctx, "test_key")
			assert.ErrorIs(t, err, ErrNoEntry)

			require.NoError(t, b.Set(ctx, "test_key", []byte(`[1]`)))
			got, err := b.Get(ctx, "test_key")
			require.NoError(t, err)
			assert.Equal(t, []byte(`[1]`), got)

			require.NoError(t, b.Set(ctx, "test_key", []byte(`[1,2]`)))
			got, err = b.Get(ctx, "test_key")
			require.NoError(t, err)
			assert.Equal(t, []byte(`[1,2]`), got)

			require.NoError(t, b.Delete(ctx, "test_key"))
			require.NoError(t, b.Delete(ctx, "test_key"))
			_, err = b.Get(ctx, "test_key")
			assert.ErrorIs(t, err, ErrNoEntry)

			assert.NoError(t, b.Ping(ctx))
		})
	}
}

func TestMemory_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	v := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", v))
	v[0] = 'x'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	got[1] = 'y'
	again, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestSQLite_ReopenKeepsEntriesAndSkipsMigrations(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "varta.db")

	first, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, KeyUsers, []byte(`[]`)))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	got, err := second.Get(ctx, KeyUsers)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "redis", "")
	require.Error(t, err)

	b, err := Open(context.Background(), DriverMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, b)
}
