package auth

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/icemedialab/varta/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSeeder struct {
	count      int
	countErr   error
	registered []model.User
}

func (f *fakeSeeder) CountAll(context.Context) (int, error) { return f.count, f.countErr }

func (f *fakeSeeder) Register(_ context.Context, u model.User) (*model.User, error) {
	f.registered = append(f.registered, u)
	return &u, nil
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	require.Len(t, a, 16)
	_, err := hex.DecodeString(a)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSeedFirstUser(t *testing.T) {
	ctx := context.Background()

	empty := &fakeSeeder{}
	SeedFirstUser(ctx, empty, "lead@icemedia.lab", "")
	require.Len(t, empty.registered, 1)
	assert.Equal(t, "lead@icemedia.lab", empty.registered[0].FullName)

	populated := &fakeSeeder{count: 3}
	SeedFirstUser(ctx, populated, "lead@icemedia.lab", "Lead")
	assert.Empty(t, populated.registered)

	failing := &fakeSeeder{countErr: errors.New("boom")}
	SeedFirstUser(ctx, failing, "lead@icemedia.lab", "Lead")
	assert.Empty(t, failing.registered)

	disabled := &fakeSeeder{}
	SeedFirstUser(ctx, disabled, "", "Lead")
	assert.Empty(t, disabled.registered)
}
