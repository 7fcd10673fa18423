package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaoscaptain/chaoscaptain/pkg/adapters/sqlite"
	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

func openTemp(t *testing.T) *sqlite.Preferences {
	t.Helper()
	p, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "relay", "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestPreferences_NotFound(t *testing.T) {
	p := openTemp(t)
	_, err := p.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestPreferences_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	p := openTemp(t)
	first := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	require.NoError(t, p.Store(ctx, "u1", core.RemoteRecord{StorageService: "apple_notes", UpdatedAt: first}))
	require.NoError(t, p.Store(ctx, "u1", core.RemoteRecord{StorageService: "notion", UpdatedAt: second}))

	rec, err := p.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "notion", rec.StorageService)
	assert.True(t, rec.UpdatedAt.Equal(second))

	state := p.State().(sqlite.PreferencesState)
	assert.Equal(t, 2, state.Writes)
	assert.Equal(t, 1, state.Reads)
}

func TestPreferences_Validation(t *testing.T) {
	ctx := context.Background()
	p := openTemp(t)

	assert.Error(t, p.Store(ctx, "", core.RemoteRecord{StorageService: "notion"}))
	assert.ErrorIs(t, p.Store(ctx, "u1", core.RemoteRecord{StorageService: "dropbox"}), core.ErrUnknownDestination)

	require.NoError(t, p.Store(ctx, "u1", core.RemoteRecord{}))
	rec, err := p.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, rec.StorageService)
	assert.False(t, rec.UpdatedAt.IsZero())
}

func TestPreferences_Memory(t *testing.T) {
	ctx := context.Background()
	p, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Store(ctx, "u1", core.RemoteRecord{StorageService: "notion", UpdatedAt: time.Now()}))
	_, err = p.Load(ctx, "u1")
	assert.NoError(t, err)
}
