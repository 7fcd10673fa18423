package prefs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
	"github.com/chaoscaptain/chaoscaptain/pkg/prefs"
)

type fakeRemote struct {
	mu      sync.Mutex
	records map[string]core.RemoteRecord
	err     error
	stores  int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{records: map[string]core.RemoteRecord{}}
}

func (f *fakeRemote) Load(ctx context.Context, userID string) (core.RemoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return core.RemoteRecord{}, f.err
	}
	rec, ok := f.records[userID]
	if !ok {
		return core.RemoteRecord{}, core.ErrNotFound
	}
	return rec, nil
}

func (f *fakeRemote) Store(ctx context.Context, userID string, rec core.RemoteRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stores++
	if f.err != nil {
		return f.err
	}
	f.records[userID] = rec
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStore_EmptyByDefault(t *testing.T) {
	ctx := context.Background()
	s, err := prefs.Open(ctx, filepath.Join(t.TempDir(), "preferences.yaml"))
	require.NoError(t, err)

	assert.False(t, s.Get(ctx).Connected())
	assert.Equal(t, core.OnboardingPending, s.OnboardingStatus())
	assert.False(t, s.NotionCredentials().Complete())
}

func TestStore_SetPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	s, err := prefs.Open(ctx, path, prefs.WithClock(fixedClock(now)))
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, core.DestinationAppleNotes))

	reopened, err := prefs.Open(ctx, path)
	require.NoError(t, err)
	pref := reopened.Get(ctx)
	assert.Equal(t, core.DestinationAppleNotes, pref.Destination)
	assert.True(t, pref.ConfiguredAt.Equal(now))
	assert.Equal(t, core.OnboardingComplete, reopened.OnboardingStatus())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "storage_service: apple_notes")
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	s, err := prefs.Open(ctx, filepath.Join(t.TempDir(), "preferences.yaml"))
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, core.DestinationNotion))
	require.NoError(t, s.Clear(ctx))
	assert.False(t, s.Get(ctx).Connected())
	assert.Equal(t, core.OnboardingComplete, s.OnboardingStatus())
}

func TestStore_NotionCredentials(t *testing.T) {
	ctx := context.Background()
	s, err := prefs.Open(ctx, filepath.Join(t.TempDir(), "preferences.yaml"))
	require.NoError(t, err)

	err = s.SetNotionCredentials(ctx, core.NotionCredentials{APIKey: "secret_x"})
	assert.ErrorIs(t, err, core.ErrMissingCredentials)
	assert.False(t, s.NotionCredentials().Complete())

	creds := core.NotionCredentials{APIKey: "secret_x", DatabaseID: "db1"}
	require.NoError(t, s.SetNotionCredentials(ctx, creds))
	require.NoError(t, s.Set(ctx, core.DestinationNotion))
	assert.Equal(t, creds, s.NotionCredentials())

	require.NoError(t, s.ClearNotionCredentials(ctx))
	assert.False(t, s.NotionCredentials().Complete())
	assert.False(t, s.Get(ctx).Connected(), "clearing Notion credentials disconnects Notion")
}

func TestStore_MarkOnboarding(t *testing.T) {
	ctx := context.Background()
	s, err := prefs.Open(ctx, filepath.Join(t.TempDir(), "preferences.yaml"))
	require.NoError(t, err)

	assert.Error(t, s.MarkOnboarding(ctx, core.OnboardingPending))
	require.NoError(t, s.MarkOnboarding(ctx, core.OnboardingSkipped))
	assert.Equal(t, core.OnboardingSkipped, s.OnboardingStatus())
	assert.False(t, s.Get(ctx).Connected())
}

func TestStore_RemoteMirror(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	s, err := prefs.Open(ctx, filepath.Join(t.TempDir(), "preferences.yaml"),
		prefs.WithRemote(remote, "user-1"), prefs.WithClock(fixedClock(now)))
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, core.DestinationNotion))

	rec, err := remote.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "notion", rec.StorageService)
	assert.True(t, rec.UpdatedAt.Equal(now))
}

func TestStore_RemoteNewerWins(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	remote := newFakeRemote()

	local, err := prefs.Open(ctx, path, prefs.WithClock(fixedClock(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, err)
	require.NoError(t, local.Set(ctx, core.DestinationAppleNotes))

	remote.records["user-1"] = core.RemoteRecord{
		StorageService: "notion",
		UpdatedAt:      time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC),
	}
	s, err := prefs.Open(ctx, path, prefs.WithRemote(remote, "user-1"))
	require.NoError(t, err)
	assert.Equal(t, core.DestinationNotion, s.Get(ctx).Destination)

	remote.records["user-1"] = core.RemoteRecord{
		StorageService: "notion",
		UpdatedAt:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	s, err = prefs.Open(ctx, path, prefs.WithRemote(remote, "user-1"))
	require.NoError(t, err)
	assert.Equal(t, core.DestinationAppleNotes, s.Get(ctx).Destination, "older remote record loses")
}

func TestStore_RemoteFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	remote.err = errors.New("relay down")

	s, err := prefs.Open(ctx, filepath.Join(t.TempDir(), "preferences.yaml"), prefs.WithRemote(remote, "user-1"))
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, core.DestinationAppleNotes))

	assert.Equal(t, core.DestinationAppleNotes, s.Get(ctx).Destination)
	state := s.State().(prefs.StoreState)
	assert.Equal(t, 2, state.RemoteErrors)
	assert.True(t, state.Mirrored)
}

func TestStore_NoMirrorWithoutSession(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()

	s, err := prefs.Open(ctx, filepath.Join(t.TempDir(), "preferences.yaml"), prefs.WithRemote(remote, ""))
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, core.DestinationAppleNotes))
	assert.Zero(t, remote.stores)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	require.NoError(t, os.WriteFile(path, []byte("onboarding: [unterminated"), 0o600))

	_, err := prefs.Open(context.Background(), path)
	assert.Error(t, err)
}

func TestStore_StateHidesCredentials(t *testing.T) {
	ctx := context.Background()
	s, err := prefs.Open(ctx, filepath.Join(t.TempDir(), "preferences.yaml"))
	require.NoError(t, err)
	require.NoError(t, s.SetNotionCredentials(ctx, core.NotionCredentials{APIKey: "secret_x", DatabaseID: "db1"}))

	state, ok := s.State().(prefs.StoreState)
	require.True(t, ok)
	assert.True(t, state.NotionConfigured)
	assert.NotContains(t, state.Path, "secret")
	assert.Equal(t, "preferences", s.ComponentType())
}

func TestStore_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	path := filepath.Join(t.TempDir(), "preferences.yaml")

	s, err := prefs.Open(ctx, path)
	require.NoError(t, err)
	changes, err := s.Watch(ctx)
	require.NoError(t, err)

	_, err = s.Watch(ctx)
	assert.ErrorIs(t, err, prefs.ErrAlreadyWatching)

	other, err := prefs.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, other.Set(ctx, core.DestinationNotion))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case pref := <-changes:
			if pref.Destination == core.DestinationNotion {
				assert.Equal(t, core.DestinationNotion, s.Get(ctx).Destination)
				return
			}
		case <-timeout:
			t.Fatal("watcher did not observe the external change")
		}
	}
}
