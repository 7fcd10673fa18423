// Package prefs is the preference/connection store: which destination the
// user connected, whether onboarding finished and the Notion credentials.
//
// A single in-memory cache is the source of truth for readers. Every write is
// persisted atomically to a local YAML file and, when a session user is set,
// mirrored to the remote preference record (last write wins).
package prefs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chaoscaptain/chaoscaptain/pkg/adapters/fs"
	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

// fileState is the on-disk layout. The file holds an API key, so it is
// written with 0600.
type fileState struct {
	Onboarding       core.OnboardingStatus `yaml:"onboarding,omitempty"`
	StorageService   string                `yaml:"storage_service,omitempty"`
	ConfiguredAt     time.Time             `yaml:"configured_at,omitempty"`
	NotionAPIKey     string                `yaml:"notion_api_key,omitempty"`
	NotionDatabaseID string                `yaml:"notion_database_id,omitempty"`
}

// Store implements the preference service injected into the flow.
type Store struct {
	path   string
	remote core.RemotePreferences
	userID string
	logger *slog.Logger
	now    func() time.Time

	mu           sync.RWMutex
	state        fileState
	writes       int
	reloads      int
	remoteErrors int
	watching     bool
}

// Option configures a Store.
type Option func(*Store)

// WithRemote mirrors writes to remote for userID. An empty userID means no
// signed-in session, so nothing is mirrored.
func WithRemote(remote core.RemotePreferences, userID string) Option {
	return func(s *Store) {
		s.remote = remote
		s.userID = userID
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open loads the store from path. A missing file is an empty store.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:   path,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load re-reads the local file, then overlays the remote record if it is newer.
func (s *Store) Load(ctx context.Context) error {
	st, err := readFile(s.path)
	if err != nil {
		return err
	}

	if s.mirrored() {
		rec, err := s.remote.Load(ctx, s.userID)
		switch {
		case err == nil:
			if dest, perr := core.ParseDestination(rec.StorageService); perr == nil && rec.UpdatedAt.After(st.ConfiguredAt) {
				st.StorageService = dest.String()
				st.ConfiguredAt = rec.UpdatedAt
			}
		case errors.Is(err, core.ErrNotFound):
		default:
			s.logger.Warn("failed to load remote preferences", "user", s.userID, "error", err)
			s.mu.Lock()
			s.remoteErrors++
			s.mu.Unlock()
		}
	}

	s.mu.Lock()
	s.state = st
	s.reloads++
	s.mu.Unlock()
	return nil
}

func readFile(path string) (fileState, error) {
	var st fileState
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("failed to read preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("failed to parse preferences %s: %w", path, err)
	}
	return st, nil
}

// Get returns the active connection preference.
func (s *Store) Get(ctx context.Context) core.ConnectionPreference {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dest, err := core.ParseDestination(s.state.StorageService)
	if err != nil {
		return core.ConnectionPreference{}
	}
	return core.ConnectionPreference{Destination: dest, ConfiguredAt: s.state.ConfiguredAt}
}

// Set replaces the active preference. Setting a destination also completes
// onboarding.
func (s *Store) Set(ctx context.Context, dest core.Destination) error {
	now := s.now()
	return s.update(ctx, func(st *fileState) {
		st.StorageService = dest.String()
		st.ConfiguredAt = now
		if dest != core.DestinationNone {
			st.Onboarding = core.OnboardingComplete
		}
	}, true)
}

// Clear removes the active preference. Onboarding stays done.
func (s *Store) Clear(ctx context.Context) error {
	now := s.now()
	return s.update(ctx, func(st *fileState) {
		st.StorageService = ""
		st.ConfiguredAt = now
	}, true)
}

// OnboardingStatus reports the first-run flag.
func (s *Store) OnboardingStatus() core.OnboardingStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Onboarding
}

// MarkOnboarding records that onboarding was completed or skipped.
func (s *Store) MarkOnboarding(ctx context.Context, status core.OnboardingStatus) error {
	if !status.Done() {
		return fmt.Errorf("invalid onboarding status %q", status)
	}
	return s.update(ctx, func(st *fileState) { st.Onboarding = status }, false)
}

// NotionCredentials returns the stored credentials, possibly incomplete.
func (s *Store) NotionCredentials() core.NotionCredentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.NotionCredentials{APIKey: s.state.NotionAPIKey, DatabaseID: s.state.NotionDatabaseID}
}

// SetNotionCredentials stores both values; either one missing is rejected.
func (s *Store) SetNotionCredentials(ctx context.Context, creds core.NotionCredentials) error {
	if !creds.Complete() {
		return fmt.Errorf("both API key and database ID are required: %w", core.ErrMissingCredentials)
	}
	return s.update(ctx, func(st *fileState) {
		st.NotionAPIKey = creds.APIKey
		st.NotionDatabaseID = creds.DatabaseID
	}, false)
}

// ClearNotionCredentials disconnects Notion. If Notion was the active
// destination the preference is cleared too.
func (s *Store) ClearNotionCredentials(ctx context.Context) error {
	now := s.now()
	wasNotion := s.Get(ctx).Destination == core.DestinationNotion
	return s.update(ctx, func(st *fileState) {
		st.NotionAPIKey = ""
		st.NotionDatabaseID = ""
		if wasNotion {
			st.StorageService = ""
			st.ConfiguredAt = now
		}
	}, wasNotion)
}

// update applies fn to a copy of the cache, persists it and only then swaps
// it in, so a failed write leaves the cache untouched.
func (s *Store) update(ctx context.Context, fn func(*fileState), mirror bool) error {
	s.mu.Lock()
	next := s.state
	fn(&next)

	data, err := yaml.Marshal(next)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := fs.WriteFileAtomic(s.path, data, 0o600); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist preferences: %w", err)
	}
	s.state = next
	s.writes++
	s.mu.Unlock()

	if mirror && s.mirrored() {
		rec := core.RemoteRecord{StorageService: next.StorageService, UpdatedAt: next.ConfiguredAt}
		if err := s.remote.Store(ctx, s.userID, rec); err != nil {
			s.logger.Warn("failed to mirror preferences", "user", s.userID, "error", err)
			s.mu.Lock()
			s.remoteErrors++
			s.mu.Unlock()
		}
	}
	return nil
}

func (s *Store) mirrored() bool {
	return s.remote != nil && s.userID != ""
}
