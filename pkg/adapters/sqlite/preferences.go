// Package sqlite stores the remote preference record, one row per user.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	_ "modernc.org/sqlite"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

const timeLayout = time.RFC3339Nano

// Preferences implements core.RemotePreferences on a SQLite database.
type Preferences struct {
	db   *sql.DB
	path string

	mu     sync.Mutex
	reads  int
	writes int
}

// Open opens (creating if needed) the database at path and initializes the
// schema. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Preferences, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes
	// writers.
	db.SetMaxOpenConns(1)

	p := &Preferences{db: db, path: path}
	if err := p.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return p, nil
}

// Init creates the schema if it does not exist.
func (p *Preferences) Init(ctx context.Context) error {
	stmt := `CREATE TABLE IF NOT EXISTS user_preferences (
		user_id TEXT PRIMARY KEY,
		storage_service TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	if _, err := p.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (p *Preferences) Close() error {
	return p.db.Close()
}

// Load returns the record for userID, or core.ErrNotFound.
func (p *Preferences) Load(ctx context.Context, userID string) (core.RemoteRecord, error) {
	var (
		rec       core.RemoteRecord
		updatedAt string
	)
	row := p.db.QueryRowContext(ctx,
		`SELECT storage_service, updated_at FROM user_preferences WHERE user_id = ?`, userID)
	if err := row.Scan(&rec.StorageService, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.RemoteRecord{}, fmt.Errorf("preferences for %q: %w", userID, core.ErrNotFound)
		}
		return core.RemoteRecord{}, fmt.Errorf("query preferences: %w", err)
	}
	t, err := time.Parse(timeLayout, updatedAt)
	if err != nil {
		return core.RemoteRecord{}, fmt.Errorf("parse updated_at: %w", err)
	}
	rec.UpdatedAt = t

	p.mu.Lock()
	p.reads++
	p.mu.Unlock()
	return rec, nil
}

// Store upserts the record for userID. The last write wins.
func (p *Preferences) Store(ctx context.Context, userID string, rec core.RemoteRecord) error {
	if userID == "" {
		return errors.New("user id is required")
	}
	dest, err := core.ParseDestination(rec.StorageService)
	if err != nil {
		return err
	}
	rec.StorageService = dest.String()
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	_, err = p.db.ExecContext(ctx, `INSERT INTO user_preferences (user_id, storage_service, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			storage_service = excluded.storage_service,
			updated_at = excluded.updated_at`,
		userID, rec.StorageService, rec.UpdatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}

	p.mu.Lock()
	p.writes++
	p.mu.Unlock()
	return nil
}

// PreferencesState is the introspection snapshot.
type PreferencesState struct {
	Path   string `json:"path"`
	Reads  int    `json:"reads"`
	Writes int    `json:"writes"`
}

// State implements introspection.Introspectable.
func (p *Preferences) State() any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PreferencesState{Path: p.path, Reads: p.reads, Writes: p.writes}
}

// ComponentType implements introspection.Component.
func (p *Preferences) ComponentType() string {
	return "sqlite-preferences"
}

var (
	_ core.RemotePreferences       = (*Preferences)(nil)
	_ introspection.Introspectable = (*Preferences)(nil)
	_ introspection.Component      = (*Preferences)(nil)
)
