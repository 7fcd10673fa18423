package prefs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

// ErrAlreadyWatching is returned by a second concurrent Watch call.
var ErrAlreadyWatching = errors.New("preferences are already being watched")

// Watch reloads the store whenever the preference file changes on disk (for
// example when another process runs `connect`). The new preference is sent on
// the returned channel, which is closed when ctx is done.
//
// The directory is watched rather than the file because atomic writes replace
// the file with a rename.
func (s *Store) Watch(ctx context.Context) (<-chan core.ConnectionPreference, error) {
	s.mu.Lock()
	if s.watching {
		s.mu.Unlock()
		return nil, ErrAlreadyWatching
	}
	s.watching = true
	s.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.setWatching(false)
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		s.setWatching(false)
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	out := make(chan core.ConnectionPreference, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer s.setWatching(false)
		defer watcher.Close()
		return s.watchLoop(ctx, watcher, out)
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("preference watcher stopped", "error", err)
	}))
	return out, nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, out chan<- core.ConnectionPreference) error {
	name := filepath.Base(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if err := s.Load(ctx); err != nil {
				s.logger.Warn("failed to reload preferences", "error", err)
				continue
			}
			s.logger.Debug("preferences reloaded", "path", s.path, "op", event.Op.String())
			select {
			case out <- s.Get(ctx):
			case <-ctx.Done():
				return nil
			default:
				// Drop if the consumer is behind; it will read the latest via Get.
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("fsnotify error", "error", err)
		}
	}
}

func (s *Store) setWatching(v bool) {
	s.mu.Lock()
	s.watching = v
	s.mu.Unlock()
}
