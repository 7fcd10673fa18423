package platform

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/chaoscaptain/chaoscaptain/pkg/adapters/fs"
	"github.com/chaoscaptain/chaoscaptain/pkg/adapters/shell"
	"github.com/chaoscaptain/chaoscaptain/pkg/export"
	"github.com/chaoscaptain/chaoscaptain/pkg/prefs"
	"github.com/chaoscaptain/chaoscaptain/pkg/relay"
)

// New wires the application around the data directory dataDir.
//
//	app, err := platform.New(ctx, "~/ChaosCaptain", platform.WithRelayURL(url))
func New(ctx context.Context, dataDir string, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	useTemp := o.forceTemp || (o.devSafety && IsDevRun())
	resolved := ResolveDataDir(dataDir, useTemp)
	if useTemp && resolved != filepath.Clean(dataDir) {
		logger.Warn("running in SAFE MODE (dev sandbox)", "original_path", dataDir, "resolved_path", resolved)
	}

	archive := fs.NewArchive(fs.Config{Path: resolved, SystemDir: o.systemDir, Logger: logger})
	if err := archive.Initialize(ctx); err != nil {
		return nil, err
	}

	var client *relay.Client
	if o.relayURL != "" {
		client = relay.NewClient(o.relayURL, relay.WithClientLogger(logger))
		if o.notion == nil {
			o.notion = client
		}
		if o.transcriber == nil {
			o.transcriber = client
		}
		if o.remote == nil {
			o.remote = client
		}
	}

	if !o.noDesktop {
		if o.clipboard == nil {
			o.clipboard = shell.NewClipboard()
		}
		if o.opener == nil {
			o.opener = shell.NewOpener(logger)
		}
	}

	prefsPath := o.prefsPath
	switch {
	case prefsPath == "":
		prefsPath = filepath.Join(resolved, o.systemDir, "preferences.yaml")
	case useTemp:
		prefsPath = sandboxPath(prefsPath, dataDir, resolved)
	}
	prefOpts := []prefs.Option{prefs.WithLogger(logger), prefs.WithClock(o.clock)}
	if o.remote != nil {
		prefOpts = append(prefOpts, prefs.WithRemote(o.remote, o.userID))
	}
	store, err := prefs.Open(ctx, prefsPath, prefOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences: %w", err)
	}

	dispatcher := export.NewDispatcher(
		export.WithLogger(logger),
		export.WithClock(o.clock),
		export.WithHandoffSettle(o.settle),
		export.WithFileSaver(archive),
		export.WithClipboard(o.clipboard),
		export.WithURLOpener(o.opener),
		export.WithNotionRelay(o.notion),
	)

	return &App{
		dataDir:     resolved,
		archive:     archive,
		prefs:       store,
		dispatcher:  dispatcher,
		transcriber: o.transcriber,
		opener:      o.opener,
		logger:      logger,
		now:         o.clock,
	}, nil
}
