package chaoscaptain

import (
	"context"
	"log/slog"
	"time"

	"github.com/chaoscaptain/chaoscaptain/internal/platform"
	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

// --- Types ---

// App is the wired application.
type App = platform.App

// Delivery reports what happened to a finished note.
type Delivery = platform.Delivery

// --- Configuration ---

// Option defines a functional option for configuring the application.
type Option = platform.Option

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithSystemDir sets the hidden directory name inside the data dir.
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithPreferencesPath overrides where local preferences are stored.
func WithPreferencesPath(path string) Option {
	return platform.WithPreferencesPath(path)
}

// WithRelayURL uses the relay at url for Notion, transcription and the
// preference mirror.
func WithRelayURL(url string) Option {
	return platform.WithRelayURL(url)
}

// WithSession sets the signed-in user that preferences are mirrored for.
func WithSession(userID string) Option {
	return platform.WithSession(userID)
}

// WithHandoffSettle sets the pause after URL handoffs during export.
func WithHandoffSettle(d time.Duration) Option {
	return platform.WithHandoffSettle(d)
}

// WithClipboard injects the clipboard port.
func WithClipboard(c core.Clipboard) Option {
	return platform.WithClipboard(c)
}

// WithURLOpener injects the URL handoff port.
func WithURLOpener(u core.URLOpener) Option {
	return platform.WithURLOpener(u)
}

// WithNotionRelay injects the Notion relay client.
func WithNotionRelay(n core.NotionRelay) Option {
	return platform.WithNotionRelay(n)
}

// WithRemotePreferences injects the remote preference record.
func WithRemotePreferences(r core.RemotePreferences) Option {
	return platform.WithRemotePreferences(r)
}

// WithTranscriber injects the transcription client.
func WithTranscriber(t core.Transcriber) Option {
	return platform.WithTranscriber(t)
}

// WithForceTemp forces the data dir into a temporary directory.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the `go run` sandbox. Enabled by default.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithoutDesktop disables the system clipboard and URL opener defaults.
func WithoutDesktop() Option {
	return platform.WithoutDesktop()
}

// --- Factory ---

// New creates the application around dataDir.
func New(ctx context.Context, dataDir string, opts ...Option) (*App, error) {
	return platform.New(ctx, dataDir, opts...)
}

// --- Safety & Utils ---

// ResolveDataDir determines the actual data directory based on safety rules.
func ResolveDataDir(userPath string, forceTemp bool) string {
	return platform.ResolveDataDir(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindProjectRoot looks upwards for a directory holding .chaoscaptain.
func FindProjectRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir, ".chaoscaptain")
}
