package platform

import (
	"log/slog"
	"time"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

// options holds the internal configuration for the application.
type options struct {
	logger      *slog.Logger
	systemDir   string
	prefsPath   string
	relayURL    string
	userID      string
	settle      time.Duration
	clipboard   core.Clipboard
	opener      core.URLOpener
	notion      core.NotionRelay
	remote      core.RemotePreferences
	transcriber core.Transcriber
	clock       func() time.Time
	forceTemp   bool
	devSafety   bool
	noDesktop   bool
}

// Option defines a functional option for configuring the application.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		systemDir: ".chaoscaptain",
		settle:    500 * time.Millisecond,
		clock:     time.Now,
		devSafety: true,
	}
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSystemDir sets the hidden directory name inside the data dir.
// Defaults to ".chaoscaptain".
func WithSystemDir(name string) Option {
	return func(o *options) {
		if name != "" {
			o.systemDir = name
		}
	}
}

// WithPreferencesPath overrides where local preferences are stored.
// Defaults to <data>/<system dir>/preferences.yaml.
func WithPreferencesPath(path string) Option {
	return func(o *options) {
		o.prefsPath = path
	}
}

// WithRelayURL points Notion export, transcription and the preference mirror
// at a relay server. Explicit WithNotionRelay, WithTranscriber and
// WithRemotePreferences take precedence.
func WithRelayURL(url string) Option {
	return func(o *options) {
		o.relayURL = url
	}
}

// WithSession sets the signed-in user. Without it preferences stay local.
func WithSession(userID string) Option {
	return func(o *options) {
		o.userID = userID
	}
}

// WithHandoffSettle sets the pause after URL handoffs during export.
func WithHandoffSettle(d time.Duration) Option {
	return func(o *options) {
		o.settle = d
	}
}

// WithClipboard injects the clipboard port.
func WithClipboard(c core.Clipboard) Option {
	return func(o *options) {
		o.clipboard = c
	}
}

// WithURLOpener injects the URL handoff port.
func WithURLOpener(u core.URLOpener) Option {
	return func(o *options) {
		o.opener = u
	}
}

// WithNotionRelay injects the Notion relay client.
func WithNotionRelay(n core.NotionRelay) Option {
	return func(o *options) {
		o.notion = n
	}
}

// WithRemotePreferences injects the remote preference record.
func WithRemotePreferences(r core.RemotePreferences) Option {
	return func(o *options) {
		o.remote = r
	}
}

// WithTranscriber injects the transcription client.
func WithTranscriber(t core.Transcriber) Option {
	return func(o *options) {
		o.transcriber = t
	}
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithForceTemp forces the data dir into a temporary directory.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or
// `go test`. By default (true) the data dir is moved under the system temp
// directory so development runs never touch real notes.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithoutDesktop disables the system clipboard and URL opener defaults.
// Injected ports are still used.
func WithoutDesktop() Option {
	return func(o *options) {
		o.noDesktop = true
	}
}
