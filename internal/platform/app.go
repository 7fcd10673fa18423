package platform

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"

	"github.com/chaoscaptain/chaoscaptain/pkg/adapters/fs"
	adapterlifecycle "github.com/chaoscaptain/chaoscaptain/pkg/adapters/lifecycle"
	"github.com/chaoscaptain/chaoscaptain/pkg/core"
	"github.com/chaoscaptain/chaoscaptain/pkg/export"
	"github.com/chaoscaptain/chaoscaptain/pkg/flow"
	"github.com/chaoscaptain/chaoscaptain/pkg/prefs"
	"github.com/chaoscaptain/chaoscaptain/pkg/render"
)

// App is the wired application: archive, preferences and export.
type App struct {
	dataDir     string
	archive     *fs.Archive
	prefs       *prefs.Store
	dispatcher  *export.Dispatcher
	transcriber core.Transcriber
	opener      core.URLOpener
	logger      *slog.Logger
	now         func() time.Time
}

// Delivery is what happened to a finished note.
type Delivery struct {
	Note     core.RenderedNote
	Archived bool
	Results  []core.Result
}

// DataDir is the resolved data directory.
func (a *App) DataDir() string { return a.dataDir }

// Archive returns the note archive.
func (a *App) Archive() *fs.Archive { return a.archive }

// Preferences returns the preference store.
func (a *App) Preferences() *prefs.Store { return a.prefs }

// Dispatcher returns the export dispatcher.
func (a *App) Dispatcher() *export.Dispatcher { return a.dispatcher }

// NewFlow starts a capture flow bound to the preference store.
func (a *App) NewFlow() *flow.Machine {
	return flow.New(a.prefs, flow.WithLogger(a.logger), flow.WithClock(a.now))
}

// Deliver archives a note that reached output and auto-sends it to the
// connected destination. The preference is read once here. Archive errors are
// logged; the export still runs.
func (a *App) Deliver(ctx context.Context, note core.RenderedNote) Delivery {
	d := Delivery{Note: note}
	if err := a.archive.Save(ctx, fs.NoteDocument(note)); err != nil {
		a.logger.Error("failed to archive note", "id", note.ID, "error", err)
	} else {
		d.Archived = true
	}

	pref := a.prefs.Get(ctx)
	d.Results = a.dispatcher.AutoSend(ctx, note, pref, a.prefs.NotionCredentials())
	return d
}

// Send runs the named export actions for note, in order.
func (a *App) Send(ctx context.Context, note core.RenderedNote, names ...string) ([]core.Result, error) {
	actions, err := a.dispatcher.Actions(names, a.prefs.NotionCredentials())
	if err != nil {
		return nil, err
	}
	return a.dispatcher.Run(ctx, note, actions...), nil
}

// Transcribe converts audio to text through the configured transcriber.
func (a *App) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if a.transcriber == nil {
		return "", fmt.Errorf("transcription: %w", core.ErrUnavailable)
	}
	return a.transcriber.Transcribe(ctx, audio)
}

// Connect makes dest the connected destination. Notion requires stored
// credentials.
func (a *App) Connect(ctx context.Context, dest core.Destination) error {
	if dest == core.DestinationNotion && !a.prefs.NotionCredentials().Complete() {
		return core.ErrMissingCredentials
	}
	if err := a.prefs.Set(ctx, dest); err != nil {
		return err
	}
	if dest != core.DestinationNone {
		return a.prefs.MarkOnboarding(ctx, core.OnboardingComplete)
	}
	return nil
}

// ConnectNotion stores creds and makes Notion the connected destination.
func (a *App) ConnectNotion(ctx context.Context, creds core.NotionCredentials) error {
	if err := a.prefs.SetNotionCredentials(ctx, creds); err != nil {
		return err
	}
	return a.Connect(ctx, core.DestinationNotion)
}

// InstallShortcut opens the page that installs the Apple Notes shortcut.
func (a *App) InstallShortcut(ctx context.Context) error {
	if a.opener == nil {
		return fmt.Errorf("open %s: %w", export.ShortcutInstallURL, core.ErrUnavailable)
	}
	return a.opener.Open(ctx, export.ShortcutInstallURL)
}

// Disconnect clears the connected destination. With forgetNotion the Notion
// credentials are removed as well.
func (a *App) Disconnect(ctx context.Context, forgetNotion bool) error {
	if forgetNotion {
		if err := a.prefs.ClearNotionCredentials(ctx); err != nil {
			return err
		}
	}
	return a.prefs.Clear(ctx)
}

// History lists archived notes matching the glob pattern (relative to
// notes/, without extension) and, if tag is set, carrying that tag.
func (a *App) History(ctx context.Context, pattern, tag string) ([]core.Document, error) {
	docs, err := a.archive.List(ctx, pattern)
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return docs, nil
	}
	want := render.NormalizeTag(tag)
	out := docs[:0:0]
	for _, doc := range docs {
		if slices.Contains(fs.MetaStrings(doc.Metadata, "tags"), want) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// WatchPreferences reloads preferences when the file changes and exposes the
// changes as a lifecycle.Source.
func (a *App) WatchPreferences(ctx context.Context) (lifecycle.Source, error) {
	changes, err := a.prefs.Watch(ctx)
	if err != nil {
		return nil, err
	}
	return adapterlifecycle.NewPreferenceSource(changes), nil
}

// Components lists every introspectable component.
func (a *App) Components() []introspection.Component {
	return []introspection.Component{a.archive, a.prefs, a.dispatcher}
}

// State implements introspection.Introspectable with one entry per component.
func (a *App) State() any {
	out := make(map[string]any)
	for _, c := range a.Components() {
		if s, ok := c.(introspection.Introspectable); ok {
			out[c.ComponentType()] = s.State()
		}
	}
	return out
}

// ComponentType implements introspection.Component.
func (a *App) ComponentType() string {
	return "app"
}

var _ introspection.Introspectable = (*App)(nil)
var _ introspection.Component = (*App)(nil)
