// Package export sends a rendered note to its destinations.
//
// Every destination is an Action. The Dispatcher runs actions as a
// sequential pipeline: each one is awaited before the next starts and a
// failure never stops the rest.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

// Dispatcher owns the export ports.
type Dispatcher struct {
	clipboard core.Clipboard
	opener    core.URLOpener
	files     core.FileSaver
	notion    core.NotionRelay
	logger    *slog.Logger
	settle    time.Duration
	now       func() time.Time

	mu     sync.Mutex
	sent   map[string]struct{}
	counts map[core.Status]int
	runs   int
	last   []core.Result
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClipboard sets the clipboard port.
func WithClipboard(c core.Clipboard) Option {
	return func(d *Dispatcher) { d.clipboard = c }
}

// WithURLOpener sets the port used for mail and Apple Notes handoffs.
func WithURLOpener(o core.URLOpener) Option {
	return func(d *Dispatcher) { d.opener = o }
}

// WithFileSaver sets where downloads and calendar files are written.
func WithFileSaver(f core.FileSaver) Option {
	return func(d *Dispatcher) { d.files = f }
}

// WithNotionRelay sets the Notion relay client.
func WithNotionRelay(r core.NotionRelay) Option {
	return func(d *Dispatcher) { d.notion = r }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithHandoffSettle waits after each successful URL handoff so the receiving
// app can take focus before the next step opens another one.
func WithHandoffSettle(wait time.Duration) Option {
	return func(d *Dispatcher) { d.settle = wait }
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// NewDispatcher creates a Dispatcher. Ports left unset make their actions
// report Unavailable.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
		sent:   make(map[string]struct{}),
		counts: make(map[core.Status]int),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Clipboard copies the plain note.
func (d *Dispatcher) Clipboard() Action { return clipboardAction{clipboard: d.clipboard} }

// Download saves the markdown note as a file.
func (d *Dispatcher) Download() Action { return downloadAction{files: d.files} }

// Mail opens a draft in the mail client.
func (d *Dispatcher) Mail() Action { return mailAction{opener: d.opener} }

// AppleNotes hands the note to the Shortcuts app.
func (d *Dispatcher) AppleNotes() Action { return appleNotesAction{opener: d.opener, d: d} }

// Notion creates a page through the relay using creds.
func (d *Dispatcher) Notion(creds core.NotionCredentials) Action {
	return notionAction{relay: d.notion, creds: creds}
}

// Calendar saves an .ics event for the note's reminder.
func (d *Dispatcher) Calendar() Action { return calendarAction{files: d.files, d: d} }

// Actions resolves action names in order. Unknown names are an error.
func (d *Dispatcher) Actions(names []string, creds core.NotionCredentials) ([]Action, error) {
	var actions []Action
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case "":
			continue
		case ActionClipboard, "copy":
			actions = append(actions, d.Clipboard())
		case ActionDownload, "file":
			actions = append(actions, d.Download())
		case ActionMail, "email":
			actions = append(actions, d.Mail())
		case ActionAppleNotes, "apple_notes", "apple-notes":
			actions = append(actions, d.AppleNotes())
		case ActionNotion:
			actions = append(actions, d.Notion(creds))
		case ActionCalendar, "ics":
			actions = append(actions, d.Calendar())
		default:
			return nil, fmt.Errorf("unknown action %q", raw)
		}
	}
	return actions, nil
}

// Run executes actions in order and returns one result per action.
// Cancelling ctx fails the remaining steps without running them.
func (d *Dispatcher) Run(ctx context.Context, note core.RenderedNote, actions ...Action) []core.Result {
	results := make([]core.Result, 0, len(actions))
	for i, action := range actions {
		if err := ctx.Err(); err != nil {
			for _, rest := range actions[i:] {
				results = append(results, core.Failed(rest.Name(), err))
			}
			break
		}

		res := action.Run(ctx, note)
		d.logger.Debug("export step finished", "note", note.ID, "action", res.Action, "status", res.Status.String(), "reason", res.Reason)
		results = append(results, res)

		if h, ok := action.(handoff); ok && h.Handoff() && res.Status == core.StatusOK && i < len(actions)-1 {
			d.wait(ctx)
		}
	}

	d.record(results)
	return results
}

// AutoSend exports a completed note to the connected destination. A reminder
// goes to the calendar first. It runs at most once per note ID; later calls
// return nil.
func (d *Dispatcher) AutoSend(ctx context.Context, note core.RenderedNote, pref core.ConnectionPreference, creds core.NotionCredentials) []core.Result {
	var actions []Action
	switch pref.Destination {
	case core.DestinationAppleNotes:
		actions = append(actions, d.AppleNotes())
	case core.DestinationNotion:
		actions = append(actions, d.Notion(creds))
	default:
		return nil
	}
	if note.HasReminder() {
		actions = append([]Action{d.Calendar()}, actions...)
	}

	if note.ID != "" {
		d.mu.Lock()
		if _, done := d.sent[note.ID]; done {
			d.mu.Unlock()
			d.logger.Debug("auto-send skipped, already sent", "note", note.ID)
			return nil
		}
		d.sent[note.ID] = struct{}{}
		d.mu.Unlock()
	}

	d.logger.Info("auto-sending note", "note", note.ID, "destination", pref.Destination.String())
	return d.Run(ctx, note, actions...)
}

func (d *Dispatcher) wait(ctx context.Context) {
	if d.settle <= 0 {
		return
	}
	t := time.NewTimer(d.settle)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (d *Dispatcher) record(results []core.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.runs++
	for _, r := range results {
		d.counts[r.Status]++
	}
	d.last = append(d.last[:0:0], results...)
}
