package export

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
	"github.com/chaoscaptain/chaoscaptain/pkg/render"
)

// Action names, also accepted by Dispatcher.Actions.
const (
	ActionClipboard  = "clipboard"
	ActionDownload   = "download"
	ActionMail       = "mail"
	ActionAppleNotes = "notes"
	ActionNotion     = "notion"
	ActionCalendar   = "calendar"
)

const (
	// MailSubject is the subject of mail handoffs.
	MailSubject = "Chaos Captain Note"
	// ShortcutName is the Shortcuts shortcut that appends to Apple Notes.
	ShortcutName = "Chaos Captain to Notes"
	// ShortcutInstallURL installs ShortcutName on the device.
	ShortcutInstallURL = "https://www.icloud.com/shortcuts/d5e655c0e0e345908656aa098a81a1e2"
)

// Action is one export destination.
type Action interface {
	Name() string
	Run(ctx context.Context, note core.RenderedNote) core.Result
}

// handoff is implemented by actions that pass a URL to another app. The
// dispatcher lets the platform settle after them.
type handoff interface {
	Handoff() bool
}

// encodeComponent escapes s for a URL query value using %20 for spaces.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// MailURL builds the mailto handoff for body.
func MailURL(body string) string {
	return "mailto:?subject=" + encodeComponent(MailSubject) + "&body=" + encodeComponent(body)
}

// AppleNotesURL builds the Shortcuts handoff for text.
func AppleNotesURL(text string) string {
	return "shortcuts://x-callback-url/run-shortcut?name=" + encodeComponent(ShortcutName) + "&input=" + encodeComponent(text)
}

type clipboardAction struct {
	clipboard core.Clipboard
}

func (a clipboardAction) Name() string { return ActionClipboard }

func (a clipboardAction) Run(ctx context.Context, note core.RenderedNote) core.Result {
	if a.clipboard == nil {
		return core.Unavailable(a.Name(), core.ErrUnavailable)
	}
	if err := a.clipboard.WriteText(ctx, note.Body); err != nil {
		return core.Failed(a.Name(), fmt.Errorf("failed to copy note: %w", err))
	}
	return core.OK(a.Name())
}

type downloadAction struct {
	files core.FileSaver
}

func (a downloadAction) Name() string { return ActionDownload }

func (a downloadAction) Run(ctx context.Context, note core.RenderedNote) core.Result {
	if a.files == nil {
		return core.Unavailable(a.Name(), core.ErrUnavailable)
	}
	path, err := a.files.SaveFile(ctx, render.FileName(".md", note.CapturedAt), []byte(note.Markdown))
	if err != nil {
		return core.Failed(a.Name(), fmt.Errorf("failed to save note: %w", err))
	}
	return core.OK(a.Name()).WithDetail(path)
}

type mailAction struct {
	opener core.URLOpener
}

func (a mailAction) Name() string  { return ActionMail }
func (a mailAction) Handoff() bool { return true }

// Run is fire-and-forget: delivery is up to the mail client.
func (a mailAction) Run(ctx context.Context, note core.RenderedNote) core.Result {
	if a.opener == nil {
		return core.Unavailable(a.Name(), core.ErrUnavailable)
	}
	if err := a.opener.Open(ctx, MailURL(note.Markdown)); err != nil {
		return core.Failed(a.Name(), fmt.Errorf("failed to open mail client: %w", err))
	}
	return core.OK(a.Name())
}

type appleNotesAction struct {
	opener core.URLOpener
	d      *Dispatcher
}

func (a appleNotesAction) Name() string  { return ActionAppleNotes }
func (a appleNotesAction) Handoff() bool { return true }

// Run never reports Failed: without Shortcuts the destination is simply
// unavailable on this machine.
func (a appleNotesAction) Run(ctx context.Context, note core.RenderedNote) core.Result {
	if a.opener == nil {
		return core.Unavailable(a.Name(), core.ErrUnavailable)
	}
	if err := a.opener.Open(ctx, AppleNotesURL(note.Body)); err != nil {
		a.d.logger.Warn("apple notes handoff failed", "error", err)
		return core.Unavailable(a.Name(), fmt.Errorf("%w: %v", core.ErrUnavailable, err))
	}
	return core.OK(a.Name())
}

type notionAction struct {
	relay core.NotionRelay
	creds core.NotionCredentials
}

func (a notionAction) Name() string { return ActionNotion }

func (a notionAction) Run(ctx context.Context, note core.RenderedNote) core.Result {
	if !a.creds.Complete() {
		return core.Unavailable(a.Name(), core.ErrMissingCredentials)
	}
	if a.relay == nil {
		return core.Unavailable(a.Name(), core.ErrUnavailable)
	}
	page := core.NotionPage{
		APIKey:     strings.TrimSpace(a.creds.APIKey),
		DatabaseID: strings.TrimSpace(a.creds.DatabaseID),
		Title:      note.Title,
		Content:    note.Body,
		Tags:       append([]string{}, note.Tags...),
	}
	if err := a.relay.CreatePage(ctx, page); err != nil {
		return core.Classify(a.Name(), fmt.Errorf("failed to send to Notion: %w", err))
	}
	return core.OK(a.Name())
}

type calendarAction struct {
	files core.FileSaver
	d     *Dispatcher
}

func (a calendarAction) Name() string { return ActionCalendar }

func (a calendarAction) Run(ctx context.Context, note core.RenderedNote) core.Result {
	if !note.HasReminder() {
		return core.Unavailable(a.Name(), core.ErrNoReminder)
	}
	if a.files == nil {
		return core.Unavailable(a.Name(), core.ErrUnavailable)
	}
	data, err := render.Calendar(note, a.d.now())
	if err != nil {
		return core.Failed(a.Name(), err)
	}
	path, err := a.files.SaveFile(ctx, render.FileName(".ics", note.CapturedAt), data)
	if err != nil {
		return core.Failed(a.Name(), fmt.Errorf("failed to save calendar event: %w", err))
	}
	return core.OK(a.Name()).WithDetail(path)
}
