package core

import "time"

// Metadata represents the frontmatter stored alongside an archived note.
type Metadata map[string]any

// RenderedNote is derived from CaptureAnswers and never mutated.
type RenderedNote struct {
	ID            string
	Title         string
	Body          string // plain text, used for clipboard, Notes and Notion
	Markdown      string // used for downloads and mail
	Tags          []string
	ReminderLabel string
	Reminder      time.Time
	Someday       bool
	CapturedAt    time.Time
	Answers       CaptureAnswers
}

// HasReminder reports whether a calendar event can be produced.
func (n RenderedNote) HasReminder() bool {
	return n.ReminderLabel != "" && !n.Someday && !n.Reminder.IsZero()
}

// Document is an archived note on disk.
type Document struct {
	ID       string
	Content  string
	Metadata Metadata
}
