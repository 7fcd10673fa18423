// Package render turns captured answers into the note body and the calendar
// payload. Everything here is pure apart from the clock value passed in.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
	"github.com/chaoscaptain/chaoscaptain/pkg/reminder"
)

const (
	// DefaultTitle is used when the first line of What is blank.
	DefaultTitle = "Note"
	// Footer closes every note.
	Footer = "Created with Chaos Captain"

	capturedLayout = "Monday, January 2, 2006"
)

// Render derives the note for a. ID is left empty; the flow assigns it.
//
// The title is the first line of What and is written once, as the first line
// of both bodies. Later lines of What and the Why answer are copied verbatim,
// so text that repeats the title there shows up again as content.
func Render(a core.CaptureAnswers, now time.Time) core.RenderedNote {
	title, rest := splitWhat(a.What)
	tags := normalizeTags(a.Tags)
	when := strings.TrimSpace(a.When)

	n := core.RenderedNote{
		Title:         title,
		Tags:          tags,
		ReminderLabel: when,
		CapturedAt:    now,
		Answers:       a.Clone(),
	}
	if when != "" {
		r := reminder.Resolve(when, now)
		n.Reminder = r.At
		n.Someday = r.Someday
	}

	n.Body = compose(n, rest, strings.TrimSpace(a.Why), false)
	n.Markdown = compose(n, rest, strings.TrimSpace(a.Why), true)
	return n
}

func splitWhat(what string) (title, rest string) {
	first, remainder, _ := strings.Cut(strings.TrimLeft(what, "\r\n"), "\n")
	title = strings.TrimSpace(first)
	if title == "" {
		title = DefaultTitle
	}
	return title, strings.TrimSpace(remainder)
}

func compose(n core.RenderedNote, rest, why string, markdown bool) string {
	var b strings.Builder

	if markdown {
		b.WriteString("# ")
	}
	b.WriteString(n.Title)
	b.WriteString("\n\n")

	if rest != "" {
		b.WriteString(rest)
		b.WriteString("\n\n")
	}

	if why != "" {
		if markdown {
			b.WriteString("## ")
		}
		b.WriteString("Why It Matters\n")
		if markdown {
			b.WriteString("\n")
		}
		b.WriteString(why)
		b.WriteString("\n\n")
	}

	if n.ReminderLabel != "" {
		fmt.Fprintf(&b, "Reminder: %s\n", n.ReminderLabel)
	}
	if len(n.Tags) > 0 {
		b.WriteString(strings.Join(n.Tags, " "))
		b.WriteString("\n")
	}
	if n.ReminderLabel != "" || len(n.Tags) > 0 {
		b.WriteString("\n")
	}

	if markdown {
		b.WriteString("---\n\n")
	}
	fmt.Fprintf(&b, "Captured: %s\n", n.CapturedAt.Format(capturedLayout))
	if markdown {
		b.WriteString("*" + Footer + "*\n")
	} else {
		b.WriteString(Footer + "\n")
	}
	return b.String()
}

// FileName builds the download name for an export, e.g. chaos-captain-1760000000000.md.
func FileName(ext string, now time.Time) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("chaos-captain-%d%s", now.UnixMilli(), ext)
}
