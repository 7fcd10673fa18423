// Package core holds the capture domain: answers, rendered notes, destinations
// and the ports the rest of the module talks through.
package core

import (
	"fmt"
	"strings"
	"time"
)

// CaptureAnswers is what the guided flow collects for a single note.
// Tags is an ordered set; use render.AddTag to keep it de-duplicated.
type CaptureAnswers struct {
	What string   `json:"what" yaml:"what"`
	Why  string   `json:"why" yaml:"why"`
	When string   `json:"when" yaml:"when"`
	Tags []string `json:"tags" yaml:"tags"`
}

// IsZero reports whether nothing has been captured yet.
func (a CaptureAnswers) IsZero() bool {
	return a.What == "" && a.Why == "" && a.When == "" && len(a.Tags) == 0
}

// Clone returns a copy that does not share the tag slice.
func (a CaptureAnswers) Clone() CaptureAnswers {
	out := a
	if a.Tags != nil {
		out.Tags = append([]string(nil), a.Tags...)
	}
	return out
}

// Destination is an external app a note can be sent to automatically.
type Destination int

const (
	DestinationNone Destination = iota
	DestinationAppleNotes
	DestinationNotion
)

// String returns the wire name stored in the preferences record.
func (d Destination) String() string {
	switch d {
	case DestinationAppleNotes:
		return "apple_notes"
	case DestinationNotion:
		return "notion"
	default:
		return ""
	}
}

// Label is the human readable name.
func (d Destination) Label() string {
	switch d {
	case DestinationAppleNotes:
		return "Apple Notes"
	case DestinationNotion:
		return "Notion"
	default:
		return "none"
	}
}

// ParseDestination accepts wire names and a few CLI friendly aliases.
func ParseDestination(s string) (Destination, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return DestinationNone, nil
	case "apple_notes", "notes", "apple-notes", "applenotes":
		return DestinationAppleNotes, nil
	case "notion":
		return DestinationNotion, nil
	}
	return DestinationNone, fmt.Errorf("%w: %q", ErrUnknownDestination, s)
}

// ConnectionPreference is the user's default export destination.
type ConnectionPreference struct {
	Destination  Destination
	ConfiguredAt time.Time
}

// Connected reports whether an auto-send destination is configured.
func (p ConnectionPreference) Connected() bool {
	return p.Destination != DestinationNone
}

func (p ConnectionPreference) String() string {
	if !p.Connected() {
		return "not connected"
	}
	if p.ConfiguredAt.IsZero() {
		return p.Destination.Label()
	}
	return fmt.Sprintf("%s (since %s)", p.Destination.Label(), p.ConfiguredAt.Format(time.RFC3339))
}

// NotionCredentials are kept client side only.
type NotionCredentials struct {
	APIKey     string `json:"apiKey" yaml:"notion_api_key"`
	DatabaseID string `json:"databaseId" yaml:"notion_database_id"`
}

// Complete reports whether both values are present.
func (c NotionCredentials) Complete() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.DatabaseID) != ""
}

// OnboardingStatus mirrors the first-run flag.
type OnboardingStatus string

const (
	OnboardingPending  OnboardingStatus = ""
	OnboardingComplete OnboardingStatus = "complete"
	OnboardingSkipped  OnboardingStatus = "skipped"
)

// Done reports whether onboarding should not be shown again.
func (s OnboardingStatus) Done() bool {
	return s == OnboardingComplete || s == OnboardingSkipped
}
