// Package reminder turns the "When should you revisit this?" answer into an
// absolute point in time.
package reminder

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/dustin/go-humanize"
)

// Fixed labels offered by the question flow.
const (
	LabelTomorrow  = "Tomorrow"
	LabelNextWeek  = "Next week"
	LabelNextMonth = "Next month"
	LabelSomeday   = "I'll find it when I need it"
)

// DefaultHour is the local hour relative labels resolve to.
const DefaultHour = 9

// Reminder is a resolved label.
type Reminder struct {
	Label   string
	At      time.Time
	Someday bool
}

var relativeRe = regexp.MustCompile(`^in\s+(\d+)\s+(day|week|month|year)s?$`)

// Labels returns the labels offered as quick answers.
func Labels() []string {
	return []string{LabelTomorrow, LabelNextWeek, LabelNextMonth, LabelSomeday}
}

// Resolve maps label to an absolute time in now's location. It never fails:
// anything it cannot understand resolves to tomorrow at DefaultHour.
func Resolve(label string, now time.Time) Reminder {
	r := Reminder{Label: label}
	key := strings.ToLower(strings.TrimSpace(label))

	switch key {
	case "tomorrow":
		r.At = atHour(now.AddDate(0, 0, 1))
		return r
	case "next week":
		r.At = atHour(now.AddDate(0, 0, 7))
		return r
	case "next month":
		r.At = atHour(now.AddDate(0, 1, 0))
		return r
	case strings.ToLower(LabelSomeday), "someday", "never", "":
		r.Someday = true
		r.At = atHour(now.AddDate(0, 0, 1))
		return r
	}

	if m := relativeRe.FindStringSubmatch(key); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			switch m[2] {
			case "day":
				r.At = atHour(now.AddDate(0, 0, n))
			case "week":
				r.At = atHour(now.AddDate(0, 0, 7*n))
			case "month":
				r.At = atHour(now.AddDate(0, n, 0))
			case "year":
				r.At = atHour(now.AddDate(n, 0, 0))
			}
			return r
		}
	}

	if t, ok := parseCustom(strings.TrimSpace(label), now.Location()); ok {
		if !strings.Contains(label, ":") {
			t = atHour(t)
		}
		r.At = t
		return r
	}

	r.At = atHour(now.AddDate(0, 0, 1))
	return r
}

// parseCustom wraps dateparse, which has panicked on odd inputs in the past.
func parseCustom(s string, loc *time.Location) (t time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	parsed, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func atHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), DefaultHour, 0, 0, 0, t.Location())
}

// Describe renders r relative to now, e.g. "Tomorrow (21 hours from now)".
func Describe(r Reminder, now time.Time) string {
	if r.Someday {
		return r.Label
	}
	return r.Label + " (" + humanize.RelTime(r.At, now, "ago", "from now") + ")"
}
