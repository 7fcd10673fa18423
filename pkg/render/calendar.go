package render

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

// EventDuration is the fixed length of a reminder event.
const EventDuration = time.Hour

// Calendar builds a single-event iCalendar file starting at the note's
// reminder. Timestamps are written in UTC (yyyyMMddTHHmmssZ).
func Calendar(n core.RenderedNote, now time.Time) ([]byte, error) {
	if !n.HasReminder() {
		return nil, core.ErrNoReminder
	}

	cal := ics.NewCalendarFor("Chaos Captain")
	cal.SetMethod(ics.MethodPublish)

	ev := cal.AddEvent(fmt.Sprintf("%d@chaoscaptain", now.UnixMilli()))
	ev.SetDtStampTime(now)
	ev.SetStartAt(n.Reminder)
	ev.SetEndAt(n.Reminder.Add(EventDuration))
	ev.SetSummary(n.Title)
	ev.SetDescription(n.Body)

	return []byte(cal.Serialize()), nil
}
