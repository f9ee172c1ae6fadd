// Package ics renders meetings as an iCalendar feed.
package ics

import (
	"fmt"
	"io"
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/aretw0/rolodex/pkg/core"
)

// ProductID identifies the generator in exported calendars.
const ProductID = "-//aretw0//rolodex//EN"

// DefaultDuration is the event length used for meetings, which carry only a start time.
const DefaultDuration = time.Hour

// uidSpace namespaces meeting UIDs so exports are stable across runs.
var uidSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/aretw0/rolodex/meetings"))

// Exporter converts meetings to VEVENTs. Participants are resolved through Contacts.
type Exporter struct {
	Contacts func(ids ...int) ([]core.Contact, error)
	Clock    core.Clock
	Duration time.Duration
}

// UID returns the stable iCalendar UID of a meeting.
func UID(meetingID int) string {
	return uuid.NewSHA1(uidSpace, []byte(strconv.Itoa(meetingID))).String()
}

// Export writes the meetings as a VCALENDAR to w.
func (e Exporter) Export(w io.Writer, meetings []core.Meeting) error {
	clock := e.Clock
	if clock == nil {
		clock = core.SystemClock
	}
	duration := e.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}
	now := clock.Now()

	cal := ical.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ical.MethodPublish)

	for _, m := range meetings {
		event := cal.AddEvent(UID(m.ID))
		event.SetDtStampTime(now)
		event.SetStartAt(m.Date)
		event.SetEndAt(m.Date.Add(duration))
		event.SetSummary(fmt.Sprintf("Meeting #%d", m.ID))
		if m.Notes != nil && *m.Notes != "" && core.Classify(m.Date, now) == core.Past {
			event.SetDescription(*m.Notes)
		}

		if e.Contacts == nil {
			continue
		}
		contacts, err := e.Contacts(m.Participants...)
		if err != nil {
			return fmt.Errorf("meeting %d: %w", m.ID, err)
		}
		for _, c := range contacts {
			event.AddAttendee(fmt.Sprintf("contact-%d@rolodex.invalid", c.ID), ical.WithCN(c.Name))
		}
	}

	return cal.SerializeTo(w)
}
