// Package snapshot defines the wire records shared by the persistence adapters.
package snapshot

import (
	"fmt"
	"time"

	"github.com/aretw0/rolodex/pkg/core"
	"github.com/samber/lo"
)

// Version is the current snapshot document version.
const Version = 1

// ContactRecord is the stored form of a core.Contact.
type ContactRecord struct {
	ID    int    `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Notes string `json:"notes" yaml:"notes"`
}

// MeetingRecord is the stored form of a core.Meeting.
// Date is kept as RFC3339Nano text so every encoder round-trips it exactly.
// Notes stays a pointer: an absent field and an empty string are different states.
type MeetingRecord struct {
	ID           int     `json:"id" yaml:"id"`
	Date         string  `json:"date" yaml:"date"`
	Participants []int   `json:"participants" yaml:"participants"`
	Notes        *string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Document is a full snapshot as written to a single file.
type Document struct {
	Version  int             `json:"version" yaml:"version"`
	Contacts []ContactRecord `json:"contacts" yaml:"contacts"`
	Meetings []MeetingRecord `json:"meetings" yaml:"meetings"`
}

// FromContact converts a domain contact.
func FromContact(c core.Contact) ContactRecord {
	return ContactRecord{ID: c.ID, Name: c.Name, Notes: c.Notes}
}

// ToContact converts a stored contact.
func ToContact(r ContactRecord) core.Contact {
	return core.Contact{ID: r.ID, Name: r.Name, Notes: r.Notes}
}

// FromMeeting converts a domain meeting.
func FromMeeting(m core.Meeting) MeetingRecord {
	return MeetingRecord{
		ID:           m.ID,
		Date:         m.Date.Format(time.RFC3339Nano),
		Participants: append([]int(nil), m.Participants...),
		Notes:        m.Notes,
	}
}

// ToMeeting converts a stored meeting.
func ToMeeting(r MeetingRecord) (core.Meeting, error) {
	date, err := time.Parse(time.RFC3339Nano, r.Date)
	if err != nil {
		return core.Meeting{}, fmt.Errorf("meeting %d: invalid date %q: %w", r.ID, r.Date, err)
	}
	return core.Meeting{
		ID:           r.ID,
		Date:         date,
		Participants: append([]int(nil), r.Participants...),
		Notes:        r.Notes,
	}, nil
}

// FromCore builds a Document from a snapshot.
func FromCore(s core.Snapshot) Document {
	return Document{
		Version:  Version,
		Contacts: lo.Map(s.Contacts, func(c core.Contact, _ int) ContactRecord { return FromContact(c) }),
		Meetings: lo.Map(s.Meetings, func(m core.Meeting, _ int) MeetingRecord { return FromMeeting(m) }),
	}
}

// ToCore converts a Document back into a snapshot.
func ToCore(d Document) (core.Snapshot, error) {
	if d.Version > Version {
		return core.Snapshot{}, fmt.Errorf("unsupported snapshot version %d", d.Version)
	}

	meetings := make([]core.Meeting, 0, len(d.Meetings))
	for _, r := range d.Meetings {
		m, err := ToMeeting(r)
		if err != nil {
			return core.Snapshot{}, err
		}
		meetings = append(meetings, m)
	}
	return core.Snapshot{
		Contacts: lo.Map(d.Contacts, func(r ContactRecord, _ int) core.Contact { return ToContact(r) }),
		Meetings: meetings,
	}, nil
}
