// Package core holds the contact and meeting domain of rolodex.
package core

import (
	"slices"
	"time"
)

// NotesDelimiter separates successive note fragments on a meeting.
const NotesDelimiter = "\n"

// MinYear and MaxYear bound meeting dates, read in the date's own location.
const (
	MinYear = 1
	MaxYear = 9999
)

// Contact is a person known to the registry.
// Contacts are immutable once created.
type Contact struct {
	ID    int
	Name  string
	Notes string
}

// Meeting is a gathering of contacts at a point in time.
// It carries no past/future tag: classification is derived from Date
// against the clock every time the meeting is read.
type Meeting struct {
	ID           int
	Date         time.Time
	Participants []int   // ascending, duplicate free
	Notes        *string // nil when no notes were ever recorded
}

// HasParticipant reports whether the contact id attends the meeting.
func (m Meeting) HasParticipant(id int) bool {
	_, found := slices.BinarySearch(m.Participants, id)
	return found
}

// NotesText returns the notes or an empty string when there are none.
func (m Meeting) NotesText() string {
	if m.Notes == nil {
		return ""
	}
	return *m.Notes
}

// clone returns a deep copy so callers never alias store internals.
func (m Meeting) clone() Meeting {
	out := m
	out.Participants = slices.Clone(m.Participants)
	if m.Notes != nil {
		notes := *m.Notes
		out.Notes = &notes
	}
	return out
}

// Classification is the derived temporal status of a meeting.
type Classification string

const (
	Future Classification = "future"
	Past   Classification = "past"
)

// Classify returns Past iff date is strictly before now.
// A meeting scheduled exactly at now is still Future.
func Classify(date, now time.Time) Classification {
	if date.Before(now) {
		return Past
	}
	return Future
}

// Snapshot is the flat state exchanged with a Repository.
type Snapshot struct {
	Contacts []Contact
	Meetings []Meeting
}
