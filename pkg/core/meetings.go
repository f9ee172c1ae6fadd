package core

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
)

// ContactDirectory answers whether a contact id resolves.
type ContactDirectory interface {
	Exists(id int) bool
}

// MeetingStore owns every meeting record and classifies them against the
// clock at read time. It is not safe for concurrent use.
type MeetingStore struct {
	contacts ContactDirectory
	clock    Clock
	meetings map[int]*Meeting
	nextID   int
}

// NewMeetingStore creates an empty store validating participants against contacts.
// A nil clock means SystemClock.
func NewMeetingStore(contacts ContactDirectory, clock Clock) *MeetingStore {
	if clock == nil {
		clock = SystemClock
	}
	return &MeetingStore{
		contacts: contacts,
		clock:    clock,
		meetings: make(map[int]*Meeting),
		nextID:   1,
	}
}

// RestoreMeetingStore rebuilds a store from persisted meetings.
// Temporal rules are not re-checked: a restored future meeting may have elapsed.
func RestoreMeetingStore(contacts ContactDirectory, clock Clock, meetings []Meeting) (*MeetingStore, error) {
	s := NewMeetingStore(contacts, clock)
	for _, m := range meetings {
		if m.ID <= 0 {
			return nil, fmt.Errorf("%w: meeting id %d", ErrInvalidArgument, m.ID)
		}
		if _, dup := s.meetings[m.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate meeting id %d", ErrInvalidArgument, m.ID)
		}
		participants, err := s.participants(m.Participants)
		if err != nil {
			return nil, fmt.Errorf("meeting %d: %w", m.ID, err)
		}
		restored := m.clone()
		restored.Participants = participants
		s.meetings[m.ID] = &restored
		s.nextID = max(s.nextID, m.ID+1)
	}
	return s, nil
}

// AddFutureMeeting schedules a meeting strictly after now and returns its id.
func (s *MeetingStore) AddFutureMeeting(participants []int, date time.Time) (int, error) {
	if participants == nil || date.IsZero() {
		return 0, fmt.Errorf("%w: participants and date are required", ErrNullReference)
	}
	if err := checkYear(date); err != nil {
		return 0, err
	}
	ids, err := s.participants(participants)
	if err != nil {
		return 0, err
	}
	if now := s.clock.Now(); !date.After(now) {
		return 0, fmt.Errorf("%w: %s is not in the future", ErrInvalidArgument, date.Format(time.RFC3339Nano))
	}
	return s.insert(Meeting{Date: date, Participants: ids}), nil
}

// AddPastMeeting records a meeting strictly before now, with its notes, and returns its id.
func (s *MeetingStore) AddPastMeeting(participants []int, date time.Time, notes string) (int, error) {
	if participants == nil || date.IsZero() {
		return 0, fmt.Errorf("%w: participants and date are required", ErrNullReference)
	}
	if notes == "" {
		return 0, fmt.Errorf("%w: notes must not be empty", ErrInvalidArgument)
	}
	if err := checkYear(date); err != nil {
		return 0, err
	}
	ids, err := s.participants(participants)
	if err != nil {
		return 0, err
	}
	if now := s.clock.Now(); !date.Before(now) {
		return 0, fmt.Errorf("%w: %s is not in the past", ErrInvalidArgument, date.Format(time.RFC3339Nano))
	}
	return s.insert(Meeting{Date: date, Participants: ids, Notes: &notes}), nil
}

// GetMeeting returns the meeting regardless of its classification.
// A meeting that is future right now never exposes notes, even if a restored
// snapshot carried some.
func (s *MeetingStore) GetMeeting(id int) (Meeting, bool) {
	m, ok := s.meetings[id]
	if !ok {
		return Meeting{}, false
	}
	return view(*m, s.clock.Now()), true
}

// GetFutureMeeting returns the meeting if it is still upcoming.
func (s *MeetingStore) GetFutureMeeting(id int) (Meeting, error) {
	m, err := s.lookup(id)
	if err != nil {
		return Meeting{}, err
	}
	if Classify(m.Date, s.clock.Now()) != Future {
		return Meeting{}, fmt.Errorf("%w: meeting %d has already happened", ErrInvalidState, id)
	}
	return asFuture(*m), nil
}

// GetPastMeeting returns the meeting if it has concluded.
func (s *MeetingStore) GetPastMeeting(id int) (Meeting, error) {
	m, err := s.lookup(id)
	if err != nil {
		return Meeting{}, err
	}
	if Classify(m.Date, s.clock.Now()) != Past {
		return Meeting{}, fmt.Errorf("%w: meeting %d has not happened yet", ErrInvalidState, id)
	}
	return asPast(*m), nil
}

// GetFutureMeetingList returns the upcoming meetings of a contact, earliest first.
func (s *MeetingStore) GetFutureMeetingList(contact *Contact) ([]Meeting, error) {
	return s.listFor(contact, Future)
}

// GetPastMeetingListFor returns the concluded meetings of a contact, earliest first.
func (s *MeetingStore) GetPastMeetingListFor(contact *Contact) ([]Meeting, error) {
	return s.listFor(contact, Past)
}

// GetMeetingListOn returns every meeting on the calendar day of the given date,
// evaluated in that date's location, ordered by time of day.
func (s *MeetingStore) GetMeetingListOn(day time.Time) ([]Meeting, error) {
	if day.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrNullReference)
	}
	y, mo, d := day.Date()
	loc := day.Location()
	now := s.clock.Now()

	matches := lo.Filter(lo.Values(s.meetings), func(m *Meeting, _ int) bool {
		my, mmo, md := m.Date.In(loc).Date()
		return my == y && mmo == mo && md == d
	})
	return sortMeetings(lo.Map(matches, func(m *Meeting, _ int) Meeting {
		return view(*m, now)
	})), nil
}

// AddMeetingNotes appends notes to a concluded meeting.
func (s *MeetingStore) AddMeetingNotes(id int, notes string) error {
	if notes == "" {
		return fmt.Errorf("%w: notes are required", ErrNullReference)
	}
	m, err := s.lookup(id)
	if err != nil {
		return err
	}
	if Classify(m.Date, s.clock.Now()) != Past {
		return fmt.Errorf("%w: meeting %d has not happened yet", ErrInvalidState, id)
	}

	if m.Notes == nil {
		m.Notes = &notes
		return nil
	}
	joined := *m.Notes + NotesDelimiter + notes
	m.Notes = &joined
	return nil
}

// Meetings returns every meeting ascending by id.
func (s *MeetingStore) Meetings() []Meeting {
	out := lo.Map(lo.Values(s.meetings), func(m *Meeting, _ int) Meeting { return m.clone() })
	slices.SortFunc(out, func(a, b Meeting) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Count returns how many meetings are future and past right now.
func (s *MeetingStore) Count() (future, past int) {
	now := s.clock.Now()
	for _, m := range s.meetings {
		if Classify(m.Date, now) == Past {
			past++
		} else {
			future++
		}
	}
	return future, past
}

func (s *MeetingStore) insert(m Meeting) int {
	m.ID = s.nextID
	s.meetings[m.ID] = &m
	s.nextID++
	return m.ID
}

func (s *MeetingStore) lookup(id int) (*Meeting, error) {
	m, ok := s.meetings[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown meeting id %d", ErrInvalidArgument, id)
	}
	return m, nil
}

// participants validates ids and returns them as a sorted set.
func (s *MeetingStore) participants(ids []int) ([]int, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: a meeting needs at least one participant", ErrInvalidArgument)
	}
	if unknown, found := lo.Find(ids, func(id int) bool { return !s.contacts.Exists(id) }); found {
		return nil, fmt.Errorf("%w: unknown contact id %d", ErrInvalidArgument, unknown)
	}
	set := lo.Uniq(ids)
	slices.Sort(set)
	return set, nil
}

func (s *MeetingStore) listFor(contact *Contact, want Classification) ([]Meeting, error) {
	if contact == nil {
		return nil, fmt.Errorf("%w: contact is required", ErrNullReference)
	}
	if !s.contacts.Exists(contact.ID) {
		return nil, fmt.Errorf("%w: unknown contact id %d", ErrInvalidArgument, contact.ID)
	}

	now := s.clock.Now()
	out := make([]Meeting, 0)
	for _, m := range s.meetings {
		if Classify(m.Date, now) != want || !m.HasParticipant(contact.ID) {
			continue
		}
		if want == Past {
			out = append(out, asPast(*m))
		} else {
			out = append(out, asFuture(*m))
		}
	}
	return sortMeetings(lo.UniqBy(out, func(m Meeting) int { return m.ID })), nil
}

// checkYear keeps dates within the four-digit years a snapshot can encode.
func checkYear(date time.Time) error {
	if y := date.Year(); y < MinYear || y > MaxYear {
		return fmt.Errorf("%w: year %d is outside %d-%d", ErrInvalidArgument, y, MinYear, MaxYear)
	}
	return nil
}

// view is the stored meeting as seen at now: future meetings hide notes.
func view(m Meeting, now time.Time) Meeting {
	if Classify(m.Date, now) == Future {
		return asFuture(m)
	}
	return m.clone()
}

func asFuture(m Meeting) Meeting {
	out := m.clone()
	out.Notes = nil
	return out
}

func asPast(m Meeting) Meeting {
	out := m.clone()
	if out.Notes == nil {
		empty := ""
		out.Notes = &empty
	}
	return out
}

// sortMeetings orders by date, then id.
func sortMeetings(meetings []Meeting) []Meeting {
	slices.SortStableFunc(meetings, func(a, b Meeting) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return meetings
}
