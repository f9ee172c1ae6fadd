package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Service composes the contact registry and the meeting store into one API
// and persists the state through a Repository after every mutation.
//
// Service does not lock: at most one caller may use it at a time.
type Service struct {
	repo     Repository
	clock    Clock
	logger   *slog.Logger
	readOnly bool

	contacts *Registry
	meetings *MeetingStore
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the clock used for classification.
func WithClock(c Clock) ServiceOption {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReadOnly rejects every mutation with ErrReadOnly.
func WithReadOnly(enabled bool) ServiceOption {
	return func(s *Service) {
		s.readOnly = enabled
	}
}

// NewService creates an empty Service. repo may be nil for a purely in-memory service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		clock:  SystemClock,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.contacts = NewRegistry()
	s.meetings = NewMeetingStore(s.contacts, s.clock)
	return s
}

// Open creates a Service restored from the repository's last snapshot.
func Open(ctx context.Context, repo Repository, opts ...ServiceOption) (*Service, error) {
	s := NewService(repo, opts...)
	if repo == nil {
		return s, nil
	}

	snap, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load: %w", ErrPersistence, err)
	}
	if err := s.restore(snap); err != nil {
		return nil, err
	}
	s.logger.Debug("state loaded", "contacts", len(snap.Contacts), "meetings", len(snap.Meetings))
	return s, nil
}

func (s *Service) restore(snap Snapshot) error {
	contacts, err := RestoreRegistry(snap.Contacts)
	if err != nil {
		return fmt.Errorf("restore contacts: %w", err)
	}
	meetings, err := RestoreMeetingStore(contacts, s.clock, snap.Meetings)
	if err != nil {
		return fmt.Errorf("restore meetings: %w", err)
	}
	s.contacts, s.meetings = contacts, meetings
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() Snapshot {
	contacts, _ := s.contacts.GetContacts()
	return Snapshot{Contacts: contacts, Meetings: s.meetings.Meetings()}
}

// Flush writes the current state to the repository.
func (s *Service) Flush(ctx context.Context) error {
	if s.repo == nil || s.readOnly {
		return nil
	}
	if err := s.repo.Save(ctx, s.Snapshot()); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// Close flushes pending state and releases repository resources.
func (s *Service) Close(ctx context.Context) error {
	if err := s.Flush(ctx); err != nil {
		return err
	}
	if c, ok := s.repo.(Closer); ok {
		return c.Close()
	}
	return nil
}

// mutate applies fn and persists the result under the given change reason.
// On a persistence failure the in-memory state is put back as it was.
func (s *Service) mutate(ctx context.Context, reason string, fn func() error) error {
	if s.readOnly {
		return ErrReadOnly
	}
	if val, ok := ctx.Value(ChangeReasonKey).(string); !ok || val == "" {
		ctx = context.WithValue(ctx, ChangeReasonKey, reason)
	}

	before := s.Snapshot()
	if err := fn(); err != nil {
		return err
	}
	if err := s.Flush(ctx); err != nil {
		if rerr := s.restore(before); rerr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rerr)
		}
		s.logger.Error("mutation rolled back", "reason", reason, "error", err)
		return err
	}
	s.logger.Debug("mutation applied", "reason", reason)
	return nil
}

// AddContact registers a contact.
func (s *Service) AddContact(ctx context.Context, name, notes string) (int, error) {
	var id int
	err := s.mutate(ctx, "feat(contacts): add contact", func() (err error) {
		id, err = s.contacts.AddContact(name, notes)
		return err
	})
	return id, err
}

// GetContacts returns the given contacts, or all of them when no id is passed.
func (s *Service) GetContacts(ids ...int) ([]Contact, error) {
	return s.contacts.GetContacts(ids...)
}

// FindContacts returns contacts whose name contains name.
func (s *Service) FindContacts(name string) []Contact {
	return s.contacts.FindContacts(name)
}

// AddFutureMeeting schedules a meeting.
func (s *Service) AddFutureMeeting(ctx context.Context, participants []int, date time.Time) (int, error) {
	var id int
	err := s.mutate(ctx, "feat(meetings): add future meeting", func() (err error) {
		id, err = s.meetings.AddFutureMeeting(participants, date)
		return err
	})
	return id, err
}

// AddPastMeeting records a meeting that already happened.
func (s *Service) AddPastMeeting(ctx context.Context, participants []int, date time.Time, notes string) (int, error) {
	var id int
	err := s.mutate(ctx, "feat(meetings): add past meeting", func() (err error) {
		id, err = s.meetings.AddPastMeeting(participants, date, notes)
		return err
	})
	return id, err
}

// AddMeetingNotes appends notes to a concluded meeting.
func (s *Service) AddMeetingNotes(ctx context.Context, id int, notes string) error {
	return s.mutate(ctx, "feat(meetings): add meeting notes", func() error {
		return s.meetings.AddMeetingNotes(id, notes)
	})
}

// GetMeeting returns any meeting by id.
func (s *Service) GetMeeting(id int) (Meeting, bool) {
	return s.meetings.GetMeeting(id)
}

// GetFutureMeeting returns an upcoming meeting.
func (s *Service) GetFutureMeeting(id int) (Meeting, error) {
	return s.meetings.GetFutureMeeting(id)
}

// GetPastMeeting returns a concluded meeting.
func (s *Service) GetPastMeeting(id int) (Meeting, error) {
	return s.meetings.GetPastMeeting(id)
}

// GetFutureMeetingList returns a contact's upcoming meetings.
func (s *Service) GetFutureMeetingList(contact *Contact) ([]Meeting, error) {
	return s.meetings.GetFutureMeetingList(contact)
}

// GetPastMeetingListFor returns a contact's concluded meetings.
func (s *Service) GetPastMeetingListFor(contact *Contact) ([]Meeting, error) {
	return s.meetings.GetPastMeetingListFor(contact)
}

// GetMeetingListOn returns the meetings held on a calendar day.
func (s *Service) GetMeetingListOn(day time.Time) ([]Meeting, error) {
	return s.meetings.GetMeetingListOn(day)
}

// Now returns the moment the service classifies against.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}
