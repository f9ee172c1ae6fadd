package core_test

import (
	"testing"
	"time"

	"github.com/aretw0/rolodex/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualClock is a clock the test moves by hand.
type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var (
	testNow   = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	futureDay = time.Date(2027, time.May, 20, 0, 0, 0, 0, time.UTC)
	pastDay   = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
)

func at(day time.Time, hour int) time.Time {
	return day.Add(time.Duration(hour) * time.Hour)
}

func newStore(t *testing.T, contacts int) (*core.MeetingStore, *core.Registry, *manualClock) {
	t.Helper()
	reg := core.NewRegistry()
	for i := 0; i < contacts; i++ {
		_, err := reg.AddContact("contact", "notes")
		require.NoError(t, err)
	}
	clock := &manualClock{now: testNow}
	return core.NewMeetingStore(reg, clock), reg, clock
}

// seedMeetings creates twelve meetings spread over futureDay and pastDay.
func seedMeetings(t *testing.T, s *core.MeetingStore) {
	t.Helper()
	future := func(ids []int, date time.Time) {
		_, err := s.AddFutureMeeting(ids, date)
		require.NoError(t, err)
	}
	past := func(ids []int, date time.Time) {
		_, err := s.AddPastMeeting(ids, date, "minutes")
		require.NoError(t, err)
	}

	future([]int{1, 2, 3, 4}, at(futureDay, 9)) // 1
	past([]int{1, 2, 3, 4}, at(pastDay, 9))     // 2
	past([]int{1, 2}, at(pastDay, 11))          // 3
	future([]int{1, 3}, at(futureDay, 11))      // 4
	future([]int{1}, at(futureDay, 14))         // 5
	past([]int{1, 4}, at(pastDay, 14))          // 6
	future([]int{1, 2}, at(futureDay, 16))      // 7
	past([]int{1, 3}, at(pastDay, 16))          // 8
	future([]int{4, 5, 6}, at(futureDay, 10))   // 9
	future([]int{4}, at(futureDay, 34))         // 10, next day
	past([]int{4, 5, 6}, at(pastDay, 10))       // 11
	past([]int{5}, at(pastDay, -14))            // 12, previous day
}

func ids(meetings []core.Meeting) []int {
	out := make([]int, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, m.ID)
	}
	return out
}

func TestMeetingStore_AddFutureMeeting(t *testing.T) {
	s, _, clock := newStore(t, 3)

	id, err := s.AddFutureMeeting([]int{1, 2}, at(futureDay, 9))
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	id, err = s.AddFutureMeeting([]int{1}, clock.Now().Add(30*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	m, ok := s.GetMeeting(1)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, m.Participants)
	assert.True(t, m.Date.Equal(at(futureDay, 9)))
	assert.Nil(t, m.Notes)
}

func TestMeetingStore_AddFutureMeeting_Errors(t *testing.T) {
	s, _, clock := newStore(t, 3)

	tests := []struct {
		name         string
		participants []int
		date         time.Time
		want         error
	}{
		{"nil participants", nil, at(futureDay, 9), core.ErrNullReference},
		{"zero date", []int{1}, time.Time{}, core.ErrNullReference},
		{"nil participants and zero date", nil, time.Time{}, core.ErrNullReference},
		{"empty participants", []int{}, at(futureDay, 9), core.ErrInvalidArgument},
		{"past date", []int{1}, at(pastDay, 9), core.ErrInvalidArgument},
		{"exactly now", []int{1}, clock.Now(), core.ErrInvalidArgument},
		{"unknown contact", []int{1, 99}, at(futureDay, 9), core.ErrInvalidArgument},
		{"five digit year", []int{1}, time.Date(10000, time.January, 1, 0, 0, 0, 0, time.UTC), core.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddFutureMeeting(tt.participants, tt.date)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Empty(t, s.Meetings(), "failed calls must not store anything")

	id, err := s.AddFutureMeeting([]int{1}, at(futureDay, 9))
	require.NoError(t, err)
	assert.Equal(t, 1, id, "failed calls must not consume ids")
}

func TestMeetingStore_AddPastMeeting(t *testing.T) {
	s, _, clock := newStore(t, 3)

	id, err := s.AddPastMeeting([]int{3, 1, 3}, clock.Now().Add(-5*time.Millisecond), "hello")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	m, err := s.GetPastMeeting(id)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, m.Participants, "participants form a sorted set")
	require.NotNil(t, m.Notes)
	assert.Equal(t, "hello", *m.Notes)
}

func TestMeetingStore_AddPastMeeting_Errors(t *testing.T) {
	s, _, clock := newStore(t, 3)

	tests := []struct {
		name         string
		participants []int
		date         time.Time
		notes        string
		want         error
	}{
		{"nil participants", nil, at(pastDay, 9), "n", core.ErrNullReference},
		{"zero date", []int{1}, time.Time{}, "n", core.ErrNullReference},
		{"empty participants", []int{}, at(pastDay, 9), "n", core.ErrInvalidArgument},
		{"empty notes", []int{1}, at(pastDay, 9), "", core.ErrInvalidArgument},
		{"future date", []int{1}, at(futureDay, 9), "n", core.ErrInvalidArgument},
		{"exactly now", []int{1}, clock.Now(), "n", core.ErrInvalidArgument},
		{"unknown contact", []int{42}, at(pastDay, 9), "n", core.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddPastMeeting(tt.participants, tt.date, tt.notes)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, s.Meetings())
}

func TestMeetingStore_ClassifiedViews(t *testing.T) {
	s, _, _ := newStore(t, 3)

	futureID, err := s.AddFutureMeeting([]int{1, 2}, testNow.AddDate(1, 0, 0))
	require.NoError(t, err)
	pastID, err := s.AddPastMeeting([]int{1, 3}, testNow.AddDate(-1, 0, 0), "hello")
	require.NoError(t, err)
	assert.Equal(t, 1, futureID)
	assert.Equal(t, 2, pastID)

	_, err = s.GetFutureMeeting(futureID)
	assert.NoError(t, err)
	_, err = s.GetPastMeeting(futureID)
	assert.ErrorIs(t, err, core.ErrInvalidState)

	_, err = s.GetPastMeeting(pastID)
	assert.NoError(t, err)
	_, err = s.GetFutureMeeting(pastID)
	assert.ErrorIs(t, err, core.ErrInvalidState)

	m, ok := s.GetMeeting(pastID)
	require.True(t, ok)
	assert.Equal(t, "hello", m.NotesText())

	_, ok = s.GetMeeting(99)
	assert.False(t, ok)
	_, err = s.GetFutureMeeting(99)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = s.GetPastMeeting(99)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestMeetingStore_ClassificationFollowsClock(t *testing.T) {
	s, _, clock := newStore(t, 2)

	date := clock.Now().Add(time.Millisecond)
	id, err := s.AddFutureMeeting([]int{1, 2}, date)
	require.NoError(t, err)

	clock.now = date
	_, err = s.GetFutureMeeting(id)
	require.NoError(t, err, "a meeting held exactly now is still future")
	assert.ErrorIs(t, s.AddMeetingNotes(id, "too early"), core.ErrInvalidState)

	clock.Advance(5 * time.Millisecond)
	m, err := s.GetPastMeeting(id)
	require.NoError(t, err)
	require.NotNil(t, m.Notes, "past views always carry notes")
	assert.Equal(t, "", *m.Notes)

	raw, _ := s.GetMeeting(id)
	assert.Nil(t, raw.Notes, "no notes were recorded yet")

	require.NoError(t, s.AddMeetingNotes(id, "went well"))
	m, err = s.GetPastMeeting(id)
	require.NoError(t, err)
	assert.Equal(t, "went well", *m.Notes)
}

func TestMeetingStore_AddMeetingNotes(t *testing.T) {
	t.Run("Appends In Call Order", func(t *testing.T) {
		s, _, _ := newStore(t, 1)
		id, err := s.AddPastMeeting([]int{1}, at(pastDay, 9), "a")
		require.NoError(t, err)

		require.NoError(t, s.AddMeetingNotes(id, "b"))
		require.NoError(t, s.AddMeetingNotes(id, "c"))

		m, err := s.GetPastMeeting(id)
		require.NoError(t, err)
		assert.Equal(t, "a"+core.NotesDelimiter+"b"+core.NotesDelimiter+"c", *m.Notes)
	})

	t.Run("Errors", func(t *testing.T) {
		s, _, _ := newStore(t, 1)
		futureID, err := s.AddFutureMeeting([]int{1}, at(futureDay, 9))
		require.NoError(t, err)

		assert.ErrorIs(t, s.AddMeetingNotes(77, "x"), core.ErrInvalidArgument)
		assert.ErrorIs(t, s.AddMeetingNotes(futureID, "x"), core.ErrInvalidState)
		assert.ErrorIs(t, s.AddMeetingNotes(futureID, ""), core.ErrNullReference)
		assert.ErrorIs(t, s.AddMeetingNotes(77, ""), core.ErrNullReference)

		m, _ := s.GetMeeting(futureID)
		assert.Nil(t, m.Notes)
	})
}

func TestMeetingStore_ContactLists(t *testing.T) {
	s, reg, _ := newStore(t, 6)
	seedMeetings(t, s)

	contact := func(id int) *core.Contact {
		cs, err := reg.GetContacts(id)
		require.NoError(t, err)
		return &cs[0]
	}

	future, err := s.GetFutureMeetingList(contact(1))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 5, 7}, ids(future))
	for _, m := range future {
		assert.Nil(t, m.Notes)
	}

	future, err = s.GetFutureMeetingList(contact(4))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 9, 10}, ids(future))

	past, err := s.GetPastMeetingListFor(contact(1))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 6, 8}, ids(past))

	past, err = s.GetPastMeetingListFor(contact(4))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 11, 6}, ids(past))
	for _, m := range past {
		assert.Equal(t, "minutes", m.NotesText())
	}

	future, err = s.GetFutureMeetingList(contact(6))
	require.NoError(t, err)
	assert.Equal(t, []int{9}, ids(future))
}

func TestMeetingStore_ContactLists_Errors(t *testing.T) {
	s, _, _ := newStore(t, 1)

	_, err := s.GetFutureMeetingList(nil)
	assert.ErrorIs(t, err, core.ErrNullReference)
	_, err = s.GetPastMeetingListFor(nil)
	assert.ErrorIs(t, err, core.ErrNullReference)

	stranger := &core.Contact{ID: 1000, Name: "nobody"}
	_, err = s.GetFutureMeetingList(stranger)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = s.GetPastMeetingListFor(stranger)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	list, err := s.GetFutureMeetingList(&core.Contact{ID: 1})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMeetingStore_GetMeetingListOn(t *testing.T) {
	s, _, _ := newStore(t, 6)

	list, err := s.GetMeetingListOn(futureDay)
	require.NoError(t, err)
	assert.Empty(t, list)

	seedMeetings(t, s)

	list, err = s.GetMeetingListOn(at(futureDay, 23))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 9, 4, 5, 7}, ids(list))

	list, err = s.GetMeetingListOn(pastDay)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 11, 3, 6, 8}, ids(list))

	_, err = s.GetMeetingListOn(time.Time{})
	assert.ErrorIs(t, err, core.ErrNullReference)
}

func TestMeetingStore_GetMeetingListOn_UsesQueryLocation(t *testing.T) {
	s, _, _ := newStore(t, 1)
	late := time.Date(2027, time.May, 20, 23, 30, 0, 0, time.UTC)
	id, err := s.AddFutureMeeting([]int{1}, late)
	require.NoError(t, err)

	plusTwo := time.FixedZone("UTC+2", 2*60*60)
	list, err := s.GetMeetingListOn(time.Date(2027, time.May, 21, 8, 0, 0, 0, plusTwo))
	require.NoError(t, err)
	assert.Equal(t, []int{id}, ids(list))

	list, err = s.GetMeetingListOn(time.Date(2027, time.May, 20, 8, 0, 0, 0, plusTwo))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMeetingStore_EqualTimestampsOrderByID(t *testing.T) {
	s, reg, _ := newStore(t, 2)
	date := at(futureDay, 9)
	for i := 0; i < 3; i++ {
		_, err := s.AddFutureMeeting([]int{1, 2}, date)
		require.NoError(t, err)
	}

	cs, err := reg.GetContacts(2)
	require.NoError(t, err)
	list, err := s.GetFutureMeetingList(&cs[0])
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids(list))

	list, err = s.GetMeetingListOn(futureDay)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids(list))
}

func TestMeetingStore_ReturnsCopies(t *testing.T) {
	s, _, _ := newStore(t, 2)
	id, err := s.AddPastMeeting([]int{1, 2}, at(pastDay, 9), "kept")
	require.NoError(t, err)

	m, _ := s.GetMeeting(id)
	m.Participants[0] = 99
	*m.Notes = "changed"

	again, _ := s.GetMeeting(id)
	assert.Equal(t, []int{1, 2}, again.Participants)
	assert.Equal(t, "kept", *again.Notes)
}

func TestRestoreMeetingStore(t *testing.T) {
	reg, err := core.RestoreRegistry([]core.Contact{{ID: 1, Name: "a", Notes: "n"}, {ID: 4, Name: "b", Notes: "n"}})
	require.NoError(t, err)

	notes := ""
	clock := &manualClock{now: testNow}
	s, err := core.RestoreMeetingStore(reg, clock, []core.Meeting{
		{ID: 3, Date: at(pastDay, 9), Participants: []int{4, 1}, Notes: &notes},
		{ID: 7, Date: at(futureDay, 9), Participants: []int{1}},
	})
	require.NoError(t, err)

	id, err := s.AddFutureMeeting([]int{4}, at(futureDay, 10))
	require.NoError(t, err)
	assert.Equal(t, 8, id, "counter resumes after the highest id")

	m, _ := s.GetMeeting(3)
	assert.Equal(t, []int{1, 4}, m.Participants)
	require.NotNil(t, m.Notes)

	_, err = core.RestoreMeetingStore(reg, clock, []core.Meeting{{ID: 1, Date: at(pastDay, 9), Participants: []int{2}}})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = core.RestoreMeetingStore(reg, clock, []core.Meeting{
		{ID: 1, Date: at(pastDay, 9), Participants: []int{1}},
		{ID: 1, Date: at(pastDay, 9), Participants: []int{1}},
	})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestMeetingStore_YearBounds(t *testing.T) {
	s, _, _ := newStore(t, 1)

	_, err := s.AddFutureMeeting([]int{1}, time.Date(core.MaxYear, time.December, 31, 23, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	_, err = s.AddFutureMeeting([]int{1}, time.Date(core.MaxYear+1, time.January, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = s.AddPastMeeting([]int{1}, time.Date(core.MinYear, time.January, 2, 0, 0, 0, 0, time.UTC), "x")
	assert.NoError(t, err)
	_, err = s.AddPastMeeting([]int{1}, time.Date(core.MinYear-1, time.June, 1, 0, 0, 0, 0, time.UTC), "x")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	assert.Len(t, s.Meetings(), 2)
}

func TestRestoreMeetingStore_FutureNotesHidden(t *testing.T) {
	reg := core.NewRegistry()
	_, err := reg.AddContact("a", "n")
	require.NoError(t, err)

	stray := "written before the clock moved back"
	clock := &manualClock{now: testNow}
	s, err := core.RestoreMeetingStore(reg, clock, []core.Meeting{
		{ID: 1, Date: at(futureDay, 9), Participants: []int{1}, Notes: &stray},
	})
	require.NoError(t, err)

	m, ok := s.GetMeeting(1)
	require.True(t, ok)
	assert.Nil(t, m.Notes, "future meetings carry no notes")
	m, err = s.GetFutureMeeting(1)
	require.NoError(t, err)
	assert.Nil(t, m.Notes)
	list, err := s.GetMeetingListOn(futureDay)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Notes)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, core.Past, core.Classify(testNow.Add(-time.Nanosecond), testNow))
	assert.Equal(t, core.Future, core.Classify(testNow, testNow))
	assert.Equal(t, core.Future, core.Classify(testNow.Add(time.Nanosecond), testNow))
}
