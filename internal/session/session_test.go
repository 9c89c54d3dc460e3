package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thesiscal/internal/calendar"
	"thesiscal/internal/selection"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func jan(d int) calendar.Date { return calendar.NewDate(2024, time.January, d) }

func newTestStore(mode selection.Mode) (*Store, *clock) {
	c := &clock{t: time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)}
	st := NewStore(Options{
		TTL:      10 * time.Minute,
		Defaults: selection.Options{Mode: mode, AllowDeselect: true},
		Location: time.UTC,
		Now:      c.Now,
	})
	return st, c
}

func apply(t *testing.T, s *Session, ev Event) (State, []Notification) {
	t.Helper()
	st, fired, err := s.Apply(ev)
	require.NoError(t, err)
	return st, fired
}

func TestClickBuiltRange(t *testing.T) {
	st, _ := newTestStore(selection.ModeRange)
	s := st.Create(CreateOptions{})

	state, fired := apply(t, s, Event{Type: EventClick, Date: jan(10)})
	assert.Empty(t, fired)
	assert.Equal(t, calendar.DateRange{From: jan(10)}, state.Range)

	state, fired = apply(t, s, Event{Type: EventClick, Date: jan(5)})
	require.Len(t, fired, 1)
	assert.Equal(t, "range", fired[0].Kind)
	assert.Equal(t, calendar.NewRange(jan(5), jan(10)), fired[0].Range)
	assert.Equal(t, calendar.NewRange(jan(5), jan(10)), state.Range)

	state, fired = apply(t, s, Event{Type: EventClick, Date: jan(20)})
	assert.Empty(t, fired)
	assert.Equal(t, calendar.DateRange{From: jan(20)}, state.Range)
}

func TestDragReportsOnlyOnWindowRelease(t *testing.T) {
	st, _ := newTestStore(selection.ModeRange)
	s := st.Create(CreateOptions{})
	apply(t, s, Event{Type: EventSeed, From: jan(5), To: jan(10)})

	state, fired := apply(t, s, Event{Type: EventPointerDown, Date: jan(10)})
	assert.Empty(t, fired)
	assert.Equal(t, "end", state.Dragging)

	state, fired = apply(t, s, Event{Type: EventPointerEnter, Date: jan(3)})
	assert.Empty(t, fired)
	assert.Equal(t, calendar.NewRange(jan(3), jan(5)), state.Range)

	// Released outside the calendar.
	state, fired = apply(t, s, Event{Type: EventPointerUp})
	require.Len(t, fired, 1)
	assert.Equal(t, calendar.NewRange(jan(3), jan(5)), fired[0].Range)
	assert.Equal(t, "none", state.Dragging)
}

func TestPressWithoutMoveSwallowsClick(t *testing.T) {
	st, _ := newTestStore(selection.ModeRange)
	s := st.Create(CreateOptions{})
	apply(t, s, Event{Type: EventSeed, From: jan(5), To: jan(10)})

	apply(t, s, Event{Type: EventPointerDown, Date: jan(5)})
	_, fired := apply(t, s, Event{Type: EventPointerUp, Date: jan(5)})
	require.Len(t, fired, 1)

	state, fired := apply(t, s, Event{Type: EventClick, Date: jan(5)})
	assert.Empty(t, fired)
	assert.Equal(t, calendar.NewRange(jan(5), jan(10)), state.Range)
}

func TestModeToggleRestoresEachSelection(t *testing.T) {
	st, _ := newTestStore(selection.ModeSingle)
	s := st.Create(CreateOptions{})

	_, fired := apply(t, s, Event{Type: EventClick, Date: jan(5)})
	require.Len(t, fired, 1)
	assert.Equal(t, Notification{Kind: "select", Date: jan(5), At: fired[0].At}, fired[0])

	state, fired := apply(t, s, Event{Type: EventMode, Mode: "range"})
	assert.Empty(t, fired)
	assert.Equal(t, "range", state.Mode)

	apply(t, s, Event{Type: EventClick, Date: jan(7)})
	apply(t, s, Event{Type: EventClick, Date: jan(9)})

	state, fired = apply(t, s, Event{Type: EventMode, Mode: "single"})
	require.Len(t, fired, 1)
	assert.Equal(t, jan(5), fired[0].Date)
	assert.Equal(t, jan(5), state.Selected)

	_, fired = apply(t, s, Event{Type: EventMode, Mode: "range"})
	require.Len(t, fired, 1)
	assert.Equal(t, calendar.NewRange(jan(7), jan(9)), fired[0].Range)
}

func TestResetAndNavigate(t *testing.T) {
	st, _ := newTestStore(selection.ModeRange)
	s := st.Create(CreateOptions{Month: jan(20)})

	state, _ := apply(t, s, Event{Type: EventSeed, Date: jan(2), From: jan(3), To: jan(4)})
	assert.Equal(t, jan(2), state.Selected)
	assert.Equal(t, jan(1), state.Month)

	state, fired := apply(t, s, Event{Type: EventReset})
	assert.Empty(t, fired)
	assert.True(t, state.Selected.IsZero())
	assert.True(t, state.Range.Empty())

	state, _ = apply(t, s, Event{Type: EventNavigate, Delta: -1})
	assert.Equal(t, calendar.NewDate(2023, time.December, 1), state.Month)
	state, _ = apply(t, s, Event{Type: EventNavigate, Delta: 14})
	assert.Equal(t, calendar.NewDate(2025, time.February, 1), state.Month)
}

func TestApplyRejectsBadEvents(t *testing.T) {
	st, _ := newTestStore(selection.ModeRange)
	s := st.Create(CreateOptions{})

	_, _, err := s.Apply(Event{Type: "hover"})
	assert.ErrorIs(t, err, ErrUnknownEvent)
	_, _, err = s.Apply(Event{Type: EventClick})
	assert.ErrorIs(t, err, ErrMissingDate)
	_, _, err = s.Apply(Event{Type: EventMode, Mode: "week"})
	assert.Error(t, err)
	_, _, err = s.Apply(Event{Type: EventAllowDeselect})
	assert.ErrorIs(t, err, ErrMissingAllow)
}

func TestSeedRejectsEndWithoutStart(t *testing.T) {
	st, _ := newTestStore(selection.ModeRange)
	s := st.Create(CreateOptions{})
	apply(t, s, Event{Type: EventSeed, From: jan(5), To: jan(10)})

	state, _, err := s.Apply(Event{Type: EventSeed, To: jan(12)})
	assert.ErrorIs(t, err, ErrRangeWithoutStart)
	assert.Equal(t, calendar.NewRange(jan(5), jan(10)), state.Range)
}

func TestAllowDeselectEvent(t *testing.T) {
	st, _ := newTestStore(selection.ModeSingle)
	s := st.Create(CreateOptions{})
	apply(t, s, Event{Type: EventClick, Date: jan(5)})

	off := false
	state, _ := apply(t, s, Event{Type: EventAllowDeselect, Allow: &off})
	assert.False(t, state.AllowDeselect)
	state, fired := apply(t, s, Event{Type: EventClick, Date: jan(5)})
	assert.Empty(t, fired)
	assert.Equal(t, jan(5), state.Selected)

	on := true
	apply(t, s, Event{Type: EventAllowDeselect, Allow: &on})
	state, fired = apply(t, s, Event{Type: EventClick, Date: jan(5)})
	require.Len(t, fired, 1)
	assert.True(t, state.Selected.IsZero())
}

func TestNotificationLogIsBounded(t *testing.T) {
	st, _ := newTestStore(selection.ModeSingle)
	s := st.Create(CreateOptions{})
	for i := 0; i < maxNotifications+10; i++ {
		apply(t, s, Event{Type: EventClick, Date: jan(1 + i%2)})
	}
	log := s.Notifications()
	require.Len(t, log, maxNotifications)
	// The oldest ten were dropped; i = 10 clicked jan(1).
	assert.Equal(t, jan(1), log[0].Date)
}

func TestViewFollowsActiveMode(t *testing.T) {
	st, _ := newTestStore(selection.ModeRange)
	s := st.Create(CreateOptions{Month: jan(1)})
	apply(t, s, Event{Type: EventSeed, Date: jan(20), From: jan(8), To: jan(9)})

	cells := func(v calendar.MonthView) map[string]calendar.Cell {
		out := make(map[string]calendar.Cell)
		for _, w := range v.Weeks {
			for _, c := range w.Cells {
				out[c.Date.Key()] = c
			}
		}
		return out
	}

	c := cells(s.View(jan(15), nil))
	assert.True(t, c["2024-01-08"].InRange)
	assert.True(t, c["2024-01-15"].Today)
	assert.False(t, c["2024-01-20"].Selected)

	apply(t, s, Event{Type: EventMode, Mode: "single"})
	c = cells(s.View(jan(15), nil))
	assert.False(t, c["2024-01-08"].InRange)
	assert.True(t, c["2024-01-20"].Selected)
}
