// Package session hosts selection machines on the server. Each session plays
// the part of one open calendar dialog: it owns a Machine, the window-level
// pointer bus the machine is mounted on, and the month being displayed.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"thesiscal/internal/calendar"
	"thesiscal/internal/selection"
)

var (
	ErrNotFound     = errors.New("session: not found")
	ErrUnknownEvent = errors.New("session: unknown event type")
	ErrMissingDate  = errors.New("session: event requires a date")
	ErrMissingAllow = errors.New("session: allow_deselect event requires allow")

	ErrRangeWithoutStart = errors.New("session: range end given without a start")
)

// maxNotifications bounds the callback log kept per session.
const maxNotifications = 50

// Event types accepted by Apply.
const (
	EventClick         = "click"
	EventPointerDown   = "pointerdown"
	EventPointerEnter  = "pointerenter"
	EventPointerUp     = "pointerup"
	EventMode          = "mode"
	EventReset         = "reset"
	EventNavigate      = "navigate"
	EventSeed          = "seed"
	EventAllowDeselect = "allow_deselect"
)

// Event is one UI interaction forwarded by the client.
//
// Date is the cell involved (for pointerup it may be zero: the release
// happened outside the calendar). Mode is used by "mode", Delta (months) by
// "navigate", From/To/Date by "seed" and Allow by "allow_deselect".
type Event struct {
	Type  string        `json:"type" validate:"required,oneof=click pointerdown pointerenter pointerup mode reset navigate seed allow_deselect"`
	Date  calendar.Date `json:"date,omitzero"`
	Mode  string        `json:"mode,omitempty" validate:"omitempty,oneof=single range"`
	Delta int           `json:"delta,omitempty"`
	From  calendar.Date `json:"from,omitzero"`
	To    calendar.Date `json:"to,omitzero"`
	Allow *bool         `json:"allow,omitempty"`
}

// Notification records one host callback.
type Notification struct {
	Kind  string             `json:"kind"` // "select" or "range"
	Date  calendar.Date      `json:"date,omitzero"`
	Range calendar.DateRange `json:"range,omitzero"`
	At    time.Time          `json:"at"`
}

// State is a point-in-time copy of a session.
type State struct {
	ID            string             `json:"id"`
	Mode          string             `json:"mode"`
	AllowDeselect bool               `json:"allow_deselect"`
	Selected      calendar.Date      `json:"selected,omitzero"`
	Range         calendar.DateRange `json:"range"`
	Dragging      string             `json:"dragging"`
	Month         calendar.Date      `json:"month"`
	CreatedAt     time.Time          `json:"created_at"`
	LastSeen      time.Time          `json:"last_seen"`
}

// Session is one hosted calendar instance.
type Session struct {
	id      string
	created time.Time

	mu       sync.Mutex
	machine  *selection.Machine
	bus      *selection.Bus
	mount    *selection.Mount
	month    calendar.Date
	lastSeen time.Time
	log      []Notification
	fired    []Notification
	now      func() time.Time
}

func newSession(id string, opts selection.Options, month calendar.Date, now func() time.Time) *Session {
	t := now()
	s := &Session{
		id:       id,
		created:  t,
		bus:      selection.NewBus(),
		month:    calendar.FirstOfMonth(month),
		lastSeen: t,
		now:      now,
	}
	opts.Callbacks = selection.Callbacks{
		OnSelect: func(d calendar.Date) {
			s.record(Notification{Kind: "select", Date: d})
		},
		OnRangeSelect: func(r calendar.DateRange) {
			s.record(Notification{Kind: "range", Range: r})
		},
	}
	s.machine = selection.New(opts)
	s.mount = s.machine.Mount(s.bus)
	return s
}

// record runs from machine callbacks, always under s.mu.
func (s *Session) record(n Notification) {
	n.At = s.now()
	s.fired = append(s.fired, n)
	s.log = append(s.log, n)
	if over := len(s.log) - maxNotifications; over > 0 {
		s.log = append(s.log[:0:0], s.log[over:]...)
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Apply feeds ev to the machine and returns the resulting state together with
// the callbacks it fired.
func (s *Session) Apply(ev Event) (State, []Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fired = nil
	s.lastSeen = s.now()
	if err := s.dispatch(ev); err != nil {
		return s.stateLocked(), nil, err
	}
	fired := s.fired
	s.fired = nil
	return s.stateLocked(), fired, nil
}

func (s *Session) dispatch(ev Event) error {
	m := s.machine
	switch ev.Type {
	case EventClick:
		if ev.Date.IsZero() {
			return ErrMissingDate
		}
		m.Click(ev.Date)
	case EventPointerDown:
		if ev.Date.IsZero() {
			return ErrMissingDate
		}
		m.PointerDown(ev.Date)
	case EventPointerEnter:
		if ev.Date.IsZero() {
			return ErrMissingDate
		}
		m.PointerEnter(ev.Date)
	case EventPointerUp:
		// Released anywhere in the window: goes through the bus, not the
		// machine, so an unmounted machine never sees it.
		s.bus.Publish(selection.PointerUp{Date: ev.Date})
	case EventMode:
		mode, err := selection.ParseMode(ev.Mode)
		if err != nil {
			return err
		}
		m.SetMode(mode)
	case EventReset:
		m.Reset()
	case EventNavigate:
		s.month = calendar.ShiftMonth(s.month, ev.Delta)
	case EventSeed:
		if ev.From.IsZero() && !ev.To.IsZero() {
			return ErrRangeWithoutStart
		}
		if !ev.Date.IsZero() {
			m.SetSelected(ev.Date)
		}
		if !ev.From.IsZero() || !ev.To.IsZero() {
			m.SetRange(ev.From, ev.To)
		}
	case EventAllowDeselect:
		if ev.Allow == nil {
			return ErrMissingAllow
		}
		m.SetAllowDeselect(*ev.Allow)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return nil
}

// State returns a snapshot and marks the session as seen.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	return State{
		ID:            s.id,
		Mode:          s.machine.Mode().String(),
		AllowDeselect: s.machine.AllowDeselect(),
		Selected:      s.machine.Selected(),
		Range:         s.machine.Range(),
		Dragging:      s.machine.Dragging().String(),
		Month:         s.month,
		CreatedAt:     s.created,
		LastSeen:      s.lastSeen,
	}
}

// Notifications returns the most recent callbacks, oldest first.
func (s *Session) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, len(s.log))
	copy(out, s.log)
	return out
}

// View renders the displayed month against the active mode's selection.
func (s *Session) View(today calendar.Date, lookup calendar.DayLookup) calendar.MonthView {
	s.mu.Lock()
	in := calendar.ViewInput{Month: s.month, Today: today, Lookup: lookup}
	if s.machine.Mode() == selection.ModeSingle {
		in.Selected = s.machine.Selected()
	} else {
		in.Range = s.machine.Range()
	}
	s.mu.Unlock()
	return calendar.BuildView(in)
}

// Range returns the current range selection regardless of mode.
func (s *Session) Range() calendar.DateRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Range()
}

func (s *Session) idleSince(t time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t.Sub(s.lastSeen)
}

// close unmounts the machine from its bus.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.mount.Close()
}

// Mounted reports whether the machine still listens for pointer releases.
func (s *Session) Mounted() bool {
	return s.bus.Len() > 0
}
