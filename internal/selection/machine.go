// Package selection implements the calendar's selection engine: single-date
// and range modes, click-built ranges and drag-based endpoint editing.
//
// A Machine is owned by one hosting view and is not safe for concurrent use;
// the host serializes events (see internal/session).
package selection

import (
	"errors"
	"fmt"
	"strings"

	"thesiscal/internal/calendar"
)

// ErrUnknownMode is returned by ParseMode for anything but "single" or "range".
var ErrUnknownMode = errors.New("selection: unknown mode")

// Mode is the active selection mode.
type Mode uint8

const (
	ModeSingle Mode = iota
	ModeRange
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeRange:
		return "range"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode parses "single" or "range" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return ModeSingle, nil
	case "range":
		return ModeRange, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownMode, s)
	}
}

// DragEndpoint is the range endpoint currently held by the pointer.
type DragEndpoint uint8

const (
	DragNone DragEndpoint = iota
	DragStart
	DragEnd
)

func (d DragEndpoint) String() string {
	switch d {
	case DragStart:
		return "start"
	case DragEnd:
		return "end"
	default:
		return "none"
	}
}

// Callbacks notify the hosting view. Either may be nil.
type Callbacks struct {
	// OnSelect fires on every single-mode transition. A zero Date means the
	// selection was cleared.
	OnSelect func(calendar.Date)
	// OnRangeSelect fires only with complete ranges.
	OnRangeSelect func(calendar.DateRange)
}

// Options configure a new Machine.
type Options struct {
	Mode          Mode
	AllowDeselect bool
	Callbacks     Callbacks
}

// Machine is the selection state of one calendar instance.
//
// Each mode owns one slot: single holds the selected date, rng holds the
// range. A slot is the live state while its mode is active and the remembered
// context while it is not. Only transitions of the active mode write to its
// slot, so toggling modes never loses the other mode's selection.
type Machine struct {
	mode          Mode
	allowDeselect bool
	cb            Callbacks

	single calendar.Date
	rng    calendar.DateRange

	drag    DragEndpoint
	pressed calendar.Date // cell the current drag started on

	// suppress swallows the click generated by a press that started a drag.
	suppress calendar.Date
}

// New returns a Machine with empty selections.
func New(opts Options) *Machine {
	return &Machine{
		mode:          opts.Mode,
		allowDeselect: opts.AllowDeselect,
		cb:            opts.Callbacks,
	}
}

func (m *Machine) Mode() Mode { return m.mode }
func (m *Machine) Selected() calendar.Date { return m.single }
func (m *Machine) Range() calendar.DateRange { return m.rng }
func (m *Machine) Dragging() DragEndpoint { return m.drag }
func (m *Machine) AllowDeselect() bool { return m.allowDeselect }

// SetAllowDeselect controls whether clicking the selected date again clears
// it in single mode. The current selection is left as is.
func (m *Machine) SetAllowDeselect(allow bool) { m.allowDeselect = allow }

// Click handles a click on day d in the active mode.
func (m *Machine) Click(d calendar.Date) {
	if !m.suppress.IsZero() {
		swallow := calendar.IsSameDay(d, m.suppress)
		m.suppress = calendar.Date{}
		if swallow {
			return
		}
	}

	switch m.mode {
	case ModeSingle:
		m.clickSingle(d)
	case ModeRange:
		m.clickRange(d)
	}
}

func (m *Machine) clickSingle(d calendar.Date) {
	if calendar.IsSameDay(d, m.single) {
		if !m.allowDeselect {
			return
		}
		m.single = calendar.Date{}
	} else {
		m.single = d
	}
	m.notifySelect()
}

func (m *Machine) clickRange(d calendar.Date) {
	// A third click discards the finished range instead of extending it.
	if m.rng.From.IsZero() || m.rng.Complete() {
		m.rng = calendar.DateRange{From: d}
		return
	}
	m.rng = calendar.NewRange(m.rng.From, d)
	m.notifyRange()
}

// PointerDown handles a press on day d. A drag starts only when d is a
// rendered endpoint of the range; the click produced by the same press is then
// suppressed. It reports whether a drag started.
func (m *Machine) PointerDown(d calendar.Date) bool {
	m.suppress = calendar.Date{}
	if m.mode != ModeRange || d.IsZero() {
		return false
	}
	switch {
	case !m.rng.From.IsZero() && calendar.IsSameDay(d, m.rng.From):
		m.drag = DragStart
	case !m.rng.To.IsZero() && calendar.IsSameDay(d, m.rng.To):
		m.drag = DragEnd
	default:
		return false
	}
	m.pressed = d
	return true
}

// PointerEnter moves the dragged endpoint to d and normalizes the result. The
// held endpoint stays the same for the whole press. The visible range updates
// immediately; the host is only told on release.
func (m *Machine) PointerEnter(d calendar.Date) {
	if m.drag == DragNone || d.IsZero() {
		return
	}

	from, to := m.rng.From, m.rng.To
	switch m.drag {
	case DragStart:
		from = d
		if to.IsZero() {
			to = d
		}
	case DragEnd:
		to = d
		if from.IsZero() {
			from = d
		}
	}
	m.rng = calendar.NewRange(from, to)
}

// PointerUp ends a drag. It is normally delivered through a Bus by Mount.
func (m *Machine) PointerUp(ev PointerUp) {
	if m.drag == DragNone {
		return
	}
	// The browser only emits a click when press and release hit the same cell.
	if !ev.Date.IsZero() && calendar.IsSameDay(ev.Date, m.pressed) {
		m.suppress = m.pressed
	}
	m.drag = DragNone
	m.pressed = calendar.Date{}

	if m.rng.Complete() {
		m.notifyRange()
	}
}

// Mount subscribes m to pointer releases on bus until the returned Mount is closed.
func (m *Machine) Mount(bus *Bus) *Mount {
	return &Mount{release: bus.Subscribe(m.PointerUp)}
}

// SetMode switches the active mode. The outgoing mode's state stays in its
// slot; the incoming mode's remembered state is restored and reported to the
// host (ranges only when complete). Any drag in flight is cancelled.
func (m *Machine) SetMode(mode Mode) {
	if mode == m.mode {
		return
	}
	m.cancelDrag()
	m.mode = mode

	switch mode {
	case ModeSingle:
		if !m.single.IsZero() {
			m.notifySelect()
		}
	case ModeRange:
		if m.rng.Complete() {
			m.notifyRange()
		}
	}
}

// Reset clears both modes' state without notifying the host. Used when the
// hosting view discards its selection (e.g. a dialog closed without saving).
func (m *Machine) Reset() {
	m.cancelDrag()
	m.single = calendar.Date{}
	m.rng = calendar.DateRange{}
}

// SetSelected seeds the single-mode slot without notifying the host.
func (m *Machine) SetSelected(d calendar.Date) {
	m.single = d
}

// SetRange seeds the range slot without notifying the host. The endpoints
// are normalized; a zero b leaves the range in progress. An end without a
// start is ignored.
func (m *Machine) SetRange(a, b calendar.Date) {
	if a.IsZero() && !b.IsZero() {
		return
	}
	m.cancelDrag()
	switch {
	case a.IsZero():
		m.rng = calendar.DateRange{}
	case b.IsZero():
		m.rng = calendar.DateRange{From: a}
	default:
		m.rng = calendar.NewRange(a, b)
	}
}

func (m *Machine) cancelDrag() {
	m.drag = DragNone
	m.pressed = calendar.Date{}
	m.suppress = calendar.Date{}
}

func (m *Machine) notifySelect() {
	if m.cb.OnSelect != nil {
		m.cb.OnSelect(m.single)
	}
}

func (m *Machine) notifyRange() {
	if m.cb.OnRangeSelect != nil {
		m.cb.OnRangeSelect(m.rng)
	}
}
