package calendar

// DayLookup reports how many metadata entries exist for a day key
// ("YYYY-MM-DD"). The view only checks for non-emptiness.
type DayLookup interface {
	Count(key string) int
}

// Cell is one rendered day of the month view.
type Cell struct {
	Date       Date
	Column     int
	InMonth    bool
	Today      bool
	Selected   bool
	InRange    bool
	RangeStart bool
	RangeEnd   bool
	HasEntries bool
}

// WeekView is one rendered row with its highlight segments.
type WeekView struct {
	Cells    [7]Cell
	Segments []Segment
}

// MonthView is the renderable month: matrix cells decorated with selection
// state and day-metadata presence.
type MonthView struct {
	Month Date
	Prev  Date
	Next  Date
	Weeks []WeekView
}

// ViewInput is the selection state a view is rendered against.
type ViewInput struct {
	Month    Date
	Today    Date
	Selected Date
	Range    DateRange
	Lookup   DayLookup
}

// BuildView renders the month of in.Month against the given selection.
func BuildView(in ViewInput) MonthView {
	m := BuildMatrix(in.Month)
	v := MonthView{
		Month: m.Month,
		Prev:  ShiftMonth(m.Month, -1),
		Next:  ShiftMonth(m.Month, 1),
		Weeks: make([]WeekView, 0, len(m.Weeks)),
	}
	lo, hi := Normalize(in.Range.From, in.Range.To)
	if in.Range.InProgress() {
		lo, hi = in.Range.From, Date{}
	}
	for _, w := range m.Weeks {
		wv := WeekView{Segments: Segments(w, in.Range)}
		for col, d := range w {
			c := Cell{
				Date:       d,
				Column:     col,
				InMonth:    m.InMonth(d),
				Today:      !in.Today.IsZero() && IsSameDay(d, in.Today),
				Selected:   !in.Selected.IsZero() && IsSameDay(d, in.Selected),
				InRange:    Contains(d, in.Range),
				RangeStart: !lo.IsZero() && IsSameDay(d, lo),
				RangeEnd:   !hi.IsZero() && IsSameDay(d, hi),
			}
			if in.Lookup != nil {
				c.HasEntries = in.Lookup.Count(d.Key()) > 0
			}
			wv.Cells[col] = c
		}
		v.Weeks = append(v.Weeks, wv)
	}
	return v
}
