package calendar

import "time"

// Week is one row of the month view, Sunday first.
type Week [7]Date

// Matrix is the sequence of weeks shown for one month.
type Matrix struct {
	// Month is the first day of the displayed month.
	Month Date
	Weeks []Week
}

// BuildMatrix returns the weeks shown for the month containing ref.
//
// The first week starts on the Sunday on or before the 1st. Weeks are emitted
// until one ends strictly after the month's last day, so a matrix has 5 or 6
// rows and always covers the whole month.
func BuildMatrix(ref Date) Matrix {
	first := FirstOfMonth(ref)
	last := LastOfMonth(ref)
	cur := first.AddDays(-int(first.Weekday()))

	m := Matrix{Month: first, Weeks: make([]Week, 0, 6)}
	for {
		var w Week
		for i := range w {
			w[i] = cur
			cur = cur.AddDays(1)
		}
		m.Weeks = append(m.Weeks, w)
		if w[6].After(last) {
			break
		}
	}
	return m
}

// First returns the first cell of the matrix.
func (m Matrix) First() Date {
	if len(m.Weeks) == 0 {
		return Date{}
	}
	return m.Weeks[0][0]
}

// Last returns the last cell of the matrix.
func (m Matrix) Last() Date {
	if len(m.Weeks) == 0 {
		return Date{}
	}
	return m.Weeks[len(m.Weeks)-1][6]
}

// InMonth reports whether d belongs to the displayed month rather than the
// leading or trailing days of its neighbours.
func (m Matrix) InMonth(d Date) bool {
	return SameMonth(d, m.Month)
}

// WeekdayLabels returns short weekday names in column order.
func WeekdayLabels() [7]string {
	var out [7]string
	for i := range out {
		out[i] = time.Weekday(i).String()[:3]
	}
	return out
}
