// Package calendar holds the date arithmetic behind the month view: calendar-day
// values, the month matrix, date ranges and highlight segments.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// KeyLayout is the canonical string form of a Date ("YYYY-MM-DD"). It is also
// the key used for day-metadata lookups.
const KeyLayout = "2006-01-02"

// ErrInvalidDate is returned when external input does not name a real calendar day.
var ErrInvalidDate = errors.New("calendar: invalid date")

// Date is an exact calendar day. Time of day and location are not modeled, so
// two Dates are equal iff they name the same (year, month, day).
//
// The zero Date means "absent" wherever a Date is optional.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate returns the Date for the given components. Out-of-range values are
// normalized the way time.Date does (Feb 30 becomes Mar 1 or Mar 2).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// Today returns the current calendar day in loc (time.Local if nil).
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return DateOf(time.Now().In(loc))
}

// ParseDate parses a "YYYY-MM-DD" key. Unlike NewDate it does not normalize:
// "2024-02-30" is rejected with ErrInvalidDate.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(KeyLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// ParseMonth parses a "YYYY-MM" value and returns the first day of that month.
func ParseMonth(s string) (Date, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: month %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

func (d Date) Year() int { return d.year }
func (d Date) Month() time.Month { return d.month }
func (d Date) Day() int { return d.day }
func (d Date) IsZero() bool { return d == Date{} }
func (d Date) Weekday() time.Weekday { return d.Time(time.UTC).Weekday() }

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return NewDate(d.year, d.month, d.day+n)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after o in calendar-day order.
func (d Date) Compare(o Date) int {
	switch {
	case d.year != o.year:
		return cmpInt(d.year, o.year)
	case d.month != o.month:
		return cmpInt(int(d.month), int(o.month))
	default:
		return cmpInt(d.day, o.day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// String returns the canonical key, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// Key is the day-metadata lookup key for d.
func (d Date) Key() string { return d.String() }

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	v, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// IsSameDay reports whether a and b name the same calendar day.
func IsSameDay(a, b Date) bool {
	return a == b
}

// FirstOfMonth returns the first day of d's month.
func FirstOfMonth(d Date) Date {
	return Date{year: d.year, month: d.month, day: 1}
}

// LastOfMonth returns the last day of d's month.
func LastOfMonth(d Date) Date {
	return NewDate(d.year, d.month+1, 0)
}

// ShiftMonth returns the first day of the month delta months away from ref.
func ShiftMonth(ref Date, delta int) Date {
	return NewDate(ref.year, ref.month+time.Month(delta), 1)
}

// SameMonth reports whether a and b fall in the same month of the same year.
func SameMonth(a, b Date) bool {
	return a.year == b.year && a.month == b.month
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
