// Package model holds the types shared between ICS ingestion and the
// day-metadata index.
package model

import (
	"time"

	"thesiscal/internal/calendar"
)

// Occurrence is one concrete instance of a calendar event after recurrence
// expansion, converted into the display timezone.
type Occurrence struct {
	SourceID   string // config ICS ID
	SourceName string // label shown next to the entry
	UID        string // iCalendar UID

	// InstanceKey separates the instances of a recurring event; it is the
	// local start time in RFC 3339.
	InstanceKey string

	Summary  string
	Location string

	AllDay bool

	// Start and End are in the display timezone. End is exclusive.
	Start time.Time
	End   time.Time
}

// Days returns the calendar days the occurrence touches, inclusive on both
// ends. An end that falls exactly on midnight does not mark that day, so an
// all-day event on the 5th (DTEND the 6th) covers only the 5th.
func (o Occurrence) Days() calendar.DateRange {
	first := calendar.DateOf(o.Start)
	if !o.End.After(o.Start) {
		return calendar.DateRange{From: first, To: first}
	}
	last := calendar.DateOf(o.End)
	y, m, d := o.End.Date()
	if o.End.Equal(time.Date(y, m, d, 0, 0, 0, 0, o.End.Location())) {
		last = last.AddDays(-1)
	}
	return calendar.NewRange(first, last)
}
