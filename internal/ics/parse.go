package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "thesiscal/internal/log"
)

// ErrEmptyFeed is returned for a zero-length ICS payload.
var ErrEmptyFeed = errors.New("ics: empty feed")

// Event is one VEVENT before recurrence expansion.
type Event struct {
	Source Source

	UID      string
	Sequence int
	Summary  string
	Location string

	Start  time.Time
	End    time.Time
	AllDay bool

	RRule   string
	ExDates []time.Time

	// RecurrenceID is set on a VEVENT that overrides one instance of a
	// recurring event.
	RecurrenceID *time.Time
}

// IsOverride reports whether e replaces a single instance of a series.
func (e Event) IsOverride() bool { return e.RecurrenceID != nil }

// Parse decodes a feed body. A VEVENT that cannot be read is logged and
// skipped; only an unreadable calendar fails the whole feed.
func Parse(feed Feed) ([]Event, error) {
	if len(feed.Body) == 0 {
		return nil, ErrEmptyFeed
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(feed.Body))
	if err != nil {
		return nil, fmt.Errorf("ics: parse %s: %w", feed.Source.ID, err)
	}

	events := make([]Event, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		ev, err := parseEvent(feed.Source, ve)
		if err != nil {
			appLog.Warn("ics vevent skipped", "id", feed.Source.ID, "reason", err.Error())
			continue
		}
		events = append(events, ev)
	}
	appLog.Debug("ics parsed", "id", feed.Source.ID, "events", len(events))
	return events, nil
}

func parseEvent(src Source, ve *ical.VEvent) (Event, error) {
	ev := Event{Source: src}

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return ev, errors.New("missing UID")
	}
	ev.UID = uid.Value

	if p := ve.GetProperty(ical.ComponentPropertySequence); p != nil {
		if n, err := strconv.Atoi(strings.TrimSpace(p.Value)); err == nil {
			ev.Sequence = n
		}
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		ev.Location = p.Value
	}

	dtstart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtstart == nil {
		return ev, errors.New("missing DTSTART")
	}
	ev.AllDay = isDateValue(dtstart)

	var err error
	if ev.AllDay {
		ev.Start, err = ve.GetAllDayStartAt()
	} else {
		ev.Start, err = ve.GetStartAt()
	}
	if err != nil {
		return ev, fmt.Errorf("DTSTART: %w", err)
	}

	if ve.GetProperty(ical.ComponentPropertyDtEnd) != nil {
		if ev.AllDay {
			ev.End, err = ve.GetAllDayEndAt()
		} else {
			ev.End, err = ve.GetEndAt()
		}
		if err != nil {
			return ev, fmt.Errorf("DTEND: %w", err)
		}
	}
	if ev.End.IsZero() || !ev.End.After(ev.Start) {
		// RFC 5545: a DATE start without an end lasts one day, a DATE-TIME
		// start without an end is instantaneous.
		if ev.AllDay {
			ev.End = ev.Start.AddDate(0, 0, 1)
		} else {
			ev.End = ev.Start
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		ev.RRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		tzid := param(p, "TZID")
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseStamp(part, tzid); err == nil {
				ev.ExDates = append(ev.ExDates, t)
			}
		}
	}

	if p := ve.GetProperty(ical.ComponentProperty("RECURRENCE-ID")); p != nil {
		if t, err := parseStamp(p.Value, param(p, "TZID")); err == nil {
			ev.RecurrenceID = &t
		}
	}
	return ev, nil
}

func isDateValue(p *ical.IANAProperty) bool {
	if strings.EqualFold(param(p, "VALUE"), "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func param(p *ical.IANAProperty, name string) string {
	if p == nil || p.ICalParameters == nil {
		return ""
	}
	if vs := p.ICalParameters[name]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// parseStamp reads the DATE, floating DATE-TIME and UTC DATE-TIME forms used
// by EXDATE and RECURRENCE-ID. Unknown TZIDs fall back to time.Local.
func parseStamp(v, tzid string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}
	loc := time.Local
	if tzid != "" {
		if l, err := time.LoadLocation(tzid); err == nil {
			loc = l
		}
	}
	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}
