package ics

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"thesiscal/internal/calendar"
)

// ErrIncompleteRange is returned when exporting a range without both endpoints.
var ErrIncompleteRange = errors.New("ics: range is not complete")

const productID = "-//ThesisFlow//thesiscal//EN"

// ExportOptions describe the event written for a range.
type ExportOptions struct {
	Summary     string
	Description string
	// UID defaults to a random UUID.
	UID string
	// Now stamps DTSTAMP; zero means time.Now.
	Now time.Time
}

// EncodeRange writes a VCALENDAR holding one all-day VEVENT that covers r.
// DTEND is the day after r.To, as RFC 5545 makes it exclusive.
func EncodeRange(w io.Writer, r calendar.DateRange, opts ExportOptions) error {
	if !r.Complete() {
		return ErrIncompleteRange
	}
	from, to := calendar.Normalize(r.From, r.To)
	if opts.UID == "" {
		opts.UID = uuid.NewString()
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Summary == "" {
		opts.Summary = fmt.Sprintf("Selected %d day(s)", r.Len())
	}

	ev := ical.NewComponent(ical.CompEvent)
	ev.Props.SetText(ical.PropUID, opts.UID)
	ev.Props.SetText(ical.PropSummary, opts.Summary)
	ev.Props.SetDateTime(ical.PropDateTimeStamp, opts.Now.UTC())
	ev.Props.SetDate(ical.PropDateTimeStart, from.Time(time.UTC))
	ev.Props.SetDate(ical.PropDateTimeEnd, to.AddDays(1).Time(time.UTC))
	if opts.Description != "" {
		ev.Props.SetText(ical.PropDescription, opts.Description)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Children = append(cal.Children, ev)

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("ics: encode range %s: %w", r, err)
	}
	return nil
}
