package ics

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	appLog "thesiscal/internal/log"
	"thesiscal/internal/model"
)

const defaultInstanceCap = 5000

// Window bounds recurrence expansion.
type Window struct {
	// Location is the display timezone; nil means time.Local.
	Location *time.Location
	From     time.Time
	To       time.Time
	// Cap limits the instances produced per series; 0 means 5000.
	Cap int
}

// WindowAround returns a window of horizon days either side of now.
func WindowAround(now time.Time, horizonDays int, loc *time.Location) Window {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	mid := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return Window{
		Location: loc,
		From:     mid.AddDate(0, 0, -horizonDays),
		To:       mid.AddDate(0, 0, horizonDays+1),
	}
}

// Expansion is the result of Expand. Truncated lists the UIDs whose series
// reached the instance cap.
type Expansion struct {
	Occurrences []model.Occurrence
	Truncated   []string
}

type overrideKey struct {
	uid   string
	stamp string
}

// keyAt identifies one instance of a series. DATE instances compare by
// calendar date, DATE-TIME instances by instant.
func keyAt(uid string, t time.Time, allDay bool) overrideKey {
	if allDay {
		return overrideKey{uid, t.Format("20060102")}
	}
	return overrideKey{uid, t.UTC().Format(time.RFC3339)}
}

// Expand turns parsed events into concrete occurrences overlapping w, in w's
// location. RRULE series honor EXDATE, and RECURRENCE-ID overrides replace the
// instance they name.
func Expand(events []Event, w Window) (Expansion, error) {
	var out Expansion
	if w.To.Before(w.From) {
		return out, errors.New("ics: window ends before it starts")
	}
	if w.Location == nil {
		w.Location = time.Local
	}
	if w.Cap <= 0 {
		w.Cap = defaultInstanceCap
	}

	overrides := make(map[overrideKey]Event)
	for _, ev := range events {
		if ev.IsOverride() {
			overrides[keyAt(ev.UID, *ev.RecurrenceID, ev.AllDay)] = ev
		}
	}

	for _, ev := range events {
		if ev.IsOverride() {
			continue
		}
		if ev.RRule == "" {
			inst := resolve(ev, ev.Start, ev.End, overrides)
			if overlaps(inst.Start, inst.End, w.From, w.To) {
				out.Occurrences = append(out.Occurrences, occurrence(inst, w.Location))
			}
			continue
		}
		occ, capped := expandSeries(ev, w, overrides)
		out.Occurrences = append(out.Occurrences, occ...)
		if capped {
			out.Truncated = append(out.Truncated, ev.UID)
			appLog.Warn("ics series truncated", "uid", ev.UID, "cap", w.Cap)
		}
	}
	return out, nil
}

func expandSeries(ev Event, w Window, overrides map[overrideKey]Event) ([]model.Occurrence, bool) {
	rule, err := rrule.StrToRRule(ev.RRule)
	if err != nil {
		appLog.Error("ics rrule rejected", err, "uid", ev.UID, "rrule", ev.RRule)
		return nil, false
	}
	rule.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(rule)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	dur := ev.End.Sub(ev.Start)
	loc := ev.Start.Location()
	// Widen the lower bound by the duration so instances that start before
	// the window but run into it are kept.
	starts := set.Between(w.From.In(loc).Add(-dur), w.To.In(loc), true)
	capped := len(starts) > w.Cap
	if capped {
		starts = starts[:w.Cap]
	}

	out := make([]model.Occurrence, 0, len(starts))
	for _, s := range starts {
		inst := resolve(ev, s, s.Add(dur), overrides)
		if !overlaps(inst.Start, inst.End, w.From, w.To) {
			continue
		}
		out = append(out, occurrence(inst, w.Location))
	}
	return out, capped
}

// resolve returns the instance starting at start, replaced by its override
// when one exists.
func resolve(ev Event, start, end time.Time, overrides map[overrideKey]Event) Event {
	if o, ok := overrides[keyAt(ev.UID, start, ev.AllDay)]; ok {
		return o
	}
	ev.Start, ev.End = start, end
	return ev
}

// occurrence converts an instance into loc. All-day instances keep their
// calendar dates rather than their instants, so a DATE event never slides
// onto a neighboring day because of the display timezone.
func occurrence(ev Event, loc *time.Location) model.Occurrence {
	start, end := ev.Start.In(loc), ev.End.In(loc)
	if ev.AllDay {
		start = floatDate(ev.Start, loc)
		end = floatDate(ev.End, loc)
	}
	return model.Occurrence{
		SourceID:    ev.Source.ID,
		SourceName:  ev.Source.Name,
		UID:         ev.UID,
		InstanceKey: start.Format(time.RFC3339),
		Summary:     ev.Summary,
		Location:    ev.Location,
		AllDay:      ev.AllDay,
		Start:       start,
		End:         end,
	}
}

func floatDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// overlaps treats both intervals as half-open; a zero-length interval
// overlaps when its instant lies inside the other.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if aEnd.Equal(aStart) {
		return !aStart.Before(bStart) && aStart.Before(bEnd)
	}
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
