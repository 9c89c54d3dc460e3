package daymeta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thesiscal/internal/calendar"
	"thesiscal/internal/model"
)

func at(day, hour int) time.Time {
	return time.Date(2024, time.March, day, hour, 0, 0, 0, time.UTC)
}

func day(d int) calendar.Date { return calendar.NewDate(2024, time.March, d) }

func TestBuildMarksEveryCoveredDay(t *testing.T) {
	x := NewIndex()
	x.Replace([]model.Occurrence{
		{UID: "defense", Summary: "Defense", AllDay: true, Start: at(5, 0), End: at(8, 0)},
		{UID: "meeting", Summary: "Meeting", Start: at(6, 9), End: at(6, 10)},
		{UID: "early", Summary: "Early", Start: at(6, 7), End: at(6, 8)},
	}, at(1, 0))

	assert.Equal(t, 1, x.Count("2024-03-05"))
	assert.Equal(t, 3, x.Count("2024-03-06"))
	assert.Equal(t, 1, x.Count("2024-03-07"))
	assert.Zero(t, x.Count("2024-03-08"))
	assert.Equal(t, 3, x.Days())
	assert.Equal(t, at(1, 0), x.UpdatedAt())

	entries := x.Entries(day(6))
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"defense", "early", "meeting"},
		[]string{entries[0].UID, entries[1].UID, entries[2].UID})
}

func TestEntriesReturnsCopy(t *testing.T) {
	x := NewIndex()
	x.Replace([]model.Occurrence{{UID: "a", Start: at(5, 9), End: at(5, 10)}}, time.Time{})

	got := x.Entries(day(5))
	got[0].UID = "mutated"
	assert.Equal(t, "a", x.Entries(day(5))[0].UID)
	assert.Empty(t, x.Entries(day(6)))
}

func TestIndexDrivesViewLookup(t *testing.T) {
	x := NewIndex()
	x.Replace([]model.Occurrence{{UID: "a", AllDay: true, Start: at(12, 0), End: at(13, 0)}}, time.Time{})

	v := calendar.BuildView(calendar.ViewInput{Month: day(1), Lookup: x})
	var marked []string
	for _, w := range v.Weeks {
		for _, c := range w.Cells {
			if c.HasEntries {
				marked = append(marked, c.Date.Key())
			}
		}
	}
	assert.Equal(t, []string{"2024-03-12"}, marked)
}
