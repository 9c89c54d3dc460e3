// Package daymeta indexes calendar entries by day so the month view can mark
// days that already have something scheduled.
package daymeta

import (
	"sort"
	"sync"
	"time"

	"thesiscal/internal/calendar"
	"thesiscal/internal/model"
)

// Entry is one occurrence as listed under a single day.
type Entry struct {
	SourceID   string    `json:"source_id"`
	SourceName string    `json:"source_name,omitempty"`
	UID        string    `json:"uid"`
	Summary    string    `json:"summary"`
	Location   string    `json:"location,omitempty"`
	AllDay     bool      `json:"all_day"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

// Index maps "YYYY-MM-DD" keys to the entries on that day. The whole map is
// swapped on Replace, so readers always see one consistent build.
type Index struct {
	mu        sync.RWMutex
	days      map[string][]Entry
	updatedAt time.Time
}

var _ calendar.DayLookup = (*Index)(nil)

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{days: map[string][]Entry{}}
}

// Build groups occurrences by every day they cover. Entries within a day are
// ordered all-day first, then by start time and summary.
func Build(occ []model.Occurrence) map[string][]Entry {
	days := make(map[string][]Entry)
	for _, o := range occ {
		e := Entry{
			SourceID:   o.SourceID,
			SourceName: o.SourceName,
			UID:        o.UID,
			Summary:    o.Summary,
			Location:   o.Location,
			AllDay:     o.AllDay,
			Start:      o.Start,
			End:        o.End,
		}
		for _, d := range o.Days().Days() {
			days[d.Key()] = append(days[d.Key()], e)
		}
	}
	for _, list := range days {
		sort.SliceStable(list, func(i, j int) bool {
			a, b := list[i], list[j]
			if a.AllDay != b.AllDay {
				return a.AllDay
			}
			if !a.Start.Equal(b.Start) {
				return a.Start.Before(b.Start)
			}
			return a.Summary < b.Summary
		})
	}
	return days
}

// Replace swaps in a fresh build of occ.
func (x *Index) Replace(occ []model.Occurrence, at time.Time) {
	days := Build(occ)
	x.mu.Lock()
	x.days = days
	x.updatedAt = at
	x.mu.Unlock()
}

// Count returns how many entries fall on the day key.
func (x *Index) Count(key string) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.days[key])
}

// Entries returns a copy of the entries on d.
func (x *Index) Entries(d calendar.Date) []Entry {
	x.mu.RLock()
	defer x.mu.RUnlock()
	list := x.days[d.Key()]
	out := make([]Entry, len(list))
	copy(out, list)
	return out
}

// Days returns the number of distinct days with at least one entry.
func (x *Index) Days() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.days)
}

// UpdatedAt returns when the index was last replaced.
func (x *Index) UpdatedAt() time.Time {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.updatedAt
}
