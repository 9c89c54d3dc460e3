package daymeta

import (
	"context"
	"errors"
	"sync"
	"time"

	"thesiscal/internal/ics"
	appLog "thesiscal/internal/log"
)

// Fetcher is the part of ics.Fetcher the Refresher uses.
type Fetcher interface {
	FetchAll(ctx context.Context, sources []ics.Source) ([]ics.Feed, []error)
}

// Refresher rebuilds an Index from ICS sources. Overlapping runs are
// collapsed: a Refresh that starts while another is running returns at once.
type Refresher struct {
	Index       *Index
	Fetcher     Fetcher
	Sources     []ics.Source
	Location    *time.Location
	HorizonDays int
	// Now defaults to time.Now.
	Now func() time.Time

	running sync.Mutex
}

// Refresh fetches, parses and expands every source and swaps the result into
// the index. Sources that fail are skipped; if every source fails the old
// index is kept and the joined errors are returned.
func (r *Refresher) Refresh(ctx context.Context) error {
	if !r.running.TryLock() {
		appLog.Debug("daymeta refresh already running")
		return nil
	}
	defer r.running.Unlock()

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	start := now()
	horizon := r.HorizonDays
	if horizon <= 0 {
		horizon = 365
	}

	feeds, errs := r.Fetcher.FetchAll(ctx, r.Sources)
	if len(feeds) == 0 && len(errs) > 0 {
		err := errors.Join(errs...)
		appLog.Error("daymeta refresh failed", err, "sources", len(r.Sources))
		return err
	}

	var events []ics.Event
	for _, feed := range feeds {
		parsed, err := ics.Parse(feed)
		if err != nil {
			appLog.Error("daymeta parse failed", err, "id", feed.Source.ID)
			errs = append(errs, err)
			continue
		}
		events = append(events, parsed...)
	}

	exp, err := ics.Expand(events, ics.WindowAround(start, horizon, r.Location))
	if err != nil {
		return err
	}
	r.Index.Replace(exp.Occurrences, start)

	appLog.Info("daymeta refreshed",
		"sources", len(r.Sources),
		"failed", len(errs),
		"occurrences", len(exp.Occurrences),
		"days", r.Index.Days(),
		"took", now().Sub(start).String(),
	)
	return errors.Join(errs...)
}
