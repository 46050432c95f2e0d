package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"socsite/internal/config"
	"socsite/internal/ics"
	appLog "socsite/internal/log"
	"socsite/internal/model"
)

// FeedFetcher is the part of ics.Fetcher the syncer needs.
type FeedFetcher interface {
	FetchAll(ctx context.Context, sources []ics.Source) ([]ics.FetchResult, []error)
}

const (
	syncPastWindow   = 180 * 24 * time.Hour
	syncFutureWindow = 365 * 24 * time.Hour
)

// Syncer pulls the configured ICS feeds into a Store on a cron schedule.
type Syncer struct {
	store    *Store
	fetcher  FeedFetcher
	sources  []ics.Source
	loc      *time.Location
	schedule string

	now func() time.Time
}

func NewSyncer(store *Store, fetcher FeedFetcher, feeds []config.FeedConfig, loc *time.Location, schedule string) *Syncer {
	sources := make([]ics.Source, 0, len(feeds))
	for _, f := range feeds {
		if f.URL == "" {
			continue
		}
		sources = append(sources, ics.Source{ID: f.ID, URL: f.URL})
	}
	if loc == nil {
		loc = time.Local
	}
	return &Syncer{
		store:    store,
		fetcher:  fetcher,
		sources:  sources,
		loc:      loc,
		schedule: schedule,
		now:      time.Now,
	}
}

// RefreshOnce fetches every feed and swaps the store's feed events. When no
// feed yields a body the previous snapshot is kept and an error returned.
func (s *Syncer) RefreshOnce(ctx context.Context) error {
	if len(s.sources) == 0 {
		s.store.MarkSynced()
		return nil
	}

	start := time.Now()
	results, errs := s.fetcher.FetchAll(ctx, s.sources)
	if len(results) == 0 {
		s.store.MarkSynced()
		return fmt.Errorf("feed sync: no feed available: %w", errors.Join(errs...))
	}

	now := s.now()
	var feedEvents []model.EventRecord
	for _, res := range results {
		parsed, err := ics.ParseFeed(res.Source, res.Body)
		if err != nil {
			appLog.Error("feed parse failed", err, "id", res.Source.ID)
			continue
		}
		records, err := ics.ToRecords(parsed, ics.ExpandConfig{
			Location:   s.loc,
			RangeStart: now.Add(-syncPastWindow),
			RangeEnd:   now.Add(syncFutureWindow),
		})
		if err != nil {
			appLog.Error("feed expand failed", err, "id", res.Source.ID)
			continue
		}
		feedEvents = append(feedEvents, records...)
	}

	s.store.ReplaceFeedEvents(feedEvents, now)
	appLog.Info("feed sync done",
		"feeds", len(results),
		"failed", len(errs),
		"events", len(feedEvents),
		"took", time.Since(start).Round(time.Millisecond).String(),
	)
	return nil
}

// Start runs an initial refresh in the background and then refreshes on the
// configured schedule until ctx is done.
func (s *Syncer) Start(ctx context.Context) error {
	if len(s.sources) == 0 {
		s.store.MarkSynced()
		appLog.Info("no feeds configured, feed sync disabled")
		return nil
	}

	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(s.schedule, func() {
		if err := s.RefreshOnce(ctx); err != nil {
			appLog.Error("scheduled feed sync failed", err)
		}
	}); err != nil {
		return fmt.Errorf("feed sync: invalid schedule %q: %w", s.schedule, err)
	}

	go func() {
		if err := s.RefreshOnce(ctx); err != nil {
			appLog.Error("initial feed sync failed", err)
		}
	}()

	c.Start()
	appLog.Info("feed sync scheduled", "schedule", s.schedule, "feeds", len(s.sources))

	go func() {
		<-ctx.Done()
		stopped := c.Stop()
		<-stopped.Done()
		appLog.Info("feed sync stopped")
	}()
	return nil
}
