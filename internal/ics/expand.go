package ics

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	appLog "socsite/internal/log"
	"socsite/internal/model"
)

const defaultMaxOccurrencesPerEvent = 500

// ExpandConfig bounds recurrence expansion. Non-recurring events are always
// kept, whatever their date, because past events are listed too.
type ExpandConfig struct {
	// Location is the display timezone applied to every record.
	Location *time.Location

	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps a single RRULE. Zero means the default.
	MaxOccurrencesPerEvent int
}

// ToRecords converts feed events to EventRecords, expanding RRULEs inside
// the configured range. Category is the first CATEGORIES value in the closed
// enumeration; anything else becomes Other.
func ToRecords(events []FeedEvent, cfg ExpandConfig) ([]model.EventRecord, error) {
	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return nil, errors.New("expand: RangeEnd is before RangeStart")
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	out := make([]model.EventRecord, 0, len(events))
	for _, ev := range events {
		if ev.RawRRule == "" || !ev.StartValid {
			out = append(out, toRecord(ev, ev.UID, ev.Start, cfg.Location))
			continue
		}
		out = append(out, expandRecurring(ev, cfg)...)
	}
	return out, nil
}

func expandRecurring(ev FeedEvent, cfg ExpandConfig) []model.EventRecord {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Warn("feed rrule unreadable, keeping first occurrence", "uid", ev.UID, "rrule", ev.RawRRule)
		return []model.EventRecord{toRecord(ev, ev.UID, ev.Start, cfg.Location)}
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	times := set.Between(cfg.RangeStart.In(ev.Start.Location()), cfg.RangeEnd.In(ev.Start.Location()), true)
	if len(times) > cfg.MaxOccurrencesPerEvent {
		appLog.Warn("feed rrule truncated", "uid", ev.UID, "cap", cfg.MaxOccurrencesPerEvent)
		times = times[:cfg.MaxOccurrencesPerEvent]
	}

	out := make([]model.EventRecord, 0, len(times))
	for _, t := range times {
		id := ev.UID + "@" + t.UTC().Format("20060102T150405Z")
		out = append(out, toRecord(ev, id, t, cfg.Location))
	}
	return out
}

func toRecord(ev FeedEvent, id string, start time.Time, loc *time.Location) model.EventRecord {
	rec := model.EventRecord{
		ID:          id,
		Title:       ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		Link:        ev.URL,
		ImageURL:    ev.ImageURL,
		Category:    pickCategory(ev),
		Source:      ev.Source.ID,
	}
	if ev.StartValid {
		rec.Date = start.In(loc)
		rec.DateValid = true
		rec.RawDate = rec.Date.Format(time.RFC3339)
	}
	return rec
}

func pickCategory(ev FeedEvent) model.Category {
	for _, c := range ev.Categories {
		if cat, err := model.ParseCategory(c); err == nil {
			return cat
		}
	}
	if len(ev.Categories) > 0 {
		appLog.Warn("feed event category coerced to Other", "uid", ev.UID, "categories", ev.Categories)
	}
	return model.CategoryOther
}
