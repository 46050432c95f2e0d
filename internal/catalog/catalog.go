// Package catalog derives the views shown on the site from the event, team
// and sponsor collections. Every function is pure: inputs are never modified
// and results are recomputed on each call.
package catalog

import (
	"slices"
	"time"

	"socsite/internal/model"
)

// DefaultHorizonDays is the homepage near-term lookahead.
const DefaultHorizonDays = 14

// Partitions holds the events split around a single reference time.
type Partitions struct {
	Now      time.Time
	Upcoming []model.EventRecord
	Past     []model.EventRecord
}

// Partition splits events into upcoming (Date >= now, earliest first) and
// past (Date < now, most recent first). Records without a valid date are
// appended to Past in insertion order. Equal dates keep insertion order.
func Partition(events []model.EventRecord, now time.Time) Partitions {
	p := Partitions{
		Now:      now,
		Upcoming: make([]model.EventRecord, 0, len(events)),
		Past:     make([]model.EventRecord, 0, len(events)),
	}
	var undated []model.EventRecord

	for _, ev := range events {
		switch {
		case !ev.DateValid:
			undated = append(undated, ev)
		case !ev.Date.Before(now):
			p.Upcoming = append(p.Upcoming, ev)
		default:
			p.Past = append(p.Past, ev)
		}
	}

	slices.SortStableFunc(p.Upcoming, func(a, b model.EventRecord) int {
		return a.Date.Compare(b.Date)
	})
	slices.SortStableFunc(p.Past, func(a, b model.EventRecord) int {
		return b.Date.Compare(a.Date)
	})
	p.Past = append(p.Past, undated...)

	return p
}

// Filter narrows events to the selected category, keeping their order.
// SelectAll returns the input unchanged.
func Filter(events []model.EventRecord, sel model.Selection) []model.EventRecord {
	if sel.IsAll() {
		return events
	}
	out := make([]model.EventRecord, 0, len(events))
	for _, ev := range events {
		if ev.Category == sel.Category() {
			out = append(out, ev)
		}
	}
	return out
}

// NearTerm selects events dated from now through the end of the calendar day
// horizonDays after now (in now's location), sorted ascending.
func NearTerm(events []model.EventRecord, now time.Time, horizonDays int) []model.EventRecord {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	end := EndOfDay(now.AddDate(0, 0, horizonDays))

	out := make([]model.EventRecord, 0)
	for _, ev := range events {
		if !ev.DateValid {
			continue
		}
		if ev.Date.Before(now) || ev.Date.After(end) {
			continue
		}
		out = append(out, ev)
	}
	slices.SortStableFunc(out, func(a, b model.EventRecord) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location()).Add(-time.Nanosecond)
}

// AvailableCategories lists, in enumeration order, the categories used by at
// least one event. Filter buttons are built from this so no option is dead.
func AvailableCategories(events []model.EventRecord) []model.Category {
	seen := make(map[model.Category]bool, len(model.Categories))
	for _, ev := range events {
		seen[ev.Category] = true
	}
	out := make([]model.Category, 0, len(seen))
	for _, c := range model.Categories {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out
}
