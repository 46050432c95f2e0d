package ics

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "socsite/internal/log"
)

// FeedEvent is a VEVENT as read from a feed, before recurrence expansion.
type FeedEvent struct {
	Source Source

	UID         string
	Summary     string
	Description string
	Location    string
	URL         string
	ImageURL    string
	Categories  []string

	Start      time.Time
	End        time.Time
	StartValid bool
	AllDay     bool

	RawRRule string
	ExDates  []time.Time
}

// ParseFeed parses an ICS payload. VEVENTs without a UID are skipped; an
// unreadable DTSTART yields a FeedEvent with StartValid=false so the record
// can still be listed with an "Invalid Date" label.
func ParseFeed(src Source, body []byte) ([]FeedEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	events := make([]FeedEvent, 0)
	for _, ve := range cal.Events() {
		ev, err := parseVEvent(src, ve)
		if err != nil {
			appLog.Warn("feed vevent skipped", "id", src.ID, "reason", err.Error())
			continue
		}
		events = append(events, ev)
	}

	appLog.Debug("feed parsed", "id", src.ID, "event_count", len(events))
	return events, nil
}

func propValue(ve *ical.VEvent, p ical.ComponentProperty) string {
	if prop := ve.GetProperty(p); prop != nil {
		return strings.TrimSpace(prop.Value)
	}
	return ""
}

func parseVEvent(src Source, ve *ical.VEvent) (FeedEvent, error) {
	out := FeedEvent{Source: src}

	out.UID = propValue(ve, ical.ComponentPropertyUniqueId)
	if out.UID == "" {
		return out, errors.New("missing UID")
	}

	out.Summary = unescapeText(propValue(ve, ical.ComponentPropertySummary))
	out.Description = unescapeText(propValue(ve, ical.ComponentPropertyDescription))
	out.Location = unescapeText(propValue(ve, ical.ComponentPropertyLocation))
	out.URL = propValue(ve, ical.ComponentPropertyUrl)
	out.ImageURL = propValue(ve, ical.ComponentPropertyAttach)

	for _, p := range ve.GetProperties(ical.ComponentPropertyCategories) {
		for _, c := range strings.Split(p.Value, ",") {
			if c = strings.TrimSpace(c); c != "" {
				out.Categories = append(out.Categories, c)
			}
		}
	}

	if dt := ve.GetProperty(ical.ComponentPropertyDtStart); dt != nil {
		if vs, ok := dt.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			out.AllDay = true
		}
		if !strings.Contains(dt.Value, "T") {
			out.AllDay = true
		}
	}

	if start, err := ve.GetStartAt(); err == nil && !start.IsZero() {
		out.Start = start
		out.StartValid = true
	}
	if end, err := ve.GetEndAt(); err == nil {
		out.End = end
	}
	if out.StartValid && out.End.Before(out.Start) {
		out.End = out.Start
	}

	out.RawRRule = propValue(ve, ical.ComponentPropertyRrule)

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(part, out.Start.Location()); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	return out, nil
}

// parseICSTime handles the UTC, floating and date-only forms used by EXDATE.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}
	if loc == nil {
		loc = time.Local
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

var textUnescaper = strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)

func unescapeText(s string) string {
	return textUnescaper.Replace(s)
}
