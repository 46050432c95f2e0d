package ics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socsite/internal/model"
)

func icsBody(lines ...string) []byte {
	all := append([]string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//test//EN"}, lines...)
	all = append(all, "END:VCALENDAR", "")
	return []byte(strings.Join(all, "\r\n"))
}

var sampleFeed = icsBody(
	"BEGIN:VEVENT",
	"UID:tasting",
	"DTSTAMP:20250101T000000Z",
	"DTSTART:20250305T060000Z",
	"DTEND:20250305T070000Z",
	"SUMMARY:Weekly Matcha Tasting",
	"CATEGORIES:Regular",
	"RRULE:FREQ=WEEKLY;COUNT=10",
	"EXDATE:20250312T060000Z",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:ceremony",
	"DTSTAMP:20250101T000000Z",
	"DTSTART:20250322T060000Z",
	"DTEND:20250322T080000Z",
	"SUMMARY:Tea Ceremony Workshop",
	"LOCATION:Culture Hub",
	"URL:https://example.com/events/ceremony",
	"CATEGORIES:Zephyr,workshop",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:mystery",
	"DTSTAMP:20250101T000000Z",
	"DTSTART:20250401T060000Z",
	"SUMMARY:Mystery Night",
	"CATEGORIES:Zephyr",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"DTSTART:20250401T060000Z",
	"SUMMARY:No UID",
	"END:VEVENT",
)

func TestParseFeed(t *testing.T) {
	src := Source{ID: "matcha-cal", URL: "https://example.com/cal.ics"}

	events, err := ParseFeed(src, sampleFeed)
	require.NoError(t, err)
	require.Len(t, events, 3, "event without UID must be skipped")

	tasting := events[0]
	assert.Equal(t, "tasting", tasting.UID)
	assert.True(t, tasting.StartValid)
	assert.Equal(t, "FREQ=WEEKLY;COUNT=10", tasting.RawRRule)
	require.Len(t, tasting.ExDates, 1)
	assert.True(t, tasting.ExDates[0].Equal(time.Date(2025, 3, 12, 6, 0, 0, 0, time.UTC)))

	ceremony := events[1]
	assert.Equal(t, "Culture Hub", ceremony.Location)
	assert.Equal(t, "https://example.com/events/ceremony", ceremony.URL)
	assert.Equal(t, []string{"Zephyr", "workshop"}, ceremony.Categories)
	assert.Equal(t, src, ceremony.Source)
}

func TestParseFeed_Empty(t *testing.T) {
	_, err := ParseFeed(Source{ID: "x"}, nil)
	assert.Error(t, err)
}

func TestToRecords(t *testing.T) {
	events, err := ParseFeed(Source{ID: "matcha-cal"}, sampleFeed)
	require.NoError(t, err)

	loc := time.FixedZone("AEDT", 11*3600)
	records, err := ToRecords(events, ExpandConfig{
		Location:   loc,
		RangeStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	var tastings []model.EventRecord
	byID := make(map[string]model.EventRecord)
	for _, r := range records {
		byID[r.ID] = r
		if r.Title == "Weekly Matcha Tasting" {
			tastings = append(tastings, r)
		}
	}

	require.Len(t, tastings, 3, "3/5, 3/19 and 3/26; 3/12 is excluded")
	assert.Equal(t, "tasting@20250305T060000Z", tastings[0].ID)
	assert.Equal(t, model.CategoryRegular, tastings[0].Category)
	assert.Equal(t, 17, tastings[0].Date.Hour())
	assert.Equal(t, loc, tastings[0].Date.Location())

	ceremony, ok := byID["ceremony"]
	require.True(t, ok)
	assert.Equal(t, model.CategoryWorkshop, ceremony.Category, "first recognised category wins")
	assert.Equal(t, "matcha-cal", ceremony.Source)

	mystery, ok := byID["mystery"]
	require.True(t, ok, "non-recurring events outside the range are kept")
	assert.Equal(t, model.CategoryOther, mystery.Category)
}

func TestToRecords_BadRange(t *testing.T) {
	now := time.Now()
	_, err := ToRecords(nil, ExpandConfig{RangeStart: now, RangeEnd: now.Add(-time.Hour)})
	assert.Error(t, err)
}

func TestExportRoundTrip(t *testing.T) {
	site := model.Site{Key: "matcha", Name: "UNSW Matcha Society", ShortName: "MatchaSoc"}
	date := time.Date(2025, 3, 22, 17, 0, 0, 0, time.UTC)
	records := []model.EventRecord{
		{ID: "ceremony", Title: "Tea Ceremony", Date: date, DateValid: true, Category: model.CategoryWorkshop, Link: "#"},
		{ID: "broken", Title: "Broken", RawDate: "bad"},
	}

	body := Export(site, records, date)

	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "UID:ceremony@matcha")
	assert.NotContains(t, body, "Broken")
	assert.NotContains(t, body, "URL:#")

	parsed, err := ParseFeed(Source{ID: "self"}, []byte(body))
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, "Tea Ceremony", parsed[0].Summary)
	assert.Equal(t, []string{"Workshop"}, parsed[0].Categories)
	assert.True(t, parsed[0].Start.Equal(date))
}

func TestFetcher_ConditionalAndFallback(t *testing.T) {
	var hits int32
	var failing atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if failing.Load() {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write(sampleFeed)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client())
	src := Source{ID: "main", URL: srv.URL + "/cal.ics?token=secret"}
	ctx := context.Background()

	first, err := f.FetchOne(ctx, src)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, sampleFeed, first.Body)

	second, err := f.FetchOne(ctx, src)
	require.NoError(t, err)
	assert.True(t, second.FromCache, "304 must reuse the cached body")
	assert.Equal(t, sampleFeed, second.Body)

	failing.Store(true)
	third, err := f.FetchOne(ctx, src)
	require.NoError(t, err)
	assert.True(t, third.FromCache)

	assert.EqualValues(t, 3, atomic.LoadInt32(&hits))
}

func TestFetchAll_CollectsErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client())
	results, errs := f.FetchAll(context.Background(), []Source{
		{ID: "missing", URL: srv.URL + "/nope.ics"},
		{ID: "empty"},
	})

	assert.Empty(t, results)
	assert.Len(t, errs, 2)
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "https://calendar.example.com/...(redacted)", redactURL("https://calendar.example.com/private/abc.ics?token=1"))
	assert.Equal(t, "ics://...(redacted)", redactURL("not a url"))
}
