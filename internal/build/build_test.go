package build

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socsite/internal/capture"
	"socsite/internal/model"
	"socsite/internal/site"
)

var now = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func testInput() site.Input {
	return site.Input{
		Now: now,
		Site: model.Site{
			Key:     "matcha",
			Name:    "UNSW Matcha Society",
			BaseURL: "https://www.example.com",
			Email:   "hello@example.com",
			Events: []model.EventRecord{
				{ID: "tasting", Title: "Weekly Tasting", Date: now.AddDate(0, 0, 2), DateValid: true, Category: model.CategoryRegular},
				{ID: "welcome", Title: "Welcome Tea", Date: now.AddDate(0, 0, -5), DateValid: true, Category: model.CategoryCultural},
				{ID: "hanami", Title: "Hanami Picnic", Date: now.AddDate(0, 0, 40), DateValid: true, Category: model.CategoryCultural},
			},
		},
	}
}

func readFile(t *testing.T, dir, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(b)
}

func newBuilder(t *testing.T, opts Options, c Capturer) *Builder {
	t.Helper()
	r, err := site.New(site.Options{Static: true, PublicDir: opts.PublicDir, OGImages: c != nil})
	require.NoError(t, err)
	return New(r, opts, c)
}

func TestBuild_WritesTree(t *testing.T) {
	public := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(public, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(public, "images", "logo.png"), []byte("png"), 0o644))
	out := filepath.Join(t.TempDir(), "dist")

	in := testInput()
	res, err := newBuilder(t, Options{OutputDir: out, PublicDir: public}, nil).Build(context.Background(), in)
	require.NoError(t, err)

	for _, want := range []string{
		"index.html", "about/index.html", "events/index.html", "team/index.html",
		"sponsors/index.html", "contact/index.html", "404.html",
		"events.ics", "robots.txt", "sitemap.xml",
		"images/logo.png", "assets/css/site.css", "assets/js/site.js",
	} {
		assert.Contains(t, res.Files, want)
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(want)))
	}
	assert.Zero(t, res.Captured)

	events := readFile(t, out, "events/index.html")
	assert.Contains(t, events, "Weekly Tasting")
	assert.NotContains(t, events, "Loading events", "static output is always ready")

	assert.Contains(t, readFile(t, out, "contact/index.html"), `action="mailto:hello@example.com"`)
	assert.Contains(t, readFile(t, out, "events.ics"), "UID:tasting@matcha")
	assert.Equal(t, "png", readFile(t, out, "images/logo.png"))
}

func TestBuild_EventsCarryClientSplitData(t *testing.T) {
	out := t.TempDir()
	_, err := newBuilder(t, Options{OutputDir: out}, nil).Build(context.Background(), testInput())
	require.NoError(t, err)

	events := readFile(t, out, "events/index.html")
	upStart := strings.Index(events, `data-section="upcoming"`)
	pastStart := strings.Index(events, `data-section="past"`)
	require.True(t, upStart >= 0 && pastStart > upStart)

	upcoming := events[upStart:pastStart]
	assert.Contains(t, upcoming, "Weekly Tasting")
	assert.Contains(t, upcoming, `data-start="2025-03-12T09:30:00Z"`)
	assert.Contains(t, upcoming, "data-grid")
	assert.Contains(t, upcoming, "No Upcoming Events", "empty state ships hidden for the browser to reveal")
	assert.Contains(t, events[pastStart:], `data-start="2025-03-05T09:30:00Z"`)
	assert.Contains(t, events, `<span data-count="upcoming">2</span>`)

	home := readFile(t, out, "index.html")
	assert.Contains(t, home, `data-horizon="14"`)
	assert.Contains(t, home, `data-start="2025-04-19T09:30:00Z" hidden>`, "later events ship hidden")
	assert.Contains(t, home, "No events in the next 14 days")

	js := readFile(t, out, "assets/js/site.js")
	assert.Contains(t, js, "function resplitEvents")
	assert.Contains(t, js, "function refreshCarousel")
	assert.Contains(t, js, "data-start")
}

func TestBuild_MissingPublicDir(t *testing.T) {
	out := t.TempDir()
	_, err := newBuilder(t, Options{OutputDir: out, PublicDir: filepath.Join(out, "nope")}, nil).
		Build(context.Background(), testInput())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "index.html"))
}

func TestBuild_EmptyOutputDir(t *testing.T) {
	_, err := newBuilder(t, Options{}, nil).Build(context.Background(), testInput())
	assert.Error(t, err)
}

// fakeCapturer fetches each shot's URL from the loopback server and writes
// the body instead of a screenshot.
type fakeCapturer struct {
	shots []capture.Shot
	err   error
}

func (f *fakeCapturer) Capture(_ context.Context, shots []capture.Shot) error {
	f.shots = shots
	if f.err != nil {
		return f.err
	}
	for _, s := range shots {
		resp, err := http.Get(s.URL)
		if err != nil {
			return err
		}
		b, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(s.OutputPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(s.OutputPath, b, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func TestBuild_CapturesOGImages(t *testing.T) {
	out := t.TempDir()
	fc := &fakeCapturer{}

	res, err := newBuilder(t, Options{OutputDir: out}, fc).Build(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, 6, res.Captured, "404 page is not captured")
	require.Len(t, fc.shots, 6)
	assert.Contains(t, res.Files, "og/home.png")
	assert.Contains(t, res.Files, "og/events.png")
	assert.NotContains(t, res.Files, "og/notfound.png")

	assert.Contains(t, readFile(t, out, "og/about.png"), "Our Mission")
	assert.Contains(t, readFile(t, out, "index.html"), "https://www.example.com/og/home.png")
}

func TestBuild_CaptureError(t *testing.T) {
	fc := &fakeCapturer{err: errors.New("no chrome")}
	_, err := newBuilder(t, Options{OutputDir: t.TempDir()}, fc).Build(context.Background(), testInput())
	assert.ErrorContains(t, err, "no chrome")
}

func TestPageFile(t *testing.T) {
	assert.Equal(t, "index.html", pageFile("/"))
	assert.Equal(t, "team/index.html", pageFile("/team"))
}
