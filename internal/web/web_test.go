package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socsite/internal/config"
	"socsite/internal/content"
	appLog "socsite/internal/log"
	"socsite/internal/model"
	"socsite/internal/site"
)

var now = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func testSite() model.Site {
	at := func(days int) time.Time { return now.AddDate(0, 0, days) }
	return model.Site{
		Key:           "matcha",
		Name:          "UNSW Matcha Society",
		ShortName:     "MatchaSoc",
		BaseURL:       "https://www.example.com",
		EventFallback: "/images/events/fallback.jpg",
		Events: []model.EventRecord{
			{ID: "ceremony", Title: "Tea Ceremony", Date: at(12), DateValid: true, Category: model.CategoryWorkshop, Source: "builtin"},
			{ID: "tasting", Title: "Weekly Tasting", Date: at(2), DateValid: true, Category: model.CategoryRegular, Source: "builtin"},
			{ID: "welcome", Title: "Welcome Tea", Date: at(-20), DateValid: true, Category: model.CategoryCultural, Source: "builtin"},
			{ID: "broken", Title: "Mystery", RawDate: "soon", Category: model.CategoryOther, Source: "builtin"},
		},
		Teams: []model.TeamCategory{{Name: "Executives", Members: []model.Member{{ID: "a", Name: "Annie", Role: "President"}}}},
	}
}

type testEnv struct {
	srv    *Server
	store  *content.Store
	public string
}

func newTestEnv(t *testing.T, ready bool) *testEnv {
	t.Helper()

	public := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(public, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(public, "images", "logo.png"), []byte("png"), 0o644))

	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	cfg.PublicDir = public

	store := content.NewStore(testSite(), !ready, 0, now)
	renderer, err := site.New(site.Options{PublicDir: public})
	require.NoError(t, err)

	srv := NewServer(cfg, store, renderer)
	srv.now = func() time.Time { return now }
	return &testEnv{srv: srv, store: store, public: public}
}

func (e *testEnv) do(t *testing.T, method, target string, body url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestPages(t *testing.T) {
	env := newTestEnv(t, true)

	cases := []struct {
		path string
		want string
	}{
		{"/", "Weekly Tasting"},
		{"/about", "Our Mission"},
		{"/events", `Upcoming Events (<span data-count="upcoming">2</span>)`},
		{"/team", "Annie"},
		{"/sponsors", "No sponsors yet"},
		{"/contact", "Send us a Message"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tc.path, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestEventsPage_Filter(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodGet, "/events?upcoming=Workshop", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Tea Ceremony")
	assert.NotContains(t, body, "Weekly Tasting")
	assert.Contains(t, body, "Invalid Date")
}

func TestEventsPage_Loading(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodGet, "/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "Loading events")

	env.store.MarkSynced()
	rec = env.do(t, http.MethodGet, "/events", nil)
	assert.NotContains(t, rec.Body.String(), "Loading events")
}

func TestEventsAPI(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodGet, "/api/events?past=Cultural", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp eventsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Ready)
	assert.Equal(t, "UTC", resp.DisplayTimeZone)
	assert.Equal(t, []string{"Regular", "Workshop", "Cultural", "Other"}, resp.AvailableCategories)

	require.Len(t, resp.Upcoming.Events, 2)
	assert.Equal(t, "tasting", resp.Upcoming.Events[0].ID)
	assert.Equal(t, "ceremony", resp.Upcoming.Events[1].ID)

	assert.Equal(t, "Cultural", resp.Past.Selection)
	assert.Equal(t, 2, resp.Past.Total)
	require.Len(t, resp.Past.Events, 1)
	assert.Equal(t, "welcome", resp.Past.Events[0].ID)
}

func TestEventsAPI_InvalidDate(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodGet, "/api/events?past=Other", nil)
	var resp eventsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Past.Events, 1)
	assert.Nil(t, resp.Past.Events[0].Date)
	assert.False(t, resp.Past.Events[0].DateValid)
	assert.Equal(t, "Invalid Date", resp.Past.Events[0].DisplayDate)
}

func TestEventsAPI_NotReady(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodGet, "/api/events", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"ready":false`)
}

func TestContactSubmit(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodPost, "/contact", url.Values{
		"name":    {"Pat"},
		"email":   {"not-an-email"},
		"subject": {"Hello"},
		"message": {" "},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please enter a valid email address.")
	assert.Contains(t, body, "Please enter a message.")
	assert.Contains(t, body, `value="Pat"`)

	rec = env.do(t, http.MethodPost, "/contact", url.Values{
		"name":    {"Pat"},
		"email":   {"pat@example.com"},
		"subject": {"Hello"},
		"message": {"Can I join?"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, "Thank you for your message!")
	assert.NotContains(t, body, `value="Pat"`, "fields are cleared after success")
}

func TestContactSubmit_LogsNoPersonalData(t *testing.T) {
	var buf bytes.Buffer
	appLog.SetOutput(&buf)
	appLog.SetLevel(appLog.LevelInfo)
	t.Cleanup(func() { appLog.SetOutput(os.Stderr) })

	env := newTestEnv(t, true)
	rec := env.do(t, http.MethodPost, "/contact", url.Values{
		"name":    {"Pat Example"},
		"email":   {"pat@example.com"},
		"subject": {"Hello"},
		"message": {"Can I join?"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	logged := buf.String()
	assert.Contains(t, logged, "contact form submitted")
	assert.Contains(t, logged, "message_len=11")
	assert.NotContains(t, logged, "pat@example.com")
	assert.NotContains(t, logged, "Pat Example")
}

func TestICSExport(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodGet, "/events.ics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "UID:ceremony@matcha")
	assert.NotContains(t, body, "Mystery")
}

func TestHealthRobotsSitemap(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = env.do(t, http.MethodGet, "/robots.txt", nil)
	assert.Contains(t, rec.Body.String(), "Sitemap: https://www.example.com/sitemap.xml")

	rec = env.do(t, http.MethodGet, "/sitemap.xml", nil)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<loc>https://www.example.com/team</loc>")
}

func TestStaticAndNotFound(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodGet, "/images/logo.png", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())

	rec = env.do(t, http.MethodGet, "/assets/css/site.css", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, path := range []string{"/images/missing.png", "/images/", "/api/unknown", "/nowhere"} {
		rec = env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "Page Not Found", path)
	}
}

func TestLoggingMiddlewareRecordsStatus(t *testing.T) {
	h := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
