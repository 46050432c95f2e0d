package web

import (
	"net/http"
	"time"

	"socsite/internal/catalog"
	"socsite/internal/ics"
	appLog "socsite/internal/log"
	"socsite/internal/model"
	"socsite/internal/site"
)

// eventDTO is a JSON-friendly view of an EventRecord. Date is omitted when
// the authored date could not be parsed.
type eventDTO struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Date        *time.Time `json:"date,omitempty"`
	DateValid   bool       `json:"date_valid"`
	DisplayDate string     `json:"display_date"`
	Category    string     `json:"category"`
	ImageURL    string     `json:"image_url"`
	Link        string     `json:"link"`
	Description string     `json:"description"`
	Location    string     `json:"location,omitempty"`
	Source      string     `json:"source"`
}

type sectionDTO struct {
	Selection string     `json:"selection"`
	Total     int        `json:"total"`
	Events    []eventDTO `json:"events"`
}

// eventsResponse is the JSON response shape for /api/events.
type eventsResponse struct {
	Ready               bool       `json:"ready"`
	Now                 time.Time  `json:"now"`
	DisplayTimeZone     string     `json:"display_timezone"`
	AvailableCategories []string   `json:"available_categories"`
	Upcoming            sectionDTO `json:"upcoming"`
	Past                sectionDTO `json:"past"`
}

func toDTOs(events []model.EventRecord) []eventDTO {
	out := make([]eventDTO, 0, len(events))
	for _, ev := range events {
		d := eventDTO{
			ID:          ev.ID,
			Title:       ev.Title,
			DateValid:   ev.DateValid,
			DisplayDate: ev.DisplayDate(),
			Category:    string(ev.Category),
			ImageURL:    ev.ImageURL,
			Link:        ev.Link,
			Description: ev.Description,
			Location:    ev.Location,
			Source:      ev.Source,
		}
		if ev.DateValid {
			t := ev.Date
			d.Date = &t
		}
		out = append(out, d)
	}
	return out
}

// handleEventsAPI returns both partitions, each filtered by its own
// selection.
//
// GET /api/events?upcoming=Workshop&past=All
//   - upcoming: category for the upcoming list (default All)
//   - past:     category for the past list (default All)
//
// While the store is loading, 503 is returned with ready=false.
func (s *Server) handleEventsAPI(w http.ResponseWriter, r *http.Request) {
	in := s.input(r)
	resp := eventsResponse{
		Ready:               in.Ready,
		Now:                 in.Now,
		DisplayTimeZone:     s.loc.String(),
		AvailableCategories: []string{},
		Upcoming:            sectionDTO{Selection: string(model.SelectAll), Events: []eventDTO{}},
		Past:                sectionDTO{Selection: string(model.SelectAll), Events: []eventDTO{}},
	}
	if !in.Ready {
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	upSel := model.ParseSelection(in.Query.Get("upcoming"))
	pastSel := model.ParseSelection(in.Query.Get("past"))
	parts := catalog.Partition(in.Site.Events, in.Now)

	for _, c := range catalog.AvailableCategories(in.Site.Events) {
		resp.AvailableCategories = append(resp.AvailableCategories, string(c))
	}
	resp.Upcoming = sectionDTO{
		Selection: string(upSel),
		Total:     len(parts.Upcoming),
		Events:    toDTOs(catalog.Filter(parts.Upcoming, upSel)),
	}
	resp.Past = sectionDTO{
		Selection: string(pastSel),
		Total:     len(parts.Past),
		Events:    toDTOs(catalog.Filter(parts.Past, pastSel)),
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleICS exports the whole store as an iCalendar feed.
func (s *Server) handleICS(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	body := ics.Export(snap.Site, snap.Site.Events, s.now().UTC())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="`+snap.Site.Key+`-events.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		appLog.Error("failed to write ICS response", err)
	}
}

func (s *Server) handleRobots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(site.Robots(s.store.Snapshot().Site.BaseURL)))
}

func (s *Server) handleSitemap(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	b, err := site.Sitemap(snap.Site.BaseURL, snap.LoadedAt)
	if err != nil {
		appLog.Error("sitemap render failed", err)
		writeError(w, http.StatusInternalServerError, "failed to render sitemap")
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(b)
}
