package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"socsite/internal/config"
	"socsite/internal/content"
	appLog "socsite/internal/log"
	"socsite/internal/site"
)

// Server serves the rendered society pages, the public asset directory and
// the JSON/ICS feeds of the event store.
type Server struct {
	cfg      *config.Config
	store    *content.Store
	renderer *site.Renderer
	loc      *time.Location
	mux      *http.ServeMux
	server   *http.Server

	now func() time.Time
}

// NewServer constructs a new Server bound to cfg.Listen.
func NewServer(cfg *config.Config, store *content.Store, renderer *site.Renderer) *Server {
	s := &Server{
		cfg:      cfg,
		store:    store,
		renderer: renderer,
		loc:      cfg.Location(),
		mux:      http.NewServeMux(),
		now:      time.Now,
	}
	s.registerRoutes()
	s.server = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return loggingMiddleware(s.mux)
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	appLog.Info("starting HTTP server", "listen", "http://"+s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	appLog.Info("shutting down HTTP server")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	appLog.Info("HTTP server stopped")
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /about", s.handleAbout)
	s.mux.HandleFunc("GET /events", s.handleEventsPage)
	s.mux.HandleFunc("GET /team", s.handleTeam)
	s.mux.HandleFunc("GET /sponsors", s.handleSponsors)
	s.mux.HandleFunc("GET /contact", s.handleContact)
	s.mux.HandleFunc("POST /contact", s.handleContactSubmit)

	s.mux.HandleFunc("GET /events.ics", s.handleICS)
	s.mux.HandleFunc("GET /api/events", s.handleEventsAPI)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /robots.txt", s.handleRobots)
	s.mux.HandleFunc("GET /sitemap.xml", s.handleSitemap)

	s.mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(site.Assets()))))

	// Everything else is a public asset or the 404 page.
	s.mux.Handle("/", s.publicFileServer())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// publicFileServer serves regular files from cfg.PublicDir. Directories,
// missing files and anything under /api fall through to the 404 page.
func (s *Server) publicFileServer() http.Handler {
	root := s.cfg.PublicDir
	fileServer := http.FileServer(http.Dir(root))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if root == "" || path == "/api" || strings.HasPrefix(path, "/api/") ||
			(r.Method != http.MethodGet && r.Method != http.MethodHead) {
			s.notFound(w, r)
			return
		}

		rel := filepath.FromSlash(strings.TrimPrefix(path, "/"))
		info, err := os.Stat(filepath.Join(root, rel))
		if err != nil || info.IsDir() {
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				appLog.Warn("public file stat failed", "path", path, "reason", err.Error())
			}
			s.notFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}

// input captures now once for the whole render pass.
func (s *Server) input(r *http.Request) site.Input {
	now := s.now().In(s.loc)
	return site.Input{
		Site:  s.store.Snapshot().Site,
		Now:   now,
		Ready: s.store.Ready(now),
		Query: r.URL.Query(),
	}
}

// renderPage buffers the page so a template error never leaves a
// half-written response.
func (s *Server) renderPage(w http.ResponseWriter, status int, p *site.Page) {
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, p); err != nil {
		appLog.Error("render failed", err, "page", p.Name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if p.Refresh > 0 {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusNotFound, s.renderer.NotFoundPage(s.input(r)))
}

// loggingMiddleware logs method, path, status and duration per request.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		appLog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"took", time.Since(start).Round(time.Microsecond).String(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
