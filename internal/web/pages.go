package web

import (
	"net/http"

	"github.com/google/uuid"

	appLog "socsite/internal/log"
	"socsite/internal/site"
)

// maxContactBody bounds a contact form post.
const maxContactBody = 64 << 10

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, s.renderer.HomePage(s.input(r)))
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, s.renderer.AboutPage(s.input(r)))
}

func (s *Server) handleEventsPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, s.renderer.EventsPage(s.input(r)))
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, s.renderer.TeamPage(s.input(r)))
}

func (s *Server) handleSponsors(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, s.renderer.SponsorsPage(s.input(r)))
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, s.renderer.ContactPage(s.input(r), site.ContactForm{}, nil, ""))
}

// handleContactSubmit validates the form and logs accepted submissions.
// Nothing is stored or sent.
func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)
	if err := r.ParseForm(); err != nil {
		appLog.Warn("contact form unreadable", "reason", err.Error())
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	in := s.input(r)
	form := site.ContactFormFrom(r.PostForm)
	if errs := form.Validate(); len(errs) > 0 {
		appLog.Debug("contact form rejected", "fields", len(errs))
		s.renderPage(w, http.StatusUnprocessableEntity, s.renderer.ContactPage(in, form, errs, ""))
		return
	}

	ref := uuid.NewString()
	appLog.Info("contact form submitted",
		"ref", ref,
		"subject_len", len(form.Subject),
		"message_len", len(form.Message),
	)
	s.renderPage(w, http.StatusOK, s.renderer.ContactPage(in, site.ContactForm{}, nil, ref))
}
