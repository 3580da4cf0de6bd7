package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/vbonduro/agenda/internal/domain"
	"github.com/vbonduro/agenda/internal/session"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if v, ok := viewerFrom(r); ok {
		http.Redirect(w, r, homeFor(v), http.StatusSeeOther)
		return
	}

	flashes := s.popFlashes(w, r)
	if err := s.renderPage(w,
		map[string]any{"Flashes": flashes},
		"base.html", "pages/login.html",
	); err != nil {
		s.logger.Error("render page error", "error", err)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	user, err := s.directory.Authenticate(r.Context(), r.FormValue("codigo"))
	if errors.Is(err, domain.ErrInvalidAccessCode) {
		s.logger.Info("login rejected", "ip", clientIP(r))
		s.flash(w, r, "danger", "Código de acesso inválido!")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		s.logger.Error("authenticate error", "error", err)
		http.Error(w, "failed to log in", http.StatusInternalServerError)
		return
	}

	rs := currentSession(r)
	rs.data = session.ForUser(user)
	id, err := s.sessions.Renew(r.Context(), w, rs.id, rs.data)
	if err != nil {
		s.logger.Error("failed to start session", "error", err)
		http.Error(w, "failed to log in", http.StatusInternalServerError)
		return
	}
	rs.id = id

	s.logger.Info("user logged in", "user_id", user.ID, "role", string(user.Role))
	http.Redirect(w, r, homeFor(rs.data.Viewer()), http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	rs := currentSession(r)
	rs.data = &session.Session{}
	rs.data.AddFlash("info", "Sessão encerrada com sucesso!")
	id, err := s.sessions.Renew(r.Context(), w, rs.id, rs.data)
	if err != nil {
		s.logger.Error("failed to end session", "error", err)
	}
	rs.id = id
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleIndex serves the admin dashboard. Client users are sent to their
// calendar.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	v, ok := viewerFrom(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if !v.IsAdmin() {
		http.Redirect(w, r, homeFor(v), http.StatusSeeOther)
		return
	}

	dash, err := s.directory.Dashboard(r.Context())
	if err != nil {
		s.logger.Error("dashboard error", "error", err)
		http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
		return
	}

	flashes := s.popFlashes(w, r)
	if err := s.renderPage(w,
		map[string]any{
			"Viewer":      v,
			"Flashes":     flashes,
			"Today":       today(),
			"Clients":     dash.Clients,
			"Locations":   dash.Locations,
			"Technicians": dash.Technicians,
			"Users":       dash.Users,
		},
		"base.html", "pages/admin_dashboard.html", "partials/calendar.html",
	); err != nil {
		s.logger.Error("render page error", "error", err)
	}
}

func (s *Server) handleClientAgenda(w http.ResponseWriter, r *http.Request) {
	v, _ := viewerFrom(r)
	if v.ClientID == nil {
		http.Error(w, "user has no client", http.StatusForbidden)
		return
	}

	locations, err := s.directory.ListClientLocations(r.Context(), v, *v.ClientID)
	if err != nil {
		s.logger.Error("list client locations error", "error", err)
		http.Error(w, "failed to load agenda", http.StatusInternalServerError)
		return
	}
	technicians, err := s.directory.ListTechnicians(r.Context())
	if err != nil {
		s.logger.Error("list technicians error", "error", err)
		http.Error(w, "failed to load agenda", http.StatusInternalServerError)
		return
	}

	flashes := s.popFlashes(w, r)
	if err := s.renderPage(w,
		map[string]any{
			"Viewer":      v,
			"Flashes":     flashes,
			"Today":       today(),
			"ClientName":  v.Name,
			"Locations":   locations,
			"Technicians": technicians,
		},
		"base.html", "pages/agenda_cliente.html", "partials/calendar.html",
	); err != nil {
		s.logger.Error("render page error", "error", err)
	}
}

func today() domain.Date {
	y, m, d := time.Now().Date()
	return domain.NewDate(y, m, d)
}
