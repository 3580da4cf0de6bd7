package web

import (
	"context"
	"net/http"

	"github.com/vbonduro/agenda/internal/domain"
	"github.com/vbonduro/agenda/internal/session"
)

type ctxKey int

const sessionCtxKey ctxKey = iota

// requestSession is the session loaded for the current request. id is empty
// until the session is first saved.
type requestSession struct {
	id   string
	data *session.Session
}

// withSession loads the session named by the cookie into the request context.
// A session that cannot be loaded is treated as anonymous.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, id, err := s.sessions.Load(r)
		if err != nil {
			s.logger.Error("failed to load session", "error", err)
			data, id = &session.Session{}, ""
		}
		if data.Authenticated() {
			data = s.revalidate(w, r, id, data)
		}
		ctx := context.WithValue(r.Context(), sessionCtxKey, &requestSession{id: id, data: data})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// revalidate checks an authenticated session against the users table so that
// deleted users, changed access codes and role or client moves take effect on
// the next request. When the lookup fails the request proceeds anonymously.
func (s *Server) revalidate(w http.ResponseWriter, r *http.Request, id string, data *session.Session) *session.Session {
	u, err := s.directory.CurrentUser(r.Context(), data.UserID, data.Code)
	if err != nil {
		s.logger.Error("failed to revalidate session", "error", err)
		return &session.Session{}
	}

	if u == nil {
		s.logger.Info("session revoked", "user_id", data.UserID)
		data.Revoke()
	} else if !data.Refresh(u) {
		return data
	}
	if _, err := s.sessions.Save(r.Context(), w, id, data); err != nil {
		s.logger.Error("failed to save session", "error", err)
	}
	return data
}

func currentSession(r *http.Request) *requestSession {
	if rs, ok := r.Context().Value(sessionCtxKey).(*requestSession); ok {
		return rs
	}
	return &requestSession{data: &session.Session{}}
}

// viewerFrom returns the authenticated viewer, if any.
func viewerFrom(r *http.Request) (domain.Viewer, bool) {
	rs := currentSession(r)
	if !rs.data.Authenticated() {
		return domain.Viewer{}, false
	}
	return rs.data.Viewer(), true
}

// saveSession persists the request session, setting the cookie. It must run
// before the response body is written.
func (s *Server) saveSession(w http.ResponseWriter, r *http.Request) {
	rs := currentSession(r)
	id, err := s.sessions.Save(r.Context(), w, rs.id, rs.data)
	if err != nil {
		s.logger.Error("failed to save session", "error", err)
		return
	}
	rs.id = id
}

func (s *Server) flash(w http.ResponseWriter, r *http.Request, category, message string) {
	currentSession(r).data.AddFlash(category, message)
	s.saveSession(w, r)
}

// popFlashes drains pending flashes, persisting the session only when there
// was something to drain.
func (s *Server) popFlashes(w http.ResponseWriter, r *http.Request) []session.Flash {
	flashes := currentSession(r).data.PopFlashes()
	if len(flashes) > 0 {
		s.saveSession(w, r)
	}
	return flashes
}

func homeFor(v domain.Viewer) string {
	if v.IsAdmin() {
		return "/"
	}
	return "/agenda_cliente"
}

// requirePage gates HTML and form routes: anonymous callers go to /login,
// callers with another role go to their own home page.
func (s *Server) requirePage(role domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := viewerFrom(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if v.Role != role {
			http.Redirect(w, r, homeFor(v), http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// requireAPI gates JSON routes on any authenticated viewer.
func (s *Server) requireAPI(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := viewerFrom(r); !ok {
			writeFailure(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) requireAdminAPI(next http.HandlerFunc) http.HandlerFunc {
	return s.requireAPI(func(w http.ResponseWriter, r *http.Request) {
		if v, _ := viewerFrom(r); !v.IsAdmin() {
			writeFailure(w, http.StatusForbidden, msgForbidden)
			return
		}
		next(w, r)
	})
}
