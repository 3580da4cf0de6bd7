package web

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/vbonduro/agenda/internal/domain"
	"github.com/vbonduro/agenda/internal/service"
	"github.com/vbonduro/agenda/internal/session"
)

type Server struct {
	directory *service.DirectoryService
	schedule  *service.ScheduleService
	sessions  *session.Manager
	limiter   *RateLimiter
	templates fs.FS
	static    fs.FS
	forms     *formValidator
	mux       *http.ServeMux
	tmplFuncs template.FuncMap
	logger    *slog.Logger
}

func NewServer(
	directory *service.DirectoryService,
	schedule *service.ScheduleService,
	sessions *session.Manager,
	limiter *RateLimiter,
	tmpl fs.FS,
	static fs.FS,
	logger *slog.Logger,
) *Server {
	s := &Server{
		directory: directory,
		schedule:  schedule,
		sessions:  sessions,
		limiter:   limiter,
		templates: tmpl,
		static:    static,
		forms:     newFormValidator(),
		mux:       http.NewServeMux(),
		logger:    logger,
		tmplFuncs: template.FuncMap{
			"formatDate":  func(d domain.Date) string { return d.BR() },
			"statusColor": domain.StatusColor,
			"statuses":    func() []string { return domain.Statuses },
			"deref": func(p *int64) int64 {
				if p == nil {
					return 0
				}
				return *p
			},
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(s.static)))

	s.mux.HandleFunc("GET /login", s.handleLoginPage)
	s.mux.HandleFunc("POST /login", s.limitLogin(s.handleLogin))
	s.mux.HandleFunc("GET /logout", s.handleLogout)

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /agenda_cliente", s.requirePage(domain.RoleClient, s.handleClientAgenda))

	s.mux.HandleFunc("POST /add_cliente", s.requirePage(domain.RoleAdmin, s.handleAddClient))
	s.mux.HandleFunc("POST /add_unidade", s.requirePage(domain.RoleAdmin, s.handleAddLocation))
	s.mux.HandleFunc("POST /add_usuario", s.requirePage(domain.RoleAdmin, s.handleAddUser))
	s.mux.HandleFunc("POST /add_tecnico", s.requirePage(domain.RoleAdmin, s.handleAddTechnician))

	s.mux.HandleFunc("POST /update_cliente/{id}", s.requireAdminAPI(s.handleUpdateClient))
	s.mux.HandleFunc("DELETE /delete_cliente/{id}", s.requireAdminAPI(s.handleDeleteClient))
	s.mux.HandleFunc("POST /update_unidade/{id}", s.requireAdminAPI(s.handleUpdateLocation))
	s.mux.HandleFunc("DELETE /delete_unidade/{id}", s.requireAdminAPI(s.handleDeleteLocation))
	s.mux.HandleFunc("POST /update_usuario/{id}", s.requireAdminAPI(s.handleUpdateUser))
	s.mux.HandleFunc("DELETE /delete_usuario/{id}", s.requireAdminAPI(s.handleDeleteUser))

	s.mux.HandleFunc("POST /add_agendamento", s.requireAPI(s.handleAddAppointment))
	s.mux.HandleFunc("POST /update_agendamento/{id}", s.requireAdminAPI(s.handleUpdateAppointment))
	s.mux.HandleFunc("DELETE /delete_agendamento/{id}", s.requireAdminAPI(s.handleDeleteAppointment))
	s.mux.HandleFunc("POST /duplicate_agendamento/{id}", s.requireAdminAPI(s.handleDuplicateAppointment))

	s.mux.HandleFunc("GET /api/agendamentos", s.requireAPI(s.handleListEvents))
	s.mux.HandleFunc("GET /api/unidades/{cliente_id}", s.requireAPI(s.handleClientLocations))
	s.mux.HandleFunc("GET /api/tecnicos", s.requireAPI(s.handleListTechnicians))
	s.mux.HandleFunc("GET /api/conflito", s.requireAdminAPI(s.handleConflict))
	s.mux.HandleFunc("GET /api/relatorio/visitas", s.requireAdminAPI(s.handleVisitReport))
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' https://cdn.jsdelivr.net; "+
				"style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; "+
				"font-src 'self' https://cdn.jsdelivr.net; "+
				"img-src 'self' data:; "+
				"connect-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.withSession(s.mux))).ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// renderPage parses and executes a full-page template set.
func (s *Server) renderPage(w http.ResponseWriter, data any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, "base", data)
}
