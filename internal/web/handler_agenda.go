package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vbonduro/agenda/internal/domain"
)

// handleAddAppointment books a visit. Client users book for their own client;
// the service pins the client and status, so those fields are optional for
// them.
func (s *Server) handleAddAppointment(w http.ResponseWriter, r *http.Request) {
	v, _ := viewerFrom(r)

	df := dateForm{Date: r.FormValue("data")}
	f := parseAppointmentForm(r)
	if !v.IsAdmin() {
		if v.ClientID != nil {
			f.ClientID = *v.ClientID
		}
		f.Status = domain.StatusPending
	}

	if errs := mergeErrors(s.forms.Check(f), s.forms.Check(df)); errs != nil {
		writeValidation(w, errs)
		return
	}

	date, _ := domain.ParseDate(df.Date)
	a, err := s.schedule.CreateAppointment(r.Context(), v, f.fields(date))
	if err != nil {
		s.writeError(w, r, "create appointment", err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, ID: a.ID})
}

// handleUpdateAppointment overwrites everything but the date.
func (s *Server) handleUpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid appointment id")
		return
	}
	f := parseAppointmentForm(r)
	if errs := s.forms.Check(f); errs != nil {
		writeValidation(w, errs)
		return
	}
	if err := s.schedule.UpdateAppointment(r.Context(), id, f.fields(domain.Date{})); err != nil {
		s.writeError(w, r, "update appointment", err)
		return
	}
	writeSuccess(w)
}

func (s *Server) handleDeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid appointment id")
		return
	}
	if err := s.schedule.DeleteAppointment(r.Context(), id); err != nil {
		s.writeError(w, r, "delete appointment", err)
		return
	}
	writeSuccess(w)
}

func (s *Server) handleDuplicateAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid appointment id")
		return
	}
	df := dateForm{Date: r.FormValue("data")}
	if errs := s.forms.Check(df); errs != nil {
		writeValidation(w, errs)
		return
	}

	date, _ := domain.ParseDate(df.Date)
	dup, err := s.schedule.DuplicateAppointment(r.Context(), id, date)
	if err != nil {
		s.writeError(w, r, "duplicate appointment", err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, ID: dup.ID})
}

// handleListEvents serves the calendar feed, optionally filtered by
// ?tecnico_id=. Client users receive placeholders for other clients.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	v, _ := viewerFrom(r)

	var technicianID *int64
	if raw := strings.TrimSpace(r.URL.Query().Get("tecnico_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeValidation(w, map[string]string{"tecnico_id": "valor inválido"})
			return
		}
		technicianID = &id
	}

	events, err := s.schedule.ListEvents(r.Context(), v, technicianID)
	if err != nil {
		s.writeError(w, r, "list events", err)
		return
	}
	writeJSON(w, http.StatusOK, list(events))
}

func (s *Server) handleClientLocations(w http.ResponseWriter, r *http.Request) {
	v, _ := viewerFrom(r)
	clientID, err := pathID(r, "cliente_id")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid client id")
		return
	}

	locations, err := s.directory.ListClientLocations(r.Context(), v, clientID)
	if err != nil {
		s.writeError(w, r, "list locations", err)
		return
	}
	writeJSON(w, http.StatusOK, list(locations))
}

func (s *Server) handleListTechnicians(w http.ResponseWriter, r *http.Request) {
	technicians, err := s.directory.ListTechnicians(r.Context())
	if err != nil {
		s.writeError(w, r, "list technicians", err)
		return
	}
	writeJSON(w, http.StatusOK, list(technicians))
}

// handleConflict reports whether a technician already has a visit on a date.
// Booking does not consult it.
func (s *Server) handleConflict(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	technicianID, err := strconv.ParseInt(q.Get("tecnico_id"), 10, 64)
	if err != nil {
		writeValidation(w, map[string]string{"tecnico_id": "valor inválido"})
		return
	}
	df := dateForm{Date: q.Get("data")}
	if errs := s.forms.Check(df); errs != nil {
		writeValidation(w, errs)
		return
	}

	date, _ := domain.ParseDate(df.Date)
	conflict, err := s.schedule.CheckConflict(r.Context(), technicianID, date)
	if err != nil {
		s.writeError(w, r, "check conflict", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"conflito": conflict})
}

func (s *Server) handleVisitReport(w http.ResponseWriter, r *http.Request) {
	summary, err := s.schedule.VisitSummary(r.Context())
	if err != nil {
		s.writeError(w, r, "visit summary", err)
		return
	}
	writeJSON(w, http.StatusOK, list(summary))
}
