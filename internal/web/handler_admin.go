package web

import (
	"net/http"
	"strings"

	"github.com/vbonduro/agenda/internal/domain"
)

// finishForm flashes the outcome of a dashboard form post and returns to the
// dashboard.
func (s *Server) finishForm(w http.ResponseWriter, r *http.Request, action string, err error, success string) {
	if err != nil {
		status, msg := errorStatus(err)
		if status == http.StatusInternalServerError {
			s.logger.Error(action+" error", "error", err)
		}
		s.flash(w, r, "danger", msg)
	} else {
		s.flash(w, r, "success", success)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) rejectForm(w http.ResponseWriter, r *http.Request, errs map[string]string) {
	s.flash(w, r, "danger", summarize(errs))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAddClient(w http.ResponseWriter, r *http.Request) {
	f := clientForm{Name: strings.TrimSpace(r.FormValue("nome"))}
	if errs := s.forms.Check(f); errs != nil {
		s.rejectForm(w, r, errs)
		return
	}
	_, err := s.directory.CreateClient(r.Context(), f.Name)
	s.finishForm(w, r, "create client", err, "Cliente cadastrado com sucesso!")
}

func (s *Server) handleAddLocation(w http.ResponseWriter, r *http.Request) {
	f := locationForm{
		Name:     strings.TrimSpace(r.FormValue("nome")),
		ClientID: formID(r, "cliente_id"),
	}
	if errs := s.forms.Check(f); errs != nil {
		s.rejectForm(w, r, errs)
		return
	}
	_, err := s.directory.CreateLocation(r.Context(), f.Name, f.ClientID)
	s.finishForm(w, r, "create location", err, "Unidade cadastrada com sucesso!")
}

func (s *Server) handleAddUser(w http.ResponseWriter, r *http.Request) {
	f := parseUserForm(r)
	if errs := s.forms.Check(f); errs != nil {
		s.rejectForm(w, r, errs)
		return
	}
	_, err := s.directory.CreateUser(r.Context(), f.Name, f.Code, domain.Role(f.Role), f.ClientID)
	s.finishForm(w, r, "create user", err, "Usuário criado com sucesso!")
}

func (s *Server) handleAddTechnician(w http.ResponseWriter, r *http.Request) {
	f := technicianForm{Name: strings.TrimSpace(r.FormValue("nome"))}
	if errs := s.forms.Check(f); errs != nil {
		s.rejectForm(w, r, errs)
		return
	}
	_, err := s.directory.CreateTechnician(r.Context(), f.Name)
	s.finishForm(w, r, "create technician", err, "Técnico cadastrado com sucesso!")
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid client id")
		return
	}
	f := clientForm{Name: strings.TrimSpace(r.FormValue("nome"))}
	if errs := s.forms.Check(f); errs != nil {
		writeValidation(w, errs)
		return
	}
	if err := s.directory.UpdateClient(r.Context(), id, f.Name); err != nil {
		s.writeError(w, r, "update client", err)
		return
	}
	s.flash(w, r, "success", "Cliente atualizado com sucesso!")
	writeSuccess(w)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid client id")
		return
	}
	if err := s.directory.DeleteClient(r.Context(), id); err != nil {
		s.writeError(w, r, "delete client", err)
		return
	}
	writeSuccess(w)
}

func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid location id")
		return
	}
	f := locationForm{
		Name:     strings.TrimSpace(r.FormValue("nome")),
		ClientID: formID(r, "cliente_id"),
	}
	if errs := s.forms.Check(f); errs != nil {
		writeValidation(w, errs)
		return
	}
	if err := s.directory.UpdateLocation(r.Context(), id, f.Name, f.ClientID); err != nil {
		s.writeError(w, r, "update location", err)
		return
	}
	writeSuccess(w)
}

func (s *Server) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid location id")
		return
	}
	if err := s.directory.DeleteLocation(r.Context(), id); err != nil {
		s.writeError(w, r, "delete location", err)
		return
	}
	writeSuccess(w)
}

// handleUpdateUser accepts a JSON body or a regular form post.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var f userForm
	if isJSON(r) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		if f, err = decodeUserJSON(r); err != nil {
			writeFailure(w, http.StatusBadRequest, msgInvalid)
			return
		}
	} else {
		f = parseUserForm(r)
	}
	if errs := s.forms.Check(f); errs != nil {
		writeValidation(w, errs)
		return
	}

	if err := s.directory.UpdateUser(r.Context(), id, f.Name, f.Code, domain.Role(f.Role), f.ClientID); err != nil {
		s.writeError(w, r, "update user", err)
		return
	}
	writeSuccess(w)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := s.directory.DeleteUser(r.Context(), id); err != nil {
		s.writeError(w, r, "delete user", err)
		return
	}
	writeSuccess(w)
}
