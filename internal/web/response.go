package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vbonduro/agenda/internal/domain"
)

const (
	msgUnauthorized = "Sessão expirada ou inexistente"
	msgForbidden    = "Acesso negado"
	msgNotFound     = "Registro não encontrado"
	msgInvalid      = "Dados inválidos"
	msgInternal     = "Erro interno"
)

// apiResponse is the envelope of every JSON mutation endpoint.
type apiResponse struct {
	Success bool              `json:"success"`
	ID      int64             `json:"id,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// list keeps empty collections encoding as [] rather than null.
func list[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{Success: false, Message: message})
}

func writeValidation(w http.ResponseWriter, errs map[string]string) {
	writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: msgInvalid, Errors: errs})
}

// errorStatus maps a service error onto an HTTP status and a user-facing
// message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, msgForbidden
	case errors.Is(err, domain.ErrInUse):
		return http.StatusConflict, "Registro em uso por outros cadastros"
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, "Código de acesso já cadastrado"
	case errors.Is(err, domain.ErrInvalidReference):
		return http.StatusConflict, "Referência a registro inexistente"
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// writeError answers a JSON route with the status matching err. Unexpected
// errors are logged.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, action string, err error) {
	status, msg := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(action+" error", "error", err, "path", r.URL.Path)
	}
	writeFailure(w, status, msg)
}
