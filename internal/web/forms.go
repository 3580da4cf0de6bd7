package web

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vbonduro/agenda/internal/domain"
)

type clientForm struct {
	Name string `form:"nome" validate:"required,max=200"`
}

type locationForm struct {
	Name     string `form:"nome" validate:"required,max=200"`
	ClientID int64  `form:"cliente_id" validate:"gt=0"`
}

type technicianForm struct {
	Name string `form:"nome" validate:"required,max=200"`
}

type userForm struct {
	Name     string `form:"nome" validate:"required,max=200"`
	Code     string `form:"codigo" validate:"required,max=100"`
	Role     string `form:"tipo" validate:"required,oneof=admin cliente"`
	ClientID *int64 `form:"cliente_id" validate:"required_if=Role cliente,omitnil,gt=0"`
}

type appointmentForm struct {
	ClientID     int64  `form:"cliente_id" validate:"gt=0"`
	LocationID   int64  `form:"unidade_id" validate:"gt=0"`
	TechnicianID int64  `form:"tecnico_id" validate:"gt=0"`
	Status       string `form:"status" validate:"required,max=50"`
	Notes        string `form:"observacoes" validate:"max=2000"`
}

type dateForm struct {
	Date string `form:"data" validate:"required,isodate"`
}

func (f appointmentForm) fields(date domain.Date) domain.AppointmentFields {
	return domain.AppointmentFields{
		ClientID:     f.ClientID,
		LocationID:   f.LocationID,
		TechnicianID: f.TechnicianID,
		Date:         date,
		Status:       f.Status,
		Notes:        f.Notes,
	}
}

// formValidator validates the request structs above and reports field errors
// keyed by their wire name.
type formValidator struct {
	validate *validator.Validate
}

func newFormValidator() *formValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return f.Name
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseDate(fl.Field().String())
		return err == nil
	})
	return &formValidator{validate: v}
}

// Check returns nil when i is valid, otherwise one message per failing field.
func (fv *formValidator) Check(i any) map[string]string {
	err := fv.validate.Struct(i)
	if err == nil {
		return nil
	}
	errs := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["_"] = err.Error()
		return errs
	}
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required", "required_if":
			errs[field] = "campo obrigatório"
		case "max":
			errs[field] = "máximo de " + e.Param() + " caracteres"
		case "oneof":
			errs[field] = "deve ser um de: " + e.Param()
		case "isodate":
			errs[field] = "data inválida (use AAAA-MM-DD)"
		default:
			errs[field] = "valor inválido"
		}
	}
	return errs
}

func mergeErrors(sets ...map[string]string) map[string]string {
	var out map[string]string
	for _, set := range sets {
		for k, msg := range set {
			if out == nil {
				out = make(map[string]string)
			}
			out[k] = msg
		}
	}
	return out
}

// summarize renders errs as one line for flash messages.
func summarize(errs map[string]string) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+errs[k])
	}
	return msgInvalid + " (" + strings.Join(parts, "; ") + ")"
}

// formID reads an id field; missing or malformed values read as 0 and are
// rejected by validation.
func formID(r *http.Request, key string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(r.FormValue(key)), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// formOptionalID reads an id that may be left blank.
func formOptionalID(r *http.Request, key string) *int64 {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		id = 0
	}
	return &id
}

func parseAppointmentForm(r *http.Request) appointmentForm {
	return appointmentForm{
		ClientID:     formID(r, "cliente_id"),
		LocationID:   formID(r, "unidade_id"),
		TechnicianID: formID(r, "tecnico_id"),
		Status:       strings.TrimSpace(r.FormValue("status")),
		Notes:        r.FormValue("observacoes"),
	}
}

func parseUserForm(r *http.Request) userForm {
	return userForm{
		Name:     strings.TrimSpace(r.FormValue("nome")),
		Code:     r.FormValue("codigo"),
		Role:     r.FormValue("tipo"),
		ClientID: formOptionalID(r, "cliente_id"),
	}
}

// userPayload is the JSON body of /update_usuario. cliente_id may be a
// number, a numeric string, an empty string or null.
type userPayload struct {
	Name     string `json:"nome"`
	Code     string `json:"codigo"`
	Role     string `json:"tipo"`
	ClientID any    `json:"cliente_id"`
}

func decodeUserJSON(r *http.Request) (userForm, error) {
	var p userPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return userForm{}, fmt.Errorf("failed to decode user payload: %w", err)
	}
	f := userForm{Name: strings.TrimSpace(p.Name), Code: p.Code, Role: p.Role}
	switch v := p.ClientID.(type) {
	case float64:
		id := int64(v)
		f.ClientID = &id
	case string:
		if v = strings.TrimSpace(v); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				id = 0
			}
			f.ClientID = &id
		}
	}
	return f, nil
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// pathID extracts the named path variable as int64.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}
