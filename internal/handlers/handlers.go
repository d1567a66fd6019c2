// Package handlers exposes the CRM entities over JSON HTTP endpoints.
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/diewo77/go-crm/auth"
	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/i18n"
	"github.com/diewo77/go-crm/internal/repository"
	"github.com/diewo77/go-crm/internal/services"
	"github.com/diewo77/go-crm/validation"
)

func tr(r *http.Request, code string) string {
	return i18n.T(i18n.LangFromContext(r.Context()), code)
}

// writeError maps a domain error to its status code. entity prefixes the
// not-found message ("company" gives "company_not_found").
func writeError(w http.ResponseWriter, r *http.Request, entity string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, tr(r, entity+"_not_found"), nil)
	case errors.Is(err, repository.ErrDuplicateEmail):
		httpx.JSONError(w, http.StatusBadRequest, tr(r, "email_exists"), validation.Violations{"email": "email_exists"})
	case errors.Is(err, services.ErrInvalidCredentials):
		httpx.JSONError(w, http.StatusUnauthorized, tr(r, "invalid_credentials"), nil)
	case errors.Is(err, auth.ErrInvalidToken):
		httpx.JSONError(w, http.StatusUnauthorized, tr(r, "invalid_token"), nil)
	default:
		log.Printf("[HTTP] %s %s: %v", r.Method, r.URL.Path, err)
		httpx.JSONError(w, http.StatusInternalServerError, tr(r, "internal_error"), nil)
	}
}

// decode reads the body into dst and runs its validation rules. It writes the
// 400 answer itself and returns false when the request must stop.
func decode(w http.ResponseWriter, r *http.Request, v *validation.Validator, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, tr(r, "invalid_json"), nil)
		return false
	}
	if vs := v.Struct(dst); !vs.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, tr(r, "validation_failed"), vs)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := httpx.PathID(r, name)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, tr(r, "invalid_id"), nil)
		return 0, false
	}
	return id, true
}

func deleted(w http.ResponseWriter, r *http.Request, entity string, id uint) {
	httpx.JSON(w, http.StatusOK, httpx.MessageResponse{Message: tr(r, entity+"_deleted"), ID: id})
}

// currentUser returns the id carried by the bearer token, 0 when absent.
func currentUser(r *http.Request) uint {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}

func mapAll[T, U any](in []T, f func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
