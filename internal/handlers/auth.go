package handlers

import (
	"context"
	"net/http"

	"github.com/diewo77/go-crm/api"
	"github.com/diewo77/go-crm/auth"
	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/validation"
)

// Authenticator is implemented by services.Auth.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (api.AuthResponse, error)
	Verify(ctx context.Context, token string) (api.User, error)
	Signup(ctx context.Context, in api.SignupInput) (api.AuthResponse, error)
}

type AuthHandler struct {
	svc Authenticator
	v   *validation.Validator
}

func NewAuthHandler(svc Authenticator, v *validation.Validator) *AuthHandler {
	return &AuthHandler{svc: svc, v: v}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in api.LoginInput
	if !decode(w, r, h.v, &in) {
		return
	}
	res, err := h.svc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, "user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

// Verify handles GET /api/auth/verify.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token, err := auth.BearerToken(r)
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, tr(r, "token_required"), nil)
		return
	}
	u, err := h.svc.Verify(r.Context(), token)
	if err != nil {
		writeError(w, r, "user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, api.VerifyResponse{User: u})
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in api.SignupInput
	if !decode(w, r, h.v, &in) {
		return
	}
	res, err := h.svc.Signup(r.Context(), in)
	if err != nil {
		writeError(w, r, "user", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, res)
}
