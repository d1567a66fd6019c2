package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/diewo77/go-crm/api"
	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/services"
	"github.com/diewo77/go-crm/validation"
)

// UserStore is implemented by repository.Users.
type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	ByRole(ctx context.Context, role string) ([]models.User, error)
	Active(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id uint) (models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	Update(ctx context.Context, id uint, u models.User) (models.User, error)
	Delete(ctx context.Context, id uint) error
}

type UserHandler struct {
	store UserStore
	v     *validation.Validator
}

func NewUserHandler(store UserStore, v *validation.Validator) *UserHandler {
	return &UserHandler{store: store, v: v}
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request, users []models.User, err error) {
	if err != nil {
		writeError(w, r, "user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, mapAll(users, models.User.API))
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.List(r.Context())
	h.list(w, r, users, err)
}

// ByRole handles GET /api/users/role/{role}; unknown roles are rejected.
func (h *UserHandler) ByRole(w http.ResponseWriter, r *http.Request) {
	role := r.PathValue("role")
	if !api.ValidRole(role) {
		httpx.JSONError(w, http.StatusBadRequest, tr(r, "invalid_role"), nil)
		return
	}
	users, err := h.store.ByRole(r.Context(), role)
	h.list(w, r, users, err)
}

func (h *UserHandler) Active(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.Active(r.Context())
	h.list(w, r, users, err)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	u, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, "user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, u.API())
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in api.UserInput
	if !decode(w, r, h.v, &in) {
		return
	}
	missing := validation.Violations{}
	validation.Required("password", in.Password, missing)
	if !missing.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, tr(r, "validation_failed"), missing)
		return
	}
	hash, err := services.HashPassword(in.Password)
	if err != nil {
		writeError(w, r, "user", err)
		return
	}
	u := applyUserInput(models.User{}, in)
	u.Password = hash
	created, err := h.store.Create(r.Context(), u)
	if err != nil {
		writeError(w, r, "user", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created.API())
}

// Update merges the body onto the stored user. The password is re-hashed only
// when a new one is supplied.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in api.UserInput
	if !decode(w, r, h.v, &in) {
		return
	}
	existing, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, "user", err)
		return
	}
	u := applyUserInput(existing, in)
	u.Password = ""
	if in.Password != "" {
		if u.Password, err = services.HashPassword(in.Password); err != nil {
			writeError(w, r, "user", err)
			return
		}
	}
	updated, err := h.store.Update(r.Context(), id, u)
	if err != nil {
		writeError(w, r, "user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated.API())
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, r, "user", err)
		return
	}
	deleted(w, r, "user", id)
}

// applyUserInput copies the supplied fields of in onto u. Optional fields left
// out of the body keep the value of u.
func applyUserInput(u models.User, in api.UserInput) models.User {
	u.Name = strings.TrimSpace(in.Name)
	u.Email = strings.TrimSpace(in.Email)
	u.Phone = in.Phone
	if in.Avatar != "" {
		u.Avatar = in.Avatar
	}
	if in.Role != "" {
		u.Role = in.Role
	}
	if in.Status != "" {
		u.Status = in.Status
	}
	if in.XP.Valid {
		u.XP = int(in.XP.Int)
	}
	if in.Level.Valid {
		u.Level = int(in.Level.Int)
	}
	if in.Badges != nil {
		u.Badges = models.EncodeBadges(in.Badges)
	}
	return u
}
