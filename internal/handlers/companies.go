package handlers

import (
	"context"
	"net/http"

	"github.com/diewo77/go-crm/api"
	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/validation"
)

// CompanyStore is implemented by repository.Companies.
type CompanyStore interface {
	List(ctx context.Context) ([]models.CompanyRow, error)
	Search(ctx context.Context, term string) ([]models.CompanyRow, error)
	Get(ctx context.Context, id uint) (models.CompanyRow, error)
	Create(ctx context.Context, c models.Company) (models.CompanyRow, error)
	Update(ctx context.Context, id uint, c models.Company) (models.CompanyRow, error)
	Delete(ctx context.Context, id uint) error
}

type CompanyHandler struct {
	store CompanyStore
	v     *validation.Validator
}

func NewCompanyHandler(store CompanyStore, v *validation.Validator) *CompanyHandler {
	return &CompanyHandler{store: store, v: v}
}

func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, r, "company", err)
		return
	}
	httpx.JSON(w, http.StatusOK, mapAll(rows, models.CompanyRow.API))
}

func (h *CompanyHandler) Search(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.Search(r.Context(), r.PathValue("term"))
	if err != nil {
		writeError(w, r, "company", err)
		return
	}
	httpx.JSON(w, http.StatusOK, mapAll(rows, models.CompanyRow.API))
}

func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	row, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, "company", err)
		return
	}
	httpx.JSON(w, http.StatusOK, row.API())
}

func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in api.CompanyInput
	if !decode(w, r, h.v, &in) {
		return
	}
	row, err := h.store.Create(r.Context(), models.CompanyFromInput(in))
	if err != nil {
		writeError(w, r, "company", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, row.API())
}

func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in api.CompanyInput
	if !decode(w, r, h.v, &in) {
		return
	}
	row, err := h.store.Update(r.Context(), id, models.CompanyFromInput(in))
	if err != nil {
		writeError(w, r, "company", err)
		return
	}
	httpx.JSON(w, http.StatusOK, row.API())
}

func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, r, "company", err)
		return
	}
	deleted(w, r, "company", id)
}
