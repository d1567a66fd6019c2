package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/go-crm/api"
	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/validation"
)

// CallStore is implemented by repository.Calls.
type CallStore interface {
	List(ctx context.Context) ([]models.CallRow, error)
	ByCompany(ctx context.Context, companyID uint) ([]models.CallRow, error)
	Get(ctx context.Context, id uint) (models.CallRow, error)
	Create(ctx context.Context, c models.Call) (models.CallRow, error)
	Update(ctx context.Context, id uint, c models.Call) (models.CallRow, error)
	Delete(ctx context.Context, id uint) error
}

type CallHandler struct {
	store CallStore
	v     *validation.Validator
}

func NewCallHandler(store CallStore, v *validation.Validator) *CallHandler {
	return &CallHandler{store: store, v: v}
}

func (h *CallHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, r, "call", err)
		return
	}
	httpx.JSON(w, http.StatusOK, mapAll(rows, models.CallRow.API))
}

func (h *CallHandler) ByCompany(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathID(w, r, "companyId")
	if !ok {
		return
	}
	rows, err := h.store.ByCompany(r.Context(), companyID)
	if err != nil {
		writeError(w, r, "call", err)
		return
	}
	httpx.JSON(w, http.StatusOK, mapAll(rows, models.CallRow.API))
}

func (h *CallHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	row, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, "call", err)
		return
	}
	httpx.JSON(w, http.StatusOK, row.API())
}

// Create books a call. Without userId the call is assigned to the caller.
func (h *CallHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in api.CallInput
	if !decode(w, r, h.v, &in) {
		return
	}
	row, err := h.store.Create(r.Context(), models.CallFromInput(in, currentUser(r)))
	if err != nil {
		writeError(w, r, "call", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, row.API())
}

// Update replaces a call. Without userId the current assignee is kept.
func (h *CallHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in api.CallInput
	if !decode(w, r, h.v, &in) {
		return
	}
	existing, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, "call", err)
		return
	}
	c := models.CallFromInput(in, 0)
	if c.UserID == nil {
		c.UserID = existing.UserID
	}
	row, err := h.store.Update(r.Context(), id, c)
	if err != nil {
		writeError(w, r, "call", err)
		return
	}
	httpx.JSON(w, http.StatusOK, row.API())
}

func (h *CallHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, r, "call", err)
		return
	}
	deleted(w, r, "call", id)
}

// AppointmentStore is implemented by repository.Appointments.
type AppointmentStore interface {
	List(ctx context.Context) ([]models.AppointmentRow, error)
	ByCompany(ctx context.Context, companyID uint) ([]models.AppointmentRow, error)
	Today(ctx context.Context, now time.Time) ([]models.AppointmentRow, error)
	Get(ctx context.Context, id uint) (models.AppointmentRow, error)
	Create(ctx context.Context, a models.Appointment) (models.AppointmentRow, error)
	Update(ctx context.Context, id uint, a models.Appointment) (models.AppointmentRow, error)
	Delete(ctx context.Context, id uint) error
}

type AppointmentHandler struct {
	store AppointmentStore
	v     *validation.Validator
	now   func() time.Time
}

func NewAppointmentHandler(store AppointmentStore, v *validation.Validator) *AppointmentHandler {
	return &AppointmentHandler{store: store, v: v, now: time.Now}
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, r, "appointment", err)
		return
	}
	httpx.JSON(w, http.StatusOK, mapAll(rows, models.AppointmentRow.API))
}

func (h *AppointmentHandler) ByCompany(w http.ResponseWriter, r *http.Request) {
	companyID, ok := pathID(w, r, "companyId")
	if !ok {
		return
	}
	rows, err := h.store.ByCompany(r.Context(), companyID)
	if err != nil {
		writeError(w, r, "appointment", err)
		return
	}
	httpx.JSON(w, http.StatusOK, mapAll(rows, models.AppointmentRow.API))
}

// Today lists the appointments of the current UTC day.
func (h *AppointmentHandler) Today(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.Today(r.Context(), h.now())
	if err != nil {
		writeError(w, r, "appointment", err)
		return
	}
	httpx.JSON(w, http.StatusOK, mapAll(rows, models.AppointmentRow.API))
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	row, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, "appointment", err)
		return
	}
	httpx.JSON(w, http.StatusOK, row.API())
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in api.AppointmentInput
	if !decode(w, r, h.v, &in) {
		return
	}
	row, err := h.store.Create(r.Context(), models.AppointmentFromInput(in, currentUser(r)))
	if err != nil {
		writeError(w, r, "appointment", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, row.API())
}

func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in api.AppointmentInput
	if !decode(w, r, h.v, &in) {
		return
	}
	existing, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, "appointment", err)
		return
	}
	a := models.AppointmentFromInput(in, 0)
	if a.UserID == nil {
		a.UserID = existing.UserID
	}
	row, err := h.store.Update(r.Context(), id, a)
	if err != nil {
		writeError(w, r, "appointment", err)
		return
	}
	httpx.JSON(w, http.StatusOK, row.API())
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, r, "appointment", err)
		return
	}
	deleted(w, r, "appointment", id)
}
