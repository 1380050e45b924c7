package order

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adire-living/backend-adire/internal/common"
)

// Reader covers the read paths the HTTP handlers need.
type Reader interface {
	GetOrder(ctx context.Context, id uuid.UUID) (Order, error)
	ListLines(ctx context.Context, orderID uuid.UUID) ([]Line, error)
	ListScheduleEntries(ctx context.Context, orderID uuid.UUID) ([]ScheduleEntry, error)
}

// Handler serves order read endpoints.
type Handler struct {
	Store Reader
	Log   zerolog.Logger
}

// Get handles GET /api/v1/orders/{id}.
func (h Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	o, err := h.Store.GetOrder(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	lines, err := h.Store.ListLines(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if lines == nil {
		lines = []Line{}
	}
	common.Data(w, http.StatusOK, map[string]any{
		"order": o,
		"lines": lines,
	})
}

// Schedule handles GET /api/v1/orders/{id}/schedule. The schedule is an
// immutable snapshot taken at confirmation; this endpoint never recomputes it.
func (h Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	if _, err := h.Store.GetOrder(r.Context(), id); err != nil {
		h.writeStoreError(w, err)
		return
	}
	entries, err := h.Store.ListScheduleEntries(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if entries == nil {
		entries = []ScheduleEntry{}
	}
	common.Data(w, http.StatusOK, entries)
}

func (h Handler) orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid order id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h Handler) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
		return
	}
	h.Log.Error().Err(err).Msg("read order")
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "could not load order", nil)
}
