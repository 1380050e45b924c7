package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/adire-living/backend-adire/internal/common"
	"github.com/adire-living/backend-adire/internal/pricing"
	"github.com/adire-living/backend-adire/internal/quote"
)

// Request is the POST /api/v1/checkout payload: a quote request plus the
// customer contact the confirmation email goes to.
type Request struct {
	quote.Request
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
}

// Handler serves order confirmation.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

// Confirm handles POST /api/v1/checkout.
func (h Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var payload Request
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid checkout request", nil)
			return
		}
	}

	out, err := h.Svc.Confirm(r.Context(), payload.ToInput(), payload.CustomerEmail)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, out)
}

func (h Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidCart):
		common.JSONError(w, http.StatusBadRequest, "INVALID_CART", err.Error(), nil)
	case errors.Is(err, pricing.ErrInvalidMode):
		common.JSONError(w, http.StatusBadRequest, "INVALID_MODE", err.Error(), nil)
	case errors.Is(err, pricing.ErrUnknownPlan):
		common.JSONError(w, http.StatusNotFound, "UNKNOWN_PLAN", err.Error(), nil)
	case errors.Is(err, pricing.ErrUnknownRegion):
		common.JSONError(w, http.StatusBadRequest, "UNKNOWN_REGION", err.Error(), nil)
	default:
		h.Svc.Log.Error().Err(err).Msg("confirm checkout")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "could not confirm order", nil)
	}
}
