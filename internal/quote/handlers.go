package quote

import (
	"encoding/json"
	"errors"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/adire-living/backend-adire/internal/common"
	"github.com/adire-living/backend-adire/internal/obs"
	"github.com/adire-living/backend-adire/internal/pricing"
)

// LineInput is one cart line in a quote request.
type LineInput struct {
	ProductID              string `json:"productId" validate:"required"`
	UnitPrice              int64  `json:"unitPrice" validate:"gt=0"`
	Qty                    int    `json:"qty" validate:"gt=0"`
	Variant                string `json:"variant,omitempty"`
	CustomizationSurcharge int64  `json:"customizationSurcharge,omitempty" validate:"gte=0"`
	RequiresTruckDelivery  bool   `json:"requiresTruckDelivery,omitempty"`
}

// ModeInput selects the acquisition mode for the quote.
type ModeInput struct {
	Kind           string `json:"kind" validate:"required,oneof=full_payment installment rent_to_own subscription"`
	Months         int    `json:"months,omitempty" validate:"omitempty,gte=0"`
	InsuranceOptIn bool   `json:"insuranceOptIn,omitempty"`
	PlanID         string `json:"planId,omitempty"`
	Refresh        string `json:"refresh,omitempty" validate:"omitempty,oneof=quarterly biannual"`
}

// Request is the POST /api/v1/quotes payload.
type Request struct {
	Region string      `json:"region" validate:"required"`
	Lines  []LineInput `json:"lines" validate:"required,min=1,dive"`
	Mode   ModeInput   `json:"mode" validate:"required"`
}

// Handler serves the live quote preview endpoint.
type Handler struct {
	Svc      Service
	Validate *validator.Validate
	Log      zerolog.Logger
}

// Create handles POST /api/v1/quotes.
func (h Handler) Create(w http.ResponseWriter, r *http.Request) {
	var payload Request
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid quote request", validationDetails(err))
			return
		}
	}

	q, err := h.Svc.Quote(r.Context(), payload.ToInput())
	if err != nil {
		h.writeError(w, err)
		return
	}

	if obs.QuoteTotal != nil {
		obs.QuoteTotal.WithLabelValues(string(q.Mode), "ok").Inc()
	}
	common.Data(w, http.StatusOK, q)
}

// ToInput converts the wire payload into engine types.
func (p Request) ToInput() Input {
	lines := make([]pricing.CartLine, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, pricing.CartLine{
			ProductID:              l.ProductID,
			UnitPrice:              pricing.Money(l.UnitPrice),
			Qty:                    l.Qty,
			Variant:                l.Variant,
			CustomizationSurcharge: pricing.Money(l.CustomizationSurcharge),
			RequiresTruckDelivery:  l.RequiresTruckDelivery,
		})
	}
	return Input{
		Region: p.Region,
		Lines:  lines,
		Mode: pricing.Mode{
			Kind:           pricing.ModeKind(p.Mode.Kind),
			Months:         p.Mode.Months,
			InsuranceOptIn: p.Mode.InsuranceOptIn,
			PlanID:         p.Mode.PlanID,
			Refresh:        pricing.RefreshFrequency(p.Mode.Refresh),
		},
	}
}

func (h Handler) writeError(w http.ResponseWriter, err error) {
	code, status := "INTERNAL", http.StatusInternalServerError
	switch {
	case errors.Is(err, pricing.ErrInvalidCart):
		code, status = "INVALID_CART", http.StatusBadRequest
	case errors.Is(err, pricing.ErrInvalidMode):
		code, status = "INVALID_MODE", http.StatusBadRequest
	case errors.Is(err, pricing.ErrUnknownPlan):
		code, status = "UNKNOWN_PLAN", http.StatusNotFound
	case errors.Is(err, pricing.ErrUnknownRegion):
		code, status = "UNKNOWN_REGION", http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.Log.Error().Err(err).Msg("compute quote")
		common.JSONError(w, status, code, "could not compute quote", nil)
	} else {
		common.JSONError(w, status, code, err.Error(), nil)
	}
	if obs.QuoteErrorTotal != nil {
		obs.QuoteErrorTotal.WithLabelValues(code).Inc()
	}
}

func validationDetails(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Namespace()] = fe.Tag()
	}
	return fields
}
