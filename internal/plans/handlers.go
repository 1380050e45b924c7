package plans

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/adire-living/backend-adire/internal/common"
)

// Handler exposes the plan catalog over HTTP.
type Handler struct {
	Svc Service
	Log zerolog.Logger
}

// List handles GET /api/v1/plans.
func (h Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.ListActive(r.Context())
	if err != nil {
		h.Log.Error().Err(err).Msg("list subscription plans")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "could not load plans", nil)
		return
	}
	if items == nil {
		items = []Plan{}
	}
	common.Data(w, http.StatusOK, items)
}
