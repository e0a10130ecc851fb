package httpx

import (
	"net/http"

	"github.com/tourprism/tp-ui-api/internal/service"
)

// DashboardHandlers provides HTTP handlers for the admin dashboard.
type DashboardHandlers struct {
	Svc *service.DashboardService
}

// Load returns the dashboard view: recent alerts plus aggregate stats.
// Sections the upstream could not serve come back empty and are named in
// the degraded list.
// GET /api/dashboard.
func (h *DashboardHandlers) Load(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Svc.Load(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, dash)
}
