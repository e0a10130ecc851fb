package httpx

import (
	"net/http"
	"time"

	"github.com/tourprism/tp-ui-api/internal/adapters/geolocate"
	"github.com/tourprism/tp-ui-api/internal/domain/model"
	apperrors "github.com/tourprism/tp-ui-api/internal/errors"
	"github.com/tourprism/tp-ui-api/internal/service"
)

// LocationHandlers provides HTTP handlers for location resolution.
type LocationHandlers struct {
	Svc *service.LocationService
}

// resolveRequest is the POST /api/location/resolve body. The SPA may report
// the geolocation attempts it already ran on the device; when present they
// drive the resolution instead of the server-side positioning provider.
type resolveRequest struct {
	MaxCacheAgeMS int64               `json:"max_cache_age_ms,omitempty"`
	Reported      *geolocate.Reported `json:"reported,omitempty"`
}

// resolveResponse mirrors service.ResolveResult on the wire.
type resolveResponse struct {
	Status   service.ResolveStatus   `json:"status"`
	Location *model.ResolvedLocation `json:"location,omitempty"`
	Message  string                  `json:"message,omitempty"`
	Reason   apperrors.ErrorCode     `json:"reason,omitempty"`
}

// Resolve runs the location state machine for the calling session.
// POST /api/location/resolve.
func (h *LocationHandlers) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if r.ContentLength != 0 && !DecodeJSON(w, r, &req) {
		return
	}

	key, _ := clientKey(w, r)

	opts := service.ResolveOptions{MaxCacheAge: time.Duration(req.MaxCacheAgeMS) * time.Millisecond}
	if req.Reported != nil {
		opts.Locator = *req.Reported
	}

	result, err := h.Svc.Resolve(r.Context(), key, opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, resolveResponse{
		Status:   result.Status,
		Location: result.Location,
		Message:  result.Message,
		Reason:   result.Reason,
	})
}

// manualRequest is the POST /api/location/manual body.
type manualRequest struct {
	City string `json:"city"`
}

// Manual records a manually chosen city.
// POST /api/location/manual.
func (h *LocationHandlers) Manual(w http.ResponseWriter, r *http.Request) {
	var req manualRequest
	if r.ContentLength != 0 && !DecodeJSON(w, r, &req) {
		return
	}

	key, _ := clientKey(w, r)

	loc, err := h.Svc.ConfirmManual(r.Context(), key, req.City)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, resolveResponse{Status: service.StatusResolved, Location: loc})
}

// Current returns the persisted location for the calling session.
// GET /api/location.
func (h *LocationHandlers) Current(w http.ResponseWriter, r *http.Request) {
	key, _ := clientKey(w, r)

	loc, err := h.Svc.Current(r.Context(), key)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, loc)
}

// Reset drops the persisted location so the next resolve re-acquires.
// POST /api/location/reset.
func (h *LocationHandlers) Reset(w http.ResponseWriter, r *http.Request) {
	key, _ := clientKey(w, r)

	if err := h.Svc.Reset(r.Context(), key); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
