package httpx

import (
	"errors"
	"net/http"

	"github.com/tourprism/tp-ui-api/internal/service"
)

// FlagHandlers provides HTTP handlers for action hub operations.
type FlagHandlers struct {
	Svc *service.ActionHubService
}

// Flag marks an alert as flagged by the authenticated user.
// POST /api/alerts/{id}/flag.
func (h *FlagHandlers) Flag(w http.ResponseWriter, r *http.Request) {
	alertID := r.PathValue("id")
	if alertID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("alert id is required")},
		)
		return
	}

	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	if err := h.Svc.FlagAlert(r.Context(), alertID, session.UserID); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "flagged", "alert_id": alertID})
}
