package handler

import (
	"net/http"
	"strconv"

	"mindscreen/internal/service"
)

// AlertHandler serves the reviewer alert list
type AlertHandler struct {
	alertSvc *service.AlertService
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(alertSvc *service.AlertService) *AlertHandler {
	return &AlertHandler{alertSvc: alertSvc}
}

// List handles GET /v1/alerts?user_id=&limit=
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	alerts, err := h.alertSvc.List(r.Context(), r.URL.Query().Get("user_id"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	})
}
