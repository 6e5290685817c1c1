package handlers

import (
	"net/http"

	"marketplace-project/backend/middleware"
	"marketplace-project/backend/models"
	"marketplace-project/backend/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) GetUserDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromRequest(r)
	if !ok {
		writeError(w, models.NewSecurityError("invalid token"))
		return
	}

	dashboard, err := h.dashboardService.GetUserDashboard(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *DashboardHandler) GetPlatformStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetPlatformStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
