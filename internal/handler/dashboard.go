package handler

import (
	"net/http"

	"go-arsip/internal/pkg/httputils"
	"go-arsip/internal/service"
	"go-arsip/internal/ws"

	"github.com/gorilla/mux"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	feed             *ws.Feed
}

func NewDashboardHandler(dashboardService service.DashboardService, feed *ws.Feed) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		feed:             feed,
	}
}

func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/dashboard/stats", h.getStats).Methods("GET", "OPTIONS")
}

// Лента активности живёт вне /api, чтобы CORS-мидлварь не мешала апгрейду
func (h *DashboardHandler) RegisterFeedRoutes(router *mux.Router) {
	router.Handle("/ws/activities", h.feed)
}

// @Summary Dashboard stats
// @Description Aggregate counts, sizes and recent activity for the dashboard
// @ID dashboard-stats
// @Produce json
// @Success 200 {object} model.DashboardStats
// @Failure 500 {object} response.ErrorResponse
// @Router /dashboard/stats [get]
func (h *DashboardHandler) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context())
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to load dashboard stats")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, stats)
}
