package controllers

import (
	"net/http"

	"github.com/luxenest/luxenest-backend/api/responses"
	"github.com/luxenest/luxenest-backend/internal/dashboard"
	"github.com/luxenest/luxenest-backend/pkg/logger"
)

// AdminDashboardController serves the storefront overview numbers.
type AdminDashboardController struct {
	dashboard *dashboard.Service
	logg      *logger.Logger
}

// NewAdminDashboardController builds the dashboard handler.
func NewAdminDashboardController(dashboardService *dashboard.Service, logg *logger.Logger) *AdminDashboardController {
	return &AdminDashboardController{dashboard: dashboardService, logg: logg}
}

// Overview returns counts, revenue, and recent activity.
func (c *AdminDashboardController) Overview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := c.dashboard.Overview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}
