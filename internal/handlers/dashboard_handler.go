package handlers

import (
	"net/http"
	"time"

	"envel/internal/errors"
	"envel/internal/models"
	"envel/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandler handles the resolved monthly budget view
type DashboardHandler struct {
	dashboardService services.DashboardServiceInterface
	metrics          services.MetricsRecorderInterface
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService services.DashboardServiceInterface, metrics services.MetricsRecorderInterface) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		metrics:          metrics,
	}
}

// GetDashboard resolves every accessible envelope for one month
// @Summary Get monthly dashboard
// @Description Resolve every owned and shared envelope for the requested month: per-envelope summaries, rolled-up totals, and recent entries. Defaults to the current month.
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Param month query string false "Target month (yyyy-mm)"
// @Success 200 {object} dto.DashboardResponse "Resolved monthly view"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_004 - Invalid month format"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	startTime := time.Now()

	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	month := models.MonthStart(time.Now().UTC())
	if monthStr := c.QueryParam("month"); monthStr != "" {
		month, err = time.Parse(monthQueryLayout, monthStr)
		if err != nil {
			return SendError(c, errors.ValidationInvalidMonth, errors.WithDetails("Month must be yyyy-mm"))
		}
	}

	dashboard, err := h.dashboardService.GetDashboard(userID, month)
	if err != nil {
		return SendSystemError(c, err)
	}

	h.metrics.IncrementCounter("dashboard_resolved", nil)
	h.metrics.RecordProcessingTime("dashboard_resolve", time.Since(startTime))

	return c.JSON(http.StatusOK, dashboard)
}
