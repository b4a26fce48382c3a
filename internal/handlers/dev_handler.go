package handlers

import (
	"net/http"

	"envel/internal/services"

	"github.com/labstack/echo/v4"
)

// DevHandler handles development-only endpoints
// These endpoints should only be available in development environments
type DevHandler struct {
	sampleDataService services.SampleDataServiceInterface
}

// NewDevHandler creates a new development handler
func NewDevHandler(sampleDataService services.SampleDataServiceInterface) *DevHandler {
	return &DevHandler{
		sampleDataService: sampleDataService,
	}
}

// GenerateSampleData seeds the authenticated user with realistic demo envelopes and entries
//
// Method: POST /api/v1/dev/sample-data
// Authentication: Required
// Environment: Development only
//
// Query parameters:
//   - months: Number of months of history to generate (default: 3, max: 24)
//
// Success Response: 200 OK
//   - message: Success message
//   - months: Number of months generated
//
// Error Responses:
//   - 401: Unauthorized
//   - 500: Internal server error
func (h *DevHandler) GenerateSampleData(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	months := getIntParam(c, "months", 3)
	if months < 1 {
		months = 1
	}
	if months > 24 {
		months = 24
	}

	if err := h.sampleDataService.GenerateSampleData(userID, months); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate sample data")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "sample data generated successfully",
		"months":  months,
	})
}
