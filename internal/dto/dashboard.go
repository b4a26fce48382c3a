package dto

import (
	"envel/internal/models"
)

// DashboardRequest represents query parameters for the dashboard view. Month
// is yyyy-mm and defaults to the current month.
type DashboardRequest struct {
	Month string `query:"month" validate:"omitempty,datetime=2006-01"`
}

// DashboardResponse represents the resolved budget picture for one month:
// every visible envelope's summary plus the rolled-up totals and recent
// activity for the month.
type DashboardResponse struct {
	Month         string                 `json:"month"`
	Envelopes     []models.PeriodSummary `json:"envelopes"`
	Totals        models.AggregateTotals `json:"totals"`
	RecentEntries []models.Entry         `json:"recentEntries"`
}
