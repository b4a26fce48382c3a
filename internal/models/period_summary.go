package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PeriodSummary is the resolved budget state of one envelope for one calendar
// month: which budget amount applies, how much was spent, what remains, and
// whether the envelope should appear in that month's views at all.
type PeriodSummary struct {
	EnvelopeID    uuid.UUID       `json:"envelope_id"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Used          decimal.Decimal `json:"used"`
	Remaining     decimal.Decimal `json:"remaining"`
	PercentUsed   int             `json:"percent_used"`
	Recurring     bool            `json:"recurring"`
	EffectiveDate time.Time       `json:"effective_date"`
	Visible       bool            `json:"visible"`
}

// AggregateTotals is the roll-up across all visible envelopes for one month.
type AggregateTotals struct {
	TotalBudget    decimal.Decimal `json:"total_budget"`
	TotalUsed      decimal.Decimal `json:"total_used"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
	PercentUsed    int             `json:"percent_used"`
}
