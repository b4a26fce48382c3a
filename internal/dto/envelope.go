package dto

import (
	"envel/internal/models"
)

// Envelope Request DTOs

// CreateEnvelopeRequest represents the request payload for creating an envelope.
// The initial amount becomes effective in the month given by EffectiveMonth
// (yyyy-mm), defaulting to the current month.
type CreateEnvelopeRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=100"`
	Recurring      bool   `json:"recurring"`
	Amount         string `json:"amount" validate:"required"`
	EffectiveMonth string `json:"effectiveMonth" validate:"omitempty,datetime=2006-01"`
}

// UpdateEnvelopeRequest represents the request payload for renaming an envelope
// or toggling its recurring flag
type UpdateEnvelopeRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
	Recurring *bool   `json:"recurring"`
}

// AddAmountRequest represents the request payload for scheduling a new budget
// amount from a given month forward
type AddAmountRequest struct {
	Amount         string `json:"amount" validate:"required"`
	EffectiveMonth string `json:"effectiveMonth" validate:"required,datetime=2006-01"`
}

// Envelope Response DTOs

// EnvelopeResponse represents a single envelope in API responses
type EnvelopeResponse struct {
	*models.Envelope
	Shared bool `json:"shared"`
}

// EnvelopeListResponse represents a list of envelopes
type EnvelopeListResponse struct {
	Envelopes []models.Envelope `json:"envelopes"`
	Total     int               `json:"total"`
}

// AmountListResponse represents an envelope's budget amount history
type AmountListResponse struct {
	Amounts []models.Amount `json:"amounts"`
}

// EnvelopeSummaryListResponse represents every visible envelope resolved for
// one month, the list view counterpart of EnvelopeSummaryResponse
type EnvelopeSummaryListResponse struct {
	Month     string                 `json:"month"`
	Envelopes []models.PeriodSummary `json:"envelopes"`
	Total     int                    `json:"total"`
}

// EnvelopeSummaryResponse represents an envelope resolved for one month
type EnvelopeSummaryResponse struct {
	Month   string                 `json:"month"`
	Summary models.PeriodSummary   `json:"summary"`
	History []models.PeriodSummary `json:"history,omitempty"`
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}
