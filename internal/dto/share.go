package dto

import (
	"time"

	"envel/internal/models"
)

// Share Request DTOs

// CreateShareRequest represents the request payload for inviting another user
// to an envelope by email
type CreateShareRequest struct {
	EnvelopeID     string `json:"envelopeId" validate:"required,uuid"`
	RecipientEmail string `json:"recipientEmail" validate:"required,email"`
}

// Share Response DTOs

// ShareRequestResponse represents a share request in API responses, enriched
// with the envelope name so lists render without extra lookups
type ShareRequestResponse struct {
	ID             string     `json:"id"`
	EnvelopeID     string     `json:"envelopeId"`
	EnvelopeName   string     `json:"envelopeName"`
	RecipientEmail string     `json:"recipientEmail"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	RespondedAt    *time.Time `json:"respondedAt,omitempty"`
}

// ShareRequestListResponse represents a list of share requests
type ShareRequestListResponse struct {
	Requests []ShareRequestResponse `json:"requests"`
}

// EnvelopeShareResponse identifies one user an envelope is shared with
type EnvelopeShareResponse struct {
	UserID   string    `json:"userId"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	SharedAt time.Time `json:"sharedAt"`
}

// EnvelopeShareListResponse lists the users an envelope is shared with
type EnvelopeShareListResponse struct {
	Shares []EnvelopeShareResponse `json:"shares"`
	Total  int                     `json:"total"`
}

// SharedEnvelopeListResponse represents the envelopes shared with the
// authenticated user
type SharedEnvelopeListResponse struct {
	Envelopes []models.Envelope `json:"envelopes"`
	Total     int               `json:"total"`
}
