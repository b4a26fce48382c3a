package dto

import (
	"envel/internal/models"
)

// Entry Request DTOs

// CreateEntryRequest represents the request payload for recording an expense
type CreateEntryRequest struct {
	EnvelopeID string `json:"envelopeId" validate:"required,uuid"`
	Value      string `json:"value" validate:"required"`
	Date       string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Category   string `json:"category" validate:"omitempty,max=100"`
	Note       string `json:"note" validate:"omitempty,max=1000"`
}

// UpdateEntryRequest represents the request payload for editing an entry
type UpdateEntryRequest struct {
	Value    *string `json:"value"`
	Date     *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Category *string `json:"category" validate:"omitempty,max=100"`
	Note     *string `json:"note" validate:"omitempty,max=1000"`
}

// ListEntriesRequest represents query filters for listing entries
type ListEntriesRequest struct {
	EnvelopeID string `query:"envelopeId" validate:"omitempty,uuid"`
	Category   string `query:"category"`
	StartDate  string `query:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `query:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Offset     int    `query:"offset" validate:"min=0"`
	Limit      int    `query:"limit" validate:"min=0,max=100"`
}

// Entry Response DTOs

// EntryResponse represents a single entry in API responses
type EntryResponse struct {
	*models.Entry
}

// EntryListResponse represents a paginated list of entries
type EntryListResponse struct {
	Entries []models.Entry `json:"entries"`
	Total   int64          `json:"total"`
	Offset  int            `json:"offset"`
	Limit   int            `json:"limit"`
}
