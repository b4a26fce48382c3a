package dto

import (
	"envel/internal/models"
)

// Category Request DTOs

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// UpdateCategoryRequest represents the request payload for updating a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// Category Response DTOs

// CategoryListResponse represents a user's categories
type CategoryListResponse struct {
	Categories []models.Category `json:"categories"`
}
