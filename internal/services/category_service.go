package services

import (
	"errors"
	"log/slog"

	"envel/internal/dto"
	"envel/internal/models"
	"envel/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrCategoryAccessDenied = errors.New("category does not belong to user")
)

// CategoryService handles the per-user labels entries can be tagged with.
// Categories are labels only; deleting one never touches the entries that
// reference its name.
type CategoryService struct {
	categoryRepo repositories.CategoryRepositoryInterface
	logger       *slog.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo repositories.CategoryRepositoryInterface, logger *slog.Logger) CategoryServiceInterface {
	return &CategoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// CreateCategory creates a category for the user. Names are unique per user.
func (s *CategoryService) CreateCategory(userID uuid.UUID, req *dto.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	s.logger.Info("category created",
		"category_id", category.ID,
		"user_id", userID,
		"name", category.Name)

	return category, nil
}

// GetCategory retrieves one of the user's categories
func (s *CategoryService) GetCategory(categoryID, userID uuid.UUID) (*models.Category, error) {
	return s.requireCategory(categoryID, userID)
}

// GetUserCategories retrieves the user's categories ordered by name
func (s *CategoryService) GetUserCategories(userID uuid.UUID) ([]models.Category, error) {
	return s.categoryRepo.GetByUserID(userID)
}

// UpdateCategory renames a category or changes its description
func (s *CategoryService) UpdateCategory(categoryID, userID uuid.UUID, req *dto.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.requireCategory(categoryID, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory removes a category. Entries keep their category string.
func (s *CategoryService) DeleteCategory(categoryID, userID uuid.UUID) error {
	if _, err := s.requireCategory(categoryID, userID); err != nil {
		return err
	}

	return s.categoryRepo.Delete(categoryID)
}

func (s *CategoryService) requireCategory(categoryID, userID uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}

	if category.UserID != userID {
		return nil, ErrCategoryAccessDenied
	}

	return category, nil
}
