package handlers

import (
	"net/http"

	"envel/internal/dto"
	"envel/internal/errors"
	"envel/internal/repositories"
	"envel/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CategoryHandler handles spending category HTTP requests
type CategoryHandler struct {
	categoryService services.CategoryServiceInterface
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService services.CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// CreateCategory creates a new spending category
// @Summary Create a category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} models.Category "Category created successfully"
// @Failure 422 {object} errors.ErrorResponse "CATEGORY_003 - Category name already in use"
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	category, err := h.categoryService.CreateCategory(userID, &req)
	if err != nil {
		return mapCategoryErr(c, err)
	}

	return c.JSON(http.StatusCreated, category)
}

// GetUserCategories lists the user's categories
// @Summary Get all user categories
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.CategoryListResponse "List of categories"
// @Router /categories [get]
func (h *CategoryHandler) GetUserCategories(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	categories, err := h.categoryService.GetUserCategories(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.CategoryListResponse{Categories: categories})
}

// GetCategory retrieves a single category
// @Summary Get category
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Param categoryId path string true "Category ID (UUID)"
// @Success 200 {object} models.Category "Category"
// @Failure 404 {object} errors.ErrorResponse "CATEGORY_001 - Category not found"
// @Router /categories/{categoryId} [get]
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid category ID"))
	}

	category, err := h.categoryService.GetCategory(categoryID, userID)
	if err != nil {
		return mapCategoryErr(c, err)
	}

	return c.JSON(http.StatusOK, category)
}

// UpdateCategory renames a category or changes its description
// @Summary Update category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param categoryId path string true "Category ID (UUID)"
// @Param request body dto.UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} models.Category "Updated category"
// @Failure 404 {object} errors.ErrorResponse "CATEGORY_001 - Category not found"
// @Router /categories/{categoryId} [patch]
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid category ID"))
	}

	var req dto.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	category, err := h.categoryService.UpdateCategory(categoryID, userID, &req)
	if err != nil {
		return mapCategoryErr(c, err)
	}

	return c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category label. Entries keep their category string.
// @Summary Delete category
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Param categoryId path string true "Category ID (UUID)"
// @Success 200 {object} dto.MessageResponse "Category deleted successfully"
// @Failure 404 {object} errors.ErrorResponse "CATEGORY_001 - Category not found"
// @Router /categories/{categoryId} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid category ID"))
	}

	if err := h.categoryService.DeleteCategory(categoryID, userID); err != nil {
		return mapCategoryErr(c, err)
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{
		Message: "Category deleted successfully",
	})
}

func mapCategoryErr(c echo.Context, err error) error {
	switch err {
	case repositories.ErrCategoryNotFound:
		return SendError(c, errors.CategoryNotFound)
	case repositories.ErrCategoryAlreadyExists:
		return SendError(c, errors.CategoryAlreadyExists)
	case services.ErrCategoryAccessDenied:
		return SendError(c, errors.CategoryNotFound)
	}
	return SendSystemError(c, err)
}
