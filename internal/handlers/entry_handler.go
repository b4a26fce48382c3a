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

// EntryHandler handles expense entry HTTP requests
type EntryHandler struct {
	entryService services.EntryServiceInterface
	metrics      services.MetricsRecorderInterface
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(entryService services.EntryServiceInterface, metrics services.MetricsRecorderInterface) *EntryHandler {
	return &EntryHandler{
		entryService: entryService,
		metrics:      metrics,
	}
}

// CreateEntry records an expense against an envelope
// @Summary Record an expense
// @Description Record an expense entry against an envelope the user owns or that is shared with them. The envelope's monthly spend total updates atomically.
// @Tags Entries
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} models.Entry "Entry recorded successfully"
// @Failure 400 {object} errors.ErrorResponse "ENTRY_002 - Value must be positive"
// @Failure 403 {object} errors.ErrorResponse "ENVELOPE_003 - No access to envelope"
// @Failure 404 {object} errors.ErrorResponse "ENVELOPE_001 - Envelope not found"
// @Router /entries [post]
func (h *EntryHandler) CreateEntry(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateEntryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	entry, err := h.entryService.CreateEntry(userID, &req)
	if err != nil {
		return mapEntryErr(c, err)
	}

	h.metrics.IncrementCounter("entry_recorded", map[string]string{"operation": "create"})

	return c.JSON(http.StatusCreated, entry)
}

// ListEntries lists entries across the user's accessible envelopes
// @Summary List entries
// @Description List entries across owned and shared envelopes, newest first, with optional envelope, category, and date range filters
// @Tags Entries
// @Security BearerAuth
// @Produce json
// @Param envelopeId query string false "Filter by envelope (UUID)"
// @Param category query string false "Filter by category"
// @Param startDate query string false "Earliest date (yyyy-mm-dd)"
// @Param endDate query string false "Latest date (yyyy-mm-dd)"
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Results per page (max 100)" default(50)
// @Success 200 {object} dto.EntryListResponse "Paginated entries"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Router /entries [get]
func (h *EntryHandler) ListEntries(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.ListEntriesRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid query parameters"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	entries, total, err := h.entryService.ListEntries(userID, &req)
	if err != nil {
		return mapEntryErr(c, err)
	}

	limit := req.Limit
	if limit == 0 {
		limit = 50
	}

	return c.JSON(http.StatusOK, dto.EntryListResponse{
		Entries: entries,
		Total:   total,
		Offset:  req.Offset,
		Limit:   limit,
	})
}

// GetEntry retrieves a single entry by ID
// @Summary Get entry by ID
// @Tags Entries
// @Security BearerAuth
// @Produce json
// @Param entryId path string true "Entry ID (UUID)"
// @Success 200 {object} models.Entry "Entry details"
// @Failure 404 {object} errors.ErrorResponse "ENTRY_001 - Entry not found"
// @Router /entries/{entryId} [get]
func (h *EntryHandler) GetEntry(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid entry ID"))
	}

	entry, err := h.entryService.GetEntry(entryID, userID)
	if err != nil {
		return mapEntryErr(c, err)
	}

	return c.JSON(http.StatusOK, entry)
}

// UpdateEntry edits an entry's value, date, category, or note
// @Summary Update entry
// @Description Edit an entry. Moving the entry to a different month shifts its value between monthly spend totals.
// @Tags Entries
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param entryId path string true "Entry ID (UUID)"
// @Param request body dto.UpdateEntryRequest true "Fields to update"
// @Success 200 {object} models.Entry "Updated entry"
// @Failure 404 {object} errors.ErrorResponse "ENTRY_001 - Entry not found"
// @Router /entries/{entryId} [patch]
func (h *EntryHandler) UpdateEntry(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid entry ID"))
	}

	var req dto.UpdateEntryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	entry, err := h.entryService.UpdateEntry(entryID, userID, &req)
	if err != nil {
		return mapEntryErr(c, err)
	}

	h.metrics.IncrementCounter("entry_recorded", map[string]string{"operation": "update"})

	return c.JSON(http.StatusOK, entry)
}

// DeleteEntry removes an entry
// @Summary Delete entry
// @Description Delete an entry. Its value is removed from the envelope's monthly spend total.
// @Tags Entries
// @Security BearerAuth
// @Produce json
// @Param entryId path string true "Entry ID (UUID)"
// @Success 200 {object} dto.MessageResponse "Entry deleted successfully"
// @Failure 404 {object} errors.ErrorResponse "ENTRY_001 - Entry not found"
// @Router /entries/{entryId} [delete]
func (h *EntryHandler) DeleteEntry(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid entry ID"))
	}

	if err := h.entryService.DeleteEntry(entryID, userID); err != nil {
		return mapEntryErr(c, err)
	}

	h.metrics.IncrementCounter("entry_recorded", map[string]string{"operation": "delete"})

	return c.JSON(http.StatusOK, dto.MessageResponse{
		Message: "Entry deleted successfully",
	})
}

func mapEntryErr(c echo.Context, err error) error {
	switch err {
	case repositories.ErrEntryNotFound:
		return SendError(c, errors.EntryNotFound)
	case repositories.ErrEnvelopeNotFound:
		return SendError(c, errors.EnvelopeNotFound)
	case services.ErrEntryAccessDenied:
		return SendError(c, errors.EntryAccessDenied)
	case services.ErrEnvelopeAccessDenied:
		return SendError(c, errors.EnvelopeAccessDenied)
	case services.ErrAmountNotPositive:
		return SendError(c, errors.EntryNotPositive)
	case services.ErrInvalidAmount:
		return SendError(c, errors.ValidationInvalidAmount)
	case services.ErrInvalidDate:
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Date must be yyyy-mm-dd"))
	}
	return SendSystemError(c, err)
}
