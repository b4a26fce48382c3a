package handlers

import (
	"net/http"
	"time"

	"envel/internal/dto"
	"envel/internal/errors"
	"envel/internal/models"
	"envel/internal/repositories"
	"envel/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const monthQueryLayout = "2006-01"

// EnvelopeHandler handles envelope-related HTTP requests
type EnvelopeHandler struct {
	envelopeService services.EnvelopeServiceInterface
	metrics         services.MetricsRecorderInterface
}

// NewEnvelopeHandler creates a new envelope handler
func NewEnvelopeHandler(envelopeService services.EnvelopeServiceInterface, metrics services.MetricsRecorderInterface) *EnvelopeHandler {
	return &EnvelopeHandler{
		envelopeService: envelopeService,
		metrics:         metrics,
	}
}

// CreateEnvelope creates a new envelope for the authenticated user
// @Summary Create a new envelope
// @Description Create a budget envelope with its initial amount, effective from the given month
// @Tags Envelopes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEnvelopeRequest true "Envelope creation details"
// @Success 201 {object} models.Envelope "Envelope created successfully"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body or validation error"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /envelopes [post]
func (h *EnvelopeHandler) CreateEnvelope(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateEnvelopeRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	envelope, err := h.envelopeService.CreateEnvelope(userID, &req)
	if err != nil {
		return mapEnvelopeErr(c, err)
	}

	h.metrics.IncrementCounter("envelope_created", nil)

	return c.JSON(http.StatusCreated, envelope)
}

// GetUserEnvelopes retrieves all envelopes owned by the authenticated user
// @Summary Get all user envelopes
// @Description Retrieve all envelopes owned by the authenticated user with their amount history
// @Tags Envelopes
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.EnvelopeListResponse "List of user's envelopes"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /envelopes [get]
func (h *EnvelopeHandler) GetUserEnvelopes(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	envelopes, err := h.envelopeService.GetUserEnvelopes(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.EnvelopeListResponse{
		Envelopes: envelopes,
		Total:     len(envelopes),
	})
}

// GetEnvelope retrieves a specific envelope by ID
// @Summary Get envelope by ID
// @Description Retrieve an envelope the authenticated user owns or that is shared with them
// @Tags Envelopes
// @Security BearerAuth
// @Produce json
// @Param envelopeId path string true "Envelope ID (UUID)"
// @Success 200 {object} dto.EnvelopeResponse "Envelope details"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_003 - Invalid envelope ID format"
// @Failure 403 {object} errors.ErrorResponse "ENVELOPE_003 - Envelope belongs to another user"
// @Failure 404 {object} errors.ErrorResponse "ENVELOPE_001 - Envelope not found"
// @Router /envelopes/{envelopeId} [get]
func (h *EnvelopeHandler) GetEnvelope(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	envelopeID, err := uuid.Parse(c.Param("envelopeId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid envelope ID"))
	}

	envelope, shared, err := h.envelopeService.GetEnvelope(envelopeID, userID)
	if err != nil {
		return mapEnvelopeErr(c, err)
	}

	return c.JSON(http.StatusOK, dto.EnvelopeResponse{
		Envelope: envelope,
		Shared:   shared,
	})
}

// UpdateEnvelope renames an envelope or toggles its recurring flag
// @Summary Update envelope
// @Description Rename an envelope or change whether its budget carries forward month to month
// @Tags Envelopes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param envelopeId path string true "Envelope ID (UUID)"
// @Param request body dto.UpdateEnvelopeRequest true "Fields to update"
// @Success 200 {object} models.Envelope "Updated envelope"
// @Failure 403 {object} errors.ErrorResponse "ENVELOPE_003 - Only the owner may update an envelope"
// @Failure 404 {object} errors.ErrorResponse "ENVELOPE_001 - Envelope not found"
// @Router /envelopes/{envelopeId} [patch]
func (h *EnvelopeHandler) UpdateEnvelope(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	envelopeID, err := uuid.Parse(c.Param("envelopeId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid envelope ID"))
	}

	var req dto.UpdateEnvelopeRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	envelope, err := h.envelopeService.UpdateEnvelope(envelopeID, userID, &req)
	if err != nil {
		return mapEnvelopeErr(c, err)
	}

	return c.JSON(http.StatusOK, envelope)
}

// DeleteEnvelope deletes an envelope and everything attached to it
// @Summary Delete envelope
// @Description Delete an envelope along with its amounts, entries, and shares
// @Tags Envelopes
// @Security BearerAuth
// @Produce json
// @Param envelopeId path string true "Envelope ID (UUID)"
// @Success 200 {object} dto.MessageResponse "Envelope deleted successfully"
// @Failure 403 {object} errors.ErrorResponse "ENVELOPE_003 - Only the owner may delete an envelope"
// @Failure 404 {object} errors.ErrorResponse "ENVELOPE_001 - Envelope not found"
// @Router /envelopes/{envelopeId} [delete]
func (h *EnvelopeHandler) DeleteEnvelope(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	envelopeID, err := uuid.Parse(c.Param("envelopeId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid envelope ID"))
	}

	if err := h.envelopeService.DeleteEnvelope(envelopeID, userID); err != nil {
		return mapEnvelopeErr(c, err)
	}

	h.metrics.IncrementCounter("envelope_deleted", nil)

	return c.JSON(http.StatusOK, dto.MessageResponse{
		Message: "Envelope deleted successfully",
	})
}

// AddAmount schedules a new budget amount from a given month forward
// @Summary Schedule a budget amount
// @Description Add a new budget amount effective from the given month. Earlier months keep the previously effective amount.
// @Tags Envelopes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param envelopeId path string true "Envelope ID (UUID)"
// @Param request body dto.AddAmountRequest true "Amount and effective month"
// @Success 201 {object} models.Amount "Amount scheduled successfully"
// @Failure 400 {object} errors.ErrorResponse "AMOUNT_002 - Amount must be positive, VALIDATION_004 - Invalid month"
// @Failure 409 {object} errors.ErrorResponse "AMOUNT_003 - An amount is already scheduled for that month"
// @Router /envelopes/{envelopeId}/amounts [post]
func (h *EnvelopeHandler) AddAmount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	envelopeID, err := uuid.Parse(c.Param("envelopeId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid envelope ID"))
	}

	var req dto.AddAmountRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	amount, err := h.envelopeService.AddAmount(envelopeID, userID, &req)
	if err != nil {
		return mapEnvelopeErr(c, err)
	}

	h.metrics.IncrementCounter("amount_scheduled", nil)

	return c.JSON(http.StatusCreated, amount)
}

// GetAmounts retrieves an envelope's budget amount history
// @Summary Get amount history
// @Description Retrieve the full budget amount history of an envelope, oldest first
// @Tags Envelopes
// @Security BearerAuth
// @Produce json
// @Param envelopeId path string true "Envelope ID (UUID)"
// @Success 200 {object} dto.AmountListResponse "Amount history"
// @Failure 404 {object} errors.ErrorResponse "ENVELOPE_001 - Envelope not found"
// @Router /envelopes/{envelopeId}/amounts [get]
func (h *EnvelopeHandler) GetAmounts(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	envelopeID, err := uuid.Parse(c.Param("envelopeId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid envelope ID"))
	}

	amounts, err := h.envelopeService.GetAmounts(envelopeID, userID)
	if err != nil {
		return mapEnvelopeErr(c, err)
	}

	return c.JSON(http.StatusOK, dto.AmountListResponse{Amounts: amounts})
}

// GetSummary resolves an envelope for one month
// @Summary Get envelope summary
// @Description Resolve the envelope for the requested month: the effective budget amount, spend, remaining, and percent used. Defaults to the current month. Pass months=N to also receive the trailing N-month history.
// @Tags Envelopes
// @Security BearerAuth
// @Produce json
// @Param envelopeId path string true "Envelope ID (UUID)"
// @Param month query string false "Target month (yyyy-mm)"
// @Param months query int false "Trailing history length"
// @Success 200 {object} dto.EnvelopeSummaryResponse "Resolved summary"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_004 - Invalid month format"
// @Failure 404 {object} errors.ErrorResponse "ENVELOPE_001 - Envelope not found"
// @Router /envelopes/{envelopeId}/summary [get]
func (h *EnvelopeHandler) GetSummary(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	envelopeID, err := uuid.Parse(c.Param("envelopeId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid envelope ID"))
	}

	month := models.MonthStart(time.Now().UTC())
	if monthStr := c.QueryParam("month"); monthStr != "" {
		month, err = time.Parse(monthQueryLayout, monthStr)
		if err != nil {
			return SendError(c, errors.ValidationInvalidMonth, errors.WithDetails("Month must be yyyy-mm"))
		}
	}

	summary, err := h.envelopeService.GetSummary(envelopeID, userID, month)
	if err != nil {
		return mapEnvelopeErr(c, err)
	}

	response := dto.EnvelopeSummaryResponse{
		Month:   month.Format(monthQueryLayout),
		Summary: *summary,
	}

	if months := getIntParam(c, "months", 0); months > 0 {
		history, err := h.envelopeService.GetSummaryHistory(envelopeID, userID, month, months)
		if err != nil {
			return mapEnvelopeErr(c, err)
		}
		response.History = history
	}

	return c.JSON(http.StatusOK, response)
}

// GetEnvelopesSummary resolves every visible envelope for one month
// @Summary Get envelope list summary
// @Description Resolve every envelope the authenticated user owns for the requested month and return the visible ones. Defaults to the current month.
// @Tags Envelopes
// @Security BearerAuth
// @Produce json
// @Param month query string false "Target month (yyyy-mm)"
// @Success 200 {object} dto.EnvelopeSummaryListResponse "Resolved summaries"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_004 - Invalid month format"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Router /envelopes/summary [get]
func (h *EnvelopeHandler) GetEnvelopesSummary(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	month := models.MonthStart(time.Now().UTC())
	if monthStr := c.QueryParam("month"); monthStr != "" {
		month, err = time.Parse(monthQueryLayout, monthStr)
		if err != nil {
			return SendError(c, errors.ValidationInvalidMonth, errors.WithDetails("Month must be yyyy-mm"))
		}
	}

	summaries, err := h.envelopeService.GetEnvelopesSummary(userID, month)
	if err != nil {
		return mapEnvelopeErr(c, err)
	}

	return c.JSON(http.StatusOK, dto.EnvelopeSummaryListResponse{
		Month:     month.Format(monthQueryLayout),
		Envelopes: summaries,
		Total:     len(summaries),
	})
}

// RecomputeTotals rebuilds an envelope's monthly spend aggregates
// @Summary Recompute envelope totals
// @Description Rebuild the envelope's monthly spend aggregates from its entries. Owner only.
// @Tags Envelopes
// @Security BearerAuth
// @Produce json
// @Param envelopeId path string true "Envelope ID (UUID)"
// @Success 200 {object} dto.MessageResponse "Totals recomputed"
// @Failure 403 {object} errors.ErrorResponse "ENVELOPE_003 - Not the envelope owner"
// @Failure 404 {object} errors.ErrorResponse "ENVELOPE_001 - Envelope not found"
// @Router /envelopes/{envelopeId}/recompute [post]
func (h *EnvelopeHandler) RecomputeTotals(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	envelopeID, err := uuid.Parse(c.Param("envelopeId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid envelope ID"))
	}

	if err := h.envelopeService.RecomputeTotals(envelopeID, userID); err != nil {
		return mapEnvelopeErr(c, err)
	}

	h.metrics.IncrementCounter("envelope_totals_recomputed", nil)

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Totals recomputed"})
}

func mapEnvelopeErr(c echo.Context, err error) error {
	switch err {
	case repositories.ErrEnvelopeNotFound:
		return SendError(c, errors.EnvelopeNotFound)
	case services.ErrEnvelopeAccessDenied, services.ErrNotEnvelopeOwner:
		return SendError(c, errors.EnvelopeAccessDenied)
	case services.ErrAmountNotPositive:
		return SendError(c, errors.AmountNotPositive)
	case services.ErrInvalidAmount:
		return SendError(c, errors.ValidationInvalidAmount)
	case services.ErrInvalidMonth:
		return SendError(c, errors.ValidationInvalidMonth)
	case repositories.ErrAmountConflict:
		return SendError(c, errors.AmountMonthConflict)
	}
	return SendSystemError(c, err)
}
