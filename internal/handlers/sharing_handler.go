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

// SharingHandler handles envelope sharing HTTP requests
type SharingHandler struct {
	sharingService services.SharingServiceInterface
	metrics        services.MetricsRecorderInterface
}

// NewSharingHandler creates a new sharing handler
func NewSharingHandler(sharingService services.SharingServiceInterface, metrics services.MetricsRecorderInterface) *SharingHandler {
	return &SharingHandler{
		sharingService: sharingService,
		metrics:        metrics,
	}
}

// InviteUser invites another user to an envelope by email
// @Summary Share an envelope
// @Description Invite another registered user to an envelope by email. The invitation stays pending until the recipient accepts or rejects it.
// @Tags Sharing
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateShareRequest true "Envelope and recipient email"
// @Success 201 {object} dto.ShareRequestResponse "Invitation created"
// @Failure 403 {object} errors.ErrorResponse "ENVELOPE_003 - Only the owner may share an envelope"
// @Failure 409 {object} errors.ErrorResponse "SHARE_002 - A pending invitation already exists"
// @Failure 422 {object} errors.ErrorResponse "SHARE_004 - Cannot share with yourself, SHARE_005 - Recipient not registered"
// @Router /shares [post]
func (h *SharingHandler) InviteUser(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateShareRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	request, err := h.sharingService.InviteUser(userID, &req)
	if err != nil {
		return mapShareErr(c, err)
	}

	h.metrics.IncrementCounter("share_request", map[string]string{"status": "invited"})

	return c.JSON(http.StatusCreated, toShareRequestResponse(request))
}

// AcceptRequest accepts a pending share invitation
// @Summary Accept a share invitation
// @Description Accept a pending invitation addressed to the authenticated user's email, granting access to the envelope
// @Tags Sharing
// @Security BearerAuth
// @Produce json
// @Param requestId path string true "Share request ID (UUID)"
// @Success 200 {object} dto.MessageResponse "Invitation accepted"
// @Failure 403 {object} errors.ErrorResponse "SHARE_001 - Invitation addressed to another user"
// @Failure 409 {object} errors.ErrorResponse "SHARE_003 - Invitation already responded to"
// @Router /shares/{requestId}/accept [post]
func (h *SharingHandler) AcceptRequest(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid request ID"))
	}

	if err := h.sharingService.AcceptRequest(requestID, userID); err != nil {
		return mapShareErr(c, err)
	}

	h.metrics.IncrementCounter("share_request", map[string]string{"status": "accepted"})

	return c.JSON(http.StatusOK, dto.MessageResponse{
		Message: "Share request accepted",
	})
}

// RejectRequest rejects a pending share invitation
// @Summary Reject a share invitation
// @Tags Sharing
// @Security BearerAuth
// @Produce json
// @Param requestId path string true "Share request ID (UUID)"
// @Success 200 {object} dto.MessageResponse "Invitation rejected"
// @Failure 403 {object} errors.ErrorResponse "SHARE_001 - Invitation addressed to another user"
// @Failure 409 {object} errors.ErrorResponse "SHARE_003 - Invitation already responded to"
// @Router /shares/{requestId}/reject [post]
func (h *SharingHandler) RejectRequest(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid request ID"))
	}

	if err := h.sharingService.RejectRequest(requestID, userID); err != nil {
		return mapShareErr(c, err)
	}

	h.metrics.IncrementCounter("share_request", map[string]string{"status": "rejected"})

	return c.JSON(http.StatusOK, dto.MessageResponse{
		Message: "Share request rejected",
	})
}

// GetIncomingRequests lists invitations addressed to the authenticated user
// @Summary Get incoming share invitations
// @Tags Sharing
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ShareRequestListResponse "Incoming invitations"
// @Router /shares/incoming [get]
func (h *SharingHandler) GetIncomingRequests(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	requests, err := h.sharingService.GetIncomingRequests(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, toShareRequestListResponse(requests))
}

// GetOutgoingRequests lists invitations the authenticated user has sent
// @Summary Get outgoing share invitations
// @Tags Sharing
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ShareRequestListResponse "Outgoing invitations"
// @Router /shares/outgoing [get]
func (h *SharingHandler) GetOutgoingRequests(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	requests, err := h.sharingService.GetOutgoingRequests(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, toShareRequestListResponse(requests))
}

// GetSharedEnvelopes lists envelopes shared with the authenticated user
// @Summary Get shared envelopes
// @Description Retrieve envelopes other users have shared with the authenticated user
// @Tags Sharing
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SharedEnvelopeListResponse "Shared envelopes"
// @Router /shares/envelopes [get]
func (h *SharingHandler) GetSharedEnvelopes(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	envelopes, err := h.sharingService.GetSharedEnvelopes(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.SharedEnvelopeListResponse{
		Envelopes: envelopes,
		Total:     len(envelopes),
	})
}

// GetSharedEnvelopesSummary resolves shared envelopes for one month
// @Summary Get shared envelope summaries
// @Description Resolve every envelope shared with the authenticated user for the requested month, with the same period resolution owned envelopes get. Defaults to the current month.
// @Tags Sharing
// @Security BearerAuth
// @Produce json
// @Param month query string false "Target month (yyyy-mm)"
// @Success 200 {object} dto.EnvelopeSummaryListResponse "Resolved summaries"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_004 - Invalid month format"
// @Router /shares/envelopes/summary [get]
func (h *SharingHandler) GetSharedEnvelopesSummary(c echo.Context) error {
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

	summaries, err := h.sharingService.GetSharedEnvelopesSummary(userID, month)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.EnvelopeSummaryListResponse{
		Month:     month.Format(monthQueryLayout),
		Envelopes: summaries,
		Total:     len(summaries),
	})
}

// GetEnvelopeShares lists who an envelope is shared with
// @Summary Get envelope shares
// @Description List the users an envelope is currently shared with. Owner only.
// @Tags Sharing
// @Security BearerAuth
// @Produce json
// @Param envelopeId path string true "Envelope ID (UUID)"
// @Success 200 {object} dto.EnvelopeShareListResponse "Users with shared access"
// @Failure 403 {object} errors.ErrorResponse "ENVELOPE_003 - Not the envelope owner"
// @Failure 404 {object} errors.ErrorResponse "ENVELOPE_001 - Envelope not found"
// @Router /envelopes/{envelopeId}/shares [get]
func (h *SharingHandler) GetEnvelopeShares(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	envelopeID, err := uuid.Parse(c.Param("envelopeId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid envelope ID"))
	}

	shares, err := h.sharingService.GetEnvelopeShares(envelopeID, userID)
	if err != nil {
		return mapShareErr(c, err)
	}

	return c.JSON(http.StatusOK, dto.EnvelopeShareListResponse{
		Shares: shares,
		Total:  len(shares),
	})
}

func toShareRequestResponse(request *models.ShareRequest) dto.ShareRequestResponse {
	return dto.ShareRequestResponse{
		ID:             request.ID.String(),
		EnvelopeID:     request.EnvelopeID.String(),
		EnvelopeName:   request.Envelope.Name,
		RecipientEmail: request.RecipientEmail,
		Status:         request.Status,
		CreatedAt:      request.CreatedAt,
		RespondedAt:    request.RespondedAt,
	}
}

func toShareRequestListResponse(requests []models.ShareRequest) dto.ShareRequestListResponse {
	responses := make([]dto.ShareRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, toShareRequestResponse(&requests[i]))
	}
	return dto.ShareRequestListResponse{Requests: responses}
}

func mapShareErr(c echo.Context, err error) error {
	switch err {
	case repositories.ErrEnvelopeNotFound:
		return SendError(c, errors.EnvelopeNotFound)
	case repositories.ErrShareRequestNotFound:
		return SendError(c, errors.ShareNotFound)
	case repositories.ErrShareAlreadyExists:
		return SendError(c, errors.ShareAlreadyPending, errors.WithDetails("Envelope is already shared with this user"))
	case services.ErrNotEnvelopeOwner:
		return SendError(c, errors.EnvelopeAccessDenied)
	case services.ErrShareSelfInvite:
		return SendError(c, errors.ShareSelfInvite)
	case services.ErrShareRecipientUnknown:
		return SendError(c, errors.ShareRecipientUnknown)
	case services.ErrShareAlreadyPending:
		return SendError(c, errors.ShareAlreadyPending)
	case services.ErrShareAlreadyResolved:
		return SendError(c, errors.ShareAlreadyResolved)
	case services.ErrShareNotRecipient:
		return SendError(c, errors.ShareNotFound)
	}
	return SendSystemError(c, err)
}
