package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"envel/internal/dto"
	"envel/internal/models"
	"envel/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrShareSelfInvite       = errors.New("cannot share an envelope with yourself")
	ErrShareRecipientUnknown = errors.New("recipient is not a registered user")
	ErrShareAlreadyPending   = errors.New("a pending share request already exists")
	ErrShareAlreadyResolved  = errors.New("share request was already responded to")
	ErrShareNotRecipient     = errors.New("share request is addressed to another user")
)

// SharingService handles the envelope sharing workflow: owners invite other
// users by email, recipients accept or reject, and accepted requests grant
// shared read/contribute access.
type SharingService struct {
	shareRepo     repositories.ShareRepositoryInterface
	envelopeRepo  repositories.EnvelopeRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	usedTotalRepo repositories.UsedTotalRepositoryInterface
	resolver      PeriodResolverInterface
	logger        *slog.Logger
}

// NewSharingService creates a new sharing service
func NewSharingService(
	shareRepo repositories.ShareRepositoryInterface,
	envelopeRepo repositories.EnvelopeRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	usedTotalRepo repositories.UsedTotalRepositoryInterface,
	resolver PeriodResolverInterface,
	logger *slog.Logger,
) SharingServiceInterface {
	return &SharingService{
		shareRepo:     shareRepo,
		envelopeRepo:  envelopeRepo,
		userRepo:      userRepo,
		usedTotalRepo: usedTotalRepo,
		resolver:      resolver,
		logger:        logger,
	}
}

// InviteUser creates a pending share request addressed to another registered
// user's email. Owner only; one pending request per envelope and recipient.
func (s *SharingService) InviteUser(ownerID uuid.UUID, req *dto.CreateShareRequest) (*models.ShareRequest, error) {
	envelopeID, err := uuid.Parse(req.EnvelopeID)
	if err != nil {
		return nil, repositories.ErrEnvelopeNotFound
	}

	envelope, err := s.envelopeRepo.GetByID(envelopeID)
	if err != nil {
		return nil, err
	}
	if envelope.UserID != ownerID {
		return nil, ErrNotEnvelopeOwner
	}

	email := strings.ToLower(strings.TrimSpace(req.RecipientEmail))

	owner, err := s.userRepo.GetByID(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	if strings.EqualFold(owner.Email, email) {
		return nil, ErrShareSelfInvite
	}

	recipient, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrShareRecipientUnknown
		}
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}

	alreadyShared, err := s.shareRepo.HasShare(envelopeID, recipient.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing share: %w", err)
	}
	if alreadyShared {
		return nil, repositories.ErrShareAlreadyExists
	}

	pending, err := s.shareRepo.HasPendingRequest(envelopeID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending request: %w", err)
	}
	if pending {
		return nil, ErrShareAlreadyPending
	}

	request := &models.ShareRequest{
		EnvelopeID:     envelopeID,
		OwnerID:        ownerID,
		RecipientEmail: email,
		Status:         models.ShareStatusPending,
	}

	if err := s.shareRepo.CreateRequest(request); err != nil {
		return nil, err
	}
	request.Envelope = *envelope

	s.logger.Info("share request created",
		"request_id", request.ID,
		"envelope_id", envelopeID,
		"owner_id", ownerID)

	return request, nil
}

// AcceptRequest accepts a pending share request addressed to the recipient
// and materializes the envelope share
func (s *SharingService) AcceptRequest(requestID, recipientID uuid.UUID) error {
	request, err := s.requireRecipient(requestID, recipientID)
	if err != nil {
		return err
	}

	if err := s.shareRepo.AcceptRequest(request, recipientID); err != nil {
		return err
	}

	s.logger.Info("share request accepted",
		"request_id", requestID,
		"envelope_id", request.EnvelopeID,
		"recipient_id", recipientID)

	return nil
}

// RejectRequest rejects a pending share request addressed to the recipient
func (s *SharingService) RejectRequest(requestID, recipientID uuid.UUID) error {
	request, err := s.requireRecipient(requestID, recipientID)
	if err != nil {
		return err
	}

	if err := s.shareRepo.RejectRequest(request); err != nil {
		return err
	}

	s.logger.Info("share request rejected",
		"request_id", requestID,
		"recipient_id", recipientID)

	return nil
}

// GetIncomingRequests lists share requests addressed to the user's email
func (s *SharingService) GetIncomingRequests(recipientID uuid.UUID) ([]models.ShareRequest, error) {
	recipient, err := s.userRepo.GetByID(recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}

	return s.shareRepo.GetIncomingByEmail(strings.ToLower(recipient.Email))
}

// GetOutgoingRequests lists share requests the user has sent
func (s *SharingService) GetOutgoingRequests(ownerID uuid.UUID) ([]models.ShareRequest, error) {
	return s.shareRepo.GetOutgoingByOwner(ownerID)
}

// GetSharedEnvelopes lists the envelopes shared with the user
func (s *SharingService) GetSharedEnvelopes(userID uuid.UUID) ([]models.Envelope, error) {
	return s.envelopeRepo.GetSharedWithUser(userID)
}

// GetSharedEnvelopesSummary resolves the envelopes shared with the user for
// one month, through the same resolution the owner's views use.
func (s *SharingService) GetSharedEnvelopesSummary(userID uuid.UUID, month time.Time) ([]models.PeriodSummary, error) {
	envelopes, err := s.envelopeRepo.GetSharedWithUser(userID)
	if err != nil {
		return nil, err
	}

	envelopeIDs := make([]uuid.UUID, len(envelopes))
	for i := range envelopes {
		envelopeIDs[i] = envelopes[i].ID
	}

	usedTotals, err := s.usedTotalRepo.GetByEnvelopeIDs(envelopeIDs)
	if err != nil {
		return nil, err
	}

	return s.resolver.ResolveAll(envelopes, usedTotals, month), nil
}

// GetEnvelopeShares lists the users an envelope is shared with. Owner only.
func (s *SharingService) GetEnvelopeShares(envelopeID, ownerID uuid.UUID) ([]dto.EnvelopeShareResponse, error) {
	envelope, err := s.envelopeRepo.GetByID(envelopeID)
	if err != nil {
		return nil, err
	}

	if envelope.UserID != ownerID {
		return nil, ErrNotEnvelopeOwner
	}

	shares, err := s.shareRepo.GetSharesForEnvelope(envelopeID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.EnvelopeShareResponse, 0, len(shares))
	for i := range shares {
		user, err := s.userRepo.GetByID(shares[i].UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get shared user: %w", err)
		}

		responses = append(responses, dto.EnvelopeShareResponse{
			UserID:   user.ID.String(),
			Email:    user.Email,
			Name:     user.Name,
			SharedAt: shares[i].CreatedAt,
		})
	}

	return responses, nil
}

func (s *SharingService) requireRecipient(requestID, recipientID uuid.UUID) (*models.ShareRequest, error) {
	request, err := s.shareRepo.GetRequestByID(requestID)
	if err != nil {
		return nil, err
	}

	recipient, err := s.userRepo.GetByID(recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}

	if !strings.EqualFold(request.RecipientEmail, recipient.Email) {
		return nil, ErrShareNotRecipient
	}

	if !request.IsPending() {
		return nil, ErrShareAlreadyResolved
	}

	return request, nil
}
