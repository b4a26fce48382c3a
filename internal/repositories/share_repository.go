package repositories

import (
	"errors"
	"fmt"

	"envel/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrShareRequestNotFound = errors.New("share request not found")
	ErrShareAlreadyExists   = errors.New("envelope already shared with user")
)

// ShareRepository handles database operations for the sharing workflow:
// pending requests addressed by email, and the envelope_shares rows that
// grant access once a request is accepted.
type ShareRepository struct {
	db *gorm.DB
}

// NewShareRepository creates a new share repository
func NewShareRepository(db *gorm.DB) ShareRepositoryInterface {
	return &ShareRepository{
		db: db,
	}
}

// CreateRequest records a new pending share request
func (r *ShareRepository) CreateRequest(request *models.ShareRequest) error {
	if request == nil {
		return errors.New("share request cannot be nil")
	}

	if err := r.db.Create(request).Error; err != nil {
		return fmt.Errorf("failed to create share request: %w", err)
	}

	return nil
}

// GetRequestByID retrieves a share request by its ID
func (r *ShareRepository) GetRequestByID(id uuid.UUID) (*models.ShareRequest, error) {
	var request models.ShareRequest

	if err := r.db.Preload("Envelope").First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShareRequestNotFound
		}
		return nil, fmt.Errorf("failed to get share request by ID: %w", err)
	}

	return &request, nil
}

// GetOutgoingByOwner retrieves all share requests sent by a user
func (r *ShareRepository) GetOutgoingByOwner(ownerID uuid.UUID) ([]models.ShareRequest, error) {
	var requests []models.ShareRequest

	err := r.db.Preload("Envelope").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&requests).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get outgoing share requests: %w", err)
	}

	return requests, nil
}

// GetIncomingByEmail retrieves all share requests addressed to an email
func (r *ShareRepository) GetIncomingByEmail(email string) ([]models.ShareRequest, error) {
	var requests []models.ShareRequest

	err := r.db.Preload("Envelope").
		Where("recipient_email = ?", email).
		Order("created_at DESC").
		Find(&requests).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get incoming share requests: %w", err)
	}

	return requests, nil
}

// HasPendingRequest reports whether a pending request already exists for the
// envelope and recipient
func (r *ShareRepository) HasPendingRequest(envelopeID uuid.UUID, recipientEmail string) (bool, error) {
	var count int64

	err := r.db.Model(&models.ShareRequest{}).
		Where("envelope_id = ? AND recipient_email = ? AND status = ?",
			envelopeID, recipientEmail, models.ShareStatusPending).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to check pending share request: %w", err)
	}

	return count > 0, nil
}

// AcceptRequest marks a request accepted and materializes the envelope share
// in the same transaction
func (r *ShareRepository) AcceptRequest(request *models.ShareRequest, recipientID uuid.UUID) error {
	if request == nil {
		return errors.New("share request cannot be nil")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		request.Accept()
		if err := tx.Save(request).Error; err != nil {
			return fmt.Errorf("failed to accept share request: %w", err)
		}

		share := models.EnvelopeShare{
			EnvelopeID: request.EnvelopeID,
			UserID:     recipientID,
		}
		if err := tx.Create(&share).Error; err != nil {
			if isDuplicateKeyError(err) {
				return ErrShareAlreadyExists
			}
			return fmt.Errorf("failed to create envelope share: %w", err)
		}

		return nil
	})
}

// RejectRequest marks a request rejected
func (r *ShareRepository) RejectRequest(request *models.ShareRequest) error {
	if request == nil {
		return errors.New("share request cannot be nil")
	}

	request.Reject()
	if err := r.db.Save(request).Error; err != nil {
		return fmt.Errorf("failed to reject share request: %w", err)
	}

	return nil
}

// GetSharesForEnvelope retrieves the users an envelope is shared with
func (r *ShareRepository) GetSharesForEnvelope(envelopeID uuid.UUID) ([]models.EnvelopeShare, error) {
	var shares []models.EnvelopeShare

	err := r.db.Where("envelope_id = ?", envelopeID).
		Order("created_at ASC").
		Find(&shares).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get shares for envelope: %w", err)
	}

	return shares, nil
}

// HasShare reports whether an envelope is shared with a user
func (r *ShareRepository) HasShare(envelopeID, userID uuid.UUID) (bool, error) {
	var count int64

	err := r.db.Model(&models.EnvelopeShare{}).
		Where("envelope_id = ? AND user_id = ?", envelopeID, userID).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to check envelope share: %w", err)
	}

	return count > 0, nil
}
