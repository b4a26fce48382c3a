package repositories

import (
	"errors"
	"fmt"
	"time"

	"envel/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEnvelopeNotFound = errors.New("envelope not found")
	ErrAmountConflict   = errors.New("amount already set for month")
)

// EnvelopeRepository handles database operations for envelopes and their
// amount history
type EnvelopeRepository struct {
	db *gorm.DB
}

// NewEnvelopeRepository creates a new envelope repository
func NewEnvelopeRepository(db *gorm.DB) EnvelopeRepositoryInterface {
	return &EnvelopeRepository{
		db: db,
	}
}

// Create creates a new envelope together with any initial amounts
func (r *EnvelopeRepository) Create(envelope *models.Envelope) error {
	if envelope == nil {
		return errors.New("envelope cannot be nil")
	}

	if err := r.db.Create(envelope).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrAmountConflict
		}
		return fmt.Errorf("failed to create envelope: %w", err)
	}

	return nil
}

// GetByID retrieves an envelope with its full amount history
func (r *EnvelopeRepository) GetByID(id uuid.UUID) (*models.Envelope, error) {
	var envelope models.Envelope

	err := r.db.Preload("Amounts", func(db *gorm.DB) *gorm.DB {
		return db.Order("effective_date ASC")
	}).First(&envelope, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnvelopeNotFound
		}
		return nil, fmt.Errorf("failed to get envelope by ID: %w", err)
	}

	return &envelope, nil
}

// GetByUserID retrieves all envelopes owned by a user, amounts included
func (r *EnvelopeRepository) GetByUserID(userID uuid.UUID) ([]models.Envelope, error) {
	var envelopes []models.Envelope

	err := r.db.Preload("Amounts", func(db *gorm.DB) *gorm.DB {
		return db.Order("effective_date ASC")
	}).Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&envelopes).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get envelopes for user: %w", err)
	}

	return envelopes, nil
}

// GetSharedWithUser retrieves envelopes shared with a user through accepted
// share requests
func (r *EnvelopeRepository) GetSharedWithUser(userID uuid.UUID) ([]models.Envelope, error) {
	var envelopes []models.Envelope

	err := r.db.Preload("Amounts", func(db *gorm.DB) *gorm.DB {
		return db.Order("effective_date ASC")
	}).Joins("JOIN envelope_shares ON envelope_shares.envelope_id = envelopes.id").
		Where("envelope_shares.user_id = ?", userID).
		Order("envelopes.created_at ASC").
		Find(&envelopes).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get shared envelopes for user: %w", err)
	}

	return envelopes, nil
}

// Update updates envelope fields
func (r *EnvelopeRepository) Update(envelope *models.Envelope) error {
	if envelope == nil {
		return errors.New("envelope cannot be nil")
	}

	if err := r.db.Model(envelope).
		Select("Name", "Recurring", "UpdatedAt").
		Updates(envelope).Error; err != nil {
		return fmt.Errorf("failed to update envelope: %w", err)
	}

	return nil
}

// Delete removes an envelope and everything hanging off it. Runs in a single
// transaction so a partial cascade can never be observed.
func (r *EnvelopeRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var envelope models.Envelope
		if err := tx.First(&envelope, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEnvelopeNotFound
			}
			return fmt.Errorf("failed to load envelope for delete: %w", err)
		}

		if err := tx.Where("envelope_id = ?", id).Delete(&models.Entry{}).Error; err != nil {
			return fmt.Errorf("failed to delete entries for envelope: %w", err)
		}
		if err := tx.Where("envelope_id = ?", id).Delete(&models.UsedTotal{}).Error; err != nil {
			return fmt.Errorf("failed to delete used totals for envelope: %w", err)
		}
		if err := tx.Where("envelope_id = ?", id).Delete(&models.Amount{}).Error; err != nil {
			return fmt.Errorf("failed to delete amounts for envelope: %w", err)
		}
		if err := tx.Where("envelope_id = ?", id).Delete(&models.ShareRequest{}).Error; err != nil {
			return fmt.Errorf("failed to delete share requests for envelope: %w", err)
		}
		if err := tx.Where("envelope_id = ?", id).Delete(&models.EnvelopeShare{}).Error; err != nil {
			return fmt.Errorf("failed to delete shares for envelope: %w", err)
		}

		if err := tx.Delete(&envelope).Error; err != nil {
			return fmt.Errorf("failed to delete envelope: %w", err)
		}

		return nil
	})
}

// AddAmount appends a budget amount to an envelope's history. The unique
// index on (envelope_id, effective_date) rejects a second amount for the
// same month.
func (r *EnvelopeRepository) AddAmount(amount *models.Amount) error {
	if amount == nil {
		return errors.New("amount cannot be nil")
	}

	if err := r.db.Create(amount).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrAmountConflict
		}
		return fmt.Errorf("failed to add amount: %w", err)
	}

	return nil
}

// GetAmounts retrieves the amount history for an envelope ordered by
// effective date
func (r *EnvelopeRepository) GetAmounts(envelopeID uuid.UUID) ([]models.Amount, error) {
	var amounts []models.Amount

	err := r.db.Where("envelope_id = ?", envelopeID).
		Order("effective_date ASC").
		Find(&amounts).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get amounts for envelope: %w", err)
	}

	return amounts, nil
}

// HasAmountForMonth reports whether an amount is already recorded for the
// month containing the given time
func (r *EnvelopeRepository) HasAmountForMonth(envelopeID uuid.UUID, month time.Time) (bool, error) {
	var count int64

	err := r.db.Model(&models.Amount{}).
		Where("envelope_id = ? AND effective_date = ?", envelopeID, models.MonthStart(month)).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to check amount for month: %w", err)
	}

	return count > 0, nil
}
