package repositories

import (
	"fmt"
	"time"

	"envel/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type usedTotalRepository struct {
	db *gorm.DB
}

// NewUsedTotalRepository creates a new used total repository
func NewUsedTotalRepository(db *gorm.DB) UsedTotalRepositoryInterface {
	return &usedTotalRepository{db: db}
}

// GetByEnvelopeID retrieves all monthly spend aggregates for one envelope
func (r *usedTotalRepository) GetByEnvelopeID(envelopeID uuid.UUID) ([]models.UsedTotal, error) {
	var totals []models.UsedTotal

	err := r.db.Where("envelope_id = ?", envelopeID).
		Order("month ASC").
		Find(&totals).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get used totals for envelope: %w", err)
	}

	return totals, nil
}

// GetByEnvelopeIDs retrieves monthly spend aggregates for a set of envelopes
func (r *usedTotalRepository) GetByEnvelopeIDs(envelopeIDs []uuid.UUID) ([]models.UsedTotal, error) {
	if len(envelopeIDs) == 0 {
		return []models.UsedTotal{}, nil
	}

	var totals []models.UsedTotal

	err := r.db.Where("envelope_id IN ?", envelopeIDs).
		Order("month ASC").
		Find(&totals).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get used totals: %w", err)
	}

	return totals, nil
}

// Recompute rebuilds the aggregate for one envelope month from the entries
// table. Used as a repair path; normal writes keep the aggregate current.
func (r *usedTotalRepository) Recompute(envelopeID uuid.UUID, month time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return recomputeUsedTotal(tx, envelopeID, month)
	})
}
