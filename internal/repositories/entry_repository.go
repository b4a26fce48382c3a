package repositories

import (
	"errors"
	"fmt"
	"time"

	"envel/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEntryNotFound = errors.New("entry not found")
)

// EntryRepository handles database operations for entries. Every write also
// refreshes the used_totals row for the affected envelope months inside the
// same transaction, so the aggregates the resolver reads never drift from
// the entries themselves.
type EntryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *gorm.DB) EntryRepositoryInterface {
	return &EntryRepository{
		db: db,
	}
}

// Create records a new entry and refreshes its month's used total
func (r *EntryRepository) Create(entry *models.Entry) error {
	if entry == nil {
		return errors.New("entry cannot be nil")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to create entry: %w", err)
		}

		return recomputeUsedTotal(tx, entry.EnvelopeID, entry.Date)
	})
}

// GetByID retrieves an entry by its ID
func (r *EntryRepository) GetByID(id uuid.UUID) (*models.Entry, error) {
	var entry models.Entry

	if err := r.db.First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get entry by ID: %w", err)
	}

	return &entry, nil
}

// GetByEnvelopeIDs retrieves entries for a set of envelopes with optional
// filters and pagination, newest first
func (r *EntryRepository) GetByEnvelopeIDs(envelopeIDs []uuid.UUID, filters models.EntryFilters, offset, limit int) ([]models.Entry, int64, error) {
	if len(envelopeIDs) == 0 {
		return []models.Entry{}, 0, nil
	}

	query := r.db.Model(&models.Entry{}).Where("envelope_id IN ?", envelopeIDs)

	if filters.EnvelopeID != uuid.Nil {
		query = query.Where("envelope_id = ?", filters.EnvelopeID)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if !filters.StartDate.IsZero() {
		query = query.Where("date >= ?", filters.StartDate)
	}
	if !filters.EndDate.IsZero() {
		query = query.Where("date <= ?", filters.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count entries: %w", err)
	}

	var entries []models.Entry
	err := query.Order("date DESC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error

	if err != nil {
		return nil, 0, fmt.Errorf("failed to get entries: %w", err)
	}

	return entries, total, nil
}

// GetRecent retrieves the most recent entries for a set of envelopes within
// a date window
func (r *EntryRepository) GetRecent(envelopeIDs []uuid.UUID, startDate, endDate time.Time, limit int) ([]models.Entry, error) {
	if len(envelopeIDs) == 0 {
		return []models.Entry{}, nil
	}

	var entries []models.Entry

	err := r.db.Where("envelope_id IN ? AND date >= ? AND date <= ?", envelopeIDs, startDate, endDate).
		Order("date DESC, created_at DESC").
		Limit(limit).
		Find(&entries).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get recent entries: %w", err)
	}

	return entries, nil
}

// Update saves entry changes and refreshes the used totals for both the old
// and the new month when the entry moved
func (r *EntryRepository) Update(entry *models.Entry) error {
	if entry == nil {
		return errors.New("entry cannot be nil")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var previous models.Entry
		if err := tx.First(&previous, "id = ?", entry.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntryNotFound
			}
			return fmt.Errorf("failed to load entry for update: %w", err)
		}

		if err := tx.Save(entry).Error; err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}

		if err := recomputeUsedTotal(tx, entry.EnvelopeID, entry.Date); err != nil {
			return err
		}

		moved := previous.EnvelopeID != entry.EnvelopeID || !models.SameMonth(previous.Date, entry.Date)
		if moved {
			return recomputeUsedTotal(tx, previous.EnvelopeID, previous.Date)
		}

		return nil
	})
}

// Delete removes an entry and refreshes its month's used total
func (r *EntryRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var entry models.Entry
		if err := tx.First(&entry, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntryNotFound
			}
			return fmt.Errorf("failed to load entry for delete: %w", err)
		}

		if err := tx.Delete(&entry).Error; err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		return recomputeUsedTotal(tx, entry.EnvelopeID, entry.Date)
	})
}

// SumForEnvelopeMonth returns the total entry value for an envelope in the
// month containing the given time
func (r *EntryRepository) SumForEnvelopeMonth(envelopeID uuid.UUID, month time.Time) (decimal.Decimal, error) {
	return sumEntriesForMonth(r.db, envelopeID, month)
}

// sumEntriesForMonth totals entry values for one envelope month. The sum is
// read back as a string to keep decimal precision across drivers.
func sumEntriesForMonth(tx *gorm.DB, envelopeID uuid.UUID, month time.Time) (decimal.Decimal, error) {
	start := models.MonthStart(month)
	end := models.MonthEnd(month)

	var raw *string
	err := tx.Model(&models.Entry{}).
		Where("envelope_id = ? AND date >= ? AND date <= ?", envelopeID, start, end).
		Select("CAST(SUM(value) AS TEXT)").
		Scan(&raw).Error

	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum entries for month: %w", err)
	}

	if raw == nil || *raw == "" {
		return decimal.Zero, nil
	}

	sum, err := decimal.NewFromString(*raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse entry sum: %w", err)
	}

	return sum, nil
}

// recomputeUsedTotal rewrites the used_totals row for one envelope month
// from the entries table
func recomputeUsedTotal(tx *gorm.DB, envelopeID uuid.UUID, month time.Time) error {
	sum, err := sumEntriesForMonth(tx, envelopeID, month)
	if err != nil {
		return err
	}

	monthStart := models.MonthStart(month)

	var existing models.UsedTotal
	err = tx.Where("envelope_id = ? AND month = ?", envelopeID, monthStart).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if sum.IsZero() {
			return nil
		}
		total := models.UsedTotal{
			EnvelopeID: envelopeID,
			Month:      monthStart,
			Used:       sum,
		}
		if err := tx.Create(&total).Error; err != nil {
			return fmt.Errorf("failed to create used total: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load used total: %w", err)
	}

	if sum.IsZero() {
		if err := tx.Delete(&existing).Error; err != nil {
			return fmt.Errorf("failed to delete used total: %w", err)
		}
		return nil
	}

	existing.Used = sum
	if err := tx.Save(&existing).Error; err != nil {
		return fmt.Errorf("failed to update used total: %w", err)
	}

	return nil
}
