package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UsedTotal is the precomputed monthly spend aggregate for an envelope: the
// sum of all entry values posted against the envelope within one calendar
// month. It is maintained transactionally on every entry write and consumed
// as an independent fact by the period resolver.
type UsedTotal struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	EnvelopeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_used_totals_envelope_month" json:"envelope_id"`
	Month      time.Time       `gorm:"not null;uniqueIndex:idx_used_totals_envelope_month" json:"month"`
	Used       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"used"`
	UpdatedAt  time.Time       `gorm:"not null" json:"updated_at"`
}

func (ut *UsedTotal) BeforeCreate(tx *gorm.DB) error {
	if ut.ID == uuid.Nil {
		ut.ID = uuid.New()
	}
	if ut.UpdatedAt.IsZero() {
		ut.UpdatedAt = time.Now()
	}

	ut.Month = MonthStart(ut.Month)
	return nil
}

func (ut *UsedTotal) BeforeUpdate(tx *gorm.DB) error {
	ut.UpdatedAt = time.Now()
	return nil
}

func (ut *UsedTotal) TableName() string {
	return "used_totals"
}
