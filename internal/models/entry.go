package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEntryNotPositive   = errors.New("entry amount must be positive")
	ErrEntryNeedsEnvelope = errors.New("entry must reference an envelope")
)

// Entry is a single recorded expense debited against an envelope.
type Entry struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	EnvelopeID uuid.UUID       `gorm:"type:uuid;not null;index" json:"envelope_id"`
	Value      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"value"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
	Category   string          `gorm:"type:varchar(100)" json:"category"`
	Note       string          `gorm:"type:text" json:"note"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null" json:"updated_at"`

	Envelope Envelope `gorm:"foreignKey:EnvelopeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}
	if e.Date.IsZero() {
		e.Date = now
	}

	return e.Validate()
}

func (e *Entry) BeforeUpdate(tx *gorm.DB) error {
	e.UpdatedAt = time.Now()
	return e.Validate()
}

func (e *Entry) Validate() error {
	if e.EnvelopeID == uuid.Nil {
		return ErrEntryNeedsEnvelope
	}
	if e.Value.LessThanOrEqual(decimal.Zero) {
		return ErrEntryNotPositive
	}
	return nil
}

func (e *Entry) TableName() string {
	return "entries"
}

// EntryFilters narrows entry listings. Zero values mean "no filter".
type EntryFilters struct {
	EnvelopeID uuid.UUID
	Category   string
	StartDate  time.Time
	EndDate    time.Time
}
