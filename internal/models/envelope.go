package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEnvelopeNameRequired = errors.New("envelope name is required")
	ErrAmountNotPositive    = errors.New("budget amount must be positive")
)

// Envelope is a named budget bucket. A recurring envelope stays visible for
// every month from its creation onward; a one-off envelope only shows up in
// months it was explicitly budgeted or actually used.
type Envelope struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string         `gorm:"type:varchar(100);not null" json:"name"`
	Recurring bool           `gorm:"not null;default:false" json:"recurring"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Amounts []Amount `gorm:"foreignKey:EnvelopeID;constraint:OnDelete:CASCADE" json:"amounts,omitempty"`
	Owner   User     `gorm:"foreignKey:UserID" json:"-"`
}

func (e *Envelope) BeforeCreate(tx *gorm.DB) error {
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

	return e.Validate()
}

func (e *Envelope) BeforeUpdate(tx *gorm.DB) error {
	e.UpdatedAt = time.Now()
	return e.Validate()
}

func (e *Envelope) Validate() error {
	if e.Name == "" {
		return ErrEnvelopeNameRequired
	}
	return nil
}

func (e *Envelope) TableName() string {
	return "envelopes"
}

// Amount is a budgeted value effective from a given month onward until
// superseded by a later record. Gaps between months are allowed; lookup is
// most-recent-past-or-present. At most one record per envelope and month,
// enforced by the unique index.
type Amount struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	EnvelopeID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_amounts_envelope_month" json:"envelope_id"`
	Value         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"value"`
	EffectiveDate time.Time       `gorm:"not null;uniqueIndex:idx_amounts_envelope_month" json:"effective_date"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
}

func (a *Amount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	// Effective dates are stored as first-of-month instants so the unique
	// index doubles as the one-amount-per-month constraint.
	a.EffectiveDate = MonthStart(a.EffectiveDate)

	return a.Validate()
}

func (a *Amount) Validate() error {
	if a.Value.LessThanOrEqual(decimal.Zero) {
		return ErrAmountNotPositive
	}
	return nil
}

func (a *Amount) TableName() string {
	return "amounts"
}

// MonthStart truncates t to the first instant of its calendar month in UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last instant of t's calendar month in UTC.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, 0).Add(-time.Second)
}

// SameMonth reports whether a and b fall in the same calendar month,
// regardless of day-of-month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
