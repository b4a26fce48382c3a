package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ShareStatusPending  = "pending"
	ShareStatusAccepted = "accepted"
	ShareStatusRejected = "rejected"
)

var ErrInvalidShareStatus = errors.New("invalid share request status")

// ShareRequest is an invitation from an envelope owner to another user,
// identified by email. Accepting it materializes an EnvelopeShare row which
// grants the recipient read/contribute access.
type ShareRequest struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	EnvelopeID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"envelope_id"`
	OwnerID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	RecipientEmail string     `gorm:"type:varchar(255);not null;index" json:"recipient_email"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`

	Envelope Envelope `gorm:"foreignKey:EnvelopeID;constraint:OnDelete:CASCADE" json:"-"`
	Owner    User     `gorm:"foreignKey:OwnerID" json:"-"`
}

func (sr *ShareRequest) BeforeCreate(tx *gorm.DB) error {
	if sr.ID == uuid.Nil {
		sr.ID = uuid.New()
	}
	if sr.CreatedAt.IsZero() {
		sr.CreatedAt = time.Now()
	}
	if sr.Status == "" {
		sr.Status = ShareStatusPending
	}
	return sr.Validate()
}

func (sr *ShareRequest) Validate() error {
	switch sr.Status {
	case ShareStatusPending, ShareStatusAccepted, ShareStatusRejected:
		return nil
	default:
		return ErrInvalidShareStatus
	}
}

func (sr *ShareRequest) IsPending() bool {
	return sr.Status == ShareStatusPending
}

func (sr *ShareRequest) Accept() {
	sr.Status = ShareStatusAccepted
	now := time.Now()
	sr.RespondedAt = &now
}

func (sr *ShareRequest) Reject() {
	sr.Status = ShareStatusRejected
	now := time.Now()
	sr.RespondedAt = &now
}

func (sr *ShareRequest) TableName() string {
	return "share_requests"
}

// EnvelopeShare grants a non-owner user access to an envelope. Created when
// the recipient accepts a share request.
type EnvelopeShare struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EnvelopeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_envelope_shares_envelope_user" json:"envelope_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_envelope_shares_envelope_user" json:"user_id"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`

	Envelope Envelope `gorm:"foreignKey:EnvelopeID;constraint:OnDelete:CASCADE" json:"-"`
	User     User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (es *EnvelopeShare) BeforeCreate(tx *gorm.DB) error {
	if es.ID == uuid.Nil {
		es.ID = uuid.New()
	}
	if es.CreatedAt.IsZero() {
		es.CreatedAt = time.Now()
	}
	return nil
}

func (es *EnvelopeShare) TableName() string {
	return "envelope_shares"
}
