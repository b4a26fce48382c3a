package repositories

import (
	"time"

	"envel/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uuid.UUID) error
}

// RefreshTokenRepositoryInterface defines the contract for refresh token operations
type RefreshTokenRepositoryInterface interface {
	Create(token *models.RefreshToken) error
	GetByTokenHash(tokenHash string) (*models.RefreshToken, error)
	Revoke(tokenID uuid.UUID) error
	RevokeAllForUser(userID uuid.UUID) error
	DeleteExpired() (int64, error)
}

// BlacklistedTokenRepositoryInterface defines the contract for token blacklist operations
type BlacklistedTokenRepositoryInterface interface {
	Create(token *models.BlacklistedToken) error
	GetByJTI(jti string) (*models.BlacklistedToken, error)
	DeleteExpired() (int64, error)
}

// EnvelopeRepositoryInterface defines the contract for envelope repository
// operations. Reads always preload the amount history since the period
// resolver needs the full timeline.
type EnvelopeRepositoryInterface interface {
	Create(envelope *models.Envelope) error
	GetByID(id uuid.UUID) (*models.Envelope, error)
	GetByUserID(userID uuid.UUID) ([]models.Envelope, error)
	GetSharedWithUser(userID uuid.UUID) ([]models.Envelope, error)
	Update(envelope *models.Envelope) error
	Delete(id uuid.UUID) error
	AddAmount(amount *models.Amount) error
	GetAmounts(envelopeID uuid.UUID) ([]models.Amount, error)
	HasAmountForMonth(envelopeID uuid.UUID, month time.Time) (bool, error)
}

// EntryRepositoryInterface defines the contract for entry repository
// operations. Writes maintain the per-month used totals in the same database
// transaction so the aggregates never drift from the entries.
type EntryRepositoryInterface interface {
	Create(entry *models.Entry) error
	GetByID(id uuid.UUID) (*models.Entry, error)
	GetByEnvelopeIDs(envelopeIDs []uuid.UUID, filters models.EntryFilters, offset, limit int) ([]models.Entry, int64, error)
	GetRecent(envelopeIDs []uuid.UUID, startDate, endDate time.Time, limit int) ([]models.Entry, error)
	Update(entry *models.Entry) error
	Delete(id uuid.UUID) error
	SumForEnvelopeMonth(envelopeID uuid.UUID, month time.Time) (decimal.Decimal, error)
}

// UsedTotalRepositoryInterface defines the contract for the monthly spend
// aggregate table consumed by the period resolver.
type UsedTotalRepositoryInterface interface {
	GetByEnvelopeID(envelopeID uuid.UUID) ([]models.UsedTotal, error)
	GetByEnvelopeIDs(envelopeIDs []uuid.UUID) ([]models.UsedTotal, error)
	Recompute(envelopeID uuid.UUID, month time.Time) error
}

// CategoryRepositoryInterface defines the contract for category repository operations
type CategoryRepositoryInterface interface {
	Create(category *models.Category) error
	GetByID(id uuid.UUID) (*models.Category, error)
	GetByUserID(userID uuid.UUID) ([]models.Category, error)
	GetByUserIDAndName(userID uuid.UUID, name string) (*models.Category, error)
	Update(category *models.Category) error
	Delete(id uuid.UUID) error
}

// ShareRepositoryInterface defines the contract for the sharing workflow:
// share requests plus the materialized envelope shares created on accept.
type ShareRepositoryInterface interface {
	CreateRequest(request *models.ShareRequest) error
	GetRequestByID(id uuid.UUID) (*models.ShareRequest, error)
	GetOutgoingByOwner(ownerID uuid.UUID) ([]models.ShareRequest, error)
	GetIncomingByEmail(email string) ([]models.ShareRequest, error)
	HasPendingRequest(envelopeID uuid.UUID, recipientEmail string) (bool, error)
	AcceptRequest(request *models.ShareRequest, recipientID uuid.UUID) error
	RejectRequest(request *models.ShareRequest) error
	GetSharesForEnvelope(envelopeID uuid.UUID) ([]models.EnvelopeShare, error)
	HasShare(envelopeID, userID uuid.UUID) (bool, error)
}
