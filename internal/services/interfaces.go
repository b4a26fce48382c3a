package services

import (
	"time"

	"envel/internal/dto"
	"envel/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PeriodResolverInterface answers which budget amount and usage apply to an
// envelope for a calendar month. All methods are pure functions of their
// inputs.
type PeriodResolverInterface interface {
	// AmountAt returns the amount in effect at the month-end boundary, or
	// ok=false when every record is later than the boundary
	AmountAt(amounts []models.Amount, monthEnd time.Time) (models.Amount, bool)

	// UsedFor returns the spend aggregate for the envelope's calendar month,
	// zero if absent
	UsedFor(usedTotals []models.UsedTotal, envelopeID uuid.UUID, month time.Time) decimal.Decimal

	// Resolve produces the period summary for one envelope and month
	Resolve(envelope *models.Envelope, usedTotals []models.UsedTotal, month time.Time) models.PeriodSummary

	// ResolveAll resolves every envelope and keeps the visible summaries
	ResolveAll(envelopes []models.Envelope, usedTotals []models.UsedTotal, month time.Time) []models.PeriodSummary

	// RollUp computes aggregate totals across one month's summaries
	RollUp(summaries []models.PeriodSummary) models.AggregateTotals

	// PercentOf returns round(used/amount*100), 0 when amount is zero
	PercentOf(used, amount decimal.Decimal) int
}

// EnvelopeServiceInterface defines envelope-related business operations
type EnvelopeServiceInterface interface {
	CreateEnvelope(userID uuid.UUID, req *dto.CreateEnvelopeRequest) (*models.Envelope, error)
	GetEnvelope(envelopeID, userID uuid.UUID) (*models.Envelope, bool, error)
	GetUserEnvelopes(userID uuid.UUID) ([]models.Envelope, error)
	UpdateEnvelope(envelopeID, userID uuid.UUID, req *dto.UpdateEnvelopeRequest) (*models.Envelope, error)
	DeleteEnvelope(envelopeID, userID uuid.UUID) error
	AddAmount(envelopeID, userID uuid.UUID, req *dto.AddAmountRequest) (*models.Amount, error)
	GetAmounts(envelopeID, userID uuid.UUID) ([]models.Amount, error)
	GetSummary(envelopeID, userID uuid.UUID, month time.Time) (*models.PeriodSummary, error)
	GetSummaryHistory(envelopeID, userID uuid.UUID, through time.Time, months int) ([]models.PeriodSummary, error)
	GetEnvelopesSummary(userID uuid.UUID, month time.Time) ([]models.PeriodSummary, error)
	RecomputeTotals(envelopeID, userID uuid.UUID) error
}

// EntryServiceInterface defines entry-related business operations
type EntryServiceInterface interface {
	CreateEntry(userID uuid.UUID, req *dto.CreateEntryRequest) (*models.Entry, error)
	GetEntry(entryID, userID uuid.UUID) (*models.Entry, error)
	ListEntries(userID uuid.UUID, req *dto.ListEntriesRequest) ([]models.Entry, int64, error)
	UpdateEntry(entryID, userID uuid.UUID, req *dto.UpdateEntryRequest) (*models.Entry, error)
	DeleteEntry(entryID, userID uuid.UUID) error
}

// CategoryServiceInterface defines category-related business operations
type CategoryServiceInterface interface {
	CreateCategory(userID uuid.UUID, req *dto.CreateCategoryRequest) (*models.Category, error)
	GetCategory(categoryID, userID uuid.UUID) (*models.Category, error)
	GetUserCategories(userID uuid.UUID) ([]models.Category, error)
	UpdateCategory(categoryID, userID uuid.UUID, req *dto.UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(categoryID, userID uuid.UUID) error
}

// SharingServiceInterface defines the envelope sharing workflow
type SharingServiceInterface interface {
	InviteUser(ownerID uuid.UUID, req *dto.CreateShareRequest) (*models.ShareRequest, error)
	AcceptRequest(requestID, recipientID uuid.UUID) error
	RejectRequest(requestID, recipientID uuid.UUID) error
	GetIncomingRequests(recipientID uuid.UUID) ([]models.ShareRequest, error)
	GetOutgoingRequests(ownerID uuid.UUID) ([]models.ShareRequest, error)
	GetSharedEnvelopes(userID uuid.UUID) ([]models.Envelope, error)
	GetSharedEnvelopesSummary(userID uuid.UUID, month time.Time) ([]models.PeriodSummary, error)
	GetEnvelopeShares(envelopeID, ownerID uuid.UUID) ([]dto.EnvelopeShareResponse, error)
}

// DashboardServiceInterface assembles the resolved monthly budget view
type DashboardServiceInterface interface {
	GetDashboard(userID uuid.UUID, month time.Time) (*dto.DashboardResponse, error)
}

// SampleDataServiceInterface generates realistic demo data for a user
type SampleDataServiceInterface interface {
	GenerateSampleData(userID uuid.UUID, months int) error
}

type AuthServiceInterface interface {
	Register(req *dto.RegisterRequest) (*models.User, error)
	Login(req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshTokens(refreshToken string) (*dto.TokenResponse, error)
	Logout(accessToken string) error
	GetProfile(userID uuid.UUID) (*models.User, error)
}

type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	GenerateRefreshToken(userID uuid.UUID) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ValidateRefreshToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
	GetJTI(tokenString string) (string, error)
	GetTokenExpiry(tokenString string) (time.Time, error)
}

type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
	UpdatePassword(userID uuid.UUID, currentPassword, newPassword string) error
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}
