package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"envel/internal/dto"
	"envel/internal/models"
	"envel/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEnvelopeAccessDenied = errors.New("envelope does not belong to user")
	ErrNotEnvelopeOwner     = errors.New("only the envelope owner may do this")
	ErrAmountNotPositive    = errors.New("amount must be positive")
	ErrInvalidAmount        = errors.New("invalid amount value")
	ErrInvalidMonth         = errors.New("invalid month, expected yyyy-mm")
)

const monthLayout = "2006-01"

// EnvelopeService handles envelope business logic: CRUD, the append-only
// budget amount history, and per-month summaries through the period
// resolver.
type EnvelopeService struct {
	envelopeRepo  repositories.EnvelopeRepositoryInterface
	usedTotalRepo repositories.UsedTotalRepositoryInterface
	shareRepo     repositories.ShareRepositoryInterface
	resolver      PeriodResolverInterface
	logger        *slog.Logger
}

// NewEnvelopeService creates a new envelope service
func NewEnvelopeService(
	envelopeRepo repositories.EnvelopeRepositoryInterface,
	usedTotalRepo repositories.UsedTotalRepositoryInterface,
	shareRepo repositories.ShareRepositoryInterface,
	resolver PeriodResolverInterface,
	logger *slog.Logger,
) EnvelopeServiceInterface {
	return &EnvelopeService{
		envelopeRepo:  envelopeRepo,
		usedTotalRepo: usedTotalRepo,
		shareRepo:     shareRepo,
		resolver:      resolver,
		logger:        logger,
	}
}

// CreateEnvelope creates an envelope with its initial budget amount. The
// amount becomes effective in the requested month, defaulting to the current
// one.
func (s *EnvelopeService) CreateEnvelope(userID uuid.UUID, req *dto.CreateEnvelopeRequest) (*models.Envelope, error) {
	value, err := parsePositiveAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	effective := time.Now()
	if req.EffectiveMonth != "" {
		effective, err = parseMonth(req.EffectiveMonth)
		if err != nil {
			return nil, err
		}
	}

	envelope := &models.Envelope{
		UserID:    userID,
		Name:      req.Name,
		Recurring: req.Recurring,
		Amounts: []models.Amount{
			{Value: value, EffectiveDate: effective},
		},
	}

	if err := s.envelopeRepo.Create(envelope); err != nil {
		return nil, err
	}

	s.logger.Info("envelope created",
		"envelope_id", envelope.ID,
		"user_id", userID,
		"recurring", envelope.Recurring)

	return envelope, nil
}

// GetEnvelope retrieves an envelope the user owns or has shared access to.
// The second result reports whether the access is via a share.
func (s *EnvelopeService) GetEnvelope(envelopeID, userID uuid.UUID) (*models.Envelope, bool, error) {
	envelope, err := s.envelopeRepo.GetByID(envelopeID)
	if err != nil {
		return nil, false, err
	}

	if envelope.UserID == userID {
		return envelope, false, nil
	}

	shared, err := s.shareRepo.HasShare(envelopeID, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check envelope share: %w", err)
	}
	if !shared {
		return nil, false, ErrEnvelopeAccessDenied
	}

	return envelope, true, nil
}

// GetUserEnvelopes retrieves all envelopes owned by the user
func (s *EnvelopeService) GetUserEnvelopes(userID uuid.UUID) ([]models.Envelope, error) {
	return s.envelopeRepo.GetByUserID(userID)
}

// UpdateEnvelope renames an envelope or toggles its recurring flag. Owner
// only.
func (s *EnvelopeService) UpdateEnvelope(envelopeID, userID uuid.UUID, req *dto.UpdateEnvelopeRequest) (*models.Envelope, error) {
	envelope, err := s.requireOwner(envelopeID, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		envelope.Name = *req.Name
	}
	if req.Recurring != nil {
		envelope.Recurring = *req.Recurring
	}

	if err := s.envelopeRepo.Update(envelope); err != nil {
		return nil, err
	}

	return envelope, nil
}

// DeleteEnvelope removes an envelope and its entries, amounts, aggregates
// and shares. Owner only.
func (s *EnvelopeService) DeleteEnvelope(envelopeID, userID uuid.UUID) error {
	if _, err := s.requireOwner(envelopeID, userID); err != nil {
		return err
	}

	if err := s.envelopeRepo.Delete(envelopeID); err != nil {
		return err
	}

	s.logger.Info("envelope deleted",
		"envelope_id", envelopeID,
		"user_id", userID)

	return nil
}

// AddAmount schedules a new budget amount effective from the given month
// forward. History is append-only: one amount per month, earlier months keep
// resolving to their own records. Owner only.
func (s *EnvelopeService) AddAmount(envelopeID, userID uuid.UUID, req *dto.AddAmountRequest) (*models.Amount, error) {
	if _, err := s.requireOwner(envelopeID, userID); err != nil {
		return nil, err
	}

	value, err := parsePositiveAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	effective, err := parseMonth(req.EffectiveMonth)
	if err != nil {
		return nil, err
	}

	amount := &models.Amount{
		EnvelopeID:    envelopeID,
		Value:         value,
		EffectiveDate: effective,
	}

	if err := s.envelopeRepo.AddAmount(amount); err != nil {
		return nil, err
	}

	s.logger.Info("amount scheduled",
		"envelope_id", envelopeID,
		"effective_date", amount.EffectiveDate,
		"value", amount.Value)

	return amount, nil
}

// GetAmounts retrieves the full budget amount history for an envelope the
// user can access
func (s *EnvelopeService) GetAmounts(envelopeID, userID uuid.UUID) ([]models.Amount, error) {
	if _, _, err := s.GetEnvelope(envelopeID, userID); err != nil {
		return nil, err
	}

	return s.envelopeRepo.GetAmounts(envelopeID)
}

// GetSummary resolves the envelope for one month
func (s *EnvelopeService) GetSummary(envelopeID, userID uuid.UUID, month time.Time) (*models.PeriodSummary, error) {
	envelope, _, err := s.GetEnvelope(envelopeID, userID)
	if err != nil {
		return nil, err
	}

	usedTotals, err := s.usedTotalRepo.GetByEnvelopeID(envelopeID)
	if err != nil {
		return nil, err
	}

	summary := s.resolver.Resolve(envelope, usedTotals, month)
	return &summary, nil
}

// GetSummaryHistory resolves the envelope for each of the trailing months
// ending at the given one, oldest first. Invisible months are included so
// charts keep a continuous axis.
func (s *EnvelopeService) GetSummaryHistory(envelopeID, userID uuid.UUID, through time.Time, months int) ([]models.PeriodSummary, error) {
	envelope, _, err := s.GetEnvelope(envelopeID, userID)
	if err != nil {
		return nil, err
	}

	usedTotals, err := s.usedTotalRepo.GetByEnvelopeID(envelopeID)
	if err != nil {
		return nil, err
	}

	if months < 1 {
		months = 1
	}

	history := make([]models.PeriodSummary, 0, months)
	start := models.MonthStart(through).AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		month := start.AddDate(0, i, 0)
		history = append(history, s.resolver.Resolve(envelope, usedTotals, month))
	}

	return history, nil
}

// GetEnvelopesSummary resolves every envelope the user owns for one month and
// keeps the visible ones, the list view counterpart of GetSummary.
func (s *EnvelopeService) GetEnvelopesSummary(userID uuid.UUID, month time.Time) ([]models.PeriodSummary, error) {
	envelopes, err := s.envelopeRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	envelopeIDs := make([]uuid.UUID, len(envelopes))
	for i := range envelopes {
		envelopeIDs[i] = envelopes[i].ID
	}

	usedTotals, err := s.usedTotalRepo.GetByEnvelopeIDs(envelopeIDs)
	if err != nil {
		return nil, err
	}

	return s.resolver.ResolveAll(envelopes, usedTotals, month), nil
}

// RecomputeTotals rebuilds the envelope's monthly spend aggregates from its
// entries. Repair path; normal entry writes keep the aggregates current.
func (s *EnvelopeService) RecomputeTotals(envelopeID, userID uuid.UUID) error {
	envelope, err := s.requireOwner(envelopeID, userID)
	if err != nil {
		return err
	}

	totals, err := s.usedTotalRepo.GetByEnvelopeID(envelope.ID)
	if err != nil {
		return err
	}

	for i := range totals {
		if err := s.usedTotalRepo.Recompute(envelope.ID, totals[i].Month); err != nil {
			return err
		}
	}

	s.logger.Info("used totals recomputed",
		"envelope_id", envelope.ID,
		"months", len(totals))

	return nil
}

func (s *EnvelopeService) requireOwner(envelopeID, userID uuid.UUID) (*models.Envelope, error) {
	envelope, err := s.envelopeRepo.GetByID(envelopeID)
	if err != nil {
		return nil, err
	}

	if envelope.UserID != userID {
		return nil, ErrNotEnvelopeOwner
	}

	return envelope, nil
}

func parsePositiveAmount(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrAmountNotPositive
	}
	return value, nil
}

func parseMonth(raw string) (time.Time, error) {
	month, err := time.Parse(monthLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	return month.UTC(), nil
}
