package services

import (
	"log/slog"
	"time"

	"envel/internal/dto"
	"envel/internal/models"
	"envel/internal/repositories"

	"github.com/google/uuid"
)

const recentEntryLimit = 20

// DashboardService assembles the monthly budget picture: every envelope the
// user owns or has shared access to, resolved for the target month through
// the period resolver, plus the rolled-up totals and the month's recent
// entries.
type DashboardService struct {
	envelopeRepo  repositories.EnvelopeRepositoryInterface
	usedTotalRepo repositories.UsedTotalRepositoryInterface
	entryRepo     repositories.EntryRepositoryInterface
	resolver      PeriodResolverInterface
	logger        *slog.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	envelopeRepo repositories.EnvelopeRepositoryInterface,
	usedTotalRepo repositories.UsedTotalRepositoryInterface,
	entryRepo repositories.EntryRepositoryInterface,
	resolver PeriodResolverInterface,
	logger *slog.Logger,
) DashboardServiceInterface {
	return &DashboardService{
		envelopeRepo:  envelopeRepo,
		usedTotalRepo: usedTotalRepo,
		entryRepo:     entryRepo,
		resolver:      resolver,
		logger:        logger,
	}
}

// GetDashboard resolves the user's budget view for one month
func (s *DashboardService) GetDashboard(userID uuid.UUID, month time.Time) (*dto.DashboardResponse, error) {
	owned, err := s.envelopeRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	shared, err := s.envelopeRepo.GetSharedWithUser(userID)
	if err != nil {
		return nil, err
	}

	envelopes := make([]models.Envelope, 0, len(owned)+len(shared))
	envelopes = append(envelopes, owned...)
	envelopes = append(envelopes, shared...)

	envelopeIDs := make([]uuid.UUID, len(envelopes))
	for i := range envelopes {
		envelopeIDs[i] = envelopes[i].ID
	}

	usedTotals, err := s.usedTotalRepo.GetByEnvelopeIDs(envelopeIDs)
	if err != nil {
		return nil, err
	}

	summaries := s.resolver.ResolveAll(envelopes, usedTotals, month)
	totals := s.resolver.RollUp(summaries)

	recent, err := s.entryRepo.GetRecent(envelopeIDs, models.MonthStart(month), models.MonthEnd(month), recentEntryLimit)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		Month:         models.MonthStart(month).Format("2006-01"),
		Envelopes:     summaries,
		Totals:        totals,
		RecentEntries: recent,
	}, nil
}
