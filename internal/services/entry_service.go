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
)

var (
	ErrEntryAccessDenied = errors.New("entry does not belong to user")
	ErrInvalidDate       = errors.New("invalid date, expected yyyy-mm-dd")
)

const (
	dateLayout        = "2006-01-02"
	defaultEntryLimit = 50
	maxEntryLimit     = 100
)

// EntryService handles expense entry business logic. Entries may be recorded
// against owned envelopes and against envelopes shared with the user; edits
// and deletes follow the same rule.
type EntryService struct {
	entryRepo    repositories.EntryRepositoryInterface
	envelopeRepo repositories.EnvelopeRepositoryInterface
	shareRepo    repositories.ShareRepositoryInterface
	logger       *slog.Logger
}

// NewEntryService creates a new entry service
func NewEntryService(
	entryRepo repositories.EntryRepositoryInterface,
	envelopeRepo repositories.EnvelopeRepositoryInterface,
	shareRepo repositories.ShareRepositoryInterface,
	logger *slog.Logger,
) EntryServiceInterface {
	return &EntryService{
		entryRepo:    entryRepo,
		envelopeRepo: envelopeRepo,
		shareRepo:    shareRepo,
		logger:       logger,
	}
}

// CreateEntry records an expense against an accessible envelope. The month
// aggregate is refreshed in the same transaction by the repository.
func (s *EntryService) CreateEntry(userID uuid.UUID, req *dto.CreateEntryRequest) (*models.Entry, error) {
	envelopeID, err := uuid.Parse(req.EnvelopeID)
	if err != nil {
		return nil, repositories.ErrEnvelopeNotFound
	}

	if err := s.requireEnvelopeAccess(envelopeID, userID); err != nil {
		return nil, err
	}

	value, err := parsePositiveAmount(req.Value)
	if err != nil {
		return nil, err
	}

	date := time.Now()
	if req.Date != "" {
		date, err = parseDate(req.Date)
		if err != nil {
			return nil, err
		}
	}

	entry := &models.Entry{
		EnvelopeID: envelopeID,
		Value:      value,
		Date:       date,
		Category:   req.Category,
		Note:       req.Note,
	}

	if err := s.entryRepo.Create(entry); err != nil {
		return nil, err
	}

	s.logger.Info("entry recorded",
		"entry_id", entry.ID,
		"envelope_id", envelopeID,
		"user_id", userID,
		"value", entry.Value)

	return entry, nil
}

// GetEntry retrieves a single entry the user can access
func (s *EntryService) GetEntry(entryID, userID uuid.UUID) (*models.Entry, error) {
	entry, err := s.entryRepo.GetByID(entryID)
	if err != nil {
		return nil, err
	}

	if err := s.requireEnvelopeAccess(entry.EnvelopeID, userID); err != nil {
		return nil, ErrEntryAccessDenied
	}

	return entry, nil
}

// ListEntries lists entries across all envelopes the user can access, with
// optional envelope, category and date filters
func (s *EntryService) ListEntries(userID uuid.UUID, req *dto.ListEntriesRequest) ([]models.Entry, int64, error) {
	envelopeIDs, err := s.accessibleEnvelopeIDs(userID)
	if err != nil {
		return nil, 0, err
	}

	filters := models.EntryFilters{
		Category: req.Category,
	}

	if req.EnvelopeID != "" {
		filters.EnvelopeID, err = uuid.Parse(req.EnvelopeID)
		if err != nil {
			return nil, 0, repositories.ErrEnvelopeNotFound
		}
	}
	if req.StartDate != "" {
		filters.StartDate, err = parseDate(req.StartDate)
		if err != nil {
			return nil, 0, err
		}
	}
	if req.EndDate != "" {
		filters.EndDate, err = parseDate(req.EndDate)
		if err != nil {
			return nil, 0, err
		}
		// Make the end date inclusive of the whole day
		filters.EndDate = filters.EndDate.AddDate(0, 0, 1).Add(-time.Second)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultEntryLimit
	}
	if limit > maxEntryLimit {
		limit = maxEntryLimit
	}

	return s.entryRepo.GetByEnvelopeIDs(envelopeIDs, filters, req.Offset, limit)
}

// UpdateEntry edits an entry on an accessible envelope
func (s *EntryService) UpdateEntry(entryID, userID uuid.UUID, req *dto.UpdateEntryRequest) (*models.Entry, error) {
	entry, err := s.GetEntry(entryID, userID)
	if err != nil {
		return nil, err
	}

	if req.Value != nil {
		entry.Value, err = parsePositiveAmount(*req.Value)
		if err != nil {
			return nil, err
		}
	}
	if req.Date != nil {
		entry.Date, err = parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		entry.Category = *req.Category
	}
	if req.Note != nil {
		entry.Note = *req.Note
	}

	if err := s.entryRepo.Update(entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// DeleteEntry removes an entry on an accessible envelope
func (s *EntryService) DeleteEntry(entryID, userID uuid.UUID) error {
	if _, err := s.GetEntry(entryID, userID); err != nil {
		return err
	}

	if err := s.entryRepo.Delete(entryID); err != nil {
		return err
	}

	s.logger.Info("entry deleted",
		"entry_id", entryID,
		"user_id", userID)

	return nil
}

func (s *EntryService) requireEnvelopeAccess(envelopeID, userID uuid.UUID) error {
	envelope, err := s.envelopeRepo.GetByID(envelopeID)
	if err != nil {
		return err
	}

	if envelope.UserID == userID {
		return nil
	}

	shared, err := s.shareRepo.HasShare(envelopeID, userID)
	if err != nil {
		return fmt.Errorf("failed to check envelope share: %w", err)
	}
	if !shared {
		return ErrEnvelopeAccessDenied
	}

	return nil
}

func (s *EntryService) accessibleEnvelopeIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	owned, err := s.envelopeRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	shared, err := s.envelopeRepo.GetSharedWithUser(userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(owned)+len(shared))
	for _, e := range owned {
		ids = append(ids, e.ID)
	}
	for _, e := range shared {
		ids = append(ids, e.ID)
	}

	return ids, nil
}

func parseDate(raw string) (time.Time, error) {
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date.UTC(), nil
}
