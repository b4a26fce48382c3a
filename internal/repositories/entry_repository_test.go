package repositories

import (
	"testing"
	"time"

	"envel/internal/database"
	"envel/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestEntryRepository(t *testing.T) {
	suite.Run(t, new(EntryRepositorySuite))
}

type EntryRepositorySuite struct {
	suite.Suite
	db         *database.DB
	repo       EntryRepositoryInterface
	usedTotals UsedTotalRepositoryInterface
	user       *models.User
	envelope   *models.Envelope
}

func (s *EntryRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewEntryRepository(s.db.DB)
	s.usedTotals = NewUsedTotalRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "test@example.com")
	s.envelope = database.CreateTestEnvelope(s.T(), s.db, s.user, "Groceries", true,
		decimal.NewFromInt(500), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
}

func (s *EntryRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *EntryRepositorySuite) TestEntryRepository_Create() {
	entry := &models.Entry{
		EnvelopeID: s.envelope.ID,
		Value:      decimal.NewFromFloat(42.50),
		Date:       time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		Category:   "food",
	}

	err := s.repo.Create(entry)
	s.NoError(err)
	s.NotEqual(uuid.Nil, entry.ID)

	// The month's used total is written in the same transaction
	totals, err := s.usedTotals.GetByEnvelopeID(s.envelope.ID)
	s.NoError(err)
	s.Len(totals, 1)
	s.True(totals[0].Used.Equal(decimal.NewFromFloat(42.50)))
	s.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), totals[0].Month.UTC())
}

func (s *EntryRepositorySuite) TestEntryRepository_CreateAccumulatesWithinMonth() {
	first := &models.Entry{
		EnvelopeID: s.envelopeID(),
		Value:      decimal.NewFromInt(30),
		Date:       time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	}
	second := &models.Entry{
		EnvelopeID: s.envelopeID(),
		Value:      decimal.NewFromInt(20),
		Date:       time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC),
	}

	s.NoError(s.repo.Create(first))
	s.NoError(s.repo.Create(second))

	totals, err := s.usedTotals.GetByEnvelopeID(s.envelopeID())
	s.NoError(err)
	s.Len(totals, 1)
	s.True(totals[0].Used.Equal(decimal.NewFromInt(50)))
}

func (s *EntryRepositorySuite) TestEntryRepository_UpdateMovesUsedTotalAcrossMonths() {
	entry := &models.Entry{
		EnvelopeID: s.envelopeID(),
		Value:      decimal.NewFromInt(75),
		Date:       time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	s.NoError(s.repo.Create(entry))

	entry.Date = time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	s.NoError(s.repo.Update(entry))

	totals, err := s.usedTotals.GetByEnvelopeID(s.envelopeID())
	s.NoError(err)
	// March total is removed once it drops to zero, April picks it up
	s.Len(totals, 1)
	s.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), totals[0].Month.UTC())
	s.True(totals[0].Used.Equal(decimal.NewFromInt(75)))
}

func (s *EntryRepositorySuite) TestEntryRepository_DeleteRemovesUsedTotal() {
	entry := &models.Entry{
		EnvelopeID: s.envelopeID(),
		Value:      decimal.NewFromInt(10),
		Date:       time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	s.NoError(s.repo.Create(entry))

	s.NoError(s.repo.Delete(entry.ID))

	totals, err := s.usedTotals.GetByEnvelopeID(s.envelopeID())
	s.NoError(err)
	s.Empty(totals)

	_, err = s.repo.GetByID(entry.ID)
	s.Equal(ErrEntryNotFound, err)
}

func (s *EntryRepositorySuite) TestEntryRepository_DeleteNotFound() {
	err := s.repo.Delete(uuid.New())
	s.Equal(ErrEntryNotFound, err)
}

func (s *EntryRepositorySuite) TestEntryRepository_GetByEnvelopeIDsFilters() {
	march := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	s.NoError(s.repo.Create(&models.Entry{EnvelopeID: s.envelopeID(), Value: decimal.NewFromInt(10), Date: march, Category: "food"}))
	s.NoError(s.repo.Create(&models.Entry{EnvelopeID: s.envelopeID(), Value: decimal.NewFromInt(20), Date: april, Category: "transport"}))

	entries, total, err := s.repo.GetByEnvelopeIDs([]uuid.UUID{s.envelopeID()}, models.EntryFilters{Category: "food"}, 0, 10)
	s.NoError(err)
	s.Equal(int64(1), total)
	s.Len(entries, 1)
	s.Equal("food", entries[0].Category)

	entries, total, err = s.repo.GetByEnvelopeIDs([]uuid.UUID{s.envelopeID()}, models.EntryFilters{
		StartDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}, 0, 10)
	s.NoError(err)
	s.Equal(int64(1), total)
	s.Len(entries, 1)
	s.True(entries[0].Value.Equal(decimal.NewFromInt(20)))
}

func (s *EntryRepositorySuite) TestEntryRepository_SumForEnvelopeMonth() {
	s.NoError(s.repo.Create(&models.Entry{
		EnvelopeID: s.envelopeID(),
		Value:      decimal.NewFromFloat(12.25),
		Date:       time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}))
	s.NoError(s.repo.Create(&models.Entry{
		EnvelopeID: s.envelopeID(),
		Value:      decimal.NewFromFloat(7.75),
		Date:       time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC),
	}))

	sum, err := s.repo.SumForEnvelopeMonth(s.envelopeID(), time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
	s.NoError(err)
	s.True(sum.Equal(decimal.NewFromInt(20)))

	sum, err = s.repo.SumForEnvelopeMonth(s.envelopeID(), time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	s.NoError(err)
	s.True(sum.IsZero())
}

func (s *EntryRepositorySuite) envelopeID() uuid.UUID {
	return s.envelope.ID
}
