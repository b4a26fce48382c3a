package services

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"envel/internal/models"
	"envel/internal/repositories"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// envelopeTemplate describes one demo envelope: its budget range and how
// many entries land in a typical month.
type envelopeTemplate struct {
	name         string
	recurring    bool
	minBudget    float64
	maxBudget    float64
	entriesMin   int
	entriesMax   int
	categoryPool []string
}

var demoTemplates = []envelopeTemplate{
	{"Groceries", true, 300, 600, 6, 14, []string{"supermarket", "bakery", "market"}},
	{"Rent", true, 900, 1600, 1, 1, []string{"housing"}},
	{"Transport", true, 80, 200, 3, 8, []string{"fuel", "transit", "parking"}},
	{"Dining Out", true, 100, 250, 2, 8, []string{"restaurant", "cafe", "takeaway"}},
	{"Entertainment", true, 50, 150, 1, 5, []string{"streaming", "cinema", "games"}},
	{"Vacation", false, 400, 1200, 0, 3, []string{"travel"}},
}

// SampleDataService seeds a user with realistic demo envelopes and entries
// spanning several trailing months. Entries go through the entry repository
// so the monthly aggregates are built the same way real writes build them.
type SampleDataService struct {
	envelopeRepo repositories.EnvelopeRepositoryInterface
	entryRepo    repositories.EntryRepositoryInterface
	faker        *gofakeit.Faker
	rng          *rand.Rand
	logger       *slog.Logger
}

// NewSampleDataService creates a new sample data service
func NewSampleDataService(
	envelopeRepo repositories.EnvelopeRepositoryInterface,
	entryRepo repositories.EntryRepositoryInterface,
	logger *slog.Logger,
) SampleDataServiceInterface {
	seed := time.Now().UnixNano()
	return &SampleDataService{
		envelopeRepo: envelopeRepo,
		entryRepo:    entryRepo,
		faker:        gofakeit.New(uint64(seed)),
		rng:          rand.New(rand.NewSource(seed)),
		logger:       logger,
	}
}

// GenerateSampleData creates the demo envelope set for a user and fills the
// trailing months with entries
func (s *SampleDataService) GenerateSampleData(userID uuid.UUID, months int) error {
	if months < 1 {
		months = 3
	}

	firstMonth := models.MonthStart(time.Now()).AddDate(0, -(months - 1), 0)

	for _, tpl := range demoTemplates {
		envelope, err := s.createEnvelope(userID, tpl, firstMonth)
		if err != nil {
			return fmt.Errorf("failed to seed envelope %q: %w", tpl.name, err)
		}

		for i := 0; i < months; i++ {
			month := firstMonth.AddDate(0, i, 0)
			if err := s.fillMonth(envelope, tpl, month); err != nil {
				return fmt.Errorf("failed to seed entries for %q: %w", tpl.name, err)
			}
		}
	}

	s.logger.Info("sample data generated",
		"user_id", userID,
		"months", months,
		"envelopes", len(demoTemplates))

	return nil
}

func (s *SampleDataService) createEnvelope(userID uuid.UUID, tpl envelopeTemplate, firstMonth time.Time) (*models.Envelope, error) {
	budget := s.randomAmount(tpl.minBudget, tpl.maxBudget)

	envelope := &models.Envelope{
		UserID:    userID,
		Name:      tpl.name,
		Recurring: tpl.recurring,
		Amounts: []models.Amount{
			{Value: budget, EffectiveDate: firstMonth},
		},
	}

	if err := s.envelopeRepo.Create(envelope); err != nil {
		return nil, err
	}

	return envelope, nil
}

func (s *SampleDataService) fillMonth(envelope *models.Envelope, tpl envelopeTemplate, month time.Time) error {
	count := tpl.entriesMin
	if tpl.entriesMax > tpl.entriesMin {
		count += s.rng.Intn(tpl.entriesMax - tpl.entriesMin + 1)
	}

	for i := 0; i < count; i++ {
		entry := &models.Entry{
			EnvelopeID: envelope.ID,
			Value:      s.randomEntryValue(tpl),
			Date:       s.randomDayIn(month),
			Category:   tpl.categoryPool[s.rng.Intn(len(tpl.categoryPool))],
			Note:       s.faker.ProductName(),
		}

		if err := s.entryRepo.Create(entry); err != nil {
			return err
		}
	}

	return nil
}

// randomEntryValue scales entry sizes to the envelope's budget so usage
// lands in a believable range instead of wildly over or under
func (s *SampleDataService) randomEntryValue(tpl envelopeTemplate) decimal.Decimal {
	typicalEntries := float64(tpl.entriesMin+tpl.entriesMax) / 2
	if typicalEntries < 1 {
		typicalEntries = 1
	}

	mean := (tpl.minBudget + tpl.maxBudget) / 2 / typicalEntries
	return s.randomAmount(mean*0.4, mean*1.4)
}

func (s *SampleDataService) randomAmount(min, max float64) decimal.Decimal {
	value := min + s.rng.Float64()*(max-min)
	return decimal.NewFromFloat(value).Round(2)
}

func (s *SampleDataService) randomDayIn(month time.Time) time.Time {
	start := models.MonthStart(month)
	daysInMonth := start.AddDate(0, 1, -1).Day()

	day := 1 + s.rng.Intn(daysInMonth)
	hour := 8 + s.rng.Intn(13)

	return time.Date(start.Year(), start.Month(), day, hour, s.rng.Intn(60), 0, 0, time.UTC)
}
