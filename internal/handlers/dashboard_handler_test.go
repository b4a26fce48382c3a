package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"envel/internal/database"
	"envel/internal/dto"
	"envel/internal/models"
	"envel/internal/repositories"
	"envel/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

func TestDashboardHandler(t *testing.T) {
	suite.Run(t, new(DashboardHandlerSuite))
}

type DashboardHandlerSuite struct {
	suite.Suite
	db              *database.DB
	handler         *DashboardHandler
	envelopeService services.EnvelopeServiceInterface
	entryService    services.EntryServiceInterface
	e               *echo.Echo
	userID          uuid.UUID
}

func (s *DashboardHandlerSuite) SetupSuite() {
	s.db = database.SetupTestDB(s.T())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	envelopeRepo := repositories.NewEnvelopeRepository(s.db.DB)
	usedTotalRepo := repositories.NewUsedTotalRepository(s.db.DB)
	entryRepo := repositories.NewEntryRepository(s.db.DB)
	shareRepo := repositories.NewShareRepository(s.db.DB)
	resolver := services.NewPeriodResolver()

	dashboardService := services.NewDashboardService(envelopeRepo, usedTotalRepo, entryRepo, resolver, logger)
	s.envelopeService = services.NewEnvelopeService(envelopeRepo, usedTotalRepo, shareRepo, resolver, logger)
	s.entryService = services.NewEntryService(entryRepo, envelopeRepo, shareRepo, logger)

	s.handler = NewDashboardHandler(dashboardService, noopMetrics{})
	s.e = newTestEcho()
}

func (s *DashboardHandlerSuite) SetupTest() {
	database.CleanupTestDB(s.T(), s.db)

	user := &models.User{Email: "viewer@example.com", PasswordHash: "x", Name: "Viewer"}
	s.Require().NoError(s.db.DB.Create(user).Error)
	s.userID = user.ID
}

func (s *DashboardHandlerSuite) getDashboard(query string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard"+query, nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.Set("user_id", s.userID)
	return rec, c
}

func (s *DashboardHandlerSuite) TestGetDashboard() {
	s.Run("resolves envelopes and totals for the month", func() {
		envelope, err := s.envelopeService.CreateEnvelope(s.userID, &dto.CreateEnvelopeRequest{
			Name:           "Groceries",
			Recurring:      true,
			Amount:         "400.00",
			EffectiveMonth: "2026-01",
		})
		s.Require().NoError(err)

		_, err = s.entryService.CreateEntry(s.userID, &dto.CreateEntryRequest{
			EnvelopeID: envelope.ID.String(),
			Value:      "100.00",
			Date:       "2026-02-10",
		})
		s.Require().NoError(err)

		rec, c := s.getDashboard("?month=2026-02")
		s.NoError(s.handler.GetDashboard(c))
		s.Equal(http.StatusOK, rec.Code)

		var response dto.DashboardResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		s.Equal("2026-02", response.Month)
		s.Require().Len(response.Envelopes, 1)
		s.Equal("400", response.Envelopes[0].Amount.String())
		s.Equal("100", response.Envelopes[0].Used.String())
		s.Equal("400", response.Totals.TotalBudget.String())
		s.Equal("100", response.Totals.TotalUsed.String())
		s.Equal("300", response.Totals.TotalRemaining.String())
		s.Len(response.RecentEntries, 1)
	})

	s.Run("rejects malformed month", func() {
		for _, month := range []string{"hello", "2025-13"} {
			rec, c := s.getDashboard("?month=" + month)
			s.NoError(s.handler.GetDashboard(c))
			s.Equal(http.StatusBadRequest, rec.Code)

			var errorResp ErrorResponse
			s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
			s.Equal("VALIDATION_004", errorResp.Error.Code)
		}
	})
}

func (s *DashboardHandlerSuite) TestOneOffVisibility() {
	s.Run("one-off envelope stays off the dashboard outside its months", func() {
		_, err := s.envelopeService.CreateEnvelope(s.userID, &dto.CreateEnvelopeRequest{
			Name:           "Car Repair",
			Recurring:      false,
			Amount:         "900.00",
			EffectiveMonth: "2026-01",
		})
		s.Require().NoError(err)

		rec, c := s.getDashboard("?month=2026-03")
		s.NoError(s.handler.GetDashboard(c))
		s.Equal(http.StatusOK, rec.Code)

		var response dto.DashboardResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		s.Empty(response.Envelopes)
		s.True(response.Totals.TotalBudget.IsZero())
	})
}
