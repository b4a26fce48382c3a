package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"envel/internal/database"
	"envel/internal/dto"
	"envel/internal/models"
	"envel/internal/repositories"
	"envel/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestEnvelopeHandler(t *testing.T) {
	suite.Run(t, new(EnvelopeHandlerSuite))
}

type EnvelopeHandlerSuite struct {
	suite.Suite
	db      *database.DB
	handler *EnvelopeHandler
	e       *echo.Echo
	userID  uuid.UUID
}

func (s *EnvelopeHandlerSuite) SetupSuite() {
	s.db = database.SetupTestDB(s.T())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	envelopeRepo := repositories.NewEnvelopeRepository(s.db.DB)
	usedTotalRepo := repositories.NewUsedTotalRepository(s.db.DB)
	shareRepo := repositories.NewShareRepository(s.db.DB)
	envelopeService := services.NewEnvelopeService(envelopeRepo, usedTotalRepo, shareRepo, services.NewPeriodResolver(), logger)

	s.handler = NewEnvelopeHandler(envelopeService, noopMetrics{})
	s.e = newTestEcho()
}

func (s *EnvelopeHandlerSuite) SetupTest() {
	database.CleanupTestDB(s.T(), s.db)
	s.userID = s.createUser("owner@example.com")
}

func (s *EnvelopeHandlerSuite) createUser(email string) uuid.UUID {
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Name:         "Test User",
	}
	s.Require().NoError(s.db.DB.Create(user).Error)
	return user.ID
}

func (s *EnvelopeHandlerSuite) newContext(method, path string, body interface{}, userID uuid.UUID) (*httptest.ResponseRecorder, echo.Context) {
	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.Set("user_id", userID)
	return rec, c
}

func (s *EnvelopeHandlerSuite) createEnvelope(name string) models.Envelope {
	rec, c := s.newContext(http.MethodPost, "/envelopes", dto.CreateEnvelopeRequest{
		Name:           name,
		Recurring:      true,
		Amount:         "500.00",
		EffectiveMonth: "2026-01",
	}, s.userID)
	s.Require().NoError(s.handler.CreateEnvelope(c))
	s.Require().Equal(http.StatusCreated, rec.Code)

	var envelope models.Envelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func (s *EnvelopeHandlerSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var errorResp ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
	return errorResp.Error.Code
}

func (s *EnvelopeHandlerSuite) TestCreateEnvelope() {
	s.Run("successful creation", func() {
		envelope := s.createEnvelope("Groceries")
		s.Equal("Groceries", envelope.Name)
		s.True(envelope.Recurring)
		s.NotEqual(uuid.Nil, envelope.ID)
	})

	s.Run("rejects non-positive amount", func() {
		rec, c := s.newContext(http.MethodPost, "/envelopes", dto.CreateEnvelopeRequest{
			Name:   "Broken",
			Amount: "-10",
		}, s.userID)

		s.NoError(s.handler.CreateEnvelope(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("AMOUNT_002", s.errorCode(rec))
	})

	s.Run("rejects unparseable amount", func() {
		rec, c := s.newContext(http.MethodPost, "/envelopes", dto.CreateEnvelopeRequest{
			Name:   "Broken",
			Amount: "lots",
		}, s.userID)

		s.NoError(s.handler.CreateEnvelope(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("VALIDATION_005", s.errorCode(rec))
	})
}

func (s *EnvelopeHandlerSuite) TestGetEnvelope() {
	s.Run("owner sees own envelope", func() {
		created := s.createEnvelope("Rent")

		rec, c := s.newContext(http.MethodGet, "/envelopes/"+created.ID.String(), nil, s.userID)
		c.SetParamNames("envelopeId")
		c.SetParamValues(created.ID.String())

		s.NoError(s.handler.GetEnvelope(c))
		s.Equal(http.StatusOK, rec.Code)

		var response struct {
			models.Envelope
			Shared bool `json:"shared"`
		}
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		s.Equal("Rent", response.Name)
		s.False(response.Shared)
	})

	s.Run("stranger is denied", func() {
		created := s.createEnvelope("Private")
		stranger := s.createUser("stranger@example.com")

		rec, c := s.newContext(http.MethodGet, "/envelopes/"+created.ID.String(), nil, stranger)
		c.SetParamNames("envelopeId")
		c.SetParamValues(created.ID.String())

		s.NoError(s.handler.GetEnvelope(c))
		s.Equal(http.StatusForbidden, rec.Code)
		s.Equal("ENVELOPE_003", s.errorCode(rec))
	})

	s.Run("unknown envelope", func() {
		rec, c := s.newContext(http.MethodGet, "/envelopes/"+uuid.New().String(), nil, s.userID)
		c.SetParamNames("envelopeId")
		c.SetParamValues(uuid.New().String())

		s.NoError(s.handler.GetEnvelope(c))
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal("ENVELOPE_001", s.errorCode(rec))
	})
}

func (s *EnvelopeHandlerSuite) TestAddAmount() {
	s.Run("schedules a new amount for a later month", func() {
		created := s.createEnvelope("Utilities")

		rec, c := s.newContext(http.MethodPost, "/envelopes/"+created.ID.String()+"/amounts", dto.AddAmountRequest{
			Amount:         "650.00",
			EffectiveMonth: "2026-04",
		}, s.userID)
		c.SetParamNames("envelopeId")
		c.SetParamValues(created.ID.String())

		s.NoError(s.handler.AddAmount(c))
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("conflict on same month", func() {
		created := s.createEnvelope("Utilities")

		rec, c := s.newContext(http.MethodPost, "/envelopes/"+created.ID.String()+"/amounts", dto.AddAmountRequest{
			Amount:         "650.00",
			EffectiveMonth: "2026-01",
		}, s.userID)
		c.SetParamNames("envelopeId")
		c.SetParamValues(created.ID.String())

		s.NoError(s.handler.AddAmount(c))
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("AMOUNT_003", s.errorCode(rec))
	})

	s.Run("only the owner may schedule amounts", func() {
		created := s.createEnvelope("Utilities")
		stranger := s.createUser("other@example.com")

		rec, c := s.newContext(http.MethodPost, "/envelopes/"+created.ID.String()+"/amounts", dto.AddAmountRequest{
			Amount:         "10.00",
			EffectiveMonth: "2026-06",
		}, stranger)
		c.SetParamNames("envelopeId")
		c.SetParamValues(created.ID.String())

		s.NoError(s.handler.AddAmount(c))
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *EnvelopeHandlerSuite) TestGetSummary() {
	s.Run("resolves the requested month", func() {
		created := s.createEnvelope("Travel")

		rec, c := s.newContext(http.MethodGet, "/envelopes/"+created.ID.String()+"/summary?month=2026-03", nil, s.userID)
		c.SetParamNames("envelopeId")
		c.SetParamValues(created.ID.String())

		s.NoError(s.handler.GetSummary(c))
		s.Equal(http.StatusOK, rec.Code)

		var response dto.EnvelopeSummaryResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		s.Equal("2026-03", response.Month)
		s.Equal("500", response.Summary.Amount.String())
		s.True(response.Summary.Visible)
		s.Empty(response.History)
	})

	s.Run("months query adds trailing history", func() {
		created := s.createEnvelope("Travel")

		rec, c := s.newContext(http.MethodGet, "/envelopes/"+created.ID.String()+"/summary?month=2026-03&months=3", nil, s.userID)
		c.SetParamNames("envelopeId")
		c.SetParamValues(created.ID.String())

		s.NoError(s.handler.GetSummary(c))
		s.Equal(http.StatusOK, rec.Code)

		var response dto.EnvelopeSummaryResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		s.Len(response.History, 3)
	})

	s.Run("rejects malformed month", func() {
		created := s.createEnvelope("Travel")

		rec, c := s.newContext(http.MethodGet, "/envelopes/"+created.ID.String()+"/summary?month=March", nil, s.userID)
		c.SetParamNames("envelopeId")
		c.SetParamValues(created.ID.String())

		s.NoError(s.handler.GetSummary(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("VALIDATION_004", s.errorCode(rec))
	})
}

func (s *EnvelopeHandlerSuite) TestDeleteEnvelope() {
	s.Run("owner can delete", func() {
		created := s.createEnvelope("Doomed")

		rec, c := s.newContext(http.MethodDelete, "/envelopes/"+created.ID.String(), nil, s.userID)
		c.SetParamNames("envelopeId")
		c.SetParamValues(created.ID.String())

		s.NoError(s.handler.DeleteEnvelope(c))
		s.Equal(http.StatusOK, rec.Code)

		rec, c = s.newContext(http.MethodGet, "/envelopes/"+created.ID.String(), nil, s.userID)
		c.SetParamNames("envelopeId")
		c.SetParamValues(created.ID.String())
		s.NoError(s.handler.GetEnvelope(c))
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *EnvelopeHandlerSuite) TestGetEnvelopesSummary() {
	s.Run("resolves visible envelopes for the month", func() {
		s.createEnvelope("Groceries")

		rec, c := s.newContext(http.MethodPost, "/envelopes", dto.CreateEnvelopeRequest{
			Name:           "Car Repair",
			Recurring:      false,
			Amount:         "900.00",
			EffectiveMonth: "2026-01",
		}, s.userID)
		s.Require().NoError(s.handler.CreateEnvelope(c))
		s.Require().Equal(http.StatusCreated, rec.Code)

		rec, c = s.newContext(http.MethodGet, "/envelopes/summary?month=2026-03", nil, s.userID)
		s.NoError(s.handler.GetEnvelopesSummary(c))
		s.Equal(http.StatusOK, rec.Code)

		var response dto.EnvelopeSummaryListResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		s.Equal("2026-03", response.Month)
		s.Require().Equal(1, response.Total)
		s.Equal("Groceries", response.Envelopes[0].Name)
		s.Equal("500", response.Envelopes[0].Amount.String())
	})

	s.Run("rejects malformed month", func() {
		rec, c := s.newContext(http.MethodGet, "/envelopes/summary?month=soon", nil, s.userID)
		s.NoError(s.handler.GetEnvelopesSummary(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("VALIDATION_004", s.errorCode(rec))
	})
}

func (s *EnvelopeHandlerSuite) TestRecomputeTotals() {
	created := s.createEnvelope("Groceries")

	entry := &models.Entry{
		EnvelopeID: created.ID,
		Value:      decimal.NewFromInt(40),
		Date:       time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		Category:   "supermarket",
	}
	s.Require().NoError(s.db.DB.Create(entry).Error)

	drifted := &models.UsedTotal{
		EnvelopeID: created.ID,
		Month:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Used:       decimal.NewFromInt(999),
	}
	s.Require().NoError(s.db.DB.Create(drifted).Error)

	rec, c := s.newContext(http.MethodPost, "/envelopes/"+created.ID.String()+"/recompute", nil, s.userID)
	c.SetParamNames("envelopeId")
	c.SetParamValues(created.ID.String())
	s.NoError(s.handler.RecomputeTotals(c))
	s.Equal(http.StatusOK, rec.Code)

	rec, c = s.newContext(http.MethodGet, "/envelopes/"+created.ID.String()+"/summary?month=2026-01", nil, s.userID)
	c.SetParamNames("envelopeId")
	c.SetParamValues(created.ID.String())
	s.NoError(s.handler.GetSummary(c))
	s.Equal(http.StatusOK, rec.Code)

	var response dto.EnvelopeSummaryResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal("40", response.Summary.Used.String())
}

func (s *EnvelopeHandlerSuite) TestRecomputeTotalsOwnerOnly() {
	created := s.createEnvelope("Groceries")
	strangerID := s.createUser("stranger@example.com")

	rec, c := s.newContext(http.MethodPost, "/envelopes/"+created.ID.String()+"/recompute", nil, strangerID)
	c.SetParamNames("envelopeId")
	c.SetParamValues(created.ID.String())
	s.NoError(s.handler.RecomputeTotals(c))
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("ENVELOPE_003", s.errorCode(rec))
}
