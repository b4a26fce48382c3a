package handlers

import (
	"bytes"
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

func TestSharingHandler(t *testing.T) {
	suite.Run(t, new(SharingHandlerSuite))
}

type SharingHandlerSuite struct {
	suite.Suite
	db              *database.DB
	handler         *SharingHandler
	envelopeService services.EnvelopeServiceInterface
	e               *echo.Echo
	ownerID         uuid.UUID
	recipientID     uuid.UUID
	envelopeID      uuid.UUID
}

func (s *SharingHandlerSuite) SetupSuite() {
	s.db = database.SetupTestDB(s.T())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	shareRepo := repositories.NewShareRepository(s.db.DB)
	envelopeRepo := repositories.NewEnvelopeRepository(s.db.DB)
	usedTotalRepo := repositories.NewUsedTotalRepository(s.db.DB)
	userRepo := repositories.NewUserRepository(s.db.DB)

	sharingService := services.NewSharingService(shareRepo, envelopeRepo, userRepo, usedTotalRepo, services.NewPeriodResolver(), logger)
	s.envelopeService = services.NewEnvelopeService(envelopeRepo, usedTotalRepo, shareRepo, services.NewPeriodResolver(), logger)

	s.handler = NewSharingHandler(sharingService, noopMetrics{})
	s.e = newTestEcho()
}

func (s *SharingHandlerSuite) SetupTest() {
	database.CleanupTestDB(s.T(), s.db)

	owner := &models.User{Email: "owner@example.com", PasswordHash: "x", Name: "Owner"}
	s.Require().NoError(s.db.DB.Create(owner).Error)
	s.ownerID = owner.ID

	recipient := &models.User{Email: "partner@example.com", PasswordHash: "x", Name: "Partner"}
	s.Require().NoError(s.db.DB.Create(recipient).Error)
	s.recipientID = recipient.ID

	envelope, err := s.envelopeService.CreateEnvelope(s.ownerID, &dto.CreateEnvelopeRequest{
		Name:           "Household",
		Recurring:      true,
		Amount:         "800.00",
		EffectiveMonth: "2026-01",
	})
	s.Require().NoError(err)
	s.envelopeID = envelope.ID
}

func (s *SharingHandlerSuite) newContext(method, path string, body interface{}, userID uuid.UUID) (*httptest.ResponseRecorder, echo.Context) {
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

func (s *SharingHandlerSuite) invite(email string) dto.ShareRequestResponse {
	rec, c := s.newContext(http.MethodPost, "/shares", dto.CreateShareRequest{
		EnvelopeID:     s.envelopeID.String(),
		RecipientEmail: email,
	}, s.ownerID)
	s.Require().NoError(s.handler.InviteUser(c))
	s.Require().Equal(http.StatusCreated, rec.Code)

	var response dto.ShareRequestResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	return response
}

func (s *SharingHandlerSuite) accept(requestID string, userID uuid.UUID) *httptest.ResponseRecorder {
	rec, c := s.newContext(http.MethodPost, "/shares/"+requestID+"/accept", nil, userID)
	c.SetParamNames("requestId")
	c.SetParamValues(requestID)
	s.Require().NoError(s.handler.AcceptRequest(c))
	return rec
}

func (s *SharingHandlerSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var errorResp ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
	return errorResp.Error.Code
}

func (s *SharingHandlerSuite) TestInviteUser() {
	response := s.invite("partner@example.com")
	s.Equal("Household", response.EnvelopeName)
	s.Equal("pending", response.Status)
	s.Equal("partner@example.com", response.RecipientEmail)
}

func (s *SharingHandlerSuite) TestInviteUserRejections() {
	s.Run("self invite rejected", func() {
		rec, c := s.newContext(http.MethodPost, "/shares", dto.CreateShareRequest{
			EnvelopeID:     s.envelopeID.String(),
			RecipientEmail: "owner@example.com",
		}, s.ownerID)

		s.NoError(s.handler.InviteUser(c))
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		s.Equal("SHARE_004", s.errorCode(rec))
	})

	s.Run("unregistered recipient rejected", func() {
		rec, c := s.newContext(http.MethodPost, "/shares", dto.CreateShareRequest{
			EnvelopeID:     s.envelopeID.String(),
			RecipientEmail: "ghost@example.com",
		}, s.ownerID)

		s.NoError(s.handler.InviteUser(c))
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		s.Equal("SHARE_005", s.errorCode(rec))
	})

	s.Run("only the owner may invite", func() {
		rec, c := s.newContext(http.MethodPost, "/shares", dto.CreateShareRequest{
			EnvelopeID:     s.envelopeID.String(),
			RecipientEmail: "partner@example.com",
		}, s.recipientID)

		s.NoError(s.handler.InviteUser(c))
		s.Equal(http.StatusForbidden, rec.Code)
		s.Equal("ENVELOPE_003", s.errorCode(rec))
	})

	s.Run("duplicate pending invitation rejected", func() {
		s.invite("partner@example.com")

		rec, c := s.newContext(http.MethodPost, "/shares", dto.CreateShareRequest{
			EnvelopeID:     s.envelopeID.String(),
			RecipientEmail: "partner@example.com",
		}, s.ownerID)

		s.NoError(s.handler.InviteUser(c))
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("SHARE_002", s.errorCode(rec))
	})
}

func (s *SharingHandlerSuite) TestAcceptRequest() {
	invitation := s.invite("partner@example.com")

	rec := s.accept(invitation.ID, s.recipientID)
	s.Equal(http.StatusOK, rec.Code)

	envelope, shared, err := s.envelopeService.GetEnvelope(s.envelopeID, s.recipientID)
	s.Require().NoError(err)
	s.True(shared)
	s.Equal("Household", envelope.Name)
}

func (s *SharingHandlerSuite) TestAcceptRequestWrongRecipient() {
	invitation := s.invite("partner@example.com")

	intruder := &models.User{Email: "intruder@example.com", PasswordHash: "x", Name: "Intruder"}
	s.Require().NoError(s.db.DB.Create(intruder).Error)

	rec := s.accept(invitation.ID, intruder.ID)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("SHARE_001", s.errorCode(rec))
}

func (s *SharingHandlerSuite) TestAcceptRequestAlreadyResolved() {
	invitation := s.invite("partner@example.com")
	s.accept(invitation.ID, s.recipientID)

	rec := s.accept(invitation.ID, s.recipientID)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("SHARE_003", s.errorCode(rec))
}

func (s *SharingHandlerSuite) TestRejectRequest() {
	invitation := s.invite("partner@example.com")

	rec, c := s.newContext(http.MethodPost, "/shares/"+invitation.ID+"/reject", nil, s.recipientID)
	c.SetParamNames("requestId")
	c.SetParamValues(invitation.ID)

	s.NoError(s.handler.RejectRequest(c))
	s.Equal(http.StatusOK, rec.Code)

	_, _, err := s.envelopeService.GetEnvelope(s.envelopeID, s.recipientID)
	s.ErrorIs(err, services.ErrEnvelopeAccessDenied)
}

func (s *SharingHandlerSuite) TestRequestLists() {
	s.invite("partner@example.com")

	rec, c := s.newContext(http.MethodGet, "/shares/incoming", nil, s.recipientID)
	s.NoError(s.handler.GetIncomingRequests(c))
	s.Equal(http.StatusOK, rec.Code)

	var incoming dto.ShareRequestListResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &incoming))
	s.Len(incoming.Requests, 1)
	s.Equal("Household", incoming.Requests[0].EnvelopeName)

	rec, c = s.newContext(http.MethodGet, "/shares/outgoing", nil, s.ownerID)
	s.NoError(s.handler.GetOutgoingRequests(c))
	s.Equal(http.StatusOK, rec.Code)

	var outgoing dto.ShareRequestListResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &outgoing))
	s.Len(outgoing.Requests, 1)
}

func (s *SharingHandlerSuite) TestSharedEnvelopes() {
	invitation := s.invite("partner@example.com")
	s.accept(invitation.ID, s.recipientID)

	rec, c := s.newContext(http.MethodGet, "/shares/envelopes", nil, s.recipientID)
	s.NoError(s.handler.GetSharedEnvelopes(c))
	s.Equal(http.StatusOK, rec.Code)

	var response dto.SharedEnvelopeListResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal(1, response.Total)
	s.Equal("Household", response.Envelopes[0].Name)
}

func (s *SharingHandlerSuite) TestSharedEnvelopesSummary() {
	invitation := s.invite("partner@example.com")
	s.accept(invitation.ID, s.recipientID)

	rec, c := s.newContext(http.MethodGet, "/shares/envelopes/summary?month=2026-02", nil, s.recipientID)
	s.NoError(s.handler.GetSharedEnvelopesSummary(c))
	s.Equal(http.StatusOK, rec.Code)

	var response dto.EnvelopeSummaryListResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal("2026-02", response.Month)
	s.Require().Equal(1, response.Total)
	s.Equal("Household", response.Envelopes[0].Name)
	s.Equal("800", response.Envelopes[0].Amount.String())
	s.True(response.Envelopes[0].Visible)
}

func (s *SharingHandlerSuite) TestSharedEnvelopesSummaryBadMonth() {
	rec, c := s.newContext(http.MethodGet, "/shares/envelopes/summary?month=never", nil, s.recipientID)
	s.NoError(s.handler.GetSharedEnvelopesSummary(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_004", s.errorCode(rec))
}

func (s *SharingHandlerSuite) TestEnvelopeShares() {
	invitation := s.invite("partner@example.com")
	s.accept(invitation.ID, s.recipientID)

	rec, c := s.newContext(http.MethodGet, "/envelopes/"+s.envelopeID.String()+"/shares", nil, s.ownerID)
	c.SetParamNames("envelopeId")
	c.SetParamValues(s.envelopeID.String())
	s.NoError(s.handler.GetEnvelopeShares(c))
	s.Equal(http.StatusOK, rec.Code)

	var response dto.EnvelopeShareListResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Require().Equal(1, response.Total)
	s.Equal("partner@example.com", response.Shares[0].Email)
	s.Equal(s.recipientID.String(), response.Shares[0].UserID)
}

func (s *SharingHandlerSuite) TestEnvelopeSharesOwnerOnly() {
	invitation := s.invite("partner@example.com")
	s.accept(invitation.ID, s.recipientID)

	rec, c := s.newContext(http.MethodGet, "/envelopes/"+s.envelopeID.String()+"/shares", nil, s.recipientID)
	c.SetParamNames("envelopeId")
	c.SetParamValues(s.envelopeID.String())
	s.NoError(s.handler.GetEnvelopeShares(c))
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("ENVELOPE_003", s.errorCode(rec))
}
