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

	"envel/internal/config"
	"envel/internal/database"
	"envel/internal/dto"
	"envel/internal/repositories"
	"envel/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

func TestAuthHandler(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

type AuthHandlerSuite struct {
	suite.Suite
	db      *database.DB
	handler *AuthHandler
	e       *echo.Echo
}

func (s *AuthHandlerSuite) SetupSuite() {
	s.db = database.SetupTestDB(s.T())

	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	jwtConfig := &config.JWTConfig{
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 7 * 24 * time.Hour,
		PrivateKey:           privateKey,
		PublicKey:            publicKey,
		Issuer:               "envel-api",
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userRepo := repositories.NewUserRepository(s.db.DB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(s.db.DB)
	blacklistedTokenRepo := repositories.NewBlacklistedTokenRepository(s.db.DB)
	tokenService := services.NewTokenService(jwtConfig)
	passwordService := services.NewPasswordService(userRepo)
	authService := services.NewAuthService(userRepo, refreshTokenRepo, blacklistedTokenRepo, passwordService, tokenService, logger)

	s.handler = NewAuthHandler(authService, noopMetrics{})
	s.e = newTestEcho()
}

func (s *AuthHandlerSuite) SetupTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *AuthHandlerSuite) postJSON(path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, s.e.NewContext(req, rec)
}

func (s *AuthHandlerSuite) register(email string) {
	rec, c := s.postJSON("/register", map[string]string{
		"email":    email,
		"password": "CorrectHorse99Battery",
		"name":     "Avery",
	})
	s.Require().NoError(s.handler.Register(c))
	s.Require().Equal(http.StatusCreated, rec.Code)
}

func (s *AuthHandlerSuite) login(email string) dto.TokenResponse {
	rec, c := s.postJSON("/login", map[string]string{
		"email":    email,
		"password": "CorrectHorse99Battery",
	})
	s.Require().NoError(s.handler.Login(c))
	s.Require().Equal(http.StatusOK, rec.Code)

	var tokens dto.TokenResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &tokens))
	return tokens
}

func (s *AuthHandlerSuite) TestRegister() {
	s.Run("successful registration", func() {
		rec, c := s.postJSON("/register", map[string]string{
			"email":    "new@example.com",
			"password": "CorrectHorse99Battery",
			"name":     "Avery",
		})

		s.NoError(s.handler.Register(c))
		s.Equal(http.StatusCreated, rec.Code)

		var response SuccessResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		s.NotNil(response.Data)
	})

	s.Run("duplicate email", func() {
		s.register("dup@example.com")

		rec, c := s.postJSON("/register", map[string]string{
			"email":    "dup@example.com",
			"password": "CorrectHorse99Battery",
			"name":     "Avery",
		})

		s.NoError(s.handler.Register(c))
		s.Equal(http.StatusUnprocessableEntity, rec.Code)

		var errorResp ErrorResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
		s.Equal("AUTH_006", errorResp.Error.Code)
	})

	s.Run("weak password", func() {
		rec, c := s.postJSON("/register", map[string]string{
			"email":    "weak@example.com",
			"password": "alllowercase12",
			"name":     "Avery",
		})

		s.NoError(s.handler.Register(c))
		s.Equal(http.StatusBadRequest, rec.Code)

		var errorResp ErrorResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
		s.Equal("VALIDATION_001", errorResp.Error.Code)
	})

	s.Run("invalid request body", func() {
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString("not json"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := s.e.NewContext(req, rec)

		s.NoError(s.handler.Register(c))
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *AuthHandlerSuite) TestLogin() {
	s.Run("successful login returns token pair", func() {
		s.register("login@example.com")
		tokens := s.login("login@example.com")

		s.NotEmpty(tokens.AccessToken)
		s.NotEmpty(tokens.RefreshToken)
		s.Equal("Bearer", tokens.TokenType)
	})

	s.Run("wrong password", func() {
		s.register("badpass@example.com")

		rec, c := s.postJSON("/login", map[string]string{
			"email":    "badpass@example.com",
			"password": "WrongPassword99X",
		})

		s.NoError(s.handler.Login(c))
		s.Equal(http.StatusUnauthorized, rec.Code)

		var errorResp ErrorResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
		s.Equal("AUTH_001", errorResp.Error.Code)
	})

	s.Run("unknown email gets the same error", func() {
		rec, c := s.postJSON("/login", map[string]string{
			"email":    "nobody@example.com",
			"password": "CorrectHorse99Battery",
		})

		s.NoError(s.handler.Login(c))
		s.Equal(http.StatusUnauthorized, rec.Code)

		var errorResp ErrorResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &errorResp))
		s.Equal("AUTH_001", errorResp.Error.Code)
	})
}

func (s *AuthHandlerSuite) TestRefreshToken() {
	s.Run("rotation returns a fresh pair and kills the old refresh token", func() {
		s.register("refresh@example.com")
		tokens := s.login("refresh@example.com")

		rec, c := s.postJSON("/refresh", map[string]string{
			"refreshToken": tokens.RefreshToken,
		})
		s.NoError(s.handler.RefreshToken(c))
		s.Equal(http.StatusOK, rec.Code)

		var rotated dto.TokenResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &rotated))
		s.NotEmpty(rotated.AccessToken)
		s.NotEqual(tokens.RefreshToken, rotated.RefreshToken)

		rec, c = s.postJSON("/refresh", map[string]string{
			"refreshToken": tokens.RefreshToken,
		})
		s.NoError(s.handler.RefreshToken(c))
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("garbage token rejected", func() {
		rec, c := s.postJSON("/refresh", map[string]string{
			"refreshToken": "not-a-jwt",
		})
		s.NoError(s.handler.RefreshToken(c))
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *AuthHandlerSuite) TestLogout() {
	s.Run("logout succeeds with bearer token", func() {
		s.register("logout@example.com")
		tokens := s.login("logout@example.com")

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		rec := httptest.NewRecorder()
		c := s.e.NewContext(req, rec)

		s.NoError(s.handler.Logout(c))
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("missing header rejected", func() {
		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		rec := httptest.NewRecorder()
		c := s.e.NewContext(req, rec)

		s.NoError(s.handler.Logout(c))
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}
