package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"envel/internal/config"
	"envel/internal/database"
	"envel/internal/dto"
	"envel/internal/repositories"

	"github.com/stretchr/testify/suite"
)

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

type AuthServiceSuite struct {
	suite.Suite
	db           *database.DB
	service      AuthServiceInterface
	tokenService TokenServiceInterface
}

func (s *AuthServiceSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())

	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	s.tokenService = NewTokenService(&config.JWTConfig{
		PrivateKey:           privateKey,
		PublicKey:            publicKey,
		Issuer:               "test-issuer",
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 24 * time.Hour,
	})

	userRepo := repositories.NewUserRepository(s.db.DB)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.service = NewAuthService(
		userRepo,
		repositories.NewRefreshTokenRepository(s.db.DB),
		repositories.NewBlacklistedTokenRepository(s.db.DB),
		NewPasswordService(userRepo),
		s.tokenService,
		logger,
	)
}

func (s *AuthServiceSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *AuthServiceSuite) register() {
	_, err := s.service.Register(&dto.RegisterRequest{
		Email:    "user@example.com",
		Password: "Str0ngPassword!",
		Name:     "Test User",
	})
	s.Require().NoError(err)
}

func (s *AuthServiceSuite) TestRegister() {
	user, err := s.service.Register(&dto.RegisterRequest{
		Email:    "user@example.com",
		Password: "Str0ngPassword!",
		Name:     "Test User",
	})

	s.NoError(err)
	s.Equal("user@example.com", user.Email)
	s.NotEqual("Str0ngPassword!", user.PasswordHash)
}

func (s *AuthServiceSuite) TestRegister_DuplicateEmail() {
	s.register()

	_, err := s.service.Register(&dto.RegisterRequest{
		Email:    "user@example.com",
		Password: "An0therPassword!",
		Name:     "Imposter",
	})
	s.Equal(ErrUserAlreadyExists, err)
}

func (s *AuthServiceSuite) TestRegister_WeakPassword() {
	_, err := s.service.Register(&dto.RegisterRequest{
		Email:    "user@example.com",
		Password: "short",
		Name:     "Test User",
	})
	s.Error(err)
}

func (s *AuthServiceSuite) TestLogin() {
	s.register()

	tokens, err := s.service.Login(&dto.LoginRequest{
		Email:    "user@example.com",
		Password: "Str0ngPassword!",
	})

	s.NoError(err)
	s.NotEmpty(tokens.AccessToken)
	s.NotEmpty(tokens.RefreshToken)
	s.Equal("Bearer", tokens.TokenType)

	claims, err := s.tokenService.ValidateAccessToken(tokens.AccessToken)
	s.NoError(err)
	s.Equal("user@example.com", claims.Email)
}

func (s *AuthServiceSuite) TestLogin_BadCredentials() {
	s.register()

	_, err := s.service.Login(&dto.LoginRequest{
		Email:    "user@example.com",
		Password: "WrongPassword1!",
	})
	s.Equal(ErrInvalidCredentials, err)

	// Unknown email returns the same error as a wrong password
	_, err = s.service.Login(&dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "Str0ngPassword!",
	})
	s.Equal(ErrInvalidCredentials, err)
}

func (s *AuthServiceSuite) TestRefreshTokens_RotatesToken() {
	s.register()

	tokens, err := s.service.Login(&dto.LoginRequest{
		Email:    "user@example.com",
		Password: "Str0ngPassword!",
	})
	s.Require().NoError(err)

	renewed, err := s.service.RefreshTokens(tokens.RefreshToken)
	s.NoError(err)
	s.NotEmpty(renewed.AccessToken)

	// The old refresh token was revoked by the rotation
	_, err = s.service.RefreshTokens(tokens.RefreshToken)
	s.Equal(ErrInvalidRefreshToken, err)
}

func (s *AuthServiceSuite) TestRefreshTokens_GarbageToken() {
	_, err := s.service.RefreshTokens("not-a-jwt")
	s.Equal(ErrInvalidRefreshToken, err)
}

func (s *AuthServiceSuite) TestLogout_BlacklistsAccessToken() {
	s.register()

	tokens, err := s.service.Login(&dto.LoginRequest{
		Email:    "user@example.com",
		Password: "Str0ngPassword!",
	})
	s.Require().NoError(err)

	s.NoError(s.service.Logout(tokens.AccessToken))

	jti, err := s.tokenService.GetJTI(tokens.AccessToken)
	s.NoError(err)

	blacklisted, err := repositories.NewBlacklistedTokenRepository(s.db.DB).GetByJTI(jti)
	s.NoError(err)
	s.Equal(jti, blacklisted.JTI)

	// All refresh tokens were revoked as well
	_, err = s.service.RefreshTokens(tokens.RefreshToken)
	s.Equal(ErrInvalidRefreshToken, err)
}
