package services

import (
	"testing"
	"time"

	"envel/internal/config"
	"envel/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestTokenService(t *testing.T) {
	suite.Run(t, new(TokenServiceSuite))
}

type TokenServiceSuite struct {
	suite.Suite
	service TokenServiceInterface
	user    *models.User
}

func (s *TokenServiceSuite) SetupTest() {
	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	s.service = NewTokenService(&config.JWTConfig{
		PrivateKey:           privateKey,
		PublicKey:            publicKey,
		Issuer:               "envel-api",
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 7 * 24 * time.Hour,
	})

	s.user = &models.User{
		ID:    uuid.New(),
		Email: "token@example.com",
		Name:  "Token User",
	}
}

func (s *TokenServiceSuite) TestAccessTokenRoundTrip() {
	token, expiresAt, err := s.service.GenerateAccessToken(s.user)
	s.Require().NoError(err)
	s.NotEmpty(token)
	s.True(expiresAt.After(time.Now()))

	claims, err := s.service.ValidateAccessToken(token)
	s.Require().NoError(err)
	s.Equal(s.user.ID.String(), claims.UserID)
	s.Equal(s.user.Email, claims.Email)
	s.Equal(TokenTypeAccess, claims.TokenType)
	s.NotEmpty(claims.ID)
}

func (s *TokenServiceSuite) TestRefreshTokenRoundTrip() {
	token, _, err := s.service.GenerateRefreshToken(s.user.ID)
	s.Require().NoError(err)

	claims, err := s.service.ValidateRefreshToken(token)
	s.Require().NoError(err)
	s.Equal(s.user.ID.String(), claims.UserID)
	s.Equal(TokenTypeRefresh, claims.TokenType)
}

func (s *TokenServiceSuite) TestTokenTypeMismatch() {
	accessToken, _, err := s.service.GenerateAccessToken(s.user)
	s.Require().NoError(err)

	_, err = s.service.ValidateRefreshToken(accessToken)
	s.ErrorIs(err, ErrInvalidTokenType)

	refreshToken, _, err := s.service.GenerateRefreshToken(s.user.ID)
	s.Require().NoError(err)

	_, err = s.service.ValidateAccessToken(refreshToken)
	s.ErrorIs(err, ErrInvalidTokenType)
}

func (s *TokenServiceSuite) TestWrongKeyRejected() {
	otherPrivate, otherPublic, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	other := NewTokenService(&config.JWTConfig{
		PrivateKey:           otherPrivate,
		PublicKey:            otherPublic,
		Issuer:               "envel-api",
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 7 * 24 * time.Hour,
	})

	token, _, err := other.GenerateAccessToken(s.user)
	s.Require().NoError(err)

	_, err = s.service.ValidateAccessToken(token)
	s.Error(err)
}

func (s *TokenServiceSuite) TestExpiredToken() {
	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	shortLived := NewTokenService(&config.JWTConfig{
		PrivateKey:           privateKey,
		PublicKey:            publicKey,
		Issuer:               "envel-api",
		AccessTokenDuration:  -time.Minute,
		RefreshTokenDuration: time.Hour,
	})

	token, _, err := shortLived.GenerateAccessToken(s.user)
	s.Require().NoError(err)

	_, err = shortLived.ValidateAccessToken(token)
	s.ErrorIs(err, ErrExpiredToken)
}

func (s *TokenServiceSuite) TestExtractTokenFromHeader() {
	token, err := s.service.ExtractTokenFromHeader("Bearer abc123")
	s.NoError(err)
	s.Equal("abc123", token)

	_, err = s.service.ExtractTokenFromHeader("")
	s.ErrorIs(err, ErrInvalidAuthHeader)

	_, err = s.service.ExtractTokenFromHeader("Basic abc123")
	s.ErrorIs(err, ErrInvalidAuthHeader)
}

func (s *TokenServiceSuite) TestGetJTI() {
	token, _, err := s.service.GenerateAccessToken(s.user)
	s.Require().NoError(err)

	jti, err := s.service.GetJTI(token)
	s.Require().NoError(err)

	claims, err := s.service.ValidateAccessToken(token)
	s.Require().NoError(err)
	s.Equal(claims.ID, jti)
}
