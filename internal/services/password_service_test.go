package services

import (
	"strings"
	"testing"

	"envel/internal/database"
	"envel/internal/repositories"

	"github.com/stretchr/testify/suite"
)

func TestPasswordService(t *testing.T) {
	suite.Run(t, new(PasswordServiceSuite))
}

type PasswordServiceSuite struct {
	suite.Suite
	db      *database.DB
	service PasswordServiceInterface
}

func (s *PasswordServiceSuite) SetupSuite() {
	s.db = database.SetupTestDB(s.T())
	s.service = NewPasswordService(repositories.NewUserRepository(s.db.DB))
}

func (s *PasswordServiceSuite) SetupTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *PasswordServiceSuite) TestValidatePassword() {
	cases := []struct {
		name     string
		password string
		want     error
	}{
		{"valid password", "SecurePass123", nil},
		{"empty", "", ErrPasswordEmpty},
		{"too short", "Short1pass", ErrPasswordTooShort},
		{"too long", "A1" + strings.Repeat("a", 80), ErrPasswordTooLong},
		{"no uppercase", "alllowercase123", ErrPasswordNoUppercase},
		{"no lowercase", "ALLUPPERCASE123", ErrPasswordNoLowercase},
		{"no number", "NoNumbersAtAllHere", ErrPasswordNoNumber},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			err := s.service.ValidatePassword(tc.password)
			if tc.want == nil {
				s.NoError(err)
			} else {
				s.ErrorIs(err, tc.want)
			}
		})
	}
}

func (s *PasswordServiceSuite) TestHashAndCompare() {
	hash, err := s.service.HashPassword("SecurePass123")
	s.Require().NoError(err)
	s.NotEqual("SecurePass123", hash)

	s.True(s.service.ComparePassword("SecurePass123", hash))
	s.False(s.service.ComparePassword("WrongPass123", hash))
}

func (s *PasswordServiceSuite) TestHashesAreSalted() {
	first, err := s.service.HashPassword("SecurePass123")
	s.Require().NoError(err)
	second, err := s.service.HashPassword("SecurePass123")
	s.Require().NoError(err)

	s.NotEqual(first, second)
}

func (s *PasswordServiceSuite) TestUpdatePassword() {
	hash, err := s.service.HashPassword("OriginalPass123")
	s.Require().NoError(err)

	user := database.CreateTestUser(s.T(), s.db, "pw@example.com")
	user.PasswordHash = hash
	s.Require().NoError(s.db.DB.Save(user).Error)

	s.Run("wrong current password", func() {
		err := s.service.UpdatePassword(user.ID, "NotTheRightOne1", "ReplacementPass123")
		s.ErrorIs(err, ErrCurrentPasswordWrong)
	})

	s.Run("same password rejected", func() {
		err := s.service.UpdatePassword(user.ID, "OriginalPass123", "OriginalPass123")
		s.ErrorIs(err, ErrSamePassword)
	})

	s.Run("successful change", func() {
		s.Require().NoError(s.service.UpdatePassword(user.ID, "OriginalPass123", "ReplacementPass123"))

		updated, err := repositories.NewUserRepository(s.db.DB).GetByID(user.ID)
		s.Require().NoError(err)
		s.True(s.service.ComparePassword("ReplacementPass123", updated.PasswordHash))
	})
}
