package database

import (
	"fmt"
	"testing"
	"time"

	"envel/internal/config"
	"envel/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return testDB
}

func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	tables := []string{
		"envelope_shares",
		"share_requests",
		"used_totals",
		"entries",
		"amounts",
		"envelopes",
		"categories",
		"blacklisted_tokens",
		"refresh_tokens",
		"users",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

func CreateTestUser(t *testing.T, db *DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "hashed_password",
		Name:         "Test User",
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

func CreateTestEnvelope(t *testing.T, db *DB, user *models.User, name string, recurring bool, initialValue decimal.Decimal, effective time.Time) *models.Envelope {
	t.Helper()

	envelope := &models.Envelope{
		UserID:    user.ID,
		Name:      name,
		Recurring: recurring,
		Amounts: []models.Amount{
			{Value: initialValue, EffectiveDate: effective},
		},
	}

	if err := db.Create(envelope).Error; err != nil {
		t.Fatalf("failed to create test envelope: %v", err)
	}

	return envelope
}

func CreateTestEntry(t *testing.T, db *DB, envelope *models.Envelope, value decimal.Decimal, date time.Time, category string) *models.Entry {
	t.Helper()

	entry := &models.Entry{
		EnvelopeID: envelope.ID,
		Value:      value,
		Date:       date,
		Category:   category,
		Note:       "test entry",
	}

	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test entry: %v", err)
	}

	return entry
}
