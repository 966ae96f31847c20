package services

import (
	"path/filepath"
	"testing"

	"netvault/internal/config"
	"netvault/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Configuration{},
		&models.ConfigurationVersion{},
		&models.AuditLog{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret-key-for-testing-only",
			AccessExpiresIn:  "1h",
			RefreshExpiresIn: "24h",
			Issuer:           "netvault-test",
		},
		Security: config.SecurityConfig{
			// low cost keeps the suite fast
			BcryptCost: 4,
		},
	}
}

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewAuthService(db, testConfig(), NewAuditService(db)), db
}

func newConfigService(t *testing.T) (*ConfigurationService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewConfigurationService(db, NewAuditService(db)), db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		// bcrypt hash is irrelevant for service-level tests that bypass login
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

var testMeta = RequestMeta{IPAddress: "127.0.0.1", UserAgent: "go-test"}
