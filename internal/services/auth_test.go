package services

import (
	"testing"

	"netvault/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Run("creates user with hashed password", func(t *testing.T) {
		svc, db := newAuthService(t)

		user, err := svc.Register("alice", "Alice@Example.COM", "Secret123", testMeta)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.True(t, user.IsActive)
		assert.False(t, user.IsAdmin)
		assert.NotEqual(t, "Secret123", user.PasswordHash)
		assert.True(t, svc.VerifyPassword(user.PasswordHash, "Secret123"))

		var entry models.AuditLog
		require.NoError(t, db.Where("action = ?", "register").First(&entry).Error)
		assert.Equal(t, user.ID, entry.UserID)
	})

	t.Run("collects all field errors in one batch", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Register("ab", "not-an-email", "weak", testMeta)
		require.Error(t, err)

		var fieldErrors ValidationErrors
		require.ErrorAs(t, err, &fieldErrors)
		assert.Contains(t, fieldErrors, "username")
		assert.Contains(t, fieldErrors, "email")
		assert.Contains(t, fieldErrors, "password")
	})

	t.Run("duplicate username", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Register("alice", "alice@example.com", "Secret123", testMeta)
		require.NoError(t, err)

		_, err = svc.Register("alice", "other@example.com", "Secret123", testMeta)
		assert.ErrorIs(t, err, ErrUsernameExists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Register("alice", "alice@example.com", "Secret123", testMeta)
		require.NoError(t, err)

		_, err = svc.Register("alice2", "alice@example.com", "Secret123", testMeta)
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("username conflict wins when both collide", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Register("alice", "alice@example.com", "Secret123", testMeta)
		require.NoError(t, err)

		_, err = svc.Register("alice", "alice@example.com", "Secret123", testMeta)
		assert.ErrorIs(t, err, ErrUsernameExists)
	})
}

func TestLogin(t *testing.T) {
	register := func(t *testing.T, svc *AuthService) *models.User {
		user, err := svc.Register("alice", "alice@example.com", "Secret123", testMeta)
		require.NoError(t, err)
		return user
	}

	t.Run("by username", func(t *testing.T) {
		svc, _ := newAuthService(t)
		register(t, svc)

		user, access, refresh, err := svc.Login("alice", "Secret123", testMeta)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.NotEqual(t, access, refresh)
	})

	t.Run("by email is case-insensitive", func(t *testing.T) {
		svc, _ := newAuthService(t)
		register(t, svc)

		_, _, _, err := svc.Login("Alice@Example.com", "Secret123", testMeta)
		require.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, _, _, err := svc.Login("nobody", "Secret123", testMeta)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password leaves login_failed audit entry", func(t *testing.T) {
		svc, db := newAuthService(t)
		user := register(t, svc)

		_, _, _, err := svc.Login("alice", "WrongPass1", testMeta)
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		var entry models.AuditLog
		require.NoError(t, db.Where("action = ?", "login_failed").First(&entry).Error)
		assert.Equal(t, user.ID, entry.UserID)
		assert.Equal(t, "invalid_password", entry.Details["reason"])
	})

	t.Run("inactive account", func(t *testing.T) {
		svc, db := newAuthService(t)
		user := register(t, svc)
		require.NoError(t, db.Model(user).Update("is_active", false).Error)

		_, _, _, err := svc.Login("alice", "Secret123", testMeta)
		assert.ErrorIs(t, err, ErrAccountInactive)
	})
}

func TestTokens(t *testing.T) {
	t.Run("access token round trip", func(t *testing.T) {
		svc, _ := newAuthService(t)

		token, err := svc.GenerateToken(42, TokenTypeAccess)
		require.NoError(t, err)

		userID, err := svc.VerifyToken(token, TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, uint(42), userID)
	})

	t.Run("token class is enforced", func(t *testing.T) {
		svc, _ := newAuthService(t)

		refresh, err := svc.GenerateToken(42, TokenTypeRefresh)
		require.NoError(t, err)

		_, err = svc.VerifyToken(refresh, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.VerifyToken("not.a.token", TokenTypeAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRefresh(t *testing.T) {
	t.Run("issues a new access token", func(t *testing.T) {
		svc, _ := newAuthService(t)
		user, err := svc.Register("alice", "alice@example.com", "Secret123", testMeta)
		require.NoError(t, err)

		refresh, err := svc.GenerateToken(user.ID, TokenTypeRefresh)
		require.NoError(t, err)

		access, err := svc.Refresh(refresh)
		require.NoError(t, err)

		userID, err := svc.VerifyToken(access, TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("rejects access token", func(t *testing.T) {
		svc, _ := newAuthService(t)
		user, err := svc.Register("alice", "alice@example.com", "Secret123", testMeta)
		require.NoError(t, err)

		access, err := svc.GenerateToken(user.ID, TokenTypeAccess)
		require.NoError(t, err)

		_, err = svc.Refresh(access)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects deleted or inactive users", func(t *testing.T) {
		svc, db := newAuthService(t)
		user, err := svc.Register("alice", "alice@example.com", "Secret123", testMeta)
		require.NoError(t, err)

		refresh, err := svc.GenerateToken(user.ID, TokenTypeRefresh)
		require.NoError(t, err)

		require.NoError(t, db.Model(user).Update("is_active", false).Error)
		_, err = svc.Refresh(refresh)
		assert.ErrorIs(t, err, ErrInvalidToken)

		require.NoError(t, db.Unscoped().Delete(user).Error)
		_, err = svc.Refresh(refresh)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestIsAdmin(t *testing.T) {
	svc, db := newAuthService(t)

	user := createTestUser(t, db, "alice")
	isAdmin, err := svc.IsAdmin(user.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	require.NoError(t, db.Model(user).Update("is_admin", true).Error)
	isAdmin, err = svc.IsAdmin(user.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	_, err = svc.IsAdmin(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
