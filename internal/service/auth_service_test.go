package service

import (
	"testing"
	"time"

	"shopapi/internal/model"
	"shopapi/pkg/config"
	"shopapi/pkg/jwtutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAuthFixture(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)

	jwtUtil := jwtutil.NewJWTUtil(&config.JWTConfig{
		SigningKey: "test-signing-key",
		Issuer:     "shopapi-test",
		Audience:   "shopapi-clients",
		Expiration: time.Hour,
	})
	return NewAuthService(db, jwtUtil, 7*24*time.Hour, zap.NewNop()), db
}

func registerTestUser(t *testing.T, svc *AuthService) (*model.User, *TokenPair) {
	t.Helper()
	user, pair, err := svc.Register(RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "s3cret-pass",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	require.NoError(t, err)
	return user, pair
}

func TestRegister(t *testing.T) {
	svc, db := newAuthFixture(t)

	user, pair, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "User", user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.ExpiresAt.After(time.Now()))

	var stored model.RefreshToken
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&stored).Error)
	assert.True(t, stored.IsActive)
	assert.Equal(t, pair.RefreshToken, stored.Token)
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.Register(RegisterInput{Username: "alice"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newAuthFixture(t)
	registerTestUser(t, svc)

	// Same username
	_, _, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrDuplicateUser)

	// Same email
	_, _, err = svc.Register(RegisterInput{
		Username: "bob",
		Email:    "alice@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestRegisterDuplicateBackstoppedByUniqueIndex(t *testing.T) {
	svc, db := newAuthFixture(t)
	user, _ := registerTestUser(t, svc)

	// Soft-delete the user so the uniqueness pre-check cannot see it; the
	// unique index on username still rejects the insert, the same failure a
	// concurrent registration would hit.
	require.NoError(t, db.Delete(user).Error)

	_, _, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)
	registerTestUser(t, svc)

	// By username
	user, pair, err := svc.Login("alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, pair.AccessToken)

	// By email
	_, _, err = svc.Login("alice@example.com", "s3cret-pass")
	assert.NoError(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)
	registerTestUser(t, svc)

	_, _, err := svc.Login("alice", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.Login("nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	svc, db := newAuthFixture(t)
	user, _ := registerTestUser(t, svc)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, _, err := svc.Login("alice", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, db := newAuthFixture(t)
	user, pair := registerTestUser(t, svc)

	refreshed, next, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.ID)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The presented token is revoked
	var old model.RefreshToken
	require.NoError(t, db.Where("token = ?", pair.RefreshToken).First(&old).Error)
	assert.False(t, old.IsActive)
	assert.NotNil(t, old.RevokedAt)

	// Replaying the rotated token fails
	_, _, err = svc.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	// The newly issued token still works
	_, _, err = svc.Refresh(next.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshExpiredToken(t *testing.T) {
	svc, db := newAuthFixture(t)
	_, pair := registerTestUser(t, svc)

	require.NoError(t, db.Model(&model.RefreshToken{}).
		Where("token = ?", pair.RefreshToken).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, _, err := svc.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestRefreshInactiveUser(t *testing.T) {
	svc, db := newAuthFixture(t)
	user, pair := registerTestUser(t, svc)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, _, err := svc.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestRefreshUnknownToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.Refresh("no-such-token")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestLogout(t *testing.T) {
	svc, db := newAuthFixture(t)
	_, pair := registerTestUser(t, svc)

	revoked, err := svc.Logout(pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, revoked)

	var stored model.RefreshToken
	require.NoError(t, db.Where("token = ?", pair.RefreshToken).First(&stored).Error)
	assert.False(t, stored.IsActive)

	// Logging out again, or with an unknown token, still succeeds but
	// reports that nothing was revoked
	revoked, err = svc.Logout(pair.RefreshToken)
	assert.NoError(t, err)
	assert.False(t, revoked)
	revoked, err = svc.Logout("no-such-token")
	assert.NoError(t, err)
	assert.False(t, revoked)

	// A logged-out token can no longer be refreshed
	_, _, err = svc.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestGetUserByID(t *testing.T) {
	svc, db := newAuthFixture(t)
	user, _ := registerTestUser(t, svc)

	got, err := svc.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, got.Username)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	_, err = svc.GetUserByID(user.ID)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccessTokenCarriesUserIdentity(t *testing.T) {
	svc, _ := newAuthFixture(t)
	user, pair := registerTestUser(t, svc)

	claims, err := svc.jwt.ValidateToken(pair.AccessToken)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, "User", claims.Role)
}
