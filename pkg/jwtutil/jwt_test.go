package jwtutil

import (
	"testing"
	"time"

	"shopapi/internal/model"
	"shopapi/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.JWTConfig {
	return &config.JWTConfig{
		SigningKey: "test-signing-key",
		Issuer:     "shopapi-test",
		Audience:   "shopapi-clients",
		Expiration: time.Hour,
	}
}

func testUser() *model.User {
	return &model.User{
		ID:        42,
		Username:  "alice",
		Email:     "alice@example.com",
		Role:      "Admin",
		FirstName: "Alice",
		LastName:  "Smith",
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	util := NewJWTUtil(testConfig())

	token, expiresAt, err := util.GenerateToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Admin", claims.Role)
	assert.Equal(t, "Alice", claims.FirstName)
	assert.Equal(t, "shopapi-test", claims.Issuer)
}

func TestValidateTokenWrongKey(t *testing.T) {
	util := NewJWTUtil(testConfig())
	token, _, err := util.GenerateToken(testUser())
	require.NoError(t, err)

	other := testConfig()
	other.SigningKey = "a-different-key"

	_, err = NewJWTUtil(other).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	cfg := testConfig()
	cfg.Issuer = "someone-else"
	token, _, err := NewJWTUtil(cfg).GenerateToken(testUser())
	require.NoError(t, err)

	_, err = NewJWTUtil(testConfig()).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenWrongAudience(t *testing.T) {
	cfg := testConfig()
	cfg.Audience = "another-service"
	token, _, err := NewJWTUtil(cfg).GenerateToken(testUser())
	require.NoError(t, err)

	_, err = NewJWTUtil(testConfig()).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.Expiration = -time.Hour
	token, _, err := NewJWTUtil(cfg).GenerateToken(testUser())
	require.NoError(t, err)

	_, err = NewJWTUtil(testConfig()).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateGarbageToken(t *testing.T) {
	_, err := NewJWTUtil(testConfig()).ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestUserIDInvalidSubject(t *testing.T) {
	claims := &UserClaims{}
	claims.Subject = "not-a-number"

	_, err := claims.UserID()
	assert.Error(t, err)
}
