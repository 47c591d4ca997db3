package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealweek/backend/internal/types"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(setupDB(t), "test-secret")

	token, err := svc.Register("Test User", "test@example.com", "testuser", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Duplicate email or username is rejected.
	_, err = svc.Register("Other", "test@example.com", "other", "password123")
	assert.Error(t, err)
	_, err = svc.Register("Other", "other@example.com", "testuser", "password123")
	assert.Error(t, err)

	token, err = svc.Login("test@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Login("test@example.com", "wrong")
	assert.Error(t, err)
	_, err = svc.Login("nobody@example.com", "password123")
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewAuthService(setupDB(t), "test-secret")
	claims := &types.TokenClaims{UserID: uuid.New(), Username: "testuser"}

	token, err := svc.GenerateToken(claims)
	require.NoError(t, err)

	got, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, got.UserID)
	assert.Equal(t, claims.Username, got.Username)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	db := setupDB(t)
	issuer := NewAuthService(db, "secret-a")
	verifier := NewAuthService(db, "secret-b")

	token, err := issuer.GenerateToken(&types.TokenClaims{UserID: uuid.New(), Username: "u"})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)

	_, err = verifier.ValidateToken("not-a-token")
	assert.Error(t, err)
}
