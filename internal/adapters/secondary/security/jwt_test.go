package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/orbite/internal/core/domain"
)

func testUser(t *testing.T) *domain.User {
	t.Helper()

	u, err := domain.NewUser("Ann", "a@x.com", "hash", "ann", "", "")
	require.NoError(t, err)
	return u
}

func TestGenerateAndValidate(t *testing.T) {
	provider := NewJWTProvider("test-secret", time.Hour)
	user := testUser(t)

	token, err := provider.Generate(user)
	require.NoError(t, err)

	subject, err := provider.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
	assert.Equal(t, time.Hour, provider.TTL())
}

func TestValidateExpiredToken(t *testing.T) {
	provider := NewJWTProvider("test-secret", -time.Minute)
	user := testUser(t)

	token, err := provider.Generate(user)
	require.NoError(t, err)

	_, err = provider.Validate(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	user := testUser(t)

	token, err := NewJWTProvider("secret-a", time.Hour).Generate(user)
	require.NoError(t, err)

	_, err = NewJWTProvider("secret-b", time.Hour).Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsForeignIssuer(t *testing.T) {
	// même secret, mais émis par un autre logiciel
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		Issuer:    "someone-else",
		Subject:   "user-1",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewJWTProvider("test-secret", time.Hour).Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	provider := NewJWTProvider("test-secret", time.Hour)

	_, err := provider.Validate("not-a-jwt")
	assert.Error(t, err)
	_, err = provider.Validate("")
	assert.Error(t, err)
}
