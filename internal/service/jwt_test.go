package service

import (
	"errors"
	"testing"
	"time"

	"loyalty_backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *domain.User {
	return &domain.User{ID: 42, Name: "Asha", Email: "asha@example.com", Mobile: "9990001111", Role: domain.RoleCustomer}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Generate(testUser())
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "9990001111", claims.Mobile)
	assert.Equal(t, domain.RoleCustomer, claims.Role)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Minute)
	require.NoError(t, err)

	issued := time.Now().Add(-2 * time.Hour)
	issuer.now = func() time.Time { return issued }
	token, err := issuer.Generate(testUser())
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(token)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	a, _ := NewTokenIssuer("secret-a", time.Hour)
	b, _ := NewTokenIssuer("secret-b", time.Hour)

	token, err := a.Generate(testUser())
	require.NoError(t, err)

	_, err = b.Parse(token)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestTokenIssuer_Garbage(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret", time.Hour)
	_, err := issuer.Parse("not.a.token")
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestNewTokenIssuer_EmptySecret(t *testing.T) {
	_, err := NewTokenIssuer("", time.Hour)
	assert.Error(t, err)
}
