package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/harperreed/solocrm/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	a, err := New("secret", time.Hour)
	require.NoError(t, err)

	token, err := a.Issue(models.User{ID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)

	user, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: "u1", Email: "u1@example.com"}, user)
}

func TestVerifyRejects(t *testing.T) {
	a, err := New("secret", time.Hour)
	require.NoError(t, err)
	other, err := New("other-secret", time.Hour)
	require.NoError(t, err)

	foreign, err := other.Issue(models.User{ID: "u1"})
	require.NoError(t, err)
	_, err = a.Verify(foreign)
	assert.True(t, errors.Is(err, models.ErrUnauthorized))

	_, err = a.Verify("not-a-token")
	assert.True(t, errors.Is(err, models.ErrUnauthorized))

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u1", "iss": issuer}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = a.Verify(unsigned)
	assert.True(t, errors.Is(err, models.ErrUnauthorized))
}

func TestVerifyExpired(t *testing.T) {
	a, err := New("secret", time.Minute)
	require.NoError(t, err)
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return issued }

	token, err := a.Issue(models.User{ID: "u1"})
	require.NoError(t, err)

	a.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = a.Verify(token)
	assert.True(t, errors.Is(err, models.ErrUnauthorized))
}

func TestNewValidation(t *testing.T) {
	_, err := New("", time.Hour)
	assert.Error(t, err)

	a, err := New("s", 0)
	require.NoError(t, err)
	_, err = a.Issue(models.User{})
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), models.User{ID: "u1"})
	user, ok := UserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", user.ID)
}
