package jwt

import (
	"eventBooking/internal/models"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestNewTokenRoundTrip(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: 42, Name: "Alice", Email: "alice@example.com", Role: models.RoleAdmin}

	token, err := NewToken(user, secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)

	assert.Equal(t, int64(42), id)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.True(t, claims.IsAdmin())
}

func TestParseTokenRejects(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: 1, Name: "Bob", Email: "bob@example.com", Role: models.RoleUser}

	expired, err := NewToken(user, secret, -time.Minute)
	require.NoError(t, err)

	foreign, err := NewToken(user, "other-secret", time.Hour)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
	}{
		{name: "Expired", token: expired},
		{name: "Wrong secret", token: foreign},
		{name: "None algorithm", token: noneAlg},
		{name: "Non numeric subject", token: badSubject},
		{name: "Garbage", token: "not.a.token"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseToken(tc.token, secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
