package token

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseRoundTrip(t *testing.T) {
	signed, err := Sign("user-1", "teacher")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "teacher", claims.Role)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("not-a-token")
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	claims := Claims{
		UserID: "user-1",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(secret())
	require.NoError(t, err)

	_, err = Parse(signed)
	assert.Error(t, err)
}

func TestParseRejectsWrongSigningMethod(t *testing.T) {
	// alg "none" must never validate.
	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, Claims{UserID: "user-1"})
	signed, err := tok.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = Parse(signed)
	assert.Error(t, err)
}

func TestParseRejectsTamperedSecret(t *testing.T) {
	other := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		UserID: "user-1",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := other.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = Parse(signed)
	assert.Error(t, err)
}
