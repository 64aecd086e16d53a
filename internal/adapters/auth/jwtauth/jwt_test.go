package jwtauth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-simulator/internal/ports/auth"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func TestSignAndVerify(t *testing.T) {
	v, err := New(Config{Secret: "s3cret", Issuer: "petcare", TTL: time.Hour, Now: fixedNow})
	require.NoError(t, err)

	token, err := v.Sign(auth.Claims{UserID: "user-1", Email: "a@b.c"})
	require.NoError(t, err)

	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
}

func TestVerify_Rejects(t *testing.T) {
	v, err := New(Config{Secret: "s3cret", Issuer: "petcare", TTL: time.Hour, Now: fixedNow})
	require.NoError(t, err)

	other, err := New(Config{Secret: "other", Issuer: "petcare", Now: fixedNow})
	require.NoError(t, err)
	foreign, err := other.Sign(auth.Claims{UserID: "user-1"})
	require.NoError(t, err)

	wrongIssuer, err := New(Config{Secret: "s3cret", Issuer: "someone-else", Now: fixedNow})
	require.NoError(t, err)
	badIss, err := wrongIssuer.Sign(auth.Claims{UserID: "user-1"})
	require.NoError(t, err)

	expiredSigner, err := New(Config{Secret: "s3cret", Issuer: "petcare", TTL: time.Minute, Now: func() time.Time {
		return fixedNow().Add(-time.Hour)
	}})
	require.NoError(t, err)
	expired, err := expiredSigner.Sign(auth.Claims{UserID: "user-1"})
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1", "iss": "petcare"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "petcare",
		"exp": fixedNow().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not.a.token",
		"wrong secret": foreign,
		"wrong issuer": badIss,
		"expired":      expired,
		"no exp":       noExp,
		"no sub":       noSub,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), token)
			require.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New(Config{Secret: "  "})
	require.Error(t, err)
}

func TestSign_RequiresUser(t *testing.T) {
	v, err := New(Config{Secret: "s3cret"})
	require.NoError(t, err)

	_, err = v.Sign(auth.Claims{})
	require.Error(t, err)
}
