package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-simulator/internal/ports/auth"
)

func identityServer(t *testing.T, handler func(w http.ResponseWriter, token string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, verifyPath, r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("X-Api-Key"))

		var in verifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Bearer "+in.Token, r.Header.Get("Authorization"))
		handler(w, in.Token)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerify_OK(t *testing.T) {
	srv := identityServer(t, func(w http.ResponseWriter, token string) {
		_ = json.NewEncoder(w).Encode(verifyResponse{UserID: " user-" + token + " ", Email: "x@y.z"})
	})

	v, err := New(Config{BaseURL: srv.URL, APIKey: "key-1"})
	require.NoError(t, err)

	claims, err := v.Verify(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, "x@y.z", claims.Email)
}

func TestVerify_Unauthorized(t *testing.T) {
	srv := identityServer(t, func(w http.ResponseWriter, _ string) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	v, err := New(Config{BaseURL: srv.URL, APIKey: "key-1"})
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "bad")
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_UpstreamFailures(t *testing.T) {
	t.Run("5xx", func(t *testing.T) {
		srv := identityServer(t, func(w http.ResponseWriter, _ string) {
			w.WriteHeader(http.StatusBadGateway)
		})
		v, err := New(Config{BaseURL: srv.URL, APIKey: "key-1"})
		require.NoError(t, err)

		_, err = v.Verify(context.Background(), "t")
		require.ErrorIs(t, err, ErrUpstream)
		assert.NotErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("missing user", func(t *testing.T) {
		srv := identityServer(t, func(w http.ResponseWriter, _ string) {
			_ = json.NewEncoder(w).Encode(verifyResponse{})
		})
		v, err := New(Config{BaseURL: srv.URL, APIKey: "key-1"})
		require.NoError(t, err)

		_, err = v.Verify(context.Background(), "t")
		require.ErrorIs(t, err, ErrUpstream)
	})
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(Config{BaseURL: "http://localhost"})
	require.Error(t, err)
	_, err = New(Config{APIKey: "k"})
	require.Error(t, err)
}

func TestVerify_EmptyToken(t *testing.T) {
	v, err := New(Config{BaseURL: "http://127.0.0.1:1", APIKey: "k"})
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), " ")
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}
