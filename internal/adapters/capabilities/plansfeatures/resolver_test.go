package plansfeatures

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-simulator/internal/ports/capabilities"
)

func paidCheck(userID string) capabilities.CapabilityCheck {
	return capabilities.CapabilityCheck{UserID: userID, Feature: capabilities.FeaturePaidCustomization}
}

func TestResolver_AsksPlansService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/capabilities", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("X-Plans-Key"))

		caps := map[string]bool{}
		if r.URL.Query().Get("user_id") == "premium user" {
			caps[capabilities.FeaturePaidCustomization] = true
		}
		_ = json.NewEncoder(w).Encode(CapabilitiesResponse{Capabilities: caps})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k", APIKeyHeader: "X-Plans-Key"})
	require.NoError(t, err)
	r := NewResolver(client, false)

	ok, err := r.HasFeature(context.Background(), paidCheck("premium user"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.HasFeature(context.Background(), paidCheck("free-user"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolver_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = NewResolver(client, false).HasFeature(context.Background(), paidCheck("u1"))
	require.ErrorIs(t, err, ErrUpstream)
}

func TestResolver_AllowAllAndUnconfigured(t *testing.T) {
	client, err := NewClient(Config{})
	require.NoError(t, err)
	assert.Nil(t, client)

	ok, err := NewResolver(nil, true).HasFeature(context.Background(), paidCheck("u1"))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = NewResolver(client, false).HasFeature(context.Background(), paidCheck("u1"))
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewResolver(nil, true).HasFeature(context.Background(), capabilities.CapabilityCheck{UserID: "u1"})
	require.Error(t, err)
}
