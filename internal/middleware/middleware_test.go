package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-simulator/internal/platform/logger"
	"pet-care-simulator/internal/ports/auth"
)

type stubVerifier map[string]string

func (s stubVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if uid, ok := s[token]; ok {
		return auth.Claims{UserID: uid}, nil
	}
	return auth.Claims{}, auth.ErrInvalidToken
}

// whoami responde el UserID de las claims o "-" si no hay.
var whoami = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	c, ok := GetClaims(r.Context())
	if !ok {
		_, _ = w.Write([]byte("-"))
		return
	}
	_, _ = w.Write([]byte(c.UserID))
})

func serve(h http.Handler, headers map[string]string) string {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Body.String()
}

func TestAuthContext_DevMode(t *testing.T) {
	h := AuthContext(nil, nil)(whoami)

	assert.Equal(t, "owner-1", serve(h, map[string]string{DebugUserHeader: " owner-1 "}))
	assert.Equal(t, "-", serve(h, nil))
	assert.Equal(t, "-", serve(h, map[string]string{"Authorization": "Bearer good"}))
}

func TestAuthContext_Verifier(t *testing.T) {
	h := AuthContext(stubVerifier{"good": "user-9"}, logger.Nop())(whoami)

	assert.Equal(t, "user-9", serve(h, map[string]string{"Authorization": "Bearer good"}))
	assert.Equal(t, "user-9", serve(h, map[string]string{"Authorization": "bearer  good"}))
	assert.Equal(t, "-", serve(h, map[string]string{"Authorization": "Bearer bad"}))
	assert.Equal(t, "-", serve(h, map[string]string{"Authorization": "Basic good"}))
	assert.Equal(t, "-", serve(h, map[string]string{DebugUserHeader: "owner-1"}), "debug header ignored with verifier")
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Info, Format: logger.FormatJSON, Output: &buf})

	h := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/pets/p1/care/feed", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "/pets/p1/care/feed", entry["path"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
}

func TestRecoverer(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Info, Format: logger.FormatJSON, Output: &buf})

	h := Recoverer(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "boom")
}
