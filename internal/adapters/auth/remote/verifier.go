// Package remote delega la verificación de tokens a un servicio de identidad externo.
package remote

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/samber/oops"

	"pet-care-simulator/internal/platform/httpclient"
	"pet-care-simulator/internal/ports/auth"
)

const verifyPath = "/v1/tokens/verify"

var ErrUpstream = errors.New("identity service upstream error")

type Config struct {
	BaseURL string
	APIKey  string
	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	TenantID string `json:"tenant_id"`
}

// Verifier implementa auth.AuthVerifier contra el servicio de identidad.
type Verifier struct {
	http *httpclient.Client
}

func New(cfg Config) (*Verifier, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, oops.Code("CONFIG_INVALID").Errorf("identity service url and api key are required")
	}
	header := strings.TrimSpace(cfg.APIKeyHeader)
	if header == "" {
		header = "X-Api-Key"
	}

	c, err := httpclient.New(httpclient.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Headers: map[string]string{header: strings.TrimSpace(cfg.APIKey)},
	})
	if err != nil {
		return nil, err
	}
	return &Verifier{http: c}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	var out verifyResponse
	err := v.http.DoJSON(ctx, http.MethodPost, verifyPath,
		map[string]string{"Authorization": "Bearer " + token},
		verifyRequest{Token: token}, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) &&
			(httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden) {
			return auth.Claims{}, oops.Code("invalid_token").With("status", httpErr.StatusCode).Wrap(auth.ErrInvalidToken)
		}
		return auth.Claims{}, oops.Code("identity_upstream").Wrap(errors.Join(ErrUpstream, err))
	}

	userID := strings.TrimSpace(out.UserID)
	if userID == "" {
		return auth.Claims{}, oops.Code("identity_upstream").Wrapf(ErrUpstream, "response missing user_id")
	}

	return auth.Claims{
		UserID:   userID,
		Email:    strings.TrimSpace(out.Email),
		TenantID: strings.TrimSpace(out.TenantID),
	}, nil
}
