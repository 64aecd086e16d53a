package plansfeatures

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/oops"

	"pet-care-simulator/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("plans-features client not configured")
	ErrUpstream      = errors.New("plans-features upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	APIKeyHeader string
	Timeout      time.Duration
}

// Client consulta el servicio de planes.
type Client struct {
	http *httpclient.Client
}

// CapabilitiesResponse: {"capabilities": {"customization:paid": true}}
type CapabilitiesResponse struct {
	Capabilities map[string]bool `json:"capabilities"`
}

// NewClient devuelve nil si falta url o api key.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, nil
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
	return &Client{http: c}, nil
}

func (c *Client) GetCapabilities(ctx context.Context, userID string) (CapabilitiesResponse, error) {
	if c == nil || c.http == nil {
		return CapabilitiesResponse{}, ErrNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return CapabilitiesResponse{}, oops.Code("validation").Errorf("user id is required")
	}

	path := "/v1/capabilities?" + url.Values{"user_id": {userID}}.Encode()

	var out CapabilitiesResponse
	if err := c.http.DoJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return CapabilitiesResponse{}, oops.Code("plans_upstream").With("user_id", userID).Wrap(errors.Join(ErrUpstream, err))
	}
	if out.Capabilities == nil {
		out.Capabilities = map[string]bool{}
	}
	return out, nil
}
