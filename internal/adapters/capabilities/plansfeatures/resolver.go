package plansfeatures

import (
	"context"
	"strings"

	"github.com/samber/oops"

	"pet-care-simulator/internal/ports/capabilities"
)

// Resolver implementa capabilities.CapabilitiesResolver.
// Con allowAll responde true sin llamar al servicio (modo dev).
type Resolver struct {
	client   *Client
	allowAll bool
}

func NewResolver(client *Client, allowAll bool) *Resolver {
	return &Resolver{client: client, allowAll: allowAll}
}

func (r *Resolver) HasFeature(ctx context.Context, in capabilities.CapabilityCheck) (bool, error) {
	feature := strings.TrimSpace(in.Feature)
	if feature == "" {
		return false, oops.Code("validation").Errorf("feature is required")
	}
	if r == nil {
		return false, ErrNotConfigured
	}
	if r.allowAll {
		return true, nil
	}
	if r.client == nil {
		return false, ErrNotConfigured
	}

	resp, err := r.client.GetCapabilities(ctx, in.UserID)
	if err != nil {
		return false, err
	}
	return resp.Capabilities[feature], nil
}
