package capabilities

import "context"

// Features conocidas.
const (
	FeaturePaidCustomization = "customization:paid"
)

// CapabilityCheck pregunta si UserID tiene habilitada Feature.
type CapabilityCheck struct {
	UserID  string
	Feature string
}

type CapabilitiesResolver interface {
	HasFeature(ctx context.Context, in CapabilityCheck) (bool, error)
}
