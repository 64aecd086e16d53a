package care

import (
	"context"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"pet-care-simulator/internal/domain/pets"
)

const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 200
)

// ActivityFilter filtra el historial de una mascota.
type ActivityFilter struct {
	Kinds []pets.ActivityKind
	From  *time.Time
	To    *time.Time
	Query string // busca en food/disease/medicine/item
	Limit int
}

// ListActivity devuelve el historial filtrado, más reciente primero.
func (s *Service) ListActivity(ctx context.Context, petID, actorID string, filter ActivityFilter) ([]pets.Activity, error) {
	ctx, span := s.tracer.Start(ctx, "care.activity", trace.WithAttributes(attribute.String("pet.id", petID)))
	defer span.End()

	p, err := s.loadOwned(ctx, strings.TrimSpace(petID), actorID)
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > MaxActivityLimit {
		limit = DefaultActivityLimit
	}
	q := strings.ToLower(strings.TrimSpace(filter.Query))

	out := make([]pets.Activity, 0)
	for i := len(p.History) - 1; i >= 0 && len(out) < limit; i-- {
		a := p.History[i]

		if len(filter.Kinds) > 0 && !slices.Contains(filter.Kinds, a.Kind) {
			continue
		}
		if filter.From != nil && a.At.Before(*filter.From) {
			continue
		}
		if filter.To != nil && a.At.After(*filter.To) {
			continue
		}
		if q != "" {
			hay := strings.ToLower(strings.Join([]string{a.Food, a.Disease, a.Medicine, a.Item}, " "))
			if !strings.Contains(hay, q) {
				continue
			}
		}

		a.Diseases = slices.Clone(a.Diseases)
		out = append(out, a)
	}

	return out, nil
}
