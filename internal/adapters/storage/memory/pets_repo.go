package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/samber/oops"

	"pet-care-simulator/internal/domain/pets"
)

// petRepo guarda copias profundas: nadie fuera del repo comparte slices con el store.
type petRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID: make(map[string]pets.Pet),
	}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return oops.Errorf("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return oops.With("pet_id", p.ID).Errorf("pet already exists")
	}
	p.Version = 1
	r.byID[p.ID] = p.Clone()
	return nil
}

// Update es compare-and-swap sobre Version.
func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return oops.Errorf("pet id required")
	}
	current, exists := r.byID[p.ID]
	if !exists {
		return pets.ErrNotFound
	}
	if current.Version != p.Version {
		return oops.
			With("pet_id", p.ID, "expected", p.Version, "stored", current.Version).
			Wrap(pets.ErrVersionConflict)
	}

	next := p.Clone()
	next.Version = current.Version + 1
	r.byID[p.ID] = next
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *petRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p.Clone())
		}
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *petRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return pets.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
