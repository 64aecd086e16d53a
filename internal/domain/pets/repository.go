package pets

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("pet not found")
	ErrVersionConflict = errors.New("pet version conflict")
)

// Repository es el Vital State Store.
// Update solo persiste si p.Version coincide con la versión almacenada,
// y la incrementa; si no, devuelve ErrVersionConflict.
type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error)
	Update(ctx context.Context, p Pet) error
	Delete(ctx context.Context, id string) error
}
