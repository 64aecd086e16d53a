package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-simulator/internal/domain/pets"
)

func TestPetRepo_CompareAndSwap(t *testing.T) {
	repo := NewPetRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, pets.Pet{ID: "p1", OwnerUserID: "u1", Diseases: []string{}}))
	require.Error(t, repo.Create(ctx, pets.Pet{ID: "p1"}), "duplicate id")

	a, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	b, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.Version)

	a.Health = 50
	require.NoError(t, repo.Update(ctx, a))

	b.Health = 10
	require.ErrorIs(t, repo.Update(ctx, b), pets.ErrVersionConflict)

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 50, got.Health)
	assert.Equal(t, int64(2), got.Version)
}

func TestPetRepo_ReturnsCopies(t *testing.T) {
	repo := NewPetRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, pets.Pet{ID: "p1", Diseases: []string{"empacho"}}))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	got.Diseases[0] = "mutated"

	again, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"empacho"}, again.Diseases)
}

func TestPetRepo_ListAndDelete(t *testing.T) {
	repo := NewPetRepo()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, pets.Pet{ID: "b", OwnerUserID: "u1", CreatedAt: now.Add(time.Minute)}))
	require.NoError(t, repo.Create(ctx, pets.Pet{ID: "a", OwnerUserID: "u1", CreatedAt: now}))
	require.NoError(t, repo.Create(ctx, pets.Pet{ID: "c", OwnerUserID: "u2", CreatedAt: now}))

	list, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)

	require.NoError(t, repo.Delete(ctx, "a"))
	require.ErrorIs(t, repo.Delete(ctx, "a"), pets.ErrNotFound)
	_, err = repo.GetByID(ctx, "a")
	require.ErrorIs(t, err, pets.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, pets.Pet{ID: "a"}), pets.ErrNotFound)
}
