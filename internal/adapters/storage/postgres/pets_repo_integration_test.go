//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"pet-care-simulator/internal/adapters/storage/postgres"
	"pet-care-simulator/internal/domain/pets"
)

func setupPostgres(t *testing.T) *postgres.PetsRepo {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("petcare_test"),
		tcpostgres.WithUsername("petcare"),
		tcpostgres.WithPassword("petcare"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := postgres.NewMigrator(dsn)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	pool, err := postgres.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return postgres.NewPetsRepo(pool)
}

func TestPetsRepo_Integration_OptimisticUpdate(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	p := pets.Pet{
		ID:          "pet-int-1",
		OwnerUserID: "user-1",
		Name:        "Krypto",
		Type:        "perro",
		Personality: pets.PersonalityNeutral,
		Health:      100,
		Happiness:   100,
		Status:      pets.StatusAlive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, repo.Create(ctx, p))

	loaded, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), loaded.Version)
	assert.Equal(t, []string{}, loaded.Diseases)

	loaded.Health = 80
	loaded.Diseases = append(loaded.Diseases, "empacho")
	loaded.History = append(loaded.History, pets.Activity{ID: "a1", Kind: pets.ActivitySick, At: now, Disease: "empacho"})
	require.NoError(t, repo.Update(ctx, loaded))

	// la misma versión ya no es válida
	err = repo.Update(ctx, loaded)
	require.ErrorIs(t, err, pets.ErrVersionConflict)

	again, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, again.Health)
	assert.Equal(t, int64(2), again.Version)
	require.Len(t, again.History, 1)
	assert.Equal(t, "empacho", again.History[0].Disease)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, pets.ErrNotFound)
}
