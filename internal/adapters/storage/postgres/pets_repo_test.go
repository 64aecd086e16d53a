package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-simulator/internal/domain/pets"
)

var petColumnNames = []string{
	"id", "owner_user_id",
	"name", "type", "super_power", "personality",
	"health", "happiness", "diseases", "status", "death_at",
	"history", "last_care_at", "customization",
	"version", "created_at", "updated_at",
}

func samplePet(now time.Time) pets.Pet {
	return pets.Pet{
		ID:            "pet-1",
		OwnerUserID:   "user-1",
		Name:          "Krypto",
		Type:          "perro",
		Personality:   pets.PersonalityPlayful,
		Health:        90,
		Happiness:     80,
		Diseases:      []string{"empacho"},
		Status:        pets.StatusAlive,
		History:       []pets.Activity{{ID: "a1", Kind: pets.ActivityFeed, At: now, Food: "premium"}},
		Customization: pets.Customization{Free: []string{"gorro"}, Paid: []string{}},
		Version:       3,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestPetsRepo_GetByID(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		check     func(t *testing.T, p pets.Pet)
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(petColumnNames).AddRow(
					"pet-1", "user-1",
					"Krypto", "perro", "", "playful",
					90, 80, []byte(`["empacho","empacho"]`), "alive", nil,
					[]byte(`[{"id":"a1","action":"feed","date":"2026-01-02T03:04:05Z","food":"premium"}]`), nil,
					[]byte(`{"free":["gorro"],"paid":[]}`),
					int64(3), now, now,
				)
				mock.ExpectQuery("SELECT .* FROM pets WHERE id = \\$1").
					WithArgs("pet-1").
					WillReturnRows(rows)
			},
			check: func(t *testing.T, p pets.Pet) {
				assert.Equal(t, "Krypto", p.Name)
				assert.Equal(t, pets.PersonalityPlayful, p.Personality)
				assert.Equal(t, []string{"empacho", "empacho"}, p.Diseases)
				require.Len(t, p.History, 1)
				assert.Equal(t, pets.ActivityFeed, p.History[0].Kind)
				assert.Equal(t, "premium", p.History[0].Food)
				assert.Equal(t, []string{"gorro"}, p.Customization.Free)
				assert.Equal(t, int64(3), p.Version)
				assert.Nil(t, p.DeathAt)
			},
		},
		{
			name: "not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT .* FROM pets WHERE id = \\$1").
					WithArgs("pet-1").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: pets.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewPetsRepo(mock)
			got, err := repo.GetByID(context.Background(), "pet-1")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				tt.check(t, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestPetsRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO pets").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPetsRepo(mock)
	require.NoError(t, repo.Create(context.Background(), samplePet(now)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPetsRepo_Create_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO pets").
		WillReturnError(errors.New("connection refused"))

	repo := NewPetsRepo(mock)
	err = repo.Create(context.Background(), samplePet(time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestPetsRepo_Update(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "version matches",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("UPDATE pets").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "stale version",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("UPDATE pets").
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
				mock.ExpectQuery("SELECT 1 FROM pets").
					WithArgs("pet-1").
					WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))
			},
			wantErr: pets.ErrVersionConflict,
		},
		{
			name: "deleted meanwhile",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("UPDATE pets").
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
				mock.ExpectQuery("SELECT 1 FROM pets").
					WithArgs("pet-1").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: pets.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewPetsRepo(mock)
			err = repo.Update(context.Background(), samplePet(now))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPetsRepo_ListByOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	rows := pgxmock.NewRows(petColumnNames).
		AddRow("pet-1", "user-1", "A", "gato", "", "neutral", 100, 100, []byte(`[]`), "alive", nil, []byte(`[]`), nil, []byte(`{"free":[],"paid":[]}`), int64(1), now, now).
		AddRow("pet-2", "user-1", "B", "dragón", "fuego", "lazy", 0, 10, []byte(`[]`), "dead", &now, []byte(`[]`), &now, []byte(`{"free":[],"paid":[]}`), int64(7), now, now)

	mock.ExpectQuery("FROM pets\\s+WHERE owner_user_id = \\$1").
		WithArgs("user-1").
		WillReturnRows(rows)

	repo := NewPetsRepo(mock)
	got, err := repo.ListByOwner(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "pet-1", got[0].ID)
	assert.True(t, got[1].IsDead())
	require.NotNil(t, got[1].DeathAt)
	assert.Equal(t, []string{}, got[1].Diseases)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPetsRepo_Delete_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM pets").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewPetsRepo(mock)
	err = repo.Delete(context.Background(), "missing")
	require.ErrorIs(t, err, pets.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
