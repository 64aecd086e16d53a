package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"pet-care-simulator/internal/adapters/storage/codec"
	"pet-care-simulator/internal/domain/pets"
)

const petColumns = `
	id, owner_user_id,
	name, type, super_power, personality,
	health, happiness, diseases, status, death_at,
	history, last_care_at, customization,
	version, created_at, updated_at`

type PetsRepo struct {
	pool poolIface
}

func NewPetsRepo(pool poolIface) *PetsRepo {
	return &PetsRepo{pool: pool}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	cols, err := codec.Encode(p)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO pets (`+petColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,1,$15,$16)
	`,
		p.ID,
		p.OwnerUserID,
		p.Name,
		p.Type,
		p.SuperPower,
		string(p.Personality),
		p.Health,
		p.Happiness,
		cols.Diseases,
		string(p.Status),
		p.DeathAt,
		cols.History,
		p.LastCareAt,
		cols.Customization,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return oops.With("operation", "create pet", "pet_id", p.ID).Wrap(err)
	}
	return nil
}

// Update persiste todo el estado si la versión almacenada coincide con p.Version.
func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	cols, err := codec.Encode(p)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE pets
		SET
			name = $3,
			type = $4,
			super_power = $5,
			personality = $6,
			health = $7,
			happiness = $8,
			diseases = $9,
			status = $10,
			death_at = $11,
			history = $12,
			last_care_at = $13,
			customization = $14,
			updated_at = $15,
			version = version + 1
		WHERE id = $1 AND version = $2
	`,
		p.ID,
		p.Version,
		p.Name,
		p.Type,
		p.SuperPower,
		string(p.Personality),
		p.Health,
		p.Happiness,
		cols.Diseases,
		string(p.Status),
		p.DeathAt,
		cols.History,
		p.LastCareAt,
		cols.Customization,
		p.UpdatedAt,
	)
	if err != nil {
		return oops.With("operation", "update pet", "pet_id", p.ID).Wrap(err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// 0 filas: o no existe o cambió la versión
	var one int
	err = r.pool.QueryRow(ctx, `SELECT 1 FROM pets WHERE id = $1`, p.ID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return pets.ErrNotFound
	}
	if err != nil {
		return oops.With("operation", "check pet exists", "pet_id", p.ID).Wrap(err)
	}
	return oops.With("pet_id", p.ID, "expected", p.Version).Wrap(pets.ErrVersionConflict)
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := r.pool.QueryRow(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	p, err := scanPet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, oops.With("operation", "get pet", "pet_id", id).Wrap(err)
	}
	return p, nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, oops.With("operation", "list pets", "owner_user_id", ownerUserID).Wrap(err)
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, oops.With("operation", "scan pet row").Wrap(err)
		}
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate pets").Wrap(err)
	}
	return out, nil
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return oops.With("operation", "delete pet", "pet_id", id).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return pets.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPet(row scanner) (pets.Pet, error) {
	var (
		p           pets.Pet
		personality string
		status      string
		cols        codec.Columns
	)
	if err := row.Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.Name,
		&p.Type,
		&p.SuperPower,
		&personality,
		&p.Health,
		&p.Happiness,
		&cols.Diseases,
		&status,
		&p.DeathAt,
		&cols.History,
		&p.LastCareAt,
		&cols.Customization,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}

	p.Personality = pets.Personality(personality)
	p.Status = pets.Status(status)
	if err := codec.Decode(cols, &p); err != nil {
		return pets.Pet{}, err
	}
	return p, nil
}
