// Package sqlite guarda las mascotas en un archivo SQLite (modo single-node).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/oops"
	_ "modernc.org/sqlite"

	"pet-care-simulator/internal/adapters/storage/codec"
	"pet-care-simulator/internal/domain/pets"
)

const schema = `
CREATE TABLE IF NOT EXISTS pets (
    id            TEXT PRIMARY KEY,
    owner_user_id TEXT    NOT NULL,
    name          TEXT    NOT NULL,
    type          TEXT    NOT NULL,
    super_power   TEXT    NOT NULL DEFAULT '',
    personality   TEXT    NOT NULL DEFAULT 'neutral',
    health        INTEGER NOT NULL CHECK (health BETWEEN 0 AND 100),
    happiness     INTEGER NOT NULL CHECK (happiness BETWEEN 0 AND 100),
    diseases      TEXT    NOT NULL DEFAULT '[]',
    status        TEXT    NOT NULL DEFAULT 'alive',
    death_at      INTEGER,
    history       TEXT    NOT NULL DEFAULT '[]',
    last_care_at  INTEGER,
    customization TEXT    NOT NULL DEFAULT '{"free":[],"paid":[]}',
    version       INTEGER NOT NULL DEFAULT 1,
    created_at    INTEGER NOT NULL,
    updated_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pets_owner ON pets (owner_user_id, created_at);
`

const petColumns = `id, owner_user_id, name, type, super_power, personality,
	health, happiness, diseases, status, death_at,
	history, last_care_at, customization, version, created_at, updated_at`

// Store implementa pets.Repository sobre SQLite.
type Store struct {
	db *sql.DB
}

// Los timestamps se guardan en nanosegundos UTC para no perder precisión en las ventanas.
func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(v int64) time.Time {
	return time.Unix(0, v).UTC()
}

func toNullNanos(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toNanos(*t), Valid: true}
}

func fromNullNanos(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromNanos(v.Int64)
	return &t
}

// Open abre (o crea) la base en path y asegura el esquema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, oops.Code("SQLITE_PATH_REQUIRED").Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, oops.With("operation", "open sqlite db", "path", path).Wrap(err)
	}
	// una sola conexión: evita SQLITE_BUSY entre escritores
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, oops.With("operation", "ping sqlite db", "path", path).Wrap(err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, oops.With("operation", "create schema").Wrap(err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Create(ctx context.Context, p pets.Pet) error {
	cols, err := codec.Encode(p)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,1,?,?)
	`,
		p.ID,
		p.OwnerUserID,
		p.Name,
		p.Type,
		p.SuperPower,
		string(p.Personality),
		p.Health,
		p.Happiness,
		string(cols.Diseases),
		string(p.Status),
		toNullNanos(p.DeathAt),
		string(cols.History),
		toNullNanos(p.LastCareAt),
		string(cols.Customization),
		toNanos(p.CreatedAt),
		toNanos(p.UpdatedAt),
	)
	if err != nil {
		return oops.With("operation", "create pet", "pet_id", p.ID).Wrap(err)
	}
	return nil
}

// Update es compare-and-swap sobre version, igual que el store de Postgres.
func (s *Store) Update(ctx context.Context, p pets.Pet) error {
	cols, err := codec.Encode(p)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE pets SET
			name = ?, type = ?, super_power = ?, personality = ?,
			health = ?, happiness = ?, diseases = ?, status = ?, death_at = ?,
			history = ?, last_care_at = ?, customization = ?,
			updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?
	`,
		p.Name,
		p.Type,
		p.SuperPower,
		string(p.Personality),
		p.Health,
		p.Happiness,
		string(cols.Diseases),
		string(p.Status),
		toNullNanos(p.DeathAt),
		string(cols.History),
		toNullNanos(p.LastCareAt),
		string(cols.Customization),
		toNanos(p.UpdatedAt),
		p.ID,
		p.Version,
	)
	if err != nil {
		return oops.With("operation", "update pet", "pet_id", p.ID).Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return oops.With("operation", "update pet rows affected", "pet_id", p.ID).Wrap(err)
	}
	if n > 0 {
		return nil
	}

	var one int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM pets WHERE id = ?`, p.ID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return pets.ErrNotFound
	}
	if err != nil {
		return oops.With("operation", "check pet exists", "pet_id", p.ID).Wrap(err)
	}
	return oops.With("pet_id", p.ID, "expected", p.Version).Wrap(pets.ErrVersionConflict)
}

func (s *Store) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = ?`, id)
	p, err := scanPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pets.Pet{}, pets.ErrNotFound
	}
	if err != nil {
		return pets.Pet{}, oops.With("operation", "get pet", "pet_id", id).Wrap(err)
	}
	return p, nil
}

func (s *Store) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_user_id = ?
		ORDER BY created_at ASC
	`, strings.TrimSpace(ownerUserID))
	if err != nil {
		return nil, oops.With("operation", "list pets").Wrap(err)
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

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pets WHERE id = ?`, id)
	if err != nil {
		return oops.With("operation", "delete pet", "pet_id", id).Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return oops.With("operation", "delete pet rows affected", "pet_id", id).Wrap(err)
	}
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPet(row scanner) (pets.Pet, error) {
	var (
		p                        pets.Pet
		personality, status      string
		diseases, history, custs string
		deathAt, lastCareAt      sql.NullInt64
		createdAt, updatedAt     int64
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
		&diseases,
		&status,
		&deathAt,
		&history,
		&lastCareAt,
		&custs,
		&p.Version,
		&createdAt,
		&updatedAt,
	); err != nil {
		return pets.Pet{}, err
	}

	p.Personality = pets.Personality(personality)
	p.Status = pets.Status(status)
	p.DeathAt = fromNullNanos(deathAt)
	p.LastCareAt = fromNullNanos(lastCareAt)
	p.CreatedAt = fromNanos(createdAt)
	p.UpdatedAt = fromNanos(updatedAt)

	err := codec.Decode(codec.Columns{
		Diseases:      []byte(diseases),
		History:       []byte(history),
		Customization: []byte(custs),
	}, &p)
	if err != nil {
		return pets.Pet{}, err
	}
	return p, nil
}
