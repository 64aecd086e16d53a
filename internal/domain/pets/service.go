package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name        string
	Type        string
	SuperPower  string
	Personality string
}

// Create registra una mascota nueva con vitales completos.
func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return Pet{}, invalid("owner is required")
	}

	name := strings.TrimSpace(in.Name)
	if err := checkLength(name, 1, 50, "name"); err != nil {
		return Pet{}, err
	}
	typ := strings.TrimSpace(in.Type)
	if err := checkLength(typ, 1, 30, "type"); err != nil {
		return Pet{}, err
	}
	power := strings.TrimSpace(in.SuperPower)
	if power != "" {
		if err := checkLength(power, 1, 100, "super_power"); err != nil {
			return Pet{}, err
		}
	}

	personality := Personality(strings.ToLower(strings.TrimSpace(in.Personality)))
	if personality == "" {
		personality = PersonalityNeutral
	}
	if !personality.Valid() {
		return Pet{}, invalid("personality must be one of neutral, playful, lazy, aggressive, shy")
	}

	now := s.now()
	p := Pet{
		ID:            uuid.NewString(),
		OwnerUserID:   ownerUserID,
		Name:          name,
		Type:          typ,
		SuperPower:    power,
		Personality:   personality,
		Health:        MaxStat,
		Happiness:     MaxStat,
		Diseases:      []string{},
		Status:        StatusAlive,
		History:       []Activity{},
		Customization: Customization{Free: []string{}, Paid: []string{}},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, oops.With("operation", "create pet").Wrap(err)
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// Delete elimina la mascota del store. No depende de que esté muerta.
func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if p.OwnerUserID != actorID {
		return oops.Code("forbidden").With("pet_id", id).Wrap(ErrForbidden)
	}
	return s.repo.Delete(ctx, p.ID)
}

func checkLength(v string, min, max int, field string) error {
	n := utf8.RuneCountInString(v)
	if n < min || n > max {
		return oops.Code("validation").
			With("field", field).
			Wrap(&inputError{msg: fmt.Sprintf("%s must be between %d and %d characters", field, min, max)})
	}
	return nil
}

func invalid(msg string) error {
	return oops.Code("validation").Wrap(&inputError{msg: msg})
}

// inputError guarda el mensaje para el cliente y es ErrInvalidInput para errors.Is.
type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

func (e *inputError) Is(target error) bool { return target == ErrInvalidInput }
