package care

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
)

// Tipos de error que produce el motor. Se comparan con errors.Is.
var (
	ErrNotFound    = errors.New("pet not found")
	ErrForbidden   = errors.New("you are not allowed to care for this pet")
	ErrAlreadyDead = errors.New("pet has died and can no longer receive care")
	ErrValidation  = errors.New("invalid input")
	ErrConflict    = errors.New("pet was modified concurrently, try again")
)

const (
	CodeNotFound    = "pet_not_found"
	CodeForbidden   = "forbidden"
	CodeAlreadyDead = "pet_dead"
	CodeValidation  = "validation"
	CodeConflict    = "conflict"
)

// validationError conserva el mensaje exacto para el cliente
// y sigue siendo ErrValidation para errors.Is.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrValidation }

func validationf(petID, format string, args ...any) error {
	return oops.Code(CodeValidation).
		With("pet_id", petID).
		Wrap(&validationError{msg: fmt.Sprintf(format, args...)})
}

func notFound(petID string) error {
	return oops.Code(CodeNotFound).With("pet_id", petID).Wrap(ErrNotFound)
}

func forbidden(petID, actorID string) error {
	return oops.Code(CodeForbidden).With("pet_id", petID, "actor_id", actorID).Wrap(ErrForbidden)
}

func alreadyDead(petID string) error {
	return oops.Code(CodeAlreadyDead).With("pet_id", petID).Wrap(ErrAlreadyDead)
}

func conflict(petID string, cause error) error {
	return oops.Code(CodeConflict).With("pet_id", petID).Wrap(fmt.Errorf("%w: %v", ErrConflict, cause))
}
