package care

import "pet-care-simulator/internal/domain/pets"

// Field marca qué valores del Result son parte de la respuesta de la acción.
type Field uint8

const (
	FieldHealth Field = 1 << iota
	FieldHappiness
	FieldDiseases
	FieldCustomization
)

// Result es el resumen que devuelve cada operación de cuidado.
// Refleja el estado después de la acción, incluso si la mascota murió en ella.
type Result struct {
	Message string
	Fields  Field

	Health        int
	Happiness     int
	Diseases      []string
	Customization pets.Customization

	// Cured lista lo que se curó (heal, medicine, sleep).
	Cured        []string
	MedicineUsed string
	// SideEffect es la enfermedad agregada por un efecto secundario, si hubo.
	SideEffect string
	Died       bool
}

func (r Result) Has(f Field) bool {
	return r.Fields&f != 0
}
