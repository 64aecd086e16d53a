// Package codec serializa las columnas JSON de la mascota (diseases, history,
// customization) para los stores SQL.
package codec

import (
	"encoding/json"

	"github.com/samber/oops"

	"pet-care-simulator/internal/domain/pets"
)

// Columns son las columnas JSON ya codificadas.
type Columns struct {
	Diseases      []byte
	History       []byte
	Customization []byte
}

func Encode(p pets.Pet) (Columns, error) {
	diseases := p.Diseases
	if diseases == nil {
		diseases = []string{}
	}
	history := p.History
	if history == nil {
		history = []pets.Activity{}
	}
	custom := p.Customization
	if custom.Free == nil {
		custom.Free = []string{}
	}
	if custom.Paid == nil {
		custom.Paid = []string{}
	}

	var (
		c   Columns
		err error
	)
	if c.Diseases, err = json.Marshal(diseases); err != nil {
		return Columns{}, oops.With("pet_id", p.ID, "column", "diseases").Wrap(err)
	}
	if c.History, err = json.Marshal(history); err != nil {
		return Columns{}, oops.With("pet_id", p.ID, "column", "history").Wrap(err)
	}
	if c.Customization, err = json.Marshal(custom); err != nil {
		return Columns{}, oops.With("pet_id", p.ID, "column", "customization").Wrap(err)
	}
	return c, nil
}

// Decode completa p con las columnas JSON. Columnas vacías quedan como slices vacíos.
func Decode(c Columns, p *pets.Pet) error {
	p.Diseases = []string{}
	p.History = []pets.Activity{}
	p.Customization = pets.Customization{Free: []string{}, Paid: []string{}}

	if len(c.Diseases) > 0 {
		if err := json.Unmarshal(c.Diseases, &p.Diseases); err != nil {
			return oops.With("pet_id", p.ID, "column", "diseases").Wrap(err)
		}
	}
	if len(c.History) > 0 {
		if err := json.Unmarshal(c.History, &p.History); err != nil {
			return oops.With("pet_id", p.ID, "column", "history").Wrap(err)
		}
	}
	if len(c.Customization) > 0 {
		if err := json.Unmarshal(c.Customization, &p.Customization); err != nil {
			return oops.With("pet_id", p.ID, "column", "customization").Wrap(err)
		}
	}
	if p.Diseases == nil {
		p.Diseases = []string{}
	}
	if p.History == nil {
		p.History = []pets.Activity{}
	}
	if p.Customization.Free == nil {
		p.Customization.Free = []string{}
	}
	if p.Customization.Paid == nil {
		p.Customization.Paid = []string{}
	}
	return nil
}
