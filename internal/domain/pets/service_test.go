package pets_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-simulator/internal/adapters/storage/memory"
	"pet-care-simulator/internal/domain/pets"
)

func TestCreate_Defaults(t *testing.T) {
	svc := pets.NewService(memory.NewPetRepo())

	p, err := svc.Create(context.Background(), "owner-1", pets.CreateInput{
		Name: "  Krypto ",
		Type: "perro",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Krypto", p.Name)
	assert.Equal(t, pets.PersonalityNeutral, p.Personality)
	assert.Equal(t, 100, p.Health)
	assert.Equal(t, 100, p.Happiness)
	assert.Equal(t, pets.StatusAlive, p.Status)
	assert.Empty(t, p.Diseases)
	assert.Empty(t, p.History)
	assert.Nil(t, p.LastCareAt)
}

func TestCreate_Validation(t *testing.T) {
	svc := pets.NewService(memory.NewPetRepo())
	ctx := context.Background()

	cases := map[string]pets.CreateInput{
		"no name":          {Type: "perro"},
		"long name":        {Name: strings.Repeat("a", 51), Type: "perro"},
		"no type":          {Name: "Rex"},
		"long type":        {Name: "Rex", Type: strings.Repeat("t", 31)},
		"long super power": {Name: "Rex", Type: "perro", SuperPower: strings.Repeat("p", 101)},
		"bad personality":  {Name: "Rex", Type: "perro", Personality: "grumpy"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, "owner-1", in)
			require.ErrorIs(t, err, pets.ErrInvalidInput)
		})
	}

	_, err := svc.Create(ctx, " ", pets.CreateInput{Name: "Rex", Type: "perro"})
	require.ErrorIs(t, err, pets.ErrInvalidInput)

	p, err := svc.Create(ctx, "owner-1", pets.CreateInput{Name: "Rex", Type: "perro", Personality: "LAZY"})
	require.NoError(t, err)
	assert.Equal(t, pets.PersonalityLazy, p.Personality)
}

func TestDelete_OwnerOnly(t *testing.T) {
	svc := pets.NewService(memory.NewPetRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner-1", pets.CreateInput{Name: "Rex", Type: "perro"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, p.ID, "intruder"), pets.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, p.ID, "owner-1"))
	require.ErrorIs(t, svc.Delete(ctx, p.ID, "owner-1"), pets.ErrNotFound)

	list, err := svc.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClone_IsDeep(t *testing.T) {
	orig := pets.Pet{
		Diseases:      []string{"empacho"},
		History:       []pets.Activity{{Kind: pets.ActivityHeal, Diseases: []string{"a"}}},
		Customization: pets.Customization{Free: []string{"gorro"}},
	}

	c := orig.Clone()
	c.Diseases[0] = "x"
	c.History[0].Diseases[0] = "x"
	c.Customization.Free[0] = "x"

	assert.Equal(t, "empacho", orig.Diseases[0])
	assert.Equal(t, "a", orig.History[0].Diseases[0])
	assert.Equal(t, "gorro", orig.Customization.Free[0])
}
