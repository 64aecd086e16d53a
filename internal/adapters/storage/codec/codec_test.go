package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-simulator/internal/domain/pets"
)

func TestEncode_NilSlicesBecomeEmptyArrays(t *testing.T) {
	c, err := Encode(pets.Pet{ID: "p1"})
	require.NoError(t, err)

	assert.JSONEq(t, `[]`, string(c.Diseases))
	assert.JSONEq(t, `[]`, string(c.History))
	assert.JSONEq(t, `{"free":[],"paid":[]}`, string(c.Customization))
}

func TestEncode_HistoryUsesActivityNames(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c, err := Encode(pets.Pet{
		History: []pets.Activity{{ID: "a1", Kind: pets.ActivityFeed, At: at, Food: "premium"}},
	})
	require.NoError(t, err)

	assert.JSONEq(t, `[{"id":"a1","action":"feed","date":"2026-01-02T03:04:05Z","food":"premium"}]`, string(c.History))

	var p pets.Pet
	require.NoError(t, Decode(c, &p))
	require.Len(t, p.History, 1)
	assert.Equal(t, at, p.History[0].At)
	assert.Equal(t, "premium", p.History[0].Food)
}

func TestDecode_EmptyAndNullColumns(t *testing.T) {
	var p pets.Pet
	require.NoError(t, Decode(Columns{Diseases: []byte("null")}, &p))

	assert.NotNil(t, p.Diseases)
	assert.NotNil(t, p.History)
	assert.NotNil(t, p.Customization.Free)
	assert.NotNil(t, p.Customization.Paid)
}

func TestDecode_InvalidJSON(t *testing.T) {
	var p pets.Pet
	require.Error(t, Decode(Columns{History: []byte("{")}, &p))
}
