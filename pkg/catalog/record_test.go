package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_MarshalJSONCanonical(t *testing.T) {
	rec := Record{
		ID:         Ptr(1),
		Name:       "Bulbasaur",
		Type:       []string{"Grass", "Poison"},
		Weaknesses: nil,
		Height:     json.RawMessage(`"0.71 m"`),
		Extra: map[string]json.RawMessage{
			"num": json.RawMessage(`"001"`),
			"img": json.RawMessage(`"http://www.serebii.net/pokemongo/pokemon/001.png"`),
		},
	}

	got, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t,
		`{"id":1,"name":"Bulbasaur","type":["Grass","Poison"],"weaknesses":[],"height":"0.71 m","img":"http://www.serebii.net/pokemongo/pokemon/001.png","num":"001"}`,
		string(got))
}

func TestRecord_MarshalJSONNilID(t *testing.T) {
	got, err := json.Marshal(Record{Name: "NaN"})
	require.NoError(t, err)
	assert.Equal(t, `{"id":null,"name":"NaN","type":[],"weaknesses":[]}`, string(got))
}

func TestRecord_UnmarshalRoundTrip(t *testing.T) {
	in := `{"num":"004","weight":"8.5 kg","id":4,"type":["Fire"],"name":"Charmander","weaknesses":["Water","Ground","Rock"],"height":"0.61 m"}`

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(in), &rec))

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestRecord_Equal(t *testing.T) {
	a := Record{ID: Ptr(1), Name: "A", Type: []string{"X"}, Extra: map[string]json.RawMessage{"num": json.RawMessage(`"001"`)}}
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.Type = []string{"X", "Y"}
	assert.False(t, a.Equal(b))

	c := a.Clone()
	c.Extra["num"] = json.RawMessage(`"002"`)
	assert.False(t, a.Equal(c))

	var fromJSON Record
	require.NoError(t, json.Unmarshal([]byte(`{ "num" : "001", "type" : [ "X" ], "name":"A", "id":1 }`), &fromJSON))
	assert.True(t, a.Equal(fromJSON), "whitespace and key order do not affect equality")
}

func TestRecord_CloneIsDeep(t *testing.T) {
	orig := Record{
		ID:         Ptr(1),
		Name:       "A",
		Type:       []string{"X"},
		Weaknesses: []string{"Y"},
		Height:     json.RawMessage(`"1 m"`),
		Extra:      map[string]json.RawMessage{"num": json.RawMessage(`"001"`)},
	}

	clone := orig.Clone()
	*clone.ID = 2
	clone.Type[0] = "changed"
	clone.Weaknesses[0] = "changed"
	clone.Height[1] = 'x'
	clone.Extra["num"] = json.RawMessage(`"999"`)
	clone.Extra["img"] = json.RawMessage(`"new"`)

	assert.Equal(t, 1, *orig.ID)
	assert.Equal(t, []string{"X"}, orig.Type)
	assert.Equal(t, []string{"Y"}, orig.Weaknesses)
	assert.Equal(t, `"1 m"`, string(orig.Height))
	assert.Equal(t, `"001"`, string(orig.Extra["num"]))
	assert.NotContains(t, orig.Extra, "img")
}
