package dataset

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShapes(t *testing.T) {
	ds, err := Parse("category_stats.json", []byte(`[{"category":"A","product_count":3}, 7, {"category":"B"}]`))
	require.NoError(t, err)
	assert.Equal(t, ShapeRows, ds.Shape())
	assert.Len(t, ds.Rows(), 2)
	_, ok := ds.Envelope()
	assert.False(t, ok)

	ds, err = Parse("insight_q8_correlation.json", []byte(`{"correlation": 0.1, "scatter": []}`))
	require.NoError(t, err)
	assert.Equal(t, ShapeEnvelope, ds.Shape())
	env, ok := ds.Envelope()
	require.True(t, ok)
	assert.Equal(t, []string{"correlation", "scatter"}, env.Keys())
	assert.False(t, ds.IsEmpty())

	for _, body := range []string{`{"a":`, `42`, `"text"`, `null`} {
		_, err := Parse("x.json", []byte(body))
		assert.Error(t, err, body)
	}

	ds, err = Parse("empty.json", []byte(`[]`))
	require.NoError(t, err)
	assert.True(t, ds.IsEmpty())
}

func TestRowKeepsKeyOrderAndLiteralNames(t *testing.T) {
	row := RowFromJSON(`{"zeta": 1, "alpha": null, "a.b": "dotted"}`)
	assert.Equal(t, []string{"zeta", "alpha", "a.b"}, row.Keys())
	assert.True(t, row.Has("zeta"))
	assert.False(t, row.Has("alpha"))
	assert.Equal(t, "dotted", row.Get("a.b").String())

	out, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta": 1, "alpha": null, "a.b": "dotted"}`, string(out))

	assert.True(t, RowFromJSON(`[1,2]`).IsEmpty())
	assert.Equal(t, "{}", Row{}.Raw())
}

func TestNumberNeverHoldsNonFinite(t *testing.T) {
	assert.False(t, Some(math.NaN()).Valid())
	assert.False(t, Some(math.Inf(-1)).Valid())
	assert.Equal(t, AbsentMarker, Absent().String())
	assert.Equal(t, "4.25", Some(4.25).String())
	assert.Equal(t, 0.0, Absent().Float())

	out, err := json.Marshal([]Number{Some(3), Absent()})
	require.NoError(t, err)
	assert.Equal(t, `[3,"N/A"]`, string(out))
}
