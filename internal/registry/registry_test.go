package registry

import (
	"os"
	"path/filepath"
	"testing"

	"salesdash/domain/insight"
	"salesdash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	ids := r.IDs()
	assert.Equal(t, insight.ID("category-performance"), ids[0])
	assert.Equal(t, 20, r.Len())

	for _, id := range []insight.ID{"category-performance", "price-range", "discount-distribution", "top-products",
		"q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8", "q9"} {
		_, ok := r.Lookup(id)
		assert.True(t, ok, id)
	}

	_, ok := r.Lookup("insight99")
	assert.False(t, ok)
}

func TestHypothesisDescriptorsPairWithPayloads(t *testing.T) {
	r := MustDefault()

	cards := r.ByKind(insight.CompositeHypothesisCard)
	require.Len(t, cards, len(insight.HypothesisIDs))
	for i, d := range cards {
		assert.Equal(t, insight.HypothesisIDs[i], d.ID)
		assert.Equal(t, "business_insights.json", d.DatasetRef)
	}

	d, _ := r.Lookup(insight.Insight6)
	assert.Equal(t, []string{"correlation"}, d.RequiredFields)
}

func TestDefaultDescriptorDetails(t *testing.T) {
	r := MustDefault()

	d, _ := r.Lookup("category-performance")
	require.NotNil(t, d.Adapt.TopN)
	assert.Equal(t, 10, d.Adapt.TopN.N)
	assert.Equal(t, "#3b82f6", d.Series[0].Color)

	d, _ = r.Lookup("price-range")
	assert.Equal(t, insight.DualAxisBarLine, d.RenderKind)
	assert.Equal(t, "price_range", d.Adapt.Sentinel)
	assert.Equal(t, "right", d.Series[1].Axis)

	d, _ = r.Lookup("top-products")
	assert.Equal(t, 15, d.Adapt.Limit)
	assert.Equal(t, " ★", d.Columns[2].Suffix)

	d, _ = r.Lookup("q8")
	require.NotNil(t, d.Points)
	assert.Equal(t, 1.0, d.Points.YMin)
	assert.Equal(t, "star", mustLookup(t, r, "q1").Icon)
}

func mustLookup(t *testing.T, r *Registry, id insight.ID) insight.Descriptor {
	t.Helper()
	d, ok := r.Lookup(id)
	require.True(t, ok, id)
	return d
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"empty":   `insights: []`,
		"garbage": `insights: [`,
		"dup": `
insights:
  - {id: a, dataset: a.json, render: ranked-table, columns: [{field: x, header: X}]}
  - {id: a, dataset: a.json, render: ranked-table, columns: [{field: x, header: X}]}`,
		"card without payload": `
insights:
  - {id: insight99, dataset: b.json, render: composite-hypothesis-card, fields: [x]}`,
		"payload rendered as table": `
insights:
  - {id: insight1, dataset: b.json, render: ranked-table, columns: [{field: x, header: X}]}`,
		"field mismatch": `
insights:
  - {id: insight6, dataset: b.json, render: composite-hypothesis-card, fields: [correlation, t_statistic]}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
insights:
  - {id: q6, dataset: kw.json, render: horizontal-bar, x: keyword, series: [{field: count, name: Count}]}
`), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []insight.ID{"q6"}, r.IDs())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	r, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, r.Len())
}
