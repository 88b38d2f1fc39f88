package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptorValidate(t *testing.T) {
	chart := Descriptor{
		ID:         "price-range",
		DatasetRef: "price_range_stats.json",
		RenderKind: DualAxisBarLine,
		X:          "price_range",
		Series: []Series{
			{Field: "product_count", Name: "Product Count"},
			{Field: "avg_rating", Name: "Avg Rating", Type: "line", Axis: "right"},
		},
	}
	assert.NoError(t, chart.Validate())

	noRight := chart
	noRight.Series = chart.Series[:1]
	assert.Error(t, noRight.Validate())

	assert.Error(t, Descriptor{ID: "x", RenderKind: RankedTable}.Validate())
	assert.Error(t, Descriptor{ID: "x", DatasetRef: "x.json", RenderKind: "pie"}.Validate())
	assert.Error(t, Descriptor{ID: "x", DatasetRef: "x.json", RenderKind: RankedTable}.Validate())
	assert.Error(t, Descriptor{ID: "x", DatasetRef: "x.json", RenderKind: ScatterWithStatistic}.Validate())

	table := Descriptor{
		ID:         "top-products",
		DatasetRef: "top_rated_products.json",
		RenderKind: RankedTable,
		Normalize:  "product",
		Columns:    []Column{{Field: "name", Header: "Product", Format: FormatTruncate}},
		Adapt:      Adapt{TopN: &TopN{Count: "rating_count"}},
	}
	assert.Error(t, table.Validate())
	table.Adapt = Adapt{Limit: 15}
	assert.NoError(t, table.Validate())
	table.Normalize = "review"
	assert.Error(t, table.Validate())
}

func TestRenderKindValid(t *testing.T) {
	for _, k := range RenderKinds {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, RenderKind("pie").Valid())
	assert.True(t, HorizontalBar.IsChart())
	assert.False(t, ScatterWithStatistic.IsChart())
}
