package normalize

import (
	"math"
	"testing"

	"salesdash/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingPrecedence(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"primary only", `{"rating": 4.2}`, "4.2"},
		{"clean only", `{"rating_clean": 3.9}`, "3.9"},
		{"both present, primary wins", `{"rating_clean": 3.9, "rating": 4.2}`, "4.2"},
		{"primary null falls through", `{"rating": null, "rating_clean": 3.9}`, "3.9"},
		{"numeric string", `{"rating": "4.1"}`, "4.1"},
		{"malformed primary does not fall through", `{"rating": "abc", "rating_clean": 3.9}`, "N/A"},
		{"neither", `{"name": "x"}`, "N/A"},
		{"array", `{"rating": [1, 2]}`, "N/A"},
		{"bool", `{"rating": true}`, "N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rating(dataset.RowFromJSON(tt.row))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestEachNumericFieldResolvesClean(t *testing.T) {
	row := dataset.RowFromJSON(`{
		"rating_count_clean": 24269,
		"discounted_price_clean": 399,
		"actual_price_clean": "1,099",
		"discount_percentage_clean": 64
	}`)

	assert.Equal(t, 24269.0, RatingCount(row).Float())
	assert.Equal(t, 399.0, Price(row).Float())
	assert.Equal(t, 1099.0, ActualPrice(row).Float())
	assert.Equal(t, 64.0, DiscountPercent(row).Float())
}

func TestNumericFieldsNeverNaN(t *testing.T) {
	rows := []string{
		`{}`,
		`{"rating": null}`,
		`{"rating": "NaN", "rating_count": "Infinity", "discounted_price": "-Inf"}`,
		`{"rating": {}, "rating_count": [], "discounted_price": false}`,
		`{"rating": "", "rating_count": " ", "discounted_price": "12abc"}`,
	}
	for _, raw := range rows {
		p := Product(dataset.RowFromJSON(raw))
		for _, n := range []dataset.Number{p.Rating, p.RatingCount, p.Price, p.ActualPrice, p.DiscountPercent} {
			v, ok := n.Value()
			if ok {
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), raw)
			} else {
				assert.Equal(t, "N/A", n.String(), raw)
			}
		}
	}
}

func TestCategoryShortensToLastSegment(t *testing.T) {
	row := dataset.RowFromJSON(`{"category": "Electronics|Mobile|Accessories"}`)
	assert.Equal(t, "Accessories", Category(row))

	assert.Equal(t, "Computers", Category(dataset.RowFromJSON(`{"category": "Computers"}`)))
	assert.Equal(t, "Home|", Category(dataset.RowFromJSON(`{"category": "Home|"}`)))
	assert.Equal(t, "", Category(dataset.RowFromJSON(`{}`)))
}

func TestNamePassthrough(t *testing.T) {
	assert.Equal(t, "boAt Rockerz 255", Name(dataset.RowFromJSON(`{"product_name": "boAt Rockerz 255"}`)))
	assert.Equal(t, "", Name(dataset.RowFromJSON(`{"product_name": null}`)))
	assert.Equal(t, "42", Name(dataset.RowFromJSON(`{"product_name": 42}`)))
}

func TestProductFromPipelineRow(t *testing.T) {
	row := dataset.RowFromJSON(`{
		"product_name": "Wayona Nylon Braided USB to Lightning Fast Charging Cable",
		"category": "Computers&Accessories|Accessories&Peripherals|Cables&Accessories|Cables|USBCables",
		"rating_clean": 4.2,
		"rating_count_clean": 24269,
		"discounted_price_clean": 399
	}`)

	p := Product(row)
	assert.Equal(t, "USBCables", p.Category)
	assert.Equal(t, "4.2", p.Rating.String())
	assert.Equal(t, "24269", p.RatingCount.String())
	assert.Equal(t, "399", p.Price.String())
	assert.False(t, p.ActualPrice.Valid())
}

func TestSummary(t *testing.T) {
	ds, err := dataset.Parse("summary_stats.json", []byte(`{
		"total_products": 1351,
		"total_categories": 211,
		"avg_rating": 4.096,
		"avg_price": 3125.31,
		"avg_discount": null
	}`))
	require.NoError(t, err)

	s := Summary(ds)
	assert.Equal(t, 1351.0, s.TotalProducts.Float())
	assert.Equal(t, 4.096, s.AvgRating.Float())
	assert.False(t, s.AvgDiscount.Valid())
	assert.False(t, s.TotalReviews.Valid())

	rows, err := dataset.Parse("x.json", []byte(`[{"total_products": 1}]`))
	require.NoError(t, err)
	assert.False(t, Summary(rows).TotalProducts.Valid())
}

func TestQAItemsSkipIncomplete(t *testing.T) {
	ds, err := dataset.Parse("insights_qa.json", []byte(`[
		{"id": "q1", "cardTitle": "Ratings by category", "question": "Which categories rate best?", "answer": "**Home**"},
		{"id": "q2", "question": "Top products?", "answer": "See table"},
		{"question": "orphan"},
		{"id": "q3"}
	]`))
	require.NoError(t, err)

	items := QAItems(ds)
	require.Len(t, items, 2)
	assert.Equal(t, "Ratings by category", items[0].CardTitle)
	assert.Equal(t, "", items[1].CardTitle)
}

func TestStringList(t *testing.T) {
	row := dataset.RowFromJSON(`{"top": ["a", "b", 3], "scalar": "x"}`)

	list, ok := StringList(row, "top")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "3"}, list)

	_, ok = StringList(row, "scalar")
	assert.False(t, ok)
	_, ok = StringList(row, "missing")
	assert.False(t, ok)
}
