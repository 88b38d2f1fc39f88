package insight

import (
	"testing"

	"salesdash/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryHypothesisIDHasPayload(t *testing.T) {
	require.Len(t, payloadDecoders, len(HypothesisIDs))
	for _, id := range HypothesisIDs {
		p, ok := DecodePayload(id, dataset.RowFromJSON(`{}`))
		require.True(t, ok, id)
		assert.Equal(t, id, p.InsightID())
		assert.NotEmpty(t, p.Fields())
		assert.NotEmpty(t, p.MetricLines())
	}
}

func TestDecodePayloadUnknownID(t *testing.T) {
	p, ok := DecodePayload("insight99", dataset.RowFromJSON(`{"correlation": 1}`))
	assert.False(t, ok)
	assert.Nil(t, p)
	assert.False(t, IsHypothesis("q1"))
}

func TestCorrelationSurfacesOnlyCorrelation(t *testing.T) {
	row := dataset.RowFromJSON(`{"id": "insight6", "correlation": 0.105, "p_value": 0.0023, "significant": true, "t_statistic": 9.9}`)

	r, ok := DecodeResult(row)
	require.True(t, ok)
	assert.Equal(t, "Significant (p = 2.30e-3)", r.Badge())
	assert.Equal(t, []string{"correlation"}, r.Payload.Fields())
	assert.Equal(t, []MetricLine{{Label: "Correlation coefficient", Value: "0.105"}}, r.Payload.MetricLines())
}

func TestBadgeFollowsFlagNotPValue(t *testing.T) {
	r, ok := DecodeResult(dataset.RowFromJSON(`{"id": "insight2", "p_value": 0.0001, "significant": false}`))
	require.True(t, ok)
	assert.Equal(t, "Not Significant (p = 1.00e-4)", r.Badge())

	r, ok = DecodeResult(dataset.RowFromJSON(`{"id": "insight2", "p_value": 0.9, "significant": true}`))
	require.True(t, ok)
	assert.Equal(t, "Significant (p = 9.00e-1)", r.Badge())

	r, ok = DecodeResult(dataset.RowFromJSON(`{"id": "insight2", "significant": true}`))
	require.True(t, ok)
	assert.Equal(t, "Significant (p = N/A)", r.Badge())
}

func TestDiscountRatingLines(t *testing.T) {
	r, ok := DecodeResult(dataset.RowFromJSON(`{
		"id": "insight1",
		"question": "Do deeper discounts lower ratings?",
		"test": "Welch t-test",
		"high_discount_mean": 4.08,
		"high_discount_count": 800,
		"low_discount_mean": 4.15,
		"t_statistic": -3.1
	}`))
	require.True(t, ok)
	assert.Equal(t, "Welch t-test", r.TestName)

	lines := r.Payload.MetricLines()
	require.Len(t, lines, 3)
	assert.Equal(t, "High discount (≥30%) mean rating: 4.08 (n=800)", lines[0].String())
	assert.Equal(t, "Low discount (<30%) mean rating: 4.15 (n=N/A)", lines[1].String())
	assert.Equal(t, "t-statistic: -3.1", lines[2].String())
}

func TestDiscountReviewsUsesThousandsSeparators(t *testing.T) {
	p, _ := DecodePayload(Insight2, dataset.RowFromJSON(`{"high_discount_mean_reviews": 21503.25, "low_discount_mean_reviews": 9120}`))
	lines := p.MetricLines()
	assert.Equal(t, "21,503.25", lines[0].Value)
	assert.Equal(t, "9,120", lines[1].Value)
	assert.Equal(t, "N/A", lines[2].Value)
}

func TestCategoryRatingLists(t *testing.T) {
	p, _ := DecodePayload(Insight3, dataset.RowFromJSON(`{"top_categories": ["Tablets", "Memory"], "top_categories_mean": 4.4}`))
	lines := p.MetricLines()
	assert.Equal(t, "Tablets, Memory", lines[2].Value)
	assert.Equal(t, "N/A", lines[3].Value)

	p, _ = DecodePayload(Insight3, dataset.RowFromJSON(`{"top_categories": []}`))
	assert.Equal(t, "", p.MetricLines()[2].Value)
}

func TestPriceTierMeans(t *testing.T) {
	p, _ := DecodePayload(Insight4, dataset.RowFromJSON(`{"tier_means": {"Low": 4.05, "High": 4.12}, "f_statistic": 2.7}`))
	lines := p.MetricLines()
	assert.Equal(t, "Low: 4.05, Mid: N/A, High: 4.12", lines[0].Value)
	assert.Equal(t, "F-statistic: 2.7", lines[1].String())

	p, _ = DecodePayload(Insight4, dataset.RowFromJSON(`{"tier_means": "oops"}`))
	assert.Equal(t, "Low: N/A, Mid: N/A, High: N/A", p.MetricLines()[0].Value)
}

func TestCategoryDiscountKeepsKeyOrder(t *testing.T) {
	p, _ := DecodePayload(Insight5, dataset.RowFromJSON(`{"category_discount_means": {"Electronics": 51.2, "Computers": 48, "Home": null}, "f_statistic": 12.3}`))
	lines := p.MetricLines()
	assert.Equal(t, "Electronics: 51.2%, Computers: 48%, Home: N/A", lines[0].Value)

	p, _ = DecodePayload(Insight5, dataset.RowFromJSON(`{}`))
	assert.Equal(t, "N/A", p.MetricLines()[0].Value)
}

func TestPopularityLines(t *testing.T) {
	p, _ := DecodePayload(Insight7, dataset.RowFromJSON(`{"top_products_mean": 4.3, "top_products_count": 135, "other_products_mean": 4.08, "other_products_count": 1216, "t_statistic": 7.2}`))
	lines := p.MetricLines()
	assert.Equal(t, "4.3 (n=135)", lines[0].Value)
	assert.Equal(t, "4.08 (n=1216)", lines[1].Value)
}
