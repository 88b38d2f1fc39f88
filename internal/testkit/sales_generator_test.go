package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorIsDeterministic(t *testing.T) {
	cfg := DefaultSalesConfig()
	cfg.ProductCount = 200

	a := NewSalesDataGenerator(cfg).GenerateProducts()
	b := NewSalesDataGenerator(cfg).GenerateProducts()
	require.Len(t, a, 200)
	assert.Equal(t, a, b)

	cfg.Seed++
	c := NewSalesDataGenerator(cfg).GenerateProducts()
	assert.NotEqual(t, a, c)
}

func TestGeneratedProductsAreClean(t *testing.T) {
	products := NewSalesDataGenerator(DefaultSalesConfig()).GenerateProducts()

	missing := 0
	for _, p := range products {
		assert.NotEmpty(t, p.Name)
		assert.Contains(t, p.Category, "|")
		assert.GreaterOrEqual(t, p.Rating, 2.0)
		assert.LessOrEqual(t, p.Rating, 5.0)
		assert.GreaterOrEqual(t, p.DiscountPercentage, 0.0)
		assert.Less(t, p.DiscountPercentage, 100.0)
		assert.GreaterOrEqual(t, p.ActualPrice, 99.0)
		if p.DiscountedPrice == 0 {
			missing++
		} else {
			assert.LessOrEqual(t, p.DiscountedPrice, p.ActualPrice)
		}
	}
	assert.Less(t, missing, len(products)/20)
}

func TestWelchT(t *testing.T) {
	same := []float64{1, 2, 3, 4, 5}
	res, ok := WelchT(same, same)
	require.True(t, ok)
	assert.InDelta(t, 0, res.Statistic, 1e-9)
	assert.InDelta(t, 1, res.PValue, 1e-9)
	assert.False(t, res.Significant())

	res, ok = WelchT([]float64{10, 11, 12, 10, 11, 12}, []float64{1, 2, 3, 1, 2, 3})
	require.True(t, ok)
	assert.Greater(t, res.Statistic, 0.0)
	assert.True(t, res.Significant())

	_, ok = WelchT([]float64{1}, same)
	assert.False(t, ok)
}

func TestOneWayANOVA(t *testing.T) {
	res, ok := OneWayANOVA([][]float64{{1, 2, 3}, {1, 2, 3}, {1, 2, 3}})
	require.True(t, ok)
	assert.InDelta(t, 0, res.Statistic, 1e-9)
	assert.InDelta(t, 1, res.PValue, 1e-9)

	res, ok = OneWayANOVA([][]float64{{1, 2, 1, 2}, {8, 9, 8, 9}, {}})
	require.True(t, ok)
	assert.True(t, res.Significant())

	_, ok = OneWayANOVA([][]float64{{1, 2, 3}})
	assert.False(t, ok)
}

func TestPearsonTest(t *testing.T) {
	res, ok := PearsonTest([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	require.True(t, ok)
	assert.InDelta(t, 1, res.Statistic, 1e-9)
	assert.InDelta(t, 0, res.PValue, 1e-9)

	_, ok = PearsonTest([]float64{1, 2}, []float64{1, 2})
	assert.False(t, ok)
}
