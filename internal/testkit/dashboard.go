package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing/fstest"

	"github.com/montanaflynn/stats"

	"salesdash/internal/normalize"
)

// Files is a generated dashboard_data directory: resource name → JSON body
type Files map[string][]byte

// Names lists the resources in lexical order
func (f Files) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FS exposes the resources as an in-memory filesystem
func (f Files) FS() fstest.MapFS {
	fsys := make(fstest.MapFS, len(f))
	for name, body := range f {
		fsys[name] = &fstest.MapFile{Data: body, Mode: 0o644}
	}
	return fsys
}

// WriteDir writes every resource into dir, creating it if needed
func (f Files) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	for name, body := range f {
		if err := os.WriteFile(filepath.Join(dir, name), body, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

// DefaultDashboard generates the catalogue for DefaultSalesConfig and
// aggregates it
func DefaultDashboard() (Files, error) {
	return BuildDashboard(NewSalesDataGenerator(DefaultSalesConfig()).GenerateProducts())
}

// Bucket edges are right-closed, matching the upstream pipeline; values
// outside every bucket land in the "nan" row.
var (
	priceBuckets    = []bucket{{"0-500", 0, 500}, {"500-1000", 500, 1000}, {"1000-2000", 1000, 2000}, {"2000-5000", 2000, 5000}, {"5000+", 5000, 1e18}}
	discountBuckets = []bucket{{"0-10%", 0, 10}, {"10-20%", 10, 20}, {"20-30%", 20, 30}, {"30-40%", 30, 40}, {"40-50%", 40, 50}, {"50%+", 50, 100}}
)

const nanLabel = "nan"

type bucket struct {
	label  string
	lo, hi float64
}

func bucketOf(buckets []bucket, v float64) string {
	for _, b := range buckets {
		if v > b.lo && v <= b.hi {
			return b.label
		}
	}
	return nanLabel
}

// BuildDashboard aggregates a catalogue into every resource the dashboard
// reads
func BuildDashboard(products []Product) (Files, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("no products to aggregate")
	}

	files := Files{}
	resources := map[string]interface{}{
		"summary_stats.json":                       summaryStats(products),
		"category_stats.json":                      categoryStats(products),
		"price_range_stats.json":                   rangeStats(products, priceBuckets, func(p Product) float64 { return p.DiscountedPrice }, "price_range"),
		"discount_stats.json":                      rangeStats(products, discountBuckets, func(p Product) float64 { return p.DiscountPercentage }, "discount_range"),
		"top_rated_products.json":                  topRated(products, 20),
		"insights_qa.json":                         qaItems(products),
		"insight_q1_avg_rating_by_category.json":   avgRatingByCategory(products),
		"insight_q2_top_products_by_category.json": topProductByCategory(products),
		"insight_q3_price_distribution.json":       priceDistribution(products),
		"insight_q4_avg_discount_by_category.json": avgDiscountByCategory(products),
		"insight_q5_popular_products.json":         popularProducts(products, 10),
		"insight_q6_keywords.json":                 keywords(products, 15),
		"insight_q7_popular_reviews.json":          reviewTitleCounts(products, 10),
		"insight_q8_correlation.json":              correlation(products, 200),
		"insight_q9_top5_categories.json":          topCategories(products, 5),
		"business_insights.json":                   businessInsights(products),
	}
	for name, v := range resources {
		body, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", name, err)
		}
		files[name] = body
	}
	return files, nil
}

func mean(values []float64) *float64 {
	m, err := stats.Mean(values)
	if err != nil {
		return nil
	}
	r := round(m, 2)
	return &r
}

func priced(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.DiscountedPrice > 0 {
			out = append(out, p)
		}
	}
	return out
}

func ratings(products []Product) []float64 {
	out := make([]float64, 0, len(products))
	for _, p := range products {
		out = append(out, p.Rating)
	}
	return out
}

type summaryJSON struct {
	TotalProducts   int     `json:"total_products"`
	TotalCategories int     `json:"total_categories"`
	AvgRating       float64 `json:"avg_rating"`
	AvgPrice        float64 `json:"avg_price"`
	AvgDiscount     float64 `json:"avg_discount"`
	TotalReviews    int     `json:"total_reviews"`
}

func summaryStats(products []Product) summaryJSON {
	var prices, discounts []float64
	for _, p := range priced(products) {
		prices = append(prices, p.DiscountedPrice)
	}
	reviews := 0
	for _, p := range products {
		discounts = append(discounts, p.DiscountPercentage)
		reviews += p.RatingCount
	}
	rating, _ := stats.Mean(ratings(products))
	price, _ := stats.Mean(prices)
	discount, _ := stats.Mean(discounts)
	return summaryJSON{
		TotalProducts:   len(products),
		TotalCategories: len(byCategory(products)),
		AvgRating:       rating,
		AvgPrice:        price,
		AvgDiscount:     discount,
		TotalReviews:    reviews,
	}
}

// byCategory groups products by full category path
func byCategory(products []Product) map[string][]Product {
	groups := map[string][]Product{}
	for _, p := range products {
		groups[p.Category] = append(groups[p.Category], p)
	}
	return groups
}

func sortedCategories(groups map[string][]Product) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type categoryJSON struct {
	Category     string   `json:"category"`
	AvgRating    *float64 `json:"avg_rating"`
	ProductCount int      `json:"product_count"`
	AvgPrice     *float64 `json:"avg_price"`
	AvgDiscount  *float64 `json:"avg_discount"`
	TotalReviews int      `json:"total_reviews"`
}

func categoryStats(products []Product) []categoryJSON {
	groups := byCategory(products)
	out := make([]categoryJSON, 0, len(groups))
	for _, name := range sortedCategories(groups) {
		group := groups[name]
		var prices, discounts []float64
		reviews := 0
		for _, p := range group {
			if p.DiscountedPrice > 0 {
				prices = append(prices, p.DiscountedPrice)
			}
			discounts = append(discounts, p.DiscountPercentage)
			reviews += p.RatingCount
		}
		out = append(out, categoryJSON{
			Category:     name,
			AvgRating:    mean(ratings(group)),
			ProductCount: len(group),
			AvgPrice:     mean(prices),
			AvgDiscount:  mean(discounts),
			TotalReviews: reviews,
		})
	}
	return out
}

// rangeStats buckets products by value. Every bucket is emitted in order,
// empty ones with a null rating; out-of-range values add a trailing "nan"
// row.
func rangeStats(products []Product, buckets []bucket, value func(Product) float64, labelField string) []map[string]interface{} {
	groups := map[string][]float64{}
	for _, p := range products {
		label := bucketOf(buckets, value(p))
		groups[label] = append(groups[label], p.Rating)
	}

	labels := make([]string, 0, len(buckets)+1)
	for _, b := range buckets {
		labels = append(labels, b.label)
	}
	if len(groups[nanLabel]) > 0 {
		labels = append(labels, nanLabel)
	}

	out := make([]map[string]interface{}, 0, len(labels))
	for _, label := range labels {
		out = append(out, map[string]interface{}{
			labelField:      label,
			"avg_rating":    mean(groups[label]),
			"product_count": len(groups[label]),
		})
	}
	return out
}

// topRatedJSON keeps the pipeline's *_clean column names
type topRatedJSON struct {
	ProductName          string   `json:"product_name"`
	Category             string   `json:"category"`
	RatingClean          float64  `json:"rating_clean"`
	RatingCountClean     int      `json:"rating_count_clean"`
	DiscountedPriceClean *float64 `json:"discounted_price_clean"`
}

func topRated(products []Product, n int) []topRatedJSON {
	sorted := append([]Product(nil), products...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rating > sorted[j].Rating })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]topRatedJSON, 0, len(sorted))
	for _, p := range sorted {
		row := topRatedJSON{
			ProductName:      p.Name,
			Category:         p.Category,
			RatingClean:      p.Rating,
			RatingCountClean: p.RatingCount,
		}
		if p.DiscountedPrice > 0 {
			price := p.DiscountedPrice
			row.DiscountedPriceClean = &price
		}
		out = append(out, row)
	}
	return out
}

type shortRatingJSON struct {
	CategoryShort string   `json:"category_short"`
	AvgRating     *float64 `json:"avg_rating"`
	ProductCount  int      `json:"product_count,omitempty"`
}

func categoryRatings(products []Product) []shortRatingJSON {
	groups := byCategory(products)
	out := make([]shortRatingJSON, 0, len(groups))
	for _, name := range sortedCategories(groups) {
		out = append(out, shortRatingJSON{
			CategoryShort: normalize.LastSegment(name),
			AvgRating:     mean(ratings(groups[name])),
			ProductCount:  len(groups[name]),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].AvgRating > *out[j].AvgRating })
	return out
}

func avgRatingByCategory(products []Product) []shortRatingJSON {
	out := categoryRatings(products)
	for i := range out {
		out[i].ProductCount = 0
	}
	return out
}

func topCategories(products []Product, n int) []shortRatingJSON {
	out := categoryRatings(products)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

type topProductJSON struct {
	Category    string  `json:"category"`
	ProductName string  `json:"product_name"`
	RatingCount int     `json:"rating_count"`
	Rating      float64 `json:"rating"`
}

func topProductByCategory(products []Product) []topProductJSON {
	groups := byCategory(products)
	out := make([]topProductJSON, 0, len(groups))
	for _, name := range sortedCategories(groups) {
		best := groups[name][0]
		for _, p := range groups[name][1:] {
			if p.RatingCount > best.RatingCount {
				best = p
			}
		}
		out = append(out, topProductJSON{
			Category:    normalize.LastSegment(name),
			ProductName: best.Name,
			RatingCount: best.RatingCount,
			Rating:      best.Rating,
		})
	}
	return out
}

type priceDistributionJSON struct {
	PriceRange      string `json:"price_range"`
	DiscountedCount int    `json:"discounted_count"`
	ActualCount     int    `json:"actual_count"`
}

func priceDistribution(products []Product) []priceDistributionJSON {
	discounted, actual := map[string]int{}, map[string]int{}
	for _, p := range products {
		discounted[bucketOf(priceBuckets, p.DiscountedPrice)]++
		actual[bucketOf(priceBuckets, p.ActualPrice)]++
	}
	out := make([]priceDistributionJSON, 0, len(priceBuckets)+1)
	for _, b := range priceBuckets {
		out = append(out, priceDistributionJSON{b.label, discounted[b.label], actual[b.label]})
	}
	if discounted[nanLabel] > 0 || actual[nanLabel] > 0 {
		out = append(out, priceDistributionJSON{nanLabel, discounted[nanLabel], actual[nanLabel]})
	}
	return out
}

type discountJSON struct {
	CategoryShort string   `json:"category_short"`
	AvgDiscount   *float64 `json:"avg_discount"`
}

func avgDiscountByCategory(products []Product) []discountJSON {
	groups := byCategory(products)
	out := make([]discountJSON, 0, len(groups))
	for _, name := range sortedCategories(groups) {
		var discounts []float64
		for _, p := range groups[name] {
			discounts = append(discounts, p.DiscountPercentage)
		}
		out = append(out, discountJSON{normalize.LastSegment(name), mean(discounts)})
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].AvgDiscount > *out[j].AvgDiscount })
	return out
}

type popularJSON struct {
	ProductNameShort string   `json:"product_name_short"`
	Occurrences      int      `json:"occurrences"`
	AvgRating        *float64 `json:"avg_rating"`
	TotalReviews     int      `json:"total_reviews"`
}

func popularProducts(products []Product, n int) []popularJSON {
	groups := map[string][]Product{}
	var order []string
	for _, p := range products {
		if _, seen := groups[p.Name]; !seen {
			order = append(order, p.Name)
		}
		groups[p.Name] = append(groups[p.Name], p)
	}

	out := make([]popularJSON, 0, len(order))
	for _, name := range order {
		reviews := 0
		for _, p := range groups[name] {
			reviews += p.RatingCount
		}
		out = append(out, popularJSON{
			ProductNameShort: shorten(name, 40),
			Occurrences:      len(groups[name]),
			AvgRating:        mean(ratings(groups[name])),
			TotalReviews:     reviews,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Occurrences != out[j].Occurrences {
			return out[i].Occurrences > out[j].Occurrences
		}
		return out[i].TotalReviews > out[j].TotalReviews
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

var stopWords = map[string]bool{"with": true, "for": true, "and": true, "the": true, "of": true, "pack": true, "2": true, "3": true, "1.5": true, "m": true}

type keywordJSON struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

func keywords(products []Product, n int) []keywordJSON {
	counts := map[string]int{}
	for _, p := range products {
		for _, word := range strings.Fields(strings.ToLower(p.Name)) {
			word = strings.Trim(word, "()")
			if len(word) < 2 || stopWords[word] {
				continue
			}
			counts[word]++
		}
	}
	return topCounts(counts, n, func(k string, c int) keywordJSON { return keywordJSON{k, c} })
}

type reviewTitleJSON struct {
	ReviewTitleShort string `json:"review_title_short"`
	Count            int    `json:"count"`
}

func reviewTitleCounts(products []Product, n int) []reviewTitleJSON {
	counts := map[string]int{}
	for _, p := range products {
		counts[shorten(p.ReviewTitle, 40)]++
	}
	return topCounts(counts, n, func(k string, c int) reviewTitleJSON { return reviewTitleJSON{k, c} })
}

// topCounts orders a frequency table by count, then key
func topCounts[T any](counts map[string]int, n int, row func(string, int) T) []T {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, row(k, counts[k]))
	}
	return out
}

type scatterPointJSON struct {
	Price  float64 `json:"price"`
	Rating float64 `json:"rating"`
}

type correlationJSON struct {
	Correlation float64            `json:"correlation"`
	Scatter     []scatterPointJSON `json:"scatter"`
}

func correlation(products []Product, sample int) correlationJSON {
	withPrice := priced(products)
	var prices []float64
	for _, p := range withPrice {
		prices = append(prices, p.DiscountedPrice)
	}
	out := correlationJSON{Scatter: []scatterPointJSON{}}
	if res, ok := PearsonTest(prices, ratings(withPrice)); ok {
		out.Correlation = round(res.Statistic, 3)
	}

	step := 1
	if len(withPrice) > sample {
		step = len(withPrice) / sample
	}
	for i := 0; i < len(withPrice) && len(out.Scatter) < sample; i += step {
		out.Scatter = append(out.Scatter, scatterPointJSON{withPrice[i].DiscountedPrice, withPrice[i].Rating})
	}
	return out
}

// shorten cuts s to max runes with an ellipsis
func shorten(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// orderedObject is a JSON object that keeps insertion order
type orderedObject struct {
	keys   []string
	values map[string]interface{}
}

func (o *orderedObject) Set(key string, value interface{}) {
	if o.values == nil {
		o.values = map[string]interface{}{}
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(o.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
