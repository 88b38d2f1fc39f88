package insight

import (
	"fmt"
	"strings"

	"salesdash/domain/dataset"
	"salesdash/internal/normalize"

	"github.com/tidwall/gjson"
)

// MetricLine is one labelled figure on a hypothesis card
type MetricLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func (m MetricLine) String() string {
	return m.Label + ": " + m.Value
}

// Payload is the per-id metric block of a hypothesis result. The set of
// implementations is closed; each one knows the fields it surfaces and how
// to present them.
type Payload interface {
	InsightID() ID
	// Fields lists the metric fields this payload surfaces, in display order
	Fields() []string
	MetricLines() []MetricLine
	sealed()
}

// DiscountRatingPayload (insight1) compares ratings of high and low
// discount products.
type DiscountRatingPayload struct {
	HighDiscountMean  dataset.Number `json:"high_discount_mean"`
	HighDiscountCount dataset.Number `json:"high_discount_count"`
	LowDiscountMean   dataset.Number `json:"low_discount_mean"`
	LowDiscountCount  dataset.Number `json:"low_discount_count"`
	TStatistic        dataset.Number `json:"t_statistic"`
}

func (DiscountRatingPayload) InsightID() ID { return Insight1 }
func (DiscountRatingPayload) sealed()       {}

func (DiscountRatingPayload) Fields() []string {
	return []string{"high_discount_mean", "high_discount_count", "low_discount_mean", "low_discount_count", "t_statistic"}
}

func (p DiscountRatingPayload) MetricLines() []MetricLine {
	return []MetricLine{
		{"High discount (≥30%) mean rating", withCount(p.HighDiscountMean, p.HighDiscountCount)},
		{"Low discount (<30%) mean rating", withCount(p.LowDiscountMean, p.LowDiscountCount)},
		{"t-statistic", normalize.Plain(p.TStatistic)},
	}
}

// DiscountReviewsPayload (insight2) compares review volume by discount level
type DiscountReviewsPayload struct {
	HighDiscountMeanReviews dataset.Number `json:"high_discount_mean_reviews"`
	LowDiscountMeanReviews  dataset.Number `json:"low_discount_mean_reviews"`
	TStatistic              dataset.Number `json:"t_statistic"`
}

func (DiscountReviewsPayload) InsightID() ID { return Insight2 }
func (DiscountReviewsPayload) sealed()       {}

func (DiscountReviewsPayload) Fields() []string {
	return []string{"high_discount_mean_reviews", "low_discount_mean_reviews", "t_statistic"}
}

func (p DiscountReviewsPayload) MetricLines() []MetricLine {
	return []MetricLine{
		{"High discount mean reviews", normalize.Locale(p.HighDiscountMeanReviews)},
		{"Low discount mean reviews", normalize.Locale(p.LowDiscountMeanReviews)},
		{"t-statistic", normalize.Plain(p.TStatistic)},
	}
}

// CategoryRatingPayload (insight3) compares the best and worst rated
// categories. A nil category list means the field was missing.
type CategoryRatingPayload struct {
	TopCategoriesMean    dataset.Number `json:"top_categories_mean"`
	BottomCategoriesMean dataset.Number `json:"bottom_categories_mean"`
	TopCategories        []string       `json:"top_categories"`
	BottomCategories     []string       `json:"bottom_categories"`
	TStatistic           dataset.Number `json:"t_statistic"`
}

func (CategoryRatingPayload) InsightID() ID { return Insight3 }
func (CategoryRatingPayload) sealed()       {}

func (CategoryRatingPayload) Fields() []string {
	return []string{"top_categories_mean", "bottom_categories_mean", "top_categories", "bottom_categories", "t_statistic"}
}

func (p CategoryRatingPayload) MetricLines() []MetricLine {
	return []MetricLine{
		{"Top categories mean rating", normalize.Plain(p.TopCategoriesMean)},
		{"Bottom categories mean rating", normalize.Plain(p.BottomCategoriesMean)},
		{"Top categories", joinList(p.TopCategories)},
		{"Bottom categories", joinList(p.BottomCategories)},
		{"t-statistic", normalize.Plain(p.TStatistic)},
	}
}

// TierMeans holds the mean rating per price tier
type TierMeans struct {
	Low  dataset.Number `json:"Low"`
	Mid  dataset.Number `json:"Mid"`
	High dataset.Number `json:"High"`
}

// PriceTierPayload (insight4) is a one-way ANOVA over price tiers
type PriceTierPayload struct {
	TierMeans  TierMeans      `json:"tier_means"`
	FStatistic dataset.Number `json:"f_statistic"`
}

func (PriceTierPayload) InsightID() ID { return Insight4 }
func (PriceTierPayload) sealed()       {}

func (PriceTierPayload) Fields() []string {
	return []string{"tier_means", "f_statistic"}
}

func (p PriceTierPayload) MetricLines() []MetricLine {
	tiers := fmt.Sprintf("Low: %s, Mid: %s, High: %s",
		normalize.Plain(p.TierMeans.Low),
		normalize.Plain(p.TierMeans.Mid),
		normalize.Plain(p.TierMeans.High))
	return []MetricLine{
		{"Price tier means", tiers},
		{"F-statistic", normalize.Plain(p.FStatistic)},
	}
}

// KeyedNumber is one entry of an ordered numeric mapping
type KeyedNumber struct {
	Key   string         `json:"key"`
	Value dataset.Number `json:"value"`
}

// CategoryDiscountPayload (insight5) is a one-way ANOVA of discount across
// categories. Means keep the upstream key order.
type CategoryDiscountPayload struct {
	CategoryDiscountMeans []KeyedNumber  `json:"category_discount_means"`
	FStatistic            dataset.Number `json:"f_statistic"`
}

func (CategoryDiscountPayload) InsightID() ID { return Insight5 }
func (CategoryDiscountPayload) sealed()       {}

func (CategoryDiscountPayload) Fields() []string {
	return []string{"category_discount_means", "f_statistic"}
}

func (p CategoryDiscountPayload) MetricLines() []MetricLine {
	means := dataset.AbsentMarker
	if len(p.CategoryDiscountMeans) > 0 {
		parts := make([]string, 0, len(p.CategoryDiscountMeans))
		for _, kv := range p.CategoryDiscountMeans {
			parts = append(parts, kv.Key+": "+normalize.Percent(kv.Value))
		}
		means = strings.Join(parts, ", ")
	}
	return []MetricLine{
		{"Category discount means", means},
		{"F-statistic", normalize.Plain(p.FStatistic)},
	}
}

// CorrelationPayload (insight6) carries the price/rating correlation
type CorrelationPayload struct {
	Correlation dataset.Number `json:"correlation"`
}

func (CorrelationPayload) InsightID() ID { return Insight6 }
func (CorrelationPayload) sealed()       {}

func (CorrelationPayload) Fields() []string {
	return []string{"correlation"}
}

func (p CorrelationPayload) MetricLines() []MetricLine {
	return []MetricLine{
		{"Correlation coefficient", normalize.Plain(p.Correlation)},
	}
}

// PopularityPayload (insight7) compares ratings of the most reviewed
// products against the rest.
type PopularityPayload struct {
	TopProductsMean    dataset.Number `json:"top_products_mean"`
	TopProductsCount   dataset.Number `json:"top_products_count"`
	OtherProductsMean  dataset.Number `json:"other_products_mean"`
	OtherProductsCount dataset.Number `json:"other_products_count"`
	TStatistic         dataset.Number `json:"t_statistic"`
}

func (PopularityPayload) InsightID() ID { return Insight7 }
func (PopularityPayload) sealed()       {}

func (PopularityPayload) Fields() []string {
	return []string{"top_products_mean", "top_products_count", "other_products_mean", "other_products_count", "t_statistic"}
}

func (p PopularityPayload) MetricLines() []MetricLine {
	return []MetricLine{
		{"Top products mean rating", withCount(p.TopProductsMean, p.TopProductsCount)},
		{"Other products mean rating", withCount(p.OtherProductsMean, p.OtherProductsCount)},
		{"t-statistic", normalize.Plain(p.TStatistic)},
	}
}

// payloadDecoders is the tag table. HypothesisIDs and this map must agree.
var payloadDecoders = map[ID]func(dataset.Row) Payload{
	Insight1: func(r dataset.Row) Payload {
		return DiscountRatingPayload{
			HighDiscountMean:  normalize.NumberField(r, "high_discount_mean"),
			HighDiscountCount: normalize.NumberField(r, "high_discount_count"),
			LowDiscountMean:   normalize.NumberField(r, "low_discount_mean"),
			LowDiscountCount:  normalize.NumberField(r, "low_discount_count"),
			TStatistic:        normalize.NumberField(r, "t_statistic"),
		}
	},
	Insight2: func(r dataset.Row) Payload {
		return DiscountReviewsPayload{
			HighDiscountMeanReviews: normalize.NumberField(r, "high_discount_mean_reviews"),
			LowDiscountMeanReviews:  normalize.NumberField(r, "low_discount_mean_reviews"),
			TStatistic:              normalize.NumberField(r, "t_statistic"),
		}
	},
	Insight3: func(r dataset.Row) Payload {
		top, _ := normalize.StringList(r, "top_categories")
		bottom, _ := normalize.StringList(r, "bottom_categories")
		return CategoryRatingPayload{
			TopCategoriesMean:    normalize.NumberField(r, "top_categories_mean"),
			BottomCategoriesMean: normalize.NumberField(r, "bottom_categories_mean"),
			TopCategories:        top,
			BottomCategories:     bottom,
			TStatistic:           normalize.NumberField(r, "t_statistic"),
		}
	},
	Insight4: func(r dataset.Row) Payload {
		tiers := dataset.NewRow(r.Get("tier_means"))
		return PriceTierPayload{
			TierMeans: TierMeans{
				Low:  normalize.NumberField(tiers, "Low"),
				Mid:  normalize.NumberField(tiers, "Mid"),
				High: normalize.NumberField(tiers, "High"),
			},
			FStatistic: normalize.NumberField(r, "f_statistic"),
		}
	},
	Insight5: func(r dataset.Row) Payload {
		var means []KeyedNumber
		r.Get("category_discount_means").ForEach(func(key, value gjson.Result) bool {
			means = append(means, KeyedNumber{Key: key.String(), Value: normalize.ToNumber(value)})
			return true
		})
		return CategoryDiscountPayload{
			CategoryDiscountMeans: means,
			FStatistic:            normalize.NumberField(r, "f_statistic"),
		}
	},
	Insight6: func(r dataset.Row) Payload {
		return CorrelationPayload{Correlation: normalize.NumberField(r, "correlation")}
	},
	Insight7: func(r dataset.Row) Payload {
		return PopularityPayload{
			TopProductsMean:    normalize.NumberField(r, "top_products_mean"),
			TopProductsCount:   normalize.NumberField(r, "top_products_count"),
			OtherProductsMean:  normalize.NumberField(r, "other_products_mean"),
			OtherProductsCount: normalize.NumberField(r, "other_products_count"),
			TStatistic:         normalize.NumberField(r, "t_statistic"),
		}
	},
}

// DecodePayload builds the payload tagged by id. Unknown ids report false.
func DecodePayload(id ID, row dataset.Row) (Payload, bool) {
	decode, ok := payloadDecoders[id]
	if !ok {
		return nil, false
	}
	return decode(row), true
}

// IsHypothesis reports whether id carries a hypothesis payload
func IsHypothesis(id ID) bool {
	_, ok := payloadDecoders[id]
	return ok
}

func withCount(mean, count dataset.Number) string {
	return fmt.Sprintf("%s (n=%s)", normalize.Plain(mean), normalize.Plain(count))
}

func joinList(items []string) string {
	if items == nil {
		return dataset.AbsentMarker
	}
	return strings.Join(items, ", ")
}
