// Package normalize resolves the field-name variants emitted by the upstream
// pipeline into one canonical value per logical field.
//
// Every canonical field has a fixed resolution order: the primary name wins
// when present and non-null, then the later "clean" name, then a default
// (numbers: absent, rendered "N/A"; strings: passed through unchanged).
// Nothing in this package panics on malformed input.
package normalize

import (
	"strconv"
	"strings"

	"salesdash/domain/dataset"

	"github.com/tidwall/gjson"
)

// Variant is the ordered list of names a logical field has been published
// under. Earlier names take precedence.
type Variant struct {
	Canonical string
	Names     []string
}

// Known field variants. Precedence is old name first; reversing it changes
// displayed figures whenever both names are present.
var (
	RatingField          = Variant{Canonical: "rating", Names: []string{"rating", "rating_clean"}}
	RatingCountField     = Variant{Canonical: "rating_count", Names: []string{"rating_count", "rating_count_clean"}}
	PriceField           = Variant{Canonical: "price", Names: []string{"discounted_price", "discounted_price_clean"}}
	ActualPriceField     = Variant{Canonical: "actual_price", Names: []string{"actual_price", "actual_price_clean"}}
	DiscountPercentField = Variant{Canonical: "discount_percent", Names: []string{"discount_percentage", "discount_percentage_clean"}}
	NameField            = Variant{Canonical: "name", Names: []string{"product_name"}}
	CategoryField        = Variant{Canonical: "category", Names: []string{"category"}}
)

// pick returns the first present, non-null value among the variant names
func (v Variant) pick(row dataset.Row) (gjson.Result, bool) {
	for _, name := range v.Names {
		if row.Has(name) {
			return row.Get(name), true
		}
	}
	return gjson.Result{}, false
}

// ResolveNumber applies the variant's precedence and converts the winner.
// A winning value that is not numeric yields Absent; it does not fall
// through to the next name.
func ResolveNumber(row dataset.Row, v Variant) dataset.Number {
	value, ok := v.pick(row)
	if !ok {
		return dataset.Absent()
	}
	return ToNumber(value)
}

// ResolveString applies the variant's precedence. Non-string scalars are
// rendered as text; absence yields "".
func ResolveString(row dataset.Row, v Variant) string {
	value, ok := v.pick(row)
	if !ok {
		return ""
	}
	switch value.Type {
	case gjson.String:
		return value.Str
	case gjson.Number, gjson.True, gjson.False:
		return value.Raw
	default:
		return ""
	}
}

// ToNumber converts a raw JSON value. Numbers and numeric strings (with
// optional thousands separators) resolve; anything else, including NaN and
// infinities, is absent.
func ToNumber(value gjson.Result) dataset.Number {
	switch value.Type {
	case gjson.Number:
		f, err := strconv.ParseFloat(value.Raw, 64)
		if err != nil {
			return dataset.Some(value.Num)
		}
		return dataset.Some(f)
	case gjson.String:
		s := strings.ReplaceAll(strings.TrimSpace(value.Str), ",", "")
		if s == "" {
			return dataset.Absent()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return dataset.Absent()
		}
		return dataset.Some(f)
	default:
		return dataset.Absent()
	}
}

// NumberField reads a single-name numeric field
func NumberField(row dataset.Row, field string) dataset.Number {
	return ResolveNumber(row, Variant{Canonical: field, Names: []string{field}})
}

// StringField reads a single-name string field
func StringField(row dataset.Row, field string) string {
	return ResolveString(row, Variant{Canonical: field, Names: []string{field}})
}

// StringList reads an array of strings. The second result is false when the
// field is absent or not an array.
func StringList(row dataset.Row, field string) ([]string, bool) {
	value := row.Get(field)
	if !value.IsArray() {
		return nil, false
	}
	out := []string{}
	for _, item := range value.Array() {
		switch item.Type {
		case gjson.String:
			out = append(out, item.Str)
		case gjson.Number, gjson.True, gjson.False:
			out = append(out, item.Raw)
		}
	}
	return out, true
}

// LastSegment returns the final '|'-delimited segment of a category
// hierarchy, or the whole string when that segment is empty.
func LastSegment(category string) string {
	i := strings.LastIndex(category, "|")
	if i < 0 {
		return category
	}
	if last := category[i+1:]; last != "" {
		return last
	}
	return category
}

// Rating resolves rating / rating_clean
func Rating(row dataset.Row) dataset.Number { return ResolveNumber(row, RatingField) }

// RatingCount resolves rating_count / rating_count_clean
func RatingCount(row dataset.Row) dataset.Number { return ResolveNumber(row, RatingCountField) }

// Price resolves discounted_price / discounted_price_clean
func Price(row dataset.Row) dataset.Number { return ResolveNumber(row, PriceField) }

// ActualPrice resolves actual_price / actual_price_clean
func ActualPrice(row dataset.Row) dataset.Number { return ResolveNumber(row, ActualPriceField) }

// DiscountPercent resolves discount_percentage / discount_percentage_clean
func DiscountPercent(row dataset.Row) dataset.Number {
	return ResolveNumber(row, DiscountPercentField)
}

// Name resolves the product name
func Name(row dataset.Row) string { return ResolveString(row, NameField) }

// Category resolves the category and shortens it to its display form
func Category(row dataset.Row) string {
	return LastSegment(ResolveString(row, CategoryField))
}

// Product derives the canonical product from a raw row
func Product(row dataset.Row) dataset.CanonicalProduct {
	return dataset.CanonicalProduct{
		Name:            Name(row),
		Category:        Category(row),
		Rating:          Rating(row),
		RatingCount:     RatingCount(row),
		Price:           Price(row),
		ActualPrice:     ActualPrice(row),
		DiscountPercent: DiscountPercent(row),
	}
}

// Summary resolves the headline statistics envelope. Row-shaped or missing
// data yields all-absent stats.
func Summary(ds dataset.Dataset) dataset.SummaryStats {
	env, ok := ds.Envelope()
	if !ok {
		return dataset.SummaryStats{}
	}
	return dataset.SummaryStats{
		TotalProducts:   NumberField(env, "total_products"),
		TotalCategories: NumberField(env, "total_categories"),
		AvgRating:       NumberField(env, "avg_rating"),
		AvgPrice:        NumberField(env, "avg_price"),
		AvgDiscount:     NumberField(env, "avg_discount"),
		TotalReviews:    NumberField(env, "total_reviews"),
	}
}

// QAItems reads the question/answer card list. Rows without an id or
// question are skipped.
func QAItems(ds dataset.Dataset) []dataset.QAItem {
	var items []dataset.QAItem
	for _, row := range ds.Rows() {
		item := dataset.QAItem{
			ID:        StringField(row, "id"),
			CardTitle: StringField(row, "cardTitle"),
			Question:  StringField(row, "question"),
			Answer:    StringField(row, "answer"),
		}
		if item.ID == "" || item.Question == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}
