package dispatch

import (
	"salesdash/domain/dataset"
	"salesdash/domain/insight"
	"salesdash/internal/chartdata"
	"salesdash/internal/normalize"
)

// fieldReader reads column values either from the raw row or from its
// canonical product form
type fieldReader interface {
	Text(field string) string
	Number(field string) dataset.Number
}

type rawReader struct{ row dataset.Row }

func (r rawReader) Text(field string) string           { return normalize.StringField(r.row, field) }
func (r rawReader) Number(field string) dataset.Number { return normalize.NumberField(r.row, field) }

type productReader struct{ p dataset.CanonicalProduct }

func (r productReader) Text(field string) string {
	switch field {
	case "name":
		return r.p.Name
	case "category":
		return r.p.Category
	}
	if n := r.Number(field); n.Valid() {
		return normalize.Plain(n)
	}
	return ""
}

func (r productReader) Number(field string) dataset.Number {
	switch field {
	case "rating":
		return r.p.Rating
	case "rating_count":
		return r.p.RatingCount
	case "price":
		return r.p.Price
	case "actual_price":
		return r.p.ActualPrice
	case "discount_percent":
		return r.p.DiscountPercent
	}
	return dataset.Absent()
}

func readerFor(desc insight.Descriptor, row dataset.Row) fieldReader {
	if desc.Normalize == "product" {
		return productReader{p: normalize.Product(row)}
	}
	return rawReader{row: row}
}

// formatCell renders one column value. Numeric formats show "N/A" for
// missing values; the suffix is only added to resolved numbers.
func formatCell(r fieldReader, c insight.Column) Cell {
	switch c.Format {
	case insight.FormatTruncate:
		full := r.Text(c.Field)
		short := chartdata.TextTruncate(full, chartdata.TruncateLength)
		if short == full {
			return Cell{Text: full}
		}
		return Cell{Text: short, Full: full}
	case insight.FormatCategory:
		return Cell{Text: chartdata.ShortCategory(r.Text(c.Field))}
	case insight.FormatNumber, insight.FormatFixed2, insight.FormatLocale, insight.FormatPercent, insight.FormatCurrency:
		n := r.Number(c.Field)
		text := formatNumber(n, c.Format)
		if n.Valid() {
			text += c.Suffix
		}
		return Cell{Text: text}
	default:
		return Cell{Text: r.Text(c.Field)}
	}
}

func formatNumber(n dataset.Number, format string) string {
	switch format {
	case insight.FormatFixed2:
		return normalize.Fixed(n, 2)
	case insight.FormatLocale:
		return normalize.Locale(n)
	case insight.FormatPercent:
		return normalize.Percent(n)
	case insight.FormatCurrency:
		return normalize.Currency(n)
	default:
		return normalize.Plain(n)
	}
}
