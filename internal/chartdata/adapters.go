// Package chartdata holds the pure row-set transforms that shape loaded
// datasets into chart and table series.
package chartdata

import (
	"sort"
	"unicode/utf8"

	"salesdash/domain/dataset"
	"salesdash/internal/normalize"
)

const (
	// DefaultTopN is the ranking size used by the category chart
	DefaultTopN = 10
	// Sentinel marks an invalid bucket
	Sentinel = "nan"
	// TruncateLength is the table display limit for long text
	TruncateLength = 50
	ellipsis       = "..."
)

// Item is a row paired with its display label
type Item struct {
	Label string
	Row   dataset.Row
}

// Items labels each row with the string value of labelField
func Items(rows []dataset.Row, labelField string) []Item {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		label := ""
		if labelField != "" {
			label = normalize.StringField(row, labelField)
		}
		items = append(items, Item{Label: label, Row: row})
	}
	return items
}

// Rows strips the labels again
func Rows(items []Item) []dataset.Row {
	rows := make([]dataset.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, it.Row)
	}
	return rows
}

// SentinelFilter drops items whose label is exactly "nan". Counts are not
// inspected.
func SentinelFilter(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Label == Sentinel {
			continue
		}
		out = append(out, it)
	}
	return out
}

// TopN ranks items by countField: items with a count above zero are kept,
// stably sorted by descending count, cut to n and relabelled with the last
// category segment. n <= 0 means DefaultTopN.
func TopN(items []Item, countField string, n int) []Item {
	if n <= 0 {
		n = DefaultTopN
	}

	type ranked struct {
		item  Item
		count float64
	}
	candidates := make([]ranked, 0, len(items))
	for _, it := range items {
		count, ok := normalize.NumberField(it.Row, countField).Value()
		if !ok || count <= 0 {
			continue
		}
		candidates = append(candidates, ranked{item: it, count: count})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].count > candidates[j].count
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}

	out := make([]Item, 0, len(candidates))
	for _, c := range candidates {
		it := c.item
		it.Label = ShortCategory(it.Label)
		out = append(out, it)
	}
	return out
}

// Limit keeps the first n items. n <= 0 keeps everything.
func Limit(items []Item, n int) []Item {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}

// ShortCategory is the display form of a '|'-delimited category path
func ShortCategory(s string) string {
	return normalize.LastSegment(s)
}

// TextTruncate shortens s to max characters followed by "..." when it is
// longer than max. Only for display; callers keep the full text.
func TextTruncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + ellipsis
}
