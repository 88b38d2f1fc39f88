// Package fragments provides template path constants for organized template management
package fragments

import "strings"

// Page templates
const (
	Index            = "index.html"
	BusinessInsights = "business_insights.html"
)

// Fragment templates swapped in by htmx
const (
	Summary  = "fragments/summary.html"
	QAGrid   = "fragments/qa_grid.html"
	QADetail = "fragments/qa_detail.html"
	Table    = "fragments/table.html"
	Chart    = "fragments/chart.html"
	Cards    = "fragments/cards.html"
)

// IsFragment reports whether name is a partial rather than a full page
func IsFragment(name string) bool {
	return strings.HasPrefix(name, "fragments/")
}
