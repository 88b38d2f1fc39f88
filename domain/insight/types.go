// Package insight defines insight identifiers, render strategies and the
// per-insight payload shapes the dispatcher produces.
package insight

import (
	"fmt"
	"strings"
)

// ID is the discriminant selecting a payload shape and render strategy
type ID string

func (id ID) String() string { return string(id) }

// ParseID parses a string into ID
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("insight ID cannot be empty")
	}
	return ID(s), nil
}

// Hypothesis-test insight ids
const (
	Insight1 ID = "insight1"
	Insight2 ID = "insight2"
	Insight3 ID = "insight3"
	Insight4 ID = "insight4"
	Insight5 ID = "insight5"
	Insight6 ID = "insight6"
	Insight7 ID = "insight7"
)

// HypothesisIDs lists every id with a hypothesis payload, in display order
var HypothesisIDs = []ID{Insight1, Insight2, Insight3, Insight4, Insight5, Insight6, Insight7}

// RenderKind is the chart/table template selected for an insight
type RenderKind string

const (
	RankedTable             RenderKind = "ranked-table"
	GroupedBar              RenderKind = "grouped-bar"
	DualAxisBarLine         RenderKind = "dual-axis-bar-line"
	HorizontalBar           RenderKind = "horizontal-bar"
	ScatterWithStatistic    RenderKind = "scatter-with-statistic"
	CompositeHypothesisCard RenderKind = "composite-hypothesis-card"
)

// RenderKinds lists the closed set of strategies
var RenderKinds = []RenderKind{
	RankedTable,
	GroupedBar,
	DualAxisBarLine,
	HorizontalBar,
	ScatterWithStatistic,
	CompositeHypothesisCard,
}

// Valid reports whether k is one of the known strategies
func (k RenderKind) Valid() bool {
	for _, known := range RenderKinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsChart reports whether k renders as a category-axis chart
func (k RenderKind) IsChart() bool {
	return k == GroupedBar || k == DualAxisBarLine || k == HorizontalBar
}
