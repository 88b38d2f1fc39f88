package dispatch

import (
	"salesdash/domain/dataset"
	"salesdash/domain/insight"
)

// Render is the dispatcher's decision for one insight: the strategy plus the
// adapted data it needs. Exactly one of Table, Chart, Scatter or Cards is set
// for a non-empty render.
type Render struct {
	Kind       insight.RenderKind         `json:"kind,omitempty"`
	Descriptor *insight.Descriptor        `json:"descriptor,omitempty"`
	Table      *Table                     `json:"table,omitempty"`
	Chart      *Chart                     `json:"chart,omitempty"`
	Scatter    *Scatter                   `json:"scatter,omitempty"`
	Cards      []insight.HypothesisResult `json:"cards,omitempty"`
}

// Empty reports whether there is nothing to draw
func (r Render) Empty() bool {
	return r.Kind == ""
}

// Title is the descriptor title, if any
func (r Render) Title() string {
	if r.Descriptor == nil {
		return ""
	}
	return r.Descriptor.Title
}

// Header is one table column heading
type Header struct {
	Label string `json:"label"`
	Align string `json:"align,omitempty"`
}

// Cell is one formatted table value. Full holds the untruncated text when
// the display text was shortened.
type Cell struct {
	Text string `json:"text"`
	Full string `json:"full,omitempty"`
}

// Table is a ranked-table render
type Table struct {
	Headers []Header `json:"headers"`
	Rows    [][]Cell `json:"rows"`
}

// ChartSeries is one plotted series, aligned with Chart.Categories
type ChartSeries struct {
	Name   string           `json:"name"`
	Field  string           `json:"field"`
	Color  string           `json:"color,omitempty"`
	Type   string           `json:"type"`
	Axis   string           `json:"axis"`
	Values []dataset.Number `json:"values"`
}

// Chart is a grouped-bar, dual-axis or horizontal-bar render
type Chart struct {
	XField     string        `json:"x"`
	Categories []string      `json:"categories"`
	Series     []ChartSeries `json:"series"`
}

// Point is one scatter sample
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Scatter is a scatter-with-statistic render
type Scatter struct {
	StatLabel string  `json:"stat_label"`
	StatValue string  `json:"stat_value"`
	Note      string  `json:"note,omitempty"`
	XName     string  `json:"x_name"`
	YName     string  `json:"y_name"`
	YMin      float64 `json:"y_min,omitempty"`
	YMax      float64 `json:"y_max,omitempty"`
	Points    []Point `json:"points"`
}
