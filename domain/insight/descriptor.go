package insight

import (
	"fmt"
)

// Descriptor is the static configuration for one insight id: where its data
// lives, how it renders and which fields it surfaces.
type Descriptor struct {
	ID             ID         `yaml:"id" json:"id"`
	Title          string     `yaml:"title" json:"title"`
	Icon           string     `yaml:"icon,omitempty" json:"icon,omitempty"`
	DatasetRef     string     `yaml:"dataset" json:"dataset"`
	RenderKind     RenderKind `yaml:"render" json:"render"`
	RequiredFields []string   `yaml:"fields" json:"fields"`

	// Normalize names a canonical row shape applied before columns are read.
	// The only supported value is "product".
	Normalize string `yaml:"normalize,omitempty" json:"normalize,omitempty"`
	Adapt     Adapt  `yaml:"adapt,omitempty" json:"adapt,omitempty"`

	// ranked-table
	Columns []Column `yaml:"columns,omitempty" json:"columns,omitempty"`

	// grouped-bar, dual-axis-bar-line, horizontal-bar
	X      string   `yaml:"x,omitempty" json:"x,omitempty"`
	Series []Series `yaml:"series,omitempty" json:"series,omitempty"`

	// scatter-with-statistic
	Statistic *Statistic `yaml:"statistic,omitempty" json:"statistic,omitempty"`
	Points    *Points    `yaml:"points,omitempty" json:"points,omitempty"`
}

// Adapt lists the row transformations applied before rendering. They run in
// a fixed order: sentinel filter, top-N, limit.
type Adapt struct {
	Sentinel string `yaml:"sentinel,omitempty" json:"sentinel,omitempty"`
	TopN     *TopN  `yaml:"top_n,omitempty" json:"top_n,omitempty"`
	Limit    int    `yaml:"limit,omitempty" json:"limit,omitempty"`
}

// TopN configures the ranking adapter
type TopN struct {
	Count string `yaml:"count" json:"count"`
	Label string `yaml:"label" json:"label"`
	N     int    `yaml:"n,omitempty" json:"n,omitempty"`
}

// Column formats accepted by the renderer
const (
	FormatText     = "text"
	FormatTruncate = "truncate"
	FormatCategory = "category"
	FormatNumber   = "number"
	FormatFixed2   = "fixed2"
	FormatLocale   = "locale"
	FormatPercent  = "percent"
	FormatCurrency = "currency"
)

// Column is one ranked-table column
type Column struct {
	Field  string `yaml:"field" json:"field"`
	Header string `yaml:"header" json:"header"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	Suffix string `yaml:"suffix,omitempty" json:"suffix,omitempty"`
	Align  string `yaml:"align,omitempty" json:"align,omitempty"`
}

// Series is one plotted value series
type Series struct {
	Field string `yaml:"field" json:"field"`
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
	// Type is "bar" (default) or "line"
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
	// Axis is "left" (default) or "right"
	Axis string `yaml:"axis,omitempty" json:"axis,omitempty"`
}

// Statistic is the scalar shown next to a scatter plot
type Statistic struct {
	Field string `yaml:"field" json:"field"`
	Label string `yaml:"label" json:"label"`
	Note  string `yaml:"note,omitempty" json:"note,omitempty"`
}

// Points locates the point sequence inside a scatter envelope
type Points struct {
	Field string  `yaml:"field" json:"field"`
	X     string  `yaml:"x" json:"x"`
	Y     string  `yaml:"y" json:"y"`
	XName string  `yaml:"x_name,omitempty" json:"x_name,omitempty"`
	YName string  `yaml:"y_name,omitempty" json:"y_name,omitempty"`
	YMin  float64 `yaml:"y_min,omitempty" json:"y_min,omitempty"`
	YMax  float64 `yaml:"y_max,omitempty" json:"y_max,omitempty"`
}

// Validate checks that the descriptor carries what its render kind needs
func (d Descriptor) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("descriptor without id")
	}
	if d.DatasetRef == "" {
		return fmt.Errorf("%s: dataset is required", d.ID)
	}
	if !d.RenderKind.Valid() {
		return fmt.Errorf("%s: unknown render kind %q", d.ID, d.RenderKind)
	}

	switch d.RenderKind {
	case RankedTable:
		if len(d.Columns) == 0 {
			return fmt.Errorf("%s: ranked-table needs columns", d.ID)
		}
	case GroupedBar, DualAxisBarLine, HorizontalBar:
		if d.X == "" || len(d.Series) == 0 {
			return fmt.Errorf("%s: %s needs x and series", d.ID, d.RenderKind)
		}
		if d.RenderKind == DualAxisBarLine && !d.hasRightAxis() {
			return fmt.Errorf("%s: dual-axis chart needs a right-axis series", d.ID)
		}
	case ScatterWithStatistic:
		if d.Statistic == nil || d.Points == nil {
			return fmt.Errorf("%s: scatter needs statistic and points", d.ID)
		}
	case CompositeHypothesisCard:
		if len(d.RequiredFields) == 0 {
			return fmt.Errorf("%s: hypothesis card needs metric fields", d.ID)
		}
	}

	if d.Adapt.TopN != nil && (d.Adapt.TopN.Count == "" || d.Adapt.TopN.Label == "") {
		return fmt.Errorf("%s: top_n needs count and label", d.ID)
	}
	if d.Normalize != "" && d.Normalize != "product" {
		return fmt.Errorf("%s: unknown normalization %q", d.ID, d.Normalize)
	}
	return nil
}

func (d Descriptor) hasRightAxis() bool {
	for _, s := range d.Series {
		if s.Axis == "right" {
			return true
		}
	}
	return false
}
