// Package charts turns chart renders into go-echarts pages.
package charts

import (
	"errors"
	"fmt"
	"io"
	"math"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"

	"salesdash/domain/dataset"
	"salesdash/domain/insight"
	"salesdash/internal/dispatch"
)

// ErrNotChart is returned for renders that are not drawn as charts
var ErrNotChart = errors.New("render is not a chart")

// missing is the echarts placeholder for an absent data point
const missing = "-"

// Renderer writes a standalone chart page
type Renderer interface {
	Render(w io.Writer) error
}

// Height is the default chart height
var Height = "360px"

// Build creates the chart for r
func Build(r dispatch.Render) (Renderer, error) {
	switch {
	case r.Empty():
		return nil, ErrNotChart
	case r.Chart != nil && r.Kind.IsChart():
		return category(r.Kind, r.Chart), nil
	case r.Scatter != nil && r.Kind == insight.ScatterWithStatistic:
		return scatter(r.Scatter), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotChart, r.Kind)
	}
}

// Render writes the chart page for r to w
func Render(w io.Writer, r dispatch.Render) error {
	c, err := Build(r)
	if err != nil {
		return err
	}
	return c.Render(w)
}

func globalOpts() []echarts.GlobalOpts {
	return []echarts.GlobalOpts{
		echarts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		echarts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
		echarts.WithInitializationOpts(opts.Initialization{
			Width:  "100%",
			Height: Height,
		}),
	}
}

func category(kind insight.RenderKind, c *dispatch.Chart) *echarts.Bar {
	bar := echarts.NewBar()

	label := &opts.AxisLabel{}
	if len(c.Categories) > 6 && kind != insight.HorizontalBar {
		label = &opts.AxisLabel{Rotate: 30}
	}

	left, right := axisNames(c.Series)
	global := append(globalOpts(),
		echarts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: label,
		}),
		echarts.WithYAxisOpts(opts.YAxis{
			Name: left,
			Type: "value",
		}),
	)
	bar.SetGlobalOptions(global...)
	bar.SetXAxis(c.Categories)

	var rightValues []dataset.Number
	for _, s := range c.Series {
		if s.Type == "line" {
			axis := 0
			if s.Axis == "right" {
				axis = 1
				rightValues = append(rightValues, s.Values...)
			}
			line := echarts.NewLine()
			line.SetXAxis(c.Categories)
			line.AddSeries(s.Name, lineData(s.Values),
				echarts.WithLineChartOpts(opts.LineChart{
					Smooth:     opts.Bool(true),
					ShowSymbol: opts.Bool(true),
					YAxisIndex: axis,
				}),
				echarts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			)
			bar.Overlap(line)
			continue
		}
		bar.AddSeries(s.Name, barData(s.Values),
			echarts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		)
	}

	if kind == insight.DualAxisBarLine {
		y := opts.YAxis{Name: right, Type: "value"}
		if lo, hi, ok := AxisBounds(rightValues); ok {
			y.Min, y.Max = lo, hi
		}
		bar.ExtendYAxis(y)
	}

	if kind == insight.HorizontalBar {
		bar.XYReversal()
	}
	return bar
}

func scatter(s *dispatch.Scatter) *echarts.Scatter {
	sc := echarts.NewScatter()

	y := opts.YAxis{Name: s.YName, Type: "value"}
	if s.YMax > s.YMin {
		y.Min, y.Max = s.YMin, s.YMax
	}
	global := append(globalOpts(),
		echarts.WithXAxisOpts(opts.XAxis{Name: s.XName, Type: "value"}),
		echarts.WithYAxisOpts(y),
	)
	sc.SetGlobalOptions(global...)

	data := make([]opts.ScatterData, 0, len(s.Points))
	for _, p := range s.Points {
		data = append(data, opts.ScatterData{Value: []float64{p.X, p.Y}})
	}
	sc.AddSeries("Product", data,
		echarts.WithItemStyleOpts(opts.ItemStyle{Color: "#3b82f6"}),
	)
	return sc
}

// AxisBounds returns whole-number bounds enclosing the resolved values
func AxisBounds(values []dataset.Number) (float64, float64, bool) {
	var resolved []float64
	for _, n := range values {
		if v, ok := n.Value(); ok {
			resolved = append(resolved, v)
		}
	}
	if len(resolved) == 0 {
		return 0, 0, false
	}
	lo := math.Floor(floats.Min(resolved))
	hi := math.Ceil(floats.Max(resolved))
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi, true
}

func axisNames(series []dispatch.ChartSeries) (left, right string) {
	for _, s := range series {
		if s.Axis == "right" {
			if right == "" {
				right = s.Name
			}
		} else if left == "" {
			left = s.Name
		}
	}
	return left, right
}

func barData(values []dataset.Number) []opts.BarData {
	out := make([]opts.BarData, 0, len(values))
	for _, n := range values {
		if v, ok := n.Value(); ok {
			out = append(out, opts.BarData{Value: v})
		} else {
			out = append(out, opts.BarData{Value: missing})
		}
	}
	return out
}

func lineData(values []dataset.Number) []opts.LineData {
	out := make([]opts.LineData, 0, len(values))
	for _, n := range values {
		if v, ok := n.Value(); ok {
			out = append(out, opts.LineData{Value: v})
		} else {
			out = append(out, opts.LineData{Value: missing})
		}
	}
	return out
}
