// Package dispatch maps an insight id to its render strategy and shapes a
// loaded dataset into that strategy's data.
package dispatch

import (
	"salesdash/domain/dataset"
	"salesdash/domain/insight"
	"salesdash/internal"
	"salesdash/internal/chartdata"
	"salesdash/internal/normalize"
	"salesdash/internal/registry"
)

// Dispatcher resolves ids against a registry. It holds no mutable state.
type Dispatcher struct {
	registry *registry.Registry
	logger   *internal.Logger
}

// New creates a dispatcher over reg
func New(reg *registry.Registry) *Dispatcher {
	return &Dispatcher{
		registry: reg,
		logger:   internal.DefaultLogger.For("InsightDispatcher"),
	}
}

// Registry exposes the underlying read-only registry
func (d *Dispatcher) Registry() *registry.Registry {
	return d.registry
}

// Resolve returns the descriptor for id. Unknown ids report false.
func (d *Dispatcher) Resolve(id insight.ID) (insight.Descriptor, bool) {
	return d.registry.Lookup(id)
}

// Dispatch shapes ds for id. Unknown ids, unusable datasets and any
// unexpected failure all yield the empty render.
func (d *Dispatcher) Dispatch(id insight.ID, ds dataset.Dataset) (render Render) {
	desc, ok := d.Resolve(id)
	if !ok {
		d.logger.Debug("no descriptor for %q", id)
		return Render{}
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("dispatch %s panicked: %v", id, r)
			render = Render{}
		}
	}()

	switch desc.RenderKind {
	case insight.RankedTable:
		return d.table(desc, ds)
	case insight.GroupedBar, insight.DualAxisBarLine, insight.HorizontalBar:
		return d.chart(desc, ds)
	case insight.ScatterWithStatistic:
		return d.scatter(desc, ds)
	case insight.CompositeHypothesisCard:
		return d.card(desc, ds)
	default:
		return Render{}
	}
}

// Hypotheses renders every hypothesis row of ds whose id is registered as a
// card, in dataset order. Rows with other ids are skipped silently.
func (d *Dispatcher) Hypotheses(ds dataset.Dataset) Render {
	var cards []insight.HypothesisResult
	for _, row := range ds.Rows() {
		id := insight.ID(normalize.StringField(row, "id"))
		desc, ok := d.Resolve(id)
		if !ok || desc.RenderKind != insight.CompositeHypothesisCard {
			continue
		}
		if result, ok := insight.DecodeResult(row); ok {
			cards = append(cards, result)
		}
	}
	if len(cards) == 0 {
		return Render{}
	}
	return Render{Kind: insight.CompositeHypothesisCard, Cards: cards}
}

// adapt runs the descriptor's row pipeline: sentinel filter, top-N, limit
func adapt(desc insight.Descriptor, rows []dataset.Row) []chartdata.Item {
	if field := desc.Adapt.Sentinel; field != "" {
		rows = chartdata.Rows(chartdata.SentinelFilter(chartdata.Items(rows, field)))
	}

	label := desc.X
	if desc.Adapt.TopN != nil {
		label = desc.Adapt.TopN.Label
	}
	items := chartdata.Items(rows, label)

	if top := desc.Adapt.TopN; top != nil {
		items = chartdata.TopN(items, top.Count, top.N)
	}
	return chartdata.Limit(items, desc.Adapt.Limit)
}

func (d *Dispatcher) table(desc insight.Descriptor, ds dataset.Dataset) Render {
	items := adapt(desc, ds.Rows())
	if len(items) == 0 {
		return Render{}
	}

	t := &Table{}
	for _, c := range desc.Columns {
		t.Headers = append(t.Headers, Header{Label: c.Header, Align: c.Align})
	}
	for _, it := range items {
		reader := readerFor(desc, it.Row)
		cells := make([]Cell, 0, len(desc.Columns))
		for _, c := range desc.Columns {
			cells = append(cells, formatCell(reader, c))
		}
		t.Rows = append(t.Rows, cells)
	}
	return Render{Kind: desc.RenderKind, Descriptor: &desc, Table: t}
}

func (d *Dispatcher) chart(desc insight.Descriptor, ds dataset.Dataset) Render {
	items := adapt(desc, ds.Rows())
	if len(items) == 0 {
		return Render{}
	}

	c := &Chart{XField: desc.X}
	for _, it := range items {
		c.Categories = append(c.Categories, it.Label)
	}
	for _, s := range desc.Series {
		series := ChartSeries{
			Name:  s.Name,
			Field: s.Field,
			Color: s.Color,
			Type:  orDefault(s.Type, "bar"),
			Axis:  orDefault(s.Axis, "left"),
		}
		for _, it := range items {
			series.Values = append(series.Values, normalize.NumberField(it.Row, s.Field))
		}
		c.Series = append(c.Series, series)
	}
	return Render{Kind: desc.RenderKind, Descriptor: &desc, Chart: c}
}

func (d *Dispatcher) scatter(desc insight.Descriptor, ds dataset.Dataset) Render {
	env, ok := ds.Envelope()
	if !ok || env.IsEmpty() {
		return Render{}
	}

	p := desc.Points
	s := &Scatter{
		StatLabel: desc.Statistic.Label,
		StatValue: normalize.Plain(normalize.NumberField(env, desc.Statistic.Field)),
		Note:      desc.Statistic.Note,
		XName:     orDefault(p.XName, p.X),
		YName:     orDefault(p.YName, p.Y),
		YMin:      p.YMin,
		YMax:      p.YMax,
		Points:    []Point{},
	}
	for _, raw := range env.Get(p.Field).Array() {
		row := dataset.NewRow(raw)
		x, okX := normalize.NumberField(row, p.X).Value()
		y, okY := normalize.NumberField(row, p.Y).Value()
		if okX && okY {
			s.Points = append(s.Points, Point{X: x, Y: y})
		}
	}
	return Render{Kind: desc.RenderKind, Descriptor: &desc, Scatter: s}
}

func (d *Dispatcher) card(desc insight.Descriptor, ds dataset.Dataset) Render {
	for _, row := range ds.Rows() {
		if insight.ID(normalize.StringField(row, "id")) != desc.ID {
			continue
		}
		if result, ok := insight.DecodeResult(row); ok {
			return Render{Kind: desc.RenderKind, Descriptor: &desc, Cards: []insight.HypothesisResult{result}}
		}
	}
	return Render{}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
