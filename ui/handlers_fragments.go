package ui

import (
	"bytes"
	"context"
	"html/template"

	"github.com/gin-gonic/gin"

	"salesdash/domain/dataset"
	"salesdash/domain/insight"
	"salesdash/internal/dispatch"
	"salesdash/internal/normalize"
	"salesdash/internal/view"
	"salesdash/ui/charts"
	"salesdash/ui/templates/fragments"
)

// Resources read by the fixed dashboard sections
const (
	summaryRef    = "summary_stats.json"
	qaRef         = "insights_qa.json"
	hypothesesRef = "business_insights.json"
)

// Fragment ids that are not registry entries
const (
	summaryID    = "summary"
	qaID         = "qa"
	hypothesesID = "hypotheses"
)

const (
	chartFrameHeight = "384px"
	qaTitleLength    = 40
	defaultQAIcon    = "bar-chart-3"
)

type statCard struct {
	Title string
	Value string
	Icon  string
	Color string
}

type qaCard struct {
	ID    string
	Title string
	Icon  string
}

type statistic struct {
	Label string
	Value string
	Note  string
}

type chartFragment struct {
	Title  string
	Height string
	Page   string
	Stat   *statistic
}

// resolveView runs the view's single load. It reports false when there is
// nothing to show or the request went away before the load finished.
func resolveView[T any](s *Server, v *view.View[T]) (T, bool) {
	if err := v.Resolve(); err != nil {
		s.logger.Debug("mount %s for %q dropped: %v", v.ID, v.Ref, err)
		var zero T
		return zero, false
	}
	return v.Content()
}

// mountRender mounts the view behind a render id: a registry entry or the
// full hypothesis list
func (s *Server) mountRender(ctx context.Context, id string) *view.View[dispatch.Render] {
	if id == hypothesesID {
		return view.Mount(ctx, s.loader, s.hypothesesRef(), func(ds dataset.Dataset) (dispatch.Render, bool) {
			r := s.dispatcher.Hypotheses(ds)
			return r, !r.Empty()
		})
	}
	return view.MountInsight(ctx, s.loader, s.dispatcher, insight.ID(id))
}

// hypothesesRef is the resource the hypothesis cards are registered against
func (s *Server) hypothesesRef() string {
	for _, d := range s.dispatcher.Registry().ByKind(insight.CompositeHypothesisCard) {
		if d.DatasetRef != "" {
			return d.DatasetRef
		}
	}
	return hypothesesRef
}

// handleFragment mounts one view and returns its populated markup, or no
// markup at all when it resolves empty
func (s *Server) handleFragment(c *gin.Context) {
	switch id := c.Param("id"); id {
	case summaryID:
		s.fragmentSummary(c)
	case qaID:
		s.fragmentQA(c)
	default:
		render, ok := resolveView(s, s.mountRender(c.Request.Context(), id))
		if !ok {
			s.renderEmpty(c)
			return
		}
		s.renderInsight(c, render)
	}
}

// renderInsight draws a populated render with the template for its kind
func (s *Server) renderInsight(c *gin.Context, r dispatch.Render) {
	switch {
	case r.Table != nil:
		s.renderTemplate(c, fragments.Table, r)
	case r.Chart != nil || r.Scatter != nil:
		var buf bytes.Buffer
		if err := charts.Render(&buf, r); err != nil {
			s.logger.Warn("chart for %s failed: %v", r.Title(), err)
			s.renderEmpty(c)
			return
		}
		data := chartFragment{Title: r.Title(), Height: chartFrameHeight, Page: buf.String()}
		if sc := r.Scatter; sc != nil && sc.StatLabel != "" {
			data.Stat = &statistic{Label: sc.StatLabel, Value: sc.StatValue, Note: sc.Note}
		}
		s.renderTemplate(c, fragments.Chart, data)
	case len(r.Cards) > 0:
		s.renderTemplate(c, fragments.Cards, r)
	default:
		s.renderEmpty(c)
	}
}

func (s *Server) fragmentSummary(c *gin.Context) {
	v := view.Mount(c.Request.Context(), s.loader, summaryRef, func(ds dataset.Dataset) (dataset.SummaryStats, bool) {
		if _, ok := ds.Envelope(); !ok {
			return dataset.SummaryStats{}, false
		}
		return normalize.Summary(ds), true
	})
	stats, ok := resolveView(s, v)
	if !ok {
		s.renderEmpty(c)
		return
	}
	s.renderTemplate(c, fragments.Summary, summaryCards(stats))
}

func summaryCards(st dataset.SummaryStats) gin.H {
	discount := dataset.AbsentMarker
	if st.AvgDiscount.Valid() {
		discount = normalize.Fixed(st.AvgDiscount, 1) + "%"
	}
	return gin.H{
		"Cards": []statCard{
			{Title: "Total Products", Value: normalize.Locale(st.TotalProducts), Icon: "package", Color: "blue"},
			{Title: "Categories", Value: normalize.Plain(st.TotalCategories), Icon: "trending-up", Color: "green"},
			{Title: "Avg Rating", Value: normalize.Fixed(st.AvgRating, 2), Icon: "star", Color: "yellow"},
			{Title: "Avg Price", Value: normalize.Currency(st.AvgPrice), Icon: "dollar-sign", Color: "purple"},
		},
		"Extra": []statCard{
			{Title: "Average Discount", Value: discount, Color: "indigo"},
			{Title: "Total Reviews", Value: normalize.Locale(st.TotalReviews), Color: "green"},
		},
	}
}

func (s *Server) mountQA(ctx context.Context) *view.View[[]dataset.QAItem] {
	return view.Mount(ctx, s.loader, qaRef, func(ds dataset.Dataset) ([]dataset.QAItem, bool) {
		items := normalize.QAItems(ds)
		return items, len(items) > 0
	})
}

func (s *Server) fragmentQA(c *gin.Context) {
	items, ok := resolveView(s, s.mountQA(c.Request.Context()))
	if !ok {
		s.renderEmpty(c)
		return
	}

	cards := make([]qaCard, 0, len(items))
	for _, item := range items {
		icon := defaultQAIcon
		if desc, ok := s.dispatcher.Resolve(insight.ID(item.ID)); ok && desc.Icon != "" {
			icon = desc.Icon
		}
		cards = append(cards, qaCard{ID: item.ID, Title: qaTitle(item), Icon: icon})
	}
	s.renderTemplate(c, fragments.QAGrid, gin.H{"Items": cards})
}

// qaTitle is the card title, or the question cut to 40 runes
func qaTitle(item dataset.QAItem) string {
	if item.CardTitle != "" {
		return item.CardTitle
	}
	runes := []rune(item.Question)
	if len(runes) > qaTitleLength {
		return string(runes[:qaTitleLength]) + "…"
	}
	return item.Question
}

// handleQADetail renders the question modal. Its detail view, when the id
// is registered, is a separate fragment mount.
func (s *Server) handleQADetail(c *gin.Context) {
	id := c.Param("id")
	items, ok := resolveView(s, s.mountQA(c.Request.Context()))
	if !ok {
		s.renderEmpty(c)
		return
	}

	for _, item := range items {
		if item.ID != id {
			continue
		}
		_, registered := s.dispatcher.Resolve(insight.ID(id))
		s.renderTemplate(c, fragments.QADetail, struct {
			ID        string
			Question  string
			Answer    template.HTML
			HasDetail bool
		}{item.ID, item.Question, renderMarkdown(item.Answer), registered})
		return
	}
	s.renderEmpty(c)
}
