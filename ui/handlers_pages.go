package ui

import (
	"github.com/gin-gonic/gin"

	"salesdash/domain/insight"
	"salesdash/ui/templates/fragments"
)

// Panel is one dashboard section whose body is fetched as a fragment
type Panel struct {
	ID         string
	Title      string
	Loading    string
	Exportable bool
}

// dashboard panel layout: charts side by side, wide panels below
var (
	chartPanels = []insight.ID{"category-performance", "price-range"}
	widePanels  = []insight.ID{"discount-distribution", "top-products"}
)

func (s *Server) panels(ids []insight.ID) []Panel {
	out := make([]Panel, 0, len(ids))
	for _, id := range ids {
		desc, ok := s.dispatcher.Resolve(id)
		if !ok {
			continue
		}
		loading := "chart"
		if desc.RenderKind == insight.RankedTable {
			loading = "table"
		}
		out = append(out, Panel{
			ID:         string(id),
			Title:      desc.Title,
			Loading:    loading,
			Exportable: true,
		})
	}
	return out
}

// handleIndex serves the dashboard shell. Every panel starts in its loading
// state and is swapped in by its own fragment request.
func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, fragments.Index, gin.H{
		"Title":  "Dashboard",
		"Active": "dashboard",
		"Charts": s.panels(chartPanels),
		"Wide":   s.panels(widePanels),
	})
}

// handleBusinessInsights serves the hypothesis cards page
func (s *Server) handleBusinessInsights(c *gin.Context) {
	s.renderTemplate(c, fragments.BusinessInsights, gin.H{
		"Title":  "Business Insights",
		"Active": "insights",
	})
}
