package main

import (
	"fmt"
	"strings"

	"salesdash/domain/dataset"
	"salesdash/domain/insight"
	"salesdash/internal/dispatch"
	"salesdash/internal/normalize"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	significantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	rejectedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1).
			Width(88)
)

func newTable(headers []string, rows [][]string, aligns []lipgloss.Position) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col < len(aligns) {
				return cellStyle.Align(aligns[col])
			}
			return cellStyle
		})
	return t.String()
}

// listTable renders registry descriptors
func listTable(descs []insight.Descriptor) string {
	rows := make([][]string, 0, len(descs))
	for _, d := range descs {
		rows = append(rows, []string{string(d.ID), string(d.RenderKind), d.DatasetRef, d.Title})
	}
	return newTable([]string{"ID", "Kind", "Dataset", "Title"}, rows, nil)
}

// renderText draws a non-empty render for a terminal
func renderText(r dispatch.Render) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(r.Title()))
	b.WriteString("\n")

	switch {
	case r.Table != nil:
		b.WriteString(tableText(r.Table))
	case r.Chart != nil:
		b.WriteString(chartText(r.Chart))
	case r.Scatter != nil:
		b.WriteString(scatterText(r.Scatter))
	case len(r.Cards) > 0:
		b.WriteString(cardsText(r.Cards))
	}
	return b.String()
}

func tableText(t *dispatch.Table) string {
	headers := make([]string, len(t.Headers))
	aligns := make([]lipgloss.Position, len(t.Headers))
	for i, h := range t.Headers {
		headers[i] = h.Label
		aligns[i] = lipgloss.Left
		if h.Align == "right" {
			aligns[i] = lipgloss.Right
		}
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = c.Text
		}
		rows = append(rows, cells)
	}
	return newTable(headers, rows, aligns)
}

// chartText shows a chart as its underlying category x series grid
func chartText(c *dispatch.Chart) string {
	x := c.XField
	if x == "" {
		x = "Category"
	}
	headers := []string{x}
	aligns := []lipgloss.Position{lipgloss.Left}
	for _, s := range c.Series {
		headers = append(headers, s.Name)
		aligns = append(aligns, lipgloss.Right)
	}

	rows := make([][]string, 0, len(c.Categories))
	for i, cat := range c.Categories {
		row := []string{cat}
		for _, s := range c.Series {
			if i < len(s.Values) {
				row = append(row, normalize.Plain(s.Values[i]))
			} else {
				row = append(row, dataset.AbsentMarker)
			}
		}
		rows = append(rows, row)
	}
	return newTable(headers, rows, aligns)
}

func scatterText(s *dispatch.Scatter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", s.StatLabel, s.StatValue)
	if s.Note != "" {
		b.WriteString(mutedStyle.Render(s.Note))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%d points (%s vs %s)", len(s.Points), s.XName, s.YName)
	return b.String()
}

func cardsText(cards []insight.HypothesisResult) string {
	blocks := make([]string, 0, len(cards))
	for _, c := range cards {
		badge := rejectedStyle.Render(c.Badge())
		if c.Significant {
			badge = significantStyle.Render(c.Badge())
		}

		lines := []string{
			titleStyle.Render(strings.ToUpper(string(c.ID)) + " " + c.Question),
			badge,
			mutedStyle.Render(c.TestName),
		}
		for _, m := range c.Payload.MetricLines() {
			lines = append(lines, "  "+m.String())
		}
		if c.Interpretation != "" {
			lines = append(lines, c.Interpretation)
		}
		if c.Recommendation != "" {
			lines = append(lines, mutedStyle.Render("→ "+c.Recommendation))
		}
		blocks = append(blocks, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}
