// Package excel exports dispatcher renders as XLSX workbooks and reads
// them back.
package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"salesdash/domain/dataset"
	"salesdash/internal"
	"salesdash/internal/dispatch"
	"salesdash/internal/errors"
)

// ErrNothingToExport is returned for the empty render
var ErrNothingToExport = errors.New(errors.CodeInvalidInput, "nothing to export")

// Card export columns
var cardHeaders = []string{"Insight", "Question", "Test", "Significance", "Metric", "Value"}

// WriteRender writes r as a single-sheet workbook. Tables and charts export a
// header row plus one row per table row or category; scatter renders export
// the points; hypothesis cards export one row per metric line.
func WriteRender(r dispatch.Render, w io.Writer) error {
	if r.Empty() {
		return ErrNothingToExport
	}

	headers, rows := sheetRows(r)

	f := excelize.NewFile()
	defer f.Close()

	if err := writeRow(f, 1, headers); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(f, i+2, row); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "failed to create header style")
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return errors.Wrap(err, "failed to address header row")
	}
	if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
		return errors.Wrap(err, "failed to style header row")
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "failed to write workbook")
	}

	internal.DefaultLogger.For("Export").Debug("%s exported (%d columns, %d rows)",
		r.Kind, len(headers), len(rows))
	return nil
}

func writeRow(f *excelize.File, n int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return errors.Wrapf(err, "failed to address row %d", n)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return errors.Wrapf(err, "failed to write row %d", n)
	}
	return nil
}

func sheetRows(r dispatch.Render) ([]interface{}, [][]interface{}) {
	switch {
	case r.Table != nil:
		return tableRows(r.Table)
	case r.Chart != nil:
		return chartRows(r.Chart)
	case r.Scatter != nil:
		return scatterRows(r.Scatter)
	default:
		return cardRows(r)
	}
}

func tableRows(t *dispatch.Table) ([]interface{}, [][]interface{}) {
	headers := make([]interface{}, 0, len(t.Headers))
	for _, h := range t.Headers {
		headers = append(headers, h.Label)
	}
	rows := make([][]interface{}, 0, len(t.Rows))
	for _, cells := range t.Rows {
		row := make([]interface{}, 0, len(cells))
		for _, c := range cells {
			// exports carry the untruncated text
			if c.Full != "" {
				row = append(row, c.Full)
			} else {
				row = append(row, c.Text)
			}
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func chartRows(c *dispatch.Chart) ([]interface{}, [][]interface{}) {
	x := c.XField
	if x == "" {
		x = "Category"
	}
	headers := []interface{}{x}
	for _, s := range c.Series {
		headers = append(headers, s.Name)
	}
	rows := make([][]interface{}, 0, len(c.Categories))
	for i, category := range c.Categories {
		row := []interface{}{category}
		for _, s := range c.Series {
			row = append(row, cellValue(s.Values, i))
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func scatterRows(s *dispatch.Scatter) ([]interface{}, [][]interface{}) {
	headers := []interface{}{s.XName, s.YName}
	rows := make([][]interface{}, 0, len(s.Points))
	for _, p := range s.Points {
		rows = append(rows, []interface{}{p.X, p.Y})
	}
	return headers, rows
}

func cardRows(r dispatch.Render) ([]interface{}, [][]interface{}) {
	headers := make([]interface{}, 0, len(cardHeaders))
	for _, h := range cardHeaders {
		headers = append(headers, h)
	}
	var rows [][]interface{}
	for _, card := range r.Cards {
		if card.Payload == nil {
			continue
		}
		for _, line := range card.Payload.MetricLines() {
			rows = append(rows, []interface{}{
				string(card.ID), card.Question, card.TestName, card.Badge(), line.Label, line.Value,
			})
		}
	}
	return headers, rows
}

// cellValue keeps resolved numbers numeric and writes the absent marker
// otherwise
func cellValue(values []dataset.Number, i int) interface{} {
	if i >= len(values) {
		return dataset.AbsentMarker
	}
	if v, ok := values[i].Value(); ok {
		return v
	}
	return dataset.AbsentMarker
}

// Filename is the download name for an exported insight
func Filename(id string) string {
	return fmt.Sprintf("%s.xlsx", id)
}
