package excel

import (
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"salesdash/internal"
	"salesdash/internal/errors"
)

// DataReader reads an exported workbook back into header-keyed rows
type DataReader struct {
	filePath string
	logger   *internal.Logger
}

// NewDataReader creates a reader for the workbook at filePath
func NewDataReader(filePath string) *DataReader {
	return &DataReader{
		filePath: filePath,
		logger:   internal.DefaultLogger.For("DataReader"),
	}
}

// ReadData opens the workbook and reads its export sheet
func (r *DataReader) ReadData() (*ExcelData, error) {
	r.logger.Debug("Starting to read workbook: %s", r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound("workbook " + r.filePath)
	}

	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open workbook %s", r.filePath)
	}
	defer f.Close()

	return r.readSheet(f)
}

// Read parses a workbook from src
func Read(src io.Reader) (*ExcelData, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open workbook")
	}
	defer f.Close()

	r := &DataReader{filePath: "<stream>", logger: internal.DefaultLogger.For("DataReader")}
	return r.readSheet(f)
}

func (r *DataReader) readSheet(f *excelize.File) (*ExcelData, error) {
	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", SheetName)
	}
	if len(rows) == 0 {
		return nil, errors.InvalidInput("workbook has no header row")
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(RawRowData, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	r.logger.Debug("%s processed (%d columns, %d rows)", r.filePath, len(headers), len(dataRows))
	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}
