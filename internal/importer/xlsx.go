package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/bible-bee-api/internal/models"
	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads scripture rows from the first sheet of a workbook. The
// first row is the header, with the same columns as the CSV layout. Blank
// rows are skipped.
func ReadXLSX(r io.Reader) ([]models.CsvRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrInvalidFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidFile)
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %v", ErrInvalidFile, sheets[0], err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrInvalidFile)
	}

	cols, err := headerIndex(records[0])
	if err != nil {
		return nil, err
	}
	rows := []models.CsvRow{}
	for i, record := range records[1:] {
		if blank(record) {
			continue
		}
		row, err := cols.row(record)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %v", ErrInvalidFile, sheets[0], i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
