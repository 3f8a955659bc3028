// Package importer reads scripture spreadsheets and JSON text bundles into
// their transient import shapes
package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bible-bee-api/internal/models"
)

// ErrInvalidFile wraps every problem with the shape of an uploaded file
var ErrInvalidFile = errors.New("invalid import file")

// Spreadsheet columns. Header names are matched case-insensitively and
// unknown columns are ignored.
const (
	ColReference      = "reference"
	ColText           = "text"
	ColTranslation    = "translation"
	ColScriptureOrder = "scripture_order"
)

// ReadRows reads a .csv or .xlsx file, chosen by the name's extension
func ReadRows(name string, r io.Reader) ([]models.CsvRow, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", "":
		return ReadCSV(r)
	case ".xlsx":
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrInvalidFile, filepath.Ext(name))
	}
}

// ReadCSV reads scripture rows from CSV with a header line. A UTF-8 BOM is
// tolerated.
func ReadCSV(r io.Reader) ([]models.CsvRow, error) {
	cr := csv.NewReader(stripUTF8BOM(bufio.NewReader(r)))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: missing header", ErrInvalidFile)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	cols, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	rows := []models.CsvRow{}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
		}
		row, err := cols.row(record)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidFile, line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

// columns maps a known column to its position, -1 when absent
type columns map[string]int

func headerIndex(header []string) (columns, error) {
	cols := columns{ColReference: -1, ColText: -1, ColTranslation: -1, ColScriptureOrder: -1}
	for i, h := range header {
		if !utf8.ValidString(h) {
			return nil, fmt.Errorf("%w: invalid header encoding", ErrInvalidFile)
		}
		name := strings.ToLower(strings.TrimSpace(h))
		if pos, known := cols[name]; known && pos < 0 {
			cols[name] = i
		}
	}
	if cols[ColReference] < 0 {
		return nil, fmt.Errorf("%w: missing required header column: %s", ErrInvalidFile, ColReference)
	}
	return cols, nil
}

func (c columns) get(record []string, col string) string {
	i := c[col]
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (c columns) row(record []string) (models.CsvRow, error) {
	row := models.CsvRow{
		Reference:   c.get(record, ColReference),
		Text:        c.get(record, ColText),
		Translation: c.get(record, ColTranslation),
	}
	if v := c.get(record, ColScriptureOrder); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return models.CsvRow{}, fmt.Errorf("invalid %s %q", ColScriptureOrder, v)
		}
		row.ScriptureOrder = &n
	}
	return row, nil
}
