// Package spreadsheet parses and serializes xlsx workbooks as ordered
// header-keyed rows. It is the single codec used for catalog import and
// for every tabular export in the admin API.
package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrMalformedFile is returned when the byte stream is not a readable workbook.
var ErrMalformedFile = errors.New("malformed spreadsheet file")

// Row is a single data row keyed by column header. Key order is preserved
// so that serialization can reproduce the column order of the first row,
// which Go maps alone cannot guarantee.
type Row struct {
	keys   []string
	values map[string]any
}

// NewRow returns an empty Row.
func NewRow() *Row {
	return &Row{values: make(map[string]any)}
}

// Set stores a cell value under a header. First insertion of a header fixes
// its position in the column order.
func (r *Row) Set(key string, value any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the cell value for a header.
func (r *Row) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the headers in insertion order.
func (r *Row) Keys() []string {
	return r.keys
}

// String returns the cell under key coerced to a string. Missing cells
// coerce to "".
func (r *Row) String(key string) string {
	v, ok := r.values[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Parse reads the first sheet of an xlsx workbook. The first row is treated
// as the header; every following row becomes one Row. Cell values are
// inferred as bool, float64 or string. A workbook with no data rows parses
// to an empty slice, not an error.
func Parse(data []byte) ([]*Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedFile)
	}

	raw, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	if len(raw) < 2 {
		return nil, nil
	}

	headers := raw[0]
	rows := make([]*Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		if isBlank(cells) {
			continue
		}
		row := NewRow()
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(cells) {
				row.Set(header, inferValue(cells[i]))
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Serialize writes rows to a single-sheet workbook. Column order follows the
// key insertion order of the first row; an empty input produces an empty
// sheet with no columns.
func Serialize(rows []*Row, sheetLabel string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetLabel)
	if err != nil {
		return nil, fmt.Errorf("create sheet %q: %w", sheetLabel, err)
	}
	f.SetActiveSheet(index)
	// Drop the default sheet so the output contains only the labeled one.
	if sheetLabel != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	if len(rows) > 0 {
		headers := rows[0].Keys()
		widths := make([]int, len(headers))
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			if err := f.SetCellValue(sheetLabel, cell, h); err != nil {
				return nil, fmt.Errorf("write header %q: %w", h, err)
			}
			widths[i] = len([]rune(h))
		}
		for rowIdx, row := range rows {
			for colIdx, h := range headers {
				v, ok := row.Get(h)
				if !ok {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
				if err := f.SetCellValue(sheetLabel, cell, v); err != nil {
					return nil, fmt.Errorf("write cell %s: %w", cell, err)
				}
				if w := cellWidth(v); w > widths[colIdx] {
					widths[colIdx] = w
				}
			}
		}
		for i := range headers {
			col, _ := excelize.ColumnNumberToName(i + 1)
			// +2 padding, cosmetic only.
			_ = f.SetColWidth(sheetLabel, col, col, float64(widths[i]+2))
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// inferValue maps a raw cell string to bool, float64 or string.
func inferValue(cell string) any {
	trimmed := strings.TrimSpace(cell)
	switch trimmed {
	case "TRUE", "true", "True":
		return true
	case "FALSE", "false", "False":
		return false
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil && trimmed != "" {
		return n
	}
	return cell
}

func cellWidth(v any) int {
	switch t := v.(type) {
	case string:
		return len([]rune(t))
	case float64:
		return len(strconv.FormatFloat(t, 'f', -1, 64))
	case bool:
		return 5
	default:
		return len(fmt.Sprintf("%v", t))
	}
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
