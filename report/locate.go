package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

/* ──────────── header locator + timestamp extractor ──────────── */

const (
	// HeaderToken is the exact cell value marking the timestamp column.
	HeaderToken = "TIMESTAMP"
	// HeaderScanRows bounds the header search to the first rows of the sheet.
	HeaderScanRows = 20
)

// Cell is one raw value read beneath the header.
type Cell struct {
	Row   int    // 1-based sheet row
	Value string // displayed value
	Text  bool   // true for string cells; dates, numbers and formulas are not
}

// Header is the position of the TIMESTAMP header cell, both 1-based.
type Header struct {
	Col int
	Row int
}

// Name returns the A1 reference of the header cell.
func (h Header) Name() string {
	name, _ := excelize.CoordinatesToCellName(h.Col, h.Row)
	return name
}

// LocateHeader scans rows 1..HeaderScanRows, each row left to right, and
// returns the first cell whose value is exactly HeaderToken.
func LocateHeader(rows [][]string) (Header, error) {
	for r, row := range rows {
		if r >= HeaderScanRows {
			break
		}
		for c, v := range row {
			if v == HeaderToken {
				return Header{Col: c + 1, Row: r + 1}, nil
			}
		}
	}
	return Header{}, fmt.Errorf("%w in the first %d rows", ErrMissingColumn, HeaderScanRows)
}

// ExtractColumn collects the non-empty cells below h in h's column, in sheet
// order, down to the last row in rows.
func ExtractColumn(f *excelize.File, sheet string, rows [][]string, h Header) ([]Cell, error) {
	var cells []Cell
	for r := h.Row; r < len(rows); r++ {
		row := rows[r]
		if h.Col-1 >= len(row) || row[h.Col-1] == "" {
			continue
		}
		name, err := excelize.CoordinatesToCellName(h.Col, r+1)
		if err != nil {
			return nil, err
		}
		typ, err := f.GetCellType(sheet, name)
		if err != nil {
			return nil, fmt.Errorf("cell %s: %w", name, err)
		}
		cells = append(cells, Cell{
			Row:   r + 1,
			Value: row[h.Col-1],
			Text:  typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString,
		})
	}
	return cells, nil
}
