package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReportSheet is recreated on every run; it never accumulates.
const ReportSheet = "Reporte"

// Renderer writes an aggregated table into a sheet.
type Renderer interface {
	Render(f *excelize.File, sheet string, t *Table) error
}

// RendererFor returns the renderer of mode m.
func RendererFor(m Mode) (Renderer, error) {
	switch m {
	case ModeChart:
		return ChartRenderer{}, nil
	case ModeTable:
		return TableRenderer{}, nil
	case ModeNative:
		return NativeRenderer{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidMode, m)
}

// ResetSheet deletes sheet if it exists and creates it empty.
func ResetSheet(f *excelize.File, sheet string) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx != -1 {
		if err := f.DeleteSheet(sheet); err != nil {
			return err
		}
	}
	_, err = f.NewSheet(sheet)
	return err
}

/* ──────────── tabular renderer ──────────── */

// TableRenderer appends the table as plain cells from A1.
type TableRenderer struct{}

// block is where one series landed in the sheet; rows are 1-based and
// inclusive, columns are letters.
type block struct {
	headRow  int
	firstRow int
	lastRow  int
	catCol   string
	valCol   string
}

func (TableRenderer) Render(f *excelize.File, sheet string, t *Table) error {
	_, err := writeTable(f, sheet, t)
	return err
}

func writeTable(f *excelize.File, sheet string, t *Table) ([]block, error) {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if t.Variant == AfterHours {
		rows := [][]any{{"Day", "Call count"}}
		for _, p := range t.Series[0].Points {
			rows = append(rows, []any{p.Label, p.Count})
		}
		if err := writeRows(f, sheet, 1, rows); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, "A1", "B1", bold); err != nil {
			return nil, err
		}
		return []block{{headRow: 1, firstRow: 2, lastRow: len(rows), catCol: "A", valCol: "B"}}, nil
	}

	var blocks []block
	row := 1
	for _, s := range t.Series {
		rows := [][]any{{s.Title}, {"Day", "Hour", "Call count"}}
		for _, p := range s.Points {
			day := s.Day.Abbr
			if p.Day != "" {
				day += " " + p.Day
			}
			rows = append(rows, []any{day, p.Hour, p.Count})
		}
		if err := writeRows(f, sheet, row, rows); err != nil {
			return nil, err
		}
		head, _ := excelize.CoordinatesToCellName(1, row)
		cols, _ := excelize.CoordinatesToCellName(3, row+1)
		if err := f.SetCellStyle(sheet, head, cols, bold); err != nil {
			return nil, err
		}
		blocks = append(blocks, block{
			headRow:  row,
			firstRow: row + 2,
			lastRow:  row + len(rows) - 1,
			catCol:   "B",
			valCol:   "C",
		})
		row += len(rows) + 1 // one blank row between blocks
	}
	return blocks, nil
}

// writeRows sets rows starting at row start, column A.
func writeRows(f *excelize.File, sheet string, start int, rows [][]any) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, start+r)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
