// Package report turns a call-log workbook into a weekday report: it finds
// the TIMESTAMP column of the source sheet, buckets each timestamp by
// weekday and hour, and writes the result into a fresh "Reporte" sheet of a
// copy of the workbook.
package report

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jalad-shrimali/callreport/weekday"
	"github.com/xuri/excelize/v2"
)

// Variant selects the report flavour.
type Variant string

const (
	AfterHours         Variant = "after_hours"         // one weekly chart
	CallerDisconnected Variant = "caller_disconnected" // one chart per weekday
)

// ParseVariant validates a variant selector.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.TrimSpace(s)); v {
	case AfterHours, CallerDisconnected:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidVariant, s)
}

// Mode selects the renderer.
type Mode string

const (
	ModeChart  Mode = "chart"  // embedded PNG
	ModeTable  Mode = "table"  // plain cells
	ModeNative Mode = "native" // cells plus an Excel chart
)

// ParseMode validates an output mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeChart, ModeTable, ModeNative:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// DefaultSourceSheet is the sheet call logs are exported to.
const DefaultSourceSheet = "Sheet0"

// Options configures one Process call.
type Options struct {
	Variant     Variant
	Mode        Mode           // defaults to ModeChart
	SourceSheet string         // defaults to DefaultSourceSheet
	OutDir      string         // defaults to os.TempDir()
	Weekdays    *weekday.Table // defaults to weekday.Default()
}

// Result describes a finished run.
type Result struct {
	Path       string
	Variant    Variant
	Mode       Mode
	Header     Header
	Extracted  int
	Classified int
	Skipped    int
	Totals     map[string]int
}

// Process runs the whole pipeline on the workbook at path and returns the
// location of the processed copy. The input file is never modified. On error
// no output file is left behind.
func Process(ctx context.Context, path string, opts Options) (*Result, error) {
	v, err := ParseVariant(string(opts.Variant))
	if err != nil {
		return nil, err
	}
	opts.Variant = v
	if opts.Mode == "" {
		opts.Mode = ModeChart
	}
	renderer, err := RendererFor(opts.Mode)
	if err != nil {
		return nil, err
	}
	if opts.SourceSheet == "" {
		opts.SourceSheet = DefaultSourceSheet
	}
	if opts.OutDir == "" {
		opts.OutDir = os.TempDir()
	}
	if opts.Weekdays == nil {
		opts.Weekdays = weekday.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, stageErr("load", err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(opts.SourceSheet)
	if err != nil {
		return nil, stageErr("load", err)
	}
	if idx == -1 {
		return nil, stageErr("load", fmt.Errorf("%w: %q", ErrMissingSheet, opts.SourceSheet))
	}

	rows, err := f.GetRows(opts.SourceSheet)
	if err != nil {
		return nil, stageErr("load", err)
	}
	header, err := LocateHeader(rows)
	if err != nil {
		return nil, stageErr("locate", err)
	}
	cells, err := ExtractColumn(f, opts.SourceSheet, rows, header)
	if err != nil {
		return nil, stageErr("extract", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buckets, skipped := Classify(cells, opts.Weekdays)
	table, err := Aggregate(opts.Variant, buckets)
	if err != nil {
		return nil, err
	}

	if err := ResetSheet(f, ReportSheet); err != nil {
		return nil, stageErr("render", err)
	}
	if err := renderer.Render(f, ReportSheet, table); err != nil {
		return nil, stageErr("render", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := Save(f, opts.OutDir, OutputName(opts.Variant, path))
	if err != nil {
		return nil, stageErr("save", err)
	}

	totals := make(map[string]int, opts.Weekdays.Len())
	for _, d := range opts.Weekdays.Days() {
		totals[d.Abbr] = len(buckets.Labels(d.Abbr))
	}
	return &Result{
		Path:       out,
		Variant:    opts.Variant,
		Mode:       opts.Mode,
		Header:     header,
		Extracted:  len(cells),
		Classified: buckets.Total(),
		Skipped:    skipped,
		Totals:     totals,
	}, nil
}
