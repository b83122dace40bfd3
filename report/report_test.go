package report

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jalad-shrimali/callreport/weekday"
	"github.com/xuri/excelize/v2"
)

var sampleCalls = []any{
	"Mon, 15 Jan 2024 08:15:00",
	"Mon, 15 Jan 2024 08:40:00",
	"Mon, 15 Jan 2024 21:05:00",
	"Wed, 17 Jan 2024 00:10:00",
	nil,
	"short",
	12345,
	"Xyz, 17 Jan 2024 00:10:00",
}

// buildWorkbook saves a workbook whose sheet carries the TIMESTAMP header
// at headerCell followed by values.
func buildWorkbook(t *testing.T, sheet, headerCell string, values []any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		f.SetSheetName("Sheet1", sheet)
	}
	f.SetCellValue(sheet, "A1", "Call log export")
	col, row, err := excelize.CellNameToCoordinates(headerCell)
	if err != nil {
		t.Fatalf("bad header cell: %v", err)
	}
	f.SetCellValue(sheet, headerCell, HeaderToken)
	for i, v := range values {
		if v == nil {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(col, row+1+i)
		f.SetCellValue(sheet, cell, v)
	}

	path := filepath.Join(t.TempDir(), "calls.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return path
}

func reportRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(ReportSheet)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", ReportSheet, err)
	}
	return rows
}

func TestProcessAfterHoursTable(t *testing.T) {
	in := buildWorkbook(t, DefaultSourceSheet, "C5", sampleCalls)
	out := t.TempDir()

	res, err := Process(context.Background(), in, Options{Variant: AfterHours, Mode: ModeTable, OutDir: out})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if want := filepath.Join(out, "processed_after_hours_calls.xlsx"); res.Path != want {
		t.Errorf("Path = %q, expected %q", res.Path, want)
	}
	if res.Header != (Header{Col: 3, Row: 5}) {
		t.Errorf("Header = %+v, expected C5", res.Header)
	}
	if res.Extracted != 7 || res.Classified != 4 || res.Skipped != 3 {
		t.Errorf("counts = %d/%d/%d, expected 7/4/3", res.Extracted, res.Classified, res.Skipped)
	}
	if res.Totals["Mon"] != 3 || res.Totals["Wed"] != 1 || res.Totals["Sun"] != 0 {
		t.Errorf("Totals = %v", res.Totals)
	}

	want := [][]string{
		{"Day", "Call count"},
		{"Mon", "3"},
		{"Tue", "0"},
		{"Wed", "1"},
		{"Thu", "0"},
		{"Fri", "0"},
		{"Sat", "0"},
		{"Sun", "0"},
	}
	if got := reportRows(t, res.Path); !reflect.DeepEqual(got, want) {
		t.Errorf("Reporte rows = %q, expected %q", got, want)
	}
}

func TestProcessCallerDisconnectedTable(t *testing.T) {
	in := buildWorkbook(t, DefaultSourceSheet, "C5", sampleCalls)

	res, err := Process(context.Background(), in, Options{Variant: CallerDisconnected, Mode: ModeTable, OutDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	want := [][]string{
		{"Mon 1 - Total missed calls: 3 (Caller Disconnected)"},
		{"Day", "Hour", "Call count"},
		{"Mon 1", "8am", "2"},
		{"Mon 1", "9pm", "1"},
		nil,
		{"Wed 1 - Total missed calls: 1 (Caller Disconnected)"},
		{"Day", "Hour", "Call count"},
		{"Wed 1", "12am", "1"},
	}
	got := reportRows(t, res.Path)
	if len(got) != len(want) {
		t.Fatalf("Reporte has %d rows, expected %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if len(want[i]) == 0 && len(got[i]) == 0 {
			continue
		}
		if !reflect.DeepEqual(got[i], want[i]) {
			t.Errorf("row %d = %q, expected %q", i+1, got[i], want[i])
		}
	}
}

func TestProcessChartEmbedsPictures(t *testing.T) {
	calls := append(append([]any{}, sampleCalls...), "Fri, 19 Jan 2024 22:30:00")
	in := buildWorkbook(t, DefaultSourceSheet, "C5", calls)

	tests := []struct {
		variant Variant
		anchors []string
	}{
		{AfterHours, []string{"B2"}},
		{CallerDisconnected, []string{"B2", "B22", "B42"}},
	}
	for _, tt := range tests {
		res, err := Process(context.Background(), in, Options{Variant: tt.variant, Mode: ModeChart, OutDir: t.TempDir()})
		if err != nil {
			t.Fatalf("%s: Process failed: %v", tt.variant, err)
		}

		f, err := excelize.OpenFile(res.Path)
		if err != nil {
			t.Fatalf("open output: %v", err)
		}
		for _, cell := range tt.anchors {
			pics, err := f.GetPictures(ReportSheet, cell)
			if err != nil {
				t.Errorf("%s: GetPictures(%s): %v", tt.variant, cell, err)
				continue
			}
			if len(pics) != 1 || pics[0].Extension != ".png" || len(pics[0].File) == 0 {
				t.Errorf("%s: expected one PNG at %s, got %d pictures", tt.variant, cell, len(pics))
			}
		}
		f.Close()

		entries, _ := os.ReadDir(filepath.Dir(res.Path))
		if len(entries) != 1 {
			t.Errorf("%s: output dir holds %d entries, expected only the workbook", tt.variant, len(entries))
		}
	}
}

// chartParts returns the chart XML parts of the workbook at path.
func chartParts(t *testing.T, path string) []string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer zr.Close()

	var parts []string
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "xl/charts/chart") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		parts = append(parts, string(data))
	}
	return parts
}

func TestProcessNativeChart(t *testing.T) {
	in := buildWorkbook(t, DefaultSourceSheet, "C5", sampleCalls)

	res, err := Process(context.Background(), in, Options{Variant: CallerDisconnected, Mode: ModeNative, OutDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	rows := reportRows(t, res.Path)
	if len(rows) < 3 || rows[2][1] != "8am" {
		t.Errorf("native mode should keep the tabular data, got %q", rows)
	}

	parts := chartParts(t, res.Path)
	if len(parts) != 2 {
		t.Fatalf("expected 2 charts, got %d", len(parts))
	}
	for _, p := range parts {
		if !strings.Contains(p, "Time") || !strings.Contains(p, "Call count") {
			t.Errorf("chart is missing its axis titles")
		}
	}
}

func TestProcessNativeWeeklyUsesWeekdayColours(t *testing.T) {
	in := buildWorkbook(t, DefaultSourceSheet, "C5", sampleCalls)

	res, err := Process(context.Background(), in, Options{Variant: AfterHours, Mode: ModeNative, OutDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	parts := chartParts(t, res.Path)
	if len(parts) != 1 {
		t.Fatalf("expected 1 chart, got %d", len(parts))
	}
	days := weekday.Default()
	for i := 0; i < days.Len(); i++ {
		d := days.At(i)
		if color := strings.TrimPrefix(d.Color, "#"); !strings.Contains(parts[0], `"`+color+`"`) {
			t.Errorf("weekly chart has no %s fill for %s", color, d.Abbr)
		}
		if ref := fmt.Sprintf("%s!$A$%d", ReportSheet, i+2); !strings.Contains(parts[0], ref) {
			t.Errorf("weekly chart has no series named by %s", ref)
		}
	}
}

func TestProcessReplacesReportSheet(t *testing.T) {
	in := buildWorkbook(t, DefaultSourceSheet, "C5", sampleCalls)

	first, err := Process(context.Background(), in, Options{Variant: AfterHours, Mode: ModeTable, OutDir: t.TempDir()})
	if err != nil {
		t.Fatalf("first Process failed: %v", err)
	}

	// Dirty the existing report sheet, then run again on the processed file.
	f, err := excelize.OpenFile(first.Path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	f.SetCellValue(ReportSheet, "Z99", "stale")
	if err := f.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	f.Close()

	second, err := Process(context.Background(), first.Path, Options{Variant: AfterHours, Mode: ModeTable, OutDir: t.TempDir()})
	if err != nil {
		t.Fatalf("second Process failed: %v", err)
	}

	again, err := Process(context.Background(), in, Options{Variant: AfterHours, Mode: ModeTable, OutDir: t.TempDir()})
	if err != nil {
		t.Fatalf("third Process failed: %v", err)
	}
	if a, b := reportRows(t, second.Path), reportRows(t, again.Path); !reflect.DeepEqual(a, b) {
		t.Errorf("report differs between runs:\n%q\n%q", a, b)
	}

	out, err := excelize.OpenFile(second.Path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer out.Close()
	if sheets := out.GetSheetList(); !reflect.DeepEqual(sheets, []string{DefaultSourceSheet, ReportSheet}) {
		t.Errorf("sheets = %q, expected exactly one %s", sheets, ReportSheet)
	}
}

func TestProcessErrors(t *testing.T) {
	noSheet := buildWorkbook(t, "Sheet1", "C5", sampleCalls)
	deepHeader := buildWorkbook(t, DefaultSourceSheet, "C21", sampleCalls)
	ok := buildWorkbook(t, DefaultSourceSheet, "C5", sampleCalls)

	tests := []struct {
		name string
		path string
		opts Options
		want error
	}{
		{"missing sheet", noSheet, Options{Variant: AfterHours}, ErrMissingSheet},
		{"missing column", deepHeader, Options{Variant: CallerDisconnected}, ErrMissingColumn},
		{"invalid variant", ok, Options{Variant: "weekly"}, ErrInvalidVariant},
		{"invalid mode", ok, Options{Variant: AfterHours, Mode: "pdf"}, ErrInvalidMode},
	}
	for _, tt := range tests {
		out := t.TempDir()
		tt.opts.OutDir = out
		res, err := Process(context.Background(), tt.path, tt.opts)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
		if res != nil {
			t.Errorf("%s: expected nil result", tt.name)
		}
		if entries, _ := os.ReadDir(out); len(entries) != 0 {
			t.Errorf("%s: output dir not empty", tt.name)
		}
	}

	var se *StageError
	_, err := Process(context.Background(), deepHeader, Options{Variant: AfterHours, OutDir: t.TempDir()})
	if !errors.As(err, &se) || se.Stage != "locate" {
		t.Errorf("expected locate StageError, got %v", err)
	}
}

func TestProcessCanceled(t *testing.T) {
	in := buildWorkbook(t, DefaultSourceSheet, "C5", sampleCalls)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := t.TempDir()
	if _, err := Process(ctx, in, Options{Variant: AfterHours, OutDir: out}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if entries, _ := os.ReadDir(out); len(entries) != 0 {
		t.Error("canceled run left output behind")
	}
}

func TestParseVariantAndMode(t *testing.T) {
	if v, err := ParseVariant("caller_disconnected"); err != nil || v != CallerDisconnected {
		t.Errorf("ParseVariant = %q, %v", v, err)
	}
	if _, err := ParseVariant(""); !errors.Is(err, ErrInvalidVariant) {
		t.Errorf("ParseVariant(\"\") = %v", err)
	}
	if m, err := ParseMode(" Native "); err != nil || m != ModeNative {
		t.Errorf("ParseMode = %q, %v", m, err)
	}
	if _, err := ParseMode("svg"); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("ParseMode(svg) = %v", err)
	}
}

func TestOutputName(t *testing.T) {
	if got := OutputName(AfterHours, "/tmp/x/calls.xlsx"); got != "processed_after_hours_calls.xlsx" {
		t.Errorf("OutputName = %q", got)
	}
}
