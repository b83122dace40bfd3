package report

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// OutputName derives the download name of a processed workbook.
func OutputName(v Variant, input string) string {
	return "processed_" + string(v) + "_" + filepath.Base(input)
}

// Save writes f to dir/name and returns the path. A failed save leaves no
// file behind.
func Save(f *excelize.File, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	out := filepath.Join(dir, name)
	if err := f.SaveAs(out); err != nil {
		os.Remove(out)
		return "", err
	}
	return out, nil
}
