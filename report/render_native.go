package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// NativeRenderer writes the tabular layout and binds an Excel column chart
// to each block, placed to the right of the data.
type NativeRenderer struct{}

func (NativeRenderer) Render(f *excelize.File, sheet string, t *Table) error {
	blocks, err := writeTable(f, sheet, t)
	if err != nil {
		return err
	}
	for i, b := range blocks {
		s := t.Series[i]
		c := &excelize.Chart{
			Type:      excelize.Col,
			Title:     []excelize.RichTextRun{{Text: s.Title}},
			PlotArea:  excelize.ChartPlotArea{ShowVal: true},
			YAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Call count"}}},
			Dimension: excelize.ChartDimension{Width: 640, Height: 300},
		}
		if t.Variant == AfterHours {
			weeklySeries(c, sheet, b, s)
		} else {
			daySeries(c, sheet, b, s)
		}
		cell := fmt.Sprintf("E%d", b.headRow)
		if err := f.AddChart(sheet, cell, c); err != nil {
			return fmt.Errorf("chart at %s: %w", cell, err)
		}
	}
	return nil
}

// weeklySeries gives every weekday its own single-bar series so each bar
// carries the weekday colour; the legend names the days.
func weeklySeries(c *excelize.Chart, sheet string, b block, s Series) {
	for i, p := range s.Points {
		row := b.firstRow + i
		c.Series = append(c.Series, excelize.ChartSeries{
			Name:   fmt.Sprintf("%s!$%s$%d", sheet, b.catCol, row),
			Values: fmt.Sprintf("%s!$%s$%d:$%s$%d", sheet, b.valCol, row, b.valCol, row),
			Fill:   excelize.Fill{Type: "pattern", Color: []string{p.Color}, Pattern: 1},
		})
	}
	c.Legend = excelize.ChartLegend{Position: "bottom"}
	c.XAxis = excelize.ChartAxis{TickLabelPosition: excelize.ChartTickLabelNone, Title: []excelize.RichTextRun{{Text: "Day"}}}
}

func daySeries(c *excelize.Chart, sheet string, b block, s Series) {
	vary := false
	c.VaryColors = &vary
	c.Series = []excelize.ChartSeries{{
		Name:       fmt.Sprintf("%s!$%s$%d", sheet, b.valCol, b.firstRow-1),
		Categories: fmt.Sprintf("%s!$%s$%d:$%s$%d", sheet, b.catCol, b.firstRow, b.catCol, b.lastRow),
		Values:     fmt.Sprintf("%s!$%s$%d:$%s$%d", sheet, b.valCol, b.firstRow, b.valCol, b.lastRow),
		Fill:       excelize.Fill{Type: "pattern", Color: []string{s.Day.Color}, Pattern: 1},
	}}
	c.Legend = excelize.ChartLegend{Position: "none"}
	c.XAxis = excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Time"}}}
}
