package report

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"github.com/xuri/excelize/v2"
)

/* ──────────── image renderer ────────────
   Charts are rendered to PNG in memory and embedded as pictures, so only
   the image bytes end up in the workbook and nothing is left on disk.
*/

const (
	chartWidth   = 1000
	chartHeight  = 300
	chartBar     = 40
	chartSpacing = 20
	chartAnchor  = 2  // first anchor row, column B
	chartStride  = 20 // rows between stacked charts
	valueGap     = 4  // pixels between a bar top and its count
)

// ChartRenderer embeds one PNG bar chart per series.
type ChartRenderer struct{}

func (ChartRenderer) Render(f *excelize.File, sheet string, t *Table) error {
	for i, s := range t.Series {
		png, err := renderBarChart(s, yLimit(t.Variant, s), t.Variant)
		if err != nil {
			return fmt.Errorf("chart %q: %w", s.Title, err)
		}
		cell := fmt.Sprintf("B%d", chartAnchor+i*chartStride)
		if err := f.AddPictureFromBytes(sheet, cell, &excelize.Picture{
			Extension: ".png",
			File:      png,
			Format:    &excelize.GraphicOptions{AltText: s.Title},
		}); err != nil {
			return fmt.Errorf("embed chart at %s: %w", cell, err)
		}
	}
	return nil
}

// yLimit gives per-weekday charts 50% headroom over the largest bar. The
// range never collapses to zero.
func yLimit(v Variant, s Series) float64 {
	m := float64(s.Max())
	if v == CallerDisconnected {
		m *= 1.5
	} else {
		m *= 1.1
	}
	if m < 1 {
		m = 1
	}
	return m
}

func renderBarChart(s Series, yMax float64, v Variant) ([]byte, error) {
	bars := make([]chart.Value, 0, len(s.Points))
	counts := make([]int, 0, len(s.Points))
	for _, p := range s.Points {
		c := drawing.ColorFromHex(strings.TrimPrefix(p.Color, "#"))
		bars = append(bars, chart.Value{
			Label: p.Label,
			Value: float64(p.Count),
			Style: chart.Style{FillColor: c, StrokeColor: c},
		})
		counts = append(counts, p.Count)
	}

	width := chartWidth
	if w := 120 + len(bars)*(chartBar+chartSpacing); w > width {
		width = w
	}
	graph := chart.BarChart{
		Title:      s.Title,
		Width:      width,
		Height:     chartHeight,
		BarWidth:   chartBar,
		BarSpacing: chartSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 30}},
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  "Call count",
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
		},
		Bars:     bars,
		Elements: []chart.Renderable{xAxisName(xAxisTitle(v), chartHeight)},
	}
	if v == CallerDisconnected {
		graph.Elements = append(graph.Elements, valueLabels(counts, yMax))
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func xAxisTitle(v Variant) string {
	if v == CallerDisconnected {
		return "Time"
	}
	return "Day"
}

// barSlots reproduces the bar layout of chart.BarChart: the bar width and
// spacing once n bars are fitted into a canvas w pixels wide.
func barSlots(w, n int) (width, spacing int) {
	spacing = chartSpacing
	if n*(chartBar+spacing) > w {
		spacing = 0
		if rest := w - n*chartBar; rest > 0 {
			spacing = int(math.Ceil(float64(rest) / float64(n)))
		}
	}
	width = chartBar
	if n*(chartBar+spacing) > w {
		width = 0
		if rest := w - n*spacing; rest > 0 {
			width = int(math.Ceil(float64(rest) / float64(n)))
		}
	}
	return width, spacing
}

// labelAnchor is where a count is printed: X is the bar centre, Y the
// baseline just above the bar top.
type labelAnchor struct {
	X, Y int
}

func labelAnchors(box chart.Box, counts []int, yMax float64) []labelAnchor {
	yr := chart.ContinuousRange{Min: 0, Max: yMax, Domain: box.Height()}
	width, spacing := barSlots(box.Width(), len(counts))
	anchors := make([]labelAnchor, 0, len(counts))
	x := box.Left + spacing>>1
	for _, n := range counts {
		anchors = append(anchors, labelAnchor{
			X: x + width>>1,
			Y: box.Bottom - yr.Translate(float64(n)) - valueGap,
		})
		x += width + spacing
	}
	return anchors
}

// valueLabels prints each count above its bar.
func valueLabels(counts []int, yMax float64) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		style := chart.Style{FontSize: 8, FontColor: drawing.ColorBlack}.InheritFrom(defaults)
		for i, a := range labelAnchors(box, counts, yMax) {
			text := strconv.Itoa(counts[i])
			tb := chart.Draw.MeasureText(r, text, style)
			chart.Draw.Text(r, text, a.X-tb.Width()>>1, a.Y, style)
		}
	}
}

// xAxisName centres name along the bottom edge of the image.
func xAxisName(name string, height int) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		style := chart.Style{FontSize: 9, FontColor: drawing.ColorBlack}.InheritFrom(defaults)
		tb := chart.Draw.MeasureText(r, name, style)
		chart.Draw.Text(r, name, (box.Left+box.Right-tb.Width())>>1, height-8, style)
	}
}
