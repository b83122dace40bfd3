package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jalad-shrimali/callreport/weekday"
)

// WeeklyTitle is the title of the aggregate weekly report.
const WeeklyTitle = "Total Missed Calls - Week Overview (After Hours)"

// Point is one bar / table row.
type Point struct {
	Label string // x-axis label
	Day   string // day-number token, per-weekday reports only
	Hour  string // 12-hour label, empty when the label carried no hour
	Count int
	Color string // #rrggbb
}

// Series is one chart or one table block.
type Series struct {
	Day       weekday.Day
	DayNumber string
	Title     string
	Points    []Point
}

// Total sums the counts of the series.
func (s Series) Total() int {
	n := 0
	for _, p := range s.Points {
		n += p.Count
	}
	return n
}

// Max returns the largest count of the series.
func (s Series) Max() int {
	m := 0
	for _, p := range s.Points {
		if p.Count > m {
			m = p.Count
		}
	}
	return m
}

// Table is the renderer-neutral result of aggregation.
type Table struct {
	Variant Variant
	Title   string
	Series  []Series
}

// Aggregate turns buckets into the table for variant v.
func Aggregate(v Variant, b *Buckets) (*Table, error) {
	switch v {
	case AfterHours:
		return weeklyTotals(b), nil
	case CallerDisconnected:
		return perWeekday(b), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidVariant, v)
}

// weeklyTotals yields one series with a point per weekday, Mon→Sun.
func weeklyTotals(b *Buckets) *Table {
	days := b.Days().Days()
	s := Series{Title: WeeklyTitle, Points: make([]Point, 0, len(days))}
	for i, d := range days {
		s.Points = append(s.Points, Point{Label: d.Abbr, Count: len(b.At(i)), Color: d.Color})
	}
	return &Table{Variant: AfterHours, Title: WeeklyTitle, Series: []Series{s}}
}

// perWeekday yields a series per non-empty weekday; each distinct composite
// label becomes one point, in first-appearance order.
func perWeekday(b *Buckets) *Table {
	t := &Table{Variant: CallerDisconnected}
	for i, d := range b.Days().Days() {
		labels := b.At(i)
		if len(labels) == 0 {
			continue
		}
		s := Series{Day: d}

		pos := map[string]int{}
		for _, l := range labels {
			if j, ok := pos[l]; ok {
				s.Points[j].Count++
				continue
			}
			pos[l] = len(s.Points)
			p := Point{Count: 1, Color: d.Color}
			parts := strings.Split(l, ",")
			if len(parts) > 2 {
				p.Day = strings.TrimSpace(parts[1])
				// the title carries the day token of the last labelled point
				s.DayNumber = p.Day
				if h, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil {
					p.Hour = HourLabel(h)
				}
			}
			p.Label = p.Hour
			s.Points = append(s.Points, p)
		}

		s.Title = fmt.Sprintf("%s %s - Total missed calls: %d (Caller Disconnected)", d.Abbr, s.DayNumber, s.Total())
		t.Series = append(t.Series, s)
	}
	return t
}

// HourLabel converts a 24-hour value to "12am".."11pm".
func HourLabel(h int) string {
	switch {
	case h == 0:
		return "12am"
	case h >= 1 && h < 12:
		return fmt.Sprintf("%dam", h)
	case h == 12:
		return "12pm"
	default:
		return fmt.Sprintf("%dpm", h-12)
	}
}
