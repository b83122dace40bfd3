package report

import (
	"strings"

	"github.com/jalad-shrimali/callreport/weekday"
)

/* ──────────── day classifier ────────────
   Timestamps follow a fixed-width layout: the weekday plus separator sit in
   the first 6 characters and the hour in the 2 characters at [-8:-6]
   ("Mon, 15 Jan 2024 08:15:00"). Positions count code points. Anything that
   does not fit is dropped without a diagnostic.
*/

// MinTimestampLen is the shortest value the classifier accepts.
const MinTimestampLen = 24

// CompositeLabel derives "<first 6 chars>, <chars -8:-6>" from a timestamp.
// ok is false for values shorter than MinTimestampLen.
func CompositeLabel(s string) (label string, ok bool) {
	r := []rune(s)
	if len(r) < MinTimestampLen {
		return "", false
	}
	return string(r[:6]) + ", " + string(r[len(r)-8:len(r)-6]), true
}

// WeekdayKey returns the first comma segment of a label, trimmed.
func WeekdayKey(label string) string {
	first, _, _ := strings.Cut(label, ",")
	return strings.TrimSpace(first)
}

// Buckets holds composite labels per weekday, in insertion order.
type Buckets struct {
	days   *weekday.Table
	labels [][]string
}

// NewBuckets returns empty buckets for every day of days.
func NewBuckets(days *weekday.Table) *Buckets {
	return &Buckets{days: days, labels: make([][]string, days.Len())}
}

// Add appends label to the bucket of abbr. It reports false for an
// unrecognised abbreviation.
func (b *Buckets) Add(abbr, label string) bool {
	i, ok := b.days.Index(abbr)
	if !ok {
		return false
	}
	b.labels[i] = append(b.labels[i], label)
	return true
}

// Labels returns the bucket of abbr.
func (b *Buckets) Labels(abbr string) []string {
	i, ok := b.days.Index(abbr)
	if !ok {
		return nil
	}
	return b.labels[i]
}

// At returns the bucket at display position i.
func (b *Buckets) At(i int) []string { return b.labels[i] }

// Days returns the weekday table the buckets were built on.
func (b *Buckets) Days() *weekday.Table { return b.days }

// Total returns the number of labels across all buckets.
func (b *Buckets) Total() int {
	n := 0
	for _, l := range b.labels {
		n += len(l)
	}
	return n
}

// Classify buckets cells by weekday. skipped counts the cells that were
// dropped: non-text values, short values and unknown weekday tokens. It is a
// diagnostic only.
func Classify(cells []Cell, days *weekday.Table) (b *Buckets, skipped int) {
	b = NewBuckets(days)
	for _, c := range cells {
		if !c.Text {
			skipped++
			continue
		}
		label, ok := CompositeLabel(c.Value)
		if !ok {
			skipped++
			continue
		}
		if !b.Add(WeekdayKey(label), label) {
			skipped++
		}
	}
	return b, skipped
}
