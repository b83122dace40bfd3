// Package weekday holds the weekday table used to bucket and colour call
// records: display order, abbreviation as it appears in timestamps, and the
// colour each day is drawn with.
package weekday

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed weekdays.yaml
var defaultYAML []byte

// DaysPerWeek is the number of entries every table must carry.
const DaysPerWeek = 7

// Day is one row of the weekday table.
type Day struct {
	Abbr  string `yaml:"abbr"`
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

type tableDoc struct {
	Days []Day `yaml:"days"`
}

// Table is an ordered, immutable weekday table.
type Table struct {
	days  []Day
	index map[string]int
}

var hexColorRE = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Default returns the embedded Mon→Sun table.
func Default() *Table {
	t, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Errorf("embedded weekday table: %w", err))
	}
	return t
}

// Load reads a table from path, or returns Default when path is empty.
func Load(path string) (*Table, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weekday table: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a YAML weekday table. It requires exactly seven days with
// unique abbreviations and #rrggbb colours.
func Parse(data []byte) (*Table, error) {
	var doc tableDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse weekday table: %w", err)
	}
	if len(doc.Days) != DaysPerWeek {
		return nil, fmt.Errorf("weekday table has %d days, want %d", len(doc.Days), DaysPerWeek)
	}

	t := &Table{days: make([]Day, 0, DaysPerWeek), index: make(map[string]int, DaysPerWeek)}
	for i, d := range doc.Days {
		d.Abbr = strings.TrimSpace(d.Abbr)
		d.Color = strings.TrimSpace(d.Color)
		if d.Abbr == "" {
			return nil, fmt.Errorf("day %d: empty abbreviation", i+1)
		}
		if _, dup := t.index[d.Abbr]; dup {
			return nil, fmt.Errorf("day %d: duplicate abbreviation %q", i+1, d.Abbr)
		}
		if !hexColorRE.MatchString(d.Color) {
			return nil, fmt.Errorf("day %q: colour %q is not #rrggbb", d.Abbr, d.Color)
		}
		if d.Name == "" {
			d.Name = d.Abbr
		}
		t.index[d.Abbr] = i
		t.days = append(t.days, d)
	}
	return t, nil
}

// Days returns the days in display order. The slice is a copy.
func (t *Table) Days() []Day { return append([]Day(nil), t.days...) }

// Len returns the number of days in the table.
func (t *Table) Len() int { return len(t.days) }

// At returns the day at display position i.
func (t *Table) At(i int) Day { return t.days[i] }

// Index returns the display position of abbr. Matching is exact.
func (t *Table) Index(abbr string) (int, bool) {
	i, ok := t.index[abbr]
	return i, ok
}
