package table

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"survivalvolume/domain/core"
)

// Timepoint is one entry of a table's time index. Day is the numeric time used
// for plotting and survival; Label is unique within a table and survives
// duplicate day numbers in ragged sources ("44", "44.1").
type Timepoint struct {
	Day   float64 `json:"day" yaml:"day"`
	Label string  `json:"label" yaml:"label"`
}

// NewTimepoint labels a day with its shortest numeric form
func NewTimepoint(day float64) Timepoint {
	return Timepoint{Day: day, Label: FormatDay(day)}
}

// FormatDay renders a day number without trailing zeros
func FormatDay(day float64) string {
	return strconv.FormatFloat(day, 'f', -1, 64)
}

// Table is a cleaned, time-indexed table of per-individual measurements.
// Values is row-major ([time][individual]); NaN marks a missing measurement.
type Table struct {
	Index   []Timepoint `json:"index"`
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// New allocates a table filled with NaN
func New(index []Timepoint, columns []string) *Table {
	t := &Table{
		Index:   append([]Timepoint(nil), index...),
		Columns: append([]string(nil), columns...),
		Values:  make([][]float64, len(index)),
	}
	for r := range t.Values {
		row := make([]float64, len(columns))
		for c := range row {
			row[c] = math.NaN()
		}
		t.Values[r] = row
	}
	return t
}

// FromColumns builds a table from per-individual {day: value} maps. The index
// is the sorted union of all days.
func FromColumns(columns []string, data map[string]map[float64]float64) *Table {
	seen := make(map[float64]bool)
	var days []float64
	for _, name := range columns {
		for day := range data[name] {
			if !seen[day] {
				seen[day] = true
				days = append(days, day)
			}
		}
	}
	sort.Float64s(days)

	index := make([]Timepoint, len(days))
	rowOf := make(map[float64]int, len(days))
	for i, day := range days {
		index[i] = NewTimepoint(day)
		rowOf[day] = i
	}

	t := New(index, columns)
	for c, name := range columns {
		for day, v := range data[name] {
			t.Values[rowOf[day]][c] = v
		}
	}
	return t
}

// NumRows returns the number of time points
func (t *Table) NumRows() int { return len(t.Index) }

// NumCols returns the number of individuals
func (t *Table) NumCols() int { return len(t.Columns) }

// Empty reports whether the table has no time points or no individuals
func (t *Table) Empty() bool {
	return t == nil || t.NumRows() == 0 || t.NumCols() == 0
}

// At returns the measurement at positional row and column
func (t *Table) At(r, c int) float64 { return t.Values[r][c] }

// ColumnIndex returns the position of a named individual, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Column returns one individual's measurements as a series
func (t *Table) Column(name string) (*Series, bool) {
	c := t.ColumnIndex(name)
	if c < 0 {
		return nil, false
	}
	return t.ColumnAt(c), true
}

// ColumnAt returns the series for positional column c
func (t *Table) ColumnAt(c int) *Series {
	s := &Series{
		Name:   t.Columns[c],
		Index:  append([]Timepoint(nil), t.Index...),
		Values: make([]float64, len(t.Index)),
	}
	for r := range t.Values {
		s.Values[r] = t.Values[r][c]
	}
	return s
}

// Observations returns the non-missing values of positional row r
func (t *Table) Observations(r int) []float64 {
	obs := make([]float64, 0, len(t.Values[r]))
	for _, v := range t.Values[r] {
		if !math.IsNaN(v) {
			obs = append(obs, v)
		}
	}
	return obs
}

// Count returns the number of non-missing values at positional row r
func (t *Table) Count(r int) int {
	n := 0
	for _, v := range t.Values[r] {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	out := &Table{
		Index:   append([]Timepoint(nil), t.Index...),
		Columns: append([]string(nil), t.Columns...),
		Values:  make([][]float64, len(t.Values)),
	}
	for r, row := range t.Values {
		out.Values[r] = append([]float64(nil), row...)
	}
	return out
}

// WithIndex returns a copy of the table carrying a replacement index
func (t *Table) WithIndex(index []Timepoint) (*Table, error) {
	if len(index) != t.NumRows() {
		return nil, fmt.Errorf("index length %d does not match %d rows", len(index), t.NumRows())
	}
	out := t.Clone()
	out.Index = append([]Timepoint(nil), index...)
	return out, nil
}

// SelectRows returns a copy holding only the given positional rows
func (t *Table) SelectRows(rows []int) *Table {
	out := &Table{
		Index:   make([]Timepoint, len(rows)),
		Columns: append([]string(nil), t.Columns...),
		Values:  make([][]float64, len(rows)),
	}
	for i, r := range rows {
		out.Index[i] = t.Index[r]
		out.Values[i] = append([]float64(nil), t.Values[r]...)
	}
	return out
}

// Validate checks the table is rectangular with unique index labels
func (t *Table) Validate() error {
	if t == nil {
		return core.ErrNotTabular
	}
	if len(t.Values) != len(t.Index) {
		return fmt.Errorf("%w: %d value rows for %d index entries", core.ErrNotTabular, len(t.Values), len(t.Index))
	}
	for r, row := range t.Values {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("%w: row %d has %d values for %d columns", core.ErrNotTabular, r, len(row), len(t.Columns))
		}
	}
	labels := make(map[string]bool, len(t.Index))
	for _, tp := range t.Index {
		if labels[tp.Label] {
			return fmt.Errorf("%w: duplicate index label %q", core.ErrNotTabular, tp.Label)
		}
		labels[tp.Label] = true
	}
	return nil
}

type tableJSON struct {
	Index   []Timepoint  `json:"index"`
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

// MarshalJSON writes missing measurements as null
func (t Table) MarshalJSON() ([]byte, error) {
	out := tableJSON{Index: t.Index, Columns: t.Columns, Values: make([][]*float64, len(t.Values))}
	for r, row := range t.Values {
		out.Values[r] = make([]*float64, len(row))
		for c := range row {
			if !math.IsNaN(row[c]) {
				v := row[c]
				out.Values[r][c] = &v
			}
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads null measurements as NaN
func (t *Table) UnmarshalJSON(data []byte) error {
	var in tableJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	t.Index = in.Index
	t.Columns = in.Columns
	t.Values = make([][]float64, len(in.Values))
	for r, row := range in.Values {
		t.Values[r] = make([]float64, len(row))
		for c, v := range row {
			if v == nil {
				t.Values[r][c] = math.NaN()
			} else {
				t.Values[r][c] = *v
			}
		}
	}
	return nil
}

// Series is one individual's measurements over time
type Series struct {
	Name   string      `json:"name"`
	Index  []Timepoint `json:"index"`
	Values []float64   `json:"values"`
}

// NewSeries builds a series indexed 0..n-1
func NewSeries(name string, values ...float64) *Series {
	s := &Series{Name: name, Values: append([]float64(nil), values...)}
	s.Index = make([]Timepoint, len(values))
	for i := range values {
		s.Index[i] = NewTimepoint(float64(i))
	}
	return s
}

// Len returns the number of entries
func (s *Series) Len() int { return len(s.Values) }

// Validate checks the series is indexable
func (s *Series) Validate() error {
	if s == nil {
		return core.ErrNotTabular
	}
	if len(s.Index) != len(s.Values) {
		return fmt.Errorf("%w: series %q has %d values for %d index entries", core.ErrNotTabular, s.Name, len(s.Values), len(s.Index))
	}
	return nil
}

// DropMissing returns a copy without NaN entries
func (s *Series) DropMissing() *Series {
	out := &Series{Name: s.Name}
	for i, v := range s.Values {
		if !math.IsNaN(v) {
			out.Index = append(out.Index, s.Index[i])
			out.Values = append(out.Values, v)
		}
	}
	return out
}

// Group is a named collection of individuals sharing a table
type Group struct {
	Name  string `json:"name"`
	Table *Table `json:"table"`
}
