package grid

import (
	"strconv"
	"strings"
)

// CellKind classifies a spreadsheet cell
type CellKind int

const (
	KindNull CellKind = iota
	KindNumber
	KindText
)

func (k CellKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "null"
	}
}

// Cell is a single heterogeneously-typed spreadsheet value
type Cell struct {
	Kind CellKind `json:"kind"`
	Num  float64  `json:"num,omitempty"`
	Text string   `json:"text,omitempty"`
}

// Null returns an empty cell
func Null() Cell { return Cell{Kind: KindNull} }

// Number returns a numeric cell
func Number(v float64) Cell { return Cell{Kind: KindNumber, Num: v} }

// Text returns a text cell
func Text(s string) Cell { return Cell{Kind: KindText, Text: s} }

// IsNull reports whether the cell is empty
func (c Cell) IsNull() bool { return c.Kind == KindNull }

// Float returns the numeric value of the cell, if it has one
func (c Cell) Float() (float64, bool) {
	if c.Kind == KindNumber {
		return c.Num, true
	}
	return 0, false
}

// String renders the cell the way it would appear as a label.
// Numbers use the shortest representation, so 44.0 renders as "44".
func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindText:
		return c.Text
	default:
		return ""
	}
}

// Equals reports whether the cell is text matching s after trimming
func (c Cell) Equals(s string) bool {
	return c.Kind == KindText && strings.TrimSpace(c.Text) == s
}

// Grid is a rectangular cell matrix. Rows and columns keep the labels they had
// in the source sheet (0-based positions) through every slice and drop.
type Grid struct {
	RowLabels []int
	ColLabels []int
	Cells     [][]Cell
}

// New builds a grid from possibly ragged rows, padding short rows with nulls.
func New(rows [][]Cell) Grid {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	g := Grid{
		RowLabels: make([]int, len(rows)),
		ColLabels: make([]int, width),
		Cells:     make([][]Cell, len(rows)),
	}
	for c := 0; c < width; c++ {
		g.ColLabels[c] = c
	}
	for r, row := range rows {
		g.RowLabels[r] = r
		cells := make([]Cell, width)
		copy(cells, row)
		g.Cells[r] = cells
	}
	return g
}

// NumRows returns the number of rows
func (g Grid) NumRows() int { return len(g.Cells) }

// NumCols returns the number of columns
func (g Grid) NumCols() int { return len(g.ColLabels) }

// At returns the cell at a positional row and column
func (g Grid) At(r, c int) Cell {
	if r < 0 || r >= len(g.Cells) || c < 0 || c >= len(g.Cells[r]) {
		return Null()
	}
	return g.Cells[r][c]
}

// IsNullRow reports whether every cell of positional row r is null
func (g Grid) IsNullRow(r int) bool {
	for _, cell := range g.Cells[r] {
		if !cell.IsNull() {
			return false
		}
	}
	return true
}

// IsNullCol reports whether every cell of positional column c is null
func (g Grid) IsNullCol(c int) bool {
	for r := range g.Cells {
		if !g.At(r, c).IsNull() {
			return false
		}
	}
	return true
}

// ColumnPosition maps an original column label to its current position
func (g Grid) ColumnPosition(label int) (int, bool) {
	for pos, l := range g.ColLabels {
		if l == label {
			return pos, true
		}
	}
	return -1, false
}

// SliceRows returns a copy of positional rows [from, to)
func (g Grid) SliceRows(from, to int) Grid {
	if from < 0 {
		from = 0
	}
	if to > len(g.Cells) {
		to = len(g.Cells)
	}
	if from > to {
		from = to
	}

	rows := make([]int, 0, to-from)
	for r := from; r < to; r++ {
		rows = append(rows, r)
	}
	return g.SelectRows(rows)
}

// DropNullColumns returns a copy without columns that are entirely null
func (g Grid) DropNullColumns() Grid {
	keep := make([]int, 0, g.NumCols())
	for c := 0; c < g.NumCols(); c++ {
		if !g.IsNullCol(c) {
			keep = append(keep, c)
		}
	}
	return g.SelectColumns(keep)
}

// DropNullRows returns a copy without rows that are entirely null
func (g Grid) DropNullRows() Grid {
	keep := make([]int, 0, g.NumRows())
	for r := range g.Cells {
		if !g.IsNullRow(r) {
			keep = append(keep, r)
		}
	}
	return g.SelectRows(keep)
}

// SelectColumns returns a copy holding only the given positional columns
func (g Grid) SelectColumns(positions []int) Grid {
	out := Grid{
		RowLabels: append([]int(nil), g.RowLabels...),
		ColLabels: make([]int, len(positions)),
		Cells:     make([][]Cell, len(g.Cells)),
	}
	for i, pos := range positions {
		out.ColLabels[i] = g.ColLabels[pos]
	}
	for r := range g.Cells {
		row := make([]Cell, len(positions))
		for i, pos := range positions {
			row[i] = g.At(r, pos)
		}
		out.Cells[r] = row
	}
	return out
}

// SelectRows returns a copy holding only the given positional rows, in order
func (g Grid) SelectRows(positions []int) Grid {
	out := Grid{
		RowLabels: make([]int, len(positions)),
		ColLabels: append([]int(nil), g.ColLabels...),
		Cells:     make([][]Cell, len(positions)),
	}
	for i, pos := range positions {
		out.RowLabels[i] = g.RowLabels[pos]
		out.Cells[i] = append([]Cell(nil), g.Cells[pos]...)
	}
	return out
}

// Clone returns a deep copy
func (g Grid) Clone() Grid {
	rows := make([]int, len(g.Cells))
	for i := range rows {
		rows[i] = i
	}
	return g.SelectRows(rows)
}

// FindRows returns the positional rows whose cell in positional column col
// is text equal to marker.
func (g Grid) FindRows(col int, marker string) []int {
	var found []int
	for r := range g.Cells {
		if g.At(r, col).Equals(marker) {
			found = append(found, r)
		}
	}
	return found
}
