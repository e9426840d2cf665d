package extract

import (
	"sort"
	"strconv"
	"strings"

	"survivalvolume/domain/core"
	"survivalvolume/domain/grid"
	"survivalvolume/domain/table"
)

// AbsoluteToTables extracts one table per group from an Absolute TV sheet,
// where each record row holds a group, an individual and that individual's
// measurements in day-labelled columns.
//
// Records are copied and stably sorted by group before partitioning, so the
// input grid is left untouched. Records without a group are ignored.
func AbsoluteToTables(g grid.Grid, layout AbsoluteLayout) (*Extraction, error) {
	if layout.HeaderRow < 0 || g.NumRows() <= layout.HeaderRow {
		return nil, core.NewMalformedError("sheet has %d rows, header expected at row %d", g.NumRows(), layout.HeaderRow)
	}
	header := g.SliceRows(layout.HeaderRow, layout.HeaderRow+1)
	labels := headerLabels(header, 0)

	groupPos, ok := findHeader(header, labels, layout.GroupColumn)
	if !ok {
		return nil, core.NewMalformedError("no %q column", layout.GroupColumn)
	}
	if _, ok := findHeader(header, labels, layout.IDColumn); !ok {
		return nil, core.NewMalformedError("no %q column", layout.IDColumn)
	}

	records := g.SliceRows(layout.HeaderRow+1, g.NumRows())
	type keyed struct {
		key string
		row int
	}
	var rows []keyed
	for r := 0; r < records.NumRows(); r++ {
		cell := records.At(r, groupPos)
		if cell.IsNull() {
			continue
		}
		rows = append(rows, keyed{key: strings.TrimSpace(cell.String()), row: r})
	}
	sort.SliceStable(rows, func(i, j int) bool { return groupLess(rows[i].key, rows[j].key) })

	ext := newExtraction()
	for i := 0; i < len(rows); {
		j := i
		var positions []int
		for ; j < len(rows) && rows[j].key == rows[i].key; j++ {
			positions = append(positions, rows[j].row)
		}

		key := rows[i].key
		part := records.SelectRows(positions)
		res := BlockResult{
			FirstRow: part.RowLabels[0],
			LastRow:  part.RowLabels[part.NumRows()-1],
			Name:     key,
		}
		t, err := CleanAbsoluteGroup(part, header, layout)
		if err != nil {
			ext.skip(res, err.Error(), err)
			if !core.IsSoftError(err) {
				logger.Warn("group %q: %v", key, err)
			}
		} else {
			ext.Results = append(ext.Results, res)
			ext.put(key, t)
		}
		i = j
	}

	logger.Debug("absolute sheet: %d groups, %d skipped", ext.Len(), len(ext.Skipped()))
	return ext, nil
}

// groupLess orders numeric group keys by value and ahead of text keys, which
// compare lexically
func groupLess(a, b string) bool {
	x, errA := strconv.ParseFloat(a, 64)
	y, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		return x < y
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// CleanAbsoluteGroup pivots the records of a single group into a table with
// days as rows and individuals as columns. header is the one-row grid of
// column labels the records were read under.
func CleanAbsoluteGroup(records, header grid.Grid, layout AbsoluteLayout) (*table.Table, error) {
	labels := headerLabels(header, 0)
	d := records.DropNullColumns().DropNullRows()
	if d.NumRows() == 0 {
		return nil, core.ErrEmptyTable
	}

	idPos, ok := findHeader(d, labels, layout.IDColumn)
	if !ok {
		return nil, core.NewMalformedError("no %q values", layout.IDColumn)
	}

	ids := make([]string, d.NumRows())
	for r := range ids {
		cell := d.At(r, idPos)
		if cell.IsNull() {
			return nil, core.NewMalformedError("row %d has no %s", d.RowLabels[r], layout.IDColumn)
		}
		ids[r] = strings.TrimSpace(cell.String())
	}
	ids = DedupeLabels(ids)

	if d.NumCols() <= layout.MetaColumns {
		return nil, core.ErrEmptyTable
	}
	index := make([]table.Timepoint, 0, d.NumCols()-layout.MetaColumns)
	for c := layout.MetaColumns; c < d.NumCols(); c++ {
		label := labels[d.ColLabels[c]]
		day, ok := parseDay(label.Stem)
		if !ok {
			return nil, core.NewMalformedError("column %q is not a day", label.Label)
		}
		index = append(index, table.Timepoint{Day: day, Label: label.Label})
	}

	t := table.New(index, ids)
	for r := 0; r < d.NumRows(); r++ {
		for i := range index {
			cell := d.At(r, layout.MetaColumns+i)
			if cell.IsNull() {
				continue
			}
			v, ok := cell.Float()
			if !ok {
				return nil, core.NewMalformedError("%s %s day %s: %q is not a volume", layout.IDColumn, ids[r], index[i].Label, cell.String())
			}
			t.Values[i][r] = v
		}
	}
	return t, nil
}

// findHeader returns the position in g of the column whose header label is name
func findHeader(g grid.Grid, labels map[int]columnLabel, name string) (int, bool) {
	for pos, col := range g.ColLabels {
		if labels[col].Label == name {
			return pos, true
		}
	}
	return -1, false
}
