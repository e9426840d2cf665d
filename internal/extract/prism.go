package extract

import (
	"strings"

	"survivalvolume/domain/core"
	"survivalvolume/domain/grid"
	"survivalvolume/domain/table"
)

// PrismToTables extracts every group table from a Prism sheet.
//
// Only the rows between the StartOccurrence-th start marker and the first end
// marker are considered. Short blocks are skipped as noise, blocks that fail
// to clean are skipped with their reason recorded, and neither stops the rest
// of the sheet from being read.
func PrismToTables(g grid.Grid, layout PrismLayout) (*Extraction, error) {
	starts := g.FindRows(0, layout.StartMarker)
	if len(starts) < layout.StartOccurrence || layout.StartOccurrence < 1 {
		return nil, core.NewMalformedError("found %d %q rows, need %d", len(starts), layout.StartMarker, layout.StartOccurrence)
	}
	start := starts[layout.StartOccurrence-1]

	ends := g.FindRows(0, layout.EndMarker)
	if len(ends) == 0 {
		return nil, core.NewMalformedError("no %q row", layout.EndMarker)
	}
	end := ends[0]
	if end <= start {
		return nil, core.NewMalformedError("%q row %d precedes section start %d", layout.EndMarker, g.RowLabels[end], g.RowLabels[start])
	}

	ext := newExtraction()
	for _, block := range SplitOnNulls(g.SliceRows(start+1, end)) {
		res := BlockResult{
			FirstRow: block.RowLabels[0],
			LastRow:  block.RowLabels[block.NumRows()-1],
		}
		if block.NumRows() < layout.MinBlockRows {
			ext.skip(res, "too few rows", nil)
			continue
		}

		name, t, err := CleanPrismBlock(block, layout)
		if err != nil {
			res.Name = name
			ext.skip(res, err.Error(), err)
			if !core.IsSoftError(err) {
				logger.Warn("rows %d-%d: %v", res.FirstRow, res.LastRow, err)
			}
			continue
		}
		res.Name = name
		ext.Results = append(ext.Results, res)
		ext.put(name, t)
	}

	logger.Debug("prism sheet: %d groups, %d skipped blocks", ext.Len(), len(ext.Skipped()))
	return ext, nil
}

// CleanPrismBlock turns one titled block into a group name and table.
//
// The block's first non-empty row carries the title, the second the column
// headers, and the rest one row per day. The block itself is not modified.
func CleanPrismBlock(block grid.Grid, layout PrismLayout) (string, *table.Table, error) {
	b := block.DropNullColumns().DropNullRows()
	if b.NumRows() == 0 {
		return "", nil, core.ErrEmptyTable
	}

	namePos, ok := b.ColumnPosition(layout.NameColumn)
	if !ok || b.At(0, namePos).IsNull() {
		return "", nil, core.NewMalformedError("no group title in column %d", layout.NameColumn)
	}
	name := strings.TrimSpace(b.At(0, namePos).String())

	if b.NumRows() < 2 {
		return name, nil, core.NewMalformedError("group %q has no header row", name)
	}

	dayPos := -1
	summary := make(map[int]bool)
	for c := 0; c < b.NumCols(); c++ {
		switch {
		case b.At(1, c).Equals(layout.IndexLabel) && dayPos < 0:
			dayPos = c
		case b.At(1, c).Equals(layout.SummaryLabel):
			summary[c] = true
		}
	}
	if dayPos < 0 {
		return name, nil, core.NewMalformedError("group %q has no %q column", name, layout.IndexLabel)
	}
	if len(summary) == 0 {
		return name, nil, core.NewMalformedError("group %q has no %q column", name, layout.SummaryLabel)
	}

	var individuals []int
	var columns []string
	for c := 1; c < b.NumCols(); c++ {
		if c == dayPos || summary[c] {
			continue
		}
		individuals = append(individuals, c)
		columns = append(columns, strings.TrimSpace(b.At(1, c).String()))
	}
	columns = DedupeLabels(columns)

	rows := b.NumRows() - 2
	if rows == 0 || len(individuals) == 0 {
		return name, nil, core.ErrEmptyTable
	}

	days := make([]float64, rows)
	stems := make([]string, rows)
	for r := 0; r < rows; r++ {
		day, ok := b.At(r+2, dayPos).Float()
		if !ok {
			return name, nil, core.NewMalformedError("group %q row %d: day %q is not numeric", name, b.RowLabels[r+2], b.At(r+2, dayPos).String())
		}
		days[r] = day
		stems[r] = table.FormatDay(day)
	}

	index := make([]table.Timepoint, rows)
	for r, label := range DedupeLabels(stems) {
		index[r] = table.Timepoint{Day: days[r], Label: label}
	}

	t := table.New(index, columns)
	for r := 0; r < rows; r++ {
		for i, c := range individuals {
			cell := b.At(r+2, c)
			if cell.IsNull() {
				continue
			}
			v, ok := cell.Float()
			if !ok {
				return name, nil, core.NewMalformedError("group %q day %s: %q is not a volume", name, index[r].Label, cell.String())
			}
			t.Values[r][i] = v
		}
	}
	return name, t, nil
}
