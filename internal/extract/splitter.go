package extract

import "survivalvolume/domain/grid"

// SplitOnNulls partitions a grid at rows where every cell is null.
//
// A run of separator rows is a single split point, separator rows never appear
// inside a block, and trailing rows without a final separator form the last
// block. Blocks keep the original row labels.
func SplitOnNulls(g grid.Grid) []grid.Grid {
	var blocks []grid.Grid
	start := -1
	for r := 0; r < g.NumRows(); r++ {
		if g.IsNullRow(r) {
			if start >= 0 {
				blocks = append(blocks, g.SliceRows(start, r))
				start = -1
			}
			continue
		}
		if start < 0 {
			start = r
		}
	}
	if start >= 0 {
		blocks = append(blocks, g.SliceRows(start, g.NumRows()))
	}
	return blocks
}

// CountSeparators returns the number of fully-null rows in g
func CountSeparators(g grid.Grid) int {
	n := 0
	for r := 0; r < g.NumRows(); r++ {
		if g.IsNullRow(r) {
			n++
		}
	}
	return n
}
