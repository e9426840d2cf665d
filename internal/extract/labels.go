package extract

import (
	"fmt"
	"strconv"
	"strings"

	"survivalvolume/domain/grid"
)

// columnLabel is a de-duplicated header label and the text it was derived from
type columnLabel struct {
	Label string
	Stem  string
}

// DedupeLabels makes labels unique. The first occurrence keeps its text and
// the k-th repeat becomes "<label>.<k>", skipping candidates already taken.
// Two columns both headed "44" therefore become "44" and "44.1".
func DedupeLabels(labels []string) []string {
	out := make([]string, len(labels))
	taken := make(map[string]bool, len(labels))
	for _, l := range labels {
		taken[l] = true
	}

	seen := make(map[string]int, len(labels))
	for i, l := range labels {
		k := seen[l]
		seen[l] = k + 1
		if k == 0 {
			out[i] = l
			continue
		}
		candidate := fmt.Sprintf("%s.%d", l, k)
		for taken[candidate] {
			k++
			candidate = fmt.Sprintf("%s.%d", l, k)
		}
		seen[l] = k + 1
		taken[candidate] = true
		out[i] = candidate
	}
	return out
}

// headerLabels reads positional row r of g as column labels keyed by source
// column label. Blank headers become "Unnamed: <col>".
func headerLabels(g grid.Grid, r int) map[int]columnLabel {
	stems := make([]string, g.NumCols())
	for c := 0; c < g.NumCols(); c++ {
		cell := g.At(r, c)
		if cell.IsNull() {
			stems[c] = fmt.Sprintf("Unnamed: %d", g.ColLabels[c])
			continue
		}
		stems[c] = strings.TrimSpace(cell.String())
	}

	labels := DedupeLabels(stems)
	out := make(map[int]columnLabel, len(labels))
	for c, l := range labels {
		out[g.ColLabels[c]] = columnLabel{Label: l, Stem: stems[c]}
	}
	return out
}

// parseDay reads a day number from a header stem
func parseDay(stem string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(stem), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
