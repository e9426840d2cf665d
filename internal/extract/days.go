package extract

import (
	"fmt"

	"survivalvolume/domain/core"
	"survivalvolume/domain/table"
)

// Default measurement schedule: twice weekly, alternating 3 and 4 day gaps
const (
	DefaultFirstInterval  = 3
	DefaultSecondInterval = 4
)

// AlternatingSequence returns length values starting at start, stepping by
// stepA and stepB in turn: (1, 5, 3, 4) gives [1 4 8 11 15].
func AlternatingSequence(start float64, length int, stepA, stepB float64) []float64 {
	if length <= 0 {
		return []float64{}
	}
	out := make([]float64, length)
	out[0] = start
	for i := 1; i < length; i++ {
		if i%2 == 1 {
			out[i] = out[i-1] + stepA
		} else {
			out[i] = out[i-1] + stepB
		}
	}
	return out
}

// StandardiseDays returns a copy of t whose index is renumbered from day 1 on
// an alternating schedule, aligning individuals that went on study on
// different weekdays. Values and columns are unchanged.
func StandardiseDays(t *table.Table, firstInterval, secondInterval float64) (*table.Table, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil table", core.ErrNotTabular)
	}
	days := AlternatingSequence(1, t.NumRows(), firstInterval, secondInterval)
	stems := make([]string, len(days))
	for i, d := range days {
		stems[i] = table.FormatDay(d)
	}

	index := make([]table.Timepoint, len(days))
	for i, label := range DedupeLabels(stems) {
		index[i] = table.Timepoint{Day: days[i], Label: label}
	}
	return t.WithIndex(index)
}
