package extract

import (
	"testing"

	"survivalvolume/domain/grid"
	"survivalvolume/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitOnNulls(t *testing.T) {
	g := testkit.Grid(
		testkit.Row(nil, nil, nil, nil),
		testkit.Row(nil, nil, nil, nil),
		testkit.Row(nil, nil, "A", "B"),
		testkit.Row(nil, 1, 181.22, 261.01),
		testkit.Row(nil, 4, 277.63, 552.57),
		testkit.Row(nil, nil, nil, nil),
		testkit.Row(nil, nil, nil, nil),
		testkit.Row(nil, nil, nil, nil),
		testkit.Row(nil, nil, "C", "D"),
		testkit.Row(nil, 1, 180.22, 260.01),
		testkit.Row(nil, 4, 278.63, 550.57),
	)

	blocks := SplitOnNulls(g)
	require.Len(t, blocks, 2)
	assert.Equal(t, []int{2, 3, 4}, blocks[0].RowLabels)
	assert.Equal(t, []int{8, 9, 10}, blocks[1].RowLabels, "trailing block without a final separator")
	assert.Equal(t, "C", blocks[1].At(0, 2).String())

	for _, b := range blocks {
		for r := 0; r < b.NumRows(); r++ {
			assert.False(t, b.IsNullRow(r), "separator rows never appear inside a block")
		}
	}
}

func TestSplitOnNullsAccountsForEveryRow(t *testing.T) {
	grids := map[string]grid.Grid{
		"prism":     testkit.PrismGrid(),
		"absolute":  testkit.AbsoluteGrid(),
		"empty":     testkit.Grid(),
		"all_null":  testkit.Grid(testkit.Row(nil), testkit.Row(nil)),
		"no_breaks": testkit.Grid(testkit.Row(1), testkit.Row(2)),
	}
	gen := testkit.NewStudyGenerator(testkit.DefaultStudyConfig())
	grids["generated"] = gen.PrismGrid(gen.GenerateGroups())

	for name, g := range grids {
		t.Run(name, func(t *testing.T) {
			total := CountSeparators(g)
			for _, b := range SplitOnNulls(g) {
				total += b.NumRows()
			}
			assert.Equal(t, g.NumRows(), total)
		})
	}
}

func TestSplitOnNullsLeavesInputUntouched(t *testing.T) {
	g := testkit.PrismGrid()
	before := g.Clone()

	blocks := SplitOnNulls(g)
	require.NotEmpty(t, blocks)
	blocks[0].Cells[0][0] = grid.Text("changed")

	assert.Equal(t, before, g)
}
