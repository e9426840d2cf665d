package extract

import (
	"math"
	"testing"

	"survivalvolume/domain/core"
	"survivalvolume/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsoluteToTables(t *testing.T) {
	ext, err := AbsoluteToTables(testkit.AbsoluteGrid(), DefaultAbsoluteLayout())
	require.NoError(t, err)
	assert.Equal(t, []string{"DPBS", "Mock"}, ext.Order)

	dpbs, err := ext.Get("DPBS")
	require.NoError(t, err)
	require.NoError(t, dpbs.Validate())

	assert.Equal(t, []string{"9981", "9982", "ABCD"}, dpbs.Columns)
	labels := make([]string, dpbs.NumRows())
	for i, tp := range dpbs.Index {
		labels[i] = tp.Label
	}
	assert.Equal(t, []string{"1", "5", "26", "30", "33", "36", "40", "44", "44.1", "47"}, labels)
	assert.Equal(t, 44.0, dpbs.Index[8].Day, "repeated header keeps its day")

	nan := math.NaN()
	assertValues(t, []float64{221.72, 321.42, 543.99, 579.91, 646.02, 642.85, 790.69, nan, nan, nan}, column(t, dpbs, "9981"))
	assertValues(t, []float64{278.24, 188.04, 635.6, 540.36, 702.74, nan, nan, nan, nan, nan}, column(t, dpbs, "9982"))
	assertValues(t, []float64{215.42, 213.96, 524.1, 508.32, 466.58, 595.97, 429.5, 626.53, 554.09, 850.12}, column(t, dpbs, "ABCD"))

	mock, err := ext.Get("Mock")
	require.NoError(t, err)
	assert.Equal(t, []string{"9986 (T3)", "9991", "9992"}, mock.Columns)
	assert.Equal(t, 10, mock.NumRows())
}

func TestAbsoluteToTablesLeavesInputUntouched(t *testing.T) {
	g := testkit.AbsoluteGrid()
	before := g.Clone()

	_, err := AbsoluteToTables(g, DefaultAbsoluteLayout())
	require.NoError(t, err)
	assert.Equal(t, before, g)
}

func TestAbsoluteToTablesSortsGroups(t *testing.T) {
	cfg := testkit.DefaultStudyConfig()
	cfg.GroupCount = 3
	gen := testkit.NewStudyGenerator(cfg)
	groups := gen.GenerateGroups()

	ext, err := AbsoluteToTables(gen.AbsoluteGrid(groups), DefaultAbsoluteLayout())
	require.NoError(t, err)
	assert.Equal(t, []string{"Group 1", "Group 2", "Group 3"}, ext.Order)

	for _, group := range groups {
		tbl, err := ext.Get(group.Name)
		require.NoError(t, err)
		assert.Equal(t, group.Individuals, tbl.Columns, "record order is kept within a group")
		for i, id := range group.Individuals {
			want := group.Volumes[i][:tbl.NumRows()]
			assertValues(t, want, column(t, tbl, id))
		}
	}
}

func TestAbsoluteToTablesIgnoresRecordsWithoutGroup(t *testing.T) {
	g := testkit.Grid(
		testkit.Row("Group", "Animal ID", "Type", 1, 4),
		testkit.Row(nil, "stray", "Abs", 5, 6),
		testkit.Row("B", "b1", "Abs", 7, 8),
		testkit.Row("A", "a1", "Abs", 9, 10),
	)
	layout := DefaultAbsoluteLayout()
	layout.HeaderRow = 0

	ext, err := AbsoluteToTables(g, layout)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ext.Order)

	a, err := ext.Get("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, a.Columns)
	assertValues(t, []float64{9, 10}, column(t, a, "a1"))
}

func TestAbsoluteToTablesOrdersNumericGroupsByValue(t *testing.T) {
	g := testkit.Grid(
		testkit.Row("Group", "Animal ID", "Type", 1, 4),
		testkit.Row(10, "x1", "Abs", 5, 6),
		testkit.Row("Sham", "s1", "Abs", 3, 4),
		testkit.Row(2, "y1", "Abs", 7, 8),
		testkit.Row(10, "x2", "Abs", 9, 10),
	)
	layout := DefaultAbsoluteLayout()
	layout.HeaderRow = 0

	ext, err := AbsoluteToTables(g, layout)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "10", "Sham"}, ext.Order)

	ten, err := ext.Get("10")
	require.NoError(t, err)
	assert.Equal(t, []string{"x1", "x2"}, ten.Columns)
}

func TestGroupLess(t *testing.T) {
	assert.True(t, groupLess("2", "10"))
	assert.False(t, groupLess("10", "2"))
	assert.True(t, groupLess("2.5", "Control"))
	assert.True(t, groupLess("Control", "Treated"))
	assert.False(t, groupLess("Treated", "10"))
}

func TestAbsoluteToTablesBadGroupIsSkipped(t *testing.T) {
	g := testkit.Grid(
		testkit.Row("Group", "Animal ID", "Type", 1, 4),
		testkit.Row("Bad", "x1", "Abs", 5, "n/a"),
		testkit.Row("Good", "g1", "Abs", 7, 8),
	)
	layout := DefaultAbsoluteLayout()
	layout.HeaderRow = 0

	ext, err := AbsoluteToTables(g, layout)
	require.NoError(t, err)
	assert.Equal(t, []string{"Good"}, ext.Order)

	skipped := ext.Skipped()
	require.Len(t, skipped, 1)
	assert.Equal(t, "Bad", skipped[0].Name)
	assert.ErrorIs(t, skipped[0].Err, core.ErrMalformedTable)
}

func TestAbsoluteToTablesMalformed(t *testing.T) {
	layout := DefaultAbsoluteLayout()

	_, err := AbsoluteToTables(testkit.Grid(testkit.Row("Group")), layout)
	assert.ErrorIs(t, err, core.ErrMalformedTable, "header row past the end")

	layout.HeaderRow = 0
	_, err = AbsoluteToTables(testkit.Grid(testkit.Row("Cohort", "Animal ID", "Type", 1)), layout)
	assert.ErrorIs(t, err, core.ErrMalformedTable, "no group column")

	_, err = AbsoluteToTables(testkit.Grid(testkit.Row("Group", "Mouse", "Type", 1)), layout)
	assert.ErrorIs(t, err, core.ErrMalformedTable, "no id column")

	g := testkit.Grid(
		testkit.Row("Group", "Animal ID", "Type", "Week 1"),
		testkit.Row("A", "a1", "Abs", 10),
	)
	ext, err := AbsoluteToTables(g, layout)
	require.NoError(t, err)
	require.Len(t, ext.Skipped(), 1)
	assert.ErrorIs(t, ext.Skipped()[0].Err, core.ErrMalformedTable, "non-numeric day header")
}

func TestCleanAbsoluteGroupWithoutMeasurements(t *testing.T) {
	header := testkit.Grid(testkit.Row("Group", "Animal ID", "Type", 1))
	records := testkit.Grid(testkit.Row("A", "a1", "Abs", nil))

	_, err := CleanAbsoluteGroup(records, header, DefaultAbsoluteLayout())
	assert.ErrorIs(t, err, core.ErrEmptyTable)
}
