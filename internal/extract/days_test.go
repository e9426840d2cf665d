package extract

import (
	"testing"

	"survivalvolume/domain/core"
	"survivalvolume/domain/table"
	"survivalvolume/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlternatingSequence(t *testing.T) {
	tests := []struct {
		start        float64
		length       int
		stepA, stepB float64
		want         []float64
	}{
		{1, 12, 3, 4, []float64{1, 4, 8, 11, 15, 18, 22, 25, 29, 32, 36, 39}},
		{7, 2, 3, 4, []float64{7, 10}},
		{1, 10, 2, -1, []float64{1, 3, 2, 4, 3, 5, 4, 6, 5, 7}},
		{-7, 12, 1, 7, []float64{-7, -6, 1, 2, 9, 10, 17, 18, 25, 26, 33, 34}},
		{5, 1, 3, 4, []float64{5}},
		{5, 0, 3, 4, []float64{}},
		{5, -3, 3, 4, []float64{}},
	}

	for _, tt := range tests {
		got := AlternatingSequence(tt.start, tt.length, tt.stepA, tt.stepB)
		assert.Equal(t, tt.want, got, "AlternatingSequence(%v, %d, %v, %v)", tt.start, tt.length, tt.stepA, tt.stepB)
	}
}

func TestStandardiseDays(t *testing.T) {
	src := testkit.SmallTable()

	std, err := StandardiseDays(src, 5, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 6, 8}, days(std))
	assert.Equal(t, "6", std.Index[1].Label)
	assert.Equal(t, src.Values, std.Values)
	assert.Equal(t, src.Columns, std.Columns)

	assert.Equal(t, []float64{0, 1, 2}, days(src), "source index unchanged")
}

func TestStandardiseDaysKeepsLabelsUnique(t *testing.T) {
	src := table.New(make([]table.Timepoint, 4), []string{"a"})
	for i := range src.Index {
		src.Index[i] = table.NewTimepoint(float64(i * 10))
	}

	std, err := StandardiseDays(src, 2, -2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 1, 3}, days(std))
	require.NoError(t, std.Validate())
}

func TestStandardiseDaysNilTable(t *testing.T) {
	_, err := StandardiseDays(nil, 3, 4)
	assert.ErrorIs(t, err, core.ErrNotTabular)
}

func TestExtractionStandardise(t *testing.T) {
	ext, err := AbsoluteToTables(testkit.AbsoluteGrid(), DefaultAbsoluteLayout())
	require.NoError(t, err)

	std, err := ext.Standardise(DefaultFirstInterval, DefaultSecondInterval)
	require.NoError(t, err)
	assert.Equal(t, ext.Order, std.Order)

	dpbs, err := std.Get("DPBS")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 4, 8, 11, 15, 18, 22, 25, 29, 32}, days(dpbs))

	raw, err := ext.Get("DPBS")
	require.NoError(t, err)
	assert.Equal(t, 47.0, raw.Index[9].Day, "original extraction keeps raw days")
}
