package interval

import (
	"math"
	"testing"

	"survivalvolume/domain/core"
	"survivalvolume/domain/survival"
	"survivalvolume/domain/table"
	"survivalvolume/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalInterval(t *testing.T) {
	records, err := NormalInterval(testkit.SmallTable(), 1, 0.95)
	require.NoError(t, err)
	require.Len(t, records, 3)

	wantLower := []float64{36.00240103, 24.00660283, 84.00810348}
	wantUpper := []float64{297.3309323, 742.66006383, 965.99189652}
	wantMean := []float64{166.66666667, 383.33333333, 525}
	for i, rec := range records {
		assert.Equal(t, float64(i), rec.Timepoint.Day)
		assert.InDelta(t, wantMean[i], rec.Mean, 1e-6)
		assert.InDelta(t, wantLower[i], rec.Lower, 1e-6)
		assert.InDelta(t, wantUpper[i], rec.Upper, 1e-6)
	}
	assert.Equal(t, 2, records[2].N)
}

func TestTInterval(t *testing.T) {
	records, err := TInterval(testkit.SmallTable(), 1, 0.95)
	require.NoError(t, err)
	require.Len(t, records, 3)

	wantUpper := []float64{453.510181994085, 1172.1530004837336, 3383.896065639307}
	for i, rec := range records {
		assert.Equal(t, 0.0, rec.Lower, "wide intervals clamp at zero")
		assert.InDelta(t, wantUpper[i], rec.Upper, 1e-6)
	}
}

// the band half-width must come from the n-1 standard deviation
func TestTIntervalUsesSampleStandardDeviation(t *testing.T) {
	tbl := table.New([]table.Timepoint{table.NewTimepoint(0)}, []string{"a", "b", "c"})
	tbl.Values = [][]float64{{100, 300, 100}}
	records, err := TInterval(tbl, 1, 0.95)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.InDelta(t, 453.510181994085, rec.Upper, 1e-6)

	half := rec.Upper - rec.Mean
	sd := half * math.Sqrt(3) / NewDistributions().TCritical(0.95, 2)
	assert.InDelta(t, 115.47005383792516, sd, 1e-6)
}

func TestTIntervalThreshold(t *testing.T) {
	records, err := TInterval(testkit.SmallTable(), DefaultThreshold, DefaultConfidence)
	require.NoError(t, err)
	require.Len(t, records, 2, "the third time point has only two measurements")
	assert.Equal(t, 0.0, records[0].Timepoint.Day)
	assert.Equal(t, 1.0, records[1].Timepoint.Day)

	records, err = TInterval(testkit.SmallTable(), 3, DefaultConfidence)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestTIntervalHonoursConfidence(t *testing.T) {
	narrow, err := TInterval(testkit.Vehicle(), DefaultThreshold, 0.5)
	require.NoError(t, err)
	wide, err := TInterval(testkit.Vehicle(), DefaultThreshold, 0.99)
	require.NoError(t, err)
	require.Equal(t, len(narrow), len(wide))

	for i := range narrow {
		assert.Less(t, narrow[i].Upper, wide[i].Upper)
		assert.Equal(t, narrow[i].Mean, wide[i].Mean)
	}
}

func TestIntervalIsIdempotent(t *testing.T) {
	src := testkit.OtherTreatment()
	before := src.Clone()

	first, err := TInterval(src, DefaultThreshold, DefaultConfidence)
	require.NoError(t, err)
	second, err := TInterval(src, DefaultThreshold, DefaultConfidence)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before.Columns, src.Columns)
	assert.Equal(t, before.Index, src.Index)
}

func TestIntervalBoundsInvariants(t *testing.T) {
	for name, tbl := range map[string]*table.Table{
		"vehicle":         testkit.Vehicle(),
		"good_treatment":  testkit.GoodTreatment(),
		"other_treatment": testkit.OtherTreatment(),
	} {
		for _, method := range []survival.Method{survival.MethodT, survival.MethodNormal} {
			records, err := Estimate(method, tbl, DefaultThreshold, DefaultConfidence)
			require.NoError(t, err, "%s/%s", name, method)
			for _, rec := range records {
				assert.GreaterOrEqual(t, rec.Lower, 0.0)
				assert.LessOrEqual(t, rec.Lower, rec.Mean)
				assert.GreaterOrEqual(t, rec.Upper, rec.Mean)
				assert.Greater(t, rec.N, DefaultThreshold)
			}
		}
	}
}

func TestIntervalEmptyTable(t *testing.T) {
	empty := table.New(nil, []string{"a"})
	records, err := TInterval(empty, DefaultThreshold, DefaultConfidence)
	require.NoError(t, err)
	assert.Empty(t, records)

	allMissing := table.New([]table.Timepoint{table.NewTimepoint(1)}, []string{"a", "b"})
	records, err = NormalInterval(allMissing, 0, DefaultConfidence)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestIntervalParameterErrors(t *testing.T) {
	tbl := testkit.SmallTable()

	for _, ci := range []float64{0, 1, -0.5, 1.5, math.NaN()} {
		_, err := TInterval(tbl, DefaultThreshold, ci)
		assert.ErrorIs(t, err, core.ErrInvalidConfidence, "ci %v", ci)
	}

	_, err := NormalInterval(tbl, -1, DefaultConfidence)
	assert.ErrorIs(t, err, core.ErrInvalidThreshold)

	_, err = Estimate("bootstrap", tbl, DefaultThreshold, DefaultConfidence)
	assert.ErrorIs(t, err, core.ErrInvalidMethod)

	_, err = TInterval(nil, DefaultThreshold, DefaultConfidence)
	assert.ErrorIs(t, err, core.ErrNotTabular)
}

func TestMeans(t *testing.T) {
	points, err := Means(testkit.SmallTable(), 1)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.InDelta(t, 166.66666667, points[0].Mean, 1e-6)
	assert.InDelta(t, 383.33333333, points[1].Mean, 1e-6)
	assert.InDelta(t, 525.0, points[2].Mean, 1e-9)

	points, err = Means(testkit.SmallTable(), DefaultThreshold)
	require.NoError(t, err)
	assert.Len(t, points, 2)

	_, err = Means(testkit.SmallTable(), -1)
	assert.ErrorIs(t, err, core.ErrInvalidThreshold)
}

func TestDistributions(t *testing.T) {
	d := NewDistributions()

	assert.InDelta(t, 4.302652729911275, d.TCritical(0.95, 2), 1e-9)
	assert.InDelta(t, 12.706204736174698, d.TCritical(0.95, 1), 1e-9)
	assert.InDelta(t, 2.7764451051977987, d.TCritical(0.95, 4), 1e-9)
	assert.True(t, math.IsNaN(d.TCritical(0.95, 0)))

	assert.InDelta(t, 1.959963984540054, d.NormalQuantile(0.975), 1e-9)

	assert.InDelta(t, 0.05, d.ChiSquarePValue(3.841458820694124, 1), 1e-6)
	assert.Equal(t, 1.0, d.ChiSquarePValue(2, 0))

	lower, upper := d.ConfidenceIntervalMean(10, 2, 1, 0.95)
	assert.True(t, math.IsNaN(lower))
	assert.True(t, math.IsNaN(upper))
}
