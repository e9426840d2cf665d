package app

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survivalvolume/adapters/lifetable"
	"survivalvolume/internal/config"
	"survivalvolume/internal/errors"
	"survivalvolume/internal/testkit"
)

const studyPath = "study.xlsx"

func newTestService(cfg *config.Config) (*StudyService, *testkit.MemoryWorkbooks) {
	if cfg == nil {
		cfg = config.Default()
	}
	books := testkit.NewMemoryWorkbooks().
		Put(studyPath, cfg.Layout.PrismSheet, testkit.PrismGrid()).
		Put(studyPath, cfg.Layout.AbsoluteSheet, testkit.AbsoluteGrid())
	return NewStudyService(books, lifetable.NewEstimator(), cfg), books
}

func TestAnalyzePrism(t *testing.T) {
	svc, books := newTestService(nil)
	stamp := time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return stamp }

	report, err := svc.Analyze(context.Background(), studyPath, LayoutPrism)
	require.NoError(t, err)
	assert.Equal(t, 1, books.Reads(studyPath))

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, stamp, report.CreatedAt.Time())
	assert.Equal(t, studyPath, report.Source)
	assert.Equal(t, "prism", report.Layout)
	assert.Equal(t, 700.0, report.Parameters.Endpoint)
	require.Len(t, report.Groups, 2)

	vehicle, err := report.Group("Vehicle")
	require.NoError(t, err)
	assert.Equal(t, 3, vehicle.Individuals)
	assert.Equal(t, 7, vehicle.Timepoints)
	require.Len(t, vehicle.Events, 3)
	for _, e := range vehicle.Events {
		assert.True(t, e.Observed, e.Individual)
	}
	assert.Equal(t, 22.0, vehicle.Events[0].Time)
	assert.Equal(t, 0, vehicle.Censored)
	require.NotNil(t, vehicle.KaplanMeier)
	assert.Equal(t, 0, vehicle.KaplanMeier.Censored)
	require.NotNil(t, vehicle.KaplanMeier.MedianSurvival)
	assert.Equal(t, 18.0, *vehicle.KaplanMeier.MedianSurvival)

	// rows with at least three volumes: days 1, 4, 8, 11, 15
	assert.Len(t, vehicle.Means, 5)
	assert.Len(t, vehicle.Intervals, 5)

	treat, err := report.Group("Treat")
	require.NoError(t, err)
	assert.Empty(t, treat.Means)
	assert.Empty(t, treat.Intervals)
	require.NotNil(t, treat.KaplanMeier)
	assert.Equal(t, 1, treat.KaplanMeier.Censored)
	assert.Equal(t, 1, treat.Censored)
	assert.Nil(t, treat.KaplanMeier.MedianSurvival)

	require.Len(t, report.Comparisons, 1)
	cmp := report.Comparisons[0]
	assert.Equal(t, "Vehicle", cmp.GroupA)
	assert.Equal(t, "Treat", cmp.GroupB)
	assert.Equal(t, 3, cmp.ObservedA)
	assert.InDelta(t, 3.0, cmp.ExpectedA, 1e-12)
	assert.Equal(t, 1.0, cmp.PValue)
	assert.False(t, cmp.Significant)
}

func TestAnalyzeAbsolute(t *testing.T) {
	svc, _ := newTestService(nil)

	report, err := svc.Analyze(context.Background(), studyPath, LayoutAbsolute)
	require.NoError(t, err)
	require.Len(t, report.Groups, 2)
	assert.Equal(t, "DPBS", report.Groups[0].Name)
	assert.Equal(t, "Mock", report.Groups[1].Name)

	dpbs := report.Groups[0]
	assert.Equal(t, 3, dpbs.Individuals)
	assert.Equal(t, 10, dpbs.Timepoints)
	// standardised schedule: 1, 4, 8, 11, ...
	assert.Equal(t, 1.0, dpbs.Table.Index[0].Day)
	assert.Equal(t, 4.0, dpbs.Table.Index[1].Day)
	assert.Equal(t, 8.0, dpbs.Table.Index[2].Day)
	assert.Len(t, report.Comparisons, 1)
}

func TestAnalyzeAbsoluteKeepsSourceDays(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.StandardiseDays = false
	svc, _ := newTestService(cfg)

	ext, err := svc.LoadAbsolute(context.Background(), studyPath)
	require.NoError(t, err)
	dpbs, err := ext.Get("DPBS")
	require.NoError(t, err)
	assert.Equal(t, 1.0, dpbs.Index[0].Day)
	assert.Equal(t, "44.1", dpbs.Index[8].Label)
}

func TestAnalyzeHigherEndpointCensorsEverything(t *testing.T) {
	cfg := config.Default()
	cfg.Analysis.Endpoint = 1000
	svc, _ := newTestService(cfg)

	report, err := svc.Analyze(context.Background(), studyPath, LayoutPrism)
	require.NoError(t, err)
	for _, g := range report.Groups {
		assert.Equal(t, g.KaplanMeier.Observations, g.KaplanMeier.Censored, g.Name)
		assert.Equal(t, len(g.Events), g.Censored, g.Name)
	}
	require.Len(t, report.Comparisons, 1)
	assert.Equal(t, 0.0, report.Comparisons[0].TestStatistic)
}

func TestAnalyzeErrors(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	_, err := svc.Analyze(ctx, "missing.xlsx", LayoutPrism)
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	_, err = svc.Analyze(ctx, studyPath, Layout("wide"))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	books := testkit.NewMemoryWorkbooks().Put(studyPath, "PrismRaw", testkit.Grid(testkit.Row("nothing here")))
	svc = NewStudyService(books, lifetable.NewEstimator(), nil)
	_, err = svc.Analyze(ctx, studyPath, LayoutPrism)
	assert.Equal(t, errors.CodeMalformedTable, errors.GetCode(err))
}

func TestCompare(t *testing.T) {
	svc, _ := newTestService(nil)
	report, err := svc.Analyze(context.Background(), studyPath, LayoutPrism)
	require.NoError(t, err)

	res, err := svc.Compare(report, "Treat", "Vehicle")
	require.NoError(t, err)
	assert.Equal(t, "Treat", res.GroupA)
	assert.Equal(t, 0, res.ObservedA)
	assert.Equal(t, 0.05, res.Alpha)

	_, err = svc.Compare(report, "Vehicle", "Placebo")
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestAnalyzeAll(t *testing.T) {
	cfg := config.Default()
	books := testkit.StudyWorkbooks(cfg.Layout.PrismSheet, cfg.Layout.AbsoluteSheet, 1, 2, 3)
	svc := NewStudyService(books, lifetable.NewEstimator(), cfg)

	paths := []string{"study-1.xlsx", "study-2.xlsx", "study-3.xlsx"}
	reports, err := svc.AnalyzeAll(context.Background(), paths, LayoutPrism, 2)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	for i, r := range reports {
		assert.Equal(t, paths[i], r.Source)
		assert.Len(t, r.Groups, 4)
		assert.Len(t, r.Comparisons, 6)
	}

	_, err = svc.AnalyzeAll(context.Background(), append(paths, "study-9.xlsx"), LayoutAbsolute, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "study-9.xlsx")
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("absolute")
	require.NoError(t, err)
	assert.Equal(t, LayoutAbsolute, l)

	_, err = ParseLayout("Prism ")
	assert.Error(t, err)
}

func TestSummarizeEmptyGroup(t *testing.T) {
	svc, _ := newTestService(nil)
	empty := testkit.SmallTable()
	for r := range empty.Values {
		for c := range empty.Values[r] {
			empty.Values[r][c] = math.NaN()
		}
	}

	summary, err := svc.Summarize("Empty", empty)
	require.NoError(t, err)
	assert.Empty(t, summary.Events)
	assert.Nil(t, summary.KaplanMeier)
}
