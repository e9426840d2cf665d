package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"survivalvolume/domain/core"
	"survivalvolume/domain/survival"
	"survivalvolume/domain/table"
	"survivalvolume/internal"
	"survivalvolume/internal/config"
	"survivalvolume/internal/errors"
	"survivalvolume/internal/extract"
	"survivalvolume/internal/interval"
	events "survivalvolume/internal/survival"
	"survivalvolume/ports"
)

var logger = internal.DefaultLogger.With("study")

// Layout names a spreadsheet export layout
type Layout string

const (
	LayoutPrism    Layout = "prism"
	LayoutAbsolute Layout = "absolute"
)

// ParseLayout validates a layout name
func ParseLayout(name string) (Layout, error) {
	switch Layout(name) {
	case LayoutPrism, LayoutAbsolute:
		return Layout(name), nil
	default:
		return "", errors.InvalidInput(fmt.Sprintf("unknown layout %q (want prism or absolute)", name))
	}
}

// StudyService turns workbook exports into analysed study reports
type StudyService struct {
	reader    ports.WorkbookReader
	estimator ports.SurvivalEstimator
	config    *config.Config
	now       func() time.Time
}

// NewStudyService creates a study service
func NewStudyService(reader ports.WorkbookReader, estimator ports.SurvivalEstimator, cfg *config.Config) *StudyService {
	if cfg == nil {
		cfg = config.Default()
	}
	return &StudyService{
		reader:    reader,
		estimator: estimator,
		config:    cfg,
		now:       time.Now,
	}
}

// Load reads the sheet for layout from path and extracts its group tables
func (s *StudyService) Load(ctx context.Context, path string, layout Layout) (*extract.Extraction, error) {
	switch layout {
	case LayoutPrism:
		return s.LoadPrism(ctx, path)
	case LayoutAbsolute:
		return s.LoadAbsolute(ctx, path)
	default:
		_, err := ParseLayout(string(layout))
		return nil, err
	}
}

// LoadPrism extracts group tables from the Prism sheet of a workbook
func (s *StudyService) LoadPrism(ctx context.Context, path string) (*extract.Extraction, error) {
	g, err := s.reader.ReadGrid(ctx, path, s.config.Layout.PrismSheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read prism sheet %q", s.config.Layout.PrismSheet)
	}
	ext, err := extract.PrismToTables(g, extract.DefaultPrismLayout())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to extract prism groups from %s", path)
	}
	logger.Info("%s: %d prism groups, %d skipped blocks", path, ext.Len(), len(ext.Skipped()))
	return ext, nil
}

// LoadAbsolute extracts group tables from the Absolute sheet of a workbook,
// standardising day schedules when configured to
func (s *StudyService) LoadAbsolute(ctx context.Context, path string) (*extract.Extraction, error) {
	g, err := s.reader.ReadGrid(ctx, path, s.config.Layout.AbsoluteSheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read absolute sheet %q", s.config.Layout.AbsoluteSheet)
	}

	layout := extract.DefaultAbsoluteLayout()
	layout.HeaderRow = s.config.Layout.AbsoluteHeaderRow
	ext, err := extract.AbsoluteToTables(g, layout)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to extract absolute groups from %s", path)
	}

	if s.config.Layout.StandardiseDays {
		ext, err = ext.Standardise(s.config.Layout.FirstInterval, s.config.Layout.SecondInterval)
		if err != nil {
			return nil, errors.Wrap(err, "failed to standardise days")
		}
	}
	logger.Info("%s: %d absolute groups, %d skipped", path, ext.Len(), len(ext.Skipped()))
	return ext, nil
}

// Analyze loads a workbook and builds its report
func (s *StudyService) Analyze(ctx context.Context, path string, layout Layout) (*survival.StudyReport, error) {
	ext, err := s.Load(ctx, path, layout)
	if err != nil {
		return nil, err
	}
	return s.BuildReport(path, layout, ext)
}

// AnalyzeAll analyses several workbooks concurrently. Reports come back in
// the order of paths; the first failure cancels the rest.
func (s *StudyService) AnalyzeAll(ctx context.Context, paths []string, layout Layout, workers int) ([]*survival.StudyReport, error) {
	reports := make([]*survival.StudyReport, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			r, err := s.Analyze(ctx, path, layout)
			if err != nil {
				return errors.Wrapf(err, "%s", path)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// BuildReport summarises every extracted group and compares each pair of
// groups with a fitted survival function
func (s *StudyService) BuildReport(source string, layout Layout, ext *extract.Extraction) (*survival.StudyReport, error) {
	a := s.config.Analysis
	report := &survival.StudyReport{
		ID:        core.ReportID(core.NewID()),
		CreatedAt: core.NewTimestamp(s.now()),
		Source:    source,
		Layout:    string(layout),
		Parameters: survival.Parameters{
			Endpoint:  a.Endpoint,
			Threshold: a.Threshold,
			CI:        a.CI,
			Alpha:     a.Alpha,
			Method:    a.Method,
		},
		Overwritten: append([]string(nil), ext.Overwritten...),
	}

	for _, g := range ext.Groups() {
		summary, err := s.Summarize(g.Name, g.Table)
		if err != nil {
			return nil, errors.Wrapf(err, "group %q", g.Name)
		}
		report.Groups = append(report.Groups, *summary)
	}

	for _, res := range ext.Skipped() {
		report.Skipped = append(report.Skipped, survival.SkippedBlock{
			FirstRow: res.FirstRow,
			LastRow:  res.LastRow,
			Name:     res.Name,
			Reason:   res.Reason,
		})
	}

	for i := 0; i < len(report.Groups); i++ {
		for j := i + 1; j < len(report.Groups); j++ {
			ga, gb := &report.Groups[i], &report.Groups[j]
			if ga.KaplanMeier == nil || gb.KaplanMeier == nil {
				continue
			}
			res, err := s.estimator.LogRank(sample(ga), sample(gb), a.Alpha)
			if err != nil {
				return nil, errors.Wrapf(err, "log-rank %q vs %q", ga.Name, gb.Name)
			}
			report.Comparisons = append(report.Comparisons, *res)
		}
	}

	if len(report.Groups) == 0 {
		logger.Warn("%s: no groups extracted", source)
	}
	return report, nil
}

// Summarize derives the mean line, interval band, events and survival fit
// of one group table
func (s *StudyService) Summarize(name string, t *table.Table) (*survival.GroupSummary, error) {
	a := s.config.Analysis

	means, err := interval.Means(t, a.Threshold)
	if err != nil {
		return nil, err
	}
	intervals, err := interval.Estimate(a.Method, t, a.Threshold, a.CI)
	if err != nil {
		return nil, err
	}
	records, err := events.FromTable(t, a.Endpoint)
	if err != nil {
		return nil, err
	}

	summary := &survival.GroupSummary{
		Name:        name,
		Table:       t,
		Individuals: t.NumCols(),
		Timepoints:  t.NumRows(),
		Means:       means,
		Intervals:   intervals,
		Events:      records,
		Censored:    events.Censored(records),
	}
	if len(records) == 0 {
		logger.Debug("group %q has no observations, skipping survival fit", name)
		return summary, nil
	}

	summary.KaplanMeier, err = s.estimator.KaplanMeier(sample(summary))
	if err != nil {
		return nil, err
	}
	logger.Debug("%s", summary.KaplanMeier)
	return summary, nil
}

// Compare runs a log-rank test between two groups of a report
func (s *StudyService) Compare(report *survival.StudyReport, groupA, groupB string) (*survival.LogRankResult, error) {
	a, err := report.Group(groupA)
	if err != nil {
		return nil, errors.Wrap(err, "unknown group")
	}
	b, err := report.Group(groupB)
	if err != nil {
		return nil, errors.Wrap(err, "unknown group")
	}
	res, err := s.estimator.LogRank(sample(a), sample(b), s.config.Analysis.Alpha)
	if err != nil {
		return nil, errors.Wrapf(err, "log-rank %q vs %q", groupA, groupB)
	}
	return res, nil
}

func sample(g *survival.GroupSummary) ports.SurvivalSample {
	times, observed := events.Arrays(g.Events)
	return ports.SurvivalSample{Label: g.Name, Times: times, Observed: observed}
}
