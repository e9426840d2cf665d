package survival

import (
	"survivalvolume/domain/core"
	"survivalvolume/domain/table"
)

// Parameters records the analysis settings a report was produced with
type Parameters struct {
	Endpoint  float64 `json:"endpoint" yaml:"endpoint"`
	Threshold int     `json:"threshold" yaml:"threshold"`
	CI        float64 `json:"ci" yaml:"ci"`
	Alpha     float64 `json:"alpha" yaml:"alpha"`
	Method    Method  `json:"method" yaml:"method"`
}

// GroupSummary is everything derived from one group's table
type GroupSummary struct {
	Name        string           `json:"name" yaml:"name"`
	Table       *table.Table     `json:"table" yaml:"-"`
	Individuals int              `json:"individuals" yaml:"individuals"`
	Timepoints  int              `json:"timepoints" yaml:"timepoints"`
	Means       []MeanPoint      `json:"means" yaml:"means"`
	Intervals   []IntervalRecord `json:"intervals" yaml:"intervals"`
	Events      []EventRecord    `json:"events" yaml:"events"`
	Censored    int              `json:"censored" yaml:"censored"` // individuals that never reached the endpoint
	KaplanMeier *KaplanMeierFit  `json:"kaplan_meier,omitempty" yaml:"kaplan_meier,omitempty"`
}

// SkippedBlock is a source region that did not yield a group
type SkippedBlock struct {
	FirstRow int    `json:"first_row" yaml:"first_row"`
	LastRow  int    `json:"last_row" yaml:"last_row"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Reason   string `json:"reason" yaml:"reason"`
}

// StudyReport is the complete analysis of one workbook
type StudyReport struct {
	ID          core.ReportID   `json:"id" yaml:"id"`
	CreatedAt   core.Timestamp  `json:"created_at" yaml:"created_at"`
	Source      string          `json:"source" yaml:"source"`
	Layout      string          `json:"layout" yaml:"layout"`
	Parameters  Parameters      `json:"parameters" yaml:"parameters"`
	Groups      []GroupSummary  `json:"groups" yaml:"groups"`
	Comparisons []LogRankResult `json:"comparisons,omitempty" yaml:"comparisons,omitempty"`
	Skipped     []SkippedBlock  `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Overwritten []string        `json:"overwritten,omitempty" yaml:"overwritten,omitempty"`
}

// Group returns the named group summary
func (r *StudyReport) Group(name string) (*GroupSummary, error) {
	for i := range r.Groups {
		if r.Groups[i].Name == name {
			return &r.Groups[i], nil
		}
	}
	return nil, core.NewGroupNotFoundError(name)
}
