package survival

import (
	"fmt"

	"survivalvolume/domain/table"
)

// EventRecord is the survival outcome of one individual. Observed is the
// inverse of censored: true when the last recorded volume reached the endpoint.
type EventRecord struct {
	Individual string  `json:"individual" yaml:"individual"`
	Time       float64 `json:"time" yaml:"time"`
	Observed   bool    `json:"observed" yaml:"observed"`
}

// IntervalRecord is the mean and confidence interval of the mean at one time point
type IntervalRecord struct {
	Timepoint table.Timepoint `json:"timepoint" yaml:"timepoint"`
	N         int             `json:"n" yaml:"n"`
	Mean      float64         `json:"mean" yaml:"mean"`
	Lower     float64         `json:"lower" yaml:"lower"`
	Upper     float64         `json:"upper" yaml:"upper"`
}

// MeanPoint is one point of a group's mean volume line
type MeanPoint struct {
	Timepoint table.Timepoint `json:"timepoint" yaml:"timepoint"`
	N         int             `json:"n" yaml:"n"`
	Mean      float64         `json:"mean" yaml:"mean"`
}

// SurvivalStep is one step of a Kaplan-Meier survival function
type SurvivalStep struct {
	Time     float64 `json:"time" yaml:"time"`
	AtRisk   int     `json:"at_risk" yaml:"at_risk"`
	Events   int     `json:"events" yaml:"events"`
	Censored int     `json:"censored" yaml:"censored"`
	Survival float64 `json:"survival" yaml:"survival"`
}

// KaplanMeierFit is a fitted survival function for one group
type KaplanMeierFit struct {
	Label          string         `json:"label" yaml:"label"`
	Observations   int            `json:"observations" yaml:"observations"`
	Censored       int            `json:"censored" yaml:"censored"`
	Steps          []SurvivalStep `json:"steps" yaml:"steps"`
	MedianSurvival *float64       `json:"median_survival,omitempty" yaml:"median_survival,omitempty"` // nil while survival stays above 0.5
}

func (k KaplanMeierFit) String() string {
	return fmt.Sprintf("<KaplanMeierFit %q: fitted with %d observations, %d censored>", k.Label, k.Observations, k.Censored)
}

// SurvivalAt evaluates the step function at time t
func (k KaplanMeierFit) SurvivalAt(t float64) float64 {
	s := 1.0
	for _, step := range k.Steps {
		if step.Time > t {
			break
		}
		s = step.Survival
	}
	return s
}

// LogRankResult is a two-group Mantel-Cox comparison
type LogRankResult struct {
	GroupA        string  `json:"group_a" yaml:"group_a"`
	GroupB        string  `json:"group_b" yaml:"group_b"`
	ObservedA     int     `json:"observed_a" yaml:"observed_a"`
	ObservedB     int     `json:"observed_b" yaml:"observed_b"`
	ExpectedA     float64 `json:"expected_a" yaml:"expected_a"`
	ExpectedB     float64 `json:"expected_b" yaml:"expected_b"`
	TestStatistic float64 `json:"test_statistic" yaml:"test_statistic"`
	PValue        float64 `json:"p_value" yaml:"p_value"`
	Alpha         float64 `json:"alpha" yaml:"alpha"`
	Significant   bool    `json:"significant" yaml:"significant"`
}

// Method selects the interval formula
type Method string

const (
	MethodT      Method = "t"
	MethodNormal Method = "normal"
)
