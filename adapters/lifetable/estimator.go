// Package lifetable is the reference survival estimator: product-limit
// (Kaplan-Meier) survival functions and the Mantel-Cox log-rank test.
package lifetable

import (
	"fmt"
	"math"
	"sort"

	"survivalvolume/domain/core"
	"survivalvolume/domain/survival"
	"survivalvolume/internal/interval"
	"survivalvolume/ports"
)

// Estimator implements ports.SurvivalEstimator
type Estimator struct {
	distributions *interval.Distributions
}

// NewEstimator creates a new estimator
func NewEstimator() *Estimator {
	return &Estimator{distributions: interval.NewDistributions()}
}

var _ ports.SurvivalEstimator = (*Estimator)(nil)

// KaplanMeier fits the product-limit survival function with one step per
// distinct duration, censor-only durations included
func (e *Estimator) KaplanMeier(sample ports.SurvivalSample) (*survival.KaplanMeierFit, error) {
	if err := validate(sample); err != nil {
		return nil, err
	}

	fit := &survival.KaplanMeierFit{Label: sample.Label, Observations: len(sample.Times)}
	s := 1.0
	for _, t := range distinctTimes(sample, false) {
		atRisk, events, censored := tally(sample, t)
		fit.Censored += censored
		if events > 0 {
			s *= 1 - float64(events)/float64(atRisk)
		}
		fit.Steps = append(fit.Steps, survival.SurvivalStep{
			Time:     t,
			AtRisk:   atRisk,
			Events:   events,
			Censored: censored,
			Survival: s,
		})
		if fit.MedianSurvival == nil && s <= 0.5 {
			median := t
			fit.MedianSurvival = &median
		}
	}
	return fit, nil
}

// LogRank compares two groups' survival with the Mantel-Cox test. The
// statistic is chi-square with one degree of freedom.
func (e *Estimator) LogRank(a, b ports.SurvivalSample, alpha float64) (*survival.LogRankResult, error) {
	if !(alpha > 0 && alpha < 1) {
		return nil, fmt.Errorf("%w: alpha %v", core.ErrInvalidConfidence, alpha)
	}
	if err := validate(a); err != nil {
		return nil, err
	}
	if err := validate(b); err != nil {
		return nil, err
	}

	pooled := ports.SurvivalSample{
		Times:    append(append([]float64(nil), a.Times...), b.Times...),
		Observed: append(append([]bool(nil), a.Observed...), b.Observed...),
	}

	res := &survival.LogRankResult{GroupA: a.Label, GroupB: b.Label, Alpha: alpha}
	var variance float64
	for _, t := range distinctTimes(pooled, true) {
		nA, dA, _ := tally(a, t)
		nB, dB, _ := tally(b, t)
		n := float64(nA + nB)
		d := float64(dA + dB)

		res.ObservedA += dA
		res.ObservedB += dB
		res.ExpectedA += d * float64(nA) / n
		res.ExpectedB += d * float64(nB) / n
		if n > 1 {
			variance += d * (float64(nA) / n) * (float64(nB) / n) * (n - d) / (n - 1)
		}
	}

	if variance > 0 {
		diff := float64(res.ObservedA) - res.ExpectedA
		res.TestStatistic = diff * diff / variance
		res.PValue = e.distributions.ChiSquarePValue(res.TestStatistic, 1)
	} else {
		res.PValue = 1
	}
	res.Significant = res.PValue < alpha
	return res, nil
}

func validate(sample ports.SurvivalSample) error {
	if len(sample.Times) != len(sample.Observed) {
		return fmt.Errorf("%w: %d durations for %d event flags", core.ErrNotTabular, len(sample.Times), len(sample.Observed))
	}
	if len(sample.Times) == 0 {
		return fmt.Errorf("%w: %q", core.ErrNoObservations, sample.Label)
	}
	for _, t := range sample.Times {
		if math.IsNaN(t) {
			return fmt.Errorf("%w: NaN duration in %q", core.ErrNotTabular, sample.Label)
		}
	}
	return nil
}

// distinctTimes returns the sorted distinct durations, optionally only those
// with at least one event
func distinctTimes(sample ports.SurvivalSample, eventsOnly bool) []float64 {
	seen := make(map[float64]bool)
	var times []float64
	for i, t := range sample.Times {
		if eventsOnly && !sample.Observed[i] {
			continue
		}
		if !seen[t] {
			seen[t] = true
			times = append(times, t)
		}
	}
	sort.Float64s(times)
	return times
}

// tally counts those at risk just before t and the events and censorings at t
func tally(sample ports.SurvivalSample, t float64) (atRisk, events, censored int) {
	for i, d := range sample.Times {
		if d < t {
			continue
		}
		atRisk++
		if d == t {
			if sample.Observed[i] {
				events++
			} else {
				censored++
			}
		}
	}
	return atRisk, events, censored
}
