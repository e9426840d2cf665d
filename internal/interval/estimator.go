// Package interval summarises a group's volumes per time point: the mean
// line and the confidence interval of the mean around it.
package interval

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"survivalvolume/domain/core"
	"survivalvolume/domain/survival"
	"survivalvolume/domain/table"
)

// Defaults for group summaries
const (
	DefaultThreshold  = 2
	DefaultConfidence = 0.95
)

var distributions = NewDistributions()

type boundsFunc func(mean, sd float64, n int, ci float64) (float64, float64)

// TInterval estimates a Student's t confidence interval of the mean at every
// time point with more than threshold measurements. Lower bounds are clamped
// at zero and time points whose interval is undefined are left out.
func TInterval(t *table.Table, threshold int, ci float64) ([]survival.IntervalRecord, error) {
	return estimate(t, threshold, ci, distributions.ConfidenceIntervalMean)
}

// NormalInterval is TInterval using the normal approximation
func NormalInterval(t *table.Table, threshold int, ci float64) ([]survival.IntervalRecord, error) {
	return estimate(t, threshold, ci, distributions.NormalIntervalMean)
}

// Estimate dispatches on the interval method
func Estimate(method survival.Method, t *table.Table, threshold int, ci float64) ([]survival.IntervalRecord, error) {
	switch method {
	case survival.MethodT:
		return TInterval(t, threshold, ci)
	case survival.MethodNormal:
		return NormalInterval(t, threshold, ci)
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidMethod, method)
	}
}

// Means returns the mean volume at every time point with more than threshold
// measurements
func Means(t *table.Table, threshold int) ([]survival.MeanPoint, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: %d", core.ErrInvalidThreshold, threshold)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	points := make([]survival.MeanPoint, 0, t.NumRows())
	for r := 0; r < t.NumRows(); r++ {
		obs := t.Observations(r)
		if len(obs) <= threshold || len(obs) == 0 {
			continue
		}
		mean, err := stats.Mean(obs)
		if err != nil {
			return nil, err
		}
		points = append(points, survival.MeanPoint{Timepoint: t.Index[r], N: len(obs), Mean: mean})
	}
	return points, nil
}

func estimate(t *table.Table, threshold int, ci float64, bounds boundsFunc) ([]survival.IntervalRecord, error) {
	if !(ci > 0 && ci < 1) {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidConfidence, ci)
	}
	if threshold < 0 {
		return nil, fmt.Errorf("%w: %d", core.ErrInvalidThreshold, threshold)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	records := make([]survival.IntervalRecord, 0, t.NumRows())
	for r := 0; r < t.NumRows(); r++ {
		obs := t.Observations(r)
		n := len(obs)
		// a single measurement has no spread
		if n <= threshold || n < 2 {
			continue
		}

		mean, err := stats.Mean(obs)
		if err != nil {
			return nil, err
		}
		sd, err := stats.StandardDeviationSample(obs)
		if err != nil {
			return nil, err
		}

		lower, upper := bounds(mean, sd, n, ci)
		if math.IsNaN(mean) || math.IsNaN(lower) || math.IsNaN(upper) {
			continue
		}
		records = append(records, survival.IntervalRecord{
			Timepoint: t.Index[r],
			N:         n,
			Mean:      mean,
			Lower:     math.Max(0, lower),
			Upper:     upper,
		})
	}
	return records, nil
}
