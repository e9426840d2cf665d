// Package survival turns volume measurements into time-to-event records.
//
// An individual "dies" when its tumour reaches the endpoint volume. The last
// measured time point is the event time, and an individual whose last volume
// is still below the endpoint left the study for another reason and is
// censored.
package survival

import (
	"fmt"
	"math"

	"survivalvolume/domain/core"
	domain "survivalvolume/domain/survival"
	"survivalvolume/domain/table"
)

// DefaultEndpoint is the tumour volume (mm³) treated as the survival event
const DefaultEndpoint = 700

// Status returns the last time point with a measurement and whether the
// endpoint had been reached by then.
func Status(s *table.Series, endpoint float64) (float64, bool, error) {
	if err := s.Validate(); err != nil {
		return 0, false, err
	}
	obs := s.DropMissing()
	if obs.Len() == 0 {
		return 0, false, fmt.Errorf("%w: %q", core.ErrNoObservations, s.Name)
	}
	last := obs.Len() - 1
	return obs.Index[last].Day, !(obs.Values[last] < endpoint), nil
}

// FromTable returns one event record per individual, in column order.
// Individuals without a single measurement are left out.
func FromTable(t *table.Table, endpoint float64) ([]domain.EventRecord, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	records := make([]domain.EventRecord, 0, t.NumCols())
	for c := 0; c < t.NumCols(); c++ {
		s := t.ColumnAt(c)
		if !hasObservation(s.Values) {
			continue
		}
		time, observed, err := Status(s, endpoint)
		if err != nil {
			return nil, err
		}
		records = append(records, domain.EventRecord{
			Individual: s.Name,
			Time:       time,
			Observed:   observed,
		})
	}
	return records, nil
}

// Arrays splits records into the parallel duration and event sequences a
// survival estimator consumes
func Arrays(records []domain.EventRecord) ([]float64, []bool) {
	times := make([]float64, len(records))
	observed := make([]bool, len(records))
	for i, r := range records {
		times[i] = r.Time
		observed[i] = r.Observed
	}
	return times, observed
}

// Censored counts the records that did not reach the endpoint
func Censored(records []domain.EventRecord) int {
	n := 0
	for _, r := range records {
		if !r.Observed {
			n++
		}
	}
	return n
}

func hasObservation(values []float64) bool {
	for _, v := range values {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}
