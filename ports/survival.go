package ports

import "survivalvolume/domain/survival"

// SurvivalSample is one group's event data in the parallel-array form
// survival estimators consume
type SurvivalSample struct {
	Label    string
	Times    []float64
	Observed []bool
}

// SurvivalEstimator fits survival functions and compares groups
type SurvivalEstimator interface {
	// KaplanMeier fits the product-limit survival function of one group
	KaplanMeier(sample SurvivalSample) (*survival.KaplanMeierFit, error)

	// LogRank runs a two-group Mantel-Cox test at significance level alpha
	LogRank(a, b SurvivalSample, alpha float64) (*survival.LogRankResult, error)
}
