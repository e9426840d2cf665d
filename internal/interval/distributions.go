package interval

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distributions provides the quantiles and tail probabilities used by the
// interval estimator and the log-rank test
type Distributions struct{}

// NewDistributions creates a new distributions utility
func NewDistributions() *Distributions {
	return &Distributions{}
}

// TCritical returns the two-sided Student's t critical value for a confidence level
func (d *Distributions) TCritical(confidenceLevel float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return math.NaN()
	}
	alpha := 1.0 - confidenceLevel
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(degreesOfFreedom)}.Quantile(1.0 - alpha/2.0)
}

// NormalQuantile computes quantile function for standard normal (inverse CDF)
func (d *Distributions) NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// ChiSquarePValue computes the upper-tail p-value of a chi-square statistic
func (d *Distributions) ChiSquarePValue(chiSquare float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}
	return 1 - distuv.ChiSquared{K: float64(degreesOfFreedom)}.CDF(chiSquare)
}

// ConfidenceIntervalMean computes the t-based confidence interval for a
// population mean
func (d *Distributions) ConfidenceIntervalMean(sampleMean, sampleStd float64, sampleSize int, confidenceLevel float64) (lower, upper float64) {
	if sampleSize < 2 {
		return math.NaN(), math.NaN()
	}
	se := sampleStd / math.Sqrt(float64(sampleSize))
	margin := d.TCritical(confidenceLevel, sampleSize-1) * se
	return sampleMean - margin, sampleMean + margin
}

// NormalIntervalMean computes the large-sample (z) confidence interval for a
// population mean
func (d *Distributions) NormalIntervalMean(sampleMean, sampleStd float64, sampleSize int, confidenceLevel float64) (lower, upper float64) {
	if sampleSize < 2 {
		return math.NaN(), math.NaN()
	}
	se := sampleStd / math.Sqrt(float64(sampleSize))
	margin := d.NormalQuantile(1.0-(1.0-confidenceLevel)/2.0) * se
	return sampleMean - margin, sampleMean + margin
}
