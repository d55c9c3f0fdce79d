// Package statistics computes survey sample sizes with an optional
// finite-population correction.
package statistics

import (
	"math"

	"github.com/okian/sema/internal/domain/model"
)

const (
	defaultZScore = 1.96
	percent       = 100.0

	// ceilEpsilon absorbs binary floating-point noise before rounding up,
	// e.g. 96.00000000000001 must stay 96 respondents.
	ceilEpsilon = 1e-9
)

// zScores maps supported confidence levels (percent) to two-tailed Z-scores.
var zScores = map[int]float64{
	90: 1.645,
	95: 1.96,
	99: 2.576,
}

// Result is the outcome of a global sample-size calculation.
type Result struct {
	InfiniteSampleSize int     `json:"infiniteSampleSize"`
	AdjustedSampleSize int     `json:"adjustedSampleSize"`
	ZScore             float64 `json:"zScore"`
}

// ZScoreFor returns the Z-score for a confidence level. Unsupported levels
// fall back to the 95% value.
func ZScoreFor(confidenceLevel int) float64 {
	if z, ok := zScores[confidenceLevel]; ok {
		return z
	}
	return defaultZScore
}

// InfiniteSampleSize returns ceil(z²·p·(1−p)/e²) where e is a fraction.
func InfiniteSampleSize(z, p, e float64) int {
	if e <= 0 {
		return 0
	}
	return ceil(z * z * p * (1 - p) / (e * e))
}

// FiniteCorrection applies the finite-population correction to n0 for a
// population of size n. The result never exceeds n. A non-positive
// population leaves n0 unchanged.
func FiniteCorrection(n0, n int) int {
	if n <= 0 {
		return n0
	}
	corrected := ceil(float64(n0) * float64(n) / float64(n+n0-1))
	return min(corrected, n)
}

// Calculate runs the global calculator for a client's parameters.
func Calculate(params model.SampleSizeParameters) Result {
	z := ZScoreFor(params.ConfidenceLevel)
	infinite := InfiniteSampleSize(z, params.PopulationProportion, params.MarginOfError/percent)

	adjusted := infinite
	if params.UseFinitePopulation && params.PopulationSize > 0 {
		adjusted = FiniteCorrection(infinite, params.PopulationSize)
	}

	return Result{
		InfiniteSampleSize: infinite,
		AdjustedSampleSize: adjusted,
		ZScore:             z,
	}
}

// ForStakeholder sizes the sample of one stakeholder group using the global
// confidence, margin and proportion but the group's own population and its
// own finite-correction toggle. Groups without a known population need no sample.
func ForStakeholder(params model.SampleSizeParameters, population int, useFinite bool) int {
	if population <= 0 {
		return 0
	}
	z := ZScoreFor(params.ConfidenceLevel)
	infinite := InfiniteSampleSize(z, params.PopulationProportion, params.MarginOfError/percent)
	if useFinite {
		return FiniteCorrection(infinite, population)
	}
	return infinite
}

func ceil(x float64) int {
	return int(math.Ceil(x - ceilEpsilon))
}
