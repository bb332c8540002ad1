// Package scoring computes weighted staff performance ratings for FOH and
// kitchen reviews.
package scoring

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/shopspring/decimal"
)

var (
	ErrZeroTotalWeight = errors.New("ZERO_TOTAL_WEIGHT")
	ErrMissingWeight   = errors.New("MISSING_WEIGHT")
	ErrNegativeWeight  = errors.New("NEGATIVE_WEIGHT")
	ErrNonFiniteValue  = errors.New("NON_FINITE_VALUE")
)

// scorePrecision is the number of decimal places a weighted score is rounded to.
const scorePrecision = 2

// CalculateWeightedScore multiplies each score by the weight under the same
// category and divides the sum by the total of all weights, including weights
// for categories that were not scored. The result is rounded half-up to two
// decimal places.
func CalculateWeightedScore(scores ScoreSet, weights WeightSet) (float64, error) {
	var totalWeighted float64
	for _, category := range slices.Sorted(maps.Keys(scores)) {
		score := scores[category]
		weight, ok := weights[category]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrMissingWeight, category)
		}
		if !isFinite(score) {
			return 0, fmt.Errorf("%w: score for %s", ErrNonFiniteValue, category)
		}
		totalWeighted += score * weight
	}

	var totalWeight float64
	for _, category := range slices.Sorted(maps.Keys(weights)) {
		weight := weights[category]
		if !isFinite(weight) {
			return 0, fmt.Errorf("%w: weight for %s", ErrNonFiniteValue, category)
		}
		if weight < 0 {
			return 0, fmt.Errorf("%w: %s", ErrNegativeWeight, category)
		}
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0, ErrZeroTotalWeight
	}

	return roundScore(totalWeighted / totalWeight), nil
}

// CalculateRoleScore scores against the role's shipped weight table.
func CalculateRoleScore(r Role, scores ScoreSet) (float64, error) {
	if !r.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, string(r))
	}
	return CalculateWeightedScore(scores, WeightsFor(r))
}

// roundScore rounds on the shortest decimal representation of v, so 1.005
// becomes 1.01 rather than 1.00.
func roundScore(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(scorePrecision).Float64()
	return f
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
