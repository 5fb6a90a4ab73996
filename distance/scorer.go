package distance

import (
	"cmp"
	"slices"

	"github.com/hupe1980/intertext/model"
)

// Scorer applies a Metric and the distance and score thresholds.
type Scorer struct {
	Metric Metric
	// MaxDistance rejects pairs whose distance in either unit exceeds it.
	// Values <= 0 disable the check.
	MaxDistance float64
	// MinScore rejects pairs scoring below it.
	MinScore float64
}

// Result is the outcome of scoring one candidate pair.
type Result struct {
	Score     float64
	Distances [2]int
}

// Evaluate scores the pair (a, b). ok is false if the pair was rejected.
func (sc *Scorer) Evaluate(a, b Side) (Result, bool) {
	da, ok := sc.Metric.Distance(a)
	if !ok {
		return Result{}, false
	}
	db, ok := sc.Metric.Distance(b)
	if !ok {
		return Result{}, false
	}
	if sc.MaxDistance > 0 && (float64(da) > sc.MaxDistance || float64(db) > sc.MaxDistance) {
		return Result{}, false
	}

	score := sc.Metric.Score(a, b, da, db)
	if score < sc.MinScore {
		return Result{}, false
	}
	return Result{Score: score, Distances: [2]int{da, db}}, true
}

// SortMatches orders matches by descending score, then by descending number
// of shared features. Remaining ties keep their input order.
func SortMatches(matches []model.Match) {
	slices.SortStableFunc(matches, func(x, y model.Match) int {
		if c := cmp.Compare(y.Score, x.Score); c != 0 {
			return c
		}
		return cmp.Compare(len(y.SharedFeatures), len(x.SharedFeatures))
	})
}
