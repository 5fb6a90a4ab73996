package intertext

import (
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/intertext/model"
	"github.com/hupe1980/intertext/stoplist"
)

// DisplayScale is the upper bound of normalized display scores.
const DisplayScale = 10.0

func aggregate(sourceID, targetID string, params Params, stop *stoplist.Set, results []scored) ([]model.Match, *model.MatchSet) {
	matches := make([]model.Match, len(results))
	for i := range results {
		r := &results[i]
		matches[i] = model.Match{
			Units:          r.ref,
			SharedFeatures: r.pair.Shared,
			Score:          r.result.Score,
			Metric:         params.DistanceMetric,
			Distances:      r.result.Distances,
		}
	}

	ms := &model.MatchSet{
		ID:        uuid.NewString(),
		Texts:     [2]string{sourceID, targetID},
		Params:    params,
		Stoplist:  stop.Features(),
		Matches:   make([]*model.Match, len(matches)),
		CreatedAt: time.Now().UTC(),
	}
	for i := range matches {
		ms.Matches[i] = &matches[i]
	}
	return matches, ms
}

// Normalize maps raw scores to the 0..DisplayScale presentation range:
// score * 10 / max(maxScore, 10). Sets whose best score is at most 10 keep
// their raw values. The result is aligned with matches.
func Normalize(matches []model.Match) []float64 {
	maxScore := DisplayScale
	for i := range matches {
		maxScore = max(maxScore, matches[i].Score)
	}
	out := make([]float64, len(matches))
	for i := range matches {
		out[i] = matches[i].Score * DisplayScale / maxScore
	}
	return out
}
