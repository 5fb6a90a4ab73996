package intertext

import (
	"context"
	"time"

	"github.com/hupe1980/intertext/distance"
	"github.com/hupe1980/intertext/frequency"
	"github.com/hupe1980/intertext/internal/candidate"
	"github.com/hupe1980/intertext/internal/sparse"
	"github.com/hupe1980/intertext/model"
	"github.com/hupe1980/intertext/stoplist"
	"golang.org/x/sync/errgroup"
)

// minScoreBlock is the smallest number of candidates scored by one worker.
const minScoreBlock = 512

// Searcher runs searches. It holds configuration only; every search
// recomputes its frequencies, stoplist and matrices, so one Searcher may be
// used by concurrent goroutines.
type Searcher struct {
	opts options
}

// New creates a Searcher.
func New(optFns ...Option) *Searcher {
	return &Searcher{opts: applyOptions(optFns)}
}

// Metric resolves a metric name, preferring metrics added with WithMetric.
func (s *Searcher) Metric(name string) (distance.Metric, error) {
	if m, ok := s.opts.metrics[name]; ok {
		return m, nil
	}
	return distance.Lookup(name)
}

// Search matches the units of source against the units of target.
//
// Both texts must use feature ids of vocab. The returned matches are in
// candidate order (ascending source unit, then target unit); the MatchSet
// references the same matches. A search either returns complete results or
// an error: *ConfigurationError for invalid parameters,
// *InsufficientDataError for a text without units, or ctx.Err().
func (s *Searcher) Search(ctx context.Context, source, target *model.Text, vocab *model.Vocabulary, params Params) (matches []model.Match, ms *model.MatchSet, err error) {
	start := time.Now()
	candidates := 0
	logger := s.opts.logger

	defer func() {
		elapsed := time.Since(start)
		s.opts.metricsCollector.RecordSearch(elapsed, candidates, len(matches), err)
		logger.LogSearch(ctx, candidates, len(matches), elapsed, err)
	}()

	params = params.Normalized()
	if err := params.validate(func(name string) error {
		_, err := s.Metric(name)
		return err
	}); err != nil {
		return nil, nil, err
	}
	if source == nil || target == nil || vocab == nil {
		return nil, nil, &ConfigurationError{Field: "texts", Value: nil, Reason: "two texts and a vocabulary are required"}
	}
	if source.ID == target.ID {
		return nil, nil, &ConfigurationError{Field: "texts", Value: source.ID, Reason: "source and target must be distinct texts"}
	}
	metric, _ := s.Metric(params.DistanceMetric)

	logger = logger.WithTexts(source.ID, target.ID).WithParams(params)

	unitsA := source.Units(params.UnitType)
	if len(unitsA) == 0 {
		return nil, nil, &InsufficientDataError{TextID: source.ID, UnitType: string(params.UnitType)}
	}
	unitsB := target.Units(params.UnitType)
	if len(unitsB) == 0 {
		return nil, nil, &InsufficientDataError{TextID: target.ID, UnitType: string(params.UnitType)}
	}

	// Frequencies.
	stageStart := time.Now()
	pooled := frequency.Build(params.FeatureType, params.ScoreBasis, unitsA, unitsB)
	corpus := pooled
	if len(s.opts.corpus) > 0 {
		collections := [][]model.Unit{unitsA, unitsB}
		for _, t := range s.opts.corpus {
			if t != nil {
				collections = append(collections, t.Units(params.UnitType))
			}
		}
		corpus = frequency.Build(params.FeatureType, params.ScoreBasis, collections...)
	}

	freqA, freqB := corpus, corpus
	if params.FrequencyBasis == frequency.BasisText {
		freqA = frequency.Build(params.FeatureType, params.ScoreBasis, unitsA)
		freqB = frequency.Build(params.FeatureType, params.ScoreBasis, unitsB)
	}
	s.opts.metricsCollector.RecordStage(StageFrequency, time.Since(stageStart))

	// Stoplist.
	stageStart = time.Now()
	stopBasis := corpus
	if params.StopwordBasis == frequency.BasisText {
		stopBasis = pooled
	}
	stop, err := stoplist.Build(stopBasis, vocab, params.Stopwords)
	if err != nil {
		return nil, nil, configError("stopwords", params.Stopwords, err)
	}
	if len(params.StopwordList) > 0 {
		stop.Union(stoplist.FromWords(vocab, params.FeatureType, params.StopwordList))
	}
	logger.LogStoplist(ctx, params.Stopwords, stop.Len(), string(params.StopwordBasis))
	s.opts.metricsCollector.RecordStage(StageStoplist, time.Since(stageStart))

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// Sparse matrices.
	stageStart = time.Now()
	mopts := sparse.Options{
		FeatureType: params.FeatureType,
		ScoreBasis:  params.ScoreBasis,
		Exclude:     stop,
		Workers:     s.opts.numShards,
	}
	ma, err := sparse.Build(ctx, unitsA, mopts)
	if err != nil {
		return nil, nil, err
	}
	mb, err := sparse.Build(ctx, unitsB, mopts)
	if err != nil {
		return nil, nil, err
	}
	s.opts.metricsCollector.RecordStage(StageMatrix, time.Since(stageStart))

	// Candidates.
	stageStart = time.Now()
	pairs, stats, err := candidate.Generate(ctx, ma, mb, candidate.Options{Shards: s.opts.numShards})
	if err != nil {
		return nil, nil, err
	}
	candidates = len(pairs)
	logger.LogCandidates(ctx, stats.Features, stats.Touched, len(pairs))
	s.opts.metricsCollector.RecordStage(StageCandidate, time.Since(stageStart))

	// Scoring.
	stageStart = time.Now()
	scorer := &distance.Scorer{
		Metric:      metric,
		MaxDistance: params.MaxDistance,
		MinScore:    params.MinScore,
	}
	sc := &pairScorer{
		scorer: scorer,
		a:      side{units: unitsA, m: ma, freq: freqA},
		b:      side{units: unitsB, m: mb, freq: freqB},
	}
	results, err := sc.scoreAll(ctx, pairs, s.opts.numShards)
	if err != nil {
		return nil, nil, err
	}
	s.opts.metricsCollector.RecordStage(StageScore, time.Since(stageStart))

	matches, ms = aggregate(source.ID, target.ID, params, stop, results)
	return matches, ms, nil
}

type side struct {
	units []model.Unit
	m     *sparse.Matrix
	freq  *frequency.Index
}

// view builds the distance.Side of row r for the shared features.
func (s *side) view(r uint32, shared []model.FeatureID) distance.Side {
	row := &s.m.Rows[r]
	out := make(distance.Side, 0, len(shared))
	for _, f := range shared {
		e, ok := row.Lookup(f)
		if !ok {
			continue
		}
		out = append(out, distance.Occurrence{
			Feature:   f,
			Weight:    e.Weight,
			Positions: e.Positions,
			Frequency: s.freq.Frequency(f),
		})
	}
	return out
}

type pairScorer struct {
	scorer *distance.Scorer
	a, b   side
}

// scored is a candidate that passed the scorer.
type scored struct {
	pair   candidate.Pair
	result distance.Result
	ref    [2]model.UnitRef
}

func (ps *pairScorer) score(p candidate.Pair) (scored, bool) {
	res, ok := ps.scorer.Evaluate(ps.a.view(p.A, p.Shared), ps.b.view(p.B, p.Shared))
	if !ok {
		return scored{}, false
	}
	return scored{
		pair:   p,
		result: res,
		ref:    [2]model.UnitRef{ps.a.units[p.A].Ref(), ps.b.units[p.B].Ref()},
	}, true
}

// scoreAll scores pairs in parallel blocks. The output keeps pair order.
func (ps *pairScorer) scoreAll(ctx context.Context, pairs []candidate.Pair, workers int) ([]scored, error) {
	if workers <= 1 || len(pairs) <= minScoreBlock {
		out := make([]scored, 0)
		for _, p := range pairs {
			if r, ok := ps.score(p); ok {
				out = append(out, r)
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return out, nil
	}

	block := max(minScoreBlock, (len(pairs)+workers-1)/workers)
	blocks := make([][]scored, (len(pairs)+block-1)/block)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range blocks {
		lo, hi := i*block, min((i+1)*block, len(pairs))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var out []scored
			for _, p := range pairs[lo:hi] {
				if r, ok := ps.score(p); ok {
					out = append(out, r)
				}
			}
			blocks[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]scored, 0)
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out, nil
}
