// Package candidate discovers cross-text unit pairs sharing features.
//
// Each side of a search is indexed as posting lists (feature -> rows). For
// every feature present on both sides, every (row of A, row of B) pair in
// the cross product of the two lists shares that feature. Work is sharded
// by feature id: shard s owns the features with id % shards == s and writes
// into its own partitioned maps. A second phase merges partition p of every
// shard, so no map is ever written by two goroutines.
//
// Pairs sharing fewer than MinShared features are dropped. The output is
// sorted by (A, B) with ascending shared features, independent of the
// number of shards.
package candidate

import (
	"cmp"
	"context"
	"slices"

	"github.com/hupe1980/intertext/internal/sparse"
	"github.com/hupe1980/intertext/model"
	"golang.org/x/sync/errgroup"
)

// DefaultMinShared is the minimum evidence for a candidate pair.
const DefaultMinShared = 2

// Pair is a candidate: row A of the source matrix, row B of the target
// matrix, and the features they share.
type Pair struct {
	A, B   uint32
	Shared []model.FeatureID
}

// Options configures candidate generation.
type Options struct {
	// Shards is the number of feature shards (and merge partitions).
	// Values <= 1 run sequentially.
	Shards int
	// MinShared is the minimum number of shared features. Defaults to DefaultMinShared.
	MinShared int
}

type pairKey uint64

func makeKey(a, b uint32) pairKey { return pairKey(a)<<32 | pairKey(b) }

func (k pairKey) split() (uint32, uint32) { return uint32(k >> 32), uint32(k) }

// Stats describes one generation run.
type Stats struct {
	Features int    // features present on both sides
	Touched  int    // distinct pairs sharing at least one feature
	Postings uint64 // total posting-list length across both sides
}

// Generate returns all pairs of rows (a in A, b in B) sharing at least
// MinShared features.
func Generate(ctx context.Context, a, b *sparse.Matrix, opts Options) ([]Pair, Stats, error) {
	if opts.MinShared <= 0 {
		opts.MinShared = DefaultMinShared
	}
	shards := max(opts.Shards, 1)

	pa, pb := NewPostings(a), NewPostings(b)
	common := pa.Common(pb)

	stats := Stats{Features: len(common), Postings: pa.Size() + pb.Size()}

	// local[s][p] is written only by shard s during phase one.
	local := make([][]map[pairKey][]model.FeatureID, shards)
	for s := range local {
		local[s] = make([]map[pairKey][]model.FeatureID, shards)
		for p := range local[s] {
			local[s][p] = make(map[pairKey][]model.FeatureID)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for s := 0; s < shards; s++ {
		g.Go(func() error {
			parts := local[s]
			for _, f := range common {
				if int(f)%shards != s {
					continue
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				rowsA := pa.Get(f).ToArray()
				rowsB := pb.Get(f).ToArray()
				for _, ra := range rowsA {
					part := parts[int(ra)%shards]
					for _, rb := range rowsB {
						k := makeKey(ra, rb)
						part[k] = append(part[k], f)
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	merged := make([][]Pair, shards)
	touched := make([]int, shards)

	g, gctx = errgroup.WithContext(ctx)
	for p := 0; p < shards; p++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			acc := local[0][p]
			for s := 1; s < shards; s++ {
				for k, feats := range local[s][p] {
					acc[k] = append(acc[k], feats...)
				}
				local[s][p] = nil
			}
			touched[p] = len(acc)

			out := make([]Pair, 0)
			for k, feats := range acc {
				if len(feats) < opts.MinShared {
					continue
				}
				slices.Sort(feats)
				ra, rb := k.split()
				out = append(out, Pair{A: ra, B: rb, Shared: feats})
			}
			merged[p] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	var pairs []Pair
	for p := range merged {
		stats.Touched += touched[p]
		pairs = append(pairs, merged[p]...)
	}
	slices.SortFunc(pairs, func(x, y Pair) int {
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})
	return pairs, stats, nil
}
