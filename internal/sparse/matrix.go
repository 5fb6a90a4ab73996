// Package sparse encodes units as sparse feature rows.
//
// Each row is a sorted list of (feature, weight, positions) entries with
// stoplisted features removed. Ambiguous lemmatization is folded into the
// weights: under model.ScoreLemmata each of n candidate lemmata of a token
// contributes 1/n, so every token adds exactly 1 to its row.
package sparse

import (
	"cmp"
	"context"
	"slices"

	"github.com/hupe1980/intertext/model"
	"golang.org/x/sync/errgroup"
)

// minBlockSize is the smallest number of rows handed to one worker.
const minBlockSize = 256

// Excluder reports whether a feature is excluded from the matrix.
type Excluder interface {
	Contains(f model.FeatureID) bool
}

// Entry is one non-zero cell of a row.
type Entry struct {
	Feature   model.FeatureID
	Weight    float64
	Positions []int // ascending, distinct
}

// Row is the sparse encoding of one unit. Entries are sorted by feature.
type Row struct {
	Entries []Entry
}

// Len returns the number of distinct features in the row.
func (r *Row) Len() int {
	return len(r.Entries)
}

// Lookup returns the entry for f.
func (r *Row) Lookup(f model.FeatureID) (*Entry, bool) {
	i, ok := slices.BinarySearchFunc(r.Entries, f, func(e Entry, f model.FeatureID) int {
		return cmp.Compare(e.Feature, f)
	})
	if !ok {
		return nil, false
	}
	return &r.Entries[i], true
}

// Options configures matrix construction.
type Options struct {
	FeatureType model.FeatureType
	ScoreBasis  model.ScoreBasis
	// Exclude removes features from every row. May be nil.
	Exclude Excluder
	// Workers bounds the number of goroutines. Values <= 1 build sequentially.
	Workers int
}

// Matrix holds one row per unit, in unit order.
type Matrix struct {
	Rows []Row
}

// NNZ returns the number of non-zero cells.
func (m *Matrix) NNZ() int {
	n := 0
	for i := range m.Rows {
		n += len(m.Rows[i].Entries)
	}
	return n
}

// Build encodes units into a Matrix. Rows that are empty after exclusion are kept.
func Build(ctx context.Context, units []model.Unit, opts Options) (*Matrix, error) {
	m := &Matrix{Rows: make([]Row, len(units))}

	workers := opts.Workers
	if workers <= 1 || len(units) <= minBlockSize {
		for i := range units {
			m.Rows[i] = encode(&units[i], opts)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return m, nil
	}

	block := max(minBlockSize, (len(units)+workers-1)/workers)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < len(units); start += block {
		end := min(start+block, len(units))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				m.Rows[i] = encode(&units[i], opts)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

func encode(u *model.Unit, opts Options) Row {
	cells := make(map[model.FeatureID]*Entry)
	for _, tok := range u.Tokens {
		feats := tok.FeaturesOf(opts.FeatureType)
		w := opts.ScoreBasis.Weight(len(feats))
		for _, f := range feats {
			if opts.Exclude != nil && opts.Exclude.Contains(f) {
				continue
			}
			e, ok := cells[f]
			if !ok {
				e = &Entry{Feature: f}
				cells[f] = e
			}
			e.Weight += w
			e.Positions = append(e.Positions, tok.Position)
		}
	}

	row := Row{Entries: make([]Entry, 0, len(cells))}
	for _, e := range cells {
		slices.Sort(e.Positions)
		e.Positions = slices.Compact(e.Positions)
		row.Entries = append(row.Entries, *e)
	}
	slices.SortFunc(row.Entries, func(a, b Entry) int {
		return cmp.Compare(a.Feature, b.Feature)
	})
	return row
}
