// Package frequency computes per-feature occurrence frequencies over a basis.
//
// A basis is either a single text or a pooled set of texts (the corpus).
// Frequencies are count(feature) / total, where each candidate feature of a
// token contributes the weight given by its model.ScoreBasis. Features that
// never occur in the basis get the smoothed frequency 1/(total+Smoothing).
package frequency

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/hupe1980/intertext/model"
)

// Smoothing is the additive constant used for features absent from a basis.
// Scores depend on it; changing it changes reproducibility of results.
const Smoothing = 1.0

// Basis selects which texts frequencies are computed over.
type Basis string

const (
	// BasisCorpus pools all texts of the search plus any supplied corpus.
	BasisCorpus Basis = "corpus"
	// BasisText uses the two texts of the search only, pooled: counts of
	// both texts are summed, not kept per text or per unit.
	BasisText Basis = "text"
)

// Valid reports whether b is a recognized basis.
func (b Basis) Valid() bool {
	return b == BasisCorpus || b == BasisText
}

// ParseBasis parses a basis name. "texts" is accepted as an alias of "text".
func ParseBasis(s string) (Basis, error) {
	switch s {
	case string(BasisCorpus):
		return BasisCorpus, nil
	case string(BasisText), "texts":
		return BasisText, nil
	default:
		return "", fmt.Errorf("unknown frequency basis %q", s)
	}
}

// Entry is one feature with its count and frequency.
type Entry struct {
	Feature   model.FeatureID
	Count     float64
	Frequency float64
}

// Index maps features to their frequency within a basis.
// An Index is not safe for concurrent writes; reads after construction are safe.
type Index struct {
	ft     model.FeatureType
	sb     model.ScoreBasis
	counts map[model.FeatureID]float64
	total  float64
}

// New creates an empty Index for the given feature type and score basis.
func New(ft model.FeatureType, sb model.ScoreBasis) *Index {
	return &Index{
		ft:     ft,
		sb:     sb,
		counts: make(map[model.FeatureID]float64),
	}
}

// Build creates an Index over all given unit collections.
func Build(ft model.FeatureType, sb model.ScoreBasis, collections ...[]model.Unit) *Index {
	idx := New(ft, sb)
	for _, units := range collections {
		idx.AddUnits(units)
	}
	return idx
}

// AddUnits adds every token of the units to the index.
func (idx *Index) AddUnits(units []model.Unit) {
	for i := range units {
		idx.AddUnit(&units[i])
	}
}

// AddUnit adds every token of the unit to the index.
func (idx *Index) AddUnit(u *model.Unit) {
	for _, tok := range u.Tokens {
		feats := tok.FeaturesOf(idx.ft)
		w := idx.sb.Weight(len(feats))
		for _, f := range feats {
			idx.counts[f] += w
			idx.total += w
		}
	}
}

// Count returns the weighted occurrence count of f.
func (idx *Index) Count(f model.FeatureID) float64 {
	return idx.counts[f]
}

// Total returns the weighted number of feature occurrences.
func (idx *Index) Total() float64 {
	return idx.total
}

// Len returns the number of distinct features.
func (idx *Index) Len() int {
	return len(idx.counts)
}

// Frequency returns the relative frequency of f in (0, 1].
func (idx *Index) Frequency(f model.FeatureID) float64 {
	if idx.total == 0 {
		return 1
	}
	c, ok := idx.counts[f]
	if !ok || c == 0 {
		return 1 / (idx.total + Smoothing)
	}
	return c / idx.total
}

// Ranked returns all features by descending frequency. Ties are broken by
// ascending feature value, then by ascending id, so the order is total.
func (idx *Index) Ranked(value func(model.FeatureID) string) []Entry {
	entries := make([]Entry, 0, len(idx.counts))
	for f, c := range idx.counts {
		entries = append(entries, Entry{Feature: f, Count: c, Frequency: c / idx.total})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if value != nil {
			if c := cmp.Compare(value(a.Feature), value(b.Feature)); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.Feature, b.Feature)
	})
	return entries
}
