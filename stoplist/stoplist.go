// Package stoplist selects the most frequent features to exclude from matching.
//
// A stoplist is built from a frequency.Index by taking its n highest ranked
// features. Ranking is by descending frequency with ties broken by ascending
// feature value, so the same basis always yields the same stoplist:
//
//	idx := frequency.Build(model.FeatureForm, model.ScoreWord, src.Lines, tgt.Lines)
//	stops, err := stoplist.Build(idx, vocab, 10)
//
// Explicit word lists can be merged in with FromWords or loaded from YAML
// files with LoadFile.
package stoplist

import (
	"errors"
	"fmt"

	"github.com/hupe1980/intertext/frequency"
	"github.com/hupe1980/intertext/model"
)

// ErrNegativeCount is returned when a negative stopword count is requested.
var ErrNegativeCount = errors.New("stopword count must not be negative")

// Build returns the n most frequent features of idx.
// n = 0 yields an empty set.
func Build(idx *frequency.Index, vocab *model.Vocabulary, n int) (*Set, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCount, n)
	}

	s := NewSet()
	if n == 0 {
		return s, nil
	}

	var value func(model.FeatureID) string
	if vocab != nil {
		value = vocab.Value
	}

	for i, e := range idx.Ranked(value) {
		if i == n {
			break
		}
		s.Add(e.Feature)
	}
	return s, nil
}

// FromWords returns the set of known features of type ft among words.
// Words unknown to the vocabulary cannot occur in any text and are skipped.
//
// For FeatureLemmata the form ids of the words are added too: tokens
// without lemmata match on their form (model.Token.FeaturesOf).
func FromWords(vocab *model.Vocabulary, ft model.FeatureType, words []string) *Set {
	s := NewSet()
	for _, w := range words {
		if id, ok := vocab.ID(ft, w); ok {
			s.Add(id)
		}
		if ft != model.FeatureLemmata {
			continue
		}
		if id, ok := vocab.ID(model.FeatureForm, w); ok {
			s.Add(id)
		}
	}
	return s
}
