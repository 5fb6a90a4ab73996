package stoplist

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/intertext/model"
)

// Set is a set of feature ids backed by a 32-bit roaring bitmap.
// A nil *Set is a valid empty set.
type Set struct {
	rb *roaring.Bitmap
}

// NewSet creates a set holding the given features.
func NewSet(features ...model.FeatureID) *Set {
	s := &Set{rb: roaring.New()}
	for _, f := range features {
		s.rb.Add(uint32(f))
	}
	return s
}

// Add adds a feature to the set.
func (s *Set) Add(f model.FeatureID) {
	s.rb.Add(uint32(f))
}

// Contains reports whether f is in the set.
func (s *Set) Contains(f model.FeatureID) bool {
	if s == nil {
		return false
	}
	return s.rb.Contains(uint32(f))
}

// Len returns the number of features in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return int(s.rb.GetCardinality())
}

// Union adds all features of other to s.
func (s *Set) Union(other *Set) {
	if other == nil {
		return
	}
	s.rb.Or(other.rb)
}

// Features returns the features in ascending id order.
func (s *Set) Features() []model.FeatureID {
	if s == nil {
		return nil
	}
	out := make([]model.FeatureID, 0, s.rb.GetCardinality())
	for f := range s.All() {
		out = append(out, f)
	}
	return out
}

// All returns an iterator over the set in ascending id order.
func (s *Set) All() iter.Seq[model.FeatureID] {
	return func(yield func(model.FeatureID) bool) {
		if s == nil {
			return
		}
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(model.FeatureID(it.Next())) {
				return
			}
		}
	}
}
