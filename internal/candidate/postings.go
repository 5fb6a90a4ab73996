package candidate

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/intertext/internal/sparse"
	"github.com/hupe1980/intertext/model"
)

// Postings is an inverted index from feature to the rows containing it.
// Row indices are arena indices into the matrix the index was built from.
type Postings struct {
	lists map[model.FeatureID]*roaring.Bitmap
}

// NewPostings indexes every row of m.
func NewPostings(m *sparse.Matrix) *Postings {
	p := &Postings{lists: make(map[model.FeatureID]*roaring.Bitmap)}
	for i := range m.Rows {
		for _, e := range m.Rows[i].Entries {
			rb, ok := p.lists[e.Feature]
			if !ok {
				rb = roaring.New()
				p.lists[e.Feature] = rb
			}
			rb.Add(uint32(i))
		}
	}
	for _, rb := range p.lists {
		rb.RunOptimize()
	}
	return p
}

// Get returns the rows containing f, or nil.
func (p *Postings) Get(f model.FeatureID) *roaring.Bitmap {
	return p.lists[f]
}

// Len returns the number of indexed features.
func (p *Postings) Len() int {
	return len(p.lists)
}

// Size returns the total posting-list length.
func (p *Postings) Size() uint64 {
	var n uint64
	for _, rb := range p.lists {
		n += rb.GetCardinality()
	}
	return n
}

// Common returns the features indexed by both p and other, ascending.
func (p *Postings) Common(other *Postings) []model.FeatureID {
	small, large := p, other
	if len(small.lists) > len(large.lists) {
		small, large = large, small
	}
	out := make([]model.FeatureID, 0, len(small.lists))
	for f := range small.lists {
		if _, ok := large.lists[f]; ok {
			out = append(out, f)
		}
	}
	slices.Sort(out)
	return out
}
