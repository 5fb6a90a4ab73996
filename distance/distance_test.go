package distance

import (
	"math"
	"testing"

	"github.com/hupe1980/intertext/model"
	"github.com/hupe1980/intertext/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func occ(f model.FeatureID, freq float64, positions ...int) Occurrence {
	return Occurrence{Feature: f, Weight: float64(len(positions)), Positions: positions, Frequency: freq}
}

func TestSpan_Distance(t *testing.T) {
	tests := []struct {
		name string
		side Side
		want int
		ok   bool
	}{
		{"Adjacent", Side{occ(1, 0.1, 0), occ(2, 0.1, 1)}, 2, true},
		{"FirstOccurrence", Side{occ(1, 0.1, 3, 9), occ(2, 0.1, 0)}, 4, true},
		{"SamePosition", Side{occ(1, 0.1, 2), occ(2, 0.1, 2)}, 0, false},
		{"Empty", Side{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Span{}.Distance(tt.side)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestFrequency_Distance(t *testing.T) {
	tests := []struct {
		name string
		side Side
		want int
		ok   bool
	}{
		{"TwoRarest", Side{occ(1, 0.1, 5), occ(2, 0.2, 1), occ(3, 0.1, 2)}, 4, true},
		{"SkipsSamePosition", Side{occ(1, 0.1, 4), occ(2, 0.1, 4), occ(3, 0.5, 0)}, 5, true},
		{"RepeatedFeature", Side{occ(1, 0.1, 1, 6), occ(2, 0.9, 2)}, 6, true},
		{"SinglePosition", Side{occ(1, 0.1, 3), occ(2, 0.2, 3)}, 0, false},
		{"ExactlyTwoTokens", Side{occ(1, 0.3, 2), occ(2, 0.4, 7)}, 6, true},
		{"OneToken", Side{occ(1, 0.1, 2)}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Frequency{}.Distance(tt.side)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, d)

			d, ok = Tesserae{}.Distance(tt.side)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestScore(t *testing.T) {
	a := Side{occ(1, 0.25, 0), occ(2, 0.5, 1)}
	b := Side{occ(1, 0.25, 2), occ(2, 0.5, 0)}

	t.Run("Span", func(t *testing.T) {
		assert.InDelta(t, math.Log(8)/5, Span{}.Score(a, b, 2, 3), 1e-12)
		assert.InDelta(t, math.Log(8)/5, Frequency{}.Score(a, b, 2, 3), 1e-12)
	})

	t.Run("Tesserae", func(t *testing.T) {
		assert.InDelta(t, math.Log(12.0/5), Tesserae{}.Score(a, b, 2, 3), 1e-12)
	})

	t.Run("TesseraeClamped", func(t *testing.T) {
		common := Side{occ(1, 1, 0), occ(2, 1, 9)}
		assert.Equal(t, 0.0, Tesserae{}.Score(common, common, 10, 10))
	})

	t.Run("CappedWeight", func(t *testing.T) {
		repeated := Side{occ(1, 0.25, 0, 1, 2), occ(2, 0.5, 3)}
		assert.Equal(t, Span{}.Score(a, b, 2, 3), Span{}.Score(repeated, b, 2, 3))
	})

	t.Run("ZeroFrequency", func(t *testing.T) {
		z := Side{occ(1, 0, 0), occ(2, 0.5, 1)}
		s := Span{}.Score(z, z, 2, 2)
		assert.False(t, math.IsInf(s, 0))
		assert.False(t, math.IsNaN(s))
	})
}

func TestScore_Symmetric(t *testing.T) {
	rng := testutil.NewRNG(7)
	metrics := []Metric{Span{}, Frequency{}, Tesserae{}}

	for range 200 {
		n := 2 + rng.Intn(5)
		a, b := make(Side, n), make(Side, n)
		for i := range n {
			a[i] = Occurrence{Feature: model.FeatureID(i), Weight: rng.Float64() * 2, Positions: []int{i}, Frequency: rng.Float64()}
			b[i] = Occurrence{Feature: model.FeatureID(i), Weight: rng.Float64() * 2, Positions: []int{n - i}, Frequency: rng.Float64()}
		}
		da, db := 1+rng.Intn(10), 1+rng.Intn(10)

		for _, m := range metrics {
			ab := m.Score(a, b, da, db)
			ba := m.Score(b, a, db, da)
			require.Equal(t, ab, ba, m.Name())
			require.GreaterOrEqual(t, ab, 0.0, m.Name())
		}
	}
}

func TestScorer_Evaluate(t *testing.T) {
	a := Side{occ(1, 0.25, 0), occ(2, 0.5, 1)}
	b := Side{occ(1, 0.25, 0), occ(2, 0.5, 7)}

	t.Run("Accept", func(t *testing.T) {
		sc := Scorer{Metric: Span{}, MaxDistance: 10}
		res, ok := sc.Evaluate(a, b)
		require.True(t, ok)
		assert.Equal(t, [2]int{2, 8}, res.Distances)
		assert.InDelta(t, math.Log(8)/10, res.Score, 1e-12)
	})

	t.Run("MaxDistance", func(t *testing.T) {
		sc := Scorer{Metric: Span{}, MaxDistance: 7}
		_, ok := sc.Evaluate(a, b)
		assert.False(t, ok)

		sc.MaxDistance = 8
		_, ok = sc.Evaluate(a, b)
		assert.True(t, ok)
	})

	t.Run("MinScore", func(t *testing.T) {
		score := math.Log(8) / 10
		sc := Scorer{Metric: Span{}, MinScore: score}
		_, ok := sc.Evaluate(a, b)
		assert.True(t, ok)

		sc.MinScore = math.Nextafter(score, math.Inf(1))
		_, ok = sc.Evaluate(a, b)
		assert.False(t, ok)
	})

	t.Run("SinglePosition", func(t *testing.T) {
		sc := Scorer{Metric: Span{}}
		_, ok := sc.Evaluate(Side{occ(1, 0.1, 0), occ(2, 0.1, 0)}, b)
		assert.False(t, ok)
	})

	t.Run("SinglePositionTarget", func(t *testing.T) {
		sc := Scorer{Metric: Span{}}
		_, ok := sc.Evaluate(a, Side{occ(1, 0.1, 4), occ(2, 0.1, 4)})
		assert.False(t, ok)
	})
}

type constMetric struct{}

func (constMetric) Name() string { return "test-constant" }
func (constMetric) Distance(Side) (int, bool) { return 1, true }
func (constMetric) Score(_, _ Side, _, _ int) float64 { return 1 }

func TestRegistry(t *testing.T) {
	for _, name := range []string{"span", "frequency", "tesserae"} {
		m, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.Name())
	}

	_, err := Lookup("cosine")
	assert.ErrorIs(t, err, ErrUnknownMetric)

	err = Register(Span{})
	assert.ErrorIs(t, err, ErrDuplicateMetric)

	if _, err := Lookup("test-constant"); err != nil {
		require.NoError(t, Register(constMetric{}))
	}
	m, err := Lookup("test-constant")
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.Score(nil, nil, 1, 1))
	assert.Contains(t, Names(), "test-constant")
	assert.IsIncreasing(t, Names())
}

func TestSortMatches(t *testing.T) {
	matches := []model.Match{
		{Score: 1, SharedFeatures: []model.FeatureID{1, 2}, Metric: "a"},
		{Score: 3, SharedFeatures: []model.FeatureID{1, 2}, Metric: "b"},
		{Score: 1, SharedFeatures: []model.FeatureID{1, 2, 3}, Metric: "c"},
		{Score: 1, SharedFeatures: []model.FeatureID{4, 5}, Metric: "d"},
	}

	SortMatches(matches)

	got := make([]string, len(matches))
	for i := range matches {
		got[i] = matches[i].Metric
	}
	assert.Equal(t, []string{"b", "c", "a", "d"}, got)
}
