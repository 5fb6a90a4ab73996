package sparse

import (
	"context"
	"testing"

	"github.com/hupe1980/intertext/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type excludeSet map[model.FeatureID]bool

func (s excludeSet) Contains(f model.FeatureID) bool { return s[f] }

func formUnit(feats ...model.FeatureID) model.Unit {
	u := model.Unit{}
	for i, f := range feats {
		u.Tokens = append(u.Tokens, model.Token{Position: i, Form: f})
	}
	return u
}

func TestBuild_Form(t *testing.T) {
	units := []model.Unit{formUnit(3, 1, 3, 2)}

	m, err := Build(context.Background(), units, Options{
		FeatureType: model.FeatureForm,
		ScoreBasis:  model.ScoreWord,
	})
	require.NoError(t, err)
	require.Len(t, m.Rows, 1)

	row := &m.Rows[0]
	require.Equal(t, 3, row.Len())
	assert.Equal(t, model.FeatureID(1), row.Entries[0].Feature)
	assert.Equal(t, model.FeatureID(3), row.Entries[2].Feature)

	e, ok := row.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, 2.0, e.Weight)
	assert.Equal(t, []int{0, 2}, e.Positions)

	_, ok = row.Lookup(9)
	assert.False(t, ok)
	assert.Equal(t, 3, m.NNZ())
}

func TestBuild_Stoplist(t *testing.T) {
	units := []model.Unit{formUnit(1, 2), formUnit(1)}

	m, err := Build(context.Background(), units, Options{
		FeatureType: model.FeatureForm,
		ScoreBasis:  model.ScoreWord,
		Exclude:     excludeSet{1: true},
	})
	require.NoError(t, err)
	require.Len(t, m.Rows, 2)
	assert.Equal(t, 1, m.Rows[0].Len())
	// Empty rows are retained.
	assert.Equal(t, 0, m.Rows[1].Len())
}

func TestBuild_AmbiguousLemmata(t *testing.T) {
	units := []model.Unit{{Tokens: []model.Token{
		{Position: 0, Form: 10, Lemmata: []model.FeatureID{1, 2}},
		{Position: 1, Form: 11, Lemmata: []model.FeatureID{2, 3, 4}},
	}}}

	t.Run("Fractional", func(t *testing.T) {
		m, err := Build(context.Background(), units, Options{
			FeatureType: model.FeatureLemmata,
			ScoreBasis:  model.ScoreLemmata,
		})
		require.NoError(t, err)
		row := &m.Rows[0]

		var sum float64
		for _, e := range row.Entries {
			sum += e.Weight
		}
		assert.InDelta(t, 2.0, sum, 1e-12, "each token contributes exactly one")

		e, ok := row.Lookup(2)
		require.True(t, ok)
		assert.InDelta(t, 0.5+1.0/3, e.Weight, 1e-12)
		assert.Equal(t, []int{0, 1}, e.Positions)
	})

	t.Run("Word", func(t *testing.T) {
		m, err := Build(context.Background(), units, Options{
			FeatureType: model.FeatureLemmata,
			ScoreBasis:  model.ScoreWord,
		})
		require.NoError(t, err)
		e, ok := m.Rows[0].Lookup(4)
		require.True(t, ok)
		assert.Equal(t, 1.0, e.Weight)
	})
}

func TestBuild_ParallelMatchesSequential(t *testing.T) {
	units := make([]model.Unit, 2000)
	for i := range units {
		units[i] = formUnit(model.FeatureID(i%17), model.FeatureID(i%5), model.FeatureID(i%17))
	}
	opts := Options{FeatureType: model.FeatureForm, ScoreBasis: model.ScoreWord}

	seq, err := Build(context.Background(), units, opts)
	require.NoError(t, err)

	opts.Workers = 8
	par, err := Build(context.Background(), units, opts)
	require.NoError(t, err)

	assert.Equal(t, seq.Rows, par.Rows)
}

func TestBuild_Canceled(t *testing.T) {
	units := make([]model.Unit, 4096)
	for i := range units {
		units[i] = formUnit(1, 2)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, units, Options{FeatureType: model.FeatureForm, ScoreBasis: model.ScoreWord, Workers: 4})
	assert.ErrorIs(t, err, context.Canceled)
}
