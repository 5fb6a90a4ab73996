package store

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/hupe1980/intertext"
	"github.com/hupe1980/intertext/codec"
	"github.com/hupe1980/intertext/jobs"
	"github.com/hupe1980/intertext/model"
	"github.com/hupe1980/intertext/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "intertext.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func search(t *testing.T) (*model.MatchSet, *model.Vocabulary) {
	t.Helper()
	vocab := model.NewVocabulary()
	source := testutil.TextFromLines(vocab, "a", "arma virumque cano", "troiae qui primus ab oris")
	target := testutil.TextFromLines(vocab, "b", "cano arma virum", "qui primus venit")

	params := intertext.DefaultParams()
	params.FeatureType = model.FeatureForm
	params.Stopwords = 1

	_, ms, err := intertext.New().Search(context.Background(), source, target, vocab, params)
	require.NoError(t, err)
	require.NotEmpty(t, ms.Matches)
	return ms, vocab
}

func values(vocab *model.Vocabulary, ids []model.FeatureID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = vocab.Value(id)
	}
	return out
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()

	for _, c := range []codec.Codec{codec.GoJSON{}, codec.JSON{}, codec.YAML{}} {
		t.Run(c.Name(), func(t *testing.T) {
			s := openTestStore(t, WithCodec(c))
			ms, vocab := search(t)
			require.NoError(t, s.Save(ctx, ms, vocab))

			got, gotVocab, err := s.Load(ctx, ms.ID, nil)
			require.NoError(t, err)

			assert.Equal(t, ms.ID, got.ID)
			assert.Equal(t, ms.Texts, got.Texts)
			assert.Equal(t, ms.Params, got.Params)
			assert.True(t, ms.CreatedAt.Equal(got.CreatedAt))
			assert.Equal(t, values(vocab, ms.Stoplist), values(gotVocab, got.Stoplist))

			require.Len(t, got.Matches, len(ms.Matches))
			for i := range ms.Matches {
				want, have := ms.Matches[i], got.Matches[i]
				assert.Equal(t, want.Units, have.Units)
				assert.Equal(t, want.Score, have.Score)
				assert.Equal(t, want.Metric, have.Metric)
				assert.Equal(t, want.Distances, have.Distances)
				assert.Equal(t, values(vocab, want.SharedFeatures), values(gotVocab, have.SharedFeatures))
			}
		})
	}
}

func TestLoadIntoVocabulary(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	ms, vocab := search(t)
	require.NoError(t, s.Save(ctx, ms, vocab))

	got, gotVocab, err := s.Load(ctx, ms.ID, vocab)
	require.NoError(t, err)
	assert.Same(t, vocab, gotVocab)
	assert.Equal(t, ms.Matches[0].SharedFeatures, got.Matches[0].SharedFeatures)
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	ms, vocab := search(t)
	require.NoError(t, s.Save(ctx, ms, vocab))

	ms.Matches = ms.Matches[:1]
	require.NoError(t, s.Save(ctx, ms, vocab))

	got, _, err := s.Load(ctx, ms.ID, nil)
	require.NoError(t, err)
	assert.Len(t, got.Matches, 1)
}

func TestSaveErrors(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	ms, vocab := search(t)

	t.Run("NoID", func(t *testing.T) {
		assert.Error(t, s.Save(ctx, &model.MatchSet{}, vocab))
	})
	t.Run("NilVocabulary", func(t *testing.T) {
		assert.Error(t, s.Save(ctx, ms, nil))
	})
	t.Run("ForeignVocabulary", func(t *testing.T) {
		assert.Error(t, s.Save(ctx, ms, model.NewVocabulary()))
	})
	t.Run("UnsupportedParams", func(t *testing.T) {
		bad := *ms
		bad.Params = "line"
		assert.Error(t, s.Save(ctx, &bad, vocab))
	})
}

func TestListDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first, vocab := search(t)
	first.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	second, vocab2 := search(t)
	second.CreatedAt = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx, first, vocab))
	require.NoError(t, s.Save(ctx, second, vocab2))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, len(first.Matches), list[1].Matches)
	assert.Equal(t, [2]string{"a", "b"}, list[1].Texts)

	require.NoError(t, s.Delete(ctx, first.ID))
	assert.ErrorIs(t, s.Delete(ctx, first.ID), ErrNotFound)

	_, _, err = s.Load(ctx, first.ID, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	var n int
	require.NoError(t, s.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE search_id = ?`, first.ID).Scan(&n))
	assert.Zero(t, n)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Status(ctx, "job-1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetStatus(ctx, "job-1", jobs.StatusQueued, ""))
	require.NoError(t, s.SetStatus(ctx, "job-1", jobs.StatusFailed, "boom"))

	state, err := s.Status(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", state.ID)
	assert.Equal(t, jobs.StatusFailed, state.Status)
	assert.Equal(t, "boom", state.Message)
	assert.False(t, state.UpdatedAt.IsZero())
}

func TestQueueStatusSink(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	vocab := model.NewVocabulary()
	params := intertext.DefaultParams()
	params.FeatureType = model.FeatureForm
	params.Stopwords = 0

	q := jobs.NewQueue(intertext.New(),
		jobs.WithWorkers(1),
		jobs.WithStatusSink(s),
		jobs.WithResultHandler(func(ctx context.Context, r jobs.Result) error {
			r.Set.ID = r.ID
			return s.Save(ctx, r.Set, r.Request.Vocab)
		}),
	)
	q.Start(ctx)

	id, err := q.Submit(ctx, jobs.Request{
		ID:     "job-2",
		Source: testutil.TextFromLines(vocab, "a", "arma virumque cano"),
		Target: testutil.TextFromLines(vocab, "b", "cano arma virum"),
		Vocab:  vocab,
		Params: params,
	})
	require.NoError(t, err)
	_, err = q.Wait(ctx, id)
	require.NoError(t, err)
	require.NoError(t, q.Close())

	state, err := s.Status(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusDone, state.Status)

	got, _, err := s.Load(ctx, id, nil)
	require.NoError(t, err)
	assert.Len(t, got.Matches, 1)
}

func rankedSet(t *testing.T, n int) (*model.MatchSet, *model.Vocabulary) {
	t.Helper()
	vocab := model.NewVocabulary()
	arma := vocab.Intern(model.FeatureForm, "arma")
	ms := &model.MatchSet{
		ID:        "ranked",
		Texts:     [2]string{"a", "b"},
		Params:    intertext.DefaultParams(),
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for i := 0; i < n; i++ {
		ms.Matches = append(ms.Matches, &model.Match{
			Units: [2]model.UnitRef{
				{TextID: "a", Index: i, Locus: fmt.Sprintf("a.%d", i)},
				{TextID: "b", Index: n - 1 - i, Locus: fmt.Sprintf("b.%d", n-1-i)},
			},
			SharedFeatures: []model.FeatureID{arma},
			// ordinal i scores i, with a tie between the last two
			Score:     float64(min(i, n-2)),
			Metric:    "freq",
			Distances: [2]int{1, 1},
		})
	}
	return ms, vocab
}

func loci(ms []*model.Match, side int) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Units[side].Locus
	}
	return out
}

func TestResults(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	ms, vocab := rankedSet(t, 5)
	require.NoError(t, s.Save(ctx, ms, vocab))

	n, err := s.Count(ctx, ms.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	tests := []struct {
		name string
		page Page
		want []string
	}{
		// scores 0 1 2 3 3; ties keep the saved order
		{"FirstPage", Page{PerPage: 2}, []string{"a.3", "a.4"}},
		{"SecondPage", Page{PerPage: 2, Number: 1}, []string{"a.2", "a.1"}},
		{"LastPartialPage", Page{PerPage: 2, Number: 2}, []string{"a.0"}},
		{"PastEnd", Page{PerPage: 2, Number: 3}, []string{}},
		{"ExactFit", Page{PerPage: 5}, []string{"a.3", "a.4", "a.2", "a.1", "a.0"}},
		{"DefaultPerPage", Page{}, []string{"a.3", "a.4", "a.2", "a.1", "a.0"}},
		{"ScoreAscending", Page{SortBy: "score", PerPage: 3}, []string{"a.0", "a.1", "a.2"}},
		{"BySource", Page{SortBy: "source", PerPage: 2, Number: 1}, []string{"a.2", "a.3"}},
		{"ByTargetDescending", Page{SortBy: "target", Descending: true, PerPage: 2}, []string{"a.0", "a.1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Results(ctx, ms.ID, nil, tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.want, loci(got, 0))
			for _, m := range got {
				assert.Equal(t, "b", m.Units[1].TextID)
				assert.Len(t, m.SharedFeatures, 1)
			}
		})
	}
}

func TestResultsErrors(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	ms, vocab := rankedSet(t, 3)
	require.NoError(t, s.Save(ctx, ms, vocab))

	t.Run("UnknownSet", func(t *testing.T) {
		_, err := s.Results(ctx, "missing", nil, Page{})
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.Count(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("UnknownSortKey", func(t *testing.T) {
		_, err := s.Results(ctx, ms.ID, nil, Page{SortBy: "metric"})
		assert.Error(t, err)
	})
	t.Run("NegativePage", func(t *testing.T) {
		_, err := s.Results(ctx, ms.ID, nil, Page{Number: -1})
		assert.Error(t, err)
	})
}

func TestLoadSortsInternedFeatures(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	vocab := model.NewVocabulary()
	z := vocab.Intern(model.FeatureForm, "z")
	y := vocab.Intern(model.FeatureForm, "y")
	x := vocab.Intern(model.FeatureForm, "x")
	ms := &model.MatchSet{
		ID:        "sorted",
		Texts:     [2]string{"a", "b"},
		Params:    intertext.DefaultParams(),
		Stoplist:  []model.FeatureID{z, y},
		CreatedAt: time.Now(),
		Matches: []*model.Match{
			{SharedFeatures: []model.FeatureID{z, y}, Score: 2},
			{SharedFeatures: []model.FeatureID{y, x}, Score: 1},
		},
	}
	require.NoError(t, s.Save(ctx, ms, vocab))

	// a fresh vocabulary interns x before z, reversing the saved id order
	fresh := model.NewVocabulary()
	fresh.Intern(model.FeatureForm, "x")

	got, _, err := s.Load(ctx, ms.ID, fresh)
	require.NoError(t, err)
	assert.True(t, slices.IsSorted(got.Stoplist))
	for _, m := range got.Matches {
		assert.True(t, slices.IsSorted(m.SharedFeatures))
	}

	page, err := s.Results(ctx, ms.ID, fresh, Page{})
	require.NoError(t, err)
	for _, m := range page {
		assert.True(t, slices.IsSorted(m.SharedFeatures))
	}
}

func TestCorruptTimestamps(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	ms, vocab := rankedSet(t, 2)
	require.NoError(t, s.Save(ctx, ms, vocab))
	require.NoError(t, s.SetStatus(ctx, ms.ID, jobs.StatusDone, ""))

	_, err := s.DB().ExecContext(ctx, `UPDATE searches SET created_at = 'bad'`)
	require.NoError(t, err)
	_, err = s.DB().ExecContext(ctx, `UPDATE search_status SET updated_at = 'bad'`)
	require.NoError(t, err)

	t.Run("Load", func(t *testing.T) {
		_, _, err := s.Load(ctx, ms.ID, nil)
		assert.ErrorContains(t, err, "parse time")
	})
	t.Run("Results", func(t *testing.T) {
		_, err := s.Results(ctx, ms.ID, nil, Page{})
		assert.ErrorContains(t, err, "parse time")
	})
	t.Run("List", func(t *testing.T) {
		_, err := s.List(ctx)
		assert.ErrorContains(t, err, "parse time")
	})
	t.Run("Status", func(t *testing.T) {
		_, err := s.Status(ctx, ms.ID)
		assert.ErrorContains(t, err, "parse time")
	})
}
