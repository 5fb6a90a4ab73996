// Package intertext detects intertextual parallels between two texts.
//
// Given two texts whose units (lines or phrases) are reduced to features
// (word forms or lemmata), intertext finds unit pairs that share at least two
// low-frequency features and scores them. Typical uses are the detection of
// quotations, allusions and borrowings in Latin and Greek poetry.
//
// # Quick Start
//
//	vocab := model.NewVocabulary()
//	aen, _ := tokenize.ReadFile("vergil.aeneid.tess", vocab, tokenize.Latin())
//	phar, _ := tokenize.ReadFile("lucan.pharsalia.tess", vocab, tokenize.Latin())
//
//	s := intertext.New(intertext.WithLogLevel(slog.LevelInfo))
//	matches, set, err := s.Search(ctx, aen, phar, vocab, intertext.DefaultParams())
//	distance.SortMatches(matches)
//
// # Pipeline
//
// Each search runs the same stages, all recomputed per call:
//
//   - frequency: per-feature frequencies over the text or corpus basis
//   - stoplist: the N most frequent features are excluded
//   - matrix: every unit becomes a sparse row of (feature, weight, positions)
//   - candidate: posting-list intersection yields pairs sharing >= 2 features
//   - score: a distance.Metric scores each pair; max_distance and min_score filter
//
// The candidate and matrix stages are sharded across WithNumShards workers.
// Results never depend on the shard count.
//
// # Parameters
//
// Params mirror the options of the command line tool and can be loaded from
// YAML with LoadParams:
//
//	unit_type: line
//	feature_type: lemmata
//	stopwords: 10
//	stopword_basis: corpus
//	score_basis: word
//	frequency_basis: corpus
//	distance_metric: span
//	max_distance: 10
//	min_score: 0
//
// # Errors
//
// Invalid parameters yield a *ConfigurationError (errors.Is(err,
// ErrConfiguration)). A text without units of the requested type yields an
// *InsufficientDataError (errors.Is(err, ErrInsufficientData)); an empty
// text is never silently treated as "no matches".
package intertext
