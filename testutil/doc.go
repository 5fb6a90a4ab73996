// Package testutil provides testing utilities for intertext.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG and generators for synthetic texts
// whose word usage follows a Zipf distribution.
//
// # Synthetic Texts
//
//	rng := testutil.NewRNG(seed)
//	vocab := model.NewVocabulary()
//	a := rng.Text(vocab, "a", testutil.DefaultCorpusOptions())
//
// # Literal Texts
//
//	b := testutil.TextFromLines(vocab, "b", "arma virumque cano", "troiae qui primus")
package testutil
