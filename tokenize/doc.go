// Package tokenize reads texts into model.Text values.
//
// Source files use the .tess layout: one line per verse (or prose line),
// each prefixed by a tag whose last field is the locus:
//
//	<verg. aen. 1.1> Arma virumque cano, Troiae qui primus ab oris
//	<verg. aen. 1.2> Italiam, fato profugus, Laviniaque venit
//
// Read produces both unit granularities. Lines are the tagged lines.
// Phrases end at sentence punctuation (. ; : ? ! · and the CJK full stops),
// may span several lines and take the locus of the line they start on.
//
// A Featurizer turns a fragment of text into words with a normalized form
// and lemma candidates. Latin, Greek, English and Japanese featurizers are
// provided; Latin and Greek take their lemmata from a LemmaTable.
package tokenize
