package testutil

import (
	"fmt"
	"strings"

	"github.com/hupe1980/intertext/model"
)

// CorpusOptions shapes a synthetic text.
type CorpusOptions struct {
	Lines      int     // number of lines
	LineLength int     // tokens per line
	Words      int     // size of the word pool
	Skew       float64 // Zipf exponent of word usage
	// Ambiguity is the probability that a token carries a second lemma candidate.
	Ambiguity float64
}

// DefaultCorpusOptions returns a small poem-sized text shape.
func DefaultCorpusOptions() CorpusOptions {
	return CorpusOptions{Lines: 40, LineLength: 7, Words: 120, Skew: 1.1, Ambiguity: 0.2}
}

// Text generates a synthetic text with Zipf-distributed word forms
// ("w017") and lemmata ("l008", two forms per lemma). Phrases are pairs of
// consecutive lines.
func (r *RNG) Text(vocab *model.Vocabulary, id string, opts CorpusOptions) *model.Text {
	text := &model.Text{ID: id, Title: id, Language: "synthetic"}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range opts.Lines {
		u := model.Unit{TextID: id, Index: i, Locus: fmt.Sprintf("%d", i+1)}
		for p := range opts.LineLength {
			w := r.zipfLocked(opts.Words, opts.Skew)
			tok := model.Token{
				Display:  fmt.Sprintf("w%03d", w),
				Position: p,
				Form:     vocab.Intern(model.FeatureForm, fmt.Sprintf("w%03d", w)),
				Lemmata:  []model.FeatureID{vocab.Intern(model.FeatureLemmata, fmt.Sprintf("l%03d", w/2))},
			}
			if r.rand.Float64() < opts.Ambiguity {
				alt := vocab.Intern(model.FeatureLemmata, fmt.Sprintf("l%03d", (w/2+1)%(opts.Words/2+1)))
				if alt != tok.Lemmata[0] {
					tok.Lemmata = append(tok.Lemmata, alt)
				}
			}
			u.Tokens = append(u.Tokens, tok)
		}
		text.Lines = append(text.Lines, u)
	}

	for i := 0; i < len(text.Lines); i += 2 {
		ph := model.Unit{TextID: id, Index: i / 2, Locus: text.Lines[i].Locus}
		for _, line := range text.Lines[i:min(i+2, len(text.Lines))] {
			for _, tok := range line.Tokens {
				tok.Position = len(ph.Tokens)
				ph.Tokens = append(ph.Tokens, tok)
			}
		}
		text.Phrases = append(text.Phrases, ph)
	}
	return text
}

// TextFromLines builds a text from whitespace-separated lines. Forms are
// lowercased tokens; each token's only lemma equals its form. Each line is
// also one phrase.
func TextFromLines(vocab *model.Vocabulary, id string, lines ...string) *model.Text {
	text := &model.Text{ID: id, Title: id}
	for i, line := range lines {
		u := model.Unit{TextID: id, Index: i, Locus: fmt.Sprintf("%d", i+1)}
		for p, word := range strings.Fields(line) {
			norm := strings.ToLower(word)
			u.Tokens = append(u.Tokens, model.Token{
				Display:  word,
				Position: p,
				Form:     vocab.Intern(model.FeatureForm, norm),
				Lemmata:  []model.FeatureID{vocab.Intern(model.FeatureLemmata, norm)},
			})
		}
		text.Lines = append(text.Lines, u)
	}
	text.Phrases = append(text.Phrases, text.Lines...)
	return text
}
