package tokenize

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

type englishFeaturizer struct{}

// English returns the English featurizer. The Snowball stem of a form
// stands in for its lemma.
func English() Featurizer { return englishFeaturizer{} }

func (englishFeaturizer) Language() string { return "english" }

func (englishFeaturizer) Featurize(s string) []Word {
	displays := splitWords(s, unicode.IsLetter)
	out := make([]Word, 0, len(displays))
	for _, display := range displays {
		form := strings.ToLower(display)
		out = append(out, Word{
			Display: display,
			Form:    form,
			Lemmata: []string{english.Stem(form, false)},
		})
	}
	return out
}
