package tokenize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var jvReplacer = strings.NewReplacer("j", "i", "v", "u")

type latin struct {
	lemmata LemmaTable
}

// Latin returns the Latin featurizer.
//
// Forms are lowercased, stripped of diacritics (macrons, breves) and spelled
// with i for j and u for v.
func Latin(optFns ...Option) Featurizer {
	o := applyOptions(optFns)
	return &latin{lemmata: o.lemmata}
}

func (l *latin) Language() string { return "latin" }

func (l *latin) Featurize(s string) []Word {
	displays := splitWords(s, isLetterOrMark)
	if len(displays) == 0 {
		return nil
	}
	// Transformers keep state, so each call builds its own chain.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Lower(language.Und), norm.NFC)

	out := make([]Word, 0, len(displays))
	for _, display := range displays {
		form, _, err := transform.String(t, display)
		if err != nil {
			form = strings.ToLower(display)
		}
		form = jvReplacer.Replace(form)
		if form == "" {
			continue
		}
		out = append(out, Word{Display: display, Form: form, Lemmata: l.lemmata.Lookup(form)})
	}
	return out
}
