package tokenize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	grave = '\u0300'
	acute = '\u0301'
)

type greek struct {
	lemmata LemmaTable
}

// Greek returns the Ancient Greek featurizer.
//
// Forms are lowercased, grave accents become acute and a word-final sigma
// is written ς. Other diacritics are kept.
func Greek(optFns ...Option) Featurizer {
	o := applyOptions(optFns)
	return &greek{lemmata: o.lemmata}
}

func (g *greek) Language() string { return "greek" }

func (g *greek) Featurize(s string) []Word {
	displays := splitWords(s, isLetterOrMark)
	if len(displays) == 0 {
		return nil
	}
	t := transform.Chain(norm.NFD, cases.Lower(language.Greek), runes.Map(func(r rune) rune {
		if r == grave {
			return acute
		}
		return r
	}), norm.NFC)

	out := make([]Word, 0, len(displays))
	for _, display := range displays {
		form, _, err := transform.String(t, display)
		if err != nil {
			form = strings.ToLower(display)
		}
		if strings.HasSuffix(form, "\u03c3") {
			form = strings.TrimSuffix(form, "\u03c3") + "\u03c2"
		}
		out = append(out, Word{Display: display, Form: form, Lemmata: g.lemmata.Lookup(form)})
	}
	return out
}
