package tokenize

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// Word is a token as seen by a Featurizer.
type Word struct {
	// Display is the token as written.
	Display string
	// Form is the normalized form.
	Form string
	// Lemmata are the lemma candidates. Empty means the form is its own lemma.
	Lemmata []string
}

// Featurizer splits a fragment of text into words.
// Implementations must be safe for concurrent use.
type Featurizer interface {
	// Language returns the language name stored on texts.
	Language() string
	// Featurize returns the words of s in order.
	Featurize(s string) []Word
}

// LemmaTable maps normalized forms to lemma candidates.
type LemmaTable map[string][]string

// Lookup returns the lemma candidates of form, or nil.
func (t LemmaTable) Lookup(form string) []string {
	if t == nil {
		return nil
	}
	return t[form]
}

// Add appends a lemma candidate, ignoring duplicates.
func (t LemmaTable) Add(form, lemma string) {
	for _, l := range t[form] {
		if l == lemma {
			return
		}
	}
	t[form] = append(t[form], lemma)
}

// LoadLemmaTable reads a lemma table in CSV form: form,lemma[,lemma...].
// Repeated forms accumulate candidates. Lines starting with # are skipped.
func LoadLemmaTable(r io.Reader) (LemmaTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	table := make(LemmaTable)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return table, nil
		}
		if err != nil {
			return nil, fmt.Errorf("tokenize: lemma table: %w", err)
		}
		if len(rec) < 2 {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("tokenize: lemma table line %d: want form and at least one lemma", line)
		}
		form := strings.TrimSpace(rec[0])
		for _, l := range rec[1:] {
			if l = strings.TrimSpace(l); l != "" {
				table.Add(form, l)
			}
		}
	}
}

// LoadLemmaTableFile reads a lemma table from a file.
func LoadLemmaTableFile(path string) (LemmaTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return LoadLemmaTable(f)
}

type options struct {
	lemmata LemmaTable
}

// Option configures a Featurizer.
type Option func(*options)

// WithLemmata sets the lemma table of a Latin or Greek featurizer.
// Forms must be keyed in their normalized spelling.
func WithLemmata(t LemmaTable) Option {
	return func(o *options) { o.lemmata = t }
}

func applyOptions(optFns []Option) options {
	var o options
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// ForLanguage returns the featurizer for a language name or ISO code.
func ForLanguage(name string, optFns ...Option) (Featurizer, error) {
	switch strings.ToLower(name) {
	case "latin", "la", "lat":
		return Latin(optFns...), nil
	case "greek", "grc", "el":
		return Greek(optFns...), nil
	case "english", "en", "eng":
		return English(), nil
	case "japanese", "ja", "jpn":
		return Japanese()
	default:
		return nil, fmt.Errorf("tokenize: unsupported language %q", name)
	}
}

// splitWords returns the maximal runs of runes accepted by isWord.
func splitWords(s string, isWord func(rune) bool) []string {
	var words []string
	start := -1
	for i, r := range s {
		if isWord(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, s[start:])
	}
	return words
}

func isLetterOrMark(r rune) bool {
	return unicode.IsLetter(r) || unicode.Is(unicode.Mn, r)
}
