package tokenize

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hupe1980/intertext/blobstore"
	"github.com/hupe1980/intertext/model"
)

// Ext is the file extension of .tess sources.
const Ext = ".tess"

const maxLineBytes = 1 << 20

// isPhraseEnd reports whether r closes a phrase.
func isPhraseEnd(r rune) bool {
	switch r {
	case '.', ';', ':', '?', '!', '\u00b7', '\u0387', '\u037e', '\u3002', '\uff01', '\uff1f':
		return true
	}
	return false
}

// ReadFile reads a .tess file. The text id is the file name without extension.
func ReadFile(name string, vocab *model.Vocabulary, f Featurizer) (*model.Text, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return Read(file, TextID(filepath.Base(name)), vocab, f)
}

// ReadBlob reads a .tess source from a blob store.
func ReadBlob(ctx context.Context, store blobstore.BlobStore, name string, vocab *model.Vocabulary, f Featurizer) (*model.Text, error) {
	rc, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("tokenize: open %s: %w", name, err)
	}
	defer func() { _ = rc.Close() }()
	return Read(rc, TextID(path.Base(name)), vocab, f)
}

// TextID derives a text id from a file name: "vergil.aeneid.tess" -> "vergil.aeneid".
func TextID(name string) string {
	return strings.TrimSuffix(name, Ext)
}

// Read reads .tess lines from r. Features are interned into vocab.
func Read(r io.Reader, id string, vocab *model.Vocabulary, f Featurizer) (*model.Text, error) {
	text := &model.Text{ID: id, Language: f.Language()}
	text.Author, text.Title = splitName(id)

	b := &builder{text: text, vocab: vocab, f: f}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	n := 0
	for sc.Scan() {
		n++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		locus, body := parseLine(raw, n)
		b.line(locus, body)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("tokenize: read %s line %d: %w", id, n+1, err)
	}
	b.flushPhrase()
	return text, nil
}

// parseLine splits "<tag locus> body". Untagged lines use their line number as locus.
func parseLine(raw string, n int) (locus, body string) {
	if strings.HasPrefix(raw, "<") {
		if end := strings.IndexByte(raw, '>'); end > 0 {
			fields := strings.Fields(raw[1:end])
			if len(fields) > 0 {
				return fields[len(fields)-1], strings.TrimSpace(raw[end+1:])
			}
			return strconv.Itoa(n), strings.TrimSpace(raw[end+1:])
		}
	}
	return strconv.Itoa(n), raw
}

// splitName splits "author.title" ids.
func splitName(id string) (author, title string) {
	if i := strings.IndexByte(id, '.'); i > 0 {
		return id[:i], id[i+1:]
	}
	return "", id
}

type fragment struct {
	text string
	end  bool
}

// splitPhrases cuts s after each phrase-ending rune.
func splitPhrases(s string) []fragment {
	var out []fragment
	start := 0
	for i, r := range s {
		if isPhraseEnd(r) {
			out = append(out, fragment{text: s[start:i], end: true})
			start = i + len(string(r))
		}
	}
	if start < len(s) {
		out = append(out, fragment{text: s[start:]})
	}
	return out
}

type builder struct {
	text  *model.Text
	vocab *model.Vocabulary
	f     Featurizer

	phrase      []model.Token
	phraseLocus string
}

func (b *builder) token(w Word) model.Token {
	tok := model.Token{
		Display: w.Display,
		Form:    b.vocab.Intern(model.FeatureForm, w.Form),
	}
	if len(w.Lemmata) == 0 {
		tok.Lemmata = []model.FeatureID{b.vocab.Intern(model.FeatureLemmata, w.Form)}
		return tok
	}
	tok.Lemmata = make([]model.FeatureID, len(w.Lemmata))
	for i, l := range w.Lemmata {
		tok.Lemmata[i] = b.vocab.Intern(model.FeatureLemmata, l)
	}
	return tok
}

func (b *builder) line(locus, body string) {
	var tokens []model.Token
	for _, frag := range splitPhrases(body) {
		for _, w := range b.f.Featurize(frag.text) {
			tok := b.token(w)
			tok.Position = len(tokens)
			tokens = append(tokens, tok)

			if len(b.phrase) == 0 {
				b.phraseLocus = locus
			}
			tok.Position = len(b.phrase)
			b.phrase = append(b.phrase, tok)
		}
		if frag.end {
			b.flushPhrase()
		}
	}
	if len(tokens) == 0 {
		return
	}
	b.text.Lines = append(b.text.Lines, model.Unit{
		TextID: b.text.ID,
		Index:  len(b.text.Lines),
		Locus:  locus,
		Tokens: tokens,
	})
}

func (b *builder) flushPhrase() {
	if len(b.phrase) == 0 {
		return
	}
	b.text.Phrases = append(b.text.Phrases, model.Unit{
		TextID: b.text.ID,
		Index:  len(b.text.Phrases),
		Locus:  b.phraseLocus,
		Tokens: b.phrase,
	})
	b.phrase = nil
}
