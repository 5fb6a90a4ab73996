package tokenize

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// IPA feature layout: 0 part of speech, 6 base form.
const (
	ipaPOS      = 0
	ipaBaseForm = 6
	posSymbol   = "記号"
)

type japanese struct {
	t *tokenizer.Tokenizer
}

// Japanese returns the Japanese featurizer. Words are segmented with the
// IPA dictionary; the dictionary base form is the lemma.
func Japanese() (Featurizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &japanese{t: t}, nil
}

func (j *japanese) Language() string { return "japanese" }

func (j *japanese) Featurize(s string) []Word {
	var out []Word
	for _, tok := range j.t.Tokenize(s) {
		if tok.Class == tokenizer.DUMMY || strings.TrimSpace(tok.Surface) == "" {
			continue
		}
		features := tok.Features()
		if len(features) > ipaPOS && features[ipaPOS] == posSymbol {
			continue
		}
		w := Word{Display: tok.Surface, Form: tok.Surface}
		if len(features) > ipaBaseForm && features[ipaBaseForm] != "*" {
			w.Lemmata = []string{features[ipaBaseForm]}
		}
		out = append(out, w)
	}
	return out
}
