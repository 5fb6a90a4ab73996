package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hupe1980/intertext"
	"github.com/hupe1980/intertext/distance"
	"github.com/hupe1980/intertext/model"
)

// Document is a match set prepared for export.
type Document struct {
	Set   *model.MatchSet
	Vocab *model.Vocabulary
	// Texts are optional. When the texts of the set are present, rows
	// carry unit snippets with matched words marked as *word*.
	Texts map[string]*model.Text
}

// Texts indexes texts by id.
func Texts(texts ...*model.Text) map[string]*model.Text {
	m := make(map[string]*model.Text, len(texts))
	for _, t := range texts {
		if t != nil {
			m[t.ID] = t
		}
	}
	return m
}

// Row is one exported match.
type Row struct {
	Rank       int
	Source     model.UnitRef
	Target     model.UnitRef
	SourceText string
	TargetText string
	Shared     []string
	Score      float64
	RawScore   float64
	Distances  [2]int
}

// Params returns the search parameters recorded in the set.
func (d *Document) Params() intertext.Params {
	switch p := d.Set.Params.(type) {
	case intertext.Params:
		return p
	case *intertext.Params:
		if p != nil {
			return *p
		}
	}
	return intertext.DefaultParams()
}

// Rows returns the matches by descending score.
func (d *Document) Rows() []Row {
	matches := make([]model.Match, len(d.Set.Matches))
	for i, m := range d.Set.Matches {
		matches[i] = *m
	}
	distance.SortMatches(matches)
	norm := intertext.Normalize(matches)
	params := d.Params()

	rows := make([]Row, len(matches))
	for i := range matches {
		m := &matches[i]
		shared := make(map[model.FeatureID]struct{}, len(m.SharedFeatures))
		for _, f := range m.SharedFeatures {
			shared[f] = struct{}{}
		}
		rows[i] = Row{
			Rank:       i + 1,
			Source:     m.Source(),
			Target:     m.Target(),
			SourceText: d.snippet(m.Source(), params, shared),
			TargetText: d.snippet(m.Target(), params, shared),
			Shared:     d.words(m.SharedFeatures),
			Score:      norm[i],
			RawScore:   m.Score,
			Distances:  m.Distances,
		}
	}
	return rows
}

// Stopwords returns the stoplist as feature values.
func (d *Document) Stopwords() []string {
	return d.words(d.Set.Stoplist)
}

// Cutoff is the floor of the lowest exported score.
func (d *Document) Cutoff() int {
	if len(d.Set.Matches) == 0 {
		return 0
	}
	lowest := math.Inf(1)
	for _, m := range d.Set.Matches {
		lowest = min(lowest, m.Score)
	}
	return int(math.Floor(lowest))
}

func (d *Document) words(ids []model.FeatureID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		if d.Vocab != nil && int(id) < d.Vocab.Len() {
			out[i] = d.Vocab.Value(id)
			continue
		}
		out[i] = strconv.FormatUint(uint64(id), 10)
	}
	return out
}

func (d *Document) snippet(ref model.UnitRef, params intertext.Params, shared map[model.FeatureID]struct{}) string {
	text, ok := d.Texts[ref.TextID]
	if !ok {
		return ""
	}
	units := text.Units(params.UnitType)
	if ref.Index < 0 || ref.Index >= len(units) {
		return ""
	}

	var sb strings.Builder
	for i, tok := range units[ref.Index].Tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if matched(tok, params.FeatureType, shared) {
			fmt.Fprintf(&sb, "*%s*", tok.Display)
			continue
		}
		sb.WriteString(tok.Display)
	}
	return sb.String()
}

func matched(tok model.Token, ft model.FeatureType, shared map[model.FeatureID]struct{}) bool {
	for _, f := range tok.FeaturesOf(ft) {
		if _, ok := shared[f]; ok {
			return true
		}
	}
	return false
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
