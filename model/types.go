package model

import (
	"fmt"
	"time"
)

// FeatureID is a dense identifier for a feature within a Vocabulary.
// It is strictly 32-bit so it can live in roaring bitmaps.
type FeatureID uint32

// FeatureType selects which linguistic key of a token is matched on.
type FeatureType string

const (
	// FeatureForm is the normalized surface form of a token.
	FeatureForm FeatureType = "form"
	// FeatureLemmata is the set of lemma candidates of a token.
	FeatureLemmata FeatureType = "lemmata"
)

// Valid reports whether ft is a recognized feature type.
func (ft FeatureType) Valid() bool {
	return ft == FeatureForm || ft == FeatureLemmata
}

// UnitType selects the comparison granularity.
type UnitType string

const (
	// UnitLine matches verse lines (or prose lines as tagged in the source).
	UnitLine UnitType = "line"
	// UnitPhrase matches punctuation-delimited phrases.
	UnitPhrase UnitType = "phrase"
)

// Valid reports whether ut is a recognized unit type.
func (ut UnitType) Valid() bool {
	return ut == UnitLine || ut == UnitPhrase
}

// Feature is a normalized linguistic key.
type Feature struct {
	ID    FeatureID   `json:"id"`
	Type  FeatureType `json:"type"`
	Value string      `json:"value"`
}

// String returns a string representation of the Feature.
func (f Feature) String() string {
	return fmt.Sprintf("%s:%s", f.Type, f.Value)
}

// Token is one occurrence of a word inside a Unit.
type Token struct {
	// Display is the token as it appears in the text.
	Display string `json:"display"`
	// Position is the index of the token within its Unit.
	Position int `json:"position"`
	// Form is the normalized form feature.
	Form FeatureID `json:"form"`
	// Lemmata are the lemma candidates. Ambiguous lemmatization yields more than one.
	Lemmata []FeatureID `json:"lemmata,omitempty"`
}

// FeaturesOf returns the candidate features of the token for the given type.
// A token without lemmata falls back to its form.
func (t Token) FeaturesOf(ft FeatureType) []FeatureID {
	if ft == FeatureLemmata && len(t.Lemmata) > 0 {
		return t.Lemmata
	}
	return []FeatureID{t.Form}
}

// Unit is a contiguous span of a Text.
type Unit struct {
	TextID string  `json:"text_id"`
	Index  int     `json:"index"`
	Locus  string  `json:"locus"`
	Tokens []Token `json:"tokens"`
}

// Ref returns the address of the unit.
func (u Unit) Ref() UnitRef {
	return UnitRef{TextID: u.TextID, Index: u.Index, Locus: u.Locus}
}

// UnitRef identifies a Unit inside a Text.
type UnitRef struct {
	TextID string `json:"text_id"`
	Index  int    `json:"index"`
	Locus  string `json:"locus"`
}

// String returns a string representation of the UnitRef.
func (r UnitRef) String() string {
	return fmt.Sprintf("%s@%s", r.TextID, r.Locus)
}

// Text is a work split into lines and phrases.
type Text struct {
	ID       string `json:"id"`
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Language string `json:"language,omitempty"`
	Lines    []Unit `json:"lines"`
	Phrases  []Unit `json:"phrases"`
}

// Units returns the units of the requested granularity.
func (t *Text) Units(ut UnitType) []Unit {
	if ut == UnitPhrase {
		return t.Phrases
	}
	return t.Lines
}

// Match is one scored unit pair.
//
// Units[0] belongs to the source text of the search, Units[1] to the target.
type Match struct {
	Units          [2]UnitRef  `json:"units"`
	SharedFeatures []FeatureID `json:"shared_features"`
	Score          float64     `json:"score"`
	Metric         string      `json:"metric"`
	Distances      [2]int      `json:"distances"`
}

// Source returns the unit of the source text.
func (m *Match) Source() UnitRef { return m.Units[0] }

// Target returns the unit of the target text.
func (m *Match) Target() UnitRef { return m.Units[1] }

// MatchSet groups all matches produced by one search invocation.
//
// Params is kept opaque (any) to avoid a dependency on the root package;
// it holds an intertext.Params value.
type MatchSet struct {
	ID        string      `json:"id"`
	Texts     [2]string   `json:"texts"`
	Params    any         `json:"parameters"`
	Stoplist  []FeatureID `json:"stoplist"`
	Matches   []*Match    `json:"-"`
	CreatedAt time.Time   `json:"created_at"`
}

// Len returns the number of matches in the set.
func (ms *MatchSet) Len() int {
	return len(ms.Matches)
}

// ScoreBasis controls how ambiguous tokens are weighted.
type ScoreBasis string

const (
	// ScoreWord weights every candidate feature of a token with 1.
	ScoreWord ScoreBasis = "word"
	// ScoreLemmata splits one unit of weight across the candidates of a token.
	ScoreLemmata ScoreBasis = "lemmata"
)

// Valid reports whether sb is a recognized score basis.
func (sb ScoreBasis) Valid() bool {
	return sb == ScoreWord || sb == ScoreLemmata
}

// Weight returns the weight of one candidate feature of a token that has
// the given number of candidates.
func (sb ScoreBasis) Weight(candidates int) float64 {
	if sb == ScoreLemmata && candidates > 1 {
		return 1 / float64(candidates)
	}
	return 1
}
