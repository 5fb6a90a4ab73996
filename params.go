package intertext

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/hupe1980/intertext/distance"
	"github.com/hupe1980/intertext/frequency"
	"github.com/hupe1980/intertext/model"
	"gopkg.in/yaml.v3"
)

// Params are the parameters of one search. They are recorded verbatim in
// the resulting MatchSet.
type Params struct {
	// UnitType selects lines or phrases.
	UnitType model.UnitType `yaml:"unit_type" json:"unit_type"`
	// FeatureType selects forms or lemmata.
	FeatureType model.FeatureType `yaml:"feature_type" json:"feature_type"`
	// Stopwords is the number of most frequent features to exclude.
	Stopwords int `yaml:"stopwords" json:"stopwords"`
	// StopwordBasis selects the texts the stoplist frequencies come from.
	StopwordBasis frequency.Basis `yaml:"stopword_basis" json:"stopword_basis"`
	// StopwordList holds extra feature values excluded from matching.
	StopwordList []string `yaml:"stopword_list,omitempty" json:"stopword_list,omitempty"`
	// ScoreBasis controls how ambiguous lemmata are weighted.
	ScoreBasis model.ScoreBasis `yaml:"score_basis" json:"score_basis"`
	// FrequencyBasis selects the texts scoring frequencies come from.
	FrequencyBasis frequency.Basis `yaml:"frequency_basis" json:"frequency_basis"`
	// DistanceMetric names a registered distance.Metric.
	DistanceMetric string `yaml:"distance_metric" json:"distance_metric"`
	// MaxDistance rejects pairs spread wider than this in either unit.
	MaxDistance float64 `yaml:"max_distance" json:"max_distance"`
	// MinScore rejects pairs scoring below it.
	MinScore float64 `yaml:"min_score" json:"min_score"`
}

// DefaultParams returns the defaults of the command line tool.
func DefaultParams() Params {
	return Params{
		UnitType:       model.UnitLine,
		FeatureType:    model.FeatureLemmata,
		Stopwords:      10,
		StopwordBasis:  frequency.BasisCorpus,
		ScoreBasis:     model.ScoreWord,
		FrequencyBasis: frequency.BasisCorpus,
		DistanceMetric: "span",
		MaxDistance:    10,
		MinScore:       0,
	}
}

// Normalized resolves accepted aliases ("texts" for text, "stem" for
// lemmata) to their canonical values.
func (p Params) Normalized() Params {
	if b, err := frequency.ParseBasis(string(p.StopwordBasis)); err == nil {
		p.StopwordBasis = b
	}
	if b, err := frequency.ParseBasis(string(p.FrequencyBasis)); err == nil {
		p.FrequencyBasis = b
	}
	if p.ScoreBasis == "stem" {
		p.ScoreBasis = model.ScoreLemmata
	}
	return p
}

// Validate checks every parameter. Errors are *ConfigurationError.
func (p Params) Validate() error {
	return p.validate(func(name string) error {
		_, err := distance.Lookup(name)
		return err
	})
}

func (p Params) validate(lookup func(string) error) error {
	if !p.UnitType.Valid() {
		return &ConfigurationError{Field: "unit_type", Value: p.UnitType, Reason: "must be line or phrase"}
	}
	if !p.FeatureType.Valid() {
		return &ConfigurationError{Field: "feature_type", Value: p.FeatureType, Reason: "must be form or lemmata"}
	}
	if p.Stopwords < 0 {
		return &ConfigurationError{Field: "stopwords", Value: p.Stopwords, Reason: "must not be negative"}
	}
	if !p.StopwordBasis.Valid() {
		return &ConfigurationError{Field: "stopword_basis", Value: p.StopwordBasis, Reason: "must be corpus or text"}
	}
	if !p.ScoreBasis.Valid() {
		return &ConfigurationError{Field: "score_basis", Value: p.ScoreBasis, Reason: "must be word or lemmata"}
	}
	if !p.FrequencyBasis.Valid() {
		return &ConfigurationError{Field: "frequency_basis", Value: p.FrequencyBasis, Reason: "must be corpus or text"}
	}
	if err := lookup(p.DistanceMetric); err != nil {
		return configError("distance_metric", p.DistanceMetric, err)
	}
	if math.IsNaN(p.MaxDistance) || p.MaxDistance <= 0 {
		return &ConfigurationError{Field: "max_distance", Value: p.MaxDistance, Reason: "must be positive"}
	}
	if math.IsNaN(p.MinScore) || p.MinScore < 0 {
		return &ConfigurationError{Field: "min_score", Value: p.MinScore, Reason: "must not be negative"}
	}
	return nil
}

// ParseParams decodes YAML over DefaultParams, then normalizes and
// validates the result.
func ParseParams(data []byte) (Params, error) {
	p := DefaultParams()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Params{}, configError("params", "yaml", err)
	}
	p = p.Normalized()
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// LoadParams reads search parameters from a YAML file.
func LoadParams(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Params{}, fmt.Errorf("params file %s: %w", path, err)
		}
		return Params{}, fmt.Errorf("read params: %w", err)
	}
	return ParseParams(data)
}
