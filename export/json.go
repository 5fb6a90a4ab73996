package export

import (
	"io"
	"time"

	"github.com/hupe1980/intertext"
	"github.com/hupe1980/intertext/codec"
)

type jsonDocument struct {
	ID         string           `json:"id"`
	Texts      [2]string        `json:"texts"`
	Parameters intertext.Params `json:"parameters"`
	Stoplist   []string         `json:"stoplist"`
	CreatedAt  time.Time        `json:"created_at"`
	Results    []jsonResult     `json:"results"`
}

type jsonResult struct {
	ResultID        int      `json:"result_id"`
	SourceTag       string   `json:"source_tag"`
	TargetTag       string   `json:"target_tag"`
	SourceSnippet   string   `json:"source_snippet,omitempty"`
	TargetSnippet   string   `json:"target_snippet,omitempty"`
	MatchedFeatures []string `json:"matched_features"`
	Score           float64  `json:"score"`
	RawScore        float64  `json:"raw_score"`
	Distances       [2]int   `json:"distances"`
}

// WriteJSON writes the document as a single JSON object using codec.Default.
func WriteJSON(w io.Writer, d *Document) error {
	rows := d.Rows()
	out := jsonDocument{
		ID:         d.Set.ID,
		Texts:      d.Set.Texts,
		Parameters: d.Params(),
		Stoplist:   d.Stopwords(),
		CreatedAt:  d.Set.CreatedAt,
		Results:    make([]jsonResult, len(rows)),
	}
	for i, r := range rows {
		out.Results[i] = jsonResult{
			ResultID:        r.Rank,
			SourceTag:       r.Source.String(),
			TargetTag:       r.Target.String(),
			SourceSnippet:   r.SourceText,
			TargetSnippet:   r.TargetText,
			MatchedFeatures: r.Shared,
			Score:           r.Score,
			RawScore:        r.RawScore,
			Distances:       r.Distances,
		}
	}

	b, err := codec.Default.Marshal(out)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
