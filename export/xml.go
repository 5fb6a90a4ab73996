package export

import (
	"encoding/xml"
	"io"
	"strings"
)

type xmlResults struct {
	XMLName     xml.Name      `xml:"results"`
	Source      string        `xml:"source,attr"`
	Target      string        `xml:"target,attr"`
	Unit        string        `xml:"unit,attr"`
	Feature     string        `xml:"feature,attr"`
	SessionID   string        `xml:"sessionID,attr"`
	Stop        int           `xml:"stop,attr"`
	StBasis     string        `xml:"stbasis,attr"`
	MaxDist     string        `xml:"max_dist,attr"`
	DiBasis     string        `xml:"dibasis,attr"`
	Cutoff      int           `xml:"cutoff,attr"`
	Comment     string        `xml:"comment"`
	CommonWords string        `xml:"commonwords"`
	Data        []xmlTessdata `xml:"tessdata"`
}

type xmlTessdata struct {
	Keywords string      `xml:"keywords,attr"`
	Score    string      `xml:"score,attr"`
	RawScore string      `xml:"raw_score,attr"`
	Phrases  []xmlPhrase `xml:"phrase"`
}

type xmlPhrase struct {
	Text   string `xml:"text,attr"`
	Work   string `xml:"work,attr"`
	UnitID int    `xml:"unitId,attr"`
	Line   string `xml:"line,attr"`
	Value  string `xml:",chardata"`
}

// WriteXML writes the document in the tessdata XML layout.
func WriteXML(w io.Writer, d *Document) error {
	p := d.Params()
	out := xmlResults{
		Source:      d.Set.Texts[0],
		Target:      d.Set.Texts[1],
		Unit:        string(p.UnitType),
		Feature:     string(p.FeatureType),
		SessionID:   d.Set.ID,
		Stop:        len(d.Set.Stoplist),
		StBasis:     string(p.StopwordBasis),
		MaxDist:     formatScore(p.MaxDistance),
		DiBasis:     p.DistanceMetric,
		Cutoff:      d.Cutoff(),
		Comment:     "intertext results",
		CommonWords: strings.Join(d.Stopwords(), ", "),
	}
	for _, r := range d.Rows() {
		out.Data = append(out.Data, xmlTessdata{
			Keywords: strings.Join(r.Shared, ", "),
			Score:    formatScore(r.Score),
			RawScore: formatScore(r.RawScore),
			Phrases: []xmlPhrase{
				{Text: "source", Work: r.Source.TextID, UnitID: r.Source.Index, Line: r.Source.Locus, Value: r.SourceText},
				{Text: "target", Work: r.Target.TextID, UnitID: r.Target.Index, Line: r.Target.Locus, Value: r.TargetText},
			},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
