package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var csvHeader = []string{
	"Result", "Target_Loc", "Target_Txt",
	"Source_Loc", "Source_Txt", "Shared",
	"Score", "Raw_Score",
}

// WriteCSV writes the document as CSV preceded by # comment lines.
func WriteCSV(w io.Writer, d *Document) error {
	bw := bufio.NewWriter(w)
	p := d.Params()

	comments := []string{
		"# intertext results",
		"#",
		"# session\t= " + d.Set.ID,
		"# source\t= " + d.Set.Texts[0],
		"# target\t= " + d.Set.Texts[1],
		"# unit\t= " + string(p.UnitType),
		"# feature\t= " + string(p.FeatureType),
		"# stopsize\t= " + strconv.Itoa(len(d.Set.Stoplist)),
		"# stbasis\t= " + string(p.StopwordBasis),
		"# stopwords\t= " + strings.Join(d.Stopwords(), ", "),
		"# max_dist\t= " + formatScore(p.MaxDistance),
		"# dibasis\t= " + p.DistanceMetric,
		"# cutoff\t= " + strconv.Itoa(d.Cutoff()),
	}
	for _, c := range comments {
		if _, err := fmt.Fprintln(bw, c); err != nil {
			return err
		}
	}

	cw := csv.NewWriter(bw)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range d.Rows() {
		rec := []string{
			strconv.Itoa(r.Rank),
			r.Target.Locus,
			r.TargetText,
			r.Source.Locus,
			r.SourceText,
			strings.Join(r.Shared, "; "),
			formatScore(r.Score),
			formatScore(r.RawScore),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}
