package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hupe1980/intertext"
	"github.com/hupe1980/intertext/blobstore"
	"github.com/hupe1980/intertext/blobstore/minio"
	"github.com/hupe1980/intertext/blobstore/s3"
	"github.com/hupe1980/intertext/frequency"
	"github.com/hupe1980/intertext/model"
	"github.com/hupe1980/intertext/tokenize"
)

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parse maps -h and flag errors to errUsage.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errUsage
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

// paramFlags are the search parameter flags. Only flags given on the
// command line override the defaults or the -config file.
type paramFlags struct {
	fs *flag.FlagSet

	config         string
	unit           string
	feature        string
	stopwords      int
	stopwordBasis  string
	stopwordList   string
	scoreBasis     string
	frequencyBasis string
	maxDistance    float64
	metric         string
	minScore       float64
}

func addParamFlags(fs *flag.FlagSet) *paramFlags {
	d := intertext.DefaultParams()
	p := &paramFlags{fs: fs}
	fs.StringVar(&p.config, "config", "", "YAML file with search parameters")
	fs.StringVar(&p.unit, "unit", string(d.UnitType), "unit type: line or phrase")
	fs.StringVar(&p.feature, "feature", string(d.FeatureType), "feature type: form or lemmata")
	fs.IntVar(&p.stopwords, "n-stopwords", d.Stopwords, "number of stopwords")
	fs.StringVar(&p.stopwordBasis, "stopword-basis", string(d.StopwordBasis), "stoplist frequencies: text or corpus")
	fs.StringVar(&p.stopwordList, "stopword-list", "", "comma separated extra stopwords")
	fs.StringVar(&p.scoreBasis, "score-basis", string(d.ScoreBasis), "ambiguous token weighting: word or lemmata")
	fs.StringVar(&p.frequencyBasis, "frequency-basis", string(d.FrequencyBasis), "scoring frequencies: text or corpus")
	fs.Float64Var(&p.maxDistance, "max-distance", d.MaxDistance, "maximum distance between matched words")
	fs.StringVar(&p.metric, "distance-metric", d.DistanceMetric, "distance metric")
	fs.Float64Var(&p.minScore, "min-score", d.MinScore, "minimum score")
	return p
}

func (p *paramFlags) params() (intertext.Params, error) {
	params := intertext.DefaultParams()
	if p.config != "" {
		var err error
		if params, err = intertext.LoadParams(p.config); err != nil {
			return intertext.Params{}, err
		}
	}

	p.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "unit":
			params.UnitType = model.UnitType(p.unit)
		case "feature":
			params.FeatureType = model.FeatureType(p.feature)
		case "n-stopwords":
			params.Stopwords = p.stopwords
		case "stopword-basis":
			params.StopwordBasis = frequency.Basis(p.stopwordBasis)
		case "stopword-list":
			params.StopwordList = splitList(p.stopwordList)
		case "score-basis":
			params.ScoreBasis = model.ScoreBasis(p.scoreBasis)
		case "frequency-basis":
			params.FrequencyBasis = frequency.Basis(p.frequencyBasis)
		case "max-distance":
			params.MaxDistance = p.maxDistance
		case "distance-metric":
			params.DistanceMetric = p.metric
		case "min-score":
			params.MinScore = p.minScore
		}
	})

	params = params.Normalized()
	if err := params.Validate(); err != nil {
		return intertext.Params{}, err
	}
	return params, nil
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// textFlags select where texts come from and how they are tokenized.
type textFlags struct {
	dir       string
	language  string
	lemmata   string
	corpus    string
	cacheSize int64

	bucket   string
	prefix   string
	region   string
	endpoint string

	minioEndpoint string
	minioAccess   string
	minioSecret   string
	minioInsecure bool
}

func addTextFlags(fs *flag.FlagSet) *textFlags {
	t := &textFlags{}
	fs.StringVar(&t.dir, "texts", ".", "directory holding .tess files")
	fs.StringVar(&t.language, "language", "latin", "text language: latin, greek, english or japanese")
	fs.StringVar(&t.lemmata, "lemmata", "", "CSV lemma table (form,lemma,...)")
	fs.StringVar(&t.corpus, "corpus", "", "comma separated extra texts for corpus frequencies")
	fs.Int64Var(&t.cacheSize, "cache-bytes", blobstore.DefaultCacheBytes, "memory cache for remote texts")
	fs.StringVar(&t.bucket, "bucket", "", "read texts from this S3 bucket")
	fs.StringVar(&t.prefix, "prefix", "", "key prefix inside the bucket")
	fs.StringVar(&t.region, "region", "", "S3 region")
	fs.StringVar(&t.endpoint, "endpoint", "", "S3 compatible endpoint URL")
	fs.StringVar(&t.minioEndpoint, "minio-endpoint", "", "read texts from this MinIO endpoint (host:port)")
	fs.StringVar(&t.minioAccess, "minio-access-key", "", "MinIO access key")
	fs.StringVar(&t.minioSecret, "minio-secret-key", "", "MinIO secret key")
	fs.BoolVar(&t.minioInsecure, "minio-insecure", false, "use http for MinIO")
	return t
}

func (t *textFlags) store(ctx context.Context) (blobstore.BlobStore, error) {
	switch {
	case t.minioEndpoint != "":
		if t.bucket == "" {
			return nil, fmt.Errorf("%w: -minio-endpoint requires -bucket", errUsage)
		}
		st, err := minio.New(t.minioEndpoint, t.minioAccess, t.minioSecret, t.bucket, t.prefix, !t.minioInsecure)
		if err != nil {
			return nil, err
		}
		return blobstore.NewCachingStore(st, t.cacheSize), nil
	case t.bucket != "":
		opts := []s3.Option{s3.WithPrefix(t.prefix)}
		if t.region != "" {
			opts = append(opts, s3.WithRegion(t.region))
		}
		if t.endpoint != "" {
			opts = append(opts, s3.WithEndpoint(t.endpoint))
		}
		st, err := s3.New(ctx, t.bucket, opts...)
		if err != nil {
			return nil, err
		}
		return blobstore.NewCachingStore(st, t.cacheSize), nil
	default:
		return blobstore.NewLocalStore(t.dir), nil
	}
}

func (t *textFlags) featurizer() (tokenize.Featurizer, error) {
	var opts []tokenize.Option
	if t.lemmata != "" {
		table, err := tokenize.LoadLemmaTableFile(t.lemmata)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tokenize.WithLemmata(table))
	}
	return tokenize.ForLanguage(t.language, opts...)
}

// loader reads texts into one shared vocabulary.
type loader struct {
	store blobstore.BlobStore
	f     tokenize.Featurizer
	vocab *model.Vocabulary
}

func (t *textFlags) loader(ctx context.Context, vocab *model.Vocabulary) (*loader, error) {
	st, err := t.store(ctx)
	if err != nil {
		return nil, err
	}
	f, err := t.featurizer()
	if err != nil {
		return nil, err
	}
	if vocab == nil {
		vocab = model.NewVocabulary()
	}
	return &loader{store: st, f: f, vocab: vocab}, nil
}

// blobName appends the .tess extension when missing.
func blobName(name string) string {
	if strings.HasSuffix(name, tokenize.Ext) {
		return name
	}
	return name + tokenize.Ext
}

func (l *loader) text(ctx context.Context, name string) (*model.Text, error) {
	return tokenize.ReadBlob(ctx, l.store, blobName(name), l.vocab, l.f)
}

func (l *loader) texts(ctx context.Context, names []string) ([]*model.Text, error) {
	out := make([]*model.Text, 0, len(names))
	for _, name := range names {
		t, err := l.text(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

type logFlags struct {
	level string
	json  bool
}

func addLogFlags(fs *flag.FlagSet) *logFlags {
	l := &logFlags{}
	fs.StringVar(&l.level, "log-level", "warn", "log level: debug, info, warn or error")
	fs.BoolVar(&l.json, "log-json", false, "log as JSON")
	return l
}

func (l *logFlags) logger(w io.Writer) (*intertext.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.level)); err != nil {
		return nil, fmt.Errorf("%w: -log-level: %v", errUsage, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.json {
		return intertext.NewLogger(slog.NewJSONHandler(w, opts)), nil
	}
	return intertext.NewLogger(slog.NewTextHandler(w, opts)), nil
}

// outputFlags control where results go.
type outputFlags struct {
	db       string
	out      string
	format   string
	compress string
	top      int
}

func addOutputFlags(fs *flag.FlagSet) *outputFlags {
	o := &outputFlags{}
	fs.StringVar(&o.db, "db", "", "SQLite database to save match sets in")
	fs.StringVar(&o.out, "export", "", "directory to export results to")
	fs.StringVar(&o.format, "format", "csv", "export format: csv, json or xml")
	fs.StringVar(&o.compress, "compress", "none", "export compression: none, zstd, lz4 or brotli")
	fs.IntVar(&o.top, "top", 10, "number of results to print")
	return o
}
