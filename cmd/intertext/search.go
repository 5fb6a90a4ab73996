package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hupe1980/intertext"
	"github.com/hupe1980/intertext/blobstore"
	"github.com/hupe1980/intertext/export"
	"github.com/hupe1980/intertext/model"
	"github.com/hupe1980/intertext/store"
)

func runSearch(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("search", stderr)
	source := fs.String("source", "", "source text (name of a .tess file)")
	target := fs.String("target", "", "target text (name of a .tess file)")
	shards := fs.Int("shards", 0, "number of workers (default GOMAXPROCS)")
	pf := addParamFlags(fs)
	tf := addTextFlags(fs)
	lf := addLogFlags(fs)
	of := addOutputFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if *source == "" || *target == "" {
		fs.Usage()
		return fmt.Errorf("%w: -source and -target are required", errUsage)
	}

	params, err := pf.params()
	if err != nil {
		return err
	}
	format, compression, err := of.exportFormat()
	if err != nil {
		return err
	}
	logger, err := lf.logger(stderr)
	if err != nil {
		return err
	}

	ld, err := tf.loader(ctx, nil)
	if err != nil {
		return err
	}
	src, err := ld.text(ctx, *source)
	if err != nil {
		return err
	}
	tgt, err := ld.text(ctx, *target)
	if err != nil {
		return err
	}
	corpus, err := ld.texts(ctx, splitList(tf.corpus))
	if err != nil {
		return err
	}

	opts := []intertext.Option{intertext.WithLogger(logger), intertext.WithCorpus(corpus...)}
	if *shards > 0 {
		opts = append(opts, intertext.WithNumShards(*shards))
	}
	_, set, err := intertext.New(opts...).Search(ctx, src, tgt, ld.vocab, params)
	if err != nil {
		return err
	}

	doc := &export.Document{Set: set, Vocab: ld.vocab, Texts: export.Texts(src, tgt)}
	if err := report(stdout, doc, of.top); err != nil {
		return err
	}
	return of.save(ctx, stdout, doc, format, compression)
}

func (o *outputFlags) exportFormat() (export.Format, export.Compression, error) {
	f, err := export.ParseFormat(o.format)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", errUsage, err)
	}
	c, err := export.ParseCompression(o.compress)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", errUsage, err)
	}
	return f, c, nil
}

// save stores the match set in -db and publishes it to -export.
func (o *outputFlags) save(ctx context.Context, stdout io.Writer, doc *export.Document, f export.Format, c export.Compression) error {
	if o.db != "" {
		db, err := store.Open(o.db)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Save(ctx, doc.Set, doc.Vocab); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "saved %s to %s\n", doc.Set.ID, o.db)
	}
	if o.out != "" {
		name, err := export.Publish(ctx, blobstore.NewLocalStore(o.out), exportName(doc.Set), doc, f, c)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "exported %s\n", name)
	}
	return nil
}

func exportName(ms *model.MatchSet) string {
	return fmt.Sprintf("%s-%s", ms.Texts[0], ms.Texts[1])
}

// report prints the top rows of doc.
func report(w io.Writer, doc *export.Document, top int) error {
	rows := doc.Rows()
	fmt.Fprintf(w, "%s vs %s: %d matches (id %s)\n", doc.Set.Texts[0], doc.Set.Texts[1], len(rows), doc.Set.ID)
	if top <= 0 || len(rows) == 0 {
		return nil
	}
	if len(rows) > top {
		rows = rows[:top]
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tSOURCE\tTARGET\tSHARED")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%.3f\t%s\t%s\t%s\n", r.Rank, r.Score, r.Source.Locus, r.Target.Locus, strings.Join(r.Shared, ", "))
	}
	return tw.Flush()
}
