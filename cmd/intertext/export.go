package main

import (
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/intertext/blobstore"
	"github.com/hupe1980/intertext/export"
	"github.com/hupe1980/intertext/model"
	"github.com/hupe1980/intertext/store"
)

func runExport(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("export", stderr)
	id := fs.String("id", "", "match set id")
	withTexts := fs.Bool("with-texts", true, "re-read the texts to add snippets")
	tf := addTextFlags(fs)
	of := addOutputFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if of.db == "" || *id == "" {
		fs.Usage()
		return fmt.Errorf("%w: -db and -id are required", errUsage)
	}
	format, compression, err := of.exportFormat()
	if err != nil {
		return err
	}

	db, err := store.Open(of.db)
	if err != nil {
		return err
	}
	defer db.Close()

	set, vocab, err := db.Load(ctx, *id, nil)
	if err != nil {
		return err
	}
	doc := &export.Document{Set: set, Vocab: vocab}

	if *withTexts {
		ld, err := tf.loader(ctx, vocab)
		if err != nil {
			return err
		}
		texts := make([]*model.Text, 0, 2)
		for _, name := range set.Texts {
			t, err := ld.text(ctx, name)
			if err != nil {
				return err
			}
			texts = append(texts, t)
		}
		doc.Texts = export.Texts(texts...)
	}

	if of.out == "" {
		w, err := export.NewWriter(stdout, compression)
		if err != nil {
			return err
		}
		if err := export.Write(w, doc, format); err != nil {
			_ = w.Close()
			return err
		}
		return w.Close()
	}
	name, err := export.Publish(ctx, blobstore.NewLocalStore(of.out), exportName(set), doc, format, compression)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "exported %s\n", name)
	return nil
}
