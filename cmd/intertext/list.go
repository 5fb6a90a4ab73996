package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/hupe1980/intertext/model"
	"github.com/hupe1980/intertext/store"
)

func runList(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("list", stderr)
	dbPath := fs.String("db", "", "SQLite database")
	id := fs.String("id", "", "list the matches of this match set instead of the sets")
	sortBy := fs.String("sort", "", "sort matches by score, source or target (default score, highest first)")
	desc := fs.Bool("desc", false, "sort descending; applies with -sort")
	perPage := fs.Int("per-page", store.DefaultPerPage, "matches per page")
	page := fs.Int("page", 0, "zero-based page number")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *dbPath == "" {
		fs.Usage()
		return fmt.Errorf("%w: -db is required", errUsage)
	}
	if *page < 0 || *perPage <= 0 {
		fs.Usage()
		return fmt.Errorf("%w: -page must be >= 0 and -per-page > 0", errUsage)
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if *id != "" {
		return listMatches(ctx, db, *id, store.Page{
			SortBy:     *sortBy,
			Descending: *desc,
			PerPage:    *perPage,
			Number:     *page,
		}, stdout)
	}

	sets, err := db.List(ctx)
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		fmt.Fprintln(stdout, "no match sets found")
		return nil
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSOURCE\tTARGET\tMATCHES\tSTATUS\tCREATED")
	for _, s := range sets {
		status := "-"
		if st, err := db.Status(ctx, s.ID); err == nil {
			status = string(st.Status)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", s.ID, s.Texts[0], s.Texts[1], s.Matches, status, s.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func listMatches(ctx context.Context, db *store.Store, id string, page store.Page, stdout io.Writer) error {
	total, err := db.Count(ctx, id)
	if err != nil {
		return err
	}
	vocab := model.NewVocabulary()
	matches, err := db.Results(ctx, id, vocab, page)
	if err != nil {
		return err
	}

	pages := (total + page.PerPage - 1) / page.PerPage
	fmt.Fprintf(stdout, "%s: %d matches, page %d of %d\n", id, total, page.Number+1, max(pages, 1))
	if len(matches) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tSOURCE\tTARGET\tSHARED")
	first := page.Number * page.PerPage
	for i, m := range matches {
		words := make([]string, len(m.SharedFeatures))
		for j, f := range m.SharedFeatures {
			words[j] = vocab.Value(f)
		}
		fmt.Fprintf(tw, "%d\t%.3f\t%s\t%s\t%s\n", first+i+1, m.Score, m.Units[0].Locus, m.Units[1].Locus, strings.Join(words, "; "))
	}
	return tw.Flush()
}
