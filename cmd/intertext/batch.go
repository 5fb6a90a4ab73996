package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hupe1980/intertext"
	"github.com/hupe1980/intertext/export"
	"github.com/hupe1980/intertext/jobs"
	"github.com/hupe1980/intertext/model"
	"github.com/hupe1980/intertext/prommetrics"
	"github.com/hupe1980/intertext/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func runBatch(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("batch", stderr)
	source := fs.String("source", "", "source text (name of a .tess file)")
	workers := fs.Int("workers", 0, "concurrent searches (default GOMAXPROCS)")
	rps := fs.Float64("rate", 0, "maximum searches started per second (0 = unlimited)")
	budget := fs.Int64("token-budget", 0, "maximum tokens held by running searches (0 = unlimited)")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
	pf := addParamFlags(fs)
	tf := addTextFlags(fs)
	lf := addLogFlags(fs)
	of := addOutputFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	targets := fs.Args()
	if *source == "" || len(targets) == 0 {
		fs.Usage()
		return fmt.Errorf("%w: -source and at least one target are required", errUsage)
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

	reg := prometheus.NewRegistry()
	metrics, err := prommetrics.New(reg)
	if err != nil {
		return err
	}
	if *metricsAddr != "" {
		srv := &http.Server{
			Addr:              *metricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.ErrorContext(ctx, "metrics server failed", "error", err)
			}
		}()
		defer srv.Close()
	}

	ld, err := tf.loader(ctx, nil)
	if err != nil {
		return err
	}
	src, err := ld.text(ctx, *source)
	if err != nil {
		return err
	}
	tgts, err := ld.texts(ctx, targets)
	if err != nil {
		return err
	}
	corpus, err := ld.texts(ctx, splitList(tf.corpus))
	if err != nil {
		return err
	}

	qopts := []jobs.Option{jobs.WithLogger(logger), jobs.WithTokenBudget(*budget)}
	if *workers > 0 {
		qopts = append(qopts, jobs.WithWorkers(*workers))
	}
	if *rps > 0 {
		qopts = append(qopts, jobs.WithRateLimit(*rps, 1))
	}

	var db *store.Store
	if of.db != "" {
		if db, err = store.Open(of.db); err != nil {
			return err
		}
		defer db.Close()
		qopts = append(qopts, jobs.WithStatusSink(db))
	}

	var (
		mu   sync.Mutex
		docs = make(map[string]*export.Document)
		all  = append([]*model.Text{src}, tgts...)
	)
	qopts = append(qopts, jobs.WithResultHandler(func(ctx context.Context, r jobs.Result) error {
		r.Set.ID = r.ID
		if db != nil {
			if err := db.Save(ctx, r.Set, r.Request.Vocab); err != nil {
				return err
			}
		}
		mu.Lock()
		docs[r.ID] = &export.Document{Set: r.Set, Vocab: r.Request.Vocab, Texts: export.Texts(all...)}
		mu.Unlock()
		return nil
	}))

	searcher := intertext.New(
		intertext.WithLogger(logger),
		intertext.WithCorpus(corpus...),
		intertext.WithMetricsCollector(metrics),
	)
	q := jobs.NewQueue(searcher, qopts...)
	q.Start(ctx)

	ids := make([]string, 0, len(tgts))
	for _, tgt := range tgts {
		id, err := q.Submit(ctx, jobs.Request{Source: src, Target: tgt, Vocab: ld.vocab, Params: params})
		if err != nil {
			_ = q.Close()
			return err
		}
		ids = append(ids, id)
	}

	var failed int
	for i, id := range ids {
		state, err := q.Wait(ctx, id)
		if err != nil {
			_ = q.Close()
			return err
		}
		if state.Status == jobs.StatusFailed {
			failed++
			fmt.Fprintf(stdout, "%s vs %s: failed: %s\n", src.ID, tgts[i].ID, state.Message)
			continue
		}
		mu.Lock()
		doc := docs[id]
		mu.Unlock()
		if err := report(stdout, doc, of.top); err != nil {
			return err
		}
		// The result handler already saved the set.
		o := *of
		o.db = ""
		if err := o.save(ctx, stdout, doc, format, compression); err != nil {
			return err
		}
	}
	if err := q.Close(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d searches failed", failed, len(ids))
	}
	return nil
}
