// Package jobs runs searches in the background.
//
// A Queue accepts search requests, admits them through an
// internal/resource.Controller (submission rate, concurrent runs, token
// budget) and runs them on a fixed pool of workers. Every state change
// (queued, running, done, failed) is kept in memory and forwarded to an
// optional StatusSink, such as a store.Store.
//
//	q := jobs.NewQueue(intertext.New(), jobs.WithWorkers(4), jobs.WithStatusSink(db))
//	q.Start(ctx)
//	id, err := q.Submit(ctx, jobs.Request{Source: aen, Target: phar, Vocab: vocab, Params: params})
//	state, err := q.Wait(ctx, id)
//	err = q.Close()
package jobs
