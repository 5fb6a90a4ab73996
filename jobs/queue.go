package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/intertext"
	"github.com/hupe1980/intertext/internal/resource"
	"github.com/hupe1980/intertext/model"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("jobs: queue closed")
	// ErrUnknownJob is returned by Wait for ids never submitted.
	ErrUnknownJob = errors.New("jobs: unknown job")
	// ErrTooLarge is returned by Submit when a request exceeds the token budget.
	ErrTooLarge = errors.New("jobs: request exceeds token budget")
)

// budgetRetry is the pause between token budget attempts.
const budgetRetry = 10 * time.Millisecond

// Request is a search to run.
type Request struct {
	// ID is optional; a UUID is assigned when empty.
	ID     string
	Source *model.Text
	Target *model.Text
	Vocab  *model.Vocabulary
	Params intertext.Params
}

// tokens estimates the working set of the request.
func (r *Request) tokens() int64 {
	var n int64
	for _, t := range []*model.Text{r.Source, r.Target} {
		if t == nil {
			continue
		}
		for _, u := range t.Units(r.Params.UnitType) {
			n += int64(len(u.Tokens))
		}
	}
	return n
}

// Result is a successful search.
type Result struct {
	ID      string
	Request Request
	Matches []model.Match
	Set     *model.MatchSet
}

// ResultHandler receives every successful search. A returned error fails the job.
type ResultHandler func(ctx context.Context, r Result) error

type job struct {
	req  Request
	done chan struct{}
}

// Queue runs submitted searches on a worker pool.
type Queue struct {
	searcher *intertext.Searcher
	opts     options
	rc       *resource.Controller

	ch chan *job
	// sendMu guards sends on ch against Close.
	sendMu sync.RWMutex

	mu     sync.Mutex
	jobs   map[string]*job
	states map[string]State
	closed bool

	startOnce sync.Once
	g         *errgroup.Group
}

// NewQueue creates a Queue. Call Start to run workers.
func NewQueue(s *intertext.Searcher, optFns ...Option) *Queue {
	opts := applyOptions(optFns)
	return &Queue{
		searcher: s,
		opts:     opts,
		rc: resource.NewController(resource.Config{
			TokenBudget:   opts.tokenBudget,
			MaxConcurrent: int64(opts.workers),
			SubmitsPerSec: opts.submitsPerSec,
			SubmitBurst:   opts.submitBurst,
		}),
		ch:     make(chan *job, opts.capacity),
		jobs:   make(map[string]*job),
		states: make(map[string]State),
	}
}

// Start launches the workers. Jobs run with ctx; cancelling it fails
// running and pending jobs. Start is idempotent.
func (q *Queue) Start(ctx context.Context) {
	q.startOnce.Do(func() {
		q.g = &errgroup.Group{}
		for range q.rc.MaxConcurrent() {
			q.g.Go(func() error {
				for j := range q.ch {
					q.run(ctx, j)
				}
				return nil
			})
		}
	})
}

// Submit enqueues a request and returns its id. It blocks while the
// submission rate limit or a full queue hold it back.
func (q *Queue) Submit(ctx context.Context, req Request) (string, error) {
	if !q.rc.Fits(req.tokens()) {
		return "", ErrTooLarge
	}
	if err := q.rc.WaitSubmit(ctx); err != nil {
		return "", err
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	j := &job{req: req, done: make(chan struct{})}

	q.sendMu.RLock()
	defer q.sendMu.RUnlock()

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return "", ErrClosed
	}
	if _, ok := q.jobs[req.ID]; ok {
		q.mu.Unlock()
		return "", fmt.Errorf("jobs: duplicate job id %q", req.ID)
	}
	q.jobs[req.ID] = j
	q.mu.Unlock()

	q.setStatus(ctx, req.ID, StatusQueued, "")

	select {
	case q.ch <- j:
		return req.ID, nil
	case <-ctx.Done():
		q.finish(context.WithoutCancel(ctx), j, StatusFailed, ctx.Err().Error())
		return "", ctx.Err()
	}
}

// Status returns the last known state of a job.
func (q *Queue) Status(id string) (State, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	s, ok := q.states[id]
	return s, ok
}

// Wait blocks until the job finishes or ctx is done.
func (q *Queue) Wait(ctx context.Context, id string) (State, error) {
	q.mu.Lock()
	j, ok := q.jobs[id]
	q.mu.Unlock()
	if !ok {
		return State{}, ErrUnknownJob
	}
	select {
	case <-j.done:
		s, _ := q.Status(id)
		return s, nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Close stops accepting requests, drains the queue and waits for workers.
// Submits blocked on a full queue hold Close until a worker takes their job,
// so Start must have been called.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.mu.Unlock()

	q.sendMu.Lock()
	close(q.ch)
	q.sendMu.Unlock()
	if q.g == nil {
		return nil
	}
	return q.g.Wait()
}

func (q *Queue) run(ctx context.Context, j *job) {
	id := j.req.ID
	if err := ctx.Err(); err != nil {
		q.finish(context.WithoutCancel(ctx), j, StatusFailed, err.Error())
		return
	}

	n := j.req.tokens()
	if err := q.acquireTokens(ctx, n); err != nil {
		q.finish(context.WithoutCancel(ctx), j, StatusFailed, err.Error())
		return
	}
	defer q.rc.ReleaseTokens(n)

	if err := q.rc.AcquireRun(ctx); err != nil {
		q.finish(context.WithoutCancel(ctx), j, StatusFailed, err.Error())
		return
	}
	defer q.rc.ReleaseRun()

	q.setStatus(ctx, id, StatusRunning, "")

	matches, set, err := q.searcher.Search(ctx, j.req.Source, j.req.Target, j.req.Vocab, j.req.Params)
	if err != nil {
		q.finish(context.WithoutCancel(ctx), j, StatusFailed, err.Error())
		return
	}

	if q.opts.onResult != nil {
		if err := q.opts.onResult(ctx, Result{ID: id, Request: j.req, Matches: matches, Set: set}); err != nil {
			q.finish(context.WithoutCancel(ctx), j, StatusFailed, err.Error())
			return
		}
	}
	q.finish(ctx, j, StatusDone, fmt.Sprintf("%d matches", len(matches)))
}

func (q *Queue) acquireTokens(ctx context.Context, n int64) error {
	for {
		err := q.rc.AcquireTokens(n)
		if !errors.Is(err, resource.ErrBudgetExceeded) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(budgetRetry):
		}
	}
}

func (q *Queue) finish(ctx context.Context, j *job, status Status, msg string) {
	q.setStatus(ctx, j.req.ID, status, msg)
	close(j.done)
}

func (q *Queue) setStatus(ctx context.Context, id string, status Status, msg string) {
	q.mu.Lock()
	q.states[id] = State{ID: id, Status: status, Message: msg, UpdatedAt: time.Now().UTC()}
	q.mu.Unlock()

	logger := q.opts.logger.WithID(id)
	if status == StatusFailed {
		logger.WarnContext(ctx, "job failed", "message", msg)
	} else {
		logger.DebugContext(ctx, "job status", "status", status, "message", msg)
	}

	if q.opts.sink == nil {
		return
	}
	if err := q.opts.sink.SetStatus(ctx, id, status, msg); err != nil {
		logger.ErrorContext(ctx, "status sink failed", "status", status, "error", err)
	}
}
