package resource

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrBudgetExceeded is returned when the token budget would be exceeded.
var ErrBudgetExceeded = errors.New("token budget exceeded")

// Config holds resource limits.
type Config struct {
	// TokenBudget is the hard limit for tokens of admitted searches.
	// If 0, no hard limit is enforced (only tracking).
	TokenBudget int64

	// MaxConcurrent is the maximum number of concurrently running searches.
	// If 0, defaults to 1.
	MaxConcurrent int64

	// SubmitsPerSec is the maximum rate of accepted submissions.
	// If 0, unlimited.
	SubmitsPerSec float64

	// SubmitBurst is the burst size of the submission limiter. Defaults to 1.
	SubmitBurst int
}

// Controller manages admission of searches.
type Controller struct {
	cfg Config

	budgetSem *semaphore.Weighted // nil if unlimited
	used      atomic.Int64

	runSem  *semaphore.Weighted
	running atomic.Int64

	limiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.SubmitBurst <= 0 {
		cfg.SubmitBurst = 1
	}

	c := &Controller{
		cfg:    cfg,
		runSem: semaphore.NewWeighted(cfg.MaxConcurrent),
	}
	if cfg.TokenBudget > 0 {
		c.budgetSem = semaphore.NewWeighted(cfg.TokenBudget)
	}
	if cfg.SubmitsPerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.SubmitsPerSec), cfg.SubmitBurst)
	}
	return c
}

// MaxConcurrent returns the configured concurrency.
func (c *Controller) MaxConcurrent() int {
	if c == nil {
		return 1
	}
	return int(c.cfg.MaxConcurrent)
}

// AcquireTokens reserves n tokens of budget.
// Non-blocking - returns ErrBudgetExceeded if the limit would be exceeded.
func (c *Controller) AcquireTokens(n int64) error {
	if c == nil || n <= 0 {
		return nil
	}
	if c.budgetSem != nil && !c.budgetSem.TryAcquire(n) {
		return ErrBudgetExceeded
	}
	c.used.Add(n)
	return nil
}

// ReleaseTokens releases reserved tokens.
func (c *Controller) ReleaseTokens(n int64) {
	if c == nil || n <= 0 {
		return
	}
	if c.budgetSem != nil {
		c.budgetSem.Release(n)
	}
	c.used.Add(-n)
}

// TokenUsage returns the reserved token count.
func (c *Controller) TokenUsage() int64 {
	if c == nil {
		return 0
	}
	return c.used.Load()
}

// Fits reports whether n tokens can ever be admitted.
func (c *Controller) Fits(n int64) bool {
	return c == nil || c.cfg.TokenBudget <= 0 || n <= c.cfg.TokenBudget
}

// AcquireRun reserves a run slot. Blocks until a slot is free or ctx is done.
func (c *Controller) AcquireRun(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.runSem.Acquire(ctx, 1); err != nil {
		return err
	}
	c.running.Add(1)
	return nil
}

// TryAcquireRun reserves a run slot without blocking.
func (c *Controller) TryAcquireRun() bool {
	if c == nil {
		return true
	}
	if !c.runSem.TryAcquire(1) {
		return false
	}
	c.running.Add(1)
	return true
}

// ReleaseRun releases a run slot.
func (c *Controller) ReleaseRun() {
	if c == nil {
		return
	}
	c.running.Add(-1)
	c.runSem.Release(1)
}

// Running returns the number of held run slots.
func (c *Controller) Running() int64 {
	if c == nil {
		return 0
	}
	return c.running.Load()
}

// WaitSubmit blocks until the submission limiter admits one more search.
func (c *Controller) WaitSubmit(ctx context.Context) error {
	if c == nil || c.limiter == nil {
		return ctx.Err()
	}
	return c.limiter.Wait(ctx)
}

// AllowSubmit reports whether a submission is admitted now.
func (c *Controller) AllowSubmit() bool {
	if c == nil || c.limiter == nil {
		return true
	}
	return c.limiter.Allow()
}
