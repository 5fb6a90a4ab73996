// Package resource implements admission control for queued searches.
//
// The Controller governs three resources:
//
//   - Token budget: the summed token count of searches in flight (non-blocking, fail-fast)
//   - Concurrency: the number of searches running at once (semaphore)
//   - Submissions: the rate at which new searches are accepted (token bucket)
//
// # Token Budget
//
// A search holds memory roughly proportional to the tokens of its two texts.
// AcquireTokens reserves that amount and fails with ErrBudgetExceeded when
// the budget is exhausted; callers decide whether to wait and retry:
//
//	rc := resource.NewController(resource.Config{TokenBudget: 5_000_000})
//	if err := rc.AcquireTokens(n); err != nil {
//	    // ErrBudgetExceeded
//	}
//	defer rc.ReleaseTokens(n)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully; they become no-ops.
package resource
