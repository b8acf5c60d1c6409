// Package pool provides an order-preserving bounded-concurrency map over a slice.
// Downstream stages reassociate results to inputs positionally, so output index i
// always corresponds to input index i regardless of completion order.
package pool

import (
	"context"
	"sync"
)

// DefaultLimit is the worker cap shared by the enrichment and ledger stages.
const DefaultLimit = 10

// ItemError records a single item's failure without disturbing result indices.
type ItemError struct {
	Index int
	Err   error
}

func (e ItemError) Error() string { return e.Err.Error() }

func (e ItemError) Unwrap() error { return e.Err }

// Map applies fn to every item with at most limit goroutines in flight. The
// result slice has the same length and order as items; a failed item leaves its
// zero value in place and contributes an ItemError. Failures are isolated per
// item and never abort the other in-flight workers.
func Map[I, O any](ctx context.Context, items []I, limit int, fn func(ctx context.Context, index int, item I) (O, error)) ([]O, []ItemError) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	results := make([]O, len(items))
	var (
		mu       sync.Mutex
		failures []ItemError
		wg       sync.WaitGroup
	)
	sem := make(chan struct{}, limit)

	for i, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, item I) {
			defer wg.Done()
			defer func() { <-sem }()

			out, err := fn(ctx, i, item)
			if err != nil {
				mu.Lock()
				failures = append(failures, ItemError{Index: i, Err: err})
				mu.Unlock()
				return
			}
			results[i] = out
		}(i, item)
	}
	wg.Wait()

	return results, failures
}
