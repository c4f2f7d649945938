// Package concurrent used to process concurrent request
package concurrent

import (
	"context"
	"sync"
)

// Result is the results of task.
type Result[T any] struct {
	Value T
	Err   error
}

// ForEach iterates over elements of list and invokes iter function for each element.
// At most maxWorker invocations run at the same time; maxWorker <= 0 means no limit.
// When ctx is cancelled, items that have not started yet get ctx.Err() as their
// result while already running invocations are left to finish.
func ForEach[T any, R any](ctx context.Context, items []T, maxWorker int,
	fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	if maxWorker <= 0 {
		maxWorker = len(items)
	}
	sem := make(chan struct{}, maxWorker)

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i].Err = ctx.Err()
				return
			}

			if ctx.Err() != nil {
				results[i].Err = ctx.Err()
				return
			}

			results[i].Value, results[i].Err = fn(ctx, item)
		}(i, item)
	}

	wg.Wait()
	return results
}
