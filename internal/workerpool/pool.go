// Package workerpool provides a generic bounded worker pool for running
// a function over a slice of items concurrently.
package workerpool

import (
	"context"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"
)

// Run executes fn for each item in items using up to workers goroutines.
// It returns the first non-nil error from fn, or nil if all succeed.
// Once fn fails, items that have not started yet are skipped.
func Run[T any](ctx context.Context, items []T, workers int, fn func(context.Context, T) error) error {
	if len(items) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p := pool.New().
		WithMaxGoroutines(workers).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	// Skipped items report nothing so the failure that cancelled the pool
	// stays the first error.
	var skipped atomic.Bool
	for _, item := range items {
		p.Go(func(ctx context.Context) error {
			if ctx.Err() != nil {
				skipped.Store(true)
				return nil
			}
			return fn(ctx, item)
		})
	}

	if err := p.Wait(); err != nil {
		return err
	}
	if skipped.Load() {
		return context.Cause(ctx)
	}
	return nil
}

// Map runs fn over items like Run and returns the results in input order.
func Map[T, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	indexes := make([]int, len(items))
	for i := range indexes {
		indexes[i] = i
	}

	err := Run(ctx, indexes, workers, func(ctx context.Context, i int) error {
		r, err := fn(ctx, items[i])
		if err != nil {
			return err
		}
		results[i] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Chunk splits items into consecutive slices of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
