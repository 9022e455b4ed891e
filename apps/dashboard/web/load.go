package web

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// task fetches one collection of a page.
type task func(ctx context.Context) error

// fetch returns a task storing the result of fn in dst. A result arriving after the
// load was cancelled is discarded.
func fetch[T any](dst *T, fn func(context.Context) (T, error)) task {
	return func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		if err = ctx.Err(); err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// load runs tasks concurrently under ctx and returns the first error.
// The remaining tasks are cancelled as soon as one fails.
func load(ctx context.Context, tasks ...task) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		t := t
		g.Go(func() error { return t(gctx) })
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
