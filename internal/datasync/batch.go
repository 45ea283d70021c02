package datasync

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Batch runs several fetches in parallel. The first failure cancels the
// others and fails the whole batch.
type Batch struct {
	fns []func(ctx context.Context) error
}

func (b *Batch) Go(fn func(ctx context.Context) error) {
	b.fns = append(b.fns, fn)
}

func (b *Batch) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, fn := range b.fns {
		g.Go(func() error {
			return fn(ctx)
		})
	}
	return g.Wait()
}

// Into returns a batch step that stores the result of fetch in dst
func Into[T any](dst *T, fetch Fetcher[T]) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		v, err := fetch(ctx)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}
