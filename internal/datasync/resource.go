// Package datasync keeps a local copy of remote data together with its
// loading flag and last error, so callers can render whatever state they
// have while fetches come and go.
package datasync

import (
	"context"
	"sync"
	"time"
)

// Fetcher loads one value from the store
type Fetcher[T any] func(ctx context.Context) (T, error)

// State is a point-in-time view of a Resource
type State[T any] struct {
	Data     T
	Loading  bool
	Err      error
	LoadedAt time.Time
}

// Observer receives fetch outcomes, typically for metrics
type Observer interface {
	ObserveFetch(view string, err error)
	ObserveDedup(view string)
}

type options struct {
	group    *Group
	key      string
	view     string
	observer Observer
}

type Option func(*options)

// WithGroup routes fetches through g under key so concurrent identical
// loads share one round trip.
func WithGroup(g *Group, key string) Option {
	return func(o *options) {
		o.group = g
		o.key = key
	}
}

// WithObserver reports each fetch of view to obs
func WithObserver(view string, obs Observer) Option {
	return func(o *options) {
		o.view = view
		o.observer = obs
	}
}

// Resource holds the data returned by one Fetcher. A failed load keeps the
// previous data and records the error.
type Resource[T any] struct {
	fetch Fetcher[T]
	opts  options

	mu       sync.RWMutex
	state    State[T]
	inflight int
}

func NewResource[T any](fetch Fetcher[T], opts ...Option) *Resource[T] {
	r := &Resource[T]{fetch: fetch}
	for _, opt := range opts {
		opt(&r.opts)
	}
	return r
}

// Load runs the fetcher and stores its result. It returns the fetch error,
// which is also kept in the state.
// Loading stays set until every overlapping load has finished.
func (r *Resource[T]) Load(ctx context.Context) error {
	r.mu.Lock()
	r.inflight++
	r.state.Loading = true
	r.mu.Unlock()

	data, err := r.do(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inflight--
	r.state.Loading = r.inflight > 0
	if err != nil {
		r.state.Err = err
		return err
	}
	r.state.Data = data
	r.state.Err = nil
	r.state.LoadedAt = time.Now()
	return nil
}

// Refresh re-runs the fetcher on demand. Unlike Load it never joins a fetch
// already in flight, so it observes writes made after that fetch started.
func (r *Resource[T]) Refresh(ctx context.Context) error {
	if r.opts.group != nil {
		r.opts.group.Forget(r.opts.key)
	}
	return r.Load(ctx)
}

func (r *Resource[T]) do(ctx context.Context) (T, error) {
	if r.opts.group == nil {
		data, err := r.fetch(ctx)
		r.observe(err)
		return data, err
	}

	data, err, shared := doShared[T](ctx, r.opts.group, r.opts.key, r.fetch)
	if shared && r.opts.observer != nil {
		r.opts.observer.ObserveDedup(r.opts.view)
	}
	r.observe(err)
	return data, err
}

func (r *Resource[T]) observe(err error) {
	if r.opts.observer != nil {
		r.opts.observer.ObserveFetch(r.opts.view, err)
	}
}

// LoadedAt returns when the last successful load finished, zero if none has
func (r *Resource[T]) LoadedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.LoadedAt
}

// Snapshot returns a copy of the current state
func (r *Resource[T]) Snapshot() State[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Data returns the current data
func (r *Resource[T]) Data() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Data
}

// Set replaces the local data and clears the error
func (r *Resource[T]) Set(data T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Data = data
	r.state.Err = nil
}

// Update replaces the local data with fn applied to it
func (r *Resource[T]) Update(fn func(T) T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Data = fn(r.state.Data)
	r.state.Err = nil
}
