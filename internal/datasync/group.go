package datasync

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Group de-duplicates concurrent fetches that share a key such as
// "requests:pending" or "donor:<id>".
type Group struct {
	sf singleflight.Group
}

func NewGroup() *Group {
	return &Group{}
}

// Key builds the de-duplication key of an entity fetch
func Key(entity, id string) string {
	if id == "" {
		return entity
	}
	return entity + ":" + id
}

// Forget drops an in-flight key so the next fetch starts a new round trip
func (g *Group) Forget(key string) {
	g.sf.Forget(key)
}

// doShared runs fn once per key for every concurrent caller. The shared fetch
// is detached from the cancellation of whichever caller started it; a caller
// whose ctx ends stops waiting without failing the others.
func doShared[T any](ctx context.Context, g *Group, key string, fn func(context.Context) (T, error)) (T, error, bool) {
	detached := context.WithoutCancel(ctx)
	ch := g.sf.DoChan(key, func() (interface{}, error) {
		return fn(detached)
	})

	var data T
	select {
	case <-ctx.Done():
		return data, ctx.Err(), false
	case res := <-ch:
		if res.Val != nil {
			data = res.Val.(T)
		}
		return data, res.Err, res.Shared
	}
}
