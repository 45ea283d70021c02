package datasync

// Identifiable records can be merged into a Collection by id
type Identifiable interface {
	GetID() string
}

// Collection is a Resource over a list of records with id-based mutators
type Collection[T Identifiable] struct {
	*Resource[[]T]
}

func NewCollection[T Identifiable](fetch Fetcher[[]T], opts ...Option) *Collection[T] {
	return &Collection[T]{Resource: NewResource(fetch, opts...)}
}

// Items returns a copy of the records
func (c *Collection[T]) Items() []T {
	data := c.Data()
	out := make([]T, len(data))
	copy(out, data)
	return out
}

// Find returns the record with id
func (c *Collection[T]) Find(id string) (T, bool) {
	for _, item := range c.Data() {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Merge replaces the record sharing item's id. It reports whether one was found.
func (c *Collection[T]) Merge(item T) bool {
	found := false
	c.Update(func(items []T) []T {
		out := make([]T, len(items))
		for i, existing := range items {
			if existing.GetID() == item.GetID() {
				out[i] = item
				found = true
				continue
			}
			out[i] = existing
		}
		return out
	})
	return found
}

// Prepend inserts item at the front
func (c *Collection[T]) Prepend(item T) {
	c.Update(func(items []T) []T {
		out := make([]T, 0, len(items)+1)
		out = append(out, item)
		return append(out, items...)
	})
}

// Append adds item at the end
func (c *Collection[T]) Append(item T) {
	c.Update(func(items []T) []T {
		out := make([]T, 0, len(items)+1)
		out = append(out, items...)
		return append(out, item)
	})
}

// Remove drops the record with id. It reports whether one was removed.
func (c *Collection[T]) Remove(id string) bool {
	removed := false
	c.Update(func(items []T) []T {
		out := make([]T, 0, len(items))
		for _, existing := range items {
			if existing.GetID() == id {
				removed = true
				continue
			}
			out = append(out, existing)
		}
		return out
	})
	return removed
}

// Clear empties the collection
func (c *Collection[T]) Clear() {
	c.Set([]T{})
}

// UpdateWhere applies fn to every record matching pred and returns how many changed
func (c *Collection[T]) UpdateWhere(pred func(T) bool, fn func(T) T) int {
	n := 0
	c.Update(func(items []T) []T {
		out := make([]T, len(items))
		for i, existing := range items {
			if pred(existing) {
				out[i] = fn(existing)
				n++
				continue
			}
			out[i] = existing
		}
		return out
	})
	return n
}
