package store

import "sync"

// Collection holds an ordered sequence of normalized records for one
// entity kind, plus the loading and has-more flags the UI reads. Records
// are addressed by their numeric id, scoped to this collection only.
//
// Mutations come from the single logical writer (a façade call or the TUI
// update loop); the mutex exists so views may read while a fetch resolves.
// Interleaved replace/append calls for out-of-order pages are not
// coordinated: the last call to resolve wins.
type Collection[T any] struct {
	mu      sync.RWMutex
	items   []T
	loading bool
	hasMore bool
	idOf    func(T) int64
}

// NewCollection creates a collection keyed by the given id accessor.
func NewCollection[T any](idOf func(T) int64) *Collection[T] {
	return &Collection[T]{idOf: idOf}
}

// Items returns a copy of the current sequence in order.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Loading reports whether a fetch is in flight.
func (c *Collection[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// HasMore reports whether the server indicated a following page.
func (c *Collection[T]) HasMore() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hasMore
}

func (c *Collection[T]) setLoading(loading bool) {
	c.mu.Lock()
	c.loading = loading
	c.mu.Unlock()
}

// ApplyPage merges one fetched page: page 1 replaces the sequence, later
// pages append to it. Callers pass sequential page numbers.
func (c *Collection[T]) ApplyPage(page int, items []T, hasMore bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page <= 1 {
		c.items = append([]T(nil), items...)
	} else {
		c.items = append(c.items, items...)
	}
	c.hasMore = hasMore
}

// Replace swaps the whole sequence.
func (c *Collection[T]) Replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T(nil), items...)
}

// Append adds one record at the end.
func (c *Collection[T]) Append(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
}

// InsertFront prepends one record.
func (c *Collection[T]) InsertFront(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T{item}, c.items...)
}

// MutateByID applies patch to the record with the given id, in place.
// Silently a no-op when the id is not present.
func (c *Collection[T]) MutateByID(id int64, patch func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.idOf(c.items[i]) == id {
			patch(&c.items[i])
			return true
		}
	}
	return false
}

// MutateAll applies patch to every record in place.
func (c *Collection[T]) MutateAll(patch func(*T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		patch(&c.items[i])
	}
}

// RemoveByID removes the record with the given id. A no-op when absent.
func (c *Collection[T]) RemoveByID(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.idOf(c.items[i]) == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}
