// Package memory implements the resource repositories as mutex-guarded
// in-process collections seeded with fixture records. State is lost on
// restart; the Postgres repositories cover the resources that persist.
package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// idCounter is seeded with the startup time in milliseconds so generated ids
// stay unique and roughly time-ordered across a single process lifetime.
var idCounter atomic.Int64

func init() {
	idCounter.Store(time.Now().UnixMilli())
}

// NewID returns a resource id of the form {prefix}-{sequence}.
func NewID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, idCounter.Add(1))
}

// collection is a generic mutex-guarded record slice. Callers receive copies;
// mutations go through Insert/Replace/Remove so readers never observe a torn
// write.
type collection[T any] struct {
	mu    sync.RWMutex
	items []T
	keyFn func(*T) string
}

func newCollection[T any](keyFn func(*T) string) *collection[T] {
	return &collection[T]{keyFn: keyFn}
}

// List returns copies of all records matching the predicate. A nil predicate
// matches everything.
func (c *collection[T]) List(match func(*T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.items))
	for i := range c.items {
		if match == nil || match(&c.items[i]) {
			out = append(out, c.items[i])
		}
	}
	return out
}

// Get returns a copy of the record with the given id.
func (c *collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.items {
		if c.keyFn(&c.items[i]) == id {
			return c.items[i], true
		}
	}
	var zero T
	return zero, false
}

// Insert appends a record.
func (c *collection[T]) Insert(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
}

// Replace swaps the record with the same id for item.
func (c *collection[T]) Replace(item T) bool {
	id := c.keyFn(&item)
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.keyFn(&c.items[i]) == id {
			c.items[i] = item
			return true
		}
	}
	return false
}

// Mutate applies fn to the stored record under the write lock and returns a
// copy of the result. Counter bumps and other read-modify-write updates must
// go through here; a Get-then-Replace pair can lose concurrent updates.
func (c *collection[T]) Mutate(id string, fn func(*T)) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.keyFn(&c.items[i]) == id {
			fn(&c.items[i])
			return c.items[i], true
		}
	}
	var zero T
	return zero, false
}

// Remove splices out the record with the given id.
func (c *collection[T]) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.keyFn(&c.items[i]) == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Len reports the current record count.
func (c *collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// sortNewestFirst orders records by created_at descending, the default list
// order for every resource.
func sortNewestFirst[T any](items []T, createdAt func(*T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(&items[i]).After(createdAt(&items[j]))
	})
}

// containsFold reports whether s contains substr case-insensitively. Used by
// the free-text search filters.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// tagsIntersect reports whether have shares at least one tag with want.
func tagsIntersect(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// inRange reports whether t falls within the optional [from, to] bounds.
func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
