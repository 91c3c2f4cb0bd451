package memory

import (
	"strings"
	"sync"
	"testing"
	"time"
)

type record struct {
	ID        string
	Name      string
	Count     int
	CreatedAt time.Time
}

func newRecordCollection() *collection[record] {
	return newCollection(func(r *record) string { return r.ID })
}

func TestCollectionCRUD(t *testing.T) {
	c := newRecordCollection()

	c.Insert(record{ID: "a", Name: "first"})
	c.Insert(record{ID: "b", Name: "second"})

	if got := c.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}

	got, ok := c.Get("a")
	if !ok || got.Name != "first" {
		t.Errorf("Get(a) = %+v, %v", got, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) = true, want false")
	}

	if !c.Replace(record{ID: "a", Name: "updated"}) {
		t.Error("Replace(a) = false, want true")
	}
	if c.Replace(record{ID: "missing"}) {
		t.Error("Replace(missing) = true, want false")
	}
	got, _ = c.Get("a")
	if got.Name != "updated" {
		t.Errorf("Name after replace = %q, want updated", got.Name)
	}

	if !c.Remove("b") {
		t.Error("Remove(b) = false, want true")
	}
	if c.Remove("b") {
		t.Error("Remove(b) twice = true, want false")
	}
	if got := c.Len(); got != 1 {
		t.Errorf("Len() after remove = %d, want 1", got)
	}
}

func TestCollectionMutate(t *testing.T) {
	c := newRecordCollection()
	c.Insert(record{ID: "a", Name: "first"})

	got, ok := c.Mutate("a", func(r *record) { r.Count++ })
	if !ok || got.Count != 1 {
		t.Errorf("Mutate(a) = %+v, %v", got, ok)
	}
	stored, _ := c.Get("a")
	if stored.Count != 1 {
		t.Errorf("Count after mutate = %d, want 1", stored.Count)
	}

	if _, ok := c.Mutate("missing", func(r *record) { r.Count++ }); ok {
		t.Error("Mutate(missing) = true, want false")
	}
}

func TestCollectionMutateConcurrent(t *testing.T) {
	c := newRecordCollection()
	c.Insert(record{ID: "a"})

	const goroutines = 8
	const perGoroutine = 500

	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perGoroutine {
				c.Mutate("a", func(r *record) { r.Count++ })
			}
		}()
	}
	wg.Wait()

	got, _ := c.Get("a")
	if want := goroutines * perGoroutine; got.Count != want {
		t.Errorf("Count = %d, want %d", got.Count, want)
	}
}

func TestCollectionReturnsCopies(t *testing.T) {
	c := newRecordCollection()
	c.Insert(record{ID: "a", Name: "original"})

	got, _ := c.Get("a")
	got.Name = "mutated"

	again, _ := c.Get("a")
	if again.Name != "original" {
		t.Errorf("stored Name = %q, want original", again.Name)
	}
}

func TestCollectionListPredicate(t *testing.T) {
	c := newRecordCollection()
	c.Insert(record{ID: "a", Name: "pour slab"})
	c.Insert(record{ID: "b", Name: "strip forms"})
	c.Insert(record{ID: "c", Name: "pour footings"})

	all := c.List(nil)
	if len(all) != 3 {
		t.Errorf("List(nil) = %d records, want 3", len(all))
	}

	pours := c.List(func(r *record) bool { return strings.HasPrefix(r.Name, "pour") })
	if len(pours) != 2 {
		t.Errorf("List(pour*) = %d records, want 2", len(pours))
	}
}

func TestSortNewestFirst(t *testing.T) {
	now := time.Now()
	items := []record{
		{ID: "old", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "new", CreatedAt: now},
		{ID: "mid", CreatedAt: now.Add(-time.Hour)},
	}
	sortNewestFirst(items, func(r *record) time.Time { return r.CreatedAt })

	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("items[%d] = %q, want %q", i, items[i].ID, id)
		}
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		id := NewID("rec")
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
		if !strings.HasPrefix(id, "rec-") {
			t.Fatalf("id %q missing prefix", id)
		}
	}
}
