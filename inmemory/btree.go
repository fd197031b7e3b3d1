// Package inmemory wires the B+ tree engine to a map-backed node repository
// and exposes it through a mapping facade: no contexts, no error plumbing,
// dict-style conveniences. Use it where an ordered replacement for a Go map
// is wanted; use the btree package directly for full control.
package inmemory

import (
	"context"
	"iter"

	"github.com/bplustree-go/bplustree"
	"github.com/bplustree-go/bplustree/btree"
)

// Btree is an in-memory B+ tree with a map-like API. Keys are kept in
// ascending order, so iteration is sorted and range queries are cheap.
// Not safe for concurrent use without external synchronization.
type Btree[TK btree.Ordered, TV any] struct {
	b3       *btree.Btree[TK, TV]
	comparer btree.ComparerFunc[TK]
}

// NewBtree creates an in-memory B+ tree with the given per-node capacity
// (use btree.DefaultCapacity when in doubt) and the default key ordering.
// Fails with an InvalidConfiguration error if capacity is below
// btree.MinimumCapacity.
func NewBtree[TK btree.Ordered, TV any](capacity int) (*Btree[TK, TV], error) {
	return NewBtreeWithComparer[TK, TV](capacity, nil)
}

// NewBtreeWithComparer is NewBtree with a caller-supplied total order for
// keys.
func NewBtreeWithComparer[TK btree.Ordered, TV any](capacity int, comparer btree.ComparerFunc[TK]) (*Btree[TK, TV], error) {
	si := btree.NewStoreInfo("", capacity)
	b3, err := btree.New(&si, newNodeRepository[TK, TV](), comparer)
	if err != nil {
		return nil, err
	}
	return &Btree[TK, TV]{b3: b3, comparer: comparer}, nil
}

// FromSortedItems builds a tree from entries that are already sorted by key.
// Entries are applied as ordinary upserts; later duplicates overwrite earlier
// ones.
func FromSortedItems[TK btree.Ordered, TV any](capacity int, items iter.Seq2[TK, TV]) (*Btree[TK, TV], error) {
	m, err := NewBtree[TK, TV](capacity)
	if err != nil {
		return nil, err
	}
	m.UpdateFrom(items)
	return m, nil
}

// Set inserts the entry or replaces the value of an existing one. Returns
// true if a new entry was inserted.
func (m *Btree[TK, TV]) Set(key TK, value TV) bool {
	inserted, _ := m.b3.Upsert(context.Background(), key, value)
	return inserted
}

// Get returns the value stored under key and whether it was found.
func (m *Btree[TK, TV]) Get(key TK) (TV, bool) {
	v, err := m.b3.Get(context.Background(), key)
	return v, err == nil
}

// GetWithDefault returns the value stored under key, or defaultValue if the
// key is absent.
func (m *Btree[TK, TV]) GetWithDefault(key TK, defaultValue TV) TV {
	if v, ok := m.Get(key); ok {
		return v
	}
	return defaultValue
}

// Contains reports whether key is present.
func (m *Btree[TK, TV]) Contains(key TK) bool {
	found, _ := m.b3.Contains(context.Background(), key)
	return found
}

// Delete removes the entry with the given key, reporting whether it existed.
func (m *Btree[TK, TV]) Delete(key TK) bool {
	return m.b3.Remove(context.Background(), key) == nil
}

// Len returns the number of entries.
func (m *Btree[TK, TV]) Len() int {
	return int(m.b3.Count())
}

// Keys returns a lazy sequence of all keys in ascending order.
func (m *Btree[TK, TV]) Keys() iter.Seq[TK] {
	return m.b3.Keys(context.Background())
}

// Values returns a lazy sequence of all values in ascending key order.
func (m *Btree[TK, TV]) Values() iter.Seq[TV] {
	return func(yield func(TV) bool) {
		for _, v := range m.b3.Items(context.Background()) {
			if !yield(v) {
				return
			}
		}
	}
}

// Items returns a lazy sequence of all entries in ascending key order.
func (m *Btree[TK, TV]) Items() iter.Seq2[TK, TV] {
	return m.b3.Items(context.Background())
}

// Range returns the entries with start <= key < end in ascending key order.
func (m *Btree[TK, TV]) Range(start TK, end TK) iter.Seq2[TK, TV] {
	return m.b3.Range(context.Background(), start, end)
}

// Pop removes the entry with the given key and returns its value, if any.
func (m *Btree[TK, TV]) Pop(key TK) (TV, bool) {
	v, err := m.b3.Get(context.Background(), key)
	if err != nil {
		var zero TV
		return zero, false
	}
	m.b3.Remove(context.Background(), key)
	return v, true
}

// PopFirst removes and returns the entry with the smallest key.
func (m *Btree[TK, TV]) PopFirst() (TK, TV, bool) {
	ctx := context.Background()
	var zeroK TK
	var zeroV TV
	if ok, _ := m.b3.First(ctx); !ok {
		return zeroK, zeroV, false
	}
	k := m.b3.GetCurrentKey()
	v, err := m.b3.GetCurrentValue(ctx)
	if err != nil {
		return zeroK, zeroV, false
	}
	m.b3.Remove(ctx, k)
	return k, v, true
}

// SetDefault returns the value stored under key, inserting and returning
// defaultValue if the key is absent.
func (m *Btree[TK, TV]) SetDefault(key TK, defaultValue TV) TV {
	if v, ok := m.Get(key); ok {
		return v
	}
	m.Set(key, defaultValue)
	return defaultValue
}

// ToSlice materializes all entries as key-value pairs in ascending key order.
func (m *Btree[TK, TV]) ToSlice() []bplustree.KeyValuePair[TK, TV] {
	out := make([]bplustree.KeyValuePair[TK, TV], 0, m.Len())
	for k, v := range m.Items() {
		out = append(out, bplustree.KeyValuePair[TK, TV]{Key: k, Value: v})
	}
	return out
}

// UpdateFrom upserts every entry yielded by items.
func (m *Btree[TK, TV]) UpdateFrom(items iter.Seq2[TK, TV]) {
	for k, v := range items {
		m.Set(k, v)
	}
}

// Clear removes all entries, resetting to a single empty leaf root.
func (m *Btree[TK, TV]) Clear() {
	capacity := m.b3.GetStoreInfo().Capacity
	si := btree.NewStoreInfo("", capacity)
	// Construction with an already validated capacity cannot fail.
	b3, err := btree.New(&si, newNodeRepository[TK, TV](), m.comparer)
	if err != nil {
		panic(err)
	}
	m.b3 = b3
}

// GetStoreInfo returns details about the underlying B+ tree store.
func (m *Btree[TK, TV]) GetStoreInfo() btree.StoreInfo {
	return m.b3.GetStoreInfo()
}
