package bench

import (
	"fmt"
	"iter"

	"github.com/bplustree-go/bplustree/inmemory"
)

// BPlusTree wraps the in-memory B+ tree behind the Index interface.
type BPlusTree struct {
	tree *inmemory.Btree[int64, []byte]
}

// NewBPlusTree creates a B+ tree index with the given node capacity.
func NewBPlusTree(capacity int) (*BPlusTree, error) {
	t, err := inmemory.NewBtree[int64, []byte](capacity)
	if err != nil {
		return nil, fmt.Errorf("bptree: new: %w", err)
	}
	return &BPlusTree{tree: t}, nil
}

// Insert inserts or updates the value for key.
func (b *BPlusTree) Insert(key int64, value []byte) error {
	b.tree.Set(key, value)
	return nil
}

// Get retrieves the value for key. Returns nil if not found.
func (b *BPlusTree) Get(key int64) ([]byte, error) {
	v, _ := b.tree.Get(key)
	return v, nil
}

// Delete removes the key from the index.
func (b *BPlusTree) Delete(key int64) error {
	b.tree.Delete(key)
	return nil
}

// Range returns an iterator over all keys in [start, end] inclusive.
// The facade's Range has an exclusive upper bound, so widen it by one.
func (b *BPlusTree) Range(start, end int64) (Iterator, error) {
	next, stop := iter.Pull2(b.tree.Range(start, end+1))
	return &bptreeIterator{next: next, stop: stop}, nil
}

// Close drops the tree's contents.
func (b *BPlusTree) Close() error {
	b.tree.Clear()
	return nil
}

type bptreeIterator struct {
	next func() (int64, []byte, bool)
	stop func()
	key  int64
	val  []byte
}

func (it *bptreeIterator) Next() bool {
	k, v, ok := it.next()
	if !ok {
		return false
	}
	it.key = k
	it.val = v
	return true
}

func (it *bptreeIterator) Key() int64    { return it.key }
func (it *bptreeIterator) Value() []byte { return it.val }
func (it *bptreeIterator) Error() error  { return nil }
func (it *bptreeIterator) Close() error {
	it.stop()
	return nil
}
