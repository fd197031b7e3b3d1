package btree

import (
	"context"
	"iter"

	"github.com/bplustree-go/bplustree"
)

// BtreeInterface defines the public API of the B+ tree engine.
type BtreeInterface[TK Ordered, TV any] interface {
	// Upsert adds the entry if the key does not exist or replaces its value
	// in place if it does. Returns true if a new entry was inserted.
	Upsert(ctx context.Context, key TK, value TV) (bool, error)

	// Get returns the value stored under key, or a KeyNotFound error.
	Get(ctx context.Context, key TK) (TV, error)

	// Contains reports whether key is present.
	Contains(ctx context.Context, key TK) (bool, error)

	// Remove deletes the entry with the given key, or returns a KeyNotFound
	// error and leaves the tree untouched.
	Remove(ctx context.Context, key TK) error

	// Count returns the number of entries in this B+ tree.
	Count() int64

	// First positions the cursor on the smallest key.
	// Use GetCurrentKey/GetCurrentValue to retrieve the current entry.
	First(ctx context.Context) (bool, error)
	// Next advances the cursor to the next entry as per key ordering.
	Next(ctx context.Context) (bool, error)
	// GetCurrentKey returns the cursor entry's key.
	GetCurrentKey() TK
	// GetCurrentValue returns the cursor entry's value.
	GetCurrentValue(ctx context.Context) (TV, error)

	// Keys returns a lazy, restartable sequence of all keys in ascending
	// order. Each call yields an independent single-pass iterator.
	Keys(ctx context.Context) iter.Seq[TK]
	// Items returns a lazy, restartable sequence of all entries in ascending
	// key order.
	Items(ctx context.Context) iter.Seq2[TK, TV]
	// Range returns the entries with start <= key < end, in ascending order.
	Range(ctx context.Context, start TK, end TK) iter.Seq2[TK, TV]

	// GetStoreInfo returns details about this B+ tree store.
	GetStoreInfo() StoreInfo
}

// NodeRepository specifies the node store used by the B+ tree. Nodes are
// addressed by ID; the repository owns nothing but the lookup.
type NodeRepository[TK Ordered, TV any] interface {
	// Add registers a newly created node.
	Add(node *Node[TK, TV])
	// Get returns the node with the given ID, or nil if absent.
	Get(ctx context.Context, nodeID bplustree.UUID) (*Node[TK, TV], error)
	// Update registers a mutation of an existing node.
	Update(node *Node[TK, TV])
	// Remove drops the node with the given ID.
	Remove(nodeID bplustree.UUID)
}
