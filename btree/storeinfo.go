package btree

import "github.com/bplustree-go/bplustree"

const (
	// MinimumCapacity is the smallest per-node key capacity a tree can be
	// constructed with. Below this the occupancy invariants degenerate.
	MinimumCapacity = 2
	// DefaultCapacity is used when no capacity is specified.
	DefaultCapacity = 128
)

// StoreInfo contains a B+ tree store's metadata. It is the single place the
// tree's bookkeeping lives: capacity, occupancy floor, entry count and the
// root/leftmost node handles.
type StoreInfo struct {
	// Name of this B+ tree store.
	Name string
	// Capacity is the maximum count of keys a node can hold. Fixed at
	// construction.
	Capacity int
	// MinimumKeys is the occupancy floor (Capacity / 2) any non-root node
	// must retain after a delete.
	MinimumKeys int
	// Count of entries stored, maintained incrementally.
	Count int64
	// RootNodeID is the root node's ID.
	RootNodeID bplustree.UUID
	// LeftmostLeafID caches the head of the leaf chain so iteration can be
	// seeded in O(1).
	LeftmostLeafID bplustree.UUID
	// Version number.
	Version int32
}

// NewStoreInfo instantiates store metadata with the given name and node
// capacity. Zero or negative capacity selects DefaultCapacity. Capacity
// validation happens in New, not here.
func NewStoreInfo(name string, capacity int) StoreInfo {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return StoreInfo{
		Name:        name,
		Capacity:    capacity,
		MinimumKeys: capacity / 2,
	}
}
