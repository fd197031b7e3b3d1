// Package btree implements an in-memory B+ tree: an ordered key-value index
// with logarithmic point operations and linear ordered iteration over a
// sibling-linked leaf chain. Nodes are addressed by UUID through a
// NodeRepository so parent->child edges stay strictly hierarchical and the
// leaf chain remains a non-owning lookup reference.
//
// The engine performs no internal locking; at most one mutating operation may
// be in flight at a time, and readers require external synchronization while
// a mutation runs.
package btree

import (
	"context"
	"fmt"

	"github.com/bplustree-go/bplustree"
)

// Btree is the B+ tree engine. It owns the root, tracks entry count and
// occupancy thresholds through StoreInfo, and composes search, the insertion
// engine and the deletion engine.
type Btree[TK Ordered, TV any] struct {
	StoreInfo      *StoreInfo
	nodeRepository NodeRepository[TK, TV]
	comparer       ComparerFunc[TK]
	currentItemRef currentItemRef
	currentKey     TK

	// Scratch buffers reused by node splits, sized capacity+1 keys/values
	// and capacity+2 children.
	tempKeys     []TK
	tempValues   []TV
	tempChildren []bplustree.UUID
}

// pathEntry records one step of a root-to-leaf traversal: the branch node
// visited and the child index descended into. Insertion and deletion walk
// this path back up to propagate structural changes without re-searching.
type pathEntry[TK Ordered, TV any] struct {
	node       *Node[TK, TV]
	childIndex int
}

// New creates a B+ tree on the given store metadata and node repository.
// Returns an InvalidConfiguration error if storeInfo or nodeRepository is nil
// or the capacity is below MinimumCapacity. A nil comparer selects the
// default ordering (see Compare).
func New[TK Ordered, TV any](storeInfo *StoreInfo, nodeRepository NodeRepository[TK, TV], comparer ComparerFunc[TK]) (*Btree[TK, TV], error) {
	if storeInfo == nil || nodeRepository == nil {
		return nil, bplustree.Error{
			Code:     bplustree.InvalidConfiguration,
			Err:      bplustree.ErrInvalidConfiguration,
			UserData: "storeInfo and nodeRepository are required",
		}
	}
	if storeInfo.Capacity < MinimumCapacity {
		return nil, bplustree.Error{
			Code:     bplustree.InvalidConfiguration,
			Err:      bplustree.ErrInvalidConfiguration,
			UserData: fmt.Sprintf("capacity %d is below the minimum of %d", storeInfo.Capacity, MinimumCapacity),
		}
	}
	storeInfo.MinimumKeys = storeInfo.Capacity / 2
	if comparer == nil {
		comparer = defaultComparer[TK]()
	}
	b3 := &Btree[TK, TV]{
		StoreInfo:      storeInfo,
		nodeRepository: nodeRepository,
		comparer:       comparer,
		tempKeys:       make([]TK, storeInfo.Capacity+1),
		tempValues:     make([]TV, storeInfo.Capacity+1),
		tempChildren:   make([]bplustree.UUID, storeInfo.Capacity+2),
	}
	if storeInfo.RootNodeID.IsNil() {
		// A brand new tree starts out as a single empty leaf root.
		root := newLeafNode[TK, TV](storeInfo.Capacity)
		nodeRepository.Add(root)
		storeInfo.RootNodeID = root.ID
		storeInfo.LeftmostLeafID = root.ID
	}
	return b3, nil
}

// Get returns the value stored under key, or a KeyNotFound error.
func (b3 *Btree[TK, TV]) Get(ctx context.Context, key TK) (TV, error) {
	var zero TV
	leaf, index, found, err := b3.findLeaf(ctx, key)
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, bplustree.Error{
			Code:     bplustree.KeyNotFound,
			Err:      bplustree.ErrKeyNotFound,
			UserData: key,
		}
	}
	return leaf.Values[index], nil
}

// Contains reports whether key is present.
func (b3 *Btree[TK, TV]) Contains(ctx context.Context, key TK) (bool, error) {
	_, _, found, err := b3.findLeaf(ctx, key)
	return found, err
}

// Count returns the number of entries in this B+ tree.
func (b3 *Btree[TK, TV]) Count() int64 {
	return b3.StoreInfo.Count
}

// GetStoreInfo returns details about this B+ tree store.
func (b3 *Btree[TK, TV]) GetStoreInfo() StoreInfo {
	return *b3.StoreInfo
}

func (b3 *Btree[TK, TV]) compare(a TK, b TK) int {
	return b3.comparer(a, b)
}

// findLeaf locates the leaf where key lives or belongs. It returns the leaf,
// the exact slot index if found or the insertion point otherwise, and a found
// flag. Search is side-effect free and never mutates the tree.
func (b3 *Btree[TK, TV]) findLeaf(ctx context.Context, key TK) (*Node[TK, TV], int, bool, error) {
	node, err := b3.getRootNode(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	for !node.isLeaf() {
		node, err = b3.getNode(ctx, node.ChildrenIDs[node.childIndex(b3, key)])
		if err != nil {
			return nil, 0, false, err
		}
		if node == nil {
			return nil, 0, false, fmt.Errorf("encountered a missing child node while descending")
		}
	}
	index, found := node.indexOf(b3, key)
	return node, index, found, nil
}

// findLeafWithPath is findLeaf plus the full ancestor path of
// (node, child index) pairs, which the insertion and deletion engines need to
// propagate splits and merges upward.
func (b3 *Btree[TK, TV]) findLeafWithPath(ctx context.Context, key TK) (*Node[TK, TV], []pathEntry[TK, TV], int, bool, error) {
	node, err := b3.getRootNode(ctx)
	if err != nil {
		return nil, nil, 0, false, err
	}
	var path []pathEntry[TK, TV]
	for !node.isLeaf() {
		i := node.childIndex(b3, key)
		path = append(path, pathEntry[TK, TV]{node: node, childIndex: i})
		node, err = b3.getNode(ctx, node.ChildrenIDs[i])
		if err != nil {
			return nil, nil, 0, false, err
		}
		if node == nil {
			return nil, nil, 0, false, fmt.Errorf("encountered a missing child node while descending")
		}
	}
	index, found := node.indexOf(b3, key)
	return node, path, index, found, nil
}

func (b3 *Btree[TK, TV]) getRootNode(ctx context.Context) (*Node[TK, TV], error) {
	root, err := b3.getNode(ctx, b3.StoreInfo.RootNodeID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("can't get root (ID='%v') of this tree", b3.StoreInfo.RootNodeID)
	}
	return root, nil
}

func (b3 *Btree[TK, TV]) getNode(ctx context.Context, nodeID bplustree.UUID) (*Node[TK, TV], error) {
	return b3.nodeRepository.Get(ctx, nodeID)
}

func (b3 *Btree[TK, TV]) saveNode(node *Node[TK, TV]) {
	b3.nodeRepository.Update(node)
}
