package btree

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/bplustree-go/bplustree"
)

// currentItemRef is the cursor: the leaf it sits on and the slot index within
// it. A nil node ID means the cursor is unpositioned.
type currentItemRef struct {
	nodeID        bplustree.UUID
	nodeItemIndex int
}

func (b3 *Btree[TK, TV]) setCurrentItem(node *Node[TK, TV], index int) {
	b3.currentItemRef = currentItemRef{nodeID: node.ID, nodeItemIndex: index}
	b3.currentKey = node.Keys[index]
}

func (b3 *Btree[TK, TV]) clearCurrentItem() {
	b3.currentItemRef = currentItemRef{}
	var zero TK
	b3.currentKey = zero
}

// First positions the cursor on the smallest key: the cached leftmost leaf,
// slot 0. Returns false on an empty tree.
func (b3 *Btree[TK, TV]) First(ctx context.Context) (bool, error) {
	leaf, err := b3.getNode(ctx, b3.StoreInfo.LeftmostLeafID)
	if err != nil {
		return false, err
	}
	if leaf == nil || leaf.Count == 0 {
		b3.clearCurrentItem()
		return false, nil
	}
	b3.setCurrentItem(leaf, 0)
	return true, nil
}

// Next advances the cursor one entry to the right, following the leaf chain
// across node boundaries. Returns false past the last entry. The cursor is
// not required to survive a structural mutation of the tree.
func (b3 *Btree[TK, TV]) Next(ctx context.Context) (bool, error) {
	if b3.currentItemRef.nodeID.IsNil() {
		return false, nil
	}
	node, err := b3.getNode(ctx, b3.currentItemRef.nodeID)
	if err != nil {
		return false, err
	}
	if node == nil {
		b3.clearCurrentItem()
		return false, nil
	}
	if i := b3.currentItemRef.nodeItemIndex + 1; i < node.Count {
		b3.setCurrentItem(node, i)
		return true, nil
	}
	for id := node.NextID; !id.IsNil(); {
		next, err := b3.getNode(ctx, id)
		if err != nil {
			return false, err
		}
		if next == nil {
			break
		}
		if next.Count > 0 {
			b3.setCurrentItem(next, 0)
			return true, nil
		}
		id = next.NextID
	}
	b3.clearCurrentItem()
	return false, nil
}

// GetCurrentKey returns the cursor entry's key, or the zero key when the
// cursor is unpositioned.
func (b3 *Btree[TK, TV]) GetCurrentKey() TK {
	return b3.currentKey
}

// GetCurrentValue returns the cursor entry's value.
func (b3 *Btree[TK, TV]) GetCurrentValue(ctx context.Context) (TV, error) {
	var zero TV
	if b3.currentItemRef.nodeID.IsNil() {
		return zero, fmt.Errorf("cursor is not positioned on an entry")
	}
	node, err := b3.getNode(ctx, b3.currentItemRef.nodeID)
	if err != nil {
		return zero, err
	}
	if node == nil || b3.currentItemRef.nodeItemIndex >= node.Count {
		return zero, fmt.Errorf("cursor is not positioned on an entry")
	}
	return node.Values[b3.currentItemRef.nodeItemIndex], nil
}

// Items returns a lazy sequence of all entries in ascending key order,
// produced by walking the leaf chain from the cached leftmost leaf. Each call
// yields an independent, single-pass iterator; request a new one to restart.
func (b3 *Btree[TK, TV]) Items(ctx context.Context) iter.Seq2[TK, TV] {
	return func(yield func(TK, TV) bool) {
		id := b3.StoreInfo.LeftmostLeafID
		for !id.IsNil() {
			node, err := b3.getNode(ctx, id)
			if err != nil || node == nil {
				slog.Error("stopping iteration, leaf fetch failed", "nodeID", id.String(), "error", err)
				return
			}
			for i := 0; i < node.Count; i++ {
				if !yield(node.Keys[i], node.Values[i]) {
					return
				}
			}
			id = node.NextID
		}
	}
}

// Keys returns a lazy sequence of all keys in ascending order.
func (b3 *Btree[TK, TV]) Keys(ctx context.Context) iter.Seq[TK] {
	return func(yield func(TK) bool) {
		for k := range b3.Items(ctx) {
			if !yield(k) {
				return
			}
		}
	}
}

// Range returns the entries with start <= key < end in ascending key order.
// The walk seeks the leaf where start belongs, then follows the leaf chain
// until a key reaches end.
func (b3 *Btree[TK, TV]) Range(ctx context.Context, start TK, end TK) iter.Seq2[TK, TV] {
	return func(yield func(TK, TV) bool) {
		node, index, _, err := b3.findLeaf(ctx, start)
		if err != nil {
			slog.Error("stopping range iteration, seek failed", "error", err)
			return
		}
		for node != nil {
			for i := index; i < node.Count; i++ {
				if b3.compare(node.Keys[i], end) >= 0 {
					return
				}
				if !yield(node.Keys[i], node.Values[i]) {
					return
				}
			}
			if node.NextID.IsNil() {
				return
			}
			node, err = b3.getNode(ctx, node.NextID)
			if err != nil {
				slog.Error("stopping range iteration, leaf fetch failed", "error", err)
				return
			}
			index = 0
		}
	}
}
