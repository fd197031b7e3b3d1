package btree

import (
	"context"

	"github.com/bplustree-go/bplustree"
)

// Remove deletes the entry with the given key. Returns a KeyNotFound error
// and leaves the tree untouched if the key is absent. An underflowing leaf is
// refilled from a sibling or merged away, and the repair propagates up the
// recorded ancestor path; the tree may shrink by one level.
func (b3 *Btree[TK, TV]) Remove(ctx context.Context, key TK) error {
	leaf, path, index, found, err := b3.findLeafWithPath(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return bplustree.Error{
			Code:     bplustree.KeyNotFound,
			Err:      bplustree.ErrKeyNotFound,
			UserData: key,
		}
	}
	leaf.removeSlotItem(index)
	b3.saveNode(leaf)
	b3.StoreInfo.Count--
	return b3.rebalance(ctx, leaf, path)
}

// rebalance repairs occupancy after a removal, walking the recorded path
// upward. At each level it redistributes from a sibling with spare keys
// (left first, then right) or merges with a sibling (again preferring left),
// which removes a separator from the parent and may underflow it in turn.
// A branch root left with zero keys is replaced by its single child.
func (b3 *Btree[TK, TV]) rebalance(ctx context.Context, node *Node[TK, TV], path []pathEntry[TK, TV]) error {
	for len(path) > 0 {
		if node.Count >= b3.StoreInfo.MinimumKeys {
			return nil
		}
		parent := path[len(path)-1].node
		index := path[len(path)-1].childIndex
		path = path[:len(path)-1]

		var left, right *Node[TK, TV]
		var err error
		if index > 0 {
			if left, err = b3.getNode(ctx, parent.ChildrenIDs[index-1]); err != nil {
				return err
			}
		}
		if index < parent.Count {
			if right, err = b3.getNode(ctx, parent.ChildrenIDs[index+1]); err != nil {
				return err
			}
		}

		if left != nil && left.Count > b3.StoreInfo.MinimumKeys {
			b3.borrowFromLeft(parent, index, left, node)
			return nil
		}
		if right != nil && right.Count > b3.StoreInfo.MinimumKeys {
			b3.borrowFromRight(parent, index, node, right)
			return nil
		}

		if left != nil {
			b3.merge(parent, index-1, left, node)
		} else {
			b3.merge(parent, index, node, right)
		}
		node = parent
	}
	// node is the root here. A root leaf may hold down to zero keys; a root
	// branch drained to zero keys hands the tree over to its single child.
	if !node.isLeaf() && node.Count == 0 {
		b3.StoreInfo.RootNodeID = node.ChildrenIDs[0]
		b3.nodeRepository.Remove(node.ID)
	}
	return nil
}

// borrowFromLeft transfers the left sibling's last key (and value or child)
// across the shared boundary into node, then refreshes the separator in the
// parent to reflect the new boundary.
func (b3 *Btree[TK, TV]) borrowFromLeft(parent *Node[TK, TV], index int, left, node *Node[TK, TV]) {
	if node.isLeaf() {
		moveArrayElements(node.Keys, 1, 0, node.Count)
		moveArrayElements(node.Values, 1, 0, node.Count)
		node.Keys[0] = left.Keys[left.Count-1]
		node.Values[0] = left.Values[left.Count-1]
		node.Count++
		left.Count--
		clear(left.Keys[left.Count : left.Count+1])
		clear(left.Values[left.Count : left.Count+1])
		parent.Keys[index-1] = node.Keys[0]
	} else {
		moveArrayElements(node.Keys, 1, 0, node.Count)
		moveArrayElements(node.ChildrenIDs, 1, 0, node.Count+1)
		// The separator rotates down into node, the donated key rotates up.
		node.Keys[0] = parent.Keys[index-1]
		node.ChildrenIDs[0] = left.ChildrenIDs[left.Count]
		node.Count++
		parent.Keys[index-1] = left.Keys[left.Count-1]
		left.Count--
		clear(left.Keys[left.Count : left.Count+1])
		left.ChildrenIDs[left.Count+1] = bplustree.NilUUID
	}
	b3.saveNode(left)
	b3.saveNode(node)
	b3.saveNode(parent)
}

// borrowFromRight transfers the right sibling's first key (and value or
// child) into node and refreshes the separator in the parent.
func (b3 *Btree[TK, TV]) borrowFromRight(parent *Node[TK, TV], index int, node, right *Node[TK, TV]) {
	if node.isLeaf() {
		node.Keys[node.Count] = right.Keys[0]
		node.Values[node.Count] = right.Values[0]
		node.Count++
		right.removeSlotItem(0)
		parent.Keys[index] = right.Keys[0]
	} else {
		node.Keys[node.Count] = parent.Keys[index]
		node.ChildrenIDs[node.Count+1] = right.ChildrenIDs[0]
		node.Count++
		parent.Keys[index] = right.Keys[0]
		moveArrayElements(right.Keys, 0, 1, right.Count-1)
		moveArrayElements(right.ChildrenIDs, 0, 1, right.Count)
		right.Count--
		clear(right.Keys[right.Count : right.Count+1])
		right.ChildrenIDs[right.Count+1] = bplustree.NilUUID
	}
	b3.saveNode(right)
	b3.saveNode(node)
	b3.saveNode(parent)
}

// merge concatenates right into left and removes the now-redundant separator
// and child link from the parent. Leaf merges relink the sibling chain to
// skip the removed node; branch merges pull the separator down between the
// two halves. The combined key count always fits one node when neither
// sibling could donate.
func (b3 *Btree[TK, TV]) merge(parent *Node[TK, TV], sepIndex int, left, right *Node[TK, TV]) {
	if left.isLeaf() {
		copyArrayElements(left.Keys[left.Count:], right.Keys, right.Count)
		copyArrayElements(left.Values[left.Count:], right.Values, right.Count)
		left.Count += right.Count
		left.NextID = right.NextID
	} else {
		left.Keys[left.Count] = parent.Keys[sepIndex]
		copyArrayElements(left.Keys[left.Count+1:], right.Keys, right.Count)
		copyArrayElements(left.ChildrenIDs[left.Count+1:], right.ChildrenIDs, right.Count+1)
		left.Count += right.Count + 1
	}
	parent.removeChild(sepIndex)
	b3.saveNode(left)
	b3.saveNode(parent)
	b3.nodeRepository.Remove(right.ID)
}
