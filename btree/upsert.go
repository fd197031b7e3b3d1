package btree

import (
	"context"

	"github.com/bplustree-go/bplustree"
)

// Upsert adds the entry if the key does not exist or replaces its value in
// place if it does. Replacing never triggers a split and leaves Count
// unchanged. Returns true if a new entry was inserted.
func (b3 *Btree[TK, TV]) Upsert(ctx context.Context, key TK, value TV) (bool, error) {
	leaf, path, index, found, err := b3.findLeafWithPath(ctx, key)
	if err != nil {
		return false, err
	}
	if found {
		leaf.Values[index] = value
		b3.saveNode(leaf)
		return false, nil
	}
	if !leaf.isFull() {
		leaf.insertSlotItem(key, value, index)
		b3.saveNode(leaf)
		b3.StoreInfo.Count++
		return true, nil
	}
	// Leaf overflow: split and walk the recorded path up, promoting the
	// separator one level at a time until a parent absorbs it.
	separator, rightID := b3.splitLeaf(leaf, key, value, index)
	b3.promote(path, separator, rightID)
	b3.StoreInfo.Count++
	return true, nil
}

// splitLeaf breaks an overflowing leaf in two. The upper (ceiling) half of the
// capacity+1 keys/values moves to a new right sibling which is linked into the
// leaf chain, and the right sibling's first key is returned as the separator
// to promote. Both halves end with at least MinimumKeys for any capacity.
func (b3 *Btree[TK, TV]) splitLeaf(leaf *Node[TK, TV], key TK, value TV, index int) (TK, bplustree.UUID) {
	capacity := b3.StoreInfo.Capacity

	copyArrayElements(b3.tempKeys, leaf.Keys, capacity)
	copyArrayElements(b3.tempValues, leaf.Values, capacity)
	copy(b3.tempKeys[index+1:], b3.tempKeys[index:capacity])
	copy(b3.tempValues[index+1:], b3.tempValues[index:capacity])
	b3.tempKeys[index] = key
	b3.tempValues[index] = value

	mid := (capacity + 1) / 2
	right := newLeafNode[TK, TV](capacity)
	right.Count = capacity + 1 - mid
	copyArrayElements(right.Keys, b3.tempKeys[mid:], right.Count)
	copyArrayElements(right.Values, b3.tempValues[mid:], right.Count)

	clear(leaf.Keys)
	clear(leaf.Values)
	copyArrayElements(leaf.Keys, b3.tempKeys, mid)
	copyArrayElements(leaf.Values, b3.tempValues, mid)
	leaf.Count = mid

	// Link the new leaf into the sibling chain.
	right.NextID = leaf.NextID
	leaf.NextID = right.ID

	clear(b3.tempKeys)
	clear(b3.tempValues)

	b3.nodeRepository.Add(right)
	b3.saveNode(leaf)
	return right.Keys[0], right.ID
}

// promote inserts the separator and right-child link into the parents along
// the recorded path, splitting full branch nodes as it goes. If the root
// itself overflows, a new root is created and tree height grows by one.
func (b3 *Btree[TK, TV]) promote(path []pathEntry[TK, TV], separator TK, rightID bplustree.UUID) {
	for len(path) > 0 {
		parent := path[len(path)-1].node
		index := path[len(path)-1].childIndex
		path = path[:len(path)-1]
		if !parent.isFull() {
			parent.insertChild(separator, rightID, index)
			b3.saveNode(parent)
			return
		}
		separator, rightID = b3.splitBranch(parent, separator, rightID, index)
	}
	root := newBranchNode[TK, TV](b3.StoreInfo.Capacity)
	root.Keys[0] = separator
	root.ChildrenIDs[0] = b3.StoreInfo.RootNodeID
	root.ChildrenIDs[1] = rightID
	root.Count = 1
	b3.nodeRepository.Add(root)
	b3.StoreInfo.RootNodeID = root.ID
}

// splitBranch breaks an overflowing branch node in two. Unlike leaf splits
// the middle key moves up without being duplicated in either half; the
// children split accordingly. Returns the promoted key and new right node ID.
func (b3 *Btree[TK, TV]) splitBranch(node *Node[TK, TV], separator TK, rightID bplustree.UUID, index int) (TK, bplustree.UUID) {
	capacity := b3.StoreInfo.Capacity

	copyArrayElements(b3.tempKeys, node.Keys, capacity)
	copy(b3.tempKeys[index+1:], b3.tempKeys[index:capacity])
	b3.tempKeys[index] = separator
	copyArrayElements(b3.tempChildren, node.ChildrenIDs, capacity+1)
	copy(b3.tempChildren[index+2:], b3.tempChildren[index+1:capacity+1])
	b3.tempChildren[index+1] = rightID

	mid := (capacity + 1) / 2
	promoted := b3.tempKeys[mid]

	right := newBranchNode[TK, TV](capacity)
	right.Count = capacity - mid
	copyArrayElements(right.Keys, b3.tempKeys[mid+1:], right.Count)
	copyArrayElements(right.ChildrenIDs, b3.tempChildren[mid+1:], right.Count+1)

	clear(node.Keys)
	clear(node.ChildrenIDs)
	copyArrayElements(node.Keys, b3.tempKeys, mid)
	copyArrayElements(node.ChildrenIDs, b3.tempChildren, mid+1)
	node.Count = mid

	clear(b3.tempKeys)
	clear(b3.tempChildren)

	b3.nodeRepository.Add(right)
	b3.saveNode(node)
	return promoted, right.ID
}
