package btree

import (
	"sort"

	"github.com/bplustree-go/bplustree"
)

// Node contains a B+ tree node's data. Leaves hold the keys and their values
// in parallel slot arrays plus a non-owning link to the right sibling leaf;
// branch nodes hold separator keys and Count+1 child links.
type Node[TK Ordered, TV any] struct {
	ID bplustree.UUID
	// Keys is the slot array where keys get stored; Count tracks occupancy.
	Keys []TK
	// Values parallels Keys on leaf nodes. Nil on branch nodes.
	Values []TV
	// ChildrenIDs holds the IDs of this node's children. Nil on leaf nodes.
	ChildrenIDs []bplustree.UUID
	// Count of keys in this node.
	Count int
	// NextID links a leaf to the leaf immediately to its right in sorted
	// order. It is a lookup reference, never a destruction path.
	NextID bplustree.UUID
}

// newLeafNode creates an empty leaf node with slot arrays sized to capacity.
func newLeafNode[TK Ordered, TV any](capacity int) *Node[TK, TV] {
	return &Node[TK, TV]{
		ID:     bplustree.NewUUID(),
		Keys:   make([]TK, capacity),
		Values: make([]TV, capacity),
	}
}

// newBranchNode creates an empty branch node with room for capacity keys and
// capacity+1 children.
func newBranchNode[TK Ordered, TV any](capacity int) *Node[TK, TV] {
	return &Node[TK, TV]{
		ID:          bplustree.NewUUID(),
		Keys:        make([]TK, capacity),
		ChildrenIDs: make([]bplustree.UUID, capacity+1),
	}
}

// isLeaf returns true if the node holds values directly.
func (node *Node[TK, TV]) isLeaf() bool {
	return node.ChildrenIDs == nil
}

func (node *Node[TK, TV]) isFull() bool {
	return node.Count >= len(node.Keys)
}

// indexOf returns the slot index where key lives or would be inserted, and
// whether the key is present. Leaf nodes only.
func (node *Node[TK, TV]) indexOf(b3 *Btree[TK, TV], key TK) (int, bool) {
	index := sort.Search(node.Count, func(i int) bool {
		return b3.compare(node.Keys[i], key) >= 0
	})
	return index, index < node.Count && b3.compare(node.Keys[index], key) == 0
}

// childIndex returns the routing decision for key: the first index i with
// key < Keys[i], or Count if none. Branch nodes only. Keys equal to a
// separator route right, matching leaf splits which keep the separator key
// present in the right leaf.
func (node *Node[TK, TV]) childIndex(b3 *Btree[TK, TV], key TK) int {
	return sort.Search(node.Count, func(i int) bool {
		return b3.compare(key, node.Keys[i]) < 0
	})
}

// insertSlotItem inserts the key/value pair at position, shifting items to
// the right. The leaf must not be full.
func (node *Node[TK, TV]) insertSlotItem(key TK, value TV, position int) {
	copy(node.Keys[position+1:], node.Keys[position:node.Count])
	copy(node.Values[position+1:], node.Values[position:node.Count])
	node.Keys[position] = key
	node.Values[position] = value
	node.Count++
}

// removeSlotItem removes the key/value at position, compacting the slots and
// zeroing the vacated tail so the value handle is released.
func (node *Node[TK, TV]) removeSlotItem(position int) {
	if position < node.Count-1 {
		moveArrayElements(node.Keys, position, position+1, node.Count-position-1)
		moveArrayElements(node.Values, position, position+1, node.Count-position-1)
	}
	node.Count--
	clear(node.Keys[node.Count : node.Count+1])
	clear(node.Values[node.Count : node.Count+1])
}

// insertChild inserts a separator key at position and the corresponding
// right-child link at position+1, shifting slots right. Branch must not be
// full.
func (node *Node[TK, TV]) insertChild(separator TK, rightID bplustree.UUID, position int) {
	shiftSlots(node.Keys, position, node.Count)
	shiftSlots(node.ChildrenIDs, position+1, node.Count+1)
	node.Keys[position] = separator
	node.ChildrenIDs[position+1] = rightID
	node.Count++
}

// removeChild removes the separator key at sepIndex together with the child
// link to its right, compacting both slot arrays.
func (node *Node[TK, TV]) removeChild(sepIndex int) {
	if sepIndex < node.Count-1 {
		moveArrayElements(node.Keys, sepIndex, sepIndex+1, node.Count-sepIndex-1)
		moveArrayElements(node.ChildrenIDs, sepIndex+1, sepIndex+2, node.Count-sepIndex-1)
	}
	node.Count--
	clear(node.Keys[node.Count : node.Count+1])
	node.ChildrenIDs[node.Count+1] = bplustree.NilUUID
}

// copyArrayElements is a helper function for internal use only.
func copyArrayElements[T any](destination, source []T, count int) {
	if source == nil || destination == nil {
		return
	}
	for i := 0; i < count; i++ {
		destination[i] = source[i]
	}
}

func shiftSlots[T any](array []T, position int, noOfOccupiedSlots int) {
	if position < noOfOccupiedSlots {
		// Create a vacant slot by shifting node contents one slot.
		moveArrayElements(array, position+1, position, noOfOccupiedSlots-position)
	}
}

// moveArrayElements is a helper function for internal use only.
func moveArrayElements[T any](array []T, destStartIndex, srcStartIndex, count int) {
	if array == nil {
		return
	}
	addValue := -1
	srcIndex := srcStartIndex + count - 1
	destIndex := destStartIndex + count - 1
	if destStartIndex < srcStartIndex {
		srcIndex = srcStartIndex
		destIndex = destStartIndex
		addValue = 1
	}
	for i := 0; i < count; i++ {
		// Only process if w/in array range.
		if destIndex < 0 || srcIndex < 0 || destIndex >= len(array) || srcIndex >= len(array) {
			break
		}
		array[destIndex] = array[srcIndex]
		destIndex = destIndex + addValue
		srcIndex = srcIndex + addValue
	}
}
