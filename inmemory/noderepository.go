package inmemory

import (
	"context"

	"github.com/bplustree-go/bplustree"
	"github.com/bplustree-go/bplustree/btree"
)

// in-memory implementation of NodeRepository. Uses a map to manage nodes in
// memory.
type nodeRepository[TK btree.Ordered, TV any] struct {
	lookup map[bplustree.UUID]*btree.Node[TK, TV]
}

// newNodeRepository instantiates a NodeRepository that uses a map to manage
// nodes.
func newNodeRepository[TK btree.Ordered, TV any]() btree.NodeRepository[TK, TV] {
	return &nodeRepository[TK, TV]{
		lookup: make(map[bplustree.UUID]*btree.Node[TK, TV]),
	}
}

// Add will upsert node to the map.
func (nr *nodeRepository[TK, TV]) Add(n *btree.Node[TK, TV]) {
	nr.lookup[n.ID] = n
}

// Update will upsert node to the map.
func (nr *nodeRepository[TK, TV]) Update(n *btree.Node[TK, TV]) {
	nr.lookup[n.ID] = n
}

// Get will retrieve a node with nodeID from the map.
func (nr *nodeRepository[TK, TV]) Get(ctx context.Context, nodeID bplustree.UUID) (*btree.Node[TK, TV], error) {
	v := nr.lookup[nodeID]
	return v, nil
}

// Remove will remove a node with nodeID from the map.
func (nr *nodeRepository[TK, TV]) Remove(nodeID bplustree.UUID) {
	delete(nr.lookup, nodeID)
}
