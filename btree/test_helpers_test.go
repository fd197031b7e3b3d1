package btree

import (
	"context"
	"testing"

	"github.com/bplustree-go/bplustree"
)

// map-backed node repository for tests.
type testNodeRepository[TK Ordered, TV any] struct {
	lookup map[bplustree.UUID]*Node[TK, TV]
}

func newTestNodeRepository[TK Ordered, TV any]() *testNodeRepository[TK, TV] {
	return &testNodeRepository[TK, TV]{lookup: map[bplustree.UUID]*Node[TK, TV]{}}
}

func (nr *testNodeRepository[TK, TV]) Add(n *Node[TK, TV])    { nr.lookup[n.ID] = n }
func (nr *testNodeRepository[TK, TV]) Update(n *Node[TK, TV]) { nr.lookup[n.ID] = n }
func (nr *testNodeRepository[TK, TV]) Get(ctx context.Context, nodeID bplustree.UUID) (*Node[TK, TV], error) {
	return nr.lookup[nodeID], nil
}
func (nr *testNodeRepository[TK, TV]) Remove(nodeID bplustree.UUID) { delete(nr.lookup, nodeID) }

// helper to construct a test btree with the given capacity.
func newTestBtree[TV any](t *testing.T, capacity int) (*Btree[int, TV], *testNodeRepository[int, TV]) {
	t.Helper()
	si := NewStoreInfo("test", capacity)
	nr := newTestNodeRepository[int, TV]()
	b3, err := New[int, TV](&si, nr, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return b3, nr
}

// verifyInvariants walks the whole tree and fails the test if any structural
// invariant is violated: equal leaf depth, occupancy bounds on non-root
// nodes, sorted unique keys per node, leaf chain matching the in-order key
// set, and the store count matching the leaf total.
func verifyInvariants[TV any](t *testing.T, b3 *Btree[int, TV]) {
	t.Helper()
	ctx := context.Background()
	root, err := b3.getRootNode(ctx)
	if err != nil {
		t.Fatalf("getRootNode: %v", err)
	}

	var leafDepth = -1
	var total int64
	var inOrder []int

	var walk func(n *Node[int, TV], depth int, isRoot bool)
	walk = func(n *Node[int, TV], depth int, isRoot bool) {
		if !isRoot {
			if n.Count < b3.StoreInfo.MinimumKeys || n.Count > b3.StoreInfo.Capacity {
				t.Fatalf("node %v occupancy %d outside [%d..%d]",
					n.ID, n.Count, b3.StoreInfo.MinimumKeys, b3.StoreInfo.Capacity)
			}
		}
		for i := 1; i < n.Count; i++ {
			if n.Keys[i-1] >= n.Keys[i] {
				t.Fatalf("node %v keys not strictly ascending at slot %d", n.ID, i)
			}
		}
		if n.isLeaf() {
			if leafDepth == -1 {
				leafDepth = depth
			} else if depth != leafDepth {
				t.Fatalf("leaf %v at depth %d, expected %d", n.ID, depth, leafDepth)
			}
			total += int64(n.Count)
			inOrder = append(inOrder, n.Keys[:n.Count]...)
			return
		}
		for i := 0; i <= n.Count; i++ {
			child, err := b3.getNode(ctx, n.ChildrenIDs[i])
			if err != nil || child == nil {
				t.Fatalf("missing child %d of node %v", i, n.ID)
			}
			walk(child, depth+1, false)
		}
	}
	walk(root, 0, true)

	if total != b3.Count() {
		t.Fatalf("store count %d != leaf total %d", b3.Count(), total)
	}

	// The leaf chain must yield the same keys in the same ascending order.
	var chained []int
	id := b3.StoreInfo.LeftmostLeafID
	for !id.IsNil() {
		leaf, err := b3.getNode(ctx, id)
		if err != nil || leaf == nil {
			t.Fatalf("broken leaf chain at %v", id)
		}
		if !leaf.isLeaf() {
			t.Fatalf("leaf chain reached a branch node %v", id)
		}
		chained = append(chained, leaf.Keys[:leaf.Count]...)
		id = leaf.NextID
	}
	if len(chained) != len(inOrder) {
		t.Fatalf("leaf chain has %d keys, in-order walk has %d", len(chained), len(inOrder))
	}
	for i := range chained {
		if chained[i] != inOrder[i] {
			t.Fatalf("leaf chain diverges from in-order walk at %d: %d != %d", i, chained[i], inOrder[i])
		}
		if i > 0 && chained[i-1] >= chained[i] {
			t.Fatalf("leaf chain not strictly ascending at %d", i)
		}
	}
}

// collectKeys drains the Keys sequence into a slice.
func collectKeys[TV any](b3 *Btree[int, TV]) []int {
	var out []int
	for k := range b3.Keys(context.Background()) {
		out = append(out, k)
	}
	return out
}
