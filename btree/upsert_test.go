package btree

import (
	"fmt"
	"math/rand"
	"testing"
)

// Capacity 4, keys 1..5: the fifth insert overflows the single leaf and must
// produce a two-level tree with one separator.
func TestLeafSplitGrowsRoot(t *testing.T) {
	b3, nr := newTestBtree[string](t, 4)

	for k := 1; k <= 5; k++ {
		if _, err := b3.Upsert(ctx, k, fmt.Sprintf("v%d", k)); err != nil {
			t.Fatalf("Upsert(%d): %v", k, err)
		}
		verifyInvariants(t, b3)
	}

	root := nr.lookup[b3.StoreInfo.RootNodeID]
	if root.isLeaf() {
		t.Fatal("root should have grown into a branch node")
	}
	if root.Count != 1 || root.Keys[0] != 3 {
		t.Fatalf("root keys = %v (count %d), want [3]", root.Keys[:root.Count], root.Count)
	}

	left := nr.lookup[root.ChildrenIDs[0]]
	right := nr.lookup[root.ChildrenIDs[1]]
	if left.Count != 2 || left.Keys[0] != 1 || left.Keys[1] != 2 {
		t.Errorf("left leaf keys = %v, want [1 2]", left.Keys[:left.Count])
	}
	if right.Count != 3 || right.Keys[0] != 3 {
		t.Errorf("right leaf keys = %v, want [3 4 5]", right.Keys[:right.Count])
	}
	if left.NextID != right.ID {
		t.Error("left leaf's chain link should point at the new right leaf")
	}
	if b3.StoreInfo.LeftmostLeafID != left.ID {
		t.Error("leftmost leaf should still be the original left leaf")
	}

	if got, _ := b3.Get(ctx, 3); got != "v3" {
		t.Errorf("Get(3) = %q after split, want v3", got)
	}
	keys := collectKeys(b3)
	for i, want := range []int{1, 2, 3, 4, 5} {
		if keys[i] != want {
			t.Fatalf("iteration order = %v, want [1 2 3 4 5]", keys)
		}
	}
}

// Sequential ascending inserts stress the rightmost path: every split is at
// the tail, and branch splits must propagate to the root more than once.
func TestSequentialInsertsMultiLevel(t *testing.T) {
	b3, nr := newTestBtree[int](t, 4)

	const n = 500
	for k := 0; k < n; k++ {
		if _, err := b3.Upsert(ctx, k, k*10); err != nil {
			t.Fatalf("Upsert(%d): %v", k, err)
		}
	}
	verifyInvariants(t, b3)
	if b3.Count() != n {
		t.Fatalf("Count = %d, want %d", b3.Count(), n)
	}

	root := nr.lookup[b3.StoreInfo.RootNodeID]
	if root.isLeaf() {
		t.Fatal("tree of 500 keys at capacity 4 should be multi-level")
	}

	for _, k := range []int{0, 1, 249, 250, 498, 499} {
		v, err := b3.Get(ctx, k)
		if err != nil || v != k*10 {
			t.Errorf("Get(%d) = %d, %v; want %d", k, v, err, k*10)
		}
	}
}

// Descending inserts stress the leftmost path. The leftmost leaf reference
// must stay valid throughout.
func TestDescendingInserts(t *testing.T) {
	b3, _ := newTestBtree[int](t, 4)

	const n = 200
	for k := n - 1; k >= 0; k-- {
		if _, err := b3.Upsert(ctx, k, k); err != nil {
			t.Fatalf("Upsert(%d): %v", k, err)
		}
	}
	verifyInvariants(t, b3)

	keys := collectKeys(b3)
	if len(keys) != n || keys[0] != 0 || keys[n-1] != n-1 {
		t.Fatalf("iteration yielded %d keys, first %d last %d", len(keys), keys[0], keys[len(keys)-1])
	}
}

func TestRandomInserts(t *testing.T) {
	for _, capacity := range []int{2, 3, 4, 7, 16} {
		capacity := capacity
		t.Run(fmt.Sprintf("capacity%d", capacity), func(t *testing.T) {
			b3, _ := newTestBtree[int](t, capacity)
			rng := rand.New(rand.NewSource(int64(capacity)))

			const n = 300
			perm := rng.Perm(n)
			for i, k := range perm {
				if _, err := b3.Upsert(ctx, k, k); err != nil {
					t.Fatalf("Upsert(%d): %v", k, err)
				}
				if i%37 == 0 {
					verifyInvariants(t, b3)
				}
			}
			verifyInvariants(t, b3)

			keys := collectKeys(b3)
			if len(keys) != n {
				t.Fatalf("iteration yielded %d keys, want %d", len(keys), n)
			}
			for i, k := range keys {
				if k != i {
					t.Fatalf("keys[%d] = %d, want %d", i, k, i)
				}
			}
		})
	}
}
