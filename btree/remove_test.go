package btree

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/bplustree-go/bplustree"
)

func TestRemoveMissingKey(t *testing.T) {
	b3, _ := newTestBtree[string](t, 4)
	b3.Upsert(ctx, 1, "a")

	err := b3.Remove(ctx, 99)
	if !errors.Is(err, bplustree.ErrKeyNotFound) {
		t.Errorf("Remove(99): got %v, want KeyNotFound", err)
	}
	if b3.Count() != 1 {
		t.Errorf("failed remove changed Count to %d", b3.Count())
	}
}

func TestRemoveLastEntryLeavesEmptyRootLeaf(t *testing.T) {
	b3, nr := newTestBtree[string](t, 4)
	b3.Upsert(ctx, 1, "a")

	if err := b3.Remove(ctx, 1); err != nil {
		t.Fatalf("Remove(1): %v", err)
	}
	if b3.Count() != 0 {
		t.Errorf("Count = %d, want 0", b3.Count())
	}
	root := nr.lookup[b3.StoreInfo.RootNodeID]
	if !root.isLeaf() || root.Count != 0 {
		t.Error("removing the last entry should leave an empty leaf root")
	}
	// The empty root leaf stays usable.
	if _, err := b3.Upsert(ctx, 2, "b"); err != nil {
		t.Fatalf("Upsert after emptying: %v", err)
	}
	if got, _ := b3.Get(ctx, 2); got != "b" {
		t.Error("tree unusable after being emptied")
	}
}

// Capacity 4, keys 1..5 (two leaves under a one-key root). Removing 1 forces
// a redistribution from the right sibling; removing 2 then forces a merge
// that collapses the root back to a single leaf.
func TestRemoveUnderflowRedistributeThenMerge(t *testing.T) {
	b3, nr := newTestBtree[string](t, 4)
	for k := 1; k <= 5; k++ {
		b3.Upsert(ctx, k, fmt.Sprintf("v%d", k))
	}

	if err := b3.Remove(ctx, 1); err != nil {
		t.Fatalf("Remove(1): %v", err)
	}
	verifyInvariants(t, b3)
	root := nr.lookup[b3.StoreInfo.RootNodeID]
	if root.isLeaf() {
		t.Fatal("root should still be a branch after redistribution")
	}
	left := nr.lookup[root.ChildrenIDs[0]]
	if left.Count != 2 || left.Keys[0] != 2 || left.Keys[1] != 3 {
		t.Errorf("left leaf keys after borrow = %v, want [2 3]", left.Keys[:left.Count])
	}
	if root.Keys[0] != 4 {
		t.Errorf("separator after borrow = %d, want 4", root.Keys[0])
	}

	if err := b3.Remove(ctx, 2); err != nil {
		t.Fatalf("Remove(2): %v", err)
	}
	verifyInvariants(t, b3)
	root = nr.lookup[b3.StoreInfo.RootNodeID]
	if !root.isLeaf() {
		t.Fatal("merge should have collapsed the root to a single leaf")
	}
	if root.Count != 3 || root.Keys[0] != 3 || root.Keys[2] != 5 {
		t.Errorf("collapsed root keys = %v, want [3 4 5]", root.Keys[:root.Count])
	}

	for _, tc := range []struct {
		key  int
		want bool
	}{{1, false}, {2, false}, {3, true}, {4, true}, {5, true}} {
		if ok, _ := b3.Contains(ctx, tc.key); ok != tc.want {
			t.Errorf("Contains(%d) = %v, want %v", tc.key, ok, tc.want)
		}
	}
	if b3.Count() != 3 {
		t.Errorf("Count = %d, want 3", b3.Count())
	}
}

// A merged-away sibling must be released from the repository.
func TestMergeReleasesNode(t *testing.T) {
	b3, nr := newTestBtree[string](t, 4)
	for k := 1; k <= 5; k++ {
		b3.Upsert(ctx, k, "x")
	}
	before := len(nr.lookup)

	// Shrink back to a single leaf: both the merged leaf and the old branch
	// root must be removed from the repository.
	b3.Remove(ctx, 1)
	b3.Remove(ctx, 2)
	verifyInvariants(t, b3)
	if after := len(nr.lookup); after != before-2 {
		t.Errorf("repository has %d nodes, want %d after merge and root collapse", after, before-2)
	}
}

func TestInsertDeleteRoundTrip(t *testing.T) {
	for _, capacity := range []int{2, 3, 4, 16} {
		capacity := capacity
		t.Run(fmt.Sprintf("capacity%d", capacity), func(t *testing.T) {
			b3, nr := newTestBtree[int](t, capacity)
			rng := rand.New(rand.NewSource(7))

			const n = 250
			for _, k := range rng.Perm(n) {
				if _, err := b3.Upsert(ctx, k, k); err != nil {
					t.Fatalf("Upsert(%d): %v", k, err)
				}
			}
			verifyInvariants(t, b3)

			// Delete in an order unrelated to insertion order.
			for i, k := range rng.Perm(n) {
				if err := b3.Remove(ctx, k); err != nil {
					t.Fatalf("Remove(%d): %v", k, err)
				}
				if ok, _ := b3.Contains(ctx, k); ok {
					t.Fatalf("Contains(%d) still true after Remove", k)
				}
				if i%29 == 0 {
					verifyInvariants(t, b3)
				}
			}

			if b3.Count() != 0 {
				t.Errorf("Count = %d after deleting everything, want 0", b3.Count())
			}
			root := nr.lookup[b3.StoreInfo.RootNodeID]
			if !root.isLeaf() || root.Count != 0 {
				t.Error("fully drained tree should collapse to an empty leaf root")
			}
			if len(nr.lookup) != 1 {
				t.Errorf("repository holds %d nodes after drain, want just the root", len(nr.lookup))
			}
			if keys := collectKeys(b3); len(keys) != 0 {
				t.Errorf("iteration over drained tree yielded %v", keys)
			}
		})
	}
}

func TestInterleavedMutations(t *testing.T) {
	b3, _ := newTestBtree[int](t, 4)
	rng := rand.New(rand.NewSource(11))
	present := map[int]bool{}

	for i := 0; i < 2000; i++ {
		k := rng.Intn(120)
		if rng.Intn(3) == 0 {
			err := b3.Remove(ctx, k)
			if present[k] && err != nil {
				t.Fatalf("Remove(%d): %v", k, err)
			}
			if !present[k] && !errors.Is(err, bplustree.ErrKeyNotFound) {
				t.Fatalf("Remove(%d) on absent key: got %v, want KeyNotFound", k, err)
			}
			delete(present, k)
		} else {
			inserted, err := b3.Upsert(ctx, k, k)
			if err != nil {
				t.Fatalf("Upsert(%d): %v", k, err)
			}
			if inserted == present[k] {
				t.Fatalf("Upsert(%d) inserted=%v but present=%v", k, inserted, present[k])
			}
			present[k] = true
		}
		if i%101 == 0 {
			verifyInvariants(t, b3)
		}
	}
	verifyInvariants(t, b3)
	if int(b3.Count()) != len(present) {
		t.Errorf("Count = %d, want %d", b3.Count(), len(present))
	}
}
