package btree

import (
	"cmp"
	"fmt"
	"time"

	"github.com/bplustree-go/bplustree"
)

// Comparer specifies how to compare this value against another value.
type Comparer interface {
	// Compare compares this object with the other and returns -1, 0, or 1.
	// -1 means this < other, 0 means equal, 1 means this > other.
	Compare(other interface{}) int
}

// ComparerFunc supplies the total order the tree sorts its keys with,
// separate from the key object itself.
type ComparerFunc[TK Ordered] func(a TK, b TK) int

// Ordered constrains key types that can be stored in a B+ tree.
// It permits built-in ordered types, UUIDs, Comparer implementations, and any
// as a fallback; keys outside cmp.Ordered should come with a ComparerFunc.
type Ordered interface {
	cmp.Ordered | *Comparer | any
}

// Compare compares two values, handling common built-in types, UUIDs,
// time.Time, Comparer implementations, and finally falling back to string
// comparison. It is the default ordering used when no ComparerFunc is given.
func Compare(anyX, anyY any) int {
	switch x1 := anyX.(type) {
	case int:
		y1, _ := anyY.(int)
		return cmp.Compare(x1, y1)
	case int32:
		y1, _ := anyY.(int32)
		return cmp.Compare(x1, y1)
	case int64:
		y1, _ := anyY.(int64)
		return cmp.Compare(x1, y1)
	case uint:
		y1, _ := anyY.(uint)
		return cmp.Compare(x1, y1)
	case uint32:
		y1, _ := anyY.(uint32)
		return cmp.Compare(x1, y1)
	case uint64:
		y1, _ := anyY.(uint64)
		return cmp.Compare(x1, y1)
	case float32:
		y1, _ := anyY.(float32)
		return cmp.Compare(x1, y1)
	case float64:
		y1, _ := anyY.(float64)
		return cmp.Compare(x1, y1)
	case string:
		y1, _ := anyY.(string)
		return cmp.Compare(x1, y1)
	case bplustree.UUID:
		y1, _ := anyY.(bplustree.UUID)
		return x1.Compare(y1)
	case time.Time:
		y1, _ := anyY.(time.Time)
		return x1.Compare(y1)
	default:
		if anyX == nil && anyY == nil {
			return 0
		}
		if anyX == nil {
			return -1
		}
		if anyY == nil {
			return 1
		}
		if cX, ok := anyX.(Comparer); ok {
			return cX.Compare(anyY)
		}
		// Last resort, compare their string values.
		s1 := fmt.Sprintf("%v", anyX)
		s2 := fmt.Sprintf("%v", anyY)
		return cmp.Compare(s1, s2)
	}
}

// defaultComparer adapts Compare to a typed ComparerFunc. Keys with dynamic
// types pay the type switch per comparison; supply a ComparerFunc to avoid it.
func defaultComparer[TK Ordered]() ComparerFunc[TK] {
	return func(a TK, b TK) int {
		return Compare(a, b)
	}
}
