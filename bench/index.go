// Package bench provides a small harness for benchmarking ordered indexes
// behind a common interface: the B+ tree on one side and Pebble (an LSM
// engine) as the reference contender, plus workload mixes, CSV recording and
// plot rendering.
package bench

// Index is the contract every benchmarked engine is wrapped behind.
type Index interface {
	Insert(key int64, value []byte) error
	Get(key int64) ([]byte, error)
	Delete(key int64) error
	Range(start, end int64) (Iterator, error)

	Close() error
}

// Iterator walks a key range in ascending order.
type Iterator interface {
	Next() bool
	Key() int64
	Value() []byte
	Error() error
	Close() error
}
