package bplustree

// KeyValuePair is a tuple used when handing entries across the engine
// boundary, e.g. when bulk feeding a tree or materializing iteration results.
type KeyValuePair[TK any, TV any] struct {
	Key   TK
	Value TV
}
