package bplustree

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

// UUID type used to identify B+ tree nodes.
type UUID uuid.UUID

// NilUUID is an empty UUID.
var NilUUID UUID

// NewUUID returns a new random UUID. Will retry after a 1 milli sleep if an
// error occurs, as generating an ID is a must.
func NewUUID() UUID {
	for {
		id, err := uuid.NewRandom()
		if err == nil {
			return UUID(id)
		}
		time.Sleep(1 * time.Millisecond)
	}
}

// IsNil returns true if the UUID is empty.
func (id UUID) IsNil() bool {
	return bytes.Equal(id[:], NilUUID[:])
}

// Compare returns -1, 0 or 1 depending on byte ordering of the two UUIDs.
func (id UUID) Compare(other UUID) int {
	return bytes.Compare(id[:], other[:])
}

// String returns the canonical string representation of the UUID.
func (id UUID) String() string {
	return uuid.UUID(id).String()
}
