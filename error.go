package bplustree

import (
	"errors"
	"fmt"
)

type ErrorCode int

const (
	Unknown ErrorCode = iota
	// InvalidConfiguration signals bad construction parameters, e.g. a node
	// capacity below the supported minimum. Fatal to construction.
	InvalidConfiguration
	// KeyNotFound signals a lookup or delete on an absent key. Recoverable,
	// no mutation occurred.
	KeyNotFound
)

// Sentinel errors usable with errors.Is. Error values produced by this module
// wrap one of these.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrKeyNotFound          = errors.New("key not found")
)

// Error is the module's custom error carrying a code and optional user data,
// e.g. the key that was not found.
type Error struct {
	Code     ErrorCode
	Err      error
	UserData any
}

func (e Error) Error() string {
	return fmt.Sprintf("error code: %d, user data: %v, details: %v", e.Code, e.UserData, e.Err)
}

func (e Error) Unwrap() error {
	return e.Err
}
