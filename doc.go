// Package bplustree defines the shared types and helpers used across the
// B+ tree codebase: UUID handles for node identity, error codes, logging
// configuration and small tuple types. The tree engine itself lives in the
// btree subpackage, while inmemory provides a ready-to-use map-like facade
// backed by an in-memory node repository.
package bplustree
