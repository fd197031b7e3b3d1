package bplustree

// Version is the current version of the bplustree library.
const Version = "1.0.0"
