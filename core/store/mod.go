// Package store defines the primitives of a simple key/value storage.
//
// Every contract of the ledger reads and writes its records through a
// snapshot. The host decides what a snapshot is backed by and whether the
// writes are eventually applied.
package store

// Readable is the interface for a readable store. A missing key returns a nil
// value and no error.
type Readable interface {
	Get(key []byte) ([]byte, error)
}

// Writable is the interface for a writable store.
type Writable interface {
	Set(key []byte, value []byte) error

	Delete(key []byte) error
}

// Snapshot is a state of the store that can be read and write independently. A
// write is applied only to the snapshot reference.
type Snapshot interface {
	Readable
	Writable
}
