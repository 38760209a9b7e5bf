// Package prefixed implements a namespaced view over a store. Every key is
// replaced by the hash of the namespace and the original key, so that two
// namespaces sharing the same store can never overlap.
package prefixed

import (
	"encoding/binary"

	"go.dedis.ch/elector/core/store"
	"go.dedis.ch/elector/crypto"
)

// Readable is a namespaced read-only view.
//
// - implements store.Readable
type Readable struct {
	parent store.Readable
	prefix []byte
}

// NewReadable returns a read-only view of the namespace.
func NewReadable(prefix string, r store.Readable) Readable {
	return Readable{parent: r, prefix: []byte(prefix)}
}

// Get implements store.Readable.
func (r Readable) Get(key []byte) ([]byte, error) {
	return r.parent.Get(Key(r.prefix, key))
}

// Snapshot is a namespaced view that can be written.
//
// - implements store.Snapshot
type Snapshot struct {
	Readable
	parent store.Writable
}

// NewSnapshot returns a view of the namespace backed by the snapshot.
func NewSnapshot(prefix string, snap store.Snapshot) Snapshot {
	return Snapshot{
		Readable: NewReadable(prefix, snap),
		parent:   snap,
	}
}

// Set implements store.Writable.
func (s Snapshot) Set(key, value []byte) error {
	return s.parent.Set(Key(s.prefix, key), value)
}

// Delete implements store.Writable.
func (s Snapshot) Delete(key []byte) error {
	return s.parent.Delete(Key(s.prefix, key))
}

// Key returns the 256-bit key of the base key in the namespace. Both parts are
// length-prefixed before hashing.
func Key(prefix, key []byte) []byte {
	h := crypto.NewHashFactory(crypto.Sha256).New()

	length := make([]byte, 2)

	binary.LittleEndian.PutUint16(length, uint16(len(prefix)))
	h.Write(length)
	h.Write(prefix)

	binary.LittleEndian.PutUint16(length, uint16(len(key)))
	h.Write(length)
	h.Write(key)

	return h.Sum(nil)
}
