// Package mem implements an in-memory snapshot that buffers the writes on top
// of a parent store.
//
// A staged snapshot is how a transaction is made atomic: the contract writes
// into the buffer, and the buffer is applied to the parent only when the
// execution succeeds. Dropping the snapshot discards everything.
package mem

import (
	"sort"

	"go.dedis.ch/elector/core/store"
	"golang.org/x/xerrors"
)

type item struct {
	value   []byte
	deleted bool
}

// Snapshot is a write buffer over an optional parent.
//
// - implements store.Snapshot
type Snapshot struct {
	parent store.Readable
	store  map[string]item
}

// NewSnapshot returns an empty standalone snapshot.
func NewSnapshot() *Snapshot {
	return Stage(nil)
}

// Stage returns a snapshot that reads through to the parent for the keys it
// has not written.
func Stage(parent store.Readable) *Snapshot {
	return &Snapshot{
		parent: parent,
		store:  make(map[string]item),
	}
}

// Get implements store.Readable. It returns the buffered value if any,
// otherwise the value of the parent.
func (s *Snapshot) Get(key []byte) ([]byte, error) {
	it, found := s.store[string(key)]
	if found {
		if it.deleted {
			return nil, nil
		}

		return append([]byte{}, it.value...), nil
	}

	if s.parent == nil {
		return nil, nil
	}

	value, err := s.parent.Get(key)
	if err != nil {
		return nil, xerrors.Errorf("failed to read parent: %v", err)
	}

	return value, nil
}

// Set implements store.Writable.
func (s *Snapshot) Set(key, value []byte) error {
	s.store[string(key)] = item{value: append([]byte{}, value...)}

	return nil
}

// Delete implements store.Writable. The deletion hides the key of the parent.
func (s *Snapshot) Delete(key []byte) error {
	s.store[string(key)] = item{deleted: true}

	return nil
}

// Len returns the number of keys written or deleted in the buffer.
func (s *Snapshot) Len() int {
	return len(s.store)
}

// Apply writes the buffered updates to the store in lexicographic key order so
// that two replays produce the same sequence of writes.
func (s *Snapshot) Apply(w store.Writable) error {
	keys := make([]string, 0, len(s.store))
	for key := range s.store {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		it := s.store[key]

		var err error
		if it.deleted {
			err = w.Delete([]byte(key))
		} else {
			err = w.Set([]byte(key), it.value)
		}

		if err != nil {
			return xerrors.Errorf("failed to apply key %#x: %v", key, err)
		}
	}

	return nil
}
