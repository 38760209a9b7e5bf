// Package collection implements the storage mappers the contracts use on top
// of a key/value snapshot: a single value, an unordered set and an append-only
// list. A mapper is only a view: it keeps no state besides its base key.
package collection

import (
	"encoding/binary"
	"encoding/json"

	"go.dedis.ch/elector/core/store"
	"golang.org/x/xerrors"
)

const (
	lenSuffix   = ":len"
	itemSuffix  = ":item:"
	indexSuffix = ":index:"
)

// Value is a single JSON-encoded value stored under one key.
type Value struct {
	snap store.Snapshot
	key  []byte
}

// NewValue returns the value mapper of the key.
func NewValue(snap store.Snapshot, key string) Value {
	return Value{snap: snap, key: []byte(key)}
}

// Get decodes the value into the destination. It returns false when the key
// has never been set, and leaves the destination untouched.
func (v Value) Get(dst interface{}) (bool, error) {
	data, err := v.snap.Get(v.key)
	if err != nil {
		return false, xerrors.Errorf("failed to read value: %v", err)
	}

	if len(data) == 0 {
		return false, nil
	}

	err = json.Unmarshal(data, dst)
	if err != nil {
		return false, xerrors.Errorf("failed to decode value: %v", err)
	}

	return true, nil
}

// Set encodes and stores the value.
func (v Value) Set(value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return xerrors.Errorf("failed to encode value: %v", err)
	}

	err = v.snap.Set(v.key, data)
	if err != nil {
		return xerrors.Errorf("failed to write value: %v", err)
	}

	return nil
}

// Clear removes the value.
func (v Value) Clear() error {
	err := v.snap.Delete(v.key)
	if err != nil {
		return xerrors.Errorf("failed to delete value: %v", err)
	}

	return nil
}

// Uint64 encodes an integer into an item of a set or a list.
func Uint64(v uint64) []byte {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, v)

	return buffer
}

// ToUint64 decodes an item created with Uint64.
func ToUint64(item []byte) (uint64, error) {
	if len(item) != 8 {
		return 0, xerrors.Errorf("invalid item length %d", len(item))
	}

	return binary.BigEndian.Uint64(item), nil
}

// Uint16 encodes a short integer into an item of a set or a list.
func Uint16(v uint16) []byte {
	buffer := make([]byte, 2)
	binary.BigEndian.PutUint16(buffer, v)

	return buffer
}

// ToUint16 decodes an item created with Uint16.
func ToUint16(item []byte) (uint16, error) {
	if len(item) != 2 {
		return 0, xerrors.Errorf("invalid item length %d", len(item))
	}

	return binary.BigEndian.Uint16(item), nil
}

// counter is the length of a set or a list.
type counter struct {
	snap store.Snapshot
	key  []byte
}

func (c counter) get() (uint64, error) {
	data, err := c.snap.Get(c.key)
	if err != nil {
		return 0, xerrors.Errorf("failed to read length: %v", err)
	}

	if len(data) == 0 {
		return 0, nil
	}

	return ToUint64(data)
}

func (c counter) set(n uint64) error {
	err := c.snap.Set(c.key, Uint64(n))
	if err != nil {
		return xerrors.Errorf("failed to write length: %v", err)
	}

	return nil
}

func itemKey(name string, index uint64) []byte {
	return append([]byte(name+itemSuffix), Uint64(index)...)
}
