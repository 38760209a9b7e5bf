package collection

import (
	"go.dedis.ch/elector/core/store"
	"golang.org/x/xerrors"
)

// Set is an unordered set of items. Items are iterated in insertion order
// until an item is removed: the removal moves the last item into the hole.
//
// The layout is the length, one key per position holding the item, and one
// key per item holding its position plus one.
type Set struct {
	snap  store.Snapshot
	name  string
	count counter
}

// NewSet returns the set mapper of the name.
func NewSet(snap store.Snapshot, name string) Set {
	return Set{
		snap:  snap,
		name:  name,
		count: counter{snap: snap, key: []byte(name + lenSuffix)},
	}
}

// Len returns the number of items in the set.
func (s Set) Len() (uint64, error) {
	return s.count.get()
}

// Contains returns true if the item is in the set.
func (s Set) Contains(item []byte) (bool, error) {
	pos, err := s.position(item)
	if err != nil {
		return false, err
	}

	return pos > 0, nil
}

// Insert adds the item to the set. It returns false if the item was already
// present.
func (s Set) Insert(item []byte) (bool, error) {
	pos, err := s.position(item)
	if err != nil {
		return false, err
	}

	if pos > 0 {
		return false, nil
	}

	n, err := s.count.get()
	if err != nil {
		return false, err
	}

	err = s.snap.Set(itemKey(s.name, n), item)
	if err != nil {
		return false, xerrors.Errorf("failed to write item: %v", err)
	}

	err = s.snap.Set(s.indexKey(item), Uint64(n+1))
	if err != nil {
		return false, xerrors.Errorf("failed to write index: %v", err)
	}

	err = s.count.set(n + 1)
	if err != nil {
		return false, err
	}

	return true, nil
}

// Remove deletes the item from the set. It returns false if the item was not
// present.
func (s Set) Remove(item []byte) (bool, error) {
	pos, err := s.position(item)
	if err != nil {
		return false, err
	}

	if pos == 0 {
		return false, nil
	}

	n, err := s.count.get()
	if err != nil {
		return false, err
	}

	last := n - 1

	if pos-1 != last {
		moved, err := s.snap.Get(itemKey(s.name, last))
		if err != nil {
			return false, xerrors.Errorf("failed to read item: %v", err)
		}

		err = s.snap.Set(itemKey(s.name, pos-1), moved)
		if err != nil {
			return false, xerrors.Errorf("failed to write item: %v", err)
		}

		err = s.snap.Set(s.indexKey(moved), Uint64(pos))
		if err != nil {
			return false, xerrors.Errorf("failed to write index: %v", err)
		}
	}

	err = s.snap.Delete(itemKey(s.name, last))
	if err != nil {
		return false, xerrors.Errorf("failed to delete item: %v", err)
	}

	err = s.snap.Delete(s.indexKey(item))
	if err != nil {
		return false, xerrors.Errorf("failed to delete index: %v", err)
	}

	err = s.count.set(last)
	if err != nil {
		return false, err
	}

	return true, nil
}

// Iterate calls the function for every item of the set. It stops at the first
// error.
func (s Set) Iterate(fn func(item []byte) error) error {
	n, err := s.count.get()
	if err != nil {
		return err
	}

	for i := uint64(0); i < n; i++ {
		item, err := s.snap.Get(itemKey(s.name, i))
		if err != nil {
			return xerrors.Errorf("failed to read item: %v", err)
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}

	return nil
}

// Items returns every item of the set in iteration order.
func (s Set) Items() ([][]byte, error) {
	var items [][]byte

	err := s.Iterate(func(item []byte) error {
		items = append(items, item)
		return nil
	})

	return items, err
}

func (s Set) position(item []byte) (uint64, error) {
	data, err := s.snap.Get(s.indexKey(item))
	if err != nil {
		return 0, xerrors.Errorf("failed to read index: %v", err)
	}

	if len(data) == 0 {
		return 0, nil
	}

	return ToUint64(data)
}

func (s Set) indexKey(item []byte) []byte {
	return append([]byte(s.name+indexSuffix), item...)
}
