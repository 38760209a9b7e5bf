package collection

import (
	"go.dedis.ch/elector/core/store"
	"golang.org/x/xerrors"
)

// List is an append-only sequence of items. The same item can be pushed
// several times.
type List struct {
	snap  store.Snapshot
	name  string
	count counter
}

// NewList returns the list mapper of the name.
func NewList(snap store.Snapshot, name string) List {
	return List{
		snap:  snap,
		name:  name,
		count: counter{snap: snap, key: []byte(name + lenSuffix)},
	}
}

// Len returns the number of items in the list.
func (l List) Len() (uint64, error) {
	return l.count.get()
}

// Push appends the item at the end of the list.
func (l List) Push(item []byte) error {
	n, err := l.count.get()
	if err != nil {
		return err
	}

	err = l.snap.Set(itemKey(l.name, n), item)
	if err != nil {
		return xerrors.Errorf("failed to write item: %v", err)
	}

	return l.count.set(n + 1)
}

// Get returns the item at the index.
func (l List) Get(index uint64) ([]byte, error) {
	n, err := l.count.get()
	if err != nil {
		return nil, err
	}

	if index >= n {
		return nil, xerrors.Errorf("index %d out of range [0:%d]", index, n)
	}

	item, err := l.snap.Get(itemKey(l.name, index))
	if err != nil {
		return nil, xerrors.Errorf("failed to read item: %v", err)
	}

	return item, nil
}

// Iterate calls the function for every item in order. It stops at the first
// error.
func (l List) Iterate(fn func(item []byte) error) error {
	n, err := l.count.get()
	if err != nil {
		return err
	}

	for i := uint64(0); i < n; i++ {
		item, err := l.snap.Get(itemKey(l.name, i))
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
