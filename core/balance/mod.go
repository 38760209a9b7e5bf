// Package balance keeps the amount of currency owned by each identity in the
// store and moves it between identities.
package balance

import (
	"math"

	"go.dedis.ch/elector/core/access"
	"go.dedis.ch/elector/core/store"
	"go.dedis.ch/elector/core/store/collection"
	"go.dedis.ch/elector/core/store/prefixed"
	"golang.org/x/xerrors"
)

// Namespace is the prefix of the balance keys in the store.
const Namespace = "balance"

// ErrInsufficientBalance is returned when the sender does not own enough to
// cover a transfer.
var ErrInsufficientBalance = xerrors.New("insufficient balance")

// Bank is the value-transfer capability offered to the contracts.
type Bank interface {
	// Transfer moves the amount from one identity to the other. It fails with
	// ErrInsufficientBalance and writes nothing when the sender cannot pay.
	Transfer(snap store.Snapshot, from, to access.Identity, amount uint64) error
}

// Service is a bank backed by the store.
//
// - implements balance.Bank
type Service struct{}

// NewService returns a new bank service.
func NewService() Service {
	return Service{}
}

// Balance returns the amount owned by the identity.
func (Service) Balance(r store.Readable, ident access.Identity) (uint64, error) {
	key, err := access.Key(ident)
	if err != nil {
		return 0, xerrors.Errorf("invalid account: %v", err)
	}

	return read(prefixed.NewReadable(Namespace, r), key)
}

// Mint creates the amount in the account of the identity.
func (Service) Mint(snap store.Snapshot, ident access.Identity, amount uint64) error {
	key, err := access.Key(ident)
	if err != nil {
		return xerrors.Errorf("invalid account: %v", err)
	}

	accounts := prefixed.NewSnapshot(Namespace, snap)

	current, err := read(accounts, key)
	if err != nil {
		return err
	}

	if current > math.MaxUint64-amount {
		return xerrors.Errorf("balance overflow for '%s'", key)
	}

	return write(accounts, key, current+amount)
}

// Transfer implements balance.Bank.
func (s Service) Transfer(snap store.Snapshot, from, to access.Identity, amount uint64) error {
	fromKey, err := access.Key(from)
	if err != nil {
		return xerrors.Errorf("invalid sender: %v", err)
	}

	toKey, err := access.Key(to)
	if err != nil {
		return xerrors.Errorf("invalid recipient: %v", err)
	}

	accounts := prefixed.NewSnapshot(Namespace, snap)

	available, err := read(accounts, fromKey)
	if err != nil {
		return err
	}

	if available < amount {
		return xerrors.Errorf("'%s' owns %d but needs %d: %w",
			fromKey, available, amount, ErrInsufficientBalance)
	}

	if fromKey == toKey || amount == 0 {
		return nil
	}

	err = write(accounts, fromKey, available-amount)
	if err != nil {
		return err
	}

	received, err := read(accounts, toKey)
	if err != nil {
		return err
	}

	if received > math.MaxUint64-amount {
		return xerrors.Errorf("balance overflow for '%s'", toKey)
	}

	return write(accounts, toKey, received+amount)
}

func read(r store.Readable, key string) (uint64, error) {
	data, err := r.Get([]byte(key))
	if err != nil {
		return 0, xerrors.Errorf("failed to read balance: %v", err)
	}

	if len(data) == 0 {
		return 0, nil
	}

	amount, err := collection.ToUint64(data)
	if err != nil {
		return 0, xerrors.Errorf("malformed balance: %v", err)
	}

	return amount, nil
}

func write(w store.Writable, key string, amount uint64) error {
	err := w.Set([]byte(key), collection.Uint64(amount))
	if err != nil {
		return xerrors.Errorf("failed to write balance: %v", err)
	}

	return nil
}
