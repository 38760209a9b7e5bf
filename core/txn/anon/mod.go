// Package anon implements a transaction that carries its arguments and the
// identity of its author without any signature. The host is trusted to have
// authenticated the author.
package anon

import (
	"encoding/binary"
	"io"
	"sort"

	"go.dedis.ch/elector/core/access"
	"go.dedis.ch/elector/core/txn"
	"go.dedis.ch/elector/crypto"
	"golang.org/x/xerrors"
)

// Transaction is an unsigned transaction.
//
// - implements txn.Transaction
type Transaction struct {
	nonce    uint64
	identity access.Identity
	args     map[string][]byte
	id       []byte
}

type template struct {
	Transaction

	hashFactory crypto.HashFactory
}

// TransactionOption is the type of options to create a transaction.
type TransactionOption func(*template)

// WithArg is an option to set an argument with the key and the value.
func WithArg(key string, value []byte) TransactionOption {
	return func(tmpl *template) {
		tmpl.args[key] = value
	}
}

// WithArgs is an option to set a list of arguments.
func WithArgs(args ...txn.Arg) TransactionOption {
	return func(tmpl *template) {
		for _, arg := range args {
			tmpl.args[arg.Key] = arg.Value
		}
	}
}

// WithIdentity is an option to set the author of the transaction.
func WithIdentity(ident access.Identity) TransactionOption {
	return func(tmpl *template) {
		tmpl.identity = ident
	}
}

// WithID is an option to set the identifier of the transaction instead of
// deriving it from the content.
func WithID(id []byte) TransactionOption {
	return func(tmpl *template) {
		tmpl.id = id
	}
}

// WithHashFactory is an option to set a different hash factory when creating a
// transaction.
func WithHashFactory(f crypto.HashFactory) TransactionOption {
	return func(tmpl *template) {
		tmpl.hashFactory = f
	}
}

// NewTransaction creates a new transaction with the provided nonce. Unless an
// identifier is given, it is the digest of the transaction.
func NewTransaction(nonce uint64, opts ...TransactionOption) (Transaction, error) {
	tmpl := template{
		Transaction: Transaction{
			nonce: nonce,
			args:  make(map[string][]byte),
		},
		hashFactory: crypto.NewHashFactory(crypto.Sha256),
	}

	for _, opt := range opts {
		opt(&tmpl)
	}

	if tmpl.id != nil {
		return tmpl.Transaction, nil
	}

	h := tmpl.hashFactory.New()
	err := tmpl.Fingerprint(h)
	if err != nil {
		return tmpl.Transaction, xerrors.Errorf("couldn't fingerprint tx: %v", err)
	}

	tmpl.id = h.Sum(nil)

	return tmpl.Transaction, nil
}

// GetID implements txn.Transaction. It returns the ID of the transaction.
func (t Transaction) GetID() []byte {
	return append([]byte{}, t.id...)
}

// GetNonce implements txn.Transaction. It returns the nonce of the
// transaction.
func (t Transaction) GetNonce() uint64 {
	return t.nonce
}

// GetIdentity implements txn.Transaction. It returns the author, or nil.
func (t Transaction) GetIdentity() access.Identity {
	return t.identity
}

// GetArgs returns the sorted list of arguments available.
func (t Transaction) GetArgs() []string {
	args := make([]string, 0, len(t.args))
	for key := range t.args {
		args = append(args, key)
	}

	sort.Strings(args)

	return args
}

// GetArg implements txn.Transaction. It returns the value of the argument if it
// is set, otherwise nil.
func (t Transaction) GetArg(key string) []byte {
	return t.args[key]
}

// Fingerprint writes a deterministic binary representation of the
// transaction.
func (t Transaction) Fingerprint(w io.Writer) error {
	buffer := make([]byte, 8)
	binary.LittleEndian.PutUint64(buffer, t.nonce)

	_, err := w.Write(buffer)
	if err != nil {
		return xerrors.Errorf("couldn't write nonce: %v", err)
	}

	if t.identity != nil {
		ident, err := t.identity.MarshalText()
		if err != nil {
			return xerrors.Errorf("couldn't marshal identity: %v", err)
		}

		_, err = w.Write(ident)
		if err != nil {
			return xerrors.Errorf("couldn't write identity: %v", err)
		}
	}

	for _, key := range t.GetArgs() {
		_, err = w.Write([]byte(key))
		if err != nil {
			return xerrors.Errorf("couldn't write arg: %v", err)
		}

		_, err = w.Write(t.args[key])
		if err != nil {
			return xerrors.Errorf("couldn't write arg: %v", err)
		}
	}

	return nil
}
