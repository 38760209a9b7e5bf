// Package access defines the identity of a transaction author.
//
// The host authenticates the author before the execution; contracts only need
// a stable representation of the identity to compare it and to store it.
package access

import (
	"encoding"

	"golang.org/x/xerrors"
)

// Identity is an abstraction to uniquely identify a signer.
type Identity interface {
	encoding.TextMarshaler
}

// Key returns the canonical representation of an identity, which is the text
// encoding. Two identities are the same when their keys are equal.
func Key(ident Identity) (string, error) {
	if ident == nil {
		return "", xerrors.New("missing identity")
	}

	text, err := ident.MarshalText()
	if err != nil {
		return "", xerrors.Errorf("failed to marshal identity: %v", err)
	}

	return string(text), nil
}

// Raw is an identity known only by its text representation, as it is stored
// by the contracts.
//
// - implements access.Identity
type Raw string

// MarshalText implements encoding.TextMarshaler.
func (r Raw) MarshalText() ([]byte, error) {
	return []byte(r), nil
}

// String implements fmt.Stringer.
func (r Raw) String() string {
	return string(r)
}
