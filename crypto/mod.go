// Package crypto defines the cryptographic primitives shared by the ledger:
// hash factories and randomness sources.
package crypto

import (
	"hash"
	"io"
)

// HashFactory is an interface to produce a hash digest.
type HashFactory interface {
	New() hash.Hash
}

// RandGenerator is the interface of a generator of random bytes.
type RandGenerator interface {
	io.Reader
}

// RandSource is a source of 64-bit random values.
type RandSource interface {
	// Uint64 returns the next value of the source.
	Uint64() (uint64, error)
}
