// Package idgen draws random identifiers that avoid a set of identifiers
// already in use.
//
// The draws come from the randomness source of the execution, which is seeded
// by the transaction, so a replay of the transaction produces the same
// identifiers.
package idgen

import (
	"go.dedis.ch/elector/crypto"
	"golang.org/x/xerrors"
)

// DefaultMaxAttempts is the number of draws before the generator gives up.
const DefaultMaxAttempts = 64

// ErrExhausted is returned when no free identifier was drawn within the
// attempts budget.
var ErrExhausted = xerrors.New("identifier space exhausted")

// Membership is a set of identifiers already in use.
type Membership interface {
	Contains(id uint64) (bool, error)
}

// MembershipFunc is a function that implements Membership.
type MembershipFunc func(id uint64) (bool, error)

// Contains implements Membership.
func (fn MembershipFunc) Contains(id uint64) (bool, error) {
	return fn(id)
}

// Generator draws identifiers from a randomness source.
type Generator struct {
	source      crypto.RandSource
	maxAttempts int
}

// Option is the type of option to change the default generator.
type Option func(*Generator)

// WithMaxAttempts sets the number of draws before giving up.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		g.maxAttempts = n
	}
}

// NewGenerator returns a generator that draws from the source.
func NewGenerator(source crypto.RandSource, opts ...Option) Generator {
	g := Generator{
		source:      source,
		maxAttempts: DefaultMaxAttempts,
	}

	for _, opt := range opts {
		opt(&g)
	}

	return g
}

// Generate returns an identifier of the given bit size that none of the
// exclusion sets contains.
func (g Generator) Generate(bits uint, excluded ...Membership) (uint64, error) {
	if bits == 0 || bits > 64 {
		return 0, xerrors.Errorf("invalid bit size %d", bits)
	}

	for i := 0; i < g.maxAttempts; i++ {
		id, err := g.source.Uint64()
		if err != nil {
			return 0, xerrors.Errorf("failed to draw: %v", err)
		}

		if bits < 64 {
			id &= (uint64(1) << bits) - 1
		}

		free, err := isFree(id, excluded)
		if err != nil {
			return 0, err
		}

		if free {
			return id, nil
		}
	}

	return 0, xerrors.Errorf("no free identifier in %d attempts: %w", g.maxAttempts, ErrExhausted)
}

func isFree(id uint64, excluded []Membership) (bool, error) {
	for _, set := range excluded {
		found, err := set.Contains(id)
		if err != nil {
			return false, xerrors.Errorf("failed to check membership: %v", err)
		}

		if found {
			return false, nil
		}
	}

	return true, nil
}
