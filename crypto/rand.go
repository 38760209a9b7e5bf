package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"go.dedis.ch/kyber/v3/xof/blake2xb"
	"golang.org/x/xerrors"
)

// CryptographicRandomGenerator is cryptographically secure random generator.
//
// - implements crypto.RandGenerator
type CryptographicRandomGenerator struct{}

// Read implements crypto.RandGenerator. It fills the given buffer at its
// capacity as long as no error occurred.
func (crg CryptographicRandomGenerator) Read(buffer []byte) (int, error) {
	return rand.Read(buffer)
}

// readerSource draws 64-bit values out of a stream of bytes.
//
// - implements crypto.RandSource
type readerSource struct {
	reader io.Reader
}

// NewSeededSource returns a deterministic source: two sources created with the
// same seed produce the same sequence. The stream is the output of a Blake2xb
// XOF keyed with the seed.
func NewSeededSource(seed []byte) RandSource {
	return readerSource{reader: blake2xb.New(seed)}
}

// Uint64 implements crypto.RandSource. The value is read in big-endian order.
func (s readerSource) Uint64() (uint64, error) {
	buffer := make([]byte, 8)

	_, err := io.ReadFull(s.reader, buffer)
	if err != nil {
		return 0, xerrors.Errorf("failed to read randomness: %v", err)
	}

	return binary.BigEndian.Uint64(buffer), nil
}
