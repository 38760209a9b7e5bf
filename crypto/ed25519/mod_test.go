package ed25519

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublicKey_New(t *testing.T) {
	point := suite.Point().Pick(suite.RandomStream())
	pointBuf, err := point.MarshalBinary()
	require.NoError(t, err)

	pubKey, err := NewPublicKey(pointBuf)
	require.NoError(t, err)
	require.True(t, pubKey.GetPoint().Equal(point))

	_, err = NewPublicKey([]byte{})
	require.Error(t, err)
	require.Regexp(t, "^couldn't unmarshal point: ", err.Error())
}

func TestPublicKey_MarshalText(t *testing.T) {
	pk := NewSigner().GetPublicKey()

	text, err := pk.MarshalText()
	require.NoError(t, err)
	require.Regexp(t, "^ed25519:[0-9a-f]{64}$", string(text))

	parsed, err := ParsePublicKey(string(text))
	require.NoError(t, err)
	require.True(t, pk.Equal(parsed))

	_, err = ParsePublicKey("schnorr:aa")
	require.EqualError(t, err, "missing prefix 'ed25519:'")

	_, err = ParsePublicKey("ed25519:zz")
	require.Error(t, err)
	require.Regexp(t, "^malformed hex: ", err.Error())
}

func TestPublicKey_Equal(t *testing.T) {
	pk := NewPublicKeyFromPoint(suite.Point().Pick(suite.RandomStream()))

	require.True(t, pk.Equal(pk))
	require.False(t, pk.Equal(NewSigner().GetPublicKey()))
	require.False(t, pk.Equal(struct{}{}))
}

func TestPublicKey_String(t *testing.T) {
	pk := NewSigner().GetPublicKey()

	require.Len(t, pk.String(), len(textPrefix)+16)
	require.Regexp(t, "^ed25519:", pk.String())
}

func TestSigner_MarshalBinary(t *testing.T) {
	signer := NewSigner()

	data, err := signer.MarshalBinary()
	require.NoError(t, err)

	restored, err := NewSignerFromBytes(data)
	require.NoError(t, err)
	require.True(t, signer.Equal(restored))
	require.True(t, signer.GetPublicKey().Equal(restored.GetPublicKey()))
	require.True(t, signer.GetPrivateKey().Equal(restored.GetPrivateKey()))

	require.False(t, signer.Equal(NewSigner()))

	_, err = NewSignerFromBytes([]byte{1})
	require.Error(t, err)
	require.Regexp(t, "^couldn't unmarshal scalar: ", err.Error())
}

func TestSigner_FromRandom(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)

	a := NewSignerFromRandom(bytes.NewReader(seed))
	b := NewSignerFromRandom(bytes.NewReader(seed))
	c := NewSignerFromRandom(bytes.NewReader(bytes.Repeat([]byte{8}, 32)))

	require.True(t, a.Equal(b))
	require.True(t, a.GetPublicKey().Equal(b.GetPublicKey()))
	require.False(t, a.Equal(c))

	// The public key matches the private one once restored.
	data, err := a.MarshalBinary()
	require.NoError(t, err)

	restored, err := NewSignerFromBytes(data)
	require.NoError(t, err)
	require.True(t, a.GetPublicKey().Equal(restored.GetPublicKey()))
}
