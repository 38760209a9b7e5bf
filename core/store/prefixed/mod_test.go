package prefixed

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/elector/internal/testing/fake"
)

func TestSnapshot_SetGetDelete(t *testing.T) {
	parent := fake.NewSnapshot()

	a := NewSnapshot("a", parent)
	b := NewSnapshot("b", parent)

	require.NoError(t, a.Set([]byte("key"), []byte("A")))
	require.NoError(t, b.Set([]byte("key"), []byte("B")))
	require.Equal(t, 2, parent.Len())

	value, err := a.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("A"), value)

	value, err = NewReadable("b", parent).Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("B"), value)

	value, err = parent.Get(Key([]byte("a"), []byte("key")))
	require.NoError(t, err)
	require.Equal(t, []byte("A"), value)

	require.NoError(t, a.Delete([]byte("key")))
	require.Equal(t, 1, parent.Len())

	value, err = a.Get([]byte("key"))
	require.NoError(t, err)
	require.Nil(t, value)

	bad := NewSnapshot("a", fake.NewBadSnapshot())
	_, err = bad.Get([]byte("key"))
	require.ErrorIs(t, err, fake.GetError())
}

func TestKey(t *testing.T) {
	require.Len(t, Key([]byte("a"), []byte("b")), 32)

	// Length prefixes keep the boundary between the namespace and the key.
	require.NotEqual(t, Key([]byte("ab"), []byte("c")), Key([]byte("a"), []byte("bc")))
	require.Equal(t, Key([]byte("a"), []byte("b")), Key([]byte("a"), []byte("b")))
}
