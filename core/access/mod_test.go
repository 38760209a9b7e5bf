package access

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/elector/internal/testing/fake"
)

func TestKey(t *testing.T) {
	key, err := Key(fake.NewIdentity("alice"))
	require.NoError(t, err)
	require.Equal(t, "fake:alice", key)

	key, err = Key(Raw("ed25519:aa"))
	require.NoError(t, err)
	require.Equal(t, "ed25519:aa", key)

	_, err = Key(nil)
	require.EqualError(t, err, "missing identity")

	_, err = Key(fake.NewBadIdentity())
	require.EqualError(t, err, fake.Err("failed to marshal identity"))
}

func TestRaw_String(t *testing.T) {
	require.Equal(t, "abc", Raw("abc").String())
}
