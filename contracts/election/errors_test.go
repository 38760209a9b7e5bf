package election

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/elector/core/balance"
	"go.dedis.ch/elector/core/idgen"
	"go.dedis.ch/elector/internal/testing/fake"
	"golang.org/x/xerrors"
)

func TestError_Is(t *testing.T) {
	err := xerrors.Errorf("failed to END_ELECTION: %w", ErrElectionClosed)

	require.True(t, errors.Is(err, ErrElectionClosed))
	require.True(t, errors.Is(err, KindStateConflict))
	require.False(t, errors.Is(err, KindValidation))
	require.False(t, errors.Is(err, ErrAlreadyVoted))

	kind, found := KindOf(err)
	require.True(t, found)
	require.Equal(t, KindStateConflict, kind)

	_, found = KindOf(fake.GetError())
	require.False(t, found)
}

func TestKind_Error(t *testing.T) {
	require.Equal(t, "not found", KindNotFound.Error())
	require.Equal(t, "unknown error kind", Kind(0).Error())
}

func TestClassify(t *testing.T) {
	err := classify(xerrors.Errorf("failed: %w", idgen.ErrExhausted))
	require.True(t, errors.Is(err, KindResourceExhausted))
	require.True(t, errors.Is(err, idgen.ErrExhausted))

	err = classify(xerrors.Errorf("failed: %w", balance.ErrInsufficientBalance))
	require.True(t, errors.Is(err, KindInsufficientFee))

	err = classify(fake.GetError())
	require.Equal(t, fake.GetError(), err)
}
