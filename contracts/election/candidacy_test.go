package election

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/elector/contracts/election/types"
	"go.dedis.ch/elector/core/idgen"
)

func TestSubmitCandidacy(t *testing.T) {
	h := newHarness(t)
	h.mustDo("alice", CmdInit, FeeArg, "4")
	h.mint("bob", 10)

	id := h.register(types.Plurality)

	h.mustDo("bob", CmdSubmitCandidacy, ElectionIDArg, idArg(id), PaymentArg, "5",
		NameArg, "bob", DescriptionArg, "for a better board")

	// Only the fee is transferred whatever the payment.
	require.Equal(t, uint64(6), h.balance("bob"))
	require.Equal(t, uint64(4), h.balance("alice"))

	potential, err := h.reader().PotentialCandidates(id)
	require.NoError(t, err)
	require.Len(t, potential, 1)

	candidate, err := h.reader().Candidate(id, potential[0])
	require.NoError(t, err)
	require.Equal(t, types.Candidate{
		ID:          potential[0],
		Name:        "bob",
		Description: "for a better board",
		Creator:     "fake:bob",
	}, candidate)

	approved, err := h.reader().Candidates(id)
	require.NoError(t, err)
	require.Empty(t, approved)
}

func TestSubmitCandidacy_InsufficientFee(t *testing.T) {
	h := newHarness(t)
	h.mustDo("alice", CmdInit, FeeArg, "4")
	h.mint("bob", 2)

	id := h.register(types.Plurality)

	apply := func(payment string) error {
		_, err := h.do("bob", CmdSubmitCandidacy, ElectionIDArg, idArg(id), PaymentArg, payment,
			NameArg, "bob", DescriptionArg, "bob")
		return err
	}

	err := apply("3")
	require.True(t, errors.Is(err, ErrInsufficientFee))
	require.True(t, errors.Is(err, KindInsufficientFee))

	// The payment covers the fee but the balance does not.
	err = apply("4")
	require.True(t, errors.Is(err, KindInsufficientFee))

	potential, err := h.reader().PotentialCandidates(id)
	require.NoError(t, err)
	require.Empty(t, potential)

	require.Equal(t, uint64(2), h.balance("bob"))
}

func TestSubmitCandidacy_FreeOfCharge(t *testing.T) {
	h := newHarness(t)
	id := h.register(types.Approval)

	// No payment is needed while the contract is not initialized.
	h.apply(id, "bob")
	h.apply(id, "carol")

	potential, err := h.reader().PotentialCandidates(id)
	require.NoError(t, err)
	require.Len(t, potential, 2)
	require.NotEqual(t, potential[0], potential[1])
}

func TestSubmitCandidacy_Preconditions(t *testing.T) {
	h := newHarness(t)
	id := h.register(types.Plurality)

	apply := func(args ...string) error {
		_, err := h.do("bob", CmdSubmitCandidacy, append([]string{ElectionIDArg, idArg(id)}, args...)...)
		return err
	}

	err := apply(NameArg, "", DescriptionArg, "bob")
	require.True(t, errors.Is(err, ErrInvalidName))

	err = apply(NameArg, "bob", DescriptionArg, strings.Repeat("x", 51))
	require.True(t, errors.Is(err, ErrInvalidDescription))

	err = apply(NameArg, "bob", DescriptionArg, "bob", PaymentArg, "-1")
	require.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = h.do("bob", CmdSubmitCandidacy, ElectionIDArg, "7", NameArg, "bob", DescriptionArg, "bob")
	require.True(t, errors.Is(err, ErrElectionNotFound))

	h.now = 200

	err = apply(NameArg, "bob", DescriptionArg, "bob")
	require.True(t, errors.Is(err, ErrWindowClosed))
	require.True(t, errors.Is(err, KindStateConflict))

	h.mustDo("alice", CmdEndElection, ElectionIDArg, idArg(id))

	// An ended election is reported before the window.
	err = apply(NameArg, "", DescriptionArg, "bob")
	require.True(t, errors.Is(err, ErrElectionClosed))
}

func TestSubmitCandidacy_Exhausted(t *testing.T) {
	cfg := DefaultConfig()
	h := newHarness(t, WithConfig(cfg))
	id := h.register(types.Plurality)

	cfg.MaxIDAttempts = 0
	h.contract = NewContract(h.bank, WithConfig(cfg))

	_, err := h.do("bob", CmdSubmitCandidacy, ElectionIDArg, idArg(id), NameArg, "bob", DescriptionArg, "bob")
	require.True(t, errors.Is(err, KindResourceExhausted))
	require.True(t, errors.Is(err, idgen.ErrExhausted))
}

func TestApproveCandidate(t *testing.T) {
	h := newHarness(t)
	id := h.register(types.Plurality)

	bob := h.apply(id, "bob")
	carol := h.apply(id, "carol")

	approve := func(caller string, cid types.CandidateID) error {
		_, err := h.do(caller, CmdApproveCandidate, ElectionIDArg, idArg(id), CandidateArg, cidArg(cid))
		return err
	}

	err := approve("bob", bob)
	require.True(t, errors.Is(err, ErrUnauthorized))
	require.True(t, errors.Is(err, KindUnauthorized))

	require.NoError(t, approve("alice", carol))
	require.NoError(t, approve("alice", bob))

	approved, err := h.reader().Candidates(id)
	require.NoError(t, err)
	require.Equal(t, []types.CandidateID{carol, bob}, approved)

	potential, err := h.reader().PotentialCandidates(id)
	require.NoError(t, err)
	require.Empty(t, potential)

	err = approve("alice", bob)
	require.True(t, errors.Is(err, ErrAlreadyApproved))
	require.True(t, errors.Is(err, KindStateConflict))

	unknown := bob + 1
	if unknown == carol {
		unknown++
	}

	err = approve("alice", unknown)
	require.True(t, errors.Is(err, ErrCandidateNotFound))
	require.True(t, errors.Is(err, KindNotFound))

	_, err = h.do("alice", CmdApproveCandidate, ElectionIDArg, idArg(id), CandidateArg, "65536")
	require.True(t, errors.Is(err, ErrInvalidArgument))

	h.now = 250

	err = approve("alice", unknown)
	require.True(t, errors.Is(err, ErrWindowClosed))

	h.mustDo("alice", CmdEndElection, ElectionIDArg, idArg(id))

	err = approve("alice", unknown)
	require.True(t, errors.Is(err, ErrElectionClosed))
}
