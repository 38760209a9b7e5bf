package election

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.dedis.ch/elector/contracts/election/types"
	"go.dedis.ch/elector/core/idgen"
)

func TestRegisterElection(t *testing.T) {
	h := newHarness(t)

	before := testutil.ToFloat64(promElections)

	id := h.register(types.Approval)

	require.Equal(t, before+1, testutil.ToFloat64(promElections))

	data, err := h.reader().Election(id)
	require.NoError(t, err)
	require.Equal(t, types.ElectionData{
		ID:           id,
		Name:         "board",
		Description:  "yearly board election",
		StartTime:    200,
		EndTime:      300,
		ElectionType: types.Approval,
		Admin:        "fake:alice",
	}, data)

	list, err := h.reader().Elections()
	require.NoError(t, err)
	require.Equal(t, []types.ElectionData{data}, list)
}

func TestRegisterElection_Validation(t *testing.T) {
	h := newHarness(t)

	valid := map[string]string{
		NameArg:        "board",
		DescriptionArg: "yearly",
		TypeArg:        "2",
		StartArg:       "200",
		EndArg:         "300",
	}

	run := func(overrides ...string) error {
		args := map[string]string{}
		for k, v := range valid {
			args[k] = v
		}

		for i := 0; i+1 < len(overrides); i += 2 {
			args[overrides[i]] = overrides[i+1]
		}

		var list []string
		for k, v := range args {
			list = append(list, k, v)
		}

		_, err := h.do("alice", CmdRegisterElection, list...)
		return err
	}

	err := run(NameArg, "")
	require.True(t, errors.Is(err, ErrInvalidName))
	require.True(t, errors.Is(err, KindValidation))

	err = run(NameArg, strings.Repeat("a", 51))
	require.True(t, errors.Is(err, ErrInvalidName))

	require.NoError(t, run(NameArg, strings.Repeat("a", 50)))

	err = run(DescriptionArg, strings.Repeat("a", 201))
	require.True(t, errors.Is(err, ErrInvalidDescription))

	require.NoError(t, run(DescriptionArg, strings.Repeat("a", 200)))

	err = run(TypeArg, "3")
	require.True(t, errors.Is(err, ErrInvalidElectionType))

	require.NoError(t, run(TypeArg, "SingleTransferableVote"))

	err = run(StartArg, "300")
	require.True(t, errors.Is(err, ErrInvalidSchedule))
	require.True(t, errors.Is(err, KindValidation))

	err = run(StartArg, "301")
	require.True(t, errors.Is(err, ErrInvalidSchedule))

	err = run(StartArg, "abc")
	require.True(t, errors.Is(err, ErrInvalidArgument))

	// The name is checked before the type and the schedule.
	err = run(NameArg, "", TypeArg, "9", StartArg, "400")
	require.True(t, errors.Is(err, ErrInvalidName))

	err = run(TypeArg, "9", StartArg, "400")
	require.True(t, errors.Is(err, ErrInvalidElectionType))

	list, err := h.reader().Elections()
	require.NoError(t, err)
	require.Len(t, list, 3)
}

func TestRegisterElection_Exhausted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIDAttempts = 0

	h := newHarness(t, WithConfig(cfg))

	_, err := h.do("alice", CmdRegisterElection, NameArg, "board", DescriptionArg, "yearly",
		TypeArg, "0", StartArg, "200", EndArg, "300")
	require.True(t, errors.Is(err, KindResourceExhausted))
	require.True(t, errors.Is(err, idgen.ErrExhausted))
}

func TestRegisterElection_Deterministic(t *testing.T) {
	a := newHarness(t)
	b := newHarness(t)

	require.Equal(t, a.register(types.Plurality), b.register(types.Plurality))

	// Another transaction draws another identifier.
	require.NotEqual(t, a.register(types.Plurality), b.register(types.Approval))
}

func TestEndElection(t *testing.T) {
	h := newHarness(t)
	id := h.register(types.Plurality)

	// Any caller can end an election by default.
	h.mustDo("mallory", CmdEndElection, ElectionIDArg, idArg(id))

	data, err := h.reader().Election(id)
	require.NoError(t, err)
	require.True(t, data.Ended)

	_, err = h.do("alice", CmdEndElection, ElectionIDArg, idArg(id))
	require.True(t, errors.Is(err, ErrElectionClosed))
	require.True(t, errors.Is(err, KindStateConflict))

	_, err = h.do("alice", CmdEndElection, ElectionIDArg, "42")
	require.True(t, errors.Is(err, ErrElectionNotFound))
	require.True(t, errors.Is(err, KindNotFound))

	_, err = h.do("alice", CmdEndElection)
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestEndElection_AdminOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AdminOnlyEnd = true

	h := newHarness(t, WithConfig(cfg))
	id := h.register(types.Plurality)

	_, err := h.do("mallory", CmdEndElection, ElectionIDArg, idArg(id))
	require.True(t, errors.Is(err, ErrUnauthorized))

	h.mustDo("alice", CmdEndElection, ElectionIDArg, idArg(id))
}

func TestInitAndUpdateFee(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CandidateFee = 7

	h := newHarness(t, WithConfig(cfg))

	fee, err := h.reader().CandidateFee()
	require.NoError(t, err)
	require.Equal(t, uint64(0), fee)

	h.mustDo("alice", CmdInit)

	fee, err = h.reader().CandidateFee()
	require.NoError(t, err)
	require.Equal(t, uint64(7), fee)

	owner, err := h.reader().Owner()
	require.NoError(t, err)
	require.Equal(t, "fake:alice", owner)

	_, err = h.do("bob", CmdInit, FeeArg, "1")
	require.True(t, errors.Is(err, ErrAlreadyInitialized))

	_, err = h.do("bob", CmdUpdateFee, FeeArg, "1")
	require.True(t, errors.Is(err, ErrUnauthorized))

	_, err = h.do("alice", CmdUpdateFee)
	require.True(t, errors.Is(err, ErrInvalidArgument))

	h.mustDo("alice", CmdUpdateFee, FeeArg, "3")

	fee, err = h.reader().CandidateFee()
	require.NoError(t, err)
	require.Equal(t, uint64(3), fee)

	other := newHarness(t)
	other.mustDo("bob", CmdInit, FeeArg, "11")

	fee, err = other.reader().CandidateFee()
	require.NoError(t, err)
	require.Equal(t, uint64(11), fee)

	_, err = other.do("bob", CmdInit, FeeArg, "x")
	require.True(t, errors.Is(err, ErrInvalidArgument))
}
