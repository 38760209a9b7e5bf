package election

import (
	"encoding/json"

	"go.dedis.ch/elector/contracts/election/types"
	"go.dedis.ch/elector/core/execution"
	"go.dedis.ch/elector/core/store"
	"go.dedis.ch/elector/core/store/collection"
	"golang.org/x/xerrors"
)

// castVote implements commands. It performs the CAST_VOTE command. A voter
// has one ballot per election.
//
// Preconditions, in order: the election exists, has not ended, the caller is
// registered, the caller has not voted, the ballot fits the election type,
// every candidate of the ballot is approved.
func (c electionCommand) castVote(snap store.Snapshot, step execution.Step) error {
	ctx, err := c.newCall(step)
	if err != nil {
		return err
	}

	id, err := getElectionID(step)
	if err != nil {
		return err
	}

	prefs, err := getCandidates(step)
	if err != nil {
		return err
	}

	st := newState(snap)

	data, err := st.loadElection(id)
	if err != nil {
		return err
	}

	if data.Ended {
		return xerrors.Errorf("election %d: %w", id, ErrElectionClosed)
	}

	voter, err := st.loadVoter(id, ctx.callerKey)
	if err != nil {
		return err
	}

	if !voter.Registered {
		return xerrors.Errorf("voter '%s': %w", ctx.callerKey, ErrNotRegistered)
	}

	if !voter.Eligible {
		return xerrors.Errorf("voter '%s': %w", ctx.callerKey, ErrAlreadyVoted)
	}

	err = checkBallot(data.ElectionType, prefs)
	if err != nil {
		return err
	}

	approved := st.candidateIDs(id)

	for _, cid := range prefs {
		found, err := approved.Contains(collection.Uint16(uint16(cid)))
		if err != nil {
			return xerrors.Errorf("failed to read candidates: %v", err)
		}

		if !found {
			return xerrors.Errorf("candidate %d: %w", cid, ErrUnknownCandidate)
		}
	}

	ballot, err := json.Marshal(types.Vote{Candidates: prefs})
	if err != nil {
		return xerrors.Errorf("failed to encode ballot: %v", err)
	}

	err = st.votes(id).Push(ballot)
	if err != nil {
		return xerrors.Errorf("failed to store ballot: %v", err)
	}

	voter.Eligible = false

	err = st.voter(id, ctx.callerKey).Set(voter)
	if err != nil {
		return xerrors.Errorf("failed to store eligibility: %v", err)
	}

	promBallots.Inc()

	logCommand(CmdCastVote, id).Msg("ballot cast")

	return nil
}

// checkBallot returns an error if the ballot does not fit the election type.
// A plurality ballot has exactly one candidate, the others at least one, and
// no ballot lists a candidate twice.
func checkBallot(et types.ElectionType, prefs []types.CandidateID) error {
	if et == types.Plurality && len(prefs) != 1 {
		return xerrors.Errorf("plurality ballot with %d candidates: %w", len(prefs), ErrInvalidBallotShape)
	}

	if len(prefs) == 0 {
		return xerrors.Errorf("empty ballot: %w", ErrInvalidBallotShape)
	}

	seen := make(map[types.CandidateID]struct{}, len(prefs))
	for _, cid := range prefs {
		_, found := seen[cid]
		if found {
			return xerrors.Errorf("candidate %d listed twice: %w", cid, ErrInvalidBallotShape)
		}

		seen[cid] = struct{}{}
	}

	return nil
}
