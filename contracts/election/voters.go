package election

import (
	"go.dedis.ch/elector/contracts/election/types"
	"go.dedis.ch/elector/core/execution"
	"go.dedis.ch/elector/core/store"
	"golang.org/x/xerrors"
)

// Verifier decides whether a self-registration payload proves the right of
// the caller to vote in the election.
type Verifier interface {
	Verify(id types.ElectionID, payload []byte) bool
}

// LengthVerifier accepts every payload strictly longer than its value. It is
// a placeholder for a real identity check.
//
// - implements election.Verifier
type LengthVerifier int

// Verify implements election.Verifier.
func (v LengthVerifier) Verify(_ types.ElectionID, payload []byte) bool {
	return len(payload) > int(v)
}

// registerVoter implements commands. It performs the REGISTER_VOTER command:
// the admin enrolls a voter.
//
// Preconditions, in order: the election exists, the caller is the admin, the
// voter is not registered.
func (c electionCommand) registerVoter(snap store.Snapshot, step execution.Step) error {
	ctx, err := c.newCall(step)
	if err != nil {
		return err
	}

	id, err := getElectionID(step)
	if err != nil {
		return err
	}

	voter := string(step.Current.GetArg(VoterArg))
	if voter == "" {
		return xerrors.Errorf("'%s' not found in tx arg: %w", VoterArg, ErrInvalidArgument)
	}

	st := newState(snap)

	data, err := st.loadElection(id)
	if err != nil {
		return err
	}

	if data.Admin != ctx.callerKey {
		return xerrors.Errorf("only the admin can register voters: %w", ErrUnauthorized)
	}

	err = st.enroll(id, voter)
	if err != nil {
		return err
	}

	logCommand(CmdRegisterVoter, id).Str("voter", voter).Msg("voter registered")

	return nil
}

// registerSelf implements commands. It performs the REGISTER_SELF command: the
// caller enrolls with a verification payload.
//
// Preconditions, in order: the election exists, has not ended, has not
// started, the caller is not registered, the payload is verified.
func (c electionCommand) registerSelf(snap store.Snapshot, step execution.Step) error {
	ctx, err := c.newCall(step)
	if err != nil {
		return err
	}

	id, err := getElectionID(step)
	if err != nil {
		return err
	}

	st := newState(snap)

	data, err := st.loadElection(id)
	if err != nil {
		return err
	}

	err = checkCandidacyWindow(data, ctx.now)
	if err != nil {
		return err
	}

	found, err := st.registeredVoters(id).Contains([]byte(ctx.callerKey))
	if err != nil {
		return xerrors.Errorf("failed to read voters: %v", err)
	}

	if found {
		return xerrors.Errorf("voter '%s': %w", ctx.callerKey, ErrAlreadyRegistered)
	}

	if !c.verifier.Verify(id, step.Current.GetArg(VerificationArg)) {
		return xerrors.Errorf("voter '%s': %w", ctx.callerKey, ErrVerificationFailed)
	}

	err = st.enroll(id, ctx.callerKey)
	if err != nil {
		return err
	}

	logCommand(CmdRegisterSelf, id).Str("voter", ctx.callerKey).Msg("voter registered")

	return nil
}

// enroll registers the voter as eligible, or fails with ErrAlreadyRegistered.
func (s state) enroll(id types.ElectionID, voter string) error {
	inserted, err := s.registeredVoters(id).Insert([]byte(voter))
	if err != nil {
		return xerrors.Errorf("failed to store voter: %v", err)
	}

	if !inserted {
		return xerrors.Errorf("voter '%s': %w", voter, ErrAlreadyRegistered)
	}

	err = s.voter(id, voter).Set(types.Voter{Registered: true, Eligible: true})
	if err != nil {
		return xerrors.Errorf("failed to store eligibility: %v", err)
	}

	return nil
}
