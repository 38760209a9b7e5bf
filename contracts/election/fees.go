package election

import (
	"go.dedis.ch/elector"
	"go.dedis.ch/elector/core/execution"
	"go.dedis.ch/elector/core/store"
	"golang.org/x/xerrors"
)

// init implements commands. It performs the INIT command: the caller becomes
// the owner and the fee of the transaction, or of the configuration, becomes
// the candidacy fee.
func (c electionCommand) init(snap store.Snapshot, step execution.Step) error {
	ctx, err := c.newCall(step)
	if err != nil {
		return err
	}

	fee := c.config.CandidateFee

	if len(step.Current.GetArg(FeeArg)) > 0 {
		fee, err = getUint(step, FeeArg, 64)
		if err != nil {
			return err
		}
	}

	st := newState(snap)

	var owner string

	found, err := st.owner().Get(&owner)
	if err != nil {
		return xerrors.Errorf("failed to read owner: %v", err)
	}

	if found {
		return ErrAlreadyInitialized
	}

	err = st.owner().Set(ctx.callerKey)
	if err != nil {
		return xerrors.Errorf("failed to store owner: %v", err)
	}

	err = st.candidateFee().Set(fee)
	if err != nil {
		return xerrors.Errorf("failed to store fee: %v", err)
	}

	elector.Logger.Info().
		Str("contract", "election").
		Str("command", string(CmdInit)).
		Str("owner", ctx.callerKey).
		Uint64("fee", fee).
		Msg("contract initialized")

	return nil
}

// updateFee implements commands. It performs the UPDATE_FEE command.
func (c electionCommand) updateFee(snap store.Snapshot, step execution.Step) error {
	ctx, err := c.newCall(step)
	if err != nil {
		return err
	}

	fee, err := getUint(step, FeeArg, 64)
	if err != nil {
		return err
	}

	st := newState(snap)

	var owner string

	_, err = st.owner().Get(&owner)
	if err != nil {
		return xerrors.Errorf("failed to read owner: %v", err)
	}

	if owner != ctx.callerKey {
		return xerrors.Errorf("only the owner can update the fee: %w", ErrUnauthorized)
	}

	err = st.candidateFee().Set(fee)
	if err != nil {
		return xerrors.Errorf("failed to store fee: %v", err)
	}

	elector.Logger.Info().
		Str("contract", "election").
		Str("command", string(CmdUpdateFee)).
		Uint64("fee", fee).
		Msg("fee updated")

	return nil
}

func (s state) loadFee() (uint64, error) {
	var fee uint64

	_, err := s.candidateFee().Get(&fee)
	if err != nil {
		return 0, xerrors.Errorf("failed to read fee: %v", err)
	}

	return fee, nil
}
