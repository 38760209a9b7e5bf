package election

import (
	"go.dedis.ch/elector/contracts/election/types"
	"go.dedis.ch/elector/core/execution"
	"go.dedis.ch/elector/core/store"
	"go.dedis.ch/elector/core/store/collection"
	"golang.org/x/xerrors"
)

// fileDispute implements commands. It performs the FILE_DISPUTE command. A
// dispute is only recorded: nothing resolves it yet.
//
// Preconditions, in order: the election exists, name, description.
func (c electionCommand) fileDispute(snap store.Snapshot, step execution.Step) error {
	ctx, err := c.newCall(step)
	if err != nil {
		return err
	}

	id, err := getElectionID(step)
	if err != nil {
		return err
	}

	name := string(step.Current.GetArg(NameArg))
	description := string(step.Current.GetArg(DescriptionArg))

	st := newState(snap)

	_, err = st.loadElection(id)
	if err != nil {
		return err
	}

	err = checkText(name, types.MaxNameLength, ErrInvalidName)
	if err != nil {
		return err
	}

	err = checkText(description, types.MaxDisputeDescriptionLength, ErrInvalidDescription)
	if err != nil {
		return err
	}

	disputes := st.disputeIDs(id)

	raw, err := ctx.ids.Generate(16, uint16Members(disputes))
	if err != nil {
		return classify(xerrors.Errorf("failed to generate dispute id: %w", err))
	}

	did := types.DisputeID(raw)

	dispute := types.Dispute{
		ID:          did,
		Name:        name,
		Description: description,
		Creator:     ctx.callerKey,
	}

	_, err = disputes.Insert(collection.Uint16(uint16(did)))
	if err != nil {
		return xerrors.Errorf("failed to store dispute id: %v", err)
	}

	err = st.dispute(id, did).Set(dispute)
	if err != nil {
		return xerrors.Errorf("failed to store dispute: %v", err)
	}

	logCommand(CmdFileDispute, id).Uint16("dispute", uint16(did)).Msg("dispute filed")

	return nil
}
