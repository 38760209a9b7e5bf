package election

import (
	"strconv"

	"go.dedis.ch/elector/contracts/election/types"
	"go.dedis.ch/elector/core/execution"
	"go.dedis.ch/elector/core/store"
	"go.dedis.ch/elector/core/store/collection"
	"golang.org/x/xerrors"
)

// registerElection implements commands. It performs the REGISTER_ELECTION
// command.
//
// Preconditions, in order: name, description, election type, schedule. The
// caller becomes the admin of the election.
func (c electionCommand) registerElection(snap store.Snapshot, step execution.Step) error {
	ctx, err := c.newCall(step)
	if err != nil {
		return err
	}

	name := string(step.Current.GetArg(NameArg))
	description := string(step.Current.GetArg(DescriptionArg))

	start, err := getUint(step, StartArg, 64)
	if err != nil {
		return err
	}

	end, err := getUint(step, EndArg, 64)
	if err != nil {
		return err
	}

	err = checkText(name, types.MaxNameLength, ErrInvalidName)
	if err != nil {
		return err
	}

	err = checkText(description, types.MaxElectionDescriptionLength, ErrInvalidDescription)
	if err != nil {
		return err
	}

	et, err := types.ParseElectionType(string(step.Current.GetArg(TypeArg)))
	if err != nil {
		return xerrors.Errorf("%v: %w", err, ErrInvalidElectionType)
	}

	if start >= end {
		return xerrors.Errorf("start %d, end %d: %w", start, end, ErrInvalidSchedule)
	}

	st := newState(snap)

	raw, err := ctx.ids.Generate(64, uint64Members(st.electionIDs()))
	if err != nil {
		return classify(xerrors.Errorf("failed to generate election id: %w", err))
	}

	id := types.ElectionID(raw)

	data := types.ElectionData{
		ID:           id,
		Name:         name,
		Description:  description,
		StartTime:    start,
		EndTime:      end,
		ElectionType: et,
		Ended:        false,
		Admin:        ctx.callerKey,
	}

	_, err = st.electionIDs().Insert(collection.Uint64(raw))
	if err != nil {
		return xerrors.Errorf("failed to store election id: %v", err)
	}

	err = st.electionData(id).Set(data)
	if err != nil {
		return xerrors.Errorf("failed to store election: %v", err)
	}

	ctx.events.Emit(EventElectionCreated, "election", strconv.FormatUint(raw, 10))

	promElections.Inc()

	logCommand(CmdRegisterElection, id).
		Str("type", et.String()).
		Str("admin", ctx.callerKey).
		Msg("election registered")

	return nil
}

// endElection implements commands. It performs the END_ELECTION command.
//
// Preconditions, in order: the election exists, the caller is the admin when
// the configuration requires it, the election has not ended.
func (c electionCommand) endElection(snap store.Snapshot, step execution.Step) error {
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

	if c.config.AdminOnlyEnd && data.Admin != ctx.callerKey {
		return xerrors.Errorf("only the admin can end the election: %w", ErrUnauthorized)
	}

	if data.Ended {
		return xerrors.Errorf("election %d: %w", id, ErrElectionClosed)
	}

	data.Ended = true

	err = st.electionData(id).Set(data)
	if err != nil {
		return xerrors.Errorf("failed to store election: %v", err)
	}

	logCommand(CmdEndElection, id).Msg("election ended")

	return nil
}
