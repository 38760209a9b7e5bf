package election

import (
	"go.dedis.ch/elector/contracts/election/types"
	"go.dedis.ch/elector/core/access"
	"go.dedis.ch/elector/core/execution"
	"go.dedis.ch/elector/core/store"
	"go.dedis.ch/elector/core/store/collection"
	"golang.org/x/xerrors"
)

// submitCandidacy implements commands. It performs the SUBMIT_CANDIDACY
// command: the caller pays the candidacy fee to the admin and joins the
// applicants.
//
// Preconditions, in order: the election exists, has not ended, has not
// started, the payment covers the fee, the fee is transferred, name,
// description.
func (c electionCommand) submitCandidacy(snap store.Snapshot, step execution.Step) error {
	ctx, err := c.newCall(step)
	if err != nil {
		return err
	}

	id, err := getElectionID(step)
	if err != nil {
		return err
	}

	var payment uint64
	if len(step.Current.GetArg(PaymentArg)) > 0 {
		payment, err = getUint(step, PaymentArg, 64)
		if err != nil {
			return err
		}
	}

	name := string(step.Current.GetArg(NameArg))
	description := string(step.Current.GetArg(DescriptionArg))

	st := newState(snap)

	data, err := st.loadElection(id)
	if err != nil {
		return err
	}

	err = checkCandidacyWindow(data, ctx.now)
	if err != nil {
		return err
	}

	fee, err := st.loadFee()
	if err != nil {
		return err
	}

	if payment < fee {
		return xerrors.Errorf("paid %d, fee is %d: %w", payment, fee, ErrInsufficientFee)
	}

	err = c.bank.Transfer(snap, ctx.caller, access.Raw(data.Admin), fee)
	if err != nil {
		return classify(xerrors.Errorf("failed to pay the fee: %w", err))
	}

	err = checkText(name, types.MaxNameLength, ErrInvalidName)
	if err != nil {
		return err
	}

	err = checkText(description, types.MaxCandidateDescriptionLength, ErrInvalidDescription)
	if err != nil {
		return err
	}

	potential := st.potentialCandidateIDs(id)
	approved := st.candidateIDs(id)

	raw, err := ctx.ids.Generate(16, uint16Members(potential), uint16Members(approved))
	if err != nil {
		return classify(xerrors.Errorf("failed to generate candidate id: %w", err))
	}

	cid := types.CandidateID(raw)

	candidate := types.Candidate{
		ID:          cid,
		Name:        name,
		Description: description,
		Creator:     ctx.callerKey,
	}

	_, err = potential.Insert(collection.Uint16(uint16(cid)))
	if err != nil {
		return xerrors.Errorf("failed to store candidate id: %v", err)
	}

	err = st.candidate(id, cid).Set(candidate)
	if err != nil {
		return xerrors.Errorf("failed to store candidate: %v", err)
	}

	logCommand(CmdSubmitCandidacy, id).
		Uint16("candidate", uint16(cid)).
		Uint64("fee", fee).
		Msg("candidacy submitted")

	return nil
}

// approveCandidate implements commands. It performs the APPROVE_CANDIDATE
// command: an applicant becomes a candidate of the ballots.
//
// Preconditions, in order: the election exists, has not ended, the caller is
// the admin, the election has not started, the candidate is not approved yet,
// the candidate has applied.
func (c electionCommand) approveCandidate(snap store.Snapshot, step execution.Step) error {
	ctx, err := c.newCall(step)
	if err != nil {
		return err
	}

	id, err := getElectionID(step)
	if err != nil {
		return err
	}

	cid, err := getCandidateID(step)
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

	if data.Admin != ctx.callerKey {
		return xerrors.Errorf("only the admin can approve candidates: %w", ErrUnauthorized)
	}

	if ctx.now >= data.StartTime {
		return xerrors.Errorf("election %d: %w", id, ErrWindowClosed)
	}

	item := collection.Uint16(uint16(cid))

	approved := st.candidateIDs(id)

	found, err := approved.Contains(item)
	if err != nil {
		return xerrors.Errorf("failed to read candidates: %v", err)
	}

	if found {
		return xerrors.Errorf("candidate %d: %w", cid, ErrAlreadyApproved)
	}

	removed, err := st.potentialCandidateIDs(id).Remove(item)
	if err != nil {
		return xerrors.Errorf("failed to remove applicant: %v", err)
	}

	if !removed {
		return xerrors.Errorf("candidate %d: %w", cid, ErrCandidateNotFound)
	}

	_, err = approved.Insert(item)
	if err != nil {
		return xerrors.Errorf("failed to store candidate id: %v", err)
	}

	logCommand(CmdApproveCandidate, id).
		Uint16("candidate", uint16(cid)).
		Msg("candidate approved")

	return nil
}

// checkCandidacyWindow returns an error if the election does not accept
// applicants or enrollments anymore.
func checkCandidacyWindow(data types.ElectionData, now uint64) error {
	if data.Ended {
		return xerrors.Errorf("election %d: %w", data.ID, ErrElectionClosed)
	}

	if now >= data.StartTime {
		return xerrors.Errorf("election %d: %w", data.ID, ErrWindowClosed)
	}

	return nil
}
