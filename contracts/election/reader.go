package election

import (
	"go.dedis.ch/elector/contracts/election/types"
	"go.dedis.ch/elector/core/store"
	"go.dedis.ch/elector/core/store/collection"
	"go.dedis.ch/elector/core/store/mem"
	"golang.org/x/xerrors"
)

// Reader gives a read-only access to the state of the contract.
type Reader struct {
	st state
}

// NewReader returns a reader of the state. The writes of the storage mappers
// stay in a buffer that is never applied.
func NewReader(r store.Readable) Reader {
	return Reader{st: newState(mem.Stage(r))}
}

// Owner returns the identity that initialized the contract, or an empty
// string.
func (r Reader) Owner() (string, error) {
	var owner string

	_, err := r.st.owner().Get(&owner)
	if err != nil {
		return "", xerrors.Errorf("failed to read owner: %v", err)
	}

	return owner, nil
}

// CandidateFee returns the current candidacy fee.
func (r Reader) CandidateFee() (uint64, error) {
	return r.st.loadFee()
}

// Elections returns the records of all the elections in the order of the
// election set.
func (r Reader) Elections() ([]types.ElectionData, error) {
	var list []types.ElectionData

	err := r.st.electionIDs().Iterate(func(item []byte) error {
		raw, err := collection.ToUint64(item)
		if err != nil {
			return err
		}

		data, err := r.st.loadElection(types.ElectionID(raw))
		if err != nil {
			return err
		}

		list = append(list, data)
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to list elections: %v", err)
	}

	return list, nil
}

// Election returns the record of the election.
func (r Reader) Election(id types.ElectionID) (types.ElectionData, error) {
	return r.st.loadElection(id)
}

// PotentialCandidates returns the candidates waiting for approval.
func (r Reader) PotentialCandidates(id types.ElectionID) ([]types.CandidateID, error) {
	_, err := r.st.loadElection(id)
	if err != nil {
		return nil, err
	}

	return candidates(r.st.potentialCandidateIDs(id))
}

// Candidates returns the approved candidates.
func (r Reader) Candidates(id types.ElectionID) ([]types.CandidateID, error) {
	_, err := r.st.loadElection(id)
	if err != nil {
		return nil, err
	}

	return candidates(r.st.candidateIDs(id))
}

// Candidate returns the record of a candidate, approved or not.
func (r Reader) Candidate(id types.ElectionID, cid types.CandidateID) (types.Candidate, error) {
	_, err := r.st.loadElection(id)
	if err != nil {
		return types.Candidate{}, err
	}

	var candidate types.Candidate

	found, err := r.st.candidate(id, cid).Get(&candidate)
	if err != nil {
		return candidate, xerrors.Errorf("failed to read candidate: %v", err)
	}

	if !found {
		return candidate, xerrors.Errorf("candidate %d: %w", cid, ErrCandidateNotFound)
	}

	return candidate, nil
}

// RegisteredVoters returns the identities enrolled in the election.
func (r Reader) RegisteredVoters(id types.ElectionID) ([]string, error) {
	_, err := r.st.loadElection(id)
	if err != nil {
		return nil, err
	}

	var voters []string

	err = r.st.registeredVoters(id).Iterate(func(item []byte) error {
		voters = append(voters, string(item))
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to read voters: %v", err)
	}

	return voters, nil
}

// Voter returns the enrollment of an identity. The zero value means that the
// identity is not registered.
func (r Reader) Voter(id types.ElectionID, voter string) (types.Voter, error) {
	_, err := r.st.loadElection(id)
	if err != nil {
		return types.Voter{}, err
	}

	return r.st.loadVoter(id, voter)
}

// Ballots returns the ballots in the order they were cast.
func (r Reader) Ballots(id types.ElectionID) ([]types.Vote, error) {
	_, err := r.st.loadElection(id)
	if err != nil {
		return nil, err
	}

	return r.st.loadBallots(id)
}

// Disputes returns the identifiers of the disputes of the election.
func (r Reader) Disputes(id types.ElectionID) ([]types.DisputeID, error) {
	_, err := r.st.loadElection(id)
	if err != nil {
		return nil, err
	}

	var ids []types.DisputeID

	err = r.st.disputeIDs(id).Iterate(func(item []byte) error {
		did, err := collection.ToUint16(item)
		if err != nil {
			return err
		}

		ids = append(ids, types.DisputeID(did))
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to read disputes: %v", err)
	}

	return ids, nil
}

// Dispute returns the record of a dispute.
func (r Reader) Dispute(id types.ElectionID, did types.DisputeID) (types.Dispute, error) {
	_, err := r.st.loadElection(id)
	if err != nil {
		return types.Dispute{}, err
	}

	var dispute types.Dispute

	found, err := r.st.dispute(id, did).Get(&dispute)
	if err != nil {
		return dispute, xerrors.Errorf("failed to read dispute: %v", err)
	}

	if !found {
		return dispute, xerrors.Errorf("dispute %d: %w", did, ErrDisputeNotFound)
	}

	return dispute, nil
}

// Results returns the stored count of every approved candidate. It fails with
// ErrResultsUnavailable until the election has been counted.
func (r Reader) Results(id types.ElectionID) ([]types.VotingResult, error) {
	err := r.checkCounted(id)
	if err != nil {
		return nil, err
	}

	_, counts, err := r.st.counts(id)
	if err != nil {
		return nil, err
	}

	return counts, nil
}

// Winner returns the winner of a counted election. The boolean is false when
// no approved candidate received a vote.
func (r Reader) Winner(id types.ElectionID) (types.CandidateID, uint64, bool, error) {
	err := r.checkCounted(id)
	if err != nil {
		return 0, 0, false, err
	}

	return r.st.winner(id)
}

func (r Reader) checkCounted(id types.ElectionID) error {
	_, err := r.st.loadElection(id)
	if err != nil {
		return err
	}

	var finished bool

	_, err = r.st.finished(id).Get(&finished)
	if err != nil {
		return xerrors.Errorf("failed to read results flag: %v", err)
	}

	if !finished {
		return xerrors.Errorf("election %d not counted: %w", id, ErrResultsUnavailable)
	}

	return nil
}
