package election

import (
	"encoding/json"
	"fmt"

	"go.dedis.ch/elector/contracts/election/types"
	"go.dedis.ch/elector/core/idgen"
	"go.dedis.ch/elector/core/store"
	"go.dedis.ch/elector/core/store/collection"
	"go.dedis.ch/elector/core/store/prefixed"
	"golang.org/x/xerrors"
)

// Namespace is the prefix of the contract keys in the store.
const Namespace = "election"

// state gives access to the storage mappers of the contract.
type state struct {
	snap store.Snapshot
}

func newState(snap store.Snapshot) state {
	return state{snap: prefixed.NewSnapshot(Namespace, snap)}
}

func (s state) owner() collection.Value {
	return collection.NewValue(s.snap, "owner")
}

func (s state) candidateFee() collection.Value {
	return collection.NewValue(s.snap, "candidate_fee")
}

func (s state) electionIDs() collection.Set {
	return collection.NewSet(s.snap, "election_id_list")
}

func (s state) electionData(id types.ElectionID) collection.Value {
	return collection.NewValue(s.snap, fmt.Sprintf("election_data/%d", id))
}

func (s state) registeredVoters(id types.ElectionID) collection.Set {
	return collection.NewSet(s.snap, fmt.Sprintf("registered_voters/%d", id))
}

func (s state) voter(id types.ElectionID, voter string) collection.Value {
	return collection.NewValue(s.snap, fmt.Sprintf("voter/%d/%s", id, voter))
}

func (s state) potentialCandidateIDs(id types.ElectionID) collection.Set {
	return collection.NewSet(s.snap, fmt.Sprintf("potential_candidate_id_list/%d", id))
}

func (s state) candidateIDs(id types.ElectionID) collection.Set {
	return collection.NewSet(s.snap, fmt.Sprintf("candidate_id_list/%d", id))
}

func (s state) candidate(id types.ElectionID, cid types.CandidateID) collection.Value {
	return collection.NewValue(s.snap, fmt.Sprintf("candidate/%d/%d", id, cid))
}

func (s state) votes(id types.ElectionID) collection.List {
	return collection.NewList(s.snap, fmt.Sprintf("votes/%d", id))
}

func (s state) disputeIDs(id types.ElectionID) collection.Set {
	return collection.NewSet(s.snap, fmt.Sprintf("dispute_id_list/%d", id))
}

func (s state) dispute(id types.ElectionID, did types.DisputeID) collection.Value {
	return collection.NewValue(s.snap, fmt.Sprintf("dispute/%d/%d", id, did))
}

func (s state) resultVector(id types.ElectionID, cid types.CandidateID) collection.Value {
	return collection.NewValue(s.snap, fmt.Sprintf("result_vector/%d/%d", id, cid))
}

func (s state) finished(id types.ElectionID) collection.Value {
	return collection.NewValue(s.snap, fmt.Sprintf("finished_election/%d", id))
}

// loadElection returns the record of an election, or ErrElectionNotFound.
func (s state) loadElection(id types.ElectionID) (types.ElectionData, error) {
	found, err := s.electionIDs().Contains(collection.Uint64(uint64(id)))
	if err != nil {
		return types.ElectionData{}, xerrors.Errorf("failed to read election list: %v", err)
	}

	if !found {
		return types.ElectionData{}, xerrors.Errorf("election %d: %w", id, ErrElectionNotFound)
	}

	var data types.ElectionData

	_, err = s.electionData(id).Get(&data)
	if err != nil {
		return types.ElectionData{}, xerrors.Errorf("failed to read election: %v", err)
	}

	return data, nil
}

func (s state) loadVoter(id types.ElectionID, voter string) (types.Voter, error) {
	var v types.Voter

	_, err := s.voter(id, voter).Get(&v)
	if err != nil {
		return v, xerrors.Errorf("failed to read voter: %v", err)
	}

	return v, nil
}

func (s state) loadBallots(id types.ElectionID) ([]types.Vote, error) {
	var ballots []types.Vote

	err := s.votes(id).Iterate(func(item []byte) error {
		var vote types.Vote

		err := json.Unmarshal(item, &vote)
		if err != nil {
			return xerrors.Errorf("failed to decode ballot: %v", err)
		}

		ballots = append(ballots, vote)
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to read ballots: %v", err)
	}

	return ballots, nil
}

// candidates returns the identifiers of a candidate set in iteration order.
func candidates(set collection.Set) ([]types.CandidateID, error) {
	var ids []types.CandidateID

	err := set.Iterate(func(item []byte) error {
		cid, err := collection.ToUint16(item)
		if err != nil {
			return err
		}

		ids = append(ids, types.CandidateID(cid))
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to read candidates: %v", err)
	}

	return ids, nil
}

// uint64Members adapts a set of 64-bit items to an exclusion set.
func uint64Members(set collection.Set) idgen.Membership {
	return idgen.MembershipFunc(func(id uint64) (bool, error) {
		return set.Contains(collection.Uint64(id))
	})
}

// uint16Members adapts a set of 16-bit items to an exclusion set.
func uint16Members(set collection.Set) idgen.Membership {
	return idgen.MembershipFunc(func(id uint64) (bool, error) {
		return set.Contains(collection.Uint16(uint16(id)))
	})
}
