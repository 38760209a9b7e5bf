package election

import (
	"strconv"

	"go.dedis.ch/elector/contracts/election/tally"
	"go.dedis.ch/elector/contracts/election/types"
	"go.dedis.ch/elector/core/execution"
	"go.dedis.ch/elector/core/store"
	"golang.org/x/xerrors"
)

// results implements commands. It performs the RESULTS command: the ballots
// are counted the first time, and the counts are kept for the next calls. The
// winner is announced with an event.
//
// Preconditions, in order: the election exists, the results gate is open.
func (c electionCommand) results(snap store.Snapshot, step execution.Step) error {
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

	err = c.checkResultsGate(data, ctx.now)
	if err != nil {
		return err
	}

	err = st.computeResults(data)
	if err != nil {
		return err
	}

	winner, count, found, err := st.winner(id)
	if err != nil {
		return err
	}

	ctx.events.Emit(EventResultsComputed,
		"election", strconv.FormatUint(uint64(id), 10),
		"winner", strconv.FormatUint(uint64(winner), 10),
		"count", strconv.FormatUint(count, 10),
		"has_winner", strconv.FormatBool(found))

	logCommand(CmdResults, id).
		Bool("has_winner", found).
		Uint16("candidate", uint16(winner)).
		Uint64("count", count).
		Msg("results")

	return nil
}

func (c Contract) checkResultsGate(data types.ElectionData, now uint64) error {
	switch c.config.ResultsGate {
	case GateEnded:
		if data.EndTime > now {
			return xerrors.Errorf("election %d ends at %d: %w", data.ID, data.EndTime, ErrResultsUnavailable)
		}
	default:
		if data.EndTime <= now {
			return xerrors.Errorf("election %d ended at %d: %w", data.ID, data.EndTime, ErrResultsUnavailable)
		}
	}

	return nil
}

// computeResults counts the ballots unless the counts are already stored.
func (s state) computeResults(data types.ElectionData) error {
	var finished bool

	_, err := s.finished(data.ID).Get(&finished)
	if err != nil {
		return xerrors.Errorf("failed to read results flag: %v", err)
	}

	if finished {
		return nil
	}

	ballots, err := s.loadBallots(data.ID)
	if err != nil {
		return err
	}

	outcome, err := tally.Evaluate(data.ElectionType, ballots)
	if err != nil {
		return xerrors.Errorf("failed to count: %v", err)
	}

	for _, res := range outcome.Counts {
		err = s.resultVector(data.ID, res.Candidate).Set(res)
		if err != nil {
			return xerrors.Errorf("failed to store count: %v", err)
		}
	}

	err = s.finished(data.ID).Set(true)
	if err != nil {
		return xerrors.Errorf("failed to store results flag: %v", err)
	}

	promTallies.WithLabelValues(data.ElectionType.String()).Inc()

	return nil
}

// counts returns the stored count of every approved candidate, in the order
// of the approved set.
func (s state) counts(id types.ElectionID) ([]types.CandidateID, []types.VotingResult, error) {
	approved, err := candidates(s.candidateIDs(id))
	if err != nil {
		return nil, nil, err
	}

	counts := make([]types.VotingResult, len(approved))

	for i, cid := range approved {
		res := types.VotingResult{Candidate: cid}

		_, err = s.resultVector(id, cid).Get(&res)
		if err != nil {
			return nil, nil, xerrors.Errorf("failed to read count: %v", err)
		}

		counts[i] = res
	}

	return approved, counts, nil
}

func (s state) winner(id types.ElectionID) (types.CandidateID, uint64, bool, error) {
	approved, counts, err := s.counts(id)
	if err != nil {
		return 0, 0, false, err
	}

	winner, count, found := tally.Winner(approved, counts)

	return winner, count, found, nil
}
