// Package tally counts the ballots of an election. The functions are pure:
// they never modify the ballots they are given.
package tally

import (
	"go.dedis.ch/elector/contracts/election/types"
	"golang.org/x/xerrors"
)

// Outcome is the result of a count.
type Outcome struct {
	// Counts holds one entry per candidate with at least one vote, in the
	// order the candidates were first counted. Eliminated candidates keep
	// their last count.
	Counts []types.VotingResult

	// Rounds is the number of eliminations of a transferable vote.
	Rounds int
}

// Evaluate counts the ballots with the rule of the election type.
func Evaluate(et types.ElectionType, ballots []types.Vote) (Outcome, error) {
	switch et {
	case types.Plurality, types.Approval:
		return Outcome{Counts: CountAll(ballots)}, nil
	case types.SingleTransferableVote:
		return Transferable(ballots), nil
	default:
		return Outcome{}, xerrors.Errorf("unsupported election type %v", et)
	}
}

// CountAll gives one vote to every candidate listed on every ballot. It is the
// rule of both plurality and approval elections.
func CountAll(ballots []types.Vote) []types.VotingResult {
	var board scoreboard

	for _, ballot := range ballots {
		for _, c := range ballot.Candidates {
			board.add(c)
		}
	}

	return board.results()
}

// Transferable runs a single transferable vote over the ballots.
//
// Every ballot counts for its first preference. While no candidate holds
// more than half of the ballots, the candidate with the fewest votes is
// eliminated: the ballots it leads move to their next preference, and it is
// struck from every ballot. A ballot without any preference left is exhausted
// but still counts in the majority threshold. The count also stops when a
// single candidate is left. An eliminated candidate is reported with the count
// it had when it was struck.
func Transferable(ballots []types.Vote) Outcome {
	threshold := uint64(len(ballots) / 2)

	working := make([][]types.CandidateID, 0, len(ballots))
	for _, ballot := range ballots {
		if len(ballot.Candidates) > 0 {
			working = append(working, append([]types.CandidateID{}, ballot.Candidates...))
		}
	}

	var board scoreboard
	for _, prefs := range working {
		board.add(prefs[0])
	}

	rounds := 0

	for board.len() > 1 && !board.hasAbove(threshold) {
		worst := board.weakest()

		board.eliminate(worst)
		working = eliminate(working, worst, &board)

		rounds++
	}

	return Outcome{Counts: board.results(), Rounds: rounds}
}

// eliminate returns the next generation of ballots without the candidate.
// The ballots it was leading transfer one vote to their new first preference.
func eliminate(ballots [][]types.CandidateID, worst types.CandidateID, board *scoreboard) [][]types.CandidateID {
	next := make([][]types.CandidateID, 0, len(ballots))

	for _, prefs := range ballots {
		led := prefs[0] == worst

		kept := make([]types.CandidateID, 0, len(prefs))
		for _, c := range prefs {
			if c != worst {
				kept = append(kept, c)
			}
		}

		if len(kept) == 0 {
			continue
		}

		if led {
			board.add(kept[0])
		}

		next = append(next, kept)
	}

	return next
}

// Winner returns the approved candidate with the strictly greatest count. A
// tie goes to the candidate that comes first in the approved list. Candidates
// without a count have zero votes, eliminated ones cannot win, and nobody
// wins without a vote.
func Winner(approved []types.CandidateID, counts []types.VotingResult) (types.CandidateID, uint64, bool) {
	lookup := make(map[types.CandidateID]uint64, len(counts))
	for _, res := range counts {
		if !res.Eliminated {
			lookup[res.Candidate] = res.Count
		}
	}

	var winner types.CandidateID
	var best uint64

	for _, c := range approved {
		if lookup[c] > best {
			best = lookup[c]
			winner = c
		}
	}

	return winner, best, best > 0
}

// scoreboard is a list of counts that keeps the order in which the
// candidates were first seen. Eliminated entries stay on the board, frozen,
// and are ignored by the running count.
type scoreboard struct {
	entries []types.VotingResult
}

func (b *scoreboard) add(c types.CandidateID) {
	for i := range b.entries {
		if b.entries[i].Candidate == c {
			b.entries[i].Count++
			return
		}
	}

	b.entries = append(b.entries, types.VotingResult{Candidate: c, Count: 1})
}

func (b *scoreboard) eliminate(c types.CandidateID) {
	for i := range b.entries {
		if b.entries[i].Candidate == c {
			b.entries[i].Eliminated = true
			return
		}
	}
}

// len returns the number of candidates still running.
func (b *scoreboard) len() int {
	n := 0
	for _, e := range b.entries {
		if !e.Eliminated {
			n++
		}
	}

	return n
}

func (b *scoreboard) hasAbove(threshold uint64) bool {
	for _, e := range b.entries {
		if !e.Eliminated && e.Count > threshold {
			return true
		}
	}

	return false
}

// weakest returns the first running candidate with the lowest count. The
// board must have one running candidate at least.
func (b *scoreboard) weakest() types.CandidateID {
	var worst *types.VotingResult

	for i := range b.entries {
		e := &b.entries[i]
		if !e.Eliminated && (worst == nil || e.Count < worst.Count) {
			worst = e
		}
	}

	return worst.Candidate
}

func (b *scoreboard) results() []types.VotingResult {
	return append([]types.VotingResult{}, b.entries...)
}
