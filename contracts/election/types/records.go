package types

// ElectionData is the record of an election.
type ElectionData struct {
	ID           ElectionID   `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	StartTime    uint64       `json:"start_time"`
	EndTime      uint64       `json:"end_time"`
	ElectionType ElectionType `json:"election_type"`
	Ended        bool         `json:"ended"`

	// Admin is the text of the identity that registered the election.
	Admin string `json:"admin"`
}

// Candidate is the record of a candidate, approved or not.
type Candidate struct {
	ID          CandidateID `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Creator     string      `json:"creator"`
}

// Dispute is the record of a dispute filed against an election.
type Dispute struct {
	ID             DisputeID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Creator        string    `json:"creator"`
	Resolved       bool      `json:"resolved"`
	ResultAdjusted bool      `json:"result_adjusted"`
}

// Voter is the enrollment of an identity in an election. Eligible stays true
// until the voter casts its ballot.
type Voter struct {
	Registered bool `json:"registered"`
	Eligible   bool `json:"eligible"`
}

// Vote is a ballot. For a ranked election, the candidates are in order of
// preference.
type Vote struct {
	Candidates []CandidateID `json:"candidates"`
}

// VotingResult is the count of a candidate once the election is tallied.
type VotingResult struct {
	Candidate CandidateID `json:"candidate"`
	Count     uint64      `json:"count"`

	// Eliminated is set for a candidate struck during a transferable vote. The
	// count is the one it held when it was eliminated.
	Eliminated bool `json:"eliminated,omitempty"`
}
