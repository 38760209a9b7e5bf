// Package types defines the records of the election contract. The records are
// stored JSON-encoded.
package types

import (
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// ElectionID is the global identifier of an election.
type ElectionID uint64

// CandidateID identifies a candidate inside an election.
type CandidateID uint16

// DisputeID identifies a dispute inside an election.
type DisputeID uint16

// Bounds of the text fields, in bytes.
const (
	MaxNameLength                 = 50
	MaxElectionDescriptionLength  = 200
	MaxCandidateDescriptionLength = 50
	MaxDisputeDescriptionLength   = 200
)

// ElectionType is the voting rule of an election.
type ElectionType uint8

const (
	// Plurality is a single-choice vote: the candidate with the most votes
	// wins.
	Plurality ElectionType = iota

	// Approval lets a voter endorse any number of candidates, each endorsement
	// counts once.
	Approval

	// SingleTransferableVote is a ranked vote: the weakest candidate is
	// eliminated and its ballots move to the next preference until one
	// candidate holds a majority.
	SingleTransferableVote
)

var typeNames = [...]string{
	Plurality:              "Plurality",
	Approval:               "Approval",
	SingleTransferableVote: "SingleTransferableVote",
}

// ElectionTypeFromCode returns the type of the code, or false if the code is
// not known.
func ElectionTypeFromCode(code uint64) (ElectionType, bool) {
	if code >= uint64(len(typeNames)) {
		return 0, false
	}

	return ElectionType(code), true
}

// ParseElectionType returns the type of a name or a numeric code. Names are
// matched without case.
func ParseElectionType(s string) (ElectionType, error) {
	code, err := strconv.ParseUint(s, 10, 64)
	if err == nil {
		t, ok := ElectionTypeFromCode(code)
		if !ok {
			return 0, xerrors.Errorf("unknown election type code %d", code)
		}

		return t, nil
	}

	for i, name := range typeNames {
		if strings.EqualFold(name, s) {
			return ElectionType(i), nil
		}
	}

	return 0, xerrors.Errorf("unknown election type '%s'", s)
}

// String implements fmt.Stringer.
func (t ElectionType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}

	return "ElectionType(" + strconv.Itoa(int(t)) + ")"
}

// MarshalText implements encoding.TextMarshaler.
func (t ElectionType) MarshalText() ([]byte, error) {
	if int(t) >= len(typeNames) {
		return nil, xerrors.Errorf("unknown election type code %d", t)
	}

	return []byte(typeNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ElectionType) UnmarshalText(text []byte) error {
	parsed, err := ParseElectionType(string(text))
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}
