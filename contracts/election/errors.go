package election

import (
	"errors"

	"go.dedis.ch/elector/core/balance"
	"go.dedis.ch/elector/core/idgen"
)

// Kind is the category of a contract error. A kind is itself an error so that
// errors.Is(err, KindNotFound) tells whether the error belongs to it.
type Kind int

const (
	// KindValidation is a malformed input.
	KindValidation Kind = iota + 1

	// KindNotFound is a reference to a missing election, candidate or dispute.
	KindNotFound

	// KindUnauthorized is a caller without the required role.
	KindUnauthorized

	// KindStateConflict is an operation that breaks the lifecycle of the
	// election.
	KindStateConflict

	// KindInsufficientFee is a payment below the candidacy fee.
	KindInsufficientFee

	// KindResourceExhausted is an identifier space without a free slot within
	// the attempts budget.
	KindResourceExhausted
)

var kindNames = map[Kind]string{
	KindValidation:        "validation error",
	KindNotFound:          "not found",
	KindUnauthorized:      "unauthorized",
	KindStateConflict:     "state conflict",
	KindInsufficientFee:   "insufficient fee",
	KindResourceExhausted: "resource exhausted",
}

// Error implements error.
func (k Kind) Error() string {
	name, found := kindNames[k]
	if !found {
		return "unknown error kind"
	}

	return name
}

// Error is an error of the contract with its kind.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

func newError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Kind returns the kind of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

// Error implements error.
func (e *Error) Error() string {
	return e.msg
}

// Is matches the kind of the error.
func (e *Error) Is(target error) bool {
	return target == e.kind
}

// Unwrap returns the error of a collaborator that this error classifies.
func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf returns the kind of the first contract error in the chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.kind, true
	}

	return 0, false
}

var (
	// ErrInvalidArgument is a transaction argument that cannot be parsed.
	ErrInvalidArgument = newError(KindValidation, "invalid argument")

	// ErrInvalidName is a name out of its length bounds.
	ErrInvalidName = newError(KindValidation, "invalid name")

	// ErrInvalidDescription is a description out of its length bounds.
	ErrInvalidDescription = newError(KindValidation, "invalid description")

	// ErrInvalidElectionType is an unknown election type code.
	ErrInvalidElectionType = newError(KindValidation, "invalid election type")

	// ErrInvalidSchedule is a start time that is not before the end time.
	ErrInvalidSchedule = newError(KindValidation, "start time must be before end time")

	// ErrInvalidBallotShape is a ballot that does not fit the election type.
	ErrInvalidBallotShape = newError(KindValidation, "invalid ballot")

	// ErrVerificationFailed is a self-registration with a payload the verifier
	// refuses.
	ErrVerificationFailed = newError(KindValidation, "verification failed")

	// ErrElectionNotFound is an unknown election identifier.
	ErrElectionNotFound = newError(KindNotFound, "election does not exist")

	// ErrCandidateNotFound is a candidate that has not applied.
	ErrCandidateNotFound = newError(KindNotFound, "candidate does not exist")

	// ErrUnknownCandidate is a ballot that lists a candidate which is not
	// approved.
	ErrUnknownCandidate = newError(KindNotFound, "unknown candidate")

	// ErrDisputeNotFound is an unknown dispute identifier.
	ErrDisputeNotFound = newError(KindNotFound, "dispute does not exist")

	// ErrUnauthorized is a caller without the required role.
	ErrUnauthorized = newError(KindUnauthorized, "caller is not allowed")

	// ErrNotRegistered is a voter that is not registered in the election.
	ErrNotRegistered = newError(KindUnauthorized, "voter is not registered")

	// ErrElectionClosed is an election that has already ended.
	ErrElectionClosed = newError(KindStateConflict, "election has already ended")

	// ErrWindowClosed is an operation of the candidacy window after the start
	// of the election.
	ErrWindowClosed = newError(KindStateConflict, "election has started")

	// ErrAlreadyApproved is a candidate approved twice.
	ErrAlreadyApproved = newError(KindStateConflict, "candidate already approved")

	// ErrAlreadyRegistered is a voter registered twice.
	ErrAlreadyRegistered = newError(KindStateConflict, "voter already registered")

	// ErrAlreadyVoted is a voter that has used its ballot.
	ErrAlreadyVoted = newError(KindStateConflict, "voter is not eligible")

	// ErrResultsUnavailable is a results request outside of the results gate.
	ErrResultsUnavailable = newError(KindStateConflict, "results are not available")

	// ErrAlreadyInitialized is a second initialization of the contract.
	ErrAlreadyInitialized = newError(KindStateConflict, "contract already initialized")

	// ErrInsufficientFee is a payment below the candidacy fee.
	ErrInsufficientFee = newError(KindInsufficientFee, "payment below the candidacy fee")
)

// classify gives a kind to the errors of the collaborators. Other errors are
// returned unchanged.
func classify(err error) error {
	switch {
	case errors.Is(err, idgen.ErrExhausted):
		return &Error{kind: KindResourceExhausted, msg: err.Error(), cause: err}
	case errors.Is(err, balance.ErrInsufficientBalance):
		return &Error{kind: KindInsufficientFee, msg: err.Error(), cause: err}
	default:
		return err
	}
}
