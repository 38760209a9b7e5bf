// Package election implements the native contract that runs elections: the
// registration of an election, the candidacy window, the enrollment of the
// voters, the ballot box, the count and the disputes.
//
// Every command is executed atomically by the host. A command checks its
// preconditions in a fixed order and returns the error of the first one that
// fails, before writing anything.
package election

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"go.dedis.ch/elector"
	"go.dedis.ch/elector/contracts/election/types"
	"go.dedis.ch/elector/core/access"
	"go.dedis.ch/elector/core/balance"
	"go.dedis.ch/elector/core/execution"
	"go.dedis.ch/elector/core/execution/native"
	"go.dedis.ch/elector/core/idgen"
	"go.dedis.ch/elector/core/store"
	"go.dedis.ch/elector/crypto"
	"golang.org/x/xerrors"
)

// commands defines the commands of the election contract. This interface helps
// in testing the contract.
type commands interface {
	init(snap store.Snapshot, step execution.Step) error
	updateFee(snap store.Snapshot, step execution.Step) error
	registerElection(snap store.Snapshot, step execution.Step) error
	endElection(snap store.Snapshot, step execution.Step) error
	submitCandidacy(snap store.Snapshot, step execution.Step) error
	approveCandidate(snap store.Snapshot, step execution.Step) error
	registerVoter(snap store.Snapshot, step execution.Step) error
	registerSelf(snap store.Snapshot, step execution.Step) error
	castVote(snap store.Snapshot, step execution.Step) error
	results(snap store.Snapshot, step execution.Step) error
	fileDispute(snap store.Snapshot, step execution.Step) error
}

const (
	// ContractName is the name of the contract.
	ContractName = "go.dedis.ch/elector.Election"

	// CmdArg is the argument's name to indicate the kind of command we want to
	// run on the contract. Should be one of the Command type.
	CmdArg = "election:command"

	// FeeArg is the decimal candidacy fee of INIT and UPDATE_FEE.
	FeeArg = "election:fee"

	// ElectionIDArg is the decimal identifier of the election.
	ElectionIDArg = "election:id"

	// NameArg is the name of an election, a candidate or a dispute.
	NameArg = "election:name"

	// DescriptionArg is the description of an election, a candidate or a
	// dispute.
	DescriptionArg = "election:description"

	// TypeArg is the election type, as a code or a name.
	TypeArg = "election:type"

	// StartArg is the start time of the election in seconds.
	StartArg = "election:start"

	// EndArg is the end time of the election in seconds.
	EndArg = "election:end"

	// PaymentArg is the amount attached to a candidacy.
	PaymentArg = "election:payment"

	// CandidateArg is the decimal identifier of a candidate.
	CandidateArg = "election:candidate"

	// VoterArg is the text of the identity of a voter.
	VoterArg = "election:voter"

	// VerificationArg is the payload of a self-registration.
	VerificationArg = "election:verification"

	// CandidatesArg is the comma-separated list of candidate identifiers of a
	// ballot, most preferred first.
	CandidatesArg = "election:candidates"
)

// Command defines a type of command for the election contract
type Command string

const (
	// CmdInit sets the owner of the contract and the candidacy fee, once.
	CmdInit Command = "INIT"

	// CmdUpdateFee changes the candidacy fee. Only the owner can.
	CmdUpdateFee Command = "UPDATE_FEE"

	// CmdRegisterElection creates an election administered by the caller.
	CmdRegisterElection Command = "REGISTER_ELECTION"

	// CmdEndElection closes an election.
	CmdEndElection Command = "END_ELECTION"

	// CmdSubmitCandidacy applies for an election.
	CmdSubmitCandidacy Command = "SUBMIT_CANDIDACY"

	// CmdApproveCandidate moves an applicant to the approved candidates.
	CmdApproveCandidate Command = "APPROVE_CANDIDATE"

	// CmdRegisterVoter enrolls a voter on behalf of the admin.
	CmdRegisterVoter Command = "REGISTER_VOTER"

	// CmdRegisterSelf enrolls the caller after verification.
	CmdRegisterSelf Command = "REGISTER_SELF"

	// CmdCastVote puts a ballot in the box.
	CmdCastVote Command = "CAST_VOTE"

	// CmdResults counts the ballots once and announces the winner.
	CmdResults Command = "RESULTS"

	// CmdFileDispute raises a dispute against an election.
	CmdFileDispute Command = "FILE_DISPUTE"
)

// Event names emitted by the contract.
const (
	EventElectionCreated = "ElectionCreated"
	EventResultsComputed = "ResultsComputed"
)

// RegisterContract registers the election contract to the given execution
// service.
func RegisterContract(exec *native.Service, c Contract) {
	exec.Set(ContractName, c)
}

// Contract is the election contract.
//
// - implements native.Contract
type Contract struct {
	config   Config
	bank     balance.Bank
	verifier Verifier

	// cmd provides the commands that can be executed by this smart contract
	cmd commands
}

// ContractOption is the type of option to change the default contract.
type ContractOption func(*Contract)

// WithConfig sets the configuration of the contract.
func WithConfig(cfg Config) ContractOption {
	return func(c *Contract) {
		c.config = cfg
	}
}

// WithVerifier sets the predicate of the self-registrations.
func WithVerifier(v Verifier) ContractOption {
	return func(c *Contract) {
		c.verifier = v
	}
}

// NewContract creates a new election contract that charges the candidacy fees
// through the bank.
func NewContract(bank balance.Bank, opts ...ContractOption) Contract {
	contract := Contract{
		config: DefaultConfig(),
		bank:   bank,
	}

	for _, opt := range opts {
		opt(&contract)
	}

	if contract.verifier == nil {
		contract.verifier = LengthVerifier(contract.config.VerificationMinLength)
	}

	contract.cmd = electionCommand{Contract: &contract}

	return contract
}

// Execute implements native.Contract. It runs the appropriate command.
func (c Contract) Execute(snap store.Snapshot, step execution.Step) error {
	cmd := step.Current.GetArg(CmdArg)
	if len(cmd) == 0 {
		return xerrors.Errorf("'%s' not found in tx arg: %w", CmdArg, ErrInvalidArgument)
	}

	var err error

	switch Command(cmd) {
	case CmdInit:
		err = c.cmd.init(snap, step)
	case CmdUpdateFee:
		err = c.cmd.updateFee(snap, step)
	case CmdRegisterElection:
		err = c.cmd.registerElection(snap, step)
	case CmdEndElection:
		err = c.cmd.endElection(snap, step)
	case CmdSubmitCandidacy:
		err = c.cmd.submitCandidacy(snap, step)
	case CmdApproveCandidate:
		err = c.cmd.approveCandidate(snap, step)
	case CmdRegisterVoter:
		err = c.cmd.registerVoter(snap, step)
	case CmdRegisterSelf:
		err = c.cmd.registerSelf(snap, step)
	case CmdCastVote:
		err = c.cmd.castVote(snap, step)
	case CmdResults:
		err = c.cmd.results(snap, step)
	case CmdFileDispute:
		err = c.cmd.fileDispute(snap, step)
	default:
		return xerrors.Errorf("unknown command '%s': %w", cmd, ErrInvalidArgument)
	}

	if err != nil {
		return xerrors.Errorf("failed to %s: %w", cmd, err)
	}

	return nil
}

// electionCommand implements the commands of the election contract
//
// - implements commands
type electionCommand struct {
	*Contract
}

// call is the context of a command: who calls, when, and the identifiers
// available to it.
type call struct {
	caller access.Identity

	// callerKey is the text of the caller, as it is stored.
	callerKey string

	now    uint64
	ids    idgen.Generator
	events *execution.EventLog
}

func (c electionCommand) newCall(step execution.Step) (call, error) {
	caller := step.Current.GetIdentity()

	key, err := access.Key(caller)
	if err != nil {
		return call{}, xerrors.Errorf("invalid caller: %v: %w", err, ErrUnauthorized)
	}

	source := crypto.NewSeededSource(step.Current.GetID())

	ctx := call{
		caller:    caller,
		callerKey: key,
		now:       step.Timestamp,
		ids:       idgen.NewGenerator(source, idgen.WithMaxAttempts(c.config.MaxIDAttempts)),
		events:    step.Events,
	}

	return ctx, nil
}

func logCommand(cmd Command, id types.ElectionID) *zerolog.Event {
	return elector.Logger.Info().
		Str("contract", "election").
		Str("command", string(cmd)).
		Uint64("election", uint64(id))
}

func getElectionID(step execution.Step) (types.ElectionID, error) {
	id, err := getUint(step, ElectionIDArg, 64)
	if err != nil {
		return 0, err
	}

	return types.ElectionID(id), nil
}

func getCandidateID(step execution.Step) (types.CandidateID, error) {
	id, err := getUint(step, CandidateArg, 16)
	if err != nil {
		return 0, err
	}

	return types.CandidateID(id), nil
}

func getUint(step execution.Step, key string, bits int) (uint64, error) {
	arg := step.Current.GetArg(key)
	if len(arg) == 0 {
		return 0, xerrors.Errorf("'%s' not found in tx arg: %w", key, ErrInvalidArgument)
	}

	value, err := strconv.ParseUint(string(arg), 10, bits)
	if err != nil {
		return 0, xerrors.Errorf("malformed '%s': %v: %w", key, err, ErrInvalidArgument)
	}

	return value, nil
}

// getCandidates parses the comma-separated list of a ballot. The empty list is
// valid here: the shape is checked against the election.
func getCandidates(step execution.Step) ([]types.CandidateID, error) {
	arg := strings.TrimSpace(string(step.Current.GetArg(CandidatesArg)))
	if arg == "" {
		return nil, nil
	}

	parts := strings.Split(arg, ",")
	ids := make([]types.CandidateID, len(parts))

	for i, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 16)
		if err != nil {
			return nil, xerrors.Errorf("malformed '%s': %v: %w", CandidatesArg, err, ErrInvalidArgument)
		}

		ids[i] = types.CandidateID(id)
	}

	return ids, nil
}

func checkText(text string, max int, sentinel error) error {
	if len(text) == 0 || len(text) > max {
		return xerrors.Errorf("length %d not in [1, %d]: %w", len(text), max, sentinel)
	}

	return nil
}
