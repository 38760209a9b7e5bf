// Package balance implements the native contract that funds identities and
// moves currency between them. It is the faucet of a local ledger: anybody can
// mint.
package balance

import (
	"fmt"
	"io"
	"strconv"

	"go.dedis.ch/elector"
	"go.dedis.ch/elector/core/access"
	bank "go.dedis.ch/elector/core/balance"
	"go.dedis.ch/elector/core/execution"
	"go.dedis.ch/elector/core/execution/native"
	"go.dedis.ch/elector/core/store"
	"golang.org/x/xerrors"
)

// commands defines the commands of the balance contract. This interface helps
// in testing the contract.
type commands interface {
	mint(snap store.Snapshot, step execution.Step) error
	transfer(snap store.Snapshot, step execution.Step) error
	show(snap store.Snapshot, step execution.Step) error
}

const (
	// ContractName is the name of the contract.
	ContractName = "go.dedis.ch/elector.Balance"

	// ToArg is the argument's name in the transaction that contains the text
	// of the recipient identity.
	ToArg = "balance:to"

	// AmountArg is the argument's name in the transaction that contains the
	// decimal amount.
	AmountArg = "balance:amount"

	// CmdArg is the argument's name to indicate the kind of command we want to
	// run on the contract. Should be one of the Command type.
	CmdArg = "balance:command"
)

// Command defines a type of command for the balance contract
type Command string

const (
	// CmdMint defines the command to create currency for the recipient.
	CmdMint Command = "MINT"

	// CmdTransfer defines the command to send currency from the caller to the
	// recipient.
	CmdTransfer Command = "TRANSFER"

	// CmdShow defines the command to print the balance of the recipient.
	CmdShow Command = "SHOW"
)

// RegisterContract registers the balance contract to the given execution
// service.
func RegisterContract(exec *native.Service, c Contract) {
	exec.Set(ContractName, c)
}

// Contract is the faucet and wallet contract.
//
// - implements native.Contract
type Contract struct {
	bank bank.Service

	// cmd provides the commands that can be executed by this smart contract
	cmd commands

	// printer is the output used by the SHOW command
	printer io.Writer
}

// NewContract creates a new balance contract.
func NewContract() Contract {
	contract := Contract{
		bank:    bank.NewService(),
		printer: infoLog{},
	}

	contract.cmd = balanceCommand{Contract: &contract}

	return contract
}

// Execute implements native.Contract. It runs the appropriate command.
func (c Contract) Execute(snap store.Snapshot, step execution.Step) error {
	cmd := step.Current.GetArg(CmdArg)
	if len(cmd) == 0 {
		return xerrors.Errorf("'%s' not found in tx arg", CmdArg)
	}

	switch Command(cmd) {
	case CmdMint:
		err := c.cmd.mint(snap, step)
		if err != nil {
			return xerrors.Errorf("failed to MINT: %v", err)
		}
	case CmdTransfer:
		err := c.cmd.transfer(snap, step)
		if err != nil {
			return xerrors.Errorf("failed to TRANSFER: %v", err)
		}
	case CmdShow:
		err := c.cmd.show(snap, step)
		if err != nil {
			return xerrors.Errorf("failed to SHOW: %v", err)
		}
	default:
		return xerrors.Errorf("unknown command: %s", cmd)
	}

	return nil
}

// balanceCommand implements the commands of the balance contract
//
// - implements commands
type balanceCommand struct {
	*Contract
}

// mint implements commands. It performs the MINT command
func (c balanceCommand) mint(snap store.Snapshot, step execution.Step) error {
	to, err := getRecipient(step)
	if err != nil {
		return err
	}

	amount, err := getAmount(step)
	if err != nil {
		return err
	}

	err = c.bank.Mint(snap, to, amount)
	if err != nil {
		return xerrors.Errorf("failed to mint: %v", err)
	}

	elector.Logger.Info().Str("contract", ContractName).Msgf("minting %d for %s", amount, to)

	return nil
}

// transfer implements commands. It performs the TRANSFER command
func (c balanceCommand) transfer(snap store.Snapshot, step execution.Step) error {
	to, err := getRecipient(step)
	if err != nil {
		return err
	}

	amount, err := getAmount(step)
	if err != nil {
		return err
	}

	err = c.bank.Transfer(snap, step.Current.GetIdentity(), to, amount)
	if err != nil {
		return xerrors.Errorf("failed to transfer: %v", err)
	}

	return nil
}

// show implements commands. It performs the SHOW command
func (c balanceCommand) show(snap store.Snapshot, step execution.Step) error {
	to, err := getRecipient(step)
	if err != nil {
		return err
	}

	amount, err := c.bank.Balance(snap, to)
	if err != nil {
		return xerrors.Errorf("failed to read balance: %v", err)
	}

	fmt.Fprintf(c.printer, "%s=%d", to, amount)

	return nil
}

func getRecipient(step execution.Step) (access.Identity, error) {
	to := step.Current.GetArg(ToArg)
	if len(to) == 0 {
		return nil, xerrors.Errorf("'%s' not found in tx arg", ToArg)
	}

	return access.Raw(to), nil
}

func getAmount(step execution.Step) (uint64, error) {
	arg := step.Current.GetArg(AmountArg)
	if len(arg) == 0 {
		return 0, xerrors.Errorf("'%s' not found in tx arg", AmountArg)
	}

	amount, err := strconv.ParseUint(string(arg), 10, 64)
	if err != nil {
		return 0, xerrors.Errorf("invalid amount '%s': %v", arg, err)
	}

	return amount, nil
}

// infoLog defines an output using zerolog
//
// - implements io.writer
type infoLog struct{}

func (h infoLog) Write(p []byte) (int, error) {
	elector.Logger.Info().Msg(string(p))

	return len(p), nil
}
