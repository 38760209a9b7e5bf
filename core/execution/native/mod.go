// Package native implements an execution service to run native smart contracts.
//
// A native smart contract is written in Go and packaged with the application.
// The service runs every contract on a staged copy of the snapshot and only
// applies the writes of an accepted transaction, which makes each execution
// all-or-nothing whatever the contract did before failing.
package native

import (
	"go.dedis.ch/elector"
	"go.dedis.ch/elector/core/execution"
	"go.dedis.ch/elector/core/store"
	"go.dedis.ch/elector/core/store/mem"
	"golang.org/x/xerrors"
)

const (
	// ContractArg is the argument key in the transaction to look up a contract.
	ContractArg = "go.dedis.ch/elector.ContractArg"
)

// Contract is the interface to implement to register a smart contract that will
// be executed natively.
type Contract interface {
	Execute(store.Snapshot, execution.Step) error
}

// Service is an execution service for packaged applications.
//
// - implements execution.Service
type Service struct {
	contracts map[string]Contract
}

// NewExecution returns a new native execution.
func NewExecution() *Service {
	return &Service{
		contracts: map[string]Contract{},
	}
}

// Set stores the contract using the name as the key. A transaction can trigger
// this contract by using the same name as the contract argument.
func (ns *Service) Set(name string, contract Contract) {
	ns.contracts[name] = contract
}

// Execute implements execution.Service. It uses the executor to process the
// incoming transaction and return the result. The writes of a rejected
// transaction are dropped, as well as its events.
func (ns *Service) Execute(snap store.Snapshot, step execution.Step) (execution.Result, error) {
	name := string(step.Current.GetArg(ContractArg))

	contract := ns.contracts[name]
	if contract == nil {
		return execution.Result{}, xerrors.Errorf("unknown contract '%s'", name)
	}

	staged := mem.Stage(snap)
	step.Events = &execution.EventLog{}

	err := contract.Execute(staged, step)
	if err != nil {
		elector.Logger.Debug().
			Str("contract", name).
			Err(err).
			Msg("transaction rejected")

		res := execution.Result{
			Accepted: false,
			Message:  err.Error(),
		}

		return res, nil
	}

	err = staged.Apply(snap)
	if err != nil {
		return execution.Result{}, xerrors.Errorf("failed to apply writes: %v", err)
	}

	res := execution.Result{
		Accepted: true,
		Events:   step.Events.GetEvents(),
	}

	return res, nil
}
