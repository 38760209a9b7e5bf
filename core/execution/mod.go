// Package execution defines the context of a transaction execution and the
// service that runs it.
package execution

import (
	"go.dedis.ch/elector/core/store"
	"go.dedis.ch/elector/core/txn"
)

// Step is the context of one transaction execution: the transaction itself,
// the transactions executed before it in the same block, the block time and
// the log collecting the events emitted by the contract.
type Step struct {
	Previous []txn.Transaction

	Current txn.Transaction

	// Timestamp is the time of the block, in seconds since the epoch.
	Timestamp uint64

	// Events is where the contract emits its notifications. It can be nil when
	// nobody listens.
	Events *EventLog
}

// Result is the result of a transaction execution.
type Result struct {
	// Accepted is the success state of the transaction.
	Accepted bool

	// Message gives a change to the execution to explain why a transaction has
	// failed.
	Message string

	// Events are the notifications emitted by an accepted transaction.
	Events []Event
}

// Service is the execution service that defines the primitives to execute a
// transaction.
type Service interface {
	// Execute must apply the transaction to the snapshot and return the result
	// of it. A rejected transaction leaves the snapshot untouched.
	Execute(snap store.Snapshot, step Step) (Result, error)
}

// Event is an observational notification. Nothing in the execution depends on
// its delivery.
type Event struct {
	Name       string
	Attributes map[string]string
}

// EventLog collects the events of one execution.
type EventLog struct {
	events []Event
}

// Emit appends an event built from the name and the pairs of attributes. A
// trailing key without a value is ignored. It is a no-op on a nil log.
func (l *EventLog) Emit(name string, kv ...string) {
	if l == nil {
		return
	}

	attrs := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs[kv[i]] = kv[i+1]
	}

	l.events = append(l.events, Event{Name: name, Attributes: attrs})
}

// GetEvents returns the events emitted so far.
func (l *EventLog) GetEvents() []Event {
	if l == nil {
		return nil
	}

	return append([]Event{}, l.events...)
}
