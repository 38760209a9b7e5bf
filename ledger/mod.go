// Package ledger implements a local, single-node ledger: every transaction is
// executed in its own database transaction on top of the current state, and
// the writes of the execution are committed only when it is accepted.
package ledger

import (
	"encoding/hex"

	"github.com/jonboulle/clockwork"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"go.dedis.ch/elector"
	"go.dedis.ch/elector/core/execution"
	"go.dedis.ch/elector/core/execution/native"
	"go.dedis.ch/elector/core/store"
	"go.dedis.ch/elector/core/store/kv"
	"go.dedis.ch/elector/core/txn"
	"go.dedis.ch/elector/internal/tracing"
	"golang.org/x/xerrors"
)

// DefaultBucket is the name of the database bucket holding the state.
var DefaultBucket = []byte("state")

var promTxs = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "elector_ledger_transactions_total",
	Help: "number of executed transactions per outcome",
}, []string{"outcome"})

func init() {
	elector.PromCollectors = append(elector.PromCollectors, promTxs)
}

// Ledger executes transactions against a key/value database.
type Ledger struct {
	db     kv.DB
	bucket []byte
	exec   execution.Service
	clock  clockwork.Clock
	tracer opentracing.Tracer
	watch  *watcher
}

// Option is the type of option to change the default ledger.
type Option func(*Ledger)

// WithClock sets the clock that timestamps the executions.
func WithClock(clock clockwork.Clock) Option {
	return func(l *Ledger) {
		l.clock = clock
	}
}

// WithTracer sets the tracer that records a span per execution.
func WithTracer(tracer opentracing.Tracer) Option {
	return func(l *Ledger) {
		l.tracer = tracer
	}
}

// WithBucket sets the bucket of the state.
func WithBucket(name []byte) Option {
	return func(l *Ledger) {
		l.bucket = name
	}
}

// New returns a ledger on the database. The state bucket is created if it does
// not exist yet.
func New(db kv.DB, exec execution.Service, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		db:     db,
		bucket: DefaultBucket,
		exec:   exec,
		clock:  clockwork.NewRealClock(),
		tracer: opentracing.NoopTracer{},
		watch:  newWatcher(),
	}

	for _, opt := range opts {
		opt(l)
	}

	err := db.Update(l.bucket, func(kv.Bucket) error { return nil })
	if err != nil {
		return nil, xerrors.Errorf("failed to create bucket: %v", err)
	}

	return l, nil
}

// Execute runs the transaction at the current time of the clock and returns
// the result. An error is returned only when the ledger itself fails: a
// rejected transaction is a result.
func (l *Ledger) Execute(tx txn.Transaction) (execution.Result, error) {
	span := l.tracer.StartSpan("ledger.execute")
	defer span.Finish()

	span.SetTag(tracing.ContractTag, string(tx.GetArg(native.ContractArg)))
	span.SetTag(tracing.TransactionTag, hex.EncodeToString(tx.GetID()))

	step := execution.Step{
		Current:   tx,
		Timestamp: uint64(l.clock.Now().Unix()),
	}

	var res execution.Result

	err := l.db.Update(l.bucket, func(bucket kv.Bucket) error {
		var err error

		res, err = l.exec.Execute(kv.NewSnapshot(bucket), step)
		return err
	})
	if err != nil {
		span.SetTag("error", true)
		return res, xerrors.Errorf("failed to execute tx: %v", err)
	}

	span.SetTag(tracing.AcceptedTag, res.Accepted)

	if res.Accepted {
		promTxs.WithLabelValues("accepted").Inc()
	} else {
		promTxs.WithLabelValues("rejected").Inc()
	}

	elector.Logger.Debug().
		Hex("tx", tx.GetID()).
		Bool("accepted", res.Accepted).
		Str("message", res.Message).
		Uint64("timestamp", step.Timestamp).
		Msg("transaction executed")

	l.watch.notify(Executed{
		TxID:      tx.GetID(),
		Timestamp: step.Timestamp,
		Result:    res,
	})

	return res, nil
}

// Watch registers the observer so that it is notified after every execution.
func (l *Ledger) Watch(obs Observer) {
	l.watch.add(obs)
}

// Unwatch stops the notifications to the observer.
func (l *Ledger) Unwatch(obs Observer) {
	l.watch.remove(obs)
}

// View runs the function on a read-only view of the current state.
func (l *Ledger) View(fn func(store.Readable) error) error {
	err := l.db.View(l.bucket, func(bucket kv.Bucket) error {
		return fn(kv.NewSnapshot(bucket))
	})
	if err != nil {
		return xerrors.Errorf("failed to read state: %v", err)
	}

	return nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	err := l.db.Close()
	if err != nil {
		return xerrors.Errorf("failed to close db: %v", err)
	}

	return nil
}
