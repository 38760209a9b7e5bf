package ledger

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.dedis.ch/elector/core/execution"
	"go.dedis.ch/elector/core/execution/native"
	"go.dedis.ch/elector/core/store"
	"go.dedis.ch/elector/core/store/kv"
	"go.dedis.ch/elector/core/txn/anon"
	"go.dedis.ch/elector/internal/testing/fake"
	"go.dedis.ch/elector/internal/tracing"
	"golang.org/x/xerrors"
)

func TestLedger_Execute(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Unix(1000, 0))
	tracer := mocktracer.New()

	exec := native.NewExecution()
	exec.Set("counter", &counterContract{})

	l := makeLedger(t, exec, WithClock(clock), WithTracer(tracer))

	accepted := testutil.ToFloat64(promTxs.WithLabelValues("accepted"))
	rejected := testutil.ToFloat64(promTxs.WithLabelValues("rejected"))

	res, err := l.Execute(makeTx(t, "counter"))
	require.NoError(t, err)
	require.True(t, res.Accepted)

	clock.Advance(5 * time.Second)

	res, err = l.Execute(makeTx(t, "counter", "fail", "yes"))
	require.NoError(t, err)
	require.False(t, res.Accepted)
	require.Equal(t, "asked to fail", res.Message)

	require.Equal(t, accepted+1, testutil.ToFloat64(promTxs.WithLabelValues("accepted")))
	require.Equal(t, rejected+1, testutil.ToFloat64(promTxs.WithLabelValues("rejected")))

	err = l.View(func(r store.Readable) error {
		value, err := r.Get([]byte("last"))
		require.NoError(t, err)

		// The rejected transaction has not overwritten the timestamp.
		require.Equal(t, []byte("1000"), value)
		return nil
	})
	require.NoError(t, err)

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 2)
	require.Equal(t, "ledger.execute", spans[0].OperationName)
	require.Equal(t, "counter", spans[0].Tag(tracing.ContractTag))
	require.Equal(t, true, spans[0].Tag(tracing.AcceptedTag))
	require.Equal(t, false, spans[1].Tag(tracing.AcceptedTag))

	_, err = l.Execute(makeTx(t, "unknown"))
	require.EqualError(t, err, "failed to execute tx: unknown contract 'unknown'")

	require.NoError(t, l.Close())
}

func TestLedger_View(t *testing.T) {
	l := makeLedger(t, native.NewExecution())

	err := l.View(func(store.Readable) error {
		return fake.GetError()
	})
	require.EqualError(t, err, fake.Err("failed to read state"))
}

func TestLedger_New(t *testing.T) {
	db, err := kv.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = New(db, native.NewExecution())
	require.Error(t, err)
	require.Regexp(t, "^failed to create bucket: ", err.Error())
}

// -----------------------------------------------------------------------------
// Utility functions

func makeLedger(t *testing.T, exec execution.Service, opts ...Option) *Ledger {
	db, err := kv.New(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)

	l, err := New(db, exec, opts...)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return l
}

func makeTx(t *testing.T, contract string, args ...string) anon.Transaction {
	opts := []anon.TransactionOption{anon.WithArg(native.ContractArg, []byte(contract))}
	for i := 0; i+1 < len(args); i += 2 {
		opts = append(opts, anon.WithArg(args[i], []byte(args[i+1])))
	}

	tx, err := anon.NewTransaction(0, opts...)
	require.NoError(t, err)

	return tx
}

// counterContract stores the timestamp of the step and fails on demand after
// the write.
type counterContract struct{}

func (counterContract) Execute(snap store.Snapshot, step execution.Step) error {
	err := snap.Set([]byte("last"), []byte(strconv.FormatUint(step.Timestamp, 10)))
	if err != nil {
		return err
	}

	if len(step.Current.GetArg("fail")) > 0 {
		return xerrors.New("asked to fail")
	}

	return nil
}
