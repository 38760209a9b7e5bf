package controller

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/elector/cli/node"
	"go.dedis.ch/elector/contracts/balance"
	"go.dedis.ch/elector/core/execution"
	"go.dedis.ch/elector/internal/testing/fake"
	"go.dedis.ch/elector/ledger"
)

func TestController_Journal(t *testing.T) {
	t.Setenv("JAEGER_DISABLED", "true")

	dir := t.TempDir()
	path := filepath.Join(dir, "journal.jsonl")

	flags := node.FlagSet{
		DBFlag:      filepath.Join(dir, "test.db"),
		KeyFlag:     filepath.Join(dir, "wallet.key"),
		JournalFlag: path,
	}

	inj := node.NewInjector()
	require.NoError(t, NewController().OnStart(flags, inj))

	ctx := node.Context{Injector: inj, Flags: flags, Out: new(bytes.Buffer)}
	require.NoError(t, walletAction{}.Execute(ctx))

	flags["amount"] = "5"
	require.NoError(t, balanceAction{cmd: balance.CmdMint}.Execute(ctx))

	flags["amount"] = "five"
	require.Error(t, balanceAction{cmd: balance.CmdMint}.Execute(ctx))

	require.NoError(t, NewController().OnStop(inj))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first, second entry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	require.True(t, first.Accepted)
	require.Len(t, first.Tx, 64)
	require.False(t, second.Accepted)
	require.NotEmpty(t, second.Message)

	flags[JournalFlag] = filepath.Join(dir, "missing", "journal.jsonl")
	err = NewController().OnStart(flags, node.NewInjector())
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to open journal: ")
}

func TestJournal_NotifyCallback(t *testing.T) {
	out := &fakeWriteCloser{}
	jnl := newJournal(out)

	jnl.NotifyCallback(ledger.Executed{
		TxID:      []byte{0xab},
		Timestamp: 42,
		Result: execution.Result{
			Accepted: true,
			Events:   []execution.Event{{Name: "ElectionCreated", Attributes: map[string]string{"election": "1"}}},
		},
	})

	require.JSONEq(t,
		`{"tx":"ab","timestamp":42,"accepted":true,"events":[{"Name":"ElectionCreated","Attributes":{"election":"1"}}]}`,
		out.String())

	out.err = fake.GetError()

	// The failure is only logged.
	jnl.NotifyCallback(ledger.Executed{})

	require.NoError(t, jnl.Close())
	require.True(t, out.closed)
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeWriteCloser struct {
	bytes.Buffer
	err    error
	closed bool
}

func (w *fakeWriteCloser) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}

	return w.Buffer.Write(p)
}

func (w *fakeWriteCloser) Close() error {
	w.closed = true
	return nil
}
