package balance

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/elector/core/access"
	"go.dedis.ch/elector/core/execution"
	"go.dedis.ch/elector/core/execution/native"
	"go.dedis.ch/elector/core/store"
	"go.dedis.ch/elector/core/txn"
	"go.dedis.ch/elector/core/txn/anon"
	"go.dedis.ch/elector/internal/testing/fake"
)

func TestExecute(t *testing.T) {
	contract := NewContract()

	err := contract.Execute(fake.NewSnapshot(), makeStep(t))
	require.EqualError(t, err, "'balance:command' not found in tx arg")

	contract.cmd = fakeCmd{err: fake.GetError()}

	err = contract.Execute(fake.NewSnapshot(), makeStep(t, CmdArg, "MINT"))
	require.EqualError(t, err, fake.Err("failed to MINT"))

	err = contract.Execute(fake.NewSnapshot(), makeStep(t, CmdArg, "TRANSFER"))
	require.EqualError(t, err, fake.Err("failed to TRANSFER"))

	err = contract.Execute(fake.NewSnapshot(), makeStep(t, CmdArg, "SHOW"))
	require.EqualError(t, err, fake.Err("failed to SHOW"))

	err = contract.Execute(fake.NewSnapshot(), makeStep(t, CmdArg, "fake"))
	require.EqualError(t, err, "unknown command: fake")

	contract.cmd = fakeCmd{}
	err = contract.Execute(fake.NewSnapshot(), makeStep(t, CmdArg, "MINT"))
	require.NoError(t, err)
}

func TestCommand_Mint(t *testing.T) {
	contract := NewContract()

	cmd := balanceCommand{
		Contract: &contract,
	}

	err := cmd.mint(fake.NewSnapshot(), makeStep(t))
	require.EqualError(t, err, "'balance:to' not found in tx arg")

	err = cmd.mint(fake.NewSnapshot(), makeStep(t, ToArg, "bob"))
	require.EqualError(t, err, "'balance:amount' not found in tx arg")

	err = cmd.mint(fake.NewSnapshot(), makeStep(t, ToArg, "bob", AmountArg, "-1"))
	require.EqualError(t, err,
		`invalid amount '-1': strconv.ParseUint: parsing "-1": invalid syntax`)

	err = cmd.mint(fake.NewBadSnapshot(), makeStep(t, ToArg, "bob", AmountArg, "1"))
	require.EqualError(t, err, fake.Err("failed to mint: failed to read balance"))

	snap := fake.NewSnapshot()

	err = cmd.mint(snap, makeStep(t, ToArg, "bob", AmountArg, "7"))
	require.NoError(t, err)

	amount, err := contract.bank.Balance(snap, access.Raw("bob"))
	require.NoError(t, err)
	require.Equal(t, uint64(7), amount)
}

func TestCommand_Transfer(t *testing.T) {
	contract := NewContract()

	cmd := balanceCommand{
		Contract: &contract,
	}

	snap := fake.NewSnapshot()
	require.NoError(t, contract.bank.Mint(snap, access.Raw("fake:alice"), 10))

	err := cmd.transfer(snap, makeStep(t, ToArg, "bob", AmountArg, "11"))
	require.EqualError(t, err,
		"failed to transfer: 'fake:alice' owns 10 but needs 11: insufficient balance")

	err = cmd.transfer(snap, makeStep(t, ToArg, "bob", AmountArg, "3"))
	require.NoError(t, err)

	amount, err := contract.bank.Balance(snap, access.Raw("bob"))
	require.NoError(t, err)
	require.Equal(t, uint64(3), amount)
}

func TestCommand_Show(t *testing.T) {
	contract := NewContract()

	buf := &bytes.Buffer{}
	contract.printer = buf

	cmd := balanceCommand{
		Contract: &contract,
	}

	snap := fake.NewSnapshot()
	require.NoError(t, contract.bank.Mint(snap, access.Raw("bob"), 2))

	err := cmd.show(snap, makeStep(t, ToArg, "bob"))
	require.NoError(t, err)
	require.Equal(t, "bob=2", buf.String())

	err = cmd.show(fake.NewBadSnapshot(), makeStep(t, ToArg, "bob"))
	require.EqualError(t, err, fake.Err("failed to read balance: failed to read balance"))
}

func TestInfoLog(t *testing.T) {
	log := infoLog{}

	n, err := log.Write([]byte{0b0, 0b1})
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestRegisterContract(t *testing.T) {
	RegisterContract(native.NewExecution(), Contract{})
}

// -----------------------------------------------------------------------------
// Utility functions

func makeStep(t *testing.T, args ...string) execution.Step {
	return execution.Step{Current: makeTx(t, args...)}
}

func makeTx(t *testing.T, args ...string) txn.Transaction {
	options := []anon.TransactionOption{anon.WithIdentity(fake.NewIdentity("alice"))}
	for i := 0; i < len(args)-1; i += 2 {
		options = append(options, anon.WithArg(args[i], []byte(args[i+1])))
	}

	tx, err := anon.NewTransaction(0, options...)
	require.NoError(t, err)

	return tx
}

type fakeCmd struct {
	err error
}

func (c fakeCmd) mint(snap store.Snapshot, step execution.Step) error {
	return c.err
}

func (c fakeCmd) transfer(snap store.Snapshot, step execution.Step) error {
	return c.err
}

func (c fakeCmd) show(snap store.Snapshot, step execution.Step) error {
	return c.err
}
