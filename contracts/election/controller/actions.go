package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/xid"
	"go.dedis.ch/elector/cli"
	"go.dedis.ch/elector/cli/node"
	"go.dedis.ch/elector/contracts/balance"
	"go.dedis.ch/elector/contracts/election"
	"go.dedis.ch/elector/contracts/election/types"
	"go.dedis.ch/elector/core/access"
	bank "go.dedis.ch/elector/core/balance"
	"go.dedis.ch/elector/core/execution"
	"go.dedis.ch/elector/core/execution/native"
	"go.dedis.ch/elector/core/store"
	"go.dedis.ch/elector/core/txn"
	"go.dedis.ch/elector/core/txn/anon"
	"go.dedis.ch/elector/crypto/ed25519"
	"go.dedis.ch/elector/crypto/loader"
	"go.dedis.ch/elector/ledger"
	"golang.org/x/xerrors"
)

// RequestArg is the transaction argument holding the unique identifier of the
// request, so that two identical commands are two different transactions.
const RequestArg = "go.dedis.ch/elector.Request"

const resolveLedgerFailed = "failed to resolve ledger: %v"

// signerGenerator creates new wallet keys.
//
// - implements loader.Generator
type signerGenerator struct{}

// Generate implements loader.Generator.
func (signerGenerator) Generate() ([]byte, error) {
	return ed25519.NewSigner().MarshalBinary()
}

func loadSigner(flags cli.Flags) (ed25519.Signer, error) {
	data, err := loader.NewFileLoader(flags.Path(KeyFlag)).Load()
	if err != nil {
		return ed25519.Signer{}, xerrors.Errorf("failed to load wallet, did you run 'wallet generate'?: %v", err)
	}

	signer, err := ed25519.NewSignerFromBytes(data)
	if err != nil {
		return ed25519.Signer{}, xerrors.Errorf("failed to decode wallet: %v", err)
	}

	return signer, nil
}

func walletIdentity(flags cli.Flags) (string, error) {
	signer, err := loadSigner(flags)
	if err != nil {
		return "", err
	}

	return access.Key(signer.GetPublicKey())
}

// walletAction creates the wallet key unless it exists and prints the
// identity of the wallet.
//
// - implements node.ActionTemplate
type walletAction struct{}

// Execute implements node.ActionTemplate.
func (walletAction) Execute(ctx node.Context) error {
	_, err := loader.NewFileLoader(ctx.Flags.Path(KeyFlag)).LoadOrCreate(signerGenerator{})
	if err != nil {
		return xerrors.Errorf("failed to create wallet: %v", err)
	}

	ident, err := walletIdentity(ctx.Flags)
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.Out, ident)

	return nil
}

// flagArg maps a command flag to a transaction argument. The values of a list
// are joined with commas.
type flagArg struct {
	flag string
	arg  string
	list bool
}

func arg(flag, key string) flagArg {
	return flagArg{flag: flag, arg: key}
}

func listArg(flag, key string) flagArg {
	return flagArg{flag: flag, arg: key, list: true}
}

func (fa flagArg) value(flags cli.Flags) string {
	if fa.list {
		return strings.Join(flags.StringSlice(fa.flag), ",")
	}

	return flags.String(fa.flag)
}

// txAction submits a transaction to the election contract. Empty flags are
// left out of the transaction.
//
// - implements node.ActionTemplate
type txAction struct {
	cmd  election.Command
	args []flagArg
}

func makeTxAction(cmd election.Command, args ...flagArg) txAction {
	return txAction{cmd: cmd, args: args}
}

// Execute implements node.ActionTemplate.
func (a txAction) Execute(ctx node.Context) error {
	args := []txn.Arg{
		{Key: native.ContractArg, Value: []byte(election.ContractName)},
		{Key: election.CmdArg, Value: []byte(a.cmd)},
	}

	for _, fa := range a.args {
		value := fa.value(ctx.Flags)
		if value != "" {
			args = append(args, txn.Arg{Key: fa.arg, Value: []byte(value)})
		}
	}

	return submit(ctx, args...)
}

// balanceAction submits a transaction to the balance contract. The recipient
// is the wallet when the flag is empty.
//
// - implements node.ActionTemplate
type balanceAction struct {
	cmd balance.Command
}

// Execute implements node.ActionTemplate.
func (a balanceAction) Execute(ctx node.Context) error {
	to, err := recipient(ctx.Flags)
	if err != nil {
		return err
	}

	return submit(ctx,
		txn.Arg{Key: native.ContractArg, Value: []byte(balance.ContractName)},
		txn.Arg{Key: balance.CmdArg, Value: []byte(a.cmd)},
		txn.Arg{Key: balance.ToArg, Value: []byte(to)},
		txn.Arg{Key: balance.AmountArg, Value: []byte(ctx.Flags.String("amount"))},
	)
}

// showBalanceAction prints the balance of an identity.
//
// - implements node.ActionTemplate
type showBalanceAction struct{}

// Execute implements node.ActionTemplate.
func (showBalanceAction) Execute(ctx node.Context) error {
	to, err := recipient(ctx.Flags)
	if err != nil {
		return err
	}

	var amount uint64

	err = view(ctx, func(r store.Readable) error {
		amount, err = bank.NewService().Balance(r, access.Raw(to))
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "%s: %d\n", to, amount)

	return nil
}

func recipient(flags cli.Flags) (string, error) {
	to := flags.String("to")
	if to != "" {
		return to, nil
	}

	return walletIdentity(flags)
}

// submit signs the transaction with the wallet and executes it on the ledger.
// A rejected transaction is an error.
func submit(ctx node.Context, args ...txn.Arg) error {
	var ldgr *ledger.Ledger

	err := ctx.Injector.Resolve(&ldgr)
	if err != nil {
		return xerrors.Errorf(resolveLedgerFailed, err)
	}

	signer, err := loadSigner(ctx.Flags)
	if err != nil {
		return err
	}

	req := xid.New()

	tx, err := anon.NewTransaction(0,
		anon.WithIdentity(signer.GetPublicKey()),
		anon.WithArgs(args...),
		anon.WithArg(RequestArg, req.Bytes()),
	)
	if err != nil {
		return xerrors.Errorf("failed to create transaction: %v", err)
	}

	res, err := ldgr.Execute(tx)
	if err != nil {
		return xerrors.Errorf("failed to execute transaction: %v", err)
	}

	if !res.Accepted {
		return xerrors.Errorf("transaction %s rejected: %s", req, res.Message)
	}

	fmt.Fprintf(ctx.Out, "transaction %s accepted\n", req)
	printEvents(ctx.Out, res.Events)

	return nil
}

func printEvents(out io.Writer, events []execution.Event) {
	for _, event := range events {
		keys := make([]string, 0, len(event.Attributes))
		for key := range event.Attributes {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		pairs := make([]string, len(keys))
		for i, key := range keys {
			pairs[i] = key + "=" + event.Attributes[key]
		}

		fmt.Fprintf(out, "%s %s\n", event.Name, strings.Join(pairs, " "))
	}
}

func view(ctx node.Context, fn func(store.Readable) error) error {
	var ldgr *ledger.Ledger

	err := ctx.Injector.Resolve(&ldgr)
	if err != nil {
		return xerrors.Errorf(resolveLedgerFailed, err)
	}

	return ldgr.View(fn)
}

func getElectionID(flags cli.Flags) (types.ElectionID, error) {
	id, err := strconv.ParseUint(flags.String("id"), 10, 64)
	if err != nil {
		return 0, xerrors.Errorf("malformed election id: %v", err)
	}

	return types.ElectionID(id), nil
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	err := enc.Encode(v)
	if err != nil {
		return xerrors.Errorf("failed to encode: %v", err)
	}

	return nil
}

// listAction prints the records of the elections, at most the limit when the
// flag is positive.
//
// - implements node.ActionTemplate
type listAction struct{}

// Execute implements node.ActionTemplate.
func (listAction) Execute(ctx node.Context) error {
	var list []types.ElectionData

	err := view(ctx, func(r store.Readable) error {
		var err error
		list, err = election.NewReader(r).Elections()
		return err
	})
	if err != nil {
		return err
	}

	if list == nil {
		list = []types.ElectionData{}
	}

	limit := ctx.Flags.Int(limitFlag)
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	return printJSON(ctx.Out, list)
}

type electionView struct {
	Election   types.ElectionData `json:"election"`
	Applicants []types.Candidate  `json:"applicants"`
	Candidates []types.Candidate  `json:"candidates"`
	Voters     []string           `json:"voters"`
	Ballots    int                `json:"ballots"`
	Disputes   []types.Dispute    `json:"disputes"`
}

// showAction prints an election and everything attached to it.
//
// - implements node.ActionTemplate
type showAction struct{}

// Execute implements node.ActionTemplate.
func (showAction) Execute(ctx node.Context) error {
	id, err := getElectionID(ctx.Flags)
	if err != nil {
		return err
	}

	var ev electionView

	err = view(ctx, func(r store.Readable) error {
		reader := election.NewReader(r)

		var err error

		ev.Election, err = reader.Election(id)
		if err != nil {
			return err
		}

		ev.Applicants, err = candidateRecords(reader, id, reader.PotentialCandidates)
		if err != nil {
			return err
		}

		ev.Candidates, err = candidateRecords(reader, id, reader.Candidates)
		if err != nil {
			return err
		}

		ev.Voters, err = reader.RegisteredVoters(id)
		if err != nil {
			return err
		}

		ballots, err := reader.Ballots(id)
		if err != nil {
			return err
		}

		ev.Ballots = len(ballots)

		dids, err := reader.Disputes(id)
		if err != nil {
			return err
		}

		for _, did := range dids {
			dispute, err := reader.Dispute(id, did)
			if err != nil {
				return err
			}

			ev.Disputes = append(ev.Disputes, dispute)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return printJSON(ctx.Out, ev)
}

func candidateRecords(reader election.Reader, id types.ElectionID,
	list func(types.ElectionID) ([]types.CandidateID, error)) ([]types.Candidate, error) {

	cids, err := list(id)
	if err != nil {
		return nil, err
	}

	records := make([]types.Candidate, len(cids))

	for i, cid := range cids {
		records[i], err = reader.Candidate(id, cid)
		if err != nil {
			return nil, err
		}
	}

	return records, nil
}

type tallyView struct {
	Results []types.VotingResult `json:"results"`
	Winner  *types.CandidateID   `json:"winner"`
	Count   uint64               `json:"count"`
}

// tallyAction prints the stored counts of a counted election.
//
// - implements node.ActionTemplate
type tallyAction struct{}

// Execute implements node.ActionTemplate.
func (tallyAction) Execute(ctx node.Context) error {
	id, err := getElectionID(ctx.Flags)
	if err != nil {
		return err
	}

	var tv tallyView

	err = view(ctx, func(r store.Readable) error {
		reader := election.NewReader(r)

		var err error

		tv.Results, err = reader.Results(id)
		if err != nil {
			return err
		}

		winner, count, found, err := reader.Winner(id)
		if err != nil {
			return err
		}

		if found {
			tv.Winner = &winner
			tv.Count = count
		}

		return nil
	})
	if err != nil {
		return err
	}

	return printJSON(ctx.Out, tv)
}
