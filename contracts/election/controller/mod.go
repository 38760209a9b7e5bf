// Package controller implements the command line of the election ledger: it
// opens the database, registers the native contracts and submits the
// transactions signed by the wallet of the user.
package controller

import (
	"go.dedis.ch/elector/cli"
	"go.dedis.ch/elector/cli/node"
	"go.dedis.ch/elector/contracts/balance"
	"go.dedis.ch/elector/contracts/election"
	bank "go.dedis.ch/elector/core/balance"
	"go.dedis.ch/elector/core/execution/native"
	"go.dedis.ch/elector/core/store/kv"
	"go.dedis.ch/elector/internal/tracing"
	"go.dedis.ch/elector/ledger"
	"golang.org/x/xerrors"
)

const (
	// DBFlag is the global flag with the path of the database.
	DBFlag = "db"

	// ConfigFlag is the global flag with the path of the contract
	// configuration.
	ConfigFlag = "config"

	// KeyFlag is the global flag with the path of the wallet key.
	KeyFlag = "key"

	// JournalFlag is the global flag with the path of the file where the
	// executed transactions are appended.
	JournalFlag = "journal"

	tracerName = "elector"

	limitFlag = "limit"
)

// Flags returns the global flags the controller reads.
func Flags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  DBFlag,
			Usage:   "path to the database",
			Value:   "elector.db",
			EnvVars: []string{"ELECTOR_DB"},
		},
		cli.StringFlag{
			Name:  ConfigFlag,
			Usage:   "path to the YAML configuration of the election contract",
			EnvVars: []string{"ELECTOR_CONFIG"},
		},
		cli.StringFlag{
			Name:  KeyFlag,
			Usage:   "path to the wallet key",
			Value:   "wallet.key",
			EnvVars: []string{"ELECTOR_KEY"},
		},
		cli.StringFlag{
			Name:    JournalFlag,
			Usage:   "path to a JSON lines journal of the executed transactions",
			EnvVars: []string{"ELECTOR_JOURNAL"},
		},
	}
}

// NewController returns the initializer of the election commands.
func NewController() node.Initializer {
	return controller{}
}

// controller opens the ledger for every action and closes it afterwards.
//
// - implements node.Initializer
type controller struct{}

// SetCommands implements node.Initializer.
func (controller) SetCommands(builder node.Builder) {
	wallet := builder.SetCommand("wallet")
	wallet.SetDescription("manage the wallet key")

	sub := wallet.SetSubCommand("generate")
	sub.SetDescription("generate the wallet key if it does not exist")
	sub.SetAction(builder.MakeAction(walletAction{}))

	setBalanceCommands(builder)
	setElectionCommands(builder)
}

// OnStart implements node.Initializer. It opens the database and injects the
// ledger.
func (controller) OnStart(flags cli.Flags, inj node.Injector) error {
	cfg := election.DefaultConfig()

	if flags.Path(ConfigFlag) != "" {
		var err error

		cfg, err = election.LoadConfigFile(flags.Path(ConfigFlag))
		if err != nil {
			return xerrors.Errorf("failed to load config: %v", err)
		}
	}

	tracer, err := tracing.GetTracer(tracerName)
	if err != nil {
		return xerrors.Errorf("failed to get tracer: %v", err)
	}

	db, err := kv.New(flags.Path(DBFlag))
	if err != nil {
		return xerrors.Errorf("failed to open database: %v", err)
	}

	exec := native.NewExecution()
	election.RegisterContract(exec, election.NewContract(bank.NewService(), election.WithConfig(cfg)))
	balance.RegisterContract(exec, balance.NewContract())

	ldgr, err := ledger.New(db, exec, ledger.WithTracer(tracer))
	if err != nil {
		db.Close()
		return xerrors.Errorf("failed to create ledger: %v", err)
	}

	if flags.Path(JournalFlag) != "" {
		jnl, err := openJournal(flags.Path(JournalFlag))
		if err != nil {
			ldgr.Close()
			return err
		}

		ldgr.Watch(jnl)
		inj.Inject(jnl)
	}

	inj.Inject(ldgr)

	return nil
}

// OnStop implements node.Initializer. It closes the ledger and flushes the
// traces.
func (controller) OnStop(inj node.Injector) error {
	var ldgr *ledger.Ledger

	err := inj.Resolve(&ldgr)
	if err != nil {
		return xerrors.Errorf("failed to resolve ledger: %v", err)
	}

	err = ldgr.Close()
	if err != nil {
		return xerrors.Errorf("failed to close ledger: %v", err)
	}

	var jnl *journal

	// The journal is optional.
	if inj.Resolve(&jnl) == nil {
		ldgr.Unwatch(jnl)

		err = jnl.Close()
		if err != nil {
			return xerrors.Errorf("failed to close journal: %v", err)
		}
	}

	err = tracing.CloseAll()
	if err != nil {
		return xerrors.Errorf("failed to close tracers: %v", err)
	}

	return nil
}

func setBalanceCommands(builder node.Builder) {
	cmd := builder.SetCommand("balance")
	cmd.SetDescription("fund and move currency")

	sub := cmd.SetSubCommand("mint")
	sub.SetDescription("create currency for an identity, the wallet by default")
	sub.SetFlags(
		cli.StringFlag{Name: "to", Usage: "recipient identity"},
		cli.StringFlag{Name: "amount", Usage: "amount to create", Required: true},
	)
	sub.SetAction(builder.MakeAction(balanceAction{cmd: balance.CmdMint}))

	sub = cmd.SetSubCommand("transfer")
	sub.SetDescription("send currency from the wallet")
	sub.SetFlags(
		cli.StringFlag{Name: "to", Usage: "recipient identity", Required: true},
		cli.StringFlag{Name: "amount", Usage: "amount to send", Required: true},
	)
	sub.SetAction(builder.MakeAction(balanceAction{cmd: balance.CmdTransfer}))

	sub = cmd.SetSubCommand("show")
	sub.SetDescription("print the balance of an identity, the wallet by default")
	sub.SetFlags(cli.StringFlag{Name: "to", Usage: "identity"})
	sub.SetAction(builder.MakeAction(showBalanceAction{}))
}

// command is a subcommand of the election command.
type command struct {
	name    string
	aliases []string
	usage   string
	flags []cli.Flag
	tmpl  node.ActionTemplate
}

func setElectionCommands(builder node.Builder) {
	cmd := builder.SetCommand("election")
	cmd.SetDescription("run elections")

	for _, c := range electionCommands() {
		sub := cmd.SetSubCommand(c.name)
		sub.SetAliases(c.aliases...)
		sub.SetDescription(c.usage)
		sub.SetFlags(c.flags...)
		sub.SetAction(builder.MakeAction(c.tmpl))
	}
}

func electionCommands() []command {
	idFlag := cli.StringFlag{Name: "id", Usage: "election identifier", Required: true}
	nameFlag := cli.StringFlag{Name: "name", Usage: "name", Required: true}
	descFlag := cli.StringFlag{Name: "description", Usage: "description", Required: true}

	return []command{
		{
			name:  "init",
			usage: "become the owner of the contract and set the candidacy fee",
			flags: []cli.Flag{cli.StringFlag{Name: "fee", Usage: "candidacy fee, from the configuration if empty"}},
			tmpl:  makeTxAction(election.CmdInit, arg("fee", election.FeeArg)),
		},
		{
			name:  "fee",
			usage: "update the candidacy fee",
			flags: []cli.Flag{cli.StringFlag{Name: "fee", Usage: "candidacy fee", Required: true}},
			tmpl:  makeTxAction(election.CmdUpdateFee, arg("fee", election.FeeArg)),
		},
		{
			name:  "register",
			usage: "register an election administered by the wallet",
			flags: []cli.Flag{
				nameFlag,
				descFlag,
				cli.StringFlag{Name: "type", Usage: "Plurality, Approval or SingleTransferableVote", Required: true},
				cli.StringFlag{Name: "start", Usage: "start time in seconds since the epoch", Required: true},
				cli.StringFlag{Name: "end", Usage: "end time in seconds since the epoch", Required: true},
			},
			tmpl: makeTxAction(election.CmdRegisterElection,
				arg("name", election.NameArg),
				arg("description", election.DescriptionArg),
				arg("type", election.TypeArg),
				arg("start", election.StartArg),
				arg("end", election.EndArg)),
		},
		{
			name:  "end",
			usage: "end an election",
			flags: []cli.Flag{idFlag},
			tmpl:  makeTxAction(election.CmdEndElection, arg("id", election.ElectionIDArg)),
		},
		{
			name:  "apply",
			usage: "submit the candidacy of the wallet",
			flags: []cli.Flag{
				idFlag,
				nameFlag,
				descFlag,
				cli.StringFlag{Name: "payment", Usage: "amount offered for the fee"},
			},
			tmpl: makeTxAction(election.CmdSubmitCandidacy,
				arg("id", election.ElectionIDArg),
				arg("name", election.NameArg),
				arg("description", election.DescriptionArg),
				arg("payment", election.PaymentArg)),
		},
		{
			name:  "approve",
			usage: "approve a candidate",
			flags: []cli.Flag{idFlag, cli.StringFlag{Name: "candidate", Usage: "candidate identifier", Required: true}},
			tmpl: makeTxAction(election.CmdApproveCandidate,
				arg("id", election.ElectionIDArg),
				arg("candidate", election.CandidateArg)),
		},
		{
			name:    "enroll",
			aliases: []string{"register-voter"},
			usage:   "register a voter",
			flags: []cli.Flag{idFlag, cli.StringFlag{Name: "voter", Usage: "voter identity", Required: true}},
			tmpl: makeTxAction(election.CmdRegisterVoter,
				arg("id", election.ElectionIDArg),
				arg("voter", election.VoterArg)),
		},
		{
			name:  "join",
			usage: "register the wallet as a voter",
			flags: []cli.Flag{idFlag, cli.StringFlag{Name: "proof", Usage: "verification payload", Required: true}},
			tmpl: makeTxAction(election.CmdRegisterSelf,
				arg("id", election.ElectionIDArg),
				arg("proof", election.VerificationArg)),
		},
		{
			name:  "vote",
			usage: "cast the ballot of the wallet",
			flags: []cli.Flag{
				idFlag,
				cli.StringSliceFlag{Name: "candidate", Usage: "candidate identifier, in order of preference", Required: true},
			},
			tmpl: makeTxAction(election.CmdCastVote,
				arg("id", election.ElectionIDArg),
				listArg("candidate", election.CandidatesArg)),
		},
		{
			name:  "results",
			usage: "count the ballots and announce the winner",
			flags: []cli.Flag{idFlag},
			tmpl:  makeTxAction(election.CmdResults, arg("id", election.ElectionIDArg)),
		},
		{
			name:  "dispute",
			usage: "file a dispute",
			flags: []cli.Flag{idFlag, nameFlag, descFlag},
			tmpl: makeTxAction(election.CmdFileDispute,
				arg("id", election.ElectionIDArg),
				arg("name", election.NameArg),
				arg("description", election.DescriptionArg)),
		},
		{
			name:    "list",
			aliases: []string{"ls"},
			usage:   "print the elections",
			flags:   []cli.Flag{cli.IntFlag{Name: limitFlag, Usage: "maximum number of elections, all if zero"}},
			tmpl:    listAction{},
		},
		{
			name:  "show",
			usage: "print an election with its candidates, voters and disputes",
			flags: []cli.Flag{idFlag},
			tmpl:  showAction{},
		},
		{
			name:  "tally",
			usage: "print the stored counts and the winner",
			flags: []cli.Flag{idFlag},
			tmpl:  tallyAction{},
		},
	}
}
