package node

import (
	"io"
	"os"

	"go.dedis.ch/elector"
	"go.dedis.ch/elector/cli"
	"go.dedis.ch/elector/cli/ucli"
	"golang.org/x/xerrors"
)

// CLIBuilder is an application builder that will build a CLI to operate a
// local ledger.
//
// - implements node.Builder
// - implements cli.Builder
type CLIBuilder struct {
	*ucli.Builder

	inits  []Initializer
	writer io.Writer
}

// NewBuilder returns a new builder that writes the output of the actions to
// the standard output.
func NewBuilder(name string, inits ...Initializer) *CLIBuilder {
	return NewBuilderWithCfg(name, nil, inits...)
}

// NewBuilderWithCfg returns a new builder with a specific output.
func NewBuilderWithCfg(name string, out io.Writer, inits ...Initializer) *CLIBuilder {
	if out == nil {
		out = os.Stdout
	}

	return &CLIBuilder{
		Builder: ucli.NewBuilder(name, nil),
		inits:   inits,
		writer:  out,
	}
}

// MakeAction implements node.Builder. It creates a CLI action from the
// template. The initializers are started before the template is executed and
// stopped after, whatever the outcome of the action.
func (b *CLIBuilder) MakeAction(tmpl ActionTemplate) cli.Action {
	return func(flags cli.Flags) error {
		return b.run(tmpl, flags)
	}
}

func (b *CLIBuilder) run(tmpl ActionTemplate, flags cli.Flags) (err error) {
	injector := NewInjector()

	started := 0

	// Controllers are stopped in reverse order so that high level components
	// are stopped before lower level ones.
	defer func() {
		for i := started - 1; i >= 0; i-- {
			stopErr := b.inits[i].OnStop(injector)
			if stopErr != nil && err == nil {
				err = xerrors.Errorf("couldn't stop controller: %v", stopErr)
			}
		}
	}()

	for _, controller := range b.inits {
		err = controller.OnStart(flags, injector)
		if err != nil {
			return xerrors.Errorf("couldn't run the controller: %v", err)
		}

		started++
	}

	ctx := Context{
		Injector: injector,
		Flags:    flags,
		Out:      b.writer,
	}

	err = tmpl.Execute(ctx)
	if err != nil {
		return xerrors.Opaque(err)
	}

	elector.Logger.Trace().Msg("action done")

	return nil
}

// Build implements cli.Builder. It returns the application with the commands
// of every initializer.
func (b *CLIBuilder) Build() cli.Application {
	for _, controller := range b.inits {
		controller.SetCommands(b)
	}

	return b.Builder.Build()
}
