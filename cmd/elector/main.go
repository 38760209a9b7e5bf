// Package main implements the command line of a local election ledger.
//
//  elector wallet generate
//  elector balance mint --amount 10
//  elector election init --fee 2
//  elector election register --name board --description "yearly board" \
//    --type Plurality --start 1700000000 --end 1700086400
//  elector election apply --id XX --name alice --description "..." --payment 2
//  elector --metrics elector.prom election results --id XX
package main

import (
	"fmt"
	"io"
	"os"

	"go.dedis.ch/elector/cli/node"
	"go.dedis.ch/elector/contracts/election/controller"
)

var printer io.Writer = os.Stderr

func main() {
	err := run(os.Args)
	if err != nil {
		fmt.Fprintf(printer, "%+v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	return runWithCfg(args, nil)
}

func runWithCfg(args []string, out io.Writer) error {
	builder := node.NewBuilderWithCfg("elector", out, newObservability(), controller.NewController())
	builder.SetUsage("run elections on a local ledger")
	builder.AddFlags(controller.Flags()...)
	builder.AddFlags(observabilityFlags()...)

	return builder.Build().Run(args)
}
