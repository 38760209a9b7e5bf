package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.dedis.ch/elector"
	"go.dedis.ch/elector/cli"
	"go.dedis.ch/elector/cli/node"
	"golang.org/x/xerrors"
)

const (
	metricsFlag = "metrics"
	debugFlag   = "debug"
)

func observabilityFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  metricsFlag,
			Usage:   "path of a Prometheus text file written after every command",
			EnvVars: []string{"ELECTOR_METRICS"},
		},
		cli.BoolFlag{
			Name:  debugFlag,
			Usage: "log the rejected transactions",
		},
	}
}

// metricsPath is the injected path of the metrics text file.
type metricsPath string

// observability sets the log level and exports the metrics of the command.
//
// - implements node.Initializer
type observability struct {
	registry *prometheus.Registry
}

func newObservability() observability {
	registry := prometheus.NewRegistry()
	registry.MustRegister(elector.PromCollectors...)

	return observability{registry: registry}
}

// SetCommands implements node.Initializer. It has no command.
func (observability) SetCommands(node.Builder) {}

// OnStart implements node.Initializer.
func (o observability) OnStart(flags cli.Flags, inj node.Injector) error {
	if flags.Bool(debugFlag) {
		elector.Logger = elector.Logger.Level(zerolog.DebugLevel)
	}

	inj.Inject(metricsPath(flags.Path(metricsFlag)))

	return nil
}

// OnStop implements node.Initializer. It writes the metrics when a path is
// set.
func (o observability) OnStop(inj node.Injector) error {
	var path metricsPath

	err := inj.Resolve(&path)
	if err != nil {
		return xerrors.Errorf("failed to resolve metrics path: %v", err)
	}

	if path == "" {
		return nil
	}

	err = prometheus.WriteToTextfile(string(path), o.registry)
	if err != nil {
		return xerrors.Errorf("failed to write metrics: %v", err)
	}

	return nil
}
