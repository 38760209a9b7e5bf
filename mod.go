// Package elector is the root of an election ledger: a set of native contracts
// that run election lifecycles and vote counting on top of an atomic key/value
// store.
//
// The package holds the few globals shared by every component, the logger and
// the list of Prometheus collectors.
package elector

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var logout = zerolog.ConsoleWriter{
	Out:        os.Stdout,
	TimeFormat: time.RFC3339,
}

// Logger is a globally available logger instance.
var Logger = zerolog.New(logout).
	With().Timestamp().Logger().
	With().Caller().Logger().
	Level(zerolog.InfoLevel)

// PromCollectors exposes the Prometheus collectors created by the packages.
// An application is free to register them on any registry.
var PromCollectors []prometheus.Collector
