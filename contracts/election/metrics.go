package election

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.dedis.ch/elector"
)

// defines prometheus metrics
var (
	promElections = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elector_election_registered_total",
		Help: "total number of elections registered",
	})

	promBallots = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elector_election_ballots_total",
		Help: "total number of ballots cast",
	})

	promTallies = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "elector_election_tallies_total",
		Help: "total number of elections counted, per election type",
	}, []string{"type"})
)

func init() {
	elector.PromCollectors = append(elector.PromCollectors,
		promElections, promBallots, promTallies)
}
