// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for BalanceComputations.
const (
	OutcomeOK            = "ok"
	OutcomeNotFound      = "not_found"
	OutcomeNotAuthorized = "not_authorized"
	OutcomeInvalid       = "invalid"
	OutcomeInconsistent  = "inconsistent"
	OutcomeError         = "error"
)

// BalanceComputations counts group balance computations by outcome.
var BalanceComputations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "splitr",
	Subsystem: "balance",
	Name:      "computations_total",
	Help:      "Total group balance computations by outcome.",
}, []string{"outcome"})

// BalanceComputationDuration tracks ledger load plus computation time.
var BalanceComputationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "splitr",
	Subsystem: "balance",
	Name:      "computation_duration_seconds",
	Help:      "Time to load a ledger snapshot and compute its balances.",
	Buckets:   prometheus.DefBuckets,
})

// BalanceEdges observes how many edges a computation produced.
var BalanceEdges = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "splitr",
	Subsystem: "balance",
	Name:      "edges",
	Help:      "Number of balance edges per computed group.",
	Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
})

// RPCRequests counts handled RPCs by procedure and Connect code.
var RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "splitr",
	Subsystem: "rpc",
	Name:      "requests_total",
	Help:      "Total RPC requests by procedure and result code.",
}, []string{"procedure", "code"})

// EventsPublished counts ledger events by publish result.
var EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "splitr",
	Subsystem: "events",
	Name:      "published_total",
	Help:      "Total ledger events handed to the publisher by result.",
}, []string{"result"})
