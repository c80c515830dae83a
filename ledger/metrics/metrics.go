// Package metrics registers the ledger engine's Prometheus instrumentation.
// Non-goals exclude an HTTP/admin surface; this package only registers
// collectors against the default registry — a caller wires promhttp.Handler
// itself if it wants a scrape endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsPosted is registered but no code in this repository
	// increments it.
	OperationsPosted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_operations_posted_total",
		Help: "Operations appended to the ledger, by description.",
	}, []string{"kind"})

	DepositsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_deposits_processed_total",
		Help: "Deposit transactions processed, by currency and resulting state.",
	}, []string{"currency", "state"})

	WithdrawalsBatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_withdrawals_batched_total",
		Help: "Withdraw rows folded into a sendmany batch, by currency.",
	}, []string{"currency"})

	SendManyFeeSatoshi = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_sendmany_fee_satoshi",
		Help:    "Network fee paid per sendmany batch, in satoshi.",
		Buckets: prometheus.ExponentialBuckets(100, 4, 10),
	}, []string{"currency"})

	RPCCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_rpc_call_duration_seconds",
		Help:    "Node RPC call latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "currency"})

	RPCRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_rpc_retries_total",
		Help: "Node RPC call retries, by method and currency.",
	}, []string{"method", "currency"})

	ConflictedTx = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_conflicted_tx_total",
		Help: "Chain transactions observed with a negative confirmation count.",
	}, []string{"currency"})
)
