// Package metrics holds the process-wide Prometheus counters and the HTTP
// endpoint that exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PacketsReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "web3dns_packets_received_total",
			Help: "Number of UDP datagrams read.",
		},
	)
	PacketsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web3dns_packets_dropped_total",
			Help: "Datagrams not answered.",
		},
		[]string{
			"reason", // "ratelimit", "unparseable" or "write".
		},
	)
	Questions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web3dns_questions_total",
			Help: "Questions parsed from requests.",
		},
		[]string{
			"type", // Record type mnemonic, e.g. TXT, or OTHER.
		},
	)
	Answers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web3dns_answers_total",
			Help: "Answer records written.",
		},
		[]string{"type"},
	)
	Lookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web3dns_ens_lookups_total",
			Help: "ENS record lookups and their result.",
		},
		[]string{
			"result", // "ok", "empty", "error", "unclassified", "undecodable" or "denied".
		},
	)
	DeniedNames = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "web3dns_denied_names_total",
			Help: "Lookups refused by the denylist.",
		},
	)
)
