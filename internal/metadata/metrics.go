package metadata

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transportRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediavault_transport_requests_total",
		Help: "Metadata HTTP attempts, by outcome (success|rate_limited|transient|terminal).",
	}, []string{"outcome"})

	transportRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediavault_transport_retries_total",
		Help: "Backoff sleeps scheduled by the transport, by failure class.",
	}, []string{"class"})

	fetchFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediavault_fetch_failures_total",
		Help: "List/detail fetches that fell back to an empty result, by operation.",
	}, []string{"operation"})
)
