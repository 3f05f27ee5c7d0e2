package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var modelRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "adwarden_llm_requests_total",
	Help: "Model endpoint attempts by call kind and outcome",
}, []string{"kind", "outcome"})

var modelLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "adwarden_llm_request_seconds",
	Help:    "Latency of single model endpoint attempts",
	Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
}, []string{"kind"})

var verdictCache = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "adwarden_llm_verdict_cache_total",
	Help: "Verdict cache lookups by result (hit, miss)",
}, []string{"result"})
