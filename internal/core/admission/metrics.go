package admission

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var queueLength = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "adwarden_admission_queue_length",
	Help: "Number of classification tasks waiting for a slot",
}, []string{"queue"})

var queueInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "adwarden_admission_in_flight",
	Help: "Number of classification tasks currently running",
}, []string{"queue"})

var taskOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "adwarden_admission_outcomes_total",
	Help: "Classification tasks by outcome (ok, error, timeout, rejected)",
}, []string{"queue", "outcome"})

var processingSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "adwarden_admission_processing_seconds",
	Help:    "Time spent running a classification task",
	Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
}, []string{"queue"})
