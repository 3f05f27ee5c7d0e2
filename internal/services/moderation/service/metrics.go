package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"adwarden/internal/services/moderation/domain"
)

var (
	inspected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adwarden_moderation_inspected_total",
		Help: "Messages inspected, by outcome (skip reason, trigger or clean)",
	}, []string{"outcome"})

	inspectDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "adwarden_moderation_inspect_seconds",
		Help:    "Wall time of one Inspect call for messages past the gate",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	nestedForwards = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adwarden_moderation_nested_forwards_total",
		Help: "Forward bundle leaves that referenced another forward",
	})
)

func observe(v *domain.Verdict, elapsed time.Duration) {
	switch {
	case v.Skipped != "":
		inspected.WithLabelValues("skip_" + v.Skipped).Inc()
		return
	case v.Flagged():
		inspected.WithLabelValues(string(v.Trigger)).Inc()
	default:
		inspected.WithLabelValues("clean").Inc()
	}
	inspectDuration.Observe(elapsed.Seconds())
}

// ObserveNested is a forward.Options.OnNested hook
func ObserveNested(_ context.Context, _ string) { nestedForwards.Inc() }
