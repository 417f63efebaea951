package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics tracks pricing engine computations by mode (order/group).
type PricingMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_duration_seconds",
		Help:    "Duration of pricing computations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_computations_total",
		Help: "Total pricing computations performed.",
	}, []string{"mode"})
	reg.MustRegister(duration, total)
	return &PricingMetrics{duration: duration, total: total}
}

func (p *PricingMetrics) Observe(mode string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	mode = normalizeLabel(mode)
	p.duration.WithLabelValues(mode).Observe(duration.Seconds())
	p.total.WithLabelValues(mode).Inc()
}

// SyncMetrics tracks the reconciler's suppression behavior.
type SyncMetrics struct {
	suppressed prometheus.Counter
	applied    prometheus.Counter
	writeFails prometheus.Counter
}

func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	suppressed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sync_snapshots_suppressed_total",
		Help: "Remote snapshots whose own-participant data was suppressed during an in-flight window.",
	})
	applied := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sync_snapshots_applied_total",
		Help: "Remote snapshots fully applied.",
	})
	writeFails := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sync_write_failures_total",
		Help: "Shared-store writes that failed during a local edit.",
	})
	reg.MustRegister(suppressed, applied, writeFails)
	return &SyncMetrics{suppressed: suppressed, applied: applied, writeFails: writeFails}
}

func (s *SyncMetrics) IncSuppressed() {
	if s == nil || s.suppressed == nil {
		return
	}
	s.suppressed.Inc()
}

func (s *SyncMetrics) IncApplied() {
	if s == nil || s.applied == nil {
		return
	}
	s.applied.Inc()
}

func (s *SyncMetrics) IncWriteFailure() {
	if s == nil || s.writeFails == nil {
		return
	}
	s.writeFails.Inc()
}
