// internal/engine/metrics.go
package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"haplophase/internal/phase"
)

// Metrics are the search counters of all strategies. A nil *Metrics is a
// valid no-op.
type Metrics struct {
	runs      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	nodes     *prometheus.CounterVec
	pruned    *prometheus.CounterVec
	solutions *prometheus.CounterVec
	rounds    *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. Each run of the CLI uses its
// own registry so repeated registrations in tests do not collide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "haplophase",
			Name:      "phase_runs_total",
			Help:      "Phase calls by algorithm and outcome (ok, best_effort, error)",
		}, []string{"algorithm", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "haplophase",
			Name:      "phase_duration_seconds",
			Help:      "Wall time of one phase call",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}, []string{"algorithm"}),
		nodes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "haplophase",
			Name:      "search_nodes_total",
			Help:      "Search nodes expanded",
		}, []string{"algorithm"}),
		pruned: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "haplophase",
			Name:      "search_pruned_total",
			Help:      "Branches cut by the bound",
		}, []string{"algorithm"}),
		solutions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "haplophase",
			Name:      "search_solutions_total",
			Help:      "Complete solutions adopted as best",
		}, []string{"algorithm"}),
		rounds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "haplophase",
			Name:      "greedy_rounds_total",
			Help:      "Greedy cover rounds",
		}, []string{"algorithm"}),
	}
}

func (m *Metrics) observe(alg string, res *phase.Result, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case res != nil && res.BestEffort:
		outcome = "best_effort"
	}
	m.runs.WithLabelValues(alg, outcome).Inc()
	m.duration.WithLabelValues(alg).Observe(d.Seconds())
	if res == nil {
		return
	}
	m.nodes.WithLabelValues(alg).Add(float64(res.Stats.Nodes))
	m.pruned.WithLabelValues(alg).Add(float64(res.Stats.Pruned))
	m.solutions.WithLabelValues(alg).Add(float64(res.Stats.Solutions))
	m.rounds.WithLabelValues(alg).Add(float64(res.Stats.Rounds))
}
