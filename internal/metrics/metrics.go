// Package metrics wires together the prometheus counters and histograms
// shared by the resolver, contract engine, and extraction pipeline, named
// in SPEC_FULL.md's domain stack.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups every collector the runtime records into.
type Metrics struct {
	ProviderProbes        *prometheus.CounterVec
	ResolverResolutions   *prometheus.CounterVec
	ResolverDuration      prometheus.Histogram
	ContractDecisions     *prometheus.CounterVec
	ExtractFilesCommitted prometheus.Counter
	ExtractCommitDuration prometheus.Histogram
}

// New constructs every collector but does not register them; call
// Register to attach them to a registry (tests use a throwaway
// prometheus.NewRegistry(); the dlt CLI builds them without registering).
func New() *Metrics {
	return &Metrics{
		ProviderProbes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dlt",
			Subsystem: "resolver",
			Name:      "provider_probes_total",
			Help:      "Provider probes performed during configuration resolution, labeled by provider and outcome.",
		}, []string{"provider", "found"}),

		ResolverResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dlt",
			Subsystem: "resolver",
			Name:      "resolutions_total",
			Help:      "Configuration resolutions, labeled by outcome (resolved, partial, failed).",
		}, []string{"outcome"}),

		ResolverDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dlt",
			Subsystem: "resolver",
			Name:      "resolution_duration_seconds",
			Help:      "Wall-clock duration of a single Resolve call.",
			Buckets:   prometheus.DefBuckets,
		}),

		ContractDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dlt",
			Subsystem: "contract",
			Name:      "decisions_total",
			Help:      "Contract-engine decisions, labeled by mode slot, change kind, and outcome.",
		}, []string{"slot", "change_kind", "outcome"}),

		ExtractFilesCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dlt",
			Subsystem: "extract",
			Name:      "files_committed_total",
			Help:      "Staged files atomically committed into the normalize-input directory.",
		}),

		ExtractCommitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dlt",
			Subsystem: "extract",
			Name:      "commit_duration_seconds",
			Help:      "Wall-clock duration of one extract commit (flush + rename/link).",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Register attaches every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.ProviderProbes,
		m.ResolverResolutions,
		m.ResolverDuration,
		m.ContractDecisions,
		m.ExtractFilesCommitted,
		m.ExtractCommitDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
