// Package metrics exposes Prometheus collectors for the pipeline driver:
// per-stage duration histograms, skim-cache hit/miss counters, and the QA
// sentinel counters spec §7 requires attached to every run (unreachable
// shares, numeric-hazard shares, contract violations).
//
// A MetricsRegistry struct of HistogramVec/CounterVec/Gauge fields, a
// StepTimer helper, MustRegister at construction; see DESIGN.md for the
// grounding and what was dropped.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every Prometheus collector the pipeline emits, bound to
// its own prometheus.Registry rather than the global default so multiple
// Registry instances (e.g. in tests) never collide on collector names.
type Registry struct {
	reg *prometheus.Registry

	StageDuration *prometheus.HistogramVec
	StageRuns     *prometheus.CounterVec
	StageErrors   *prometheus.CounterVec

	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	SentinelShare *prometheus.GaugeVec

	ActiveRuns prometheus.Gauge
	TotalRuns  prometheus.Counter
}

// New builds and registers a fresh metrics registry.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aucs_stage_duration_seconds",
				Help:    "Duration of each pipeline stage in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"stage", "result"},
		),

		StageRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aucs_stage_runs_total",
				Help: "Total number of stage executions by result",
			},
			[]string{"stage", "result"},
		),

		StageErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aucs_stage_errors_total",
				Help: "Total number of stage failures by stage",
			},
			[]string{"stage"},
		),

		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aucs_skim_cache_hits_total",
				Help: "Total skim-cache hits",
			},
			[]string{"mode"},
		),

		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aucs_skim_cache_misses_total",
				Help: "Total skim-cache misses",
			},
			[]string{"mode"},
		),

		SentinelShare: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "aucs_sentinel_share",
				Help: "Share of rows replaced by a sentinel (unreachable, numeric hazard) per stage",
			},
			[]string{"stage", "kind"},
		),

		ActiveRuns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "aucs_active_runs",
				Help: "Number of currently executing pipeline runs",
			},
		),

		TotalRuns: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "aucs_runs_total",
				Help: "Total number of pipeline runs started",
			},
		),
	}

	r.reg.MustRegister(
		r.StageDuration,
		r.StageRuns,
		r.StageErrors,
		r.CacheHits,
		r.CacheMisses,
		r.SentinelShare,
		r.ActiveRuns,
		r.TotalRuns,
	)

	return r
}

// Registerer exposes the underlying registry, e.g. for promhttp.HandlerFor.
func (r *Registry) Registerer() *prometheus.Registry {
	return r.reg
}

// StageTimer times one stage execution.
type StageTimer struct {
	r     *Registry
	stage string
	start time.Time
}

// StartStageTimer begins timing a stage.
func (r *Registry) StartStageTimer(stage string) *StageTimer {
	return &StageTimer{r: r, stage: stage, start: time.Now()}
}

// Stop records the stage's duration and outcome ("ok" or "failed").
func (t *StageTimer) Stop(result string) {
	d := time.Since(t.start)
	t.r.StageDuration.WithLabelValues(t.stage, result).Observe(d.Seconds())
	t.r.StageRuns.WithLabelValues(t.stage, result).Inc()
	if result != "ok" {
		t.r.StageErrors.WithLabelValues(t.stage).Inc()
	}
}

// RecordCacheHit records a skim-cache hit for the given mode.
func (r *Registry) RecordCacheHit(mode string) { r.CacheHits.WithLabelValues(mode).Inc() }

// RecordCacheMiss records a skim-cache miss for the given mode.
func (r *Registry) RecordCacheMiss(mode string) { r.CacheMisses.WithLabelValues(mode).Inc() }

// SetSentinelShare records the current sentinel share for a stage/kind pair
// (e.g. stage="gtc", kind="unreachable").
func (r *Registry) SetSentinelShare(stage, kind string, share float64) {
	r.SentinelShare.WithLabelValues(stage, kind).Set(share)
}

// IncrementActiveRuns marks a run as started.
func (r *Registry) IncrementActiveRuns() {
	r.ActiveRuns.Inc()
	r.TotalRuns.Inc()
}

// DecrementActiveRuns marks a run as finished.
func (r *Registry) DecrementActiveRuns() {
	r.ActiveRuns.Dec()
}
