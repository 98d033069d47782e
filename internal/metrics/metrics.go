// Package metrics records pipeline stage outcomes as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sitegen_ai_server/internal/types"
)

const (
	// Namespace is the namespace for all metrics of this service.
	Namespace = "sitegen"

	// Subsystem is the subsystem for pipeline metrics.
	Subsystem = "pipeline"
)

// Recorder holds the pipeline metrics. It satisfies pipeline.Observer.
type Recorder struct {
	gatherer prometheus.Gatherer

	StagesTotal          *prometheus.CounterVec
	StageDurationSeconds *prometheus.HistogramVec
	RecoveredErrors      *prometheus.CounterVec
	GenerationsTotal     *prometheus.CounterVec
}

// NewRecorder registers the pipeline metrics on a fresh registry, so tests and multiple
// servers in one process never collide on the default one.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		gatherer: reg,
		StagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "stages_total",
				Help:      "Completed pipeline stages by output source",
			},
			[]string{"stage", "source"},
		),
		StageDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "stage_duration_seconds",
				Help:      "Duration of pipeline stages in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14), // 5ms to ~41s
			},
			[]string{"stage"},
		),
		RecoveredErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "recovered_errors_total",
				Help:      "Errors absorbed by a stage fallback, by class",
			},
			[]string{"stage", "class"},
		),
		GenerationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "generations_total",
				Help:      "Generation requests by result",
			},
			[]string{"result"},
		),
	}
}

func (r *Recorder) ObserveStage(stage string, source types.Source, errClass string, elapsed time.Duration) {
	r.StagesTotal.WithLabelValues(stage, string(source)).Inc()
	r.StageDurationSeconds.WithLabelValues(stage).Observe(elapsed.Seconds())
	// rejected input is counted by ObserveGeneration, it is not a recovered error
	if errClass != "" && errClass != "validation" {
		r.RecoveredErrors.WithLabelValues(stage, errClass).Inc()
	}
}

// ObserveGeneration counts a finished request ("completed", "rejected", "cancelled", "failed").
func (r *Recorder) ObserveGeneration(result string) {
	r.GenerationsTotal.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
