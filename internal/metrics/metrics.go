// Package metrics exposes the pipeline's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PipelineRuns counts pipeline invocations by outcome ("ok" or "error").
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openshorts_pipeline_runs_total",
		Help: "Pipeline invocations by outcome.",
	}, []string{"status"})

	// ClipsRendered counts successfully encoded clips.
	ClipsRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "openshorts_clips_rendered_total",
		Help: "Clips rendered successfully.",
	})

	// RenderSeconds observes wall time per clip render job.
	RenderSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "openshorts_render_seconds",
		Help:    "Wall time of individual clip render jobs.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})
)
