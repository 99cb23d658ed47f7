package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(pipelineRunsTotal, pipelineTaskDurationMs) }

var (
	pipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total pipeline runs, labeled by final status.",
		},
		[]string{"status"}, // 'succeeded', 'failed'
	)

	pipelineTaskDurationMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_task_duration_ms",
			Help:    "Duration of a single task execution in milliseconds.",
			Buckets: []float64{100, 500, 1000, 2500, 5000, 10000, 30000, 60000, 120000},
		},
		[]string{"task", "success"},
	)
)

func IncPipelineRun(status string) {
	pipelineRunsTotal.WithLabelValues(norm(status)).Inc()
}

func ObserveTask(task string, ms int64, success bool) {
	pipelineTaskDurationMs.WithLabelValues(norm(task), strconv.FormatBool(success)).Observe(float64(ms))
}
