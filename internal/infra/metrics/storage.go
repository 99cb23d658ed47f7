package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(uploadBytes, cleanupFailuresTotal, sweptFilesTotal) }

var (
	uploadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "upload_bytes",
			Help:    "Size of persisted uploads in bytes.",
			Buckets: prometheus.ExponentialBuckets(16<<10, 4, 8),
		},
	)

	cleanupFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cleanup_failures_total",
			Help: "Uploaded documents that could not be removed after a run.",
		},
	)

	sweptFilesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "swept_files_total",
			Help: "Stale uploads removed by the sweeper.",
		},
	)
)

func ObserveUpload(n int64) { uploadBytes.Observe(float64(n)) }
func IncCleanupFailure() { cleanupFailuresTotal.Inc() }
func AddSweptFiles(n int) { sweptFilesTotal.Add(float64(n)) }
