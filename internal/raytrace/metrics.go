package raytrace

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Batch-level metrics. Nothing here is touched inside the per-cell loop.
var (
	// segmentsTraced counts segments handed to batch workers.
	segmentsTraced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "occupancy_raytrace_segments_total",
		Help: "Total segments traced by batch calls",
	})

	// batchesTotal counts batch calls by result ("ok", "invalid", "cancelled").
	batchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "occupancy_raytrace_batches_total",
		Help: "Total batch trace calls by result",
	}, []string{"result"})

	// batchDuration tracks wall time of successful batches.
	batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "occupancy_raytrace_batch_duration_seconds",
		Help:    "Batch trace duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16), // 0.1ms to ~3s
	})

	// batchWorkers tracks how many workers each batch used.
	batchWorkers = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "occupancy_raytrace_batch_workers",
		Help:    "Number of workers per batch trace call",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
	})
)

const (
	resultOK        = "ok"
	resultInvalid   = "invalid"
	resultCancelled = "cancelled"
)
