// Package metrics holds the Prometheus instruments for the import
// service, registered on the default registry and served by promhttp.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/clipforge/media-import-pipeline/pkg/pipeline"
)

var (
	importResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "import_results_total",
		Help: "Import attempts by outcome status and reject reason.",
	}, []string{"status", "reason"})

	probeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "probe_duration_seconds",
		Help:    "Wall time of media probe calls.",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveImport counts one import outcome.
func ObserveImport(res pipeline.ImportResult) {
	importResults.WithLabelValues(string(res.Status), string(res.Reason)).Inc()
}

// ObserveProbe records the duration of one probe call.
func ObserveProbe(d time.Duration) {
	probeDuration.Observe(d.Seconds())
}
