package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tryon_generation_requests_total",
			Help: "Total number of generation gateway calls",
		},
		[]string{"operation", "outcome"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tryon_generation_duration_seconds",
			Help:    "Duration of generation gateway calls in seconds",
			Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160, 320},
		},
		[]string{"operation"},
	)

	EngineOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tryon_engine_operations_total",
			Help: "Outfit engine operations by result",
		},
		[]string{"operation", "result"},
	)

	SavedOutfits = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tryon_saved_outfits",
			Help: "Number of saved outfits",
		},
	)
)

// ObserveGeneration records one gateway call started at start.
func ObserveGeneration(operation string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	GenerationRequests.WithLabelValues(operation, outcome).Inc()
	GenerationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
