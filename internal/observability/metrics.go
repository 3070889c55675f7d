// Package observability defines the Prometheus metrics for the interest
// calculator. Metrics are registered once via promauto and shared by the
// HTTP facade and the CLI.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CalculationsTotal counts completed accrual computations by outcome.
	CalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intcalc_calculations_total",
		Help: "Accrual computations by outcome (ok, invalid_input, error).",
	}, []string{"outcome"})

	// CalculationDuration observes end-to-end computation time.
	CalculationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "intcalc_calculation_duration_seconds",
		Help:    "Time spent running one accrual computation.",
		Buckets: prometheus.DefBuckets,
	})

	// CalculationDays observes the calendar span of each computation,
	// the quantity cost is linear in.
	CalculationDays = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "intcalc_calculation_days",
		Help:    "Calendar days covered by one accrual computation.",
		Buckets: []float64{7, 30, 90, 365, 730, 1825, 3650},
	})

	// RowsDropped counts ledger rows discarded during ingestion.
	RowsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intcalc_ingest_rows_dropped_total",
		Help: "Raw ledger rows dropped because date or amount failed to parse.",
	})

	// ReferenceReloads counts reference data load attempts by outcome.
	ReferenceReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intcalc_reference_reloads_total",
		Help: "Reference data load attempts by outcome (ok, error).",
	}, []string{"outcome"})
)

// ObserveCalculation records one finished computation.
func ObserveCalculation(outcome string, days int, elapsed time.Duration) {
	CalculationsTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		CalculationDays.Observe(float64(days))
		CalculationDuration.Observe(elapsed.Seconds())
	}
}
