package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Trial metrics
	trialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lvn_sweep_trials_total",
			Help: "Total number of evaluator trials by outcome",
		},
		[]string{"status"},
	)

	trialDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lvn_sweep_trial_duration_seconds",
			Help:    "Wall-clock duration of evaluator trials",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
	)

	rowsWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lvn_sweep_rows_written_total",
			Help: "Total number of result rows appended to the store",
		},
	)

	// Progress metrics
	sweepProgress = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lvn_sweep_progress",
			Help: "Sweep position: next trial index and grid size",
		},
		[]string{"kind"},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lvn_sweep_errors_total",
			Help: "Total number of errors by category",
		},
		[]string{"category"},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(trialsTotal)
	prometheus.MustRegister(trialDuration)
	prometheus.MustRegister(rowsWritten)
	prometheus.MustRegister(sweepProgress)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordTrial records the outcome and duration of one trial
func RecordTrial(status string, d time.Duration) {
	trialsTotal.WithLabelValues(status).Inc()
	trialDuration.Observe(d.Seconds())
}

// RecordRow records one appended result row
func RecordRow() {
	rowsWritten.Inc()
}

// UpdateProgress updates the sweep position gauges
func UpdateProgress(next, total int) {
	sweepProgress.WithLabelValues("next_index").Set(float64(next))
	sweepProgress.WithLabelValues("total").Set(float64(total))
}

// RecordError records an error metric
func RecordError(category string) {
	errorsTotal.WithLabelValues(category).Inc()
}
