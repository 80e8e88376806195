// backend/src/services/metrics.go
package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the analysis pipeline.
type Metrics struct {
	RunsTotal       *prometheus.CounterVec
	RecordsTotal    *prometheus.CounterVec
	RunDuration     *prometheus.HistogramVec
	RecordWarnings  *prometheus.CounterVec
	RunsPurgedTotal prometheus.Counter
}

// NewMetrics registers the pipeline metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pricedash",
			Name:      "analysis_runs_total",
			Help:      "Analysis runs by data type and outcome.",
		}, []string{"data_type", "outcome"}),
		RecordsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pricedash",
			Name:      "analysis_records_total",
			Help:      "Parsed input records by data type.",
		}, []string{"data_type"}),
		RunDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pricedash",
			Name:      "analysis_duration_seconds",
			Help:      "Time spent parsing and calculating one upload.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"data_type"}),
		RecordWarnings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pricedash",
			Name:      "record_warnings_total",
			Help:      "Derived records flagged with a calculation warning.",
		}, []string{"data_type"}),
		RunsPurgedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: "pricedash",
			Name:      "analysis_runs_purged_total",
			Help:      "Runs deleted by the retention job.",
		}),
	}
}
