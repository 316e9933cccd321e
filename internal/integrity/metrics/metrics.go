package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RecordsProcessed *prometheus.CounterVec
	Diagnoses        *prometheus.CounterVec
	ProcessDuration  prometheus.Histogram
}

// New registers the corrector metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		RecordsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "triad_integrity_records_processed_total",
			Help: "Total number of records run through the integrity pipeline, by outcome",
		}, []string{"outcome"}),
		Diagnoses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "triad_integrity_diagnoses_total",
			Help: "Total number of diagnoses performed, by severity",
		}, []string{"severity"}),
		ProcessDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "triad_integrity_process_duration_seconds",
			Help:    "Time spent processing one record",
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
		}),
	}
}

func (m *Metrics) IncrementProcessed(outcome string) {
	if m == nil {
		return
	}
	m.RecordsProcessed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementDiagnoses(severity string) {
	if m == nil {
		return
	}
	m.Diagnoses.WithLabelValues(severity).Inc()
}

func (m *Metrics) ObserveProcessDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.ProcessDuration.Observe(d.Seconds())
}
