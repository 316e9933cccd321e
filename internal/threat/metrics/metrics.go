package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Scans        prometheus.Counter
	Signals      *prometheus.CounterVec
	AlertLevel   prometheus.Gauge
	AlertScore   prometheus.Gauge
	Lockdowns    prometheus.Counter
	ScanDuration prometheus.Histogram
}

// New registers the sentinel metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Scans: factory.NewCounter(prometheus.CounterOpts{
			Name: "triad_sentinel_scans_total",
			Help: "Total number of sentinel scans",
		}),
		Signals: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "triad_sentinel_signals_total",
			Help: "Total number of threat signals raised, by type and pathway",
		}, []string{"type", "pathway"}),
		AlertLevel: factory.NewGauge(prometheus.GaugeOpts{
			Name: "triad_sentinel_alert_level",
			Help: "Current alert level: 0 calm, 1 vigilant, 2 alert, 3 lockdown",
		}),
		AlertScore: factory.NewGauge(prometheus.GaugeOpts{
			Name: "triad_sentinel_alert_score",
			Help: "Current alert score in [0,100]",
		}),
		Lockdowns: factory.NewCounter(prometheus.CounterOpts{
			Name: "triad_sentinel_lockdowns_total",
			Help: "Total number of lockdowns engaged",
		}),
		ScanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "triad_sentinel_scan_duration_seconds",
			Help:    "Time spent in one scan",
			Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01},
		}),
	}
}

func (m *Metrics) IncrementScans() {
	if m == nil {
		return
	}
	m.Scans.Inc()
}

func (m *Metrics) IncrementSignals(threatType, pathway string) {
	if m == nil {
		return
	}
	m.Signals.WithLabelValues(threatType, pathway).Inc()
}

// SetAlert publishes the level rank and score.
func (m *Metrics) SetAlert(rank int, score float64) {
	if m == nil {
		return
	}
	m.AlertLevel.Set(float64(rank))
	m.AlertScore.Set(score)
}

func (m *Metrics) IncrementLockdowns() {
	if m == nil {
		return
	}
	m.Lockdowns.Inc()
}

func (m *Metrics) ObserveScanDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.ScanDuration.Observe(d.Seconds())
}
