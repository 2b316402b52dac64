// Package metrics exposes Prometheus instrumentation for the SOS pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// AlertMetrics exposes counters and histograms for SOS alert cycles. All
// observer methods are nil-safe so callers never need to guard.
type AlertMetrics struct {
	triggersTotal   *prometheus.CounterVec
	cyclesTotal     *prometheus.CounterVec
	geocodeFailures *prometheus.CounterVec
	cycleDuration   prometheus.Histogram
}

// NewAlertMetrics registers the collectors on reg, falling back to the
// default registerer when reg is nil.
func NewAlertMetrics(reg prometheus.Registerer) *AlertMetrics {
	m := &AlertMetrics{
		triggersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sos",
			Subsystem: "alerts",
			Name:      "triggers_total",
			Help:      "Total SOS trigger attempts by source and acceptance",
		}, []string{"source", "accepted"}),
		cyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sos",
			Subsystem: "alerts",
			Name:      "cycles_total",
			Help:      "Total completed alert cycles by terminal status",
		}, []string{"status"}),
		geocodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sos",
			Subsystem: "alerts",
			Name:      "geocode_failures_total",
			Help:      "Total reverse geocoding failures by kind",
		}, []string{"kind"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sos",
			Subsystem: "alerts",
			Name:      "cycle_duration_seconds",
			Help:      "Duration from trigger to terminal status",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	reg.MustRegister(m.triggersTotal, m.cyclesTotal, m.geocodeFailures, m.cycleDuration)

	return m
}

// ObserveTrigger counts a trigger attempt; accepted is false when the cycle
// was rejected because another one was already running.
func (m *AlertMetrics) ObserveTrigger(source string, accepted bool) {
	if m == nil {
		return
	}

	label := "false"
	if accepted {
		label = "true"
	}

	m.triggersTotal.WithLabelValues(source, label).Inc()
}

// ObserveCycle counts one cycle reaching the given terminal status and
// records how long it took.
func (m *AlertMetrics) ObserveCycle(status string, seconds float64) {
	if m == nil {
		return
	}

	m.cyclesTotal.WithLabelValues(status).Inc()
	m.cycleDuration.Observe(seconds)
}

// ObserveGeocodeFailure counts a reverse geocoding failure by kind.
func (m *AlertMetrics) ObserveGeocodeFailure(kind string) {
	if m == nil {
		return
	}

	m.geocodeFailures.WithLabelValues(kind).Inc()
}
