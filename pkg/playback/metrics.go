package playback

import (
	"time"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "storymap"

// Metrics collects playback counters. A nil *Metrics records nothing.
type Metrics struct {
	components        *prometheus.CounterVec
	componentDuration *prometheus.HistogramVec
	segments          *prometheus.CounterVec
	segmentsInFlight  prometheus.Gauge
	controlActions    *prometheus.CounterVec
}

// NewMetrics registers the playback metrics with registry, or with the default
// registerer when registry is nil.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		components: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "playback",
			Name:      "components_total",
			Help:      "Components attempted, by type and outcome.",
		}, []string{"type", "outcome"}),
		componentDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "playback",
			Name:      "component_duration_seconds",
			Help:      "Wall time spent presenting a component, pauses included.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"type"}),
		segments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "playback",
			Name:      "segments_total",
			Help:      "Segments played, by final status.",
		}, []string{"outcome"}),
		segmentsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "playback",
			Name:      "segments_in_flight",
			Help:      "Segments currently being played.",
		}),
		controlActions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "playback",
			Name:      "control_actions_total",
			Help:      "Pause, resume and stop requests.",
		}, []string{"action"}),
	}
}

func (m *Metrics) observeComponent(typ models.ComponentType, duration time.Duration, success bool) {
	if m == nil {
		return
	}

	m.components.WithLabelValues(typ.String(), outcome(success)).Inc()
	m.componentDuration.WithLabelValues(typ.String()).Observe(duration.Seconds())
}

func (m *Metrics) segmentStarted() {
	if m == nil {
		return
	}

	m.segmentsInFlight.Inc()
}

func (m *Metrics) segmentFinished(status models.ExecutionStatus, success bool) {
	if m == nil {
		return
	}

	m.segmentsInFlight.Dec()

	label := string(status)
	if status == models.ExecutionStatusIdle {
		label = outcome(success)
	}

	m.segments.WithLabelValues(label).Inc()
}

func (m *Metrics) controlAction(action string) {
	if m == nil {
		return
	}

	m.controlActions.WithLabelValues(action).Inc()
}

func outcome(success bool) string {
	if success {
		return "success"
	}

	return "failure"
}
