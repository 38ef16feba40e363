package stream

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the prometheus series a pump updates. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Captures prometheus.Counter
	Timeouts *prometheus.CounterVec
	Failures *prometheus.CounterVec
	Drops    prometheus.Counter
	Frames   prometheus.Counter
	Bodies   prometheus.Gauge
}

// NewMetrics creates the pump series and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Captures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "k4a",
			Name:      "captures_total",
			Help:      "Captures read from the device or playback.",
		}),
		Timeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "k4a",
			Name:      "timeouts_total",
			Help:      "Blocking calls that returned without a result.",
		}, []string{"op"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "k4a",
			Name:      "failures_total",
			Help:      "Native calls that reported failure.",
		}, []string{"op"}),
		Drops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "k4a",
			Name:      "dropped_captures_total",
			Help:      "Captures released because no consumer was ready.",
		}),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "k4abt",
			Name:      "frames_total",
			Help:      "Body tracking results popped from the tracker.",
		}),
		Bodies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "k4abt",
			Name:      "bodies",
			Help:      "Bodies in the most recent body tracking result.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Captures, m.Timeouts, m.Failures, m.Drops, m.Frames, m.Bodies)
	}
	return m
}

func (m *Metrics) capture() {
	if m != nil {
		m.Captures.Inc()
	}
}

func (m *Metrics) timeout(op string) {
	if m != nil {
		m.Timeouts.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) failure(op string) {
	if m != nil {
		m.Failures.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) drop() {
	if m != nil {
		m.Drops.Inc()
	}
}

func (m *Metrics) frame(bodies int) {
	if m != nil {
		m.Frames.Inc()
		m.Bodies.Set(float64(bodies))
	}
}
