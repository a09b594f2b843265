package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the dialogmøte lifecycle.
type Metrics struct {
	// Completed transitions by target status
	Transitions *prometheus.CounterVec

	// Notices written to the outbox by type and participant
	VarslerCreated *prometheus.CounterVec

	// Best-effort in-app notifications that failed
	InAppFailures prometheus.Counter

	// Duration of a transition including rendering
	TransitionLatency *prometheus.HistogramVec
}

// New registers the lifecycle metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "isdialogmote_dialogmote_transitions_total",
			Help: "Completed dialogmote status transitions by target status",
		}, []string{"status"}),

		VarslerCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "isdialogmote_varsel_created_total",
			Help: "Notices created by type and participant",
		}, []string{"type", "participant"}),

		InAppFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "isdialogmote_inapp_notification_failed_total",
			Help: "In-app notifications that could not be sent",
		}),

		TransitionLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "isdialogmote_dialogmote_transition_duration_seconds",
			Help:    "Duration of a status transition including document rendering",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"status"}),
	}
}

func (m *Metrics) IncrementTransition(status string) {
	if m != nil {
		m.Transitions.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) IncrementVarselCreated(varselType, participant string) {
	if m != nil {
		m.VarslerCreated.WithLabelValues(varselType, participant).Inc()
	}
}

func (m *Metrics) IncrementInAppFailure() {
	if m != nil {
		m.InAppFailures.Inc()
	}
}

func (m *Metrics) ObserveTransition(status string, d time.Duration) {
	if m != nil {
		m.TransitionLatency.WithLabelValues(status).Observe(d.Seconds())
	}
}
