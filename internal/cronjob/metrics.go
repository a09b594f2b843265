package cronjob

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Runs         *prometheus.CounterVec
	ItemsUpdated *prometheus.CounterVec
	ItemsFailed  *prometheus.CounterVec
	RunDuration  *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "isdialogmote_cronjob_runs_total",
			Help: "Cronjob ticks by job and outcome (ok, error, panic, skipped)",
		}, []string{"job", "outcome"}),
		ItemsUpdated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "isdialogmote_cronjob_items_updated_total",
			Help: "Outbox items a job brought forward",
		}, []string{"job"}),
		ItemsFailed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "isdialogmote_cronjob_items_failed_total",
			Help: "Outbox items a job failed to bring forward",
		}, []string{"job"}),
		RunDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "isdialogmote_cronjob_run_duration_seconds",
			Help:    "Duration of leader job runs",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"job"}),
	}
}

func (m *Metrics) observeRun(job, outcome string, res Result, d time.Duration) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(job, outcome).Inc()
	if outcome == outcomeSkipped {
		return
	}
	m.ItemsUpdated.WithLabelValues(job).Add(float64(res.Updated))
	m.ItemsFailed.WithLabelValues(job).Add(float64(res.Failed))
	m.RunDuration.WithLabelValues(job).Observe(d.Seconds())
}
