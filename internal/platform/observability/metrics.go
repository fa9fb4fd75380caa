package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records
// nothing, which keeps handler tests free of registry setup.
type Metrics struct {
	registry *prometheus.Registry

	ingested      *prometheus.CounterVec
	rejected      *prometheus.CounterVec
	reportQueries *prometheus.CounterVec
	batchDuration prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		ingested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stats",
			Name:      "ingested_records_total",
			Help:      "Records accepted by the write endpoints.",
		}, []string{"kind"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stats",
			Name:      "rejected_submissions_total",
			Help:      "Write submissions rejected before or during storage.",
		}, []string{"kind", "reason"}),
		reportQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stats",
			Name:      "report_queries_total",
			Help:      "Report requests by report name and outcome.",
		}, []string{"report", "outcome"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "stats",
			Name:      "store_batch_duration_seconds",
			Help:      "Duration of atomic write batches.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.ingested, m.rejected, m.reportQueries, m.batchDuration)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordIngested(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ingested.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) RecordRejected(kind, reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(kind, reason).Inc()
}

func (m *Metrics) RecordReportQuery(report, outcome string) {
	if m == nil {
		return
	}
	m.reportQueries.WithLabelValues(report, outcome).Inc()
}

func (m *Metrics) ObserveBatch(d time.Duration) {
	if m == nil {
		return
	}
	m.batchDuration.Observe(d.Seconds())
}
