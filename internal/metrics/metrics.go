package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "surplus_"

	ResultSuccess = "success"
	ResultError   = "error"
	ResultEmpty   = "empty"
)

// Metrics bundles the service's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	FetchTotal     *prometheus.CounterVec
	FetchLatency   *prometheus.HistogramVec
	FetchPoints    *prometheus.HistogramVec
	QueryTotal     *prometheus.CounterVec
	QueryLatency   *prometheus.HistogramVec
	LastMaxSurplus *prometheus.GaugeVec
}

// New constructs the collectors and registers them on reg. When reg is nil
// the default registerer is used.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		FetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "entsoe_fetch_total",
				Help: "Total ENTSO-E document fetches by document type and result",
			},
			[]string{"document_type", "result"},
		),
		FetchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "entsoe_fetch_latency_seconds",
				Help:    "ENTSO-E fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"document_type"},
		),
		FetchPoints: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "entsoe_document_points",
				Help:    "Raw points per fetched document",
				Buckets: prometheus.ExponentialBuckets(12, 2, 8),
			},
			[]string{"document_type"},
		),
		QueryTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "query_total",
				Help: "Total surplus queries by endpoint and result",
			},
			[]string{"endpoint", "result"},
		),
		QueryLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "query_latency_seconds",
				Help:    "Surplus query latency in seconds, fetch included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		LastMaxSurplus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "last_max_mw",
				Help: "Most recent maximum surplus reported per country",
			},
			[]string{"country"},
		),
	}
	reg.MustRegister(
		m.FetchTotal,
		m.FetchLatency,
		m.FetchPoints,
		m.QueryTotal,
		m.QueryLatency,
		m.LastMaxSurplus,
	)
	return m
}

func (m *Metrics) ObserveFetch(documentType, result string, d time.Duration, points int) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(documentType, result).Inc()
	m.FetchLatency.WithLabelValues(documentType).Observe(d.Seconds())
	if result == ResultSuccess {
		m.FetchPoints.WithLabelValues(documentType).Observe(float64(points))
	}
}

func (m *Metrics) ObserveQuery(endpoint, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.QueryTotal.WithLabelValues(endpoint, result).Inc()
	m.QueryLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metrics) SetMaxSurplus(country string, mw float64) {
	if m == nil {
		return
	}
	m.LastMaxSurplus.WithLabelValues(country).Set(mw)
}
