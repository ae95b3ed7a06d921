// Package metrics exposes Prometheus collectors for the HTTP layer and the
// order workflow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "backoffice"

// Metrics groups every collector the service records.
type Metrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec

	IdentifiersMinted *prometheus.CounterVec
	Transitions       *prometheus.CounterVec
	RateResolutions   *prometheus.CounterVec
	StockAdjustments  *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. Passing nil uses a
// fresh private registry, which keeps tests independent of each other.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"route"}),
		IdentifiersMinted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identifiers_minted_total",
			Help:      "Order numbers and SKUs generated.",
		}, []string{"kind"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "transitions_total",
			Help:      "Order lifecycle transitions by action and outcome.",
		}, []string{"action", "result"}),
		RateResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fx",
			Name:      "rate_resolutions_total",
			Help:      "Exchange rate resolutions by source (cache, history, default, manual).",
		}, []string{"source"}),
		StockAdjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "stock_adjustments_total",
			Help:      "Stock adjustments by outcome.",
		}, []string{"result"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.Requests,
		m.LatencyMS,
		m.IdentifiersMinted,
		m.Transitions,
		m.RateResolutions,
		m.StockAdjustments,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRateSource counts one exchange-rate resolution.
func (m *Metrics) ObserveRateSource(source string) {
	m.RateResolutions.WithLabelValues(source).Inc()
}

// ObserveTransition counts one lifecycle call; err decides the result label.
func (m *Metrics) ObserveTransition(action string, err error) {
	m.Transitions.WithLabelValues(action, result(err)).Inc()
}

// ObserveStockAdjustment counts one stock adjustment.
func (m *Metrics) ObserveStockAdjustment(err error) {
	m.StockAdjustments.WithLabelValues(result(err)).Inc()
}

// Minted counts a generated identifier of the given kind ("order_number", "sku").
func (m *Metrics) Minted(kind string) {
	m.IdentifiersMinted.WithLabelValues(kind).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
