// Package metrics exposes Prometheus instrumentation for the trading
// server.
package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the server's Prometheus registry and instruments.
type Collector struct {
	registry         *prometheus.Registry
	tradesExecuted   *prometheus.CounterVec
	tradesRejected   *prometheus.CounterVec
	quoteLookups     prometheus.Counter
	quoteFailures    prometheus.Counter
	requestDuration  *prometheus.HistogramVec
	balanceSnapshots *prometheus.GaugeVec
}

// NewCollector builds a collector on a private registry so tests can
// run multiple instances.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		tradesExecuted: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "vtrade_trades_executed_total",
			Help: "Total number of executed trades",
		}, []string{"deed"}),
		tradesRejected: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "vtrade_trades_rejected_total",
			Help: "Total number of rejected trades",
		}, []string{"deed", "reason"}),
		quoteLookups: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "vtrade_quote_lookups_total",
			Help: "Total number of quote resolutions",
		}),
		quoteFailures: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "vtrade_quote_failures_total",
			Help: "Total number of failed quote resolutions",
		}),
		requestDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vtrade_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		balanceSnapshots: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "vtrade_account_balance",
			Help: "Last observed balance level by currency and sub-account",
		}, []string{"currency", "sub_account"}),
	}
}

// RecordTrade counts an executed trade.
func (c *Collector) RecordTrade(deed string) {
	c.tradesExecuted.WithLabelValues(strings.ToLower(deed)).Inc()
}

// RecordTradeRejection counts a trade that failed validation or
// settlement.
func (c *Collector) RecordTradeRejection(deed, reason string) {
	c.tradesRejected.WithLabelValues(strings.ToLower(deed), reason).Inc()
}

// RecordQuoteLookup counts a quote resolution attempt.
func (c *Collector) RecordQuoteLookup(failed bool) {
	c.quoteLookups.Inc()
	if failed {
		c.quoteFailures.Inc()
	}
}

// RecordRequest observes one HTTP request.
func (c *Collector) RecordRequest(route, status string, seconds float64) {
	c.requestDuration.WithLabelValues(route, status).Observe(seconds)
}

// SetBalance records the latest balance level for a currency.
func (c *Collector) SetBalance(currency, subAccount string, amount float64) {
	c.balanceSnapshots.WithLabelValues(currency, subAccount).Set(amount)
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
