// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Trading metrics
	TradesExecuted  *prometheus.CounterVec // by direction
	TradesRejected  *prometheus.CounterVec // by reason
	TradeLatency    prometheus.Histogram
	VolumeLamports  *prometheus.CounterVec // by direction
	FeesCollected   prometheus.Counter
	WhaleTaxCharged prometheus.Counter

	// Market metrics
	MarketsCreated    prometheus.Counter
	MarketsGraduated  prometheus.Counter
	RecorderFailures  *prometheus.CounterVec // by sink
	QuoteLatency      prometheus.Histogram
	ActiveMarketCount prometheus.Gauge

	// Feed metrics
	FeedClientsConnected prometheus.Gauge
	FeedMessagesDropped  prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "pump_launchpad"
	}

	return &Metrics{
		TradesExecuted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "trades_executed_total",
			Help:      "Total number of settled trades by direction",
		}, []string{"direction"}),
		TradesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "trades_rejected_total",
			Help:      "Total number of rejected trades by reason",
		}, []string{"reason"}),
		TradeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "trade_duration_seconds",
			Help:      "End-to-end trade execution latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		VolumeLamports: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "volume_lamports_total",
			Help:      "Total settled base-asset volume in lamports by direction",
		}, []string{"direction"}),
		FeesCollected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "fees_lamports_total",
			Help:      "Total platform fees charged in lamports",
		}),
		WhaleTaxCharged: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "whale_tax_lamports_total",
			Help:      "Total whale tax charged in lamports",
		}),

		MarketsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "markets",
			Name:      "created_total",
			Help:      "Total number of markets created",
		}),
		MarketsGraduated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "markets",
			Name:      "graduated_total",
			Help:      "Total number of markets that reached graduation",
		}),
		RecorderFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "markets",
			Name:      "recorder_failures_total",
			Help:      "Best-effort trade recorder failures by sink",
		}, []string{"sink"}),
		QuoteLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "markets",
			Name:      "quote_duration_seconds",
			Help:      "Read-only quote latency",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 12),
		}),
		ActiveMarketCount: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "markets",
			Name:      "active",
			Help:      "Number of markets still trading (not graduated)",
		}),

		FeedClientsConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "clients_connected",
			Help:      "Number of websocket feed clients currently connected",
		}),
		FeedMessagesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "messages_dropped_total",
			Help:      "Feed messages dropped due to slow clients",
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTradeExecuted records a settled trade with its volume and charges.
func RecordTradeExecuted(direction string, volumeLamports, feeLamports, taxLamports uint64, seconds float64) {
	DefaultMetrics.TradesExecuted.WithLabelValues(direction).Inc()
	DefaultMetrics.VolumeLamports.WithLabelValues(direction).Add(float64(volumeLamports))
	DefaultMetrics.FeesCollected.Add(float64(feeLamports))
	DefaultMetrics.WhaleTaxCharged.Add(float64(taxLamports))
	DefaultMetrics.TradeLatency.Observe(seconds)
}

// RecordQuote records a read-only quote's latency.
func RecordQuote(seconds float64) {
	DefaultMetrics.QuoteLatency.Observe(seconds)
}

// RecordTradeRejected records a rejected trade by reason.
func RecordTradeRejected(reason string) {
	DefaultMetrics.TradesRejected.WithLabelValues(reason).Inc()
}

// RecordMarketCreated increments the markets created counter.
func RecordMarketCreated() {
	DefaultMetrics.MarketsCreated.Inc()
	DefaultMetrics.ActiveMarketCount.Inc()
}

// RecordMarketGraduated increments the graduation counter.
func RecordMarketGraduated() {
	DefaultMetrics.MarketsGraduated.Inc()
	DefaultMetrics.ActiveMarketCount.Dec()
}

// RecordRecorderFailure records a best-effort sink failure.
func RecordRecorderFailure(sink string) {
	DefaultMetrics.RecorderFailures.WithLabelValues(sink).Inc()
}

// SetFeedClients sets the connected feed client gauge.
func SetFeedClients(count int) {
	DefaultMetrics.FeedClientsConnected.Set(float64(count))
}

// RecordFeedMessageDropped counts a message dropped for a slow client.
func RecordFeedMessageDropped() {
	DefaultMetrics.FeedMessagesDropped.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
