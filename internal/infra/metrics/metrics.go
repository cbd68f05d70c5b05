package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FeedMessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "feed_messages_total", Help: "Inbound websocket messages"})
	FeedEventsTotal   = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "feed_events_total", Help: "Classified stream events by kind"}, []string{"kind"})

	UnrecognizedEventsTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "feed_unrecognized_events_total", Help: "Events dropped by the classifier"})
	OrphanDropsTotal        = prometheus.NewCounter(prometheus.CounterOpts{Name: "feed_orphan_drops_total", Help: "Incremental batches dropped for lack of a snapshot"})

	BooksTracked     = prometheus.NewGauge(prometheus.GaugeOpts{Name: "books_tracked", Help: "Instruments with an established book"})
	LastEventUnixMs  = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "book_last_event_unix_ms", Help: "Timestamp of the last applied event by asset"}, []string{"asset_id"})
	WSReconnectsTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "ws_reconnects_total", Help: "Websocket reconnect attempts"})

	RESTRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "rest_requests_total", Help: "Upstream REST requests by endpoint"}, []string{"endpoint"})
	RESTErrorsTotal   = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "rest_errors_total", Help: "Upstream REST failures by endpoint"}, []string{"endpoint"})
	CacheHitsTotal    = prometheus.NewCounter(prometheus.CounterOpts{Name: "metadata_cache_hits_total", Help: "Metadata cache hits"})
	CacheMissesTotal  = prometheus.NewCounter(prometheus.CounterOpts{Name: "metadata_cache_misses_total", Help: "Metadata cache misses"})
)

// Init registers all collectors on a fresh registry.
func Init() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	toRegister := []prometheus.Collector{
		FeedMessagesTotal, FeedEventsTotal,
		UnrecognizedEventsTotal, OrphanDropsTotal,
		BooksTracked, LastEventUnixMs, WSReconnectsTotal,
		RESTRequestsTotal, RESTErrorsTotal, CacheHitsTotal, CacheMissesTotal,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range toRegister {
		_ = reg.Register(c)
	}
	slog.Info("Prometheus metrics initialized")
	return reg
}

// Handler serves the registry over HTTP.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
