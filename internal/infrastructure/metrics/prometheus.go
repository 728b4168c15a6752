package metrics

import (
	"net/http"
	"strconv"
	"time"

	"bundle-discount-layer/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bundle_discount"

// Prometheus implements ports.Metrics with Prometheus collectors registered
// on a private registry.
type Prometheus struct {
	registry *prometheus.Registry

	widgetEvents     *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	webhooks         *prometheus.CounterVec
	metafieldSyncs   *prometheus.CounterVec
	discountPreviews *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// NewPrometheus creates and registers the application collectors
func NewPrometheus() *Prometheus {
	m := &Prometheus{
		registry: prometheus.NewRegistry(),
		widgetEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "widget_events_total",
			Help:      "Storefront widget beacons by type.",
		}, []string{"type"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_cache_lookups_total",
			Help:      "Product cache lookups by result.",
		}, []string{"result"}),
		webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_total",
			Help:      "Webhook events dispatched by topic and whether a handler accepted them.",
		}, []string{"topic", "handled"}),
		metafieldSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metafield_syncs_total",
			Help:      "Bundle metafield syncs by outcome.",
		}, []string{"outcome"}),
		discountPreviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_previews_total",
			Help:      "Checkout function dry runs by whether a discount applied.",
		}, []string{"applied"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.widgetEvents,
		m.cacheLookups,
		m.webhooks,
		m.metafieldSyncs,
		m.discountPreviews,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

var _ ports.Metrics = (*Prometheus)(nil)

// Registry exposes the registry for scraping and tests
func (m *Prometheus) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Prometheus) WidgetEvent(eventType string) {
	m.widgetEvents.WithLabelValues(eventType).Inc()
}

func (m *Prometheus) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Prometheus) WebhookReceived(topic string, handled bool) {
	m.webhooks.WithLabelValues(topic, strconv.FormatBool(handled)).Inc()
}

func (m *Prometheus) MetafieldSync(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.metafieldSyncs.WithLabelValues(outcome).Inc()
}

func (m *Prometheus) DiscountPreview(applied bool) {
	m.discountPreviews.WithLabelValues(strconv.FormatBool(applied)).Inc()
}

// Middleware records request counts and latency labelled by the chi route
// pattern, keeping label cardinality independent of ids in the path.
func (m *Prometheus) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
