package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the Prometheus collectors of the API.
type Registry struct {
	reg *prometheus.Registry

	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Notifications
	NotificationsTotal *prometheus.CounterVec

	// Template cache
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	// Business
	CampaignsCreatedTotal        prometheus.Counter
	CampaignApplicationsTotal    *prometheus.CounterVec
	ApplicationsProvisionedTotal prometheus.Counter
}

// New builds a registry with Go and process collectors attached.
func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Registry{
		reg: reg,

		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ugc_http_requests_total",
				Help: "Total HTTP requests processed by route, method, and status code",
			},
			[]string{"route", "method", "status_code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ugc_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"route", "method"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "ugc_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		NotificationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ugc_notifications_total",
				Help: "Notifications dispatched by kind and result",
			},
			[]string{"kind", "result"},
		),

		CacheHitsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "ugc_template_cache_hits_total",
			Help: "Template catalog cache hits",
		}),
		CacheMissesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "ugc_template_cache_misses_total",
			Help: "Template catalog cache misses",
		}),

		CampaignsCreatedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "ugc_campaigns_created_total",
			Help: "Campaigns created by brands",
		}),
		CampaignApplicationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ugc_campaign_applications_total",
				Help: "Campaign application events by status",
			},
			[]string{"status"},
		),
		ApplicationsProvisionedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "ugc_applications_provisioned_total",
			Help: "Creator applications provisioned",
		}),
	}
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}))
}

// Middleware records count and latency per matched route.
func (r *Registry) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		r.HTTPRequestsInFlight.Inc()
		defer r.HTTPRequestsInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		r.HTTPRequestsTotal.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		r.HTTPRequestDuration.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}
