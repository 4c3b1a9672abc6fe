// Package metrics exposes Prometheus collectors for the HTTP surface and the
// marketplace's business events.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"marketplace/config"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/service"
	"marketplace/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics owns a private registry so that several instances (tests, multiple
// servers) never collide on the global default registerer.
type Metrics struct {
	registry *prometheus.Registry
	enabled  bool

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	statusCategory  *prometheus.CounterVec
	signupsTotal    *prometheus.CounterVec
	purchasesTotal  *prometheus.CounterVec
	unitsSold       prometheus.Counter
	uploadsTotal    *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
}

// New builds the collectors using the configured metric name prefix.
func New(cfg *config.Config) *Metrics {
	prefix := config.DefaultMetricsPrefix
	enabled := false
	if cfg != nil && cfg.Metrics != nil {
		enabled = cfg.Metrics.Enabled
		if cfg.Metrics.Prefix != "" {
			prefix = cfg.Metrics.Prefix
		}
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		enabled:  enabled,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		statusCategory: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"category"},
		),
		signupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_signups_total",
				Help: "Total number of signup attempts by result code",
			},
			[]string{"result"},
		),
		purchasesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_purchases_total",
				Help: "Total number of purchase attempts by result code",
			},
			[]string{"result"},
		),
		unitsSold: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_units_sold_total",
				Help: "Total number of product units sold",
			},
		),
		uploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_object_uploads_total",
				Help: "Total number of product image uploads by result code",
			},
			[]string{"result"},
		),
		eventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_events_published_total",
				Help: "Total number of published marketplace events",
			},
			[]string{"type", "result"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.statusCategory,
		m.signupsTotal,
		m.purchasesTotal,
		m.unitsSold,
		m.uploadsTotal,
		m.eventsPublished,
	)

	return m
}

// Enabled reports whether the /metrics endpoint and HTTP middleware should be mounted.
func (m *Metrics) Enabled() bool {
	return m.enabled
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware creates an Echo middleware that records HTTP request metrics.
// The route template (c.Path) is used as the path label to keep cardinality bounded.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = statusFromError(err)
			}
			method := c.Request().Method
			path := c.Path()
			statusStr := strconv.Itoa(status)

			m.requestsTotal.WithLabelValues(method, path, statusStr).Inc()
			m.requestDuration.WithLabelValues(method, path, statusStr).Observe(time.Since(start).Seconds())
			if category := statusCategory(status); category != "" {
				m.statusCategory.WithLabelValues(category).Inc()
			}

			return err
		}
	}
}

// ObserveSignup records the outcome of a signup attempt.
func (m *Metrics) ObserveSignup(err error) {
	m.signupsTotal.WithLabelValues(resultLabel(err)).Inc()
}

// ObservePurchase records the outcome of a purchase and, on success, the units sold.
func (m *Metrics) ObservePurchase(quantity int, err error) {
	m.purchasesTotal.WithLabelValues(resultLabel(err)).Inc()
	if err == nil && quantity > 0 {
		m.unitsSold.Add(float64(quantity))
	}
}

// ObserveUpload records the outcome of a product image upload.
func (m *Metrics) ObserveUpload(err error) {
	m.uploadsTotal.WithLabelValues(resultLabel(err)).Inc()
}

// InstrumentPublisher wraps an EventPublisher so every publish is counted.
func (m *Metrics) InstrumentPublisher(next service.EventPublisher) service.EventPublisher {
	return &instrumentedPublisher{next: next, counter: m.eventsPublished}
}

type instrumentedPublisher struct {
	next    service.EventPublisher
	counter *prometheus.CounterVec
}

func (p *instrumentedPublisher) Publish(ctx context.Context, event *service.MarketplaceEvent) error {
	err := p.next.Publish(ctx, event)
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	p.counter.WithLabelValues(event.Type, result).Inc()

	return err
}

func (p *instrumentedPublisher) Close() error {
	return p.next.Close()
}

// resultLabel maps an error to a low-cardinality label: "success", the
// AppError code, or "error".
func resultLabel(err error) string {
	if err == nil {
		return ResultSuccess
	}
	if appErr, ok := errors.AsType[domainerrors.AppError](err); ok {
		return appErr.ErrorCode()
	}

	return ResultError
}

func statusFromError(err error) int {
	if appErr, ok := errors.AsType[domainerrors.AppError](err); ok {
		return appErr.HTTPCode()
	}
	if httpErr, ok := errors.AsType[*echo.HTTPError](err); ok {
		return httpErr.Code
	}

	return http.StatusInternalServerError
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	default:
		return ""
	}
}
