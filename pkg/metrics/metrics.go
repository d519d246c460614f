package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/apigate/pkg/validator"
)

// Validation results recorded in apigate_validation_total.
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
	ResultFault   = "fault"
)

// Metrics holds the gateway's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	validations        *prometheus.CounterVec
	validationErrors   *prometheus.CounterVec
	validationDuration *prometheus.HistogramVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New registers every collector on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		validations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "apigate_validation_total",
			Help: "Total number of payload validations",
		}, []string{"schema", "result"}), // result: valid, invalid, fault
		validationErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "apigate_validation_errors_total",
			Help: "Total number of validation errors by failing rule",
		}, []string{"rule"}),
		validationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "apigate_validation_duration_seconds",
			Help:    "Duration of payload validations including async rules",
			Buckets: prometheus.DefBuckets,
		}, []string{"schema"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "apigate_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "apigate_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// RecordValidation records one validation of schema. A non-nil err counts
// as a fault and res is ignored.
func (m *Metrics) RecordValidation(schema string, res validator.Result, err error, d time.Duration) {
	m.validationDuration.WithLabelValues(schema).Observe(d.Seconds())

	switch {
	case err != nil:
		m.validations.WithLabelValues(schema, ResultFault).Inc()
	case res.Valid:
		m.validations.WithLabelValues(schema, ResultValid).Inc()
	default:
		m.validations.WithLabelValues(schema, ResultInvalid).Inc()
		for _, e := range res.Errors {
			m.validationErrors.WithLabelValues(e.Rule).Inc()
		}
	}
}

// RecordRequest records one served HTTP request. route should be the route
// pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) RecordRequest(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
