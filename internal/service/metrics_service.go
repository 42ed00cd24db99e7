package service

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus instruments of the API. A nil
// receiver is valid and drops every observation, so services can run
// without metrics in tests.
type MetricsService struct {
	registry      *prometheus.Registry
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	promotions    *prometheus.CounterVec
	feesGenerated *prometheus.CounterVec
	payrollRuns   *prometheus.CounterVec
	rollupRows    *prometheus.CounterVec
}

// NewMetricsService creates a private registry with the process and Go
// runtime collectors plus the API's own instruments.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)
	return &MetricsService{
		registry: registry,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_http_requests_total",
			Help: "HTTP requests handled, by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "backoffice_http_request_duration_seconds",
			Help:    "HTTP request latency, by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		promotions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_promotions_total",
			Help: "Student promotions applied, by outcome.",
		}, []string{"outcome"}),
		feesGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_promotion_fees_total",
			Help: "Promotion fee generation results.",
		}, []string{"result"}),
		payrollRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_payroll_runs_total",
			Help: "Payroll generation runs, by result.",
		}, []string{"result"}),
		rollupRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_attendance_rollup_rows_total",
			Help: "Attendance rows written by rollup runs, by subject kind.",
		}, []string{"kind"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (s *MetricsService) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one handled HTTP request.
func (s *MetricsService) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	if s == nil {
		return
	}
	s.httpRequests.WithLabelValues(method, route, status).Inc()
	s.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncPromotion counts one promotion outcome ("promoted" or "graduated").
func (s *MetricsService) IncPromotion(outcome string) {
	if s == nil {
		return
	}
	s.promotions.WithLabelValues(outcome).Inc()
}

// IncFeeGenerated counts one fee generation result ("created" or "existing").
func (s *MetricsService) IncFeeGenerated(result string) {
	if s == nil {
		return
	}
	s.feesGenerated.WithLabelValues(result).Inc()
}

// IncPayrollRun counts one payroll generation result.
func (s *MetricsService) IncPayrollRun(result string) {
	if s == nil {
		return
	}
	s.payrollRuns.WithLabelValues(result).Inc()
}

// AddRollupRows counts attendance rows written for one subject kind.
func (s *MetricsService) AddRollupRows(kind string, count int) {
	if s == nil {
		return
	}
	s.rollupRows.WithLabelValues(kind).Add(float64(count))
}
