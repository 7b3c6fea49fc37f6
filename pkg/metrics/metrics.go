package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса
type Metrics struct {
	serviceName string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbOpenConns     prometheus.Gauge
	dbInUseConns    prometheus.Gauge
	dbIdleConns     prometheus.Gauge
	dbWaitCount     prometheus.Gauge

	availabilityVerdicts *prometheus.CounterVec

	schedulerTransitions   *prometheus.CounterVec
	schedulerFailures      *prometheus.CounterVec
	schedulerSweepDuration *prometheus.HistogramVec
}

// New регистрирует метрики в глобальном registry
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в переданном registry
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		serviceName: serviceName,

		httpRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		httpRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),

		dbQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			ConstLabels: constLabels,
		}, []string{"operation"}),

		dbQueryErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		dbOpenConns: f.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Open connections in the pool",
			ConstLabels: constLabels,
		}),
		dbInUseConns: f.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Connections currently in use",
			ConstLabels: constLabels,
		}),
		dbIdleConns: f.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Idle connections in the pool",
			ConstLabels: constLabels,
		}),
		dbWaitCount: f.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}),

		availabilityVerdicts: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_verdicts_total",
			Help:        "Availability checks by verdict",
			ConstLabels: constLabels,
		}, []string{"verdict"}),

		schedulerTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "scheduler_transitions_total",
			Help:        "Booking state transitions applied by background workers",
			ConstLabels: constLabels,
		}, []string{"worker", "event"}),

		schedulerFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "scheduler_failures_total",
			Help:        "Per-booking failures in background workers",
			ConstLabels: constLabels,
		}, []string{"worker"}),

		schedulerSweepDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "scheduler_sweep_duration_seconds",
			Help:        "Duration of one background worker pass",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"worker"}),
	}
}

// ObserveHTTPRequest фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil && err != sql.ErrNoRows {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBPoolStats обновляет метрики connection pool
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	m.dbOpenConns.Set(float64(stats.OpenConnections))
	m.dbInUseConns.Set(float64(stats.InUse))
	m.dbIdleConns.Set(float64(stats.Idle))
	m.dbWaitCount.Set(float64(stats.WaitCount))
}

// IncAvailabilityVerdict считает вердикт проверки доступности
func (m *Metrics) IncAvailabilityVerdict(verdict string) {
	m.availabilityVerdicts.WithLabelValues(verdict).Inc()
}

// IncSchedulerTransition считает переход, выполненный фоновым воркером
func (m *Metrics) IncSchedulerTransition(worker, event string) {
	m.schedulerTransitions.WithLabelValues(worker, event).Inc()
}

// IncSchedulerFailure считает ошибку обработки одного бронирования
func (m *Metrics) IncSchedulerFailure(worker string) {
	m.schedulerFailures.WithLabelValues(worker).Inc()
}

// ObserveSchedulerSweep фиксирует длительность прохода воркера
func (m *Metrics) ObserveSchedulerSweep(worker string, duration time.Duration) {
	m.schedulerSweepDuration.WithLabelValues(worker).Observe(duration.Seconds())
}
