// Package metrics содержит Prometheus-коллекторы сервиса: HTTP, пул соединений БД и бизнес-события.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор коллекторов сервиса. Все методы безопасны для nil-получателя,
// поэтому при выключенных метриках можно передавать nil.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbOpenConnections *prometheus.GaugeVec
	dbInUse           *prometheus.GaugeVec
	dbIdle            *prometheus.GaugeVec
	dbWaitCount       *prometheus.GaugeVec
	dbQueryDuration   *prometheus.HistogramVec
	dbQueryErrors     *prometheus.CounterVec

	bookingsCreated *prometheus.CounterVec
	slotConflicts   *prometheus.CounterVec
	statusChanges   *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	rateLimited     *prometheus.CounterVec
}

// New создает коллекторы и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer создает коллекторы и регистрирует их в reg
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		dbOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		bookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Bookings created, by number of services",
			ConstLabels: constLabels,
		}, []string{"services"}),
		slotConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_slot_conflicts_total",
			Help:        "Booking attempts rejected because the slot was taken",
			ConstLabels: constLabels,
		}, []string{"source"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_status_changes_total",
			Help:        "Booking status transitions",
			ConstLabels: constLabels,
		}, []string{"status"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_notifications_total",
			Help:        "Booking lifecycle notifications by sink and outcome",
			ConstLabels: constLabels,
		}, []string{"sink", "outcome"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_rate_limited_total",
			Help:        "Requests rejected by the rate limiter",
			ConstLabels: constLabels,
		}, []string{"path"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbOpenConnections,
		m.dbInUse,
		m.dbIdle,
		m.dbWaitCount,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.bookingsCreated,
		m.slotConflicts,
		m.statusChanges,
		m.notifications,
		m.rateLimited,
	)

	return m
}

func (m *Metrics) ObserveHTTPRequest(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// SetPoolStats выставляет значения из sql.DBStats
func (m *Metrics) SetPoolStats(db string, open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.dbOpenConnections.WithLabelValues(db).Set(float64(open))
	m.dbInUse.WithLabelValues(db).Set(float64(inUse))
	m.dbIdle.WithLabelValues(db).Set(float64(idle))
	m.dbWaitCount.WithLabelValues(db).Set(float64(waitCount))
}

func (m *Metrics) ObserveQuery(operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(seconds)
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) IncBookingsCreated(services string) {
	if m == nil {
		return
	}
	m.bookingsCreated.WithLabelValues(services).Inc()
}

// IncSlotConflict source: "check" (генератор слотов) или "constraint" (ограничение БД)
func (m *Metrics) IncSlotConflict(source string) {
	if m == nil {
		return
	}
	m.slotConflicts.WithLabelValues(source).Inc()
}

func (m *Metrics) IncStatusChange(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}

// IncNotification outcome: "delivered", "failed", "skipped", "dropped"
func (m *Metrics) IncNotification(sink, outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(sink, outcome).Inc()
}

func (m *Metrics) IncRateLimited(path string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(path).Inc()
}
