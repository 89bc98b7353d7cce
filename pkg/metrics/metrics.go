package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrorsTotal *prometheus.CounterVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec

	SlotsGeneratedTotal       *prometheus.CounterVec
	CalendarBuildsTotal       *prometheus.CounterVec
	ReservationsTotal         *prometheus.CounterVec
	ReservationConflictsTotal *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в переданном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: labels,
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: labels,
		}, []string{"db"}),
		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: labels,
		}, []string{"db"}),
		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: labels,
		}, []string{"db"}),

		SlotsGeneratedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_slots_generated_total",
			Help:        "Total number of bookable slots returned to clients",
			ConstLabels: labels,
		}, []string{"source"}),
		CalendarBuildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_calendar_builds_total",
			Help:        "Total number of month calendars built",
			ConstLabels: labels,
		}, []string{"with_service"}),
		ReservationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_reservations_total",
			Help:        "Total number of reservation attempts by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
		ReservationConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_reservation_conflicts_total",
			Help:        "Reservations rejected because the slot was taken",
			ConstLabels: labels,
		}, []string{"stage"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrorsTotal,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.SlotsGeneratedTotal,
		m.CalendarBuildsTotal,
		m.ReservationsTotal,
		m.ReservationConflictsTotal,
	)

	return m
}

// ObserveSlots учитывает количество отданных слотов. Безопасен для nil
func (m *Metrics) ObserveSlots(source string, count int) {
	if m == nil {
		return
	}
	m.SlotsGeneratedTotal.WithLabelValues(source).Add(float64(count))
}

// ObserveCalendar учитывает построение календаря. Безопасен для nil
func (m *Metrics) ObserveCalendar(withService bool) {
	if m == nil {
		return
	}
	label := "false"
	if withService {
		label = "true"
	}
	m.CalendarBuildsTotal.WithLabelValues(label).Inc()
}

// ObserveReservation учитывает исход попытки бронирования. Безопасен для nil
func (m *Metrics) ObserveReservation(outcome string) {
	if m == nil {
		return
	}
	m.ReservationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveConflict учитывает конфликт бронирования. Безопасен для nil
func (m *Metrics) ObserveConflict(stage string) {
	if m == nil {
		return
	}
	m.ReservationConflictsTotal.WithLabelValues(stage).Inc()
}
