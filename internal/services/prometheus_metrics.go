package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	envelopesCreatedTotal     prometheus.Counter
	envelopesDeletedTotal     prometheus.Counter
	amountsScheduledTotal     prometheus.Counter
	entriesRecordedTotal      *prometheus.CounterVec
	entryValue                prometheus.Histogram
	dashboardResolves         prometheus.Counter
	dashboardResolveDuration  prometheus.Histogram
	shareRequestsTotal        *prometheus.CounterVec
	authenticationEventsTotal *prometheus.CounterVec
	activeUsersTotal          prometheus.Gauge
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		envelopesCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "envelopes_created_total",
				Help: "Total number of envelopes created",
			},
		),
		envelopesDeletedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "envelopes_deleted_total",
				Help: "Total number of envelopes deleted",
			},
		),
		amountsScheduledTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "amounts_scheduled_total",
				Help: "Total number of budget amounts scheduled",
			},
		),
		entriesRecordedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "entries_recorded_total",
				Help: "Total number of entries recorded",
			},
			[]string{"operation"},
		),
		entryValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "entry_value",
				Help:    "Entry value in base currency units",
				Buckets: prometheus.ExponentialBuckets(1, 10, 6),
			},
		),
		dashboardResolves: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "dashboard_resolves_total",
				Help: "Total number of dashboard month resolutions",
			},
		),
		dashboardResolveDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dashboard_resolve_duration_milliseconds",
				Help:    "Dashboard resolution duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		shareRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "share_requests_total",
				Help: "Total number of share requests by outcome",
			},
			[]string{"status"},
		),
		authenticationEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
		activeUsersTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_users_total",
				Help: "Current number of registered users",
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "envelope_created":
		m.envelopesCreatedTotal.Inc()
	case "envelope_deleted":
		m.envelopesDeletedTotal.Inc()
	case "amount_scheduled":
		m.amountsScheduledTotal.Inc()
	case "entry_recorded":
		operation := tags["operation"]
		if operation == "" {
			operation = "create"
		}
		m.entriesRecordedTotal.WithLabelValues(operation).Inc()
	case "dashboard_resolved":
		m.dashboardResolves.Inc()
	case "share_request":
		if status := tags["status"]; status != "" {
			m.shareRequestsTotal.WithLabelValues(status).Inc()
		}
	case "authentication_event":
		if eventType := tags["event_type"]; eventType != "" {
			m.authenticationEventsTotal.WithLabelValues(eventType).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "dashboard_resolve":
		m.dashboardResolveDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "entry_value":
		m.entryValue.Observe(value)
	case "active_users":
		m.activeUsersTotal.Set(value)
	}
}
