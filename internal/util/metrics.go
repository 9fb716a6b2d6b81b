package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ordering_events_generated_total",
		Help: "Total number of weekly ordering events generated",
	})

	OrdersSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_submitted_total",
		Help: "Total number of orders submitted by teachers",
	})

	OrdersProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_processed_total",
		Help: "Total number of orders transitioned to processed",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of rejected order operations",
	}, []string{"reason"})

	ReceptionsFinalizedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "receptions_finalized_total",
		Help: "Total number of finalized reception verifications",
	}, []string{"result"})

	IncidentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reception_incidents_created_total",
		Help: "Total number of reception incidents recorded",
	})

	EconomatoExpensesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "economato_expenses_assigned_total",
		Help: "Total number of mini-economato expenses charged against an event",
	})

	BackupsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backups_created_total",
		Help: "Total number of backup documents exported",
	})

	NotificationsWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_written_total",
		Help: "Total number of notifications materialized from broker events",
	})

	ProcessingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_processing_latency_seconds",
		Help:    "Latency of the order aggregation and processing step",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
