package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartItemsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_items_added_total",
		Help: "Total number of successful add-to-cart actions",
	})

	CartAddRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_add_rejected_total",
		Help: "Total number of add-to-cart actions rejected by input validation",
	}, []string{"reason"})

	OrderValidationFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_order_validation_failed_total",
		Help: "Total number of order submissions stopped before the network call",
	}, []string{"kind"})

	OrderSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_order_submissions_total",
		Help: "Total number of order submissions sent, by outcome",
	}, []string{"outcome"})

	CatalogLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_loads_total",
		Help: "Total number of catalog fetches, by result",
	}, []string{"result"})

	LateResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_late_responses_total",
		Help: "Total number of responses dropped because their session ended",
	}, []string{"operation"})

	BackendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_backend_request_duration_seconds",
		Help:    "Latency of calls to the catalog and order services",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})

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
