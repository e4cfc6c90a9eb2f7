// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

var (
	// HTTPRequestDuration tracks HTTP request latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route", "status_code"},
	)

	// CustomersImportedTotal counts customers created through bulk import.
	CustomersImportedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "customers_total",
			Help:      "Total number of customers created by spreadsheet import.",
		},
	)

	// ImportFailuresTotal counts aborted imports.
	// Label:
	//   - reason: "unreadable" or "row"
	ImportFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "failures_total",
			Help:      "Total number of spreadsheet imports that aborted.",
		},
		[]string{"reason"},
	)

	// ReportsRenderedTotal counts PDF documents.
	// Labels:
	//   - kind: "bulk" or "profile"
	//   - result: "ok" or "error"
	ReportsRenderedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "rendered_total",
			Help:      "Total number of PDF reports rendered, by kind and result.",
		},
		[]string{"kind", "result"},
	)

	// ReportImagesDegradedTotal counts customer images replaced by the placeholder.
	ReportImagesDegradedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "images_degraded_total",
			Help:      "Total number of customer images that could not be embedded in a report.",
		},
	)
)
