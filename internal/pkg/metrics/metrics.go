package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "leadbook_http_request_duration_seconds",
		Help:    "HTTP request duration seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})
	CallResultsIngested = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "leadbook_call_results_total",
		Help: "Total call-completed webhooks by outcome class",
	}, []string{"outcome"})
	CallTasksDispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "leadbook_call_tasks_dispatched_total",
		Help: "Total call tasks handed to the outreach queue",
	}, []string{"tenant"})
	CallsPlaced = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "leadbook_calls_placed_total",
		Help: "Total dial requests accepted by the voice-agent platform",
	}, []string{"tenant"})
	BookingsCommitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "leadbook_bookings_committed_total",
		Help: "Total bookings committed",
	})
	BookingConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "leadbook_booking_conflicts_total",
		Help: "Total booking commits rejected on conflict",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequestDuration, CallResultsIngested, CallTasksDispatched, CallsPlaced, BookingsCommitted, BookingConflicts)
}

// Handler exposes the prometheus text endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method string, status int, start time.Time) {
	HTTPRequestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}
