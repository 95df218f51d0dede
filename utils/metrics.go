package utils

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pilateshub",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pilateshub",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	paymentsBilled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pilateshub",
		Subsystem: "payments",
		Name:      "billed_cents_total",
		Help:      "Amounts billed through the gateway, split into platform fee and instructor share.",
	}, []string{"currency", "share"})
	webhookEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pilateshub",
		Subsystem: "payments",
		Name:      "webhook_events_total",
		Help:      "Gateway webhook events by type and outcome.",
	}, []string{"type", "outcome"})
	bookingCompletions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pilateshub",
		Subsystem: "bookings",
		Name:      "auto_completions_total",
		Help:      "Bookings closed by the completion worker, by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, paymentsBilled, webhookEvents, bookingCompletions)
}

// RecordHTTPRequest counts one served request. Route is the matched pattern, not the raw path.
func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func RecordPaymentBilled(currency string, platformFee, instructorAmount int64) {
	paymentsBilled.WithLabelValues(currency, "platform").Add(float64(platformFee))
	paymentsBilled.WithLabelValues(currency, "instructor").Add(float64(instructorAmount))
}

func RecordWebhookEvent(eventType, outcome string) {
	webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

func RecordBookingCompletion(outcome string) {
	bookingCompletions.WithLabelValues(outcome).Inc()
}

// MetricsHandler exposes the default registry in the Prometheus text format.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
