package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "merchant_assistant_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "merchant_assistant_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	chatIntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "merchant_assistant_chat_intents_total",
			Help: "Chat messages by detected intent",
		},
		[]string{"intent"},
	)

	insightsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "merchant_assistant_insights_total",
			Help: "Insights produced by type",
		},
		[]string{"type"},
	)
)

// Metrics records request counts and latency per route template.
func Metrics(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	route := c.Route().Path
	status := c.Response().StatusCode()
	if fe, ok := err.(*fiber.Error); ok {
		status = fe.Code
	}

	httpRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
	return err
}

// ObserveIntent counts one chat message.
func ObserveIntent(intent string) {
	chatIntentsTotal.WithLabelValues(intent).Inc()
}

// ObserveInsight counts one produced insight.
func ObserveInsight(insightType string) {
	insightsTotal.WithLabelValues(insightType).Inc()
}
