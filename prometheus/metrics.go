package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aftersales_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Registration counters
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aftersales_register_total",
			Help: "Total number of user registrations",
		},
	)

	// Rule evaluation run counter
	RuleRunCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aftersales_rule_runs_total",
			Help: "Total number of rule evaluation runs",
		},
	)

	// Messages logged per rule
	MessageLoggedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aftersales_messages_logged_total",
			Help: "Total number of message log rows written, by event type",
		},
		[]string{"event_type"},
	)

	// Mail send outcomes
	MailSendCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aftersales_mail_sends_total",
			Help: "Total number of outbound mail attempts, by outcome",
		},
		[]string{"outcome"}, // outcome can be "sent", "failed"
	)

	// Report export counter
	ExportCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aftersales_report_exports_total",
			Help: "Total number of message log exports, by result",
		},
		[]string{"result"}, // result can be "ok", "empty", "error"
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aftersales_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aftersales_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "login_failure", "invalid_token", "db_error" etc.
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aftersales_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aftersales_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)

	// Rule run duration
	RuleRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aftersales_rule_run_duration_seconds",
			Help:    "Duration of rule evaluation runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aftersales_info",
			Help: "Information about the aftersales service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(RuleRunCounter)
	prometheus.MustRegister(MessageLoggedCounter)
	prometheus.MustRegister(MailSendCounter)
	prometheus.MustRegister(ExportCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)
	prometheus.MustRegister(RuleRunDuration)

	// Register gauges
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// RecordAuthError increments the auth error counter for the given type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordMessageLogged increments the messages-logged counter for a rule
func RecordMessageLogged(eventType string) {
	MessageLoggedCounter.With(prometheus.Labels{"event_type": eventType}).Inc()
}

// RecordMailSend increments the mail outcome counter
func RecordMailSend(outcome string) {
	MailSendCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			return err
		}
	}
}
