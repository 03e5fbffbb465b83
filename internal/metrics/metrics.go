package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed.",
		},
	)

	scansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_scans_total",
			Help: "Scanned codes by lookup result.",
		},
		[]string{"result"},
	)
	ordersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_orders_total",
			Help: "Recorded orders by payment method.",
		},
		[]string{"payment_method"},
	)
	orderAmountTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_order_amount_total",
			Help: "Sum of recorded order totals in the store currency.",
		},
		[]string{"payment_method"},
	)
	checkoutSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_checkout_submissions_total",
			Help: "Checkout submissions by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

func RecordScan(matched bool) {
	result := "not_found"
	if matched {
		result = "matched"
	}

	scansTotal.WithLabelValues(result).Inc()
}

func RecordOrder(paymentMethod string, total int64) {
	ordersTotal.WithLabelValues(paymentMethod).Inc()
	orderAmountTotal.WithLabelValues(paymentMethod).Add(float64(total))
}

func RecordCheckout(succeeded bool) {
	outcome := "failed"
	if succeeded {
		outcome = "success"
	}

	checkoutSubmissionsTotal.WithLabelValues(outcome).Inc()
}

// captures the status code for the request counter
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request metrics. It must wrap the ServeMux directly so
// the matched route pattern is visible once the handler returns.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := newResponseWriter(w)

		defer func() {
			path := r.Pattern
			if path == "" {
				path = "unmatched"
			}

			httpRequestsTotal.WithLabelValues(strconv.Itoa(rw.statusCode), r.Method, path).Inc()
			httpRequestsDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
			httpRequestsInFlight.Dec()
		}()

		next.ServeHTTP(rw, r)
	})
}

// Handler serves the Prometheus /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
