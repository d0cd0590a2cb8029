package mid

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusRequests *prometheus.CounterVec
	prometheusErrors   prometheus.Counter
	prometheusPanics   prometheus.Counter
	prometheusDuration *prometheus.HistogramVec

	// only init the metrics once
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(func() {
		prometheusRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests",
				Help: "Number of requests handled by the node",
			},
			[]string{"method", "code"},
		)
		prometheusErrors = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_http_errors",
				Help: "Number of requests that returned an error",
			},
		)
		prometheusPanics = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_http_panics",
				Help: "Number of requests that panicked",
			},
		)
		prometheusDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_request_duration_seconds",
				Help:    "Duration of the requests handled by the node",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		)
	})
}

// Metrics updates program counters.
func Metrics() web.Middleware {
	initPrometheusMetrics()

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			start := time.Now()

			// Call the next handler.
			err := handler(ctx, w, r)

			status := http.StatusOK
			if v, verr := web.GetValues(ctx); verr == nil && v.StatusCode != 0 {
				status = v.StatusCode
			}

			prometheusRequests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
			prometheusDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())

			// Increment the errors counter if an error occurred on this request.
			if err != nil {
				prometheusErrors.Inc()
			}

			// Return the error so it can be handled further up the chain.
			return err
		}

		return h
	}

	return m
}
