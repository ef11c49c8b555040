package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	durationCalcs    prometheus.Counter
	reconcileRuns    prometheus.Counter
	reconcileLatency prometheus.Histogram

	holidayRefreshes *prometheus.CounterVec
	holidaySetSize   prometheus.Gauge
)

// Init registers the collectors on the default registry. Safe to call
// more than once; only the first call takes effect.
func Init() {
	initOnce.Do(func() {
		httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leavedesk",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served, by method and status code.",
		}, []string{"method", "status"})

		httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leavedesk",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"})

		durationCalcs = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "leavedesk",
			Subsystem: "engine",
			Name:      "duration_calculations_total",
			Help:      "Leave duration computations performed.",
		})

		reconcileRuns = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "leavedesk",
			Subsystem: "engine",
			Name:      "reconciliations_total",
			Help:      "History reconciliation passes performed.",
		})

		reconcileLatency = promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "leavedesk",
			Subsystem: "engine",
			Name:      "reconciliation_duration_seconds",
			Help:      "Time spent annotating leave history against the ledger.",
			Buckets:   prometheus.DefBuckets,
		})

		holidayRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leavedesk",
			Subsystem: "holidays",
			Name:      "refreshes_total",
			Help:      "Holiday calendar refresh attempts, by outcome.",
		}, []string{"outcome"})

		holidaySetSize = promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "leavedesk",
			Subsystem: "holidays",
			Name:      "calendar_size",
			Help:      "Number of holiday dates currently loaded.",
		})
	})
}

func ObserveHTTPRequest(method, status string, elapsed time.Duration) {
	if httpRequests == nil {
		return
	}
	httpRequests.WithLabelValues(method, status).Inc()
	httpLatency.WithLabelValues(method).Observe(elapsed.Seconds())
}

func CountDurationCalculation() {
	if durationCalcs == nil {
		return
	}
	durationCalcs.Inc()
}

func ObserveReconciliation(elapsed time.Duration) {
	if reconcileRuns == nil {
		return
	}
	reconcileRuns.Inc()
	reconcileLatency.Observe(elapsed.Seconds())
}

func CountHolidayRefresh(success bool, size int) {
	if holidayRefreshes == nil {
		return
	}
	if success {
		holidayRefreshes.WithLabelValues("success").Inc()
		holidaySetSize.Set(float64(size))
		return
	}
	holidayRefreshes.WithLabelValues("failure").Inc()
}
