// Package metrics содержит Prometheus-метрики HTTP-слоя и хранилища.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "college_api"

var (
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Number of HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	storeOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_operations_total",
		Help:      "Number of store operations by operation, collection and result.",
	}, []string{"operation", "collection", "result"})

	storeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Store operation latency by operation and collection.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "collection"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		storeOperations,
		storeDuration,
	)
}

// Handler отдаёт метрики в формате Prometheus.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveRequest учитывает один обработанный HTTP-запрос.
func ObserveRequest(method, route string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveStore учитывает одну операцию с хранилищем.
func ObserveStore(operation, collection string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeOperations.WithLabelValues(operation, collection, result).Inc()
	storeDuration.WithLabelValues(operation, collection).Observe(time.Since(start).Seconds())
}
