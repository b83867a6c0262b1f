// Package metrics provides Prometheus instrumentation.
//
// The HTTP middleware records the standard request metrics; the domain
// metrics below are incremented by the repository and the image resolver.
// Scrape /metrics.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks how long each HTTP request takes.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shoplist",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shoplist",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks requests currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "shoplist",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// DBQueryDuration tracks store query latency by operation.
	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shoplist",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Duration of database queries in seconds.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .5, 1},
		},
		[]string{"operation"}, // "select" | "insert" | "update" | "delete"
	)

	// ImageLookups counts remote photo lookups by outcome.
	ImageLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shoplist",
			Subsystem: "image",
			Name:      "lookups_total",
			Help:      "Remote photo lookups by outcome.",
		},
		[]string{"outcome"}, // "photo" | "empty" | "error"
	)

	// ImageDownloadDuration tracks how long image downloads take.
	ImageDownloadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "shoplist",
		Subsystem: "image",
		Name:      "download_duration_seconds",
		Help:      "Duration of photo downloads in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	// ProductMutations counts committed store writes by kind.
	ProductMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shoplist",
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Committed product mutations by kind.",
		},
		[]string{"kind"}, // "create" | "update" | "delete" | "seed"
	)

	// StreamClients tracks connected live-list subscribers by transport.
	StreamClients = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "shoplist",
		Subsystem: "stream",
		Name:      "clients",
		Help:      "Connected live product list subscribers.",
	}, []string{"transport"}) // "sse" | "ws"
)

// DefaultRegistry is the Prometheus registry used by shoplist.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		DBQueryDuration,
		ImageLookups,
		ImageDownloadDuration,
		ProductMutations,
		StreamClients,
	)
}

// responseRecorder captures the status code written downstream.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush and Hijack pass through so streaming (SSE) and WebSocket upgrades
// keep working behind the middleware.
func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := r.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, errors.New("metrics: underlying writer does not support hijacking")
}

// Middleware records request duration, count and in-flight gauge for every
// request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			status := strconv.Itoa(rr.status)
			RequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// Handler exposes the Prometheus metrics page. Mount on /metrics.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}

// ObserveDBQuery records a store query duration:
//
//	defer metrics.ObserveDBQuery("select", time.Now())
func ObserveDBQuery(operation string, start time.Time) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
