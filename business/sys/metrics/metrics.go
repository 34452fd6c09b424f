// Package metrics constructs the metrics the application will track.
package metrics

import (
	"net/http"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// namespace prefixes every metric this application exposes.
const namespace = "powchain"

// registry holds every metric exposed on the debug host. A private registry
// keeps third party packages from adding metrics behind our back.
var registry = prometheus.NewRegistry()

// This holds the single instance of the metrics value needed for collecting
// metrics. The prometheus types are already safe for concurrent access.
var m = struct {
	goroutines prometheus.Gauge
	requests   prometheus.Counter
	errors     prometheus.Counter
	panics     prometheus.Counter
}{
	goroutines: prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "web",
		Name:      "goroutines",
		Help:      "Number of goroutines seen at the end of the last request.",
	}),
	requests: prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "web",
		Name:      "requests_total",
		Help:      "Number of requests handled.",
	}),
	errors: prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "web",
		Name:      "errors_total",
		Help:      "Number of requests that ended in an error.",
	}),
	panics: prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "web",
		Name:      "panics_total",
		Help:      "Number of panics recovered while handling requests.",
	}),
}

func init() {
	registry.MustRegister(
		m.goroutines,
		m.requests,
		m.errors,
		m.panics,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// =============================================================================

// Register adds the collector to the set of metrics served by Handler.
func Register(c prometheus.Collector) error {
	return registry.Register(c)
}

// Handler returns the handler that serves the metrics in the prometheus
// exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

// AddGoroutines records the current number of goroutines.
func AddGoroutines() {
	m.goroutines.Set(float64(runtime.NumGoroutine()))
}

// AddRequests increments the request metric by 1.
func AddRequests() {
	m.requests.Inc()
}

// AddErrors increments the errors metric by 1.
func AddErrors() {
	m.errors.Inc()
}

// AddPanics increments the panics metric by 1.
func AddPanics() {
	m.panics.Inc()
}
