// Package metrics exposes scheduler activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fikrisyahid/adzanid/internal/prayer"
)

const namespace = "adzanid"

// Collector holds all Prometheus metrics for the daemon. It is a
// prayer.Listener.
type Collector struct {
	prayer.BaseListener

	registry *prometheus.Registry

	Ticks      prometheus.Counter
	Triggers   *prometheus.CounterVec
	Fetches    *prometheus.CounterVec
	Stale      prometheus.Counter
	DndChecks  *prometheus.CounterVec
	AudioPlays *prometheus.CounterVec
	Generation prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Scheduler ticks processed",
		}),
		Triggers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triggers_total",
			Help:      "Prayer triggers fired",
		}, []string{"prayer"}),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_fetches_total",
			Help:      "Schedule fetches by result",
		}, []string{"result"}),
		Stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_total",
			Help:      "Fetch responses discarded for an outdated generation",
		}),
		DndChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dnd_checks_total",
			Help:      "Do-not-disturb checks by result",
		}, []string{"result"}),
		AudioPlays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_plays_total",
			Help:      "Adhan playback attempts by result",
		}, []string{"result"}),
		Generation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "schedule_generation",
			Help:      "Generation of the cached schedule",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	c.registry.MustRegister(
		c.Ticks, c.Triggers, c.Fetches, c.Stale, c.DndChecks, c.AudioPlays, c.Generation,
		c.HTTPRequests, c.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// OnTrigger counts the trigger and what its dispatch did.
func (c *Collector) OnTrigger(ev prayer.TriggerEvent, res prayer.DispatchResult) {
	c.Triggers.WithLabelValues(string(ev.Prayer)).Inc()

	switch {
	case res.DndError != "":
		c.DndChecks.WithLabelValues("error").Inc()
	case res.DndActive:
		c.DndChecks.WithLabelValues("active").Inc()
	default:
		c.DndChecks.WithLabelValues("inactive").Inc()
	}

	if res.AudioStarted {
		c.AudioPlays.WithLabelValues("started").Inc()
	} else if res.AudioSkipped != "" {
		c.AudioPlays.WithLabelValues(res.AudioSkipped).Inc()
	}
}

// OnScheduleRefreshed counts a successful fetch.
func (c *Collector) OnScheduleRefreshed(snap prayer.Snapshot) {
	c.Fetches.WithLabelValues("success").Inc()
	c.Generation.Set(float64(snap.Generation))
}

// OnFetchError counts a failed fetch.
func (c *Collector) OnFetchError(*prayer.FetchError) {
	c.Fetches.WithLabelValues("error").Inc()
}

// OnStaleResponse counts a discarded response.
func (c *Collector) OnStaleResponse(prayer.RefreshRequest) {
	c.Stale.Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request counts and latency by route template.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		c.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
