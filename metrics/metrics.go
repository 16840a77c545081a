// Package metrics collects and exposes Prometheus metrics for postbox.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login results recorded by RecordLogin.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

// Recorder is the metrics surface used by the HTTP layer.
type Recorder interface {
	RecordRequest(method, route string, status int, duration time.Duration)
	RecordLogin(result string)
	RecordPresign(method string)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	logins    *prometheus.CounterVec
	presigned *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "postbox_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "postbox_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "postbox_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		presigned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "postbox_presigned_urls_total",
			Help: "Presigned URLs issued by HTTP method",
		}, []string{"method"}),
	}

	reg.MustRegister(
		c.requests,
		c.latency,
		c.logins,
		c.presigned,
	)

	return c
}

func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

func (c *Collector) RecordPresign(method string) {
	c.presigned.WithLabelValues(method).Inc()
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
