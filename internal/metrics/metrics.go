package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Command pipeline metrics

	CommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatops",
		Name:      "commands_total",
		Help:      "Total chat commands handled, by kind.",
	}, []string{"kind"})

	CommandDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chatops",
		Name:      "command_duration_seconds",
		Help:      "Time spent handling one chat command.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"kind"})

	ApprovalRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chatops",
		Name:      "approval_requests_total",
		Help:      "Denied actions that were forwarded to the admins.",
	})

	// Sweep metrics

	SweepCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "chatops",
		Name:      "sweep_cycle_duration_seconds",
		Help:      "Time taken for one executor sweep.",
		Buckets:   prometheus.DefBuckets,
	})

	SweepProcessedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatops",
		Name:      "sweep_processed_total",
		Help:      "Due schedules processed per sweep, by outcome.",
	}, []string{"outcome"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chatops",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatops",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		CommandsTotal,
		CommandDuration,
		ApprovalRequestsTotal,
		SweepCycleDuration,
		SweepProcessedTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

func NewServer(addr string, readiness http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if readiness != nil {
		mux.Handle("/readyz", readiness)
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return &http.Server{Addr: addr, Handler: mux}
}
