package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	GadgetTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gadget_transitions_total",
			Help: "Total gadget lifecycle transitions",
		},
		[]string{"transition"}, // create|update|decommission|self_destruct
	)

	AuthFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Requests rejected by the auth gate",
		},
		[]string{"reason"}, // unauthenticated|forbidden
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(GadgetTransitionsTotal)
	prometheus.MustRegister(AuthFailuresTotal)
	prometheus.MustRegister(WorkerQueueDepth)
}
