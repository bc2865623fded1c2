package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK           = "ok"
	outcomeHTTPError    = "http_error"
	outcomeNetworkError = "network_error"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "dirkeeper",
		Name:      "api_requests_total",
		Help:      "Remote API round trips by method and outcome.",
	},
	[]string{"method", "outcome"},
)
