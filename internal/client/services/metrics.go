package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var mirrorFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "dirkeeper",
		Name:      "mirror_failures_total",
		Help:      "Best-effort remote mirror calls that failed, by operation.",
	},
	[]string{"op"},
)
