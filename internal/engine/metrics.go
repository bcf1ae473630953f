package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scoresComputed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "auricite",
		Subsystem: "engine",
		Name:      "scores_computed_total",
		Help:      "Score computations that went through the full pipeline.",
	})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "auricite",
		Subsystem: "engine",
		Name:      "result_cache_hits_total",
		Help:      "Score requests served from the result cache.",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "auricite",
		Subsystem: "engine",
		Name:      "result_cache_misses_total",
		Help:      "Score requests that missed the result cache.",
	})

	rescores = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "auricite",
		Subsystem: "engine",
		Name:      "rescores_total",
		Help:      "Per-record rescore outcomes.",
	}, []string{"result"})

	configVersions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "auricite",
		Subsystem: "engine",
		Name:      "config_versions_created_total",
		Help:      "Scoring configuration versions created, reverts included.",
	})
)
