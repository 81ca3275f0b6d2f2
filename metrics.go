package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// routeQueryTotal counts route queries by outcome
	routeQueryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "router_route_query_total",
		Help: "Total route queries by result",
	}, []string{"result"}) // "found", "unreachable" or "invalid"

	routeQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "router_route_query_duration_seconds",
		Help:    "Jump point search duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 16), // 10µs to ~330ms
	})

	routeExpandedNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "router_route_expanded_nodes",
		Help:    "Jump points expanded per route query",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	obstacleMutationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "router_obstacle_mutation_total",
		Help: "Total obstacle mutations by operation",
	}, []string{"op"}) // "add", "update" or "remove"

	obstacleCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "router_obstacles",
		Help: "Obstacles currently in the scene",
	})
)
