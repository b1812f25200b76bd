// Package metrics exposes playback counters for Prometheus.
package metrics

import (
	"net/http"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the playback metrics and the registry they live in.
type Collector struct {
	registry *prometheus.Registry

	nodeVisits *prometheus.CounterVec
	choices    *prometheus.CounterVec
	endings    *prometheus.CounterVec
	requests   *prometheus.CounterVec
}

// New creates a collector with its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		nodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parley_node_visits_total",
				Help: "Total number of node visits",
			},
			[]string{"node_id"},
		),
		choices: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parley_choices_total",
				Help: "Total number of choices taken",
			},
			[]string{"node_id", "target_id"},
		),
		endings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parley_playback_endings_total",
				Help: "Playbacks ended by a missing node",
			},
			[]string{"node_id"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parley_http_requests_total",
				Help: "HTTP requests by route and status",
			},
			[]string{"route", "status"},
		),
	}
	c.registry.MustRegister(c.nodeVisits, c.choices, c.endings, c.requests)
	return c
}

// Hooks returns playback hooks that record into the collector.
func (c *Collector) Hooks() domain.PlaybackHooks {
	return domain.PlaybackHooks{
		OnNodeEnter: func(e *domain.NodeEvent) {
			c.nodeVisits.WithLabelValues(e.NodeID).Inc()
		},
		OnChoose: func(e *domain.ChoiceEvent) {
			c.choices.WithLabelValues(e.NodeID, e.TargetID).Inc()
		},
		OnEnd: func(e *domain.NodeEvent) {
			c.endings.WithLabelValues(e.NodeID).Inc()
		},
	}
}

// ObserveRequest counts one HTTP request.
func (c *Collector) ObserveRequest(route, status string) {
	c.requests.WithLabelValues(route, status).Inc()
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
