// Package metrics exposes session activity as Prometheus collectors,
// fed through domain.LifecycleHooks.
package metrics

import (
	"context"
	"net/http"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors groups the calculator metrics.
type Collectors struct {
	Evaluations *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	Commands    *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates the collectors and registers them on a private registry.
func New() *Collectors {
	c := &Collectors{
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abacus_evaluations_total",
				Help: "Total number of evaluations by outcome and angle mode",
			},
			[]string{"outcome", "angle_mode"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "abacus_evaluation_duration_seconds",
				Help:    "Duration of evaluator calls",
				Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
			},
			[]string{"outcome"},
		),
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abacus_commands_total",
				Help: "Total number of session commands dispatched by hosts",
			},
			[]string{"command"},
		),
		registry: prometheus.NewRegistry(),
	}
	c.registry.MustRegister(c.Evaluations, c.Duration, c.Commands)
	return c
}

// Hooks returns lifecycle hooks that record into the collectors.
func (c *Collectors) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommand: func(_ context.Context, e *domain.CommandEvent) {
			c.Commands.WithLabelValues(e.Command).Inc()
		},
		OnEvaluate: func(_ context.Context, e *domain.EvaluationEvent) {
			outcome := string(e.Outcome.Kind)
			c.Evaluations.WithLabelValues(outcome, string(e.AngleMode)).Inc()
			c.Duration.WithLabelValues(outcome).Observe(e.Duration.Seconds())
		},
	}
}

// Registry returns the registry holding the collectors.
func (c *Collectors) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
