package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	TicksTotal      prometheus.Counter
	StackDepth      prometheus.Gauge
	PushesTotal     prometheus.Counter
	PopsTotal       prometheus.Counter
	DecisionErrors  prometheus.Counter
	PublishFailures prometheus.Counter
}

// NewMetrics registers the engine collectors on the given registerer.
// Pass prometheus.DefaultRegisterer for the global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TicksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "arbor_ticks_total",
			Help: "Number of engine update ticks executed.",
		}),
		StackDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "arbor_stack_depth",
			Help: "Current depth of the active behavior stack.",
		}),
		PushesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "arbor_element_pushes_total",
			Help: "Number of elements pushed onto the active stack.",
		}),
		PopsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "arbor_element_pops_total",
			Help: "Number of elements popped off the active stack.",
		}),
		DecisionErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "arbor_decision_errors_total",
			Help: "Number of ticks aborted by a failed or undeclared decision result.",
		}),
		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "arbor_publish_failures_total",
			Help: "Number of debug snapshot publishes that failed.",
		}),
	}
}
