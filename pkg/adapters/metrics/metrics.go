// Package metrics exposes a session's lifecycle events as Prometheus
// metrics. The collector plugs into a session through its Hooks and
// registers like any other prometheus.Collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/lockstep/pkg/domain"
)

// Collector counts session lifecycle events. It is safe for concurrent
// use and implements prometheus.Collector.
type Collector struct {
	sessions  prometheus.Counter
	exchanges *prometheus.CounterVec
	reports   *prometheus.CounterVec
	exits     *prometheus.CounterVec
}

// NewCollector returns an unregistered collector. Register it with a
// prometheus.Registerer and pass Hooks() to lockstep.WithHooks.
func NewCollector() *Collector {
	return &Collector{
		sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lockstep_sessions_total",
			Help: "Total number of test sessions started",
		}),
		exchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lockstep_exchanges_total",
			Help: "Total number of input/output exchanges",
		}, []string{"direction"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lockstep_reports_total",
			Help: "Total number of mismatch/failure reports",
		}, []string{"kind"}),
		exits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lockstep_exits_total",
			Help: "Total number of observed subject exits",
		}, []string{"kind"}),
	}
}

// Hooks returns lifecycle hooks that feed the collector.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(*domain.EventBase) {
			c.sessions.Inc()
		},
		OnInput: func(*domain.ExchangeEvent) {
			c.exchanges.WithLabelValues("input").Inc()
		},
		OnOutput: func(*domain.ExchangeEvent) {
			c.exchanges.WithLabelValues("output").Inc()
		},
		OnReport: func(ev *domain.ReportEvent) {
			c.reports.WithLabelValues(ev.Kind.String()).Inc()
		},
		OnExit: func(ev *domain.ExitEvent) {
			c.exits.WithLabelValues(ev.Kind.String()).Inc()
		},
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.sessions.Describe(ch)
	c.exchanges.Describe(ch)
	c.reports.Describe(ch)
	c.exits.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.sessions.Collect(ch)
	c.exchanges.Collect(ch)
	c.reports.Collect(ch)
	c.exits.Collect(ch)
}
