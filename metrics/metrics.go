package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service counters and the registry that exposes them.
type Metrics struct {
	Registry          *prometheus.Registry
	SlotsCreated      prometheus.Counter
	MeetingsScheduled prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		SlotsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slots_created_total",
			Help: "Time slots successfully created.",
		}),
		MeetingsScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "meetings_scheduled_total",
			Help: "Meetings successfully scheduled.",
		}),
	}
	m.Registry.MustRegister(
		m.SlotsCreated,
		m.MeetingsScheduled,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
