// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quickly_vote"

/*
Every Metrics value owns a private registry, so tests can build as many
as they like without tripping duplicate registration in the global one.

All methods are safe on a nil *Metrics; components built without metrics
simply skip instrumentation.
*/
type Metrics struct {
	registry *prometheus.Registry

	BallotsCast       *prometheus.CounterVec
	CastDuration      prometheus.Histogram
	TallyDuration     prometheus.Histogram
	StreamSubscribers *prometheus.GaugeVec
	EventsPublished   *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		BallotsCast: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ballots_total",
				Help:      "Ballot cast attempts by outcome",
			},
			[]string{"outcome"},
		),
		CastDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cast_duration_seconds",
				Help:      "Time spent in the ballot casting transaction",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
			},
		),
		TallyDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tally_duration_seconds",
				Help:      "Time spent computing one tally snapshot",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
			},
		),
		StreamSubscribers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "stream_subscribers",
				Help:      "Live result subscribers currently connected",
			},
			[]string{"transport"},
		),
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "Domain events handed to the broker",
			},
			[]string{"type", "result"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveCast(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.BallotsCast.WithLabelValues(outcome).Inc()
	m.CastDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveTally(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.TallyDuration.Observe(elapsed.Seconds())
}

// TrackSubscriber increments the subscriber gauge and returns the matching decrement
func (m *Metrics) TrackSubscriber(transport string) func() {
	if m == nil {
		return func() {}
	}
	g := m.StreamSubscribers.WithLabelValues(transport)
	g.Inc()
	return g.Dec
}

func (m *Metrics) ObserveEvent(eventType string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.EventsPublished.WithLabelValues(eventType, result).Inc()
}
