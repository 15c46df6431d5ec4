// Package metrics defines the Prometheus collectors for a comparison run.
// Collectors live on a private registry so a run can push them to a
// Pushgateway and tests can build as many instances as they like.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "ontocompare"

// Metrics holds all collectors for a run.
type Metrics struct {
	Registry *prometheus.Registry

	PairsClassified *prometheus.CounterVec
	AgreeHops       prometheus.Histogram
	PhaseDuration   *prometheus.HistogramVec
	ConceptsLoaded  prometheus.Gauge
	ConceptsMatched prometheus.Gauge
	SynsetsLoaded   prometheus.Gauge
	LemmaKeys       prometheus.Gauge
	HypernymEdges   prometheus.Gauge
	DanglingEdges   prometheus.Gauge
	SinkPublishes   *prometheus.CounterVec
	SinkCircuit     *prometheus.GaugeVec
	LastRunSeconds  prometheus.Gauge
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// New creates the collectors and registers them, together with the Go
// runtime collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		PairsClassified: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pairs_classified_total",
				Help:      "Ontology subTypeOf pairs classified, by outcome.",
			},
			[]string{"outcome"},
		),
		AgreeHops: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "agree_path_hops",
				Help:      "Hypernym path length of agreeing pairs.",
				Buckets:   prometheus.LinearBuckets(1, 1, 10),
			},
		),
		PhaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "phase_duration_seconds",
				Help:      "Wall time of each run phase.",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"phase"},
		),
		ConceptsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "concepts_loaded",
			Help:      "Concepts read from the ontology export.",
		}),
		ConceptsMatched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "concepts_matched",
			Help:      "Concepts that matched at least one synset.",
		}),
		SynsetsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "synsets_loaded",
			Help:      "Synsets defined in the WordNet resource.",
		}),
		LemmaKeys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lemma_index_keys",
			Help:      "Distinct normalized written forms in the lemma index.",
		}),
		HypernymEdges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hypernym_edges",
			Help:      "Hypernym edges in the synset graph.",
		}),
		DanglingEdges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dangling_hypernym_edges",
			Help:      "Hypernym edges whose target synset is not defined.",
		}),
		SinkPublishes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sink_publishes_total",
				Help:      "Result sink publish attempts by sink and status.",
			},
			[]string{"sink", "status"},
		),
		SinkCircuit: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sink_circuit_state",
				Help:      "Sink circuit breaker state (0=closed, 1=open, 2=half-open).",
			},
			[]string{"sink"},
		),
		LastRunSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Requests to the metrics and readiness endpoints.",
			},
			[]string{"path", "code"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Latency of the metrics and readiness endpoints.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path"},
		),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.PairsClassified,
		m.AgreeHops,
		m.PhaseDuration,
		m.ConceptsLoaded,
		m.ConceptsMatched,
		m.SynsetsLoaded,
		m.LemmaKeys,
		m.HypernymEdges,
		m.DanglingEdges,
		m.SinkPublishes,
		m.SinkCircuit,
		m.LastRunSeconds,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// ObservePhase records how long a phase took.
func (m *Metrics) ObservePhase(phase string, d time.Duration) {
	m.PhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// Handler returns the scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Push sends the registry to a Pushgateway under job, grouped by run id.
func (m *Metrics) Push(ctx context.Context, url, job, runID string) error {
	err := push.New(url, job).
		Gatherer(m.Registry).
		Grouping("run_id", runID).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", url, err)
	}
	return nil
}
