// Package metrics records run outcomes in Prometheus collectors and pushes them to a Pushgateway.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"NewsCollector/internal/domain"
	"NewsCollector/internal/ports"
)

const namespace = "newscollector"

// Recorder owns a private registry so pushes only carry pipeline metrics.
type Recorder struct {
	registry *prometheus.Registry

	itemsTotal      *prometheus.CounterVec
	sourceFetched   *prometheus.GaugeVec
	sourceUp        *prometheus.GaugeVec
	runDuration     *prometheus.HistogramVec
	lastSuccess     *prometheus.GaugeVec
	verdictsTotal   *prometheus.CounterVec
	classifyBatches prometheus.Counter
	callFailures    prometheus.Counter
}

var _ ports.MetricsRecorder = (*Recorder)(nil)

// NewRecorder registers every collector on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		itemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_items_total",
			Help:      "Candidates processed by ingestion, by outcome",
		}, []string{"outcome"}),
		sourceFetched: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_fetched_items",
			Help:      "Candidates returned by a source in the last run",
		}, []string{"source"}),
		sourceUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_up",
			Help:      "Whether a source answered in the last run (1 = ok, 0 = failed)",
		}, []string{"source"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of pipeline stages in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"stage"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time a stage last finished",
		}, []string{"stage"}),
		verdictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classification_items_total",
			Help:      "Items seen by the classification stage, by outcome",
		}, []string{"outcome"}),
		classifyBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classification_batches_total",
			Help:      "Batches sent to the classifier",
		}),
		callFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classification_call_failures_total",
			Help:      "Batches whose classifier call failed",
		}),
	}

	r.registry.MustRegister(
		r.itemsTotal,
		r.sourceFetched,
		r.sourceUp,
		r.runDuration,
		r.lastSuccess,
		r.verdictsTotal,
		r.classifyBatches,
		r.callFailures,
	)
	return r
}

// Registry exposes the underlying registry for tests and pushes.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveIngest records an ingestion summary.
func (r *Recorder) ObserveIngest(s domain.RunSummary) {
	r.itemsTotal.WithLabelValues("fetched").Add(float64(s.Fetched))
	r.itemsTotal.WithLabelValues("malformed").Add(float64(s.Malformed))
	r.itemsTotal.WithLabelValues("merged").Add(float64(s.Merged))
	r.itemsTotal.WithLabelValues("known").Add(float64(s.Known))
	r.itemsTotal.WithLabelValues("inserted").Add(float64(s.Inserted))
	r.itemsTotal.WithLabelValues("refreshed").Add(float64(s.Refreshed))

	for _, src := range s.Sources {
		r.sourceFetched.WithLabelValues(src.Name).Set(float64(src.Fetched))
		up := 1.0
		if src.Failed() {
			up = 0
		}
		r.sourceUp.WithLabelValues(src.Name).Set(up)
	}

	r.observeStage("ingest", s.StartedAt.Unix(), s.FinishedAt.Sub(s.StartedAt).Seconds(), s.FinishedAt.Unix())
}

// ObserveClassification records a classification summary.
func (r *Recorder) ObserveClassification(s domain.ClassificationSummary) {
	r.verdictsTotal.WithLabelValues("classified").Add(float64(s.Classified))
	r.verdictsTotal.WithLabelValues("failed").Add(float64(s.Failed))
	r.verdictsTotal.WithLabelValues("unclassified").Add(float64(s.Unclassified))
	r.classifyBatches.Add(float64(s.Batches))
	r.callFailures.Add(float64(s.CallFailures))

	r.observeStage("classify", s.StartedAt.Unix(), s.FinishedAt.Sub(s.StartedAt).Seconds(), s.FinishedAt.Unix())
}

func (r *Recorder) observeStage(stage string, started int64, seconds float64, finished int64) {
	if started <= 0 || finished < started {
		return
	}
	r.runDuration.WithLabelValues(stage).Observe(seconds)
	r.lastSuccess.WithLabelValues(stage).Set(float64(finished))
}

// Push sends the registry to a Pushgateway under the given job name.
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	if url == "" {
		return nil
	}
	err := push.New(url, job).
		Gatherer(r.registry).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
