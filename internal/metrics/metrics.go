// Package metrics collects per-run pipeline metrics and pushes them to a
// Prometheus Pushgateway. A CLI run is too short-lived to be scraped.
package metrics

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/chapool/wallet-agent/internal/wallet/errs"
)

const (
	namespace = "wallet_agent"

	// DefaultJob is the Pushgateway job name used when none is configured.
	DefaultJob = "wallet-agent"
)

// Recorder holds the collectors of a single run.
type Recorder struct {
	registry *prometheus.Registry

	stageTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	transferValue prometheus.Gauge
	estimatedGas  prometheus.Gauge
	lastRun       prometheus.Gauge
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
	}

	r.stageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stage",
			Name:      "total",
			Help:      "Total number of pipeline stages run, by stage and error kind",
		},
		[]string{"stage", "result"},
	)

	r.stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "stage",
			Name:      "duration_seconds",
			Help:      "Time taken by a pipeline stage",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
		[]string{"stage"},
	)

	r.transferValue = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "transfer_value_wei",
		Help:      "Value of the last broadcast transfer in wei (float, may lose precision)",
	})

	r.estimatedGas = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "estimated_gas",
		Help:      "Gas estimated by the last successful simulation",
	})

	r.lastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run finished",
	})

	r.registry.MustRegister(r.stageTotal, r.stageDuration, r.transferValue, r.estimatedGas, r.lastRun)

	return r
}

// Registry exposes the underlying registry, e.g. for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveStage records one finished stage. The result label is the error kind,
// "none" on success.
func (r *Recorder) ObserveStage(stage string, took time.Duration, err error) {
	r.stageTotal.WithLabelValues(stage, errs.Kind(err)).Inc()
	r.stageDuration.WithLabelValues(stage).Observe(took.Seconds())
}

// SetEstimatedGas records the gas estimate of a successful simulation.
func (r *Recorder) SetEstimatedGas(gas uint64) {
	r.estimatedGas.Set(float64(gas))
}

// SetTransferValue records the value of a broadcast transfer.
func (r *Recorder) SetTransferValue(valueWei float64) {
	r.transferValue.Set(valueWei)
}

// Push sends all collected metrics to the Pushgateway at url, replacing the
// metrics of job, grouped by instance.
func (r *Recorder) Push(ctx context.Context, url, job, instance string) error {
	if job == "" {
		job = DefaultJob
	}

	r.lastRun.SetToCurrentTime()

	pusher := push.New(url, job).Gatherer(r.registry)
	if instance != "" {
		pusher = pusher.Grouping("instance", instance)
	}

	if err := pusher.PushContext(ctx); err != nil {
		return errors.Wrapf(err, "failed to push metrics to %s", url)
	}

	return nil
}
