package metrics

import (
	coremetrics "github.com/kilianp07/ecmprep/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records partition runs in Prometheus metrics.
type PromSink struct {
	partitions *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	fallbacks  *prometheus.CounterVec
}

// NewPromSink registers partition metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	partitions, err := registerCounter(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecm_partitions_total",
		Help: "Total number of microsegment partitions",
	}, []string{"scheme", "vintage", "status"}))
	if err != nil {
		return nil, err
	}
	fallbacks, err := registerCounter(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecm_diffusion_fallbacks_total",
		Help: "Diffusion coefficients replaced by the default schedule",
	}, []string{"reason"}))
	if err != nil {
		return nil, err
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ecm_partition_duration_seconds",
		Help:    "Time spent partitioning one microsegment",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	}, []string{"scheme"})
	if err := reg.Register(duration); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		duration = are.ExistingCollector.(*prometheus.HistogramVec)
	}
	return &PromSink{partitions: partitions, duration: duration, fallbacks: fallbacks}, nil
}

func registerCounter(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec), nil
		}
		return nil, err
	}
	return c, nil
}

// RecordPartition increments the run counter and observes the duration.
func (s *PromSink) RecordPartition(ev coremetrics.PartitionEvent) error {
	s.partitions.WithLabelValues(ev.Scheme, ev.Vintage, ev.Status).Inc()
	s.duration.WithLabelValues(ev.Scheme).Observe(ev.Duration.Seconds())
	return nil
}

// RecordFallback counts a diffusion fallback by reason.
func (s *PromSink) RecordFallback(ev coremetrics.FallbackEvent) error {
	s.fallbacks.WithLabelValues(ev.Reason).Inc()
	return nil
}
