package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/ecmprep/core/factory"
	coremetrics "github.com/kilianp07/ecmprep/core/metrics"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	ev := coremetrics.PartitionEvent{Scheme: "Technical potential", Vintage: "new", Status: coremetrics.StatusOK, Duration: time.Millisecond}
	require.NoError(t, sink.RecordPartition(ev))
	require.NoError(t, sink.RecordPartition(ev))
	require.NoError(t, sink.RecordFallback(coremetrics.FallbackEvent{Reason: "missing"}))

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.partitions.WithLabelValues("Technical potential", "new", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.fallbacks.WithLabelValues("missing")))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, n := range []string{"ecm_partitions_total", "ecm_partition_duration_seconds", "ecm_diffusion_fallbacks_total"} {
		assert.True(t, names[n], "missing metric %s", n)
	}
}

// Registering twice on the same registry reuses the existing collectors.
func TestPromSinkReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	s1, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	s2, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	require.NoError(t, s1.RecordPartition(coremetrics.PartitionEvent{Scheme: "s", Vintage: "new", Status: "ok"}))
	assert.Equal(t, 1.0, testutil.ToFloat64(s2.partitions.WithLabelValues("s", "new", "ok")))
}

func TestRegisteredSinks(t *testing.T) {
	names := map[string]bool{}
	for _, n := range coremetrics.SinkNames() {
		names[n] = true
	}
	for _, n := range []string{"nop", "prometheus", "influx"} {
		if !names[n] {
			t.Fatalf("sink %q not registered", n)
		}
	}
}

func TestPrometheusSinkFromRegistry(t *testing.T) {
	sink, err := coremetrics.NewMetricsSink([]factory.ModuleConfig{{Type: "prometheus", Conf: map[string]any{"unused": 1}}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := sink.(*PromSink); !ok {
		t.Fatalf("expected *PromSink, got %T", sink)
	}
}
