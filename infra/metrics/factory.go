package metrics

import (
	"github.com/kilianp07/ecmprep/core/factory"
	coremetrics "github.com/kilianp07/ecmprep/core/metrics"
)

// init registers built-in metrics sinks.
func init() {
	// metrics.prometheus_port controls the /metrics server; the sink takes no options.
	_ = coremetrics.RegisterMetricsSink("prometheus", func(map[string]any) (coremetrics.MetricsSink, error) {
		return NewPromSink()
	})

	_ = coremetrics.RegisterMetricsSink("influx", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})
}
