package metrics

import "github.com/kilianp07/ecmprep/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusPort, when set, serves /metrics on that port.
	PrometheusPort string `json:"prometheus_port"`
}
