package observability

import (
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/config"
)

// GetObservabilityConfig creates observability config from provided config
func GetObservabilityConfig(cfg *config.Config, version string) ObservabilityConfig {
	if cfg == nil {
		return ObservabilityConfig{
			ServiceName:    "atsbuilder",
			ServiceVersion: version,
			Enabled:        true,
			ConsoleOutput:  true,
			PrettyPrint:    true,
			SampleRate:     1.0,
			Prometheus:     GetPrometheusConfig(cfg),
		}
	}

	obsConfig := cfg.Observability

	// Use app version if service version not specified
	serviceVersion := obsConfig.ServiceVersion
	if serviceVersion == "" {
		serviceVersion = version
	}

	return ObservabilityConfig{
		ServiceName:        obsConfig.ServiceName,
		ServiceVersion:     serviceVersion,
		ServiceInstance:    obsConfig.ServiceInstance,
		Enabled:            obsConfig.Enabled,
		ConsoleOutput:      obsConfig.ConsoleOutput,
		PrettyPrint:        obsConfig.Console.PrettyPrint,
		SampleRate:         obsConfig.SampleRate,
		Prometheus:         GetPrometheusConfig(cfg),
		OTLP:               obsConfig.OTLP,
		CustomMetrics:      obsConfig.CustomMetrics,
		CollectionInterval: obsConfig.Metrics.CollectionInterval,
	}
}
