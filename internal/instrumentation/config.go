package instrumentation

import (
	"fmt"
	"os"
	"strconv"
)

// Config controls OpenTelemetry instrumentation. Every field has an
// environment-variable counterpart read by DefaultConfig.
type Config struct {
	// ServiceName identifies this service in exported telemetry.
	ServiceName string

	// ServiceVersion is stamped on the telemetry resource.
	ServiceVersion string

	// ServiceInstanceID distinguishes instances; defaults to the hostname.
	ServiceInstanceID string

	// K8sNamespace and K8sPodName enrich the resource when running in
	// Kubernetes.
	K8sNamespace string
	K8sPodName   string

	// Enabled turns instrumentation on or off entirely.
	Enabled bool

	// MetricsExporter selects "prometheus", "otlp" or "stdout".
	MetricsExporter string

	// TracingExporter selects "otlp", "stdout" or "none".
	TracingExporter string

	// OTLPEndpoint is the collector endpoint, without protocol prefix.
	OTLPEndpoint string

	// OTLPInsecure switches OTLP export to plain HTTP. Local development
	// only; traces carry request metadata.
	OTLPInsecure bool

	// TraceSamplingRate is the head sampling ratio, 0.0 to 1.0.
	TraceSamplingRate float64

	// PrometheusEndpoint is the metrics endpoint path.
	PrometheusEndpoint string
}

// DefaultConfig returns a Config with defaults taken from the environment.
func DefaultConfig() Config {
	return Config{
		ServiceName:        envString("OTEL_SERVICE_NAME", "yt-mcp"),
		ServiceVersion:     "unknown",
		ServiceInstanceID:  envString("OTEL_SERVICE_INSTANCE_ID", ""),
		K8sNamespace:       envString("K8S_NAMESPACE", envString("POD_NAMESPACE", "")),
		K8sPodName:         envString("K8S_POD_NAME", envString("HOSTNAME", "")),
		Enabled:            envBool("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:    envString("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:    envString("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:       envString("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:       envBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate:  envFloat("OTEL_TRACES_SAMPLER_ARG", 0.1),
		PrometheusEndpoint: envString("PROMETHEUS_ENDPOINT", "/metrics"),
	}
}

// Validate rejects exporter and sampling combinations that cannot work.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	switch c.MetricsExporter {
	case "", ExporterPrometheus, ExporterOTLP, ExporterStdout:
	default:
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	switch c.TracingExporter {
	case "", ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	if c.OTLPEndpoint == "" {
		if c.TracingExporter == ExporterOTLP {
			return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
		}
		if c.MetricsExporter == ExporterOTLP {
			return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
		}
	}

	return nil
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

// Constants for metric label values.
const (
	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Verification result values
	ResultSuccess      = "success"
	ResultFailure      = "failure"
	ResultUnauthorized = "unauthorized"

	// Gmail operation types
	OperationList = "list"
	OperationGet  = "get"

	// Token store operation types
	OperationStoreGet = "get"
	OperationStorePut = "put"

	// Exporter types
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)
