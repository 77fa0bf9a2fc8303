package observability

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/arot/internal/config"
)

// Config is the observability view of the app configuration, plus the
// OTEL_* and logging overrides read straight from the environment.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	// SlowQueryThreshold marks GORM queries worth a warning. Receipt
	// allocation holds a row lock, so anything slow there shows up here.
	SlowQueryThreshold time.Duration

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64
	// TraceProbes also traces /health and /metrics.
	TraceProbes bool
}

func LoadConfig(cfg config.Config) Config {
	out := Config{
		ServiceName:        firstNonEmpty(cfg.AppName, "arot"),
		Environment:        env("DEPLOYMENT_ENV", cfg.Environment),
		Version:            env("SERVICE_VERSION", cfg.AppVersion),
		LogLevel:           strings.ToLower(firstNonEmpty(cfg.LogLevel, "info")),
		LogFormat:          strings.ToLower(env("LOG_FORMAT", "json")),
		SlowQueryThreshold: time.Duration(envInt("DB_SLOW_QUERY_MS", 200)) * time.Millisecond,

		OtelEnabled:          envBool("OTEL_ENABLED", cfg.IsProduction()),
		OtelExporterEndpoint: env("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint),
		OtelExporterProtocol: strings.ToLower(env("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", env("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))),
		OtelSamplingRatio:    envRatio("OTEL_SAMPLING_RATIO", 0.1),
		TraceProbes:          envBool("OTEL_TRACE_PROBES", false),
	}
	if out.SlowQueryThreshold <= 0 {
		out.SlowQueryThreshold = 200 * time.Millisecond
	}
	return out
}

// Debug is on for debug logging and for the counter laptop / test setups.
func (c Config) Debug() bool {
	if strings.EqualFold(strings.TrimSpace(c.LogLevel), "debug") {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func env(key, def string) string {
	return firstNonEmpty(os.Getenv(key), def)
}

func envBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	return def
}

func envInt(key string, def int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return parsed
}

// envRatio reads a sampling ratio, falling back to def outside [0, 1].
func envRatio(key string, def float64) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil || parsed < 0 || parsed > 1 {
		return def
	}
	return parsed
}
