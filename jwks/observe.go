package jwks

// Logger is the logging interface the client writes to. It matches the
// adapters in the root package, so any of the zap/zerolog/logrus
// adapters there can be passed in directly.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Warnf(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Metrics receives counters and timings for cache and fetch activity.
// The root package provides a Prometheus-backed implementation.
type Metrics interface {
	IncCounter(name string, tags map[string]string)
	ObserveHistogram(name string, value float64, tags map[string]string)
	SetGauge(name string, value float64, tags map[string]string)
}

type noopMetrics struct{}

func (noopMetrics) IncCounter(name string, tags map[string]string)                      {}
func (noopMetrics) ObserveHistogram(name string, value float64, tags map[string]string) {}
func (noopMetrics) SetGauge(name string, value float64, tags map[string]string)         {}

// Tracer starts spans around network fetches. The root package provides
// an OpenTelemetry-backed implementation.
type Tracer interface {
	StartSpan(operationName string, opts ...interface{}) Span
}

// Span is a single traced operation.
type Span interface {
	Finish()
	SetTag(key string, value interface{})
	LogFields(fields ...interface{})
}

type noopTracer struct{}

func (noopTracer) StartSpan(operationName string, opts ...interface{}) Span { return noopSpan{} }

type noopSpan struct{}

func (noopSpan) Finish()                              {}
func (noopSpan) SetTag(key string, value interface{}) {}
func (noopSpan) LogFields(fields ...interface{})      {}

// Metric and span names emitted by the client.
const (
	metricCacheHit      = "jwks_cache_hit_total"
	metricCacheMiss     = "jwks_cache_miss_total"
	metricFetch         = "jwks_fetch_total"
	metricFetchError    = "jwks_fetch_error_total"
	metricFetchDuration = "jwks_fetch_duration_seconds"
	metricRateLimited   = "jwks_rate_limited_total"

	spanFetch = "jwks.fetch"
)
