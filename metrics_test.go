package keyresolver

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PrometheusMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewPrometheusMetricsWithRegisterer(registry)

	metrics.IncCounter("jwks_fetch_total", nil)
	metrics.IncCounter("jwks_fetch_total", nil)
	metrics.ObserveHistogram("jwks_fetch_duration_seconds", 0.25, nil)
	metrics.SetGauge("jwks_cached_keys", 5, nil)

	families, err := registry.Gather()
	require.NoError(t, err)

	byName := make(map[string]float64)
	for _, family := range families {
		switch family.GetName() {
		case "jwks_fetch_total":
			byName[family.GetName()] = family.GetMetric()[0].GetCounter().GetValue()
		case "jwks_cached_keys":
			byName[family.GetName()] = family.GetMetric()[0].GetGauge().GetValue()
		case "jwks_fetch_duration_seconds":
			byName[family.GetName()] = float64(family.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}

	assert.Equal(t, 2.0, byName["jwks_fetch_total"])
	assert.Equal(t, 5.0, byName["jwks_cached_keys"])
	assert.Equal(t, 1.0, byName["jwks_fetch_duration_seconds"])
}

func Test_PrometheusMetrics_ConcurrentRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewPrometheusMetricsWithRegisterer(registry)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				metrics.IncCounter("jwks_cache_hit_total", nil)
			}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, 1000.0, families[0].GetMetric()[0].GetCounter().GetValue())
}

func Test_NoopMetrics(t *testing.T) {
	metrics := &NoopMetrics{}
	metrics.IncCounter("anything", map[string]string{"a": "b"})
	metrics.ObserveHistogram("anything", 1, nil)
	metrics.SetGauge("anything", 1, nil)
}
