package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ifcgo"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheusCollector(reg)

	c.RecordParse(1024, 10, time.Millisecond, nil)
	c.RecordParse(10, 0, time.Millisecond, errors.New("boom"))
	c.RecordPhase("tokenize", time.Millisecond)
	c.RecordSkipped(ifcgo.Diagnostics{MalformedEntity: 2, UnsupportedProperty: 1})
	c.RecordCacheRead(false, time.Millisecond, nil)
	c.RecordCacheRead(true, time.Millisecond, nil)
	c.RecordCacheWrite(512, time.Millisecond, nil)

	assert.Equal(t, 1024.0, testutil.ToFloat64(c.parsedBytes))
	assert.Equal(t, 10.0, testutil.ToFloat64(c.entities))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.skipped.WithLabelValues("malformed_entity")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.skipped.WithLabelValues("unsupported_property")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheReads.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheReads.WithLabelValues("miss")))
	assert.Equal(t, 512.0, testutil.ToFloat64(c.cacheBytes))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "ifcgo_operation_latency_seconds")
	assert.Contains(t, names, "ifcgo_phase_latency_seconds")
}

func TestPrometheusCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusCollector(reg)
	assert.Panics(t, func() { NewPrometheusCollector(reg) })
}
