package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/ifcgo"
)

var _ ifcgo.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector implements ifcgo.MetricsCollector on Prometheus metrics.
type PrometheusCollector struct {
	opLatency    *prometheus.HistogramVec
	phaseLatency *prometheus.HistogramVec
	parsedBytes  prometheus.Counter
	entities     prometheus.Counter
	skipped      *prometheus.CounterVec
	cacheReads   *prometheus.CounterVec
	cacheBytes   prometheus.Counter
}

// NewPrometheusCollector creates the metrics and registers them with reg.
// A nil reg selects prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &PrometheusCollector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ifcgo_operation_latency_seconds",
			Help:    "Latency of parses and cache operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"}),
		phaseLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ifcgo_phase_latency_seconds",
			Help:    "Latency of individual pipeline phases",
			Buckets: prometheus.DefBuckets,
		}, []string{"phase"}),
		parsedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ifcgo_parsed_bytes_total",
			Help: "Total source bytes parsed successfully",
		}),
		entities: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ifcgo_parsed_entities_total",
			Help: "Total entities indexed by successful parses",
		}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ifcgo_skipped_records_total",
			Help: "Total records skipped during parsing",
		}, []string{"reason"}),
		cacheReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ifcgo_cache_reads_total",
			Help: "Total cache lookups by result",
		}, []string{"result"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ifcgo_cache_written_bytes_total",
			Help: "Total bytes written to the cache",
		}),
	}
	reg.MustRegister(
		c.opLatency,
		c.phaseLatency,
		c.parsedBytes,
		c.entities,
		c.skipped,
		c.cacheReads,
		c.cacheBytes,
	)
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordParse implements ifcgo.MetricsCollector.
func (c *PrometheusCollector) RecordParse(size, entities int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("parse", status(err)).Observe(d.Seconds())
	if err == nil {
		c.parsedBytes.Add(float64(size))
		c.entities.Add(float64(entities))
	}
}

// RecordPhase implements ifcgo.MetricsCollector.
func (c *PrometheusCollector) RecordPhase(phase string, d time.Duration) {
	c.phaseLatency.WithLabelValues(phase).Observe(d.Seconds())
}

// RecordSkipped implements ifcgo.MetricsCollector.
func (c *PrometheusCollector) RecordSkipped(d ifcgo.Diagnostics) {
	for reason, n := range map[string]int{
		"malformed_entity":          d.MalformedEntity,
		"relationship_shape":        d.RelationshipShape,
		"property_set_missing_name": d.PropertySetMissingName,
		"quantity_set_missing_name": d.QuantitySetMissingName,
		"invalid_property_name":     d.InvalidPropertyName,
		"malformed_member":          d.MalformedMember,
		"unsupported_property":      d.UnsupportedProperty,
	} {
		if n > 0 {
			c.skipped.WithLabelValues(reason).Add(float64(n))
		}
	}
}

// RecordCacheWrite implements ifcgo.MetricsCollector.
func (c *PrometheusCollector) RecordCacheWrite(size int64, d time.Duration, err error) {
	c.opLatency.WithLabelValues("cache_write", status(err)).Observe(d.Seconds())
	if err == nil {
		c.cacheBytes.Add(float64(size))
	}
}

// RecordCacheRead implements ifcgo.MetricsCollector.
func (c *PrometheusCollector) RecordCacheRead(hit bool, d time.Duration, err error) {
	c.opLatency.WithLabelValues("cache_read", status(err)).Observe(d.Seconds())
	switch {
	case err != nil:
		c.cacheReads.WithLabelValues("error").Inc()
	case hit:
		c.cacheReads.WithLabelValues("hit").Inc()
	default:
		c.cacheReads.WithLabelValues("miss").Inc()
	}
}
