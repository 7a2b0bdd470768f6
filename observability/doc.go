// Package observability exports ifcgo metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	m, err := ifcgo.Parse(ctx, src, ifcgo.WithMetricsCollector(observability.NewPrometheusCollector(reg)))
//
// Serve reg with promhttp.HandlerFor to expose the metrics.
package observability
