package ifcgo

import (
	"log/slog"

	"github.com/hupe1980/ifcgo/internal/checkpoint"
	"github.com/hupe1980/ifcgo/step"
)

// ProgressFunc receives the current phase and its completion in percent.
type ProgressFunc func(phase string, percent float64)

// GeometryFunc decides whether an entity has a geometric representation,
// given its leading attributes (at most seven).
type GeometryFunc func(ref step.EntityRef, attrs []step.Value) bool

type options struct {
	logger             *Logger
	metricsCollector   MetricsCollector
	progress           ProgressFunc
	checkpointInterval int
	geometry           GeometryFunc
	keepRefs           bool
	maxParses          int
	memoryLimit        int64
}

// Option configures Parse, Open, ParseFiles and LoadCache.
type Option func(*options)

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	m, err := ifcgo.Parse(ctx, src, ifcgo.WithLogger(ifcgo.NewJSONLogger(slog.LevelInfo)))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithProgress sets a callback invoked at yield points of every phase.
// Calls are throttled and always end with 100 percent for a completed phase.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// WithCheckpointInterval sets the number of records processed between two
// yield points. Smaller values react faster to cancellation.
func WithCheckpointInterval(n int) Option {
	return func(o *options) {
		o.checkpointInterval = n
	}
}

// WithGeometryFunc replaces the default has-geometry rule, which requires
// an object placement and a representation reference (attributes 5 and 6).
func WithGeometryFunc(fn GeometryFunc) Option {
	return func(o *options) {
		o.geometry = fn
	}
}

// WithoutRefs drops the record index after parsing. The model then cannot
// decode entities on demand, which releases the index memory for callers
// that only use the columnar store.
func WithoutRefs() Option {
	return func(o *options) {
		o.keepRefs = false
	}
}

// WithParseLimits bounds ParseFiles: at most n parses run at once and the
// combined source size held by running parses stays below memoryLimit bytes
// (0 for no limit).
func WithParseLimits(n int, memoryLimit int64) Option {
	return func(o *options) {
		o.maxParses = n
		o.memoryLimit = memoryLimit
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:             NoopLogger(),
		metricsCollector:   NoopMetricsCollector{},
		checkpointInterval: checkpoint.DefaultInterval,
		geometry:           productGeometry,
		keepRefs:           true,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// productGeometry follows the IfcProduct layout: ObjectPlacement at 5 and
// Representation at 6.
func productGeometry(_ step.EntityRef, attrs []step.Value) bool {
	if len(attrs) < 7 {
		return false
	}
	_, placed := attrs[5].AsRef()
	_, represented := attrs[6].AsRef()
	return placed && represented
}
