package property

import (
	"io"
	"log/slog"

	"github.com/hupe1980/ifcgo/internal/checkpoint"
)

// Options configures the extractors.
type Options struct {
	// Logger receives per-record debug output and one summary record per pass.
	// Defaults to a discarding logger.
	Logger *slog.Logger
	// Progress is invoked at yield points with the "properties" or "quantities" phase.
	Progress func(phase string, percent float64)
	// CheckpointInterval is the number of sets between yield points.
	CheckpointInterval int
}

func buildOptions(optFns []func(*Options)) Options {
	o := Options{CheckpointInterval: checkpoint.DefaultInterval}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}
