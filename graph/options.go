package graph

import (
	"io"
	"log/slog"

	"github.com/hupe1980/ifcgo/internal/checkpoint"
)

// Options configures Extract.
type Options struct {
	// Logger receives a warning per dropped relationship. Defaults to a discarding logger.
	Logger *slog.Logger
	// Progress is invoked at yield points with the "relationships" phase.
	Progress func(phase string, percent float64)
	// CheckpointInterval is the number of records between yield points.
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
