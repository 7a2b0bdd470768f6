package step

import (
	"io"
	"log/slog"

	"github.com/hupe1980/ifcgo/internal/checkpoint"
)

// Options configures tokenization and indexing.
type Options struct {
	// Logger receives a warning per skipped record. Defaults to a discarding logger.
	Logger *slog.Logger
	// Progress is invoked at yield points with the "tokenize" phase.
	Progress func(phase string, percent float64)
	// CheckpointInterval is the number of records between yield points.
	CheckpointInterval int
}

func buildOptions(optFns []func(*Options)) Options {
	o := Options{
		CheckpointInterval: checkpoint.DefaultInterval,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}
