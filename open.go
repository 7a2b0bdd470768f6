package ifcgo

import (
	"context"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/ifcgo/internal/mmap"
	"github.com/hupe1980/ifcgo/internal/resource"
)

// Open maps the file at path read-only and parses it. The model references
// the mapping; call Close to release it.
func Open(ctx context.Context, path string, optFns ...Option) (*Model, error) {
	return open(ctx, path, applyOptions(optFns))
}

func open(ctx context.Context, path string, o options) (*Model, error) {
	o.logger = o.logger.WithFile(path)

	mp, err := mmap.Open(path)
	if err != nil {
		return nil, &PathError{Path: path, cause: err}
	}
	// The tokenizer reads front to back; the hint is advisory.
	_ = mp.Advise(mmap.AccessSequential)

	m, err := parse(ctx, mp.Bytes(), o)
	if err != nil {
		_ = mp.Close()
		return nil, &PathError{Path: path, cause: err}
	}
	// After the index is built, entities are decoded one record at a time.
	_ = mp.Advise(mmap.AccessRandom)
	m.closer = mp
	return m, nil
}

// ParseFiles opens and parses several files concurrently. Each parse runs on
// its own goroutine; WithParseLimits bounds how many run at once and how much
// source they may hold. Models are returned in the order of paths. On error
// all models opened so far are closed.
func ParseFiles(ctx context.Context, paths []string, optFns ...Option) ([]*Model, error) {
	o := applyOptions(optFns)
	parses := o.maxParses
	if parses <= 0 {
		parses = runtime.GOMAXPROCS(0)
	}
	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:    o.memoryLimit,
		MaxConcurrentParses: int64(parses),
	})

	models := make([]*Model, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := rc.AcquireParse(gctx); err != nil {
				return err
			}
			defer rc.ReleaseParse()

			fi, err := os.Stat(path)
			if err != nil {
				return &PathError{Path: path, cause: err}
			}
			if err := rc.AcquireMemory(gctx, fi.Size()); err != nil {
				return &PathError{Path: path, cause: err}
			}
			defer rc.ReleaseMemory(fi.Size())

			m, err := open(gctx, path, o)
			if err != nil {
				return err
			}
			models[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, m := range models {
			if m != nil {
				_ = m.Close()
			}
		}
		return nil, err
	}
	return models, nil
}
