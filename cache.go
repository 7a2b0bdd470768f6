package ifcgo

import (
	"context"
	"io"

	"github.com/hupe1980/ifcgo/cache"
	"github.com/hupe1980/ifcgo/property"
	"github.com/hupe1980/ifcgo/spatial"
	"github.com/hupe1980/ifcgo/step"
)

// PhaseCache is the phase name of cache decoding in errors and logs.
const PhaseCache = "cache"

// SaveCache writes the binary cache of m to w and returns the number of
// bytes written. The source is only included with cache.WithSource(true).
func SaveCache(w io.Writer, m *Model, opts ...cache.WriteOption) (int64, error) {
	return cache.Write(w, m.Snapshot(), opts...)
}

// LoadCache reads a binary cache from r and rebuilds the derived state: the
// spatial hierarchy and the per-entity property indexes.
//
// Corrupt input fails with cache.ErrCorrupt and blobs of another format
// version with cache.ErrVersionMismatch.
func LoadCache(ctx context.Context, r io.Reader, optFns ...Option) (*Model, error) {
	snap, err := cache.Read(r)
	if err != nil {
		return nil, err
	}
	return fromSnapshot(ctx, snap, applyOptions(optFns))
}

func fromSnapshot(ctx context.Context, snap *cache.Snapshot, o options) (*Model, error) {
	h, err := spatial.Build(ctx, spatial.Input{
		Entities:  snap.Store,
		Graph:     snap.Graph,
		Elevation: spatial.ElevationMap(snap.Elevations),
	}, func(so *spatial.Options) {
		so.Logger = o.logger.Logger
		so.Progress = o.progress
		so.CheckpointInterval = o.checkpointInterval
	})
	if err != nil {
		return nil, translateError(spatial.PhaseHierarchy, err)
	}

	m := &Model{
		src:       snap.Source,
		store:     snap.Store,
		graph:     snap.Graph,
		psets:     property.NewTable(snap.PropertySets),
		qsets:     property.NewTable(snap.QuantitySets),
		hierarchy: h,
		geometry:  snap.Geometry,
	}
	if snap.Schema != "" {
		m.header.Schemas = []string{snap.Schema}
	}
	if snap.Refs != nil && o.keepRefs {
		m.index = step.NewIndex(snap.Refs)
	}
	m.psetIndex = property.DeriveByEntity(m.psets, m.graph)
	m.qsetIndex = property.DeriveByEntity(m.qsets, m.graph)
	return m, nil
}
