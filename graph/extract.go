package graph

import (
	"context"

	"github.com/hupe1980/ifcgo/internal/checkpoint"
	"github.com/hupe1980/ifcgo/step"
)

// PhaseRelationships is the progress phase reported by Extract.
const PhaseRelationships = "relationships"

// Stats summarises an extraction pass.
type Stats struct {
	// Relationships is the number of relationship entities that produced edges.
	Relationships int
	// Dropped counts relationships whose attribute shape did not match the layout.
	Dropped int
	// Malformed counts relationship records that failed to decode.
	Malformed int
}

// Extract builds the relationship graph of the records in idx. Relationships
// with an unexpected attribute shape are dropped and counted; the only error
// is the context error after cancellation.
func Extract(ctx context.Context, src []byte, idx *step.Index, optFns ...func(*Options)) (*Graph, Stats, error) {
	o := buildOptions(optFns)
	cp := checkpoint.New(ctx, PhaseRelationships, idx.Len(), o.CheckpointInterval, o.Progress)

	b := NewBuilder()
	var stats Stats
	for _, ref := range idx.Refs() {
		if err := cp.Tick(); err != nil {
			return nil, Stats{}, err
		}
		l, ok := layouts[ref.Type]
		if !ok {
			continue
		}
		attrs, ok := step.DecodePrefix(src, ref, max(l.one, l.many)+1)
		if !ok {
			stats.Malformed++
			o.Logger.Warn("skipping malformed relationship", "express_id", ref.ExpressID, "type", ref.Type, "line", ref.Line)
			continue
		}
		source, targets, ok := l.endpoints(attrs)
		if !ok {
			stats.Dropped++
			o.Logger.Warn("unrecognized relationship shape", "express_id", ref.ExpressID, "type", ref.Type, "line", ref.Line)
			continue
		}
		for _, t := range targets {
			b.Add(Edge{Source: source, Target: t, RelationshipID: ref.ExpressID, Kind: l.kind})
		}
		stats.Relationships++
	}
	cp.Done()
	return b.Build(), stats, nil
}

func (l layout) endpoints(attrs []step.Value) (uint32, []uint32, bool) {
	if len(attrs) <= max(l.one, l.many) {
		return 0, nil, false
	}
	source, ok := attrs[l.one].AsRef()
	if !ok {
		return 0, nil, false
	}
	many := attrs[l.many]
	if l.manySingle {
		t, ok := many.AsRef()
		if !ok {
			return 0, nil, false
		}
		return source, []uint32{t}, true
	}
	if _, ok := many.AsList(); !ok {
		return 0, nil, false
	}
	return source, many.Refs(), true
}
