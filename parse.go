package ifcgo

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/ifcgo/columnar"
	"github.com/hupe1980/ifcgo/graph"
	"github.com/hupe1980/ifcgo/internal/checkpoint"
	"github.com/hupe1980/ifcgo/property"
	"github.com/hupe1980/ifcgo/spatial"
	"github.com/hupe1980/ifcgo/step"
)

const (
	// PhaseHeader is the phase name of header parsing in errors and logs.
	PhaseHeader = "header"
	// PhaseColumnar is the progress phase of the columnar pass.
	PhaseColumnar = "columnar"
)

// rootAttrs is the number of leading attributes the columnar pass decodes:
// the IfcRoot attributes plus ObjectPlacement and Representation.
const rootAttrs = 7

// Parse runs the ingestion pipeline over src and returns the model.
//
// Malformed records are skipped and counted in Model.Diagnostics. The only
// fatal errors are a missing or ambiguous IFCPROJECT (ErrNoRootEntity) and
// cancellation of ctx. Failures are returned as *ParseError naming the phase.
//
// src must not be modified while the model is in use.
func Parse(ctx context.Context, src []byte, optFns ...Option) (*Model, error) {
	return parse(ctx, src, applyOptions(optFns))
}

func parse(ctx context.Context, src []byte, o options) (*Model, error) {
	start := time.Now()
	m, err := (&pipeline{ctx: ctx, src: src, o: o}).run()
	elapsed := time.Since(start)

	entities := 0
	if m != nil {
		entities = m.store.Count()
	}
	o.logger.LogParse(ctx, len(src), entities, elapsed, err)
	o.metricsCollector.RecordParse(len(src), entities, elapsed, err)
	if err != nil {
		return nil, err
	}
	o.logger.LogDiagnostics(ctx, m.diag)
	o.metricsCollector.RecordSkipped(m.diag)
	return m, nil
}

type pipeline struct {
	ctx context.Context
	src []byte
	o   options
	m   *Model
}

func (p *pipeline) run() (*Model, error) {
	p.m = &Model{src: p.src}
	steps := []struct {
		phase string
		fn    func() error
	}{
		{PhaseHeader, p.header},
		{step.PhaseTokenize, p.tokenize},
		{PhaseColumnar, p.columnar},
		{graph.PhaseRelationships, p.relationships},
		{property.PhaseProperties, p.propertySets},
		{property.PhaseQuantities, p.quantitySets},
		{spatial.PhaseHierarchy, p.hierarchy},
	}
	for _, s := range steps {
		start := time.Now()
		if err := s.fn(); err != nil {
			return nil, translateError(s.phase, err)
		}
		elapsed := time.Since(start)
		p.o.logger.LogPhase(p.ctx, s.phase, elapsed)
		p.o.metricsCollector.RecordPhase(s.phase, elapsed)
	}

	m := p.m
	m.psetIndex = property.DeriveByEntity(m.psets, m.graph)
	m.qsetIndex = property.DeriveByEntity(m.qsets, m.graph)
	if !p.o.keepRefs {
		m.index = nil
	}
	return m, nil
}

// header is best effort: files without a header still parse.
func (p *pipeline) header() error {
	h, err := step.ParseHeader(p.src)
	switch {
	case errors.Is(err, step.ErrNoHeader):
		p.o.logger.DebugContext(p.ctx, "source has no header")
	case err != nil:
		p.o.logger.WarnContext(p.ctx, "unreadable header", "error", err)
	default:
		p.m.header = h
	}
	return p.ctx.Err()
}

func (p *pipeline) tokenize() error {
	idx, err := step.BuildIndex(p.ctx, p.src, func(so *step.Options) {
		so.Logger = p.o.logger.Logger
		so.Progress = p.o.progress
		so.CheckpointInterval = p.o.checkpointInterval
	})
	if err != nil {
		return err
	}
	p.m.index = idx
	p.m.diag.MalformedEntity += idx.Skipped()
	return nil
}

func (p *pipeline) columnar() error {
	refs := p.m.index.Refs()
	b := columnar.NewBuilder(len(refs))
	cp := checkpoint.New(p.ctx, PhaseColumnar, len(refs), p.o.checkpointInterval, checkpoint.ProgressFunc(p.o.progress))
	for _, ref := range refs {
		if err := cp.Tick(); err != nil {
			return err
		}
		row := columnar.Row{ExpressID: ref.ExpressID, Type: ref.Type}
		attrs, ok := step.DecodePrefix(p.src, ref, rootAttrs)
		if ok {
			fillRoot(&row, attrs)
			row.HasGeometry = p.o.geometry(ref, attrs)
		} else {
			// The row is kept so that type lookups still see the record.
			p.m.diag.MalformedEntity++
			p.o.logger.DebugContext(p.ctx, "undecodable entity", "express_id", ref.ExpressID, "line", ref.Line)
		}
		b.Add(row)
	}
	cp.Done()

	store, err := b.Build()
	if err != nil {
		return err
	}
	p.m.store = store
	return nil
}

func (p *pipeline) relationships() error {
	g, stats, err := graph.Extract(p.ctx, p.src, p.m.index, func(gopt *graph.Options) {
		gopt.Logger = p.o.logger.Logger
		gopt.Progress = p.o.progress
		gopt.CheckpointInterval = p.o.checkpointInterval
	})
	if err != nil {
		return err
	}
	p.m.graph = g
	p.m.diag.RelationshipShape += stats.Dropped
	return nil
}

func (p *pipeline) propertySets() error {
	sets, stats, err := property.ExtractPropertySets(p.ctx, p.src, p.m.index, p.propertyOptions)
	if err != nil {
		return err
	}
	p.m.psets = property.NewTable(sets)
	p.m.diag.PropertySetMissingName += stats.MissingName
	p.addMemberStats(stats)
	return nil
}

func (p *pipeline) quantitySets() error {
	sets, stats, err := property.ExtractQuantitySets(p.ctx, p.src, p.m.index, p.propertyOptions)
	if err != nil {
		return err
	}
	p.m.qsets = property.NewTable(sets)
	p.m.diag.QuantitySetMissingName += stats.MissingName
	p.addMemberStats(stats)
	return nil
}

func (p *pipeline) propertyOptions(po *property.Options) {
	po.Logger = p.o.logger.Logger
	po.Progress = p.o.progress
	po.CheckpointInterval = p.o.checkpointInterval
}

func (p *pipeline) addMemberStats(stats property.Stats) {
	p.m.diag.InvalidPropertyName += stats.InvalidPropertyName
	p.m.diag.MalformedMember += stats.Malformed
	p.m.diag.UnsupportedProperty += stats.Unsupported
}

func (p *pipeline) hierarchy() error {
	h, err := spatial.Build(p.ctx, spatial.Input{
		Entities:  p.m.store,
		Graph:     p.m.graph,
		Elevation: spatial.SourceElevation(p.src, p.m.index),
	}, func(so *spatial.Options) {
		so.Logger = p.o.logger.Logger
		so.Progress = p.o.progress
		so.CheckpointInterval = p.o.checkpointInterval
	})
	if err != nil {
		return err
	}
	p.m.hierarchy = h
	return nil
}

// fillRoot copies the IfcRoot attributes (GlobalId, Name, Description,
// ObjectType) into row. A record is treated as rooted by shape: a plain
// string id, an OwnerHistory reference or $, and a plain string or $ name.
// The id itself is not validated, so exporters writing UUIDs or short ids
// keep their names. Other records (geometry, units) only get a type.
func fillRoot(row *columnar.Row, attrs []step.Value) {
	if !isRooted(attrs) {
		return
	}
	row.GlobalID = attrs[0].Str
	row.Name = stringAttr(attrs, 2)
	row.Description = stringAttr(attrs, 3)
	row.ObjectType = stringAttr(attrs, 4)
}

func isRooted(attrs []step.Value) bool {
	if len(attrs) < 3 || attrs[0].Kind != step.KindString {
		return false
	}
	if k := attrs[1].Kind; k != step.KindRef && k != step.KindNull {
		return false
	}
	k := attrs[2].Kind
	return k == step.KindString || k == step.KindNull
}

func stringAttr(attrs []step.Value, i int) string {
	if i >= len(attrs) {
		return ""
	}
	s, _ := attrs[i].AsString()
	return s
}
