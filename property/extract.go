package property

import (
	"context"
	"log/slog"

	"github.com/hupe1980/ifcgo/internal/checkpoint"
	"github.com/hupe1980/ifcgo/step"
)

const (
	// PhaseProperties is the progress phase reported by ExtractPropertySets.
	PhaseProperties = "properties"
	// PhaseQuantities is the progress phase reported by ExtractQuantitySets.
	PhaseQuantities = "quantities"
)

// Stats summarises an extraction pass.
type Stats struct {
	// Sets is the number of sets extracted.
	Sets int
	// MissingName counts sets skipped because their name was empty or absent.
	MissingName int
	// InvalidPropertyName counts properties or quantities skipped because their name was not a string.
	InvalidPropertyName int
	// Malformed counts member records that were missing or failed to decode.
	Malformed int
	// Unsupported counts member records of a type the extractor does not read.
	Unsupported int
}

// ExtractPropertySets reads all IFCPROPERTYSET records of idx. The only error
// is the context error after cancellation.
func ExtractPropertySets(ctx context.Context, src []byte, idx *step.Index, optFns ...func(*Options)) ([]Set, Stats, error) {
	o := buildOptions(optFns)
	x := extractor{src: src, idx: idx, logger: o.Logger}
	sets, err := x.run(ctx, o, PhaseProperties, "IFCPROPERTYSET", 4, x.property)
	return sets, x.stats, err
}

// ExtractQuantitySets reads all IFCELEMENTQUANTITY records of idx. The only
// error is the context error after cancellation.
func ExtractQuantitySets(ctx context.Context, src []byte, idx *step.Index, optFns ...func(*Options)) ([]Set, Stats, error) {
	o := buildOptions(optFns)
	x := extractor{src: src, idx: idx, logger: o.Logger}
	sets, err := x.run(ctx, o, PhaseQuantities, "IFCELEMENTQUANTITY", 5, x.quantity)
	return sets, x.stats, err
}

type extractor struct {
	src    []byte
	idx    *step.Index
	logger *slog.Logger
	stats  Stats
}

// memberFunc decodes one member record into the set.
type memberFunc func(set *Set, ref step.EntityRef)

// run walks the set records of typ. Both set layouts carry GlobalId at 0 and
// Name at 2; members is the attribute holding the member references.
func (x *extractor) run(ctx context.Context, o Options, phase, typ string, members int, member memberFunc) ([]Set, error) {
	cp := checkpoint.New(ctx, phase, x.idx.Count(typ), o.CheckpointInterval, o.Progress)
	sets := make([]Set, 0, x.idx.Count(typ))
	for ref := range x.idx.ByType(typ) {
		if err := cp.Tick(); err != nil {
			return nil, err
		}
		attrs, ok := step.DecodePrefix(x.src, ref, members+1)
		if !ok {
			x.stats.Malformed++
			x.logger.Debug("skipping malformed set", "express_id", ref.ExpressID, "type", ref.Type, "line", ref.Line)
			continue
		}
		name, _ := attr(attrs, 2).AsString()
		if name == "" {
			x.stats.MissingName++
			x.logger.Debug("skipping set without name", "express_id", ref.ExpressID, "type", ref.Type)
			continue
		}
		set := Set{ExpressID: ref.ExpressID, Name: name}
		set.GlobalID, _ = attr(attrs, 0).AsString()
		for _, id := range attr(attrs, members).Refs() {
			mref, ok := x.idx.Get(id)
			if !ok {
				x.stats.Malformed++
				continue
			}
			member(&set, mref)
		}
		sets = append(sets, set)
	}
	x.stats.Sets = len(sets)
	cp.Done()

	if x.stats.MissingName > 0 || x.stats.InvalidPropertyName > 0 || x.stats.Malformed > 0 {
		x.logger.Info("skipped records during "+phase+" extraction",
			"missing_name", x.stats.MissingName,
			"invalid_property_name", x.stats.InvalidPropertyName,
			"malformed", x.stats.Malformed,
		)
	}
	return sets, nil
}

func (x *extractor) property(set *Set, ref step.EntityRef) {
	var valueAt int
	switch ref.Type {
	case "IFCPROPERTYSINGLEVALUE", "IFCPROPERTYENUMERATEDVALUE", "IFCPROPERTYLISTVALUE":
		valueAt = 2
	case "IFCPROPERTYBOUNDEDVALUE":
		valueAt = 3
	default:
		x.stats.Unsupported++
		return
	}
	attrs, ok := step.DecodePrefix(x.src, ref, valueAt+1)
	if !ok {
		x.stats.Malformed++
		return
	}
	name, ok := attr(attrs, 0).AsString()
	if !ok {
		x.stats.InvalidPropertyName++
		x.logger.Debug("skipping property with invalid name", "express_id", ref.ExpressID, "set", set.ExpressID)
		return
	}

	var v Value
	if ref.Type == "IFCPROPERTYBOUNDEDVALUE" {
		v = bounded(attr(attrs, 3), attr(attrs, 2))
	} else {
		v = fromStep(attr(attrs, 2))
	}
	set.Properties = append(set.Properties, Property{Name: name, Value: v})
}

// bounded renders a bounded value as "lower..upper". A missing bound renders empty.
func bounded(lower, upper step.Value) Value {
	lo, hi := fromStep(lower), fromStep(upper)
	if lo.Kind == ValueNull && hi.Kind == ValueNull {
		return Value{}
	}
	typ := lo.Type
	if typ == "" {
		typ = hi.Type
	}
	return Value{Kind: ValueString, Type: typ, String: lo.Text() + ".." + hi.Text()}
}

func (x *extractor) quantity(set *Set, ref step.EntityRef) {
	kind, ok := quantityKinds[ref.Type]
	if !ok {
		x.stats.Unsupported++
		return
	}
	attrs, ok := step.DecodePrefix(x.src, ref, 5)
	if !ok {
		x.stats.Malformed++
		return
	}
	name, ok := attr(attrs, 0).AsString()
	if !ok {
		x.stats.InvalidPropertyName++
		x.logger.Debug("skipping quantity with invalid name", "express_id", ref.ExpressID, "set", set.ExpressID)
		return
	}
	value, ok := attr(attrs, 3).AsNumber()
	if !ok {
		x.stats.Malformed++
		return
	}
	q := Quantity{Name: name, Kind: kind, Value: value}
	q.Formula, _ = attr(attrs, 4).AsString()
	set.Quantities = append(set.Quantities, q)
}

func attr(attrs []step.Value, i int) step.Value {
	if i < len(attrs) {
		return attrs[i]
	}
	return step.Value{}
}
