package cache

import (
	"fmt"
	"maps"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/ifcgo/columnar"
	"github.com/hupe1980/ifcgo/graph"
	"github.com/hupe1980/ifcgo/internal/conv"
	"github.com/hupe1980/ifcgo/property"
	"github.com/hupe1980/ifcgo/step"
)

func encodeMeta(s *Snapshot) ([]byte, error) {
	p := newBuffer(nil)
	p.writeString(s.Schema)
	ids := slices.Sorted(maps.Keys(s.Elevations))
	p.writeLen(len(ids))
	for _, id := range ids {
		p.writeUint32(id)
		p.writeFloat64(s.Elevations[id])
	}
	return p.buf, p.err
}

func decodeMeta(b []byte, s *Snapshot) error {
	p := newBuffer(b)
	s.Schema = p.readString()
	n := p.readLen(12)
	s.Elevations = make(map[uint32]float64, n)
	for range n {
		id := p.readUint32()
		s.Elevations[id] = p.readFloat64()
	}
	return p.done()
}

func encodeStrings(c columnar.Columns) ([]byte, error) {
	p := newBuffer(nil)
	p.writeLen(len(c.Strings))
	for _, s := range c.Strings {
		p.writeString(s)
	}
	return p.buf, p.err
}

func decodeStrings(b []byte) ([]string, error) {
	p := newBuffer(b)
	n := p.readLen(4)
	out := make([]string, n)
	for i := range out {
		out[i] = p.readString()
	}
	return out, p.done()
}

func encodeColumns(c columnar.Columns) ([]byte, error) {
	p := newBuffer(make([]byte, 0, len(c.ExpressID)*22+64))
	p.writeLen(len(c.Types))
	for _, t := range c.Types {
		p.writeString(t)
	}
	p.writeUint32s(c.ExpressID)
	p.writeUint16s(c.TypeEnum)
	p.writeUint32s(c.GlobalID)
	p.writeUint32s(c.Name)
	p.writeUint32s(c.Description)
	p.writeUint32s(c.ObjectType)

	geometry := c.Geometry
	if geometry == nil {
		geometry = roaring.New()
	}
	bm, err := geometry.ToBytes()
	if err != nil {
		return nil, err
	}
	p.writeBytes(bm)
	return p.buf, p.err
}

func decodeColumns(b []byte, c *columnar.Columns) error {
	p := newBuffer(b)
	n := p.readLen(4)
	c.Types = make([]string, n)
	for i := range c.Types {
		c.Types[i] = p.readString()
	}
	c.ExpressID = p.readUint32s()
	c.TypeEnum = p.readUint16s()
	c.GlobalID = p.readUint32s()
	c.Name = p.readUint32s()
	c.Description = p.readUint32s()
	c.ObjectType = p.readUint32s()
	bm := p.readBytes()
	if err := p.done(); err != nil {
		return err
	}
	c.Geometry = roaring.New()
	if err := c.Geometry.UnmarshalBinary(bm); err != nil {
		return fmt.Errorf("geometry bitmap: %w", err)
	}
	return nil
}

func encodeView(v graph.View) ([]byte, error) {
	p := newBuffer(make([]byte, 0, len(v.IDs)*8+len(v.Adj)*9+16))
	p.writeUint32s(v.IDs)
	p.writeUint32s(v.Offsets)
	p.writeLen(len(v.Adj))
	for _, a := range v.Adj {
		p.writeUint32(a.ID)
		p.writeUint32(a.RelationshipID)
		p.writeUint8(uint8(a.Kind))
	}
	return p.buf, p.err
}

func decodeView(b []byte) (graph.View, error) {
	p := newBuffer(b)
	v := graph.View{
		IDs:     p.readUint32s(),
		Offsets: p.readUint32s(),
	}
	v.Adj = make([]graph.Adj, p.readLen(9))
	for i := range v.Adj {
		v.Adj[i] = graph.Adj{
			ID:             p.readUint32(),
			RelationshipID: p.readUint32(),
			Kind:           graph.Kind(p.readUint8()),
		}
	}
	return v, p.done()
}

func encodeSets(sets []property.Set) ([]byte, error) {
	p := newBuffer(nil)
	p.writeLen(len(sets))
	for _, s := range sets {
		p.writeUint32(s.ExpressID)
		p.writeString(s.GlobalID)
		p.writeString(s.Name)
		p.writeLen(len(s.Properties))
		for _, prop := range s.Properties {
			p.writeString(prop.Name)
			p.writeUint8(uint8(prop.Value.Kind))
			p.writeString(prop.Value.Type)
			p.writeString(prop.Value.String)
			p.writeFloat64(prop.Value.Number)
			p.writeBool(prop.Value.Bool)
		}
		p.writeLen(len(s.Quantities))
		for _, q := range s.Quantities {
			p.writeString(q.Name)
			p.writeUint8(uint8(q.Kind))
			p.writeFloat64(q.Value)
			p.writeString(q.Formula)
		}
	}
	return p.buf, p.err
}

func decodeSets(b []byte) ([]property.Set, error) {
	p := newBuffer(b)
	sets := make([]property.Set, p.readLen(16))
	for i := range sets {
		s := &sets[i]
		s.ExpressID = p.readUint32()
		s.GlobalID = p.readString()
		s.Name = p.readString()
		if n := p.readLen(22); n > 0 {
			s.Properties = make([]property.Property, n)
			for j := range s.Properties {
				s.Properties[j] = property.Property{
					Name: p.readString(),
					Value: property.Value{
						Kind:   property.ValueKind(p.readUint8()),
						Type:   p.readString(),
						String: p.readString(),
						Number: p.readFloat64(),
						Bool:   p.readBool(),
					},
				}
			}
		}
		if n := p.readLen(17); n > 0 {
			s.Quantities = make([]property.Quantity, n)
			for j := range s.Quantities {
				s.Quantities[j] = property.Quantity{
					Name:    p.readString(),
					Kind:    property.QuantityKind(p.readUint8()),
					Value:   p.readFloat64(),
					Formula: p.readString(),
				}
			}
		}
	}
	return sets, p.done()
}

// Refs share a type table; each ref stores the type's position in it.
func encodeRefs(refs []step.EntityRef) ([]byte, error) {
	types := make(map[string]uint32)
	var names []string
	for _, r := range refs {
		if _, ok := types[r.Type]; !ok {
			types[r.Type] = uint32(len(names))
			names = append(names, r.Type)
		}
	}

	p := newBuffer(make([]byte, 0, len(refs)*24+64))
	p.writeLen(len(names))
	for _, n := range names {
		p.writeString(n)
	}
	p.writeLen(len(refs))
	for _, r := range refs {
		p.writeUint32(r.ExpressID)
		p.writeUint32(types[r.Type])
		p.writeUint64(uint64(r.Offset))
		p.writeUint32(uint32(r.Length))
		p.writeUint32(uint32(r.Line))
	}
	return p.buf, p.err
}

func decodeRefs(b []byte) ([]step.EntityRef, error) {
	p := newBuffer(b)
	names := make([]string, p.readLen(4))
	for i := range names {
		names[i] = p.readString()
	}
	refs := make([]step.EntityRef, p.readLen(24))
	for i := range refs {
		id := p.readUint32()
		t := p.readUint32()
		if p.err == nil && int(t) >= len(names) {
			return nil, fmt.Errorf("type index %d out of range", t)
		}
		off, err := conv.Uint64ToInt(p.readUint64())
		if err != nil {
			return nil, err
		}
		refs[i] = step.EntityRef{
			ExpressID: id,
			Offset:    off,
			Length:    int(p.readUint32()),
			Line:      int(p.readUint32()),
		}
		if p.err == nil {
			refs[i].Type = names[t]
		}
	}
	return refs, p.done()
}

func encodeGeometry(g *Geometry) ([]byte, error) {
	p := newBuffer(nil)
	p.writeLen(len(g.Meshes))
	for _, m := range g.Meshes {
		p.writeUint32(m.ExpressID)
		for _, c := range m.Color {
			p.writeFloat32(c)
		}
		p.writeFloat32s(m.Positions)
		p.writeFloat32s(m.Normals)
		p.writeUint32s(m.Indices)
	}
	return p.buf, p.err
}

func decodeGeometry(b []byte) (*Geometry, error) {
	p := newBuffer(b)
	g := &Geometry{Meshes: make([]Mesh, p.readLen(32))}
	for i := range g.Meshes {
		m := &g.Meshes[i]
		m.ExpressID = p.readUint32()
		for j := range m.Color {
			m.Color[j] = p.readFloat32()
		}
		m.Positions = p.readFloat32s()
		m.Normals = p.readFloat32s()
		m.Indices = p.readUint32s()
	}
	return g, p.done()
}
