package codec

import (
	"github.com/hupe1980/ifcgo/columnar"
	"github.com/hupe1980/ifcgo/property"
	"github.com/hupe1980/ifcgo/spatial"
	"github.com/hupe1980/ifcgo/step"
)

// RefValue is the JSON form of an entity reference, {"ref": 12}.
type RefValue struct {
	Ref uint32 `json:"ref"`
}

// EnumValue is the JSON form of an enumeration token, {"enum": "ELEMENT"}.
type EnumValue struct {
	Enum string `json:"enum"`
}

// TypedValue is the JSON form of a typed value wrapper such as IFCLABEL('x').
type TypedValue struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Attribute converts a decoded attribute into plain JSON data: null, number,
// bool, string, array, or one of RefValue, EnumValue and TypedValue.
func Attribute(v step.Value) any {
	switch v.Kind {
	case step.KindNumber:
		if v.Integer {
			return int64(v.Num)
		}
		return v.Num
	case step.KindBool:
		return v.Bool
	case step.KindString:
		return v.Str
	case step.KindRef:
		return RefValue{Ref: v.Ref}
	case step.KindEnum:
		return EnumValue{Enum: v.Str}
	case step.KindList:
		if v.IsTyped() {
			return TypedValue{Type: v.Type, Value: Attribute(v.Unwrap())}
		}
		items := make([]any, len(v.List))
		for i, item := range v.List {
			items[i] = Attribute(item)
		}
		return items
	default:
		return nil
	}
}

// EntityDoc describes one entity.
type EntityDoc struct {
	ExpressID    uint32         `json:"expressId"`
	Type         string         `json:"type"`
	GlobalID     string         `json:"globalId,omitempty"`
	Name         string         `json:"name,omitempty"`
	Description  string         `json:"description,omitempty"`
	ObjectType   string         `json:"objectType,omitempty"`
	HasGeometry  bool           `json:"hasGeometry,omitempty"`
	Attributes   []any          `json:"attributes,omitempty"`
	PropertySets []property.Set `json:"propertySets,omitempty"`
	QuantitySets []property.Set `json:"quantitySets,omitempty"`
}

// Entity builds the document of id from the columnar store. e adds the
// decoded attributes and may be nil when the source is not available.
func Entity(store *columnar.Store, id uint32, e *step.Entity) EntityDoc {
	doc := EntityDoc{
		ExpressID:   id,
		Type:        store.TypeName(id),
		GlobalID:    store.GlobalID(id),
		Name:        store.Name(id),
		Description: store.Description(id),
		ObjectType:  store.ObjectType(id),
		HasGeometry: store.HasGeometry(id),
	}
	if e != nil {
		if doc.Type == "" {
			doc.Type = e.Type
		}
		doc.Attributes = make([]any, len(e.Attributes))
		for i, v := range e.Attributes {
			doc.Attributes[i] = Attribute(v)
		}
	}
	return doc
}

// WithSets attaches property and quantity sets.
func (d EntityDoc) WithSets(psets, qsets []*property.Set) EntityDoc {
	d.PropertySets = derefSets(psets)
	d.QuantitySets = derefSets(qsets)
	return d
}

func derefSets(sets []*property.Set) []property.Set {
	if len(sets) == 0 {
		return nil
	}
	out := make([]property.Set, len(sets))
	for i, s := range sets {
		out[i] = *s
	}
	return out
}

// NodeDoc describes a spatial node and its subtree.
type NodeDoc struct {
	ExpressID uint32    `json:"expressId"`
	Type      string    `json:"type"`
	Name      string    `json:"name,omitempty"`
	Elevation *float64  `json:"elevation,omitempty"`
	Height    *float64  `json:"height,omitempty"`
	Elements  []uint32  `json:"elements,omitempty"`
	Children  []NodeDoc `json:"children,omitempty"`
}

// Tree converts the spatial hierarchy into a document tree. Storey heights
// are taken from h.
func Tree(h *spatial.Hierarchy) NodeDoc {
	return node(h, h.Project)
}

func node(h *spatial.Hierarchy, n *spatial.Node) NodeDoc {
	doc := NodeDoc{
		ExpressID: n.ExpressID,
		Type:      n.Type,
		Name:      n.Name,
		Elevation: n.Elevation,
		Elements:  n.Elements,
	}
	if height, ok := h.StoreyHeights[n.ExpressID]; ok {
		doc.Height = &height
	}
	for _, c := range n.Children {
		doc.Children = append(doc.Children, node(h, c))
	}
	return doc
}

// SummaryDoc summarizes a parsed model.
type SummaryDoc struct {
	Schema        string         `json:"schema,omitempty"`
	Entities      int            `json:"entities"`
	Types         map[string]int `json:"types"`
	Relationships int            `json:"relationships"`
	PropertySets  int            `json:"propertySets"`
	QuantitySets  int            `json:"quantitySets"`
	Storeys       int            `json:"storeys"`
	WithGeometry  int            `json:"withGeometry"`
}
