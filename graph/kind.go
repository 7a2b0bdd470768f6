package graph

import "strings"

// Kind is the relationship kind of an edge.
type Kind uint8

const (
	Aggregates Kind = iota
	ContainsElements
	DefinesByProperties
	DefinesByType
	AssociatesMaterial
	VoidsElement
	FillsElement

	numKinds
)

// Kinds lists all relationship kinds in declaration order.
var Kinds = [...]Kind{
	Aggregates, ContainsElements, DefinesByProperties, DefinesByType,
	AssociatesMaterial, VoidsElement, FillsElement,
}

var kindNames = [numKinds]string{
	Aggregates:          "Aggregates",
	ContainsElements:    "ContainsElements",
	DefinesByProperties: "DefinesByProperties",
	DefinesByType:       "DefinesByType",
	AssociatesMaterial:  "AssociatesMaterial",
	VoidsElement:        "VoidsElement",
	FillsElement:        "FillsElement",
}

// String returns the kind name.
func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "Unknown"
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k < numKinds }

// ParseKind parses a kind name as returned by String (case-insensitive).
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(k), true
		}
	}
	return 0, false
}

// layout locates the relating (one) and related (many) attributes of a
// relationship entity. manySingle is set for relationships whose related side
// is a single reference instead of an aggregate.
type layout struct {
	kind       Kind
	one        int
	many       int
	manySingle bool
}

var layouts = map[string]layout{
	"IFCRELAGGREGATES":                  {kind: Aggregates, one: 4, many: 5},
	"IFCRELCONTAINEDINSPATIALSTRUCTURE": {kind: ContainsElements, one: 5, many: 4},
	"IFCRELDEFINESBYPROPERTIES":         {kind: DefinesByProperties, one: 5, many: 4},
	"IFCRELDEFINESBYTYPE":               {kind: DefinesByType, one: 5, many: 4},
	"IFCRELASSOCIATESMATERIAL":          {kind: AssociatesMaterial, one: 5, many: 4},
	"IFCRELVOIDSELEMENT":                {kind: VoidsElement, one: 4, many: 5, manySingle: true},
	"IFCRELFILLSELEMENT":                {kind: FillsElement, one: 4, many: 5, manySingle: true},
}

// RelationshipTypes returns the entity type names decoded by Extract.
func RelationshipTypes() []string {
	types := make([]string, 0, len(layouts))
	for t := range layouts {
		types = append(types, t)
	}
	return types
}

// Direction selects the adjacency view used by Graph.Related.
type Direction uint8

const (
	// Forward follows edges from source to targets.
	Forward Direction = iota
	// Inverse follows edges from target to sources.
	Inverse
)

func (d Direction) String() string {
	if d == Inverse {
		return "inverse"
	}
	return "forward"
}
