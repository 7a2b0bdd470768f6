package spatial

// Spatial structure type names.
const (
	TypeProject  = "IFCPROJECT"
	TypeSite     = "IFCSITE"
	TypeBuilding = "IFCBUILDING"
	TypeStorey   = "IFCBUILDINGSTOREY"
	TypeSpace    = "IFCSPACE"
)

var structureTypes = map[string]bool{
	TypeSite:     true,
	TypeBuilding: true,
	TypeStorey:   true,
	TypeSpace:    true,
}

// Node is one spatial structure element.
type Node struct {
	ExpressID uint32
	Type      string
	Name      string
	// Elevation is set for storeys whose elevation could be determined.
	Elevation *float64
	Children  []*Node
	// Elements are the ids directly contained in this node.
	Elements []uint32
}

// IsStorey reports whether n is a building storey.
func (n *Node) IsStorey() bool { return n.Type == TypeStorey }
