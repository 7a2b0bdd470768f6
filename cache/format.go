package cache

import (
	"errors"
	"fmt"
)

// Version is the cache format version written by this package.
const Version = 1

const (
	magic             = "IFCB"
	headerSize        = 20
	sectionHeaderSize = 24
)

var (
	// ErrCorrupt is returned when a cache blob is truncated, has a bad magic
	// or checksum or decodes to inconsistent data.
	ErrCorrupt = errors.New("cache: corrupt blob")

	// ErrVersionMismatch is returned when a cache blob was written by another
	// format version. Callers should re-parse the source.
	ErrVersionMismatch = errors.New("cache: version mismatch")
)

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))
}

// SectionID identifies a section.
type SectionID uint16

const (
	SectionMeta SectionID = iota + 1
	SectionStrings
	SectionColumns
	SectionEdgesForward
	SectionEdgesInverse
	SectionPropertySets
	SectionQuantitySets
	SectionRefs
	SectionGeometry
	SectionSource
)

func (id SectionID) String() string {
	switch id {
	case SectionMeta:
		return "meta"
	case SectionStrings:
		return "strings"
	case SectionColumns:
		return "columns"
	case SectionEdgesForward:
		return "edges_forward"
	case SectionEdgesInverse:
		return "edges_inverse"
	case SectionPropertySets:
		return "property_sets"
	case SectionQuantitySets:
		return "quantity_sets"
	case SectionRefs:
		return "refs"
	case SectionGeometry:
		return "geometry"
	case SectionSource:
		return "source"
	default:
		return fmt.Sprintf("section(%d)", uint16(id))
	}
}

var requiredSections = []SectionID{
	SectionMeta, SectionStrings, SectionColumns,
	SectionEdgesForward, SectionEdgesInverse,
	SectionPropertySets, SectionQuantitySets,
}

// Header flags record which optional sections are present.
const (
	FlagRefs uint32 = 1 << iota
	FlagGeometry
	FlagSource
)
