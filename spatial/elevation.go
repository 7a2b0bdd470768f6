package spatial

import "github.com/hupe1980/ifcgo/step"

// ElevationFunc returns the elevation of a storey.
type ElevationFunc func(id uint32) (float64, bool)

// SourceElevation returns an ElevationFunc that decodes storeys from src.
//
// Schema versions disagree on where the elevation lives, so the lookup is a
// heuristic: attribute 9, then 8, then the first number from attribute 7 on.
func SourceElevation(src []byte, idx *step.Index) ElevationFunc {
	return func(id uint32) (float64, bool) {
		ref, ok := idx.Get(id)
		if !ok {
			return 0, false
		}
		e, ok := step.Decode(src, ref)
		if !ok {
			return 0, false
		}
		return elevationOf(e)
	}
}

func elevationOf(e *step.Entity) (float64, bool) {
	for _, i := range []int{9, 8} {
		if v, ok := e.Attr(i).AsNumber(); ok {
			return v, true
		}
	}
	for i := 7; i < e.Len(); i++ {
		if v, ok := e.Attr(i).AsNumber(); ok {
			return v, true
		}
	}
	return 0, false
}

// ElevationMap adapts a precomputed id to elevation map, e.g. one restored
// from a cache.
func ElevationMap(m map[uint32]float64) ElevationFunc {
	return func(id uint32) (float64, bool) {
		v, ok := m[id]
		return v, ok
	}
}
