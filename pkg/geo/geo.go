// Package geo provides the planar and polygonal geometry primitives used by
// the polyhedron engine and the scene tree: planes, rays, convex polygons
// and axis-aligned box helpers. All positions are v3.Vec and all boxes are
// sdf.Box3 from the sdfx library; this package only adds the predicates and
// constructions that sdfx does not ship.
package geo

// DistEpsilon is the tolerance used when classifying a point against a
// plane. Points closer than this to the plane count as lying on it.
const DistEpsilon = 1e-6

// VertexEpsilon is the tolerance used when merging positions that are
// supposed to denote the same vertex.
const VertexEpsilon = 1e-6

// Axis identifies one of the three world axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "unknown"
	}
}
