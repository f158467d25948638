// Package polyhedron builds and queries convex polyhedra defined as the
// intersection of half-spaces. The boundary representation (vertices, edges,
// faces) is constructed once per plane set; an instance is immutable after
// construction and always describes a non-degenerate convex volume.
package polyhedron

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ktelfer/quarry/pkg/geo"
)

// ---------------------------------------------------------------------------
// Error taxonomy
// ---------------------------------------------------------------------------

// GeometryErrorKind classifies why a plane set was rejected.
type GeometryErrorKind int

const (
	// ErrorEmpty means the half-space intersection contains no points.
	ErrorEmpty GeometryErrorKind = iota
	// ErrorUnbounded means the intersection is not finite (or extends
	// beyond the world bounds it must fit into).
	ErrorUnbounded
	// ErrorFlat means the intersection has no volume: a point, a line or
	// a flat polygon.
	ErrorFlat
	// ErrorInvalid means the boundary structure could not be derived
	// consistently from the plane set.
	ErrorInvalid
)

func (k GeometryErrorKind) String() string {
	switch k {
	case ErrorEmpty:
		return "empty"
	case ErrorUnbounded:
		return "unbounded"
	case ErrorFlat:
		return "flat"
	case ErrorInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// GeometryError reports a degenerate plane set. Callers that attempted an
// edit must reject it and keep their previous geometry.
type GeometryError struct {
	Kind   GeometryErrorKind
	Detail string
}

func (e *GeometryError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("degenerate geometry: %s", e.Kind)
	}
	return fmt.Sprintf("degenerate geometry: %s: %s", e.Kind, e.Detail)
}

// IsDegenerate reports whether err is a GeometryError.
func IsDegenerate(err error) bool {
	_, ok := err.(*GeometryError)
	return ok
}

// ---------------------------------------------------------------------------
// Boundary representation
// ---------------------------------------------------------------------------

// Face is one planar boundary of a polyhedron: the supporting plane with an
// outward normal and the convex vertex loop it contributes, wound
// counter-clockwise when seen from outside.
type Face struct {
	Plane   geo.Plane
	Polygon geo.Polygon
	// PlaneIndex is the position of the supporting plane in the input
	// plane set the polyhedron was built from. Redundant input planes
	// contribute no face, so face indices and plane indices differ.
	PlaneIndex int
}

// Edge joins two vertices and borders exactly two faces.
type Edge struct {
	A, B  int    // vertex indices
	Faces [2]int // adjacent face indices
}

// Polyhedron is the boundary of a bounded, non-degenerate convex volume.
type Polyhedron struct {
	vertices []v3.Vec
	edges    []Edge
	faces    []Face
	bounds   sdf.Box3
	volume   float64
}

// Bounds returns the tight axis-aligned bounding box of the vertices.
func (p *Polyhedron) Bounds() sdf.Box3 { return p.bounds }

// Volume returns the enclosed volume.
func (p *Polyhedron) Volume() float64 { return p.volume }

// Faces returns the boundary faces in input-plane order. The slice is owned
// by the polyhedron and must not be mutated.
func (p *Polyhedron) Faces() []Face { return p.faces }

// FaceCount returns the number of boundary faces.
func (p *Polyhedron) FaceCount() int { return len(p.faces) }

// Vertices returns the distinct corner positions. The slice is owned by the
// polyhedron and must not be mutated.
func (p *Polyhedron) Vertices() []v3.Vec { return p.vertices }

// Edges returns the boundary edges. The slice is owned by the polyhedron
// and must not be mutated.
func (p *Polyhedron) Edges() []Edge { return p.edges }
