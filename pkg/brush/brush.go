package brush

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ktelfer/quarry/pkg/geo"
	"github.com/ktelfer/quarry/pkg/polyhedron"
)

// Brush is a convex solid bounded by its faces' planes. A Brush is
// immutable: it is fully built by New and edits go through WithFaces,
// which either returns a consistent new Brush or an error, leaving the
// receiver untouched. Face indices are stable within one Brush value and
// must not be held across a replacement.
type Brush struct {
	faces    []*Face
	geometry *polyhedron.Polyhedron
}

// New builds a brush from the given faces. The face planes are handed to
// the polyhedron engine; faces whose plane does not contribute to the
// boundary are dropped. Degenerate plane sets (empty, unbounded or flat
// intersection, or a volume outside worldBounds) fail with a
// *polyhedron.GeometryError and no brush is produced. On success the
// brush takes ownership of the passed faces; callers editing an existing
// brush pass cloned faces so a failure leaves the original untouched.
func New(worldBounds sdf.Box3, faces []*Face) (*Brush, error) {
	planes := make([]geo.Plane, len(faces))
	for i, f := range faces {
		planes[i] = f.Boundary()
	}

	geometry, err := polyhedron.FromPlanes(worldBounds, planes)
	if err != nil {
		return nil, err
	}

	kept := make([]*Face, 0, geometry.FaceCount())
	for _, pf := range geometry.Faces() {
		face := faces[pf.PlaneIndex]
		face.attach(pf.Polygon)
		kept = append(kept, face)
	}

	return &Brush{faces: kept, geometry: geometry}, nil
}

// WithFaces returns a new brush built from the given face set. On error
// the receiver remains valid and unchanged; callers swap in the result
// only on success.
func (b *Brush) WithFaces(worldBounds sdf.Box3, faces []*Face) (*Brush, error) {
	return New(worldBounds, faces)
}

// Clone returns a deep copy sharing the immutable polyhedron but owning
// fresh face state (selection, tags, texture).
func (b *Brush) Clone() *Brush {
	faces := make([]*Face, len(b.faces))
	for i, f := range b.faces {
		faces[i] = f.Clone()
	}
	return &Brush{faces: faces, geometry: b.geometry}
}

// ---------------------------------------------------------------------------
// Face access
// ---------------------------------------------------------------------------

// FaceCount returns the number of boundary faces.
func (b *Brush) FaceCount() int { return len(b.faces) }

// Face returns the face at the given index. Indices are only valid for
// this brush value; passing a stale index is a programming error and
// panics.
func (b *Brush) Face(i int) *Face {
	if i < 0 || i >= len(b.faces) {
		panic(fmt.Sprintf("brush: face index %d out of range [0,%d)", i, len(b.faces)))
	}
	return b.faces[i]
}

// Faces returns the boundary faces in order. The slice is owned by the
// brush and must not be mutated.
func (b *Brush) Faces() []*Face { return b.faces }

// CountSelectedFaces returns the number of faces with the selection flag
// set. It is a full scan; owners maintain incremental counts themselves.
func (b *Brush) CountSelectedFaces() int {
	count := 0
	for _, f := range b.faces {
		if f.Selected() {
			count++
		}
	}
	return count
}

// ---------------------------------------------------------------------------
// Geometry queries
// ---------------------------------------------------------------------------

// Bounds returns the tight axis-aligned bounding box of the brush.
func (b *Brush) Bounds() sdf.Box3 { return b.geometry.Bounds() }

// Geometry returns the underlying polyhedron.
func (b *Brush) Geometry() *polyhedron.Polyhedron { return b.geometry }

// ContainsPoint reports whether the point lies inside the brush, boundary
// inclusive within geo.DistEpsilon.
func (b *Brush) ContainsPoint(point v3.Vec) bool {
	return b.geometry.ContainsPoint(point)
}

// ContainsBox reports whether the whole box lies inside the brush.
func (b *Brush) ContainsBox(box sdf.Box3) bool {
	return b.geometry.ContainsBox(box)
}

// ContainsBrush reports whether other lies entirely inside the brush.
func (b *Brush) ContainsBrush(other *Brush) bool {
	return b.geometry.Contains(other.geometry)
}

// IntersectsBox reports whether the brush and the box share any point.
func (b *Brush) IntersectsBox(box sdf.Box3) bool {
	return b.geometry.IntersectsBox(box)
}

// IntersectsBrush reports whether the two brushes share any point.
func (b *Brush) IntersectsBrush(other *Brush) bool {
	return b.geometry.Intersects(other.geometry)
}

// FindFaceHit scans the faces in order and returns the first one the ray
// crosses from the front, after a cheap ray/bounds rejection test. Ties
// between faces are broken by face order, not by distance; aggregating
// hits across brushes by distance is the pick result's concern.
func (b *Brush) FindFaceHit(ray geo.Ray) (distance float64, faceIndex int, ok bool) {
	if _, hit := ray.IntersectBox(b.Bounds()); !hit {
		return 0, 0, false
	}
	for i, f := range b.faces {
		if dist, hit := f.IntersectRay(ray); hit {
			return dist, i, true
		}
	}
	return 0, 0, false
}

// ProjectedArea returns the one-sided surface area of the brush projected
// onto the plane perpendicular to the given axis. Only faces whose normal
// has a positive component along the axis are counted, so opposite faces
// of the closed solid are not double counted.
func (b *Brush) ProjectedArea(axis geo.Axis) float64 {
	var sum float64
	for _, f := range b.faces {
		if axisComponent(f.Boundary().Normal, axis) > 0 {
			sum += f.ProjectedArea(axis)
		}
	}
	return sum
}

func axisComponent(v v3.Vec, axis geo.Axis) float64 {
	switch axis {
	case geo.AxisX:
		return v.X
	case geo.AxisY:
		return v.Y
	default:
		return v.Z
	}
}
