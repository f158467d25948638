// Package brush implements convex solids bounded by textured planar faces.
// A Brush is a value: edits construct a new Brush from a new face set, so
// the face list and the derived polyhedron are always mutually consistent.
package brush

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ktelfer/quarry/pkg/geo"
)

// TagMask is a bitmask of classification tags attached to a face or node.
type TagMask uint64

// TagMaskAll has every tag bit set.
const TagMaskAll = ^TagMask(0)

// Face is one planar boundary of a brush. It owns the boundary plane and
// texture/selection/tag state; the polygon is derived from the owning
// brush's polyhedron and is only valid for the brush generation that
// produced it.
type Face struct {
	boundary geo.Plane
	polygon  geo.Polygon
	texture  string
	selected bool
	tags     TagMask
}

// NewFace creates a face from three points wound counter-clockwise when
// seen from the outside of the solid. Collinear points are rejected.
func NewFace(a, b, c v3.Vec, texture string) (*Face, error) {
	plane, ok := geo.PlaneFromPoints(a, b, c)
	if !ok {
		return nil, fmt.Errorf("face: points %v, %v, %v are collinear", a, b, c)
	}
	return &Face{boundary: plane, texture: texture}, nil
}

// NewFaceFromPlane creates a face directly from a boundary plane whose
// normal points out of the solid.
func NewFaceFromPlane(plane geo.Plane, texture string) *Face {
	return &Face{boundary: plane, texture: texture}
}

// Clone returns an independent copy, including selection and tag state.
func (f *Face) Clone() *Face {
	out := *f
	out.polygon = f.polygon.Clone()
	return &out
}

// Boundary returns the supporting plane with outward normal.
func (f *Face) Boundary() geo.Plane { return f.boundary }

// Polygon returns the face's vertex loop, counter-clockwise seen from
// outside. It is empty until the face is attached to a brush.
func (f *Face) Polygon() geo.Polygon { return f.polygon }

// attach stores the polygon derived by the polyhedron engine.
func (f *Face) attach(polygon geo.Polygon) { f.polygon = polygon }

// Center returns the centroid of the face polygon.
func (f *Face) Center() v3.Vec { return f.polygon.Center() }

// Texture returns the texture name applied to the face.
func (f *Face) Texture() string { return f.texture }

// SetTexture changes the texture name. Cache invalidation is the owning
// node's responsibility.
func (f *Face) SetTexture(name string) { f.texture = name }

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

// Selected reports whether the face is selected.
func (f *Face) Selected() bool { return f.selected }

// Select sets the selection flag. Count maintenance is the owning brush
// node's responsibility.
func (f *Face) Select() { f.selected = true }

// Deselect clears the selection flag.
func (f *Face) Deselect() { f.selected = false }

// ---------------------------------------------------------------------------
// Tags
// ---------------------------------------------------------------------------

// TagMask returns the face's tag bits.
func (f *Face) TagMask() TagMask { return f.tags }

// SetTagMask replaces the face's tag bits.
func (f *Face) SetTagMask(mask TagMask) { f.tags = mask }

// HasTag reports whether the face carries any tag in the given mask.
func (f *Face) HasTag(mask TagMask) bool { return f.tags&mask != 0 }

// HasAnyTag reports whether the face carries any tag at all.
func (f *Face) HasAnyTag() bool { return f.HasTag(TagMaskAll) }

// ClearTags removes all tag bits.
func (f *Face) ClearTags() { f.tags = 0 }

// ---------------------------------------------------------------------------
// Geometry queries
// ---------------------------------------------------------------------------

// IntersectRay returns the ray parameter at which the ray crosses the face,
// or ok == false if the ray misses the face polygon or approaches it from
// behind. Back-facing crossings are rejected by the normal/direction sign
// so that hit-testing a closed brush face by face reports each crossing
// once.
func (f *Face) IntersectRay(ray geo.Ray) (float64, bool) {
	if f.boundary.Normal.Dot(ray.Direction) >= 0 {
		return 0, false
	}
	t, ok := f.boundary.IntersectRay(ray)
	if !ok {
		return 0, false
	}
	if !f.polygon.ContainsPoint(ray.At(t), f.boundary.Normal) {
		return 0, false
	}
	return t, true
}

// ProjectedArea returns the area of the face polygon projected onto the
// plane perpendicular to the given axis.
func (f *Face) ProjectedArea(axis geo.Axis) float64 {
	return f.polygon.ProjectedArea(axis)
}
