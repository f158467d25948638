package polyhedron

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ktelfer/quarry/pkg/geo"
)

// ContainsPoint reports whether the point lies inside the volume, boundary
// inclusive within geo.DistEpsilon.
func (p *Polyhedron) ContainsPoint(point v3.Vec) bool {
	for _, f := range p.faces {
		if f.Plane.DistanceTo(point) > geo.DistEpsilon {
			return false
		}
	}
	return true
}

// ContainsBox reports whether the whole box lies inside the volume.
func (p *Polyhedron) ContainsBox(box sdf.Box3) bool {
	for _, corner := range geo.BoxCorners(box) {
		if !p.ContainsPoint(corner) {
			return false
		}
	}
	return true
}

// Contains reports whether other lies entirely inside the volume.
func (p *Polyhedron) Contains(other *Polyhedron) bool {
	if !geo.BoxContainsBox(p.bounds, other.bounds) {
		return false
	}
	for _, v := range other.vertices {
		if !p.ContainsPoint(v) {
			return false
		}
	}
	return true
}

// IntersectsBox reports whether the volume and the box share any point,
// via separating-axis tests over the box normals, the face planes and the
// pairwise edge cross products.
func (p *Polyhedron) IntersectsBox(box sdf.Box3) bool {
	if !geo.BoxIntersects(p.bounds, box) {
		return false
	}

	corners := geo.BoxCorners(box)

	// Face planes of the polyhedron against the box corners.
	for _, f := range p.faces {
		if allInFront(f.Plane, corners) {
			return false
		}
	}

	// Box axes are covered by the bounds check above. Remaining candidate
	// axes are the cross products of box axes and polyhedron edges.
	boxAxes := []v3.Vec{{X: 1}, {Y: 1}, {Z: 1}}
	for _, e := range p.edges {
		dir := p.vertices[e.B].Sub(p.vertices[e.A])
		for _, axis := range boxAxes {
			sep := dir.Cross(axis)
			if sep.Length() < geo.DistEpsilon {
				continue
			}
			if axisSeparates(sep, p.vertices, corners) {
				return false
			}
		}
	}
	return true
}

// Intersects reports whether the two volumes share any point.
func (p *Polyhedron) Intersects(other *Polyhedron) bool {
	if !geo.BoxIntersects(p.bounds, other.bounds) {
		return false
	}

	for _, f := range p.faces {
		if allInFront(f.Plane, other.vertices) {
			return false
		}
	}
	for _, f := range other.faces {
		if allInFront(f.Plane, p.vertices) {
			return false
		}
	}

	for _, ea := range p.edges {
		dirA := p.vertices[ea.B].Sub(p.vertices[ea.A])
		for _, eb := range other.edges {
			dirB := other.vertices[eb.B].Sub(other.vertices[eb.A])
			sep := dirA.Cross(dirB)
			if sep.Length() < geo.DistEpsilon {
				continue
			}
			if axisSeparates(sep, p.vertices, other.vertices) {
				return false
			}
		}
	}
	return true
}

// IntersectRay returns the distance to the nearest boundary face the ray
// crosses from the front. Back-facing and missed faces are skipped.
func (p *Polyhedron) IntersectRay(ray geo.Ray) (float64, bool) {
	var best float64
	found := false
	for _, f := range p.faces {
		if f.Plane.Normal.Dot(ray.Direction) >= 0 {
			continue
		}
		dist, ok := f.Plane.IntersectRay(ray)
		if !ok {
			continue
		}
		if !f.Polygon.ContainsPoint(ray.At(dist), f.Plane.Normal) {
			continue
		}
		if !found || dist < best {
			best = dist
			found = true
		}
	}
	return best, found
}

// allInFront reports whether every point lies strictly in front of the
// plane, i.e. the plane separates the points from the volume behind it.
func allInFront(plane geo.Plane, points []v3.Vec) bool {
	for _, pt := range points {
		if plane.DistanceTo(pt) <= geo.DistEpsilon {
			return false
		}
	}
	return true
}

// axisSeparates projects both point sets onto the axis and reports whether
// the projection intervals are disjoint.
func axisSeparates(axis v3.Vec, a, b []v3.Vec) bool {
	minA, maxA := projectOntoAxis(axis, a)
	minB, maxB := projectOntoAxis(axis, b)
	return minA > maxB+geo.DistEpsilon || minB > maxA+geo.DistEpsilon
}

func projectOntoAxis(axis v3.Vec, points []v3.Vec) (min, max float64) {
	min = axis.Dot(points[0])
	max = min
	for _, pt := range points[1:] {
		d := axis.Dot(pt)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}
