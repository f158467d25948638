package geo

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Polygon is a planar convex vertex loop. Loops are wound counter-clockwise
// when seen from the front of their supporting plane, so the Newell normal
// of a valid polygon matches the plane normal.
type Polygon []v3.Vec

// Clone returns an independent copy of the polygon.
func (p Polygon) Clone() Polygon {
	out := make(Polygon, len(p))
	copy(out, p)
	return out
}

// Newell returns the polygon's area-weighted normal (the Newell vector,
// twice the area times the unit normal).
func (p Polygon) Newell() v3.Vec {
	var n v3.Vec
	for i, a := range p {
		b := p[(i+1)%len(p)]
		n = n.Add(a.Cross(b))
	}
	return n
}

// Normal returns the polygon's unit normal. Degenerate polygons yield
// ok == false.
func (p Polygon) Normal() (v3.Vec, bool) {
	n := p.Newell()
	if n.Length() < DistEpsilon {
		return v3.Vec{}, false
	}
	return n.Normalize(), true
}

// Area returns the polygon's area.
func (p Polygon) Area() float64 {
	return p.Newell().Length() / 2
}

// ProjectedArea returns the area of the polygon's orthogonal projection
// onto the plane perpendicular to the given axis.
func (p Polygon) ProjectedArea(axis Axis) float64 {
	var sum float64
	for i, a := range p {
		b := p[(i+1)%len(p)]
		var au, av, bu, bv float64
		switch axis {
		case AxisX:
			au, av, bu, bv = a.Y, a.Z, b.Y, b.Z
		case AxisY:
			au, av, bu, bv = a.Z, a.X, b.Z, b.X
		default:
			au, av, bu, bv = a.X, a.Y, b.X, b.Y
		}
		sum += au*bv - bu*av
	}
	return math.Abs(sum) / 2
}

// Center returns the vertex centroid of the polygon.
func (p Polygon) Center() v3.Vec {
	var c v3.Vec
	if len(p) == 0 {
		return c
	}
	for _, v := range p {
		c = c.Add(v)
	}
	return c.DivScalar(float64(len(p)))
}

// ContainsPoint reports whether a point on the polygon's plane lies within
// the polygon, boundary inclusive. The normal argument is the polygon's
// plane normal.
func (p Polygon) ContainsPoint(point, normal v3.Vec) bool {
	for i, a := range p {
		b := p[(i+1)%len(p)]
		edge := b.Sub(a)
		// Inside lies to the left of every edge of a CCW loop.
		if edge.Cross(point.Sub(a)).Dot(normal) < -DistEpsilon {
			return false
		}
	}
	return len(p) >= 3
}

// Clip cuts the polygon against the plane's half-space, keeping the part
// behind the plane (Sutherland-Hodgman). The result is empty if the polygon
// lies entirely in front of the plane. Winding is preserved.
func (p Polygon) Clip(plane Plane) Polygon {
	if len(p) == 0 {
		return nil
	}

	var out Polygon
	prev := p[len(p)-1]
	prevDist := plane.DistanceTo(prev)

	for _, cur := range p {
		curDist := plane.DistanceTo(cur)

		if prevDist <= DistEpsilon {
			out = append(out, prev)
			if curDist > DistEpsilon && prevDist < -DistEpsilon {
				out = append(out, splitEdge(prev, cur, prevDist, curDist))
			}
		} else if curDist < -DistEpsilon {
			out = append(out, splitEdge(prev, cur, prevDist, curDist))
		}

		prev = cur
		prevDist = curDist
	}

	if len(out) < 3 {
		return nil
	}
	return out
}

// splitEdge returns the point where the edge from a to b crosses the plane,
// given the signed distances of both endpoints.
func splitEdge(a, b v3.Vec, distA, distB float64) v3.Vec {
	t := distA / (distA - distB)
	return a.Add(b.Sub(a).MulScalar(t))
}
