package geo

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// PlaneSide classifies a point relative to a plane.
type PlaneSide int

const (
	PlaneOn    PlaneSide = iota // within DistEpsilon of the plane
	PlaneFront                  // on the side the normal points to
	PlaneBack                   // on the opposite side
)

func (s PlaneSide) String() string {
	switch s {
	case PlaneOn:
		return "on"
	case PlaneFront:
		return "front"
	case PlaneBack:
		return "back"
	default:
		return "unknown"
	}
}

// Plane is an oriented plane in Hesse normal form: a point p lies on the
// plane iff Normal·p == Dist. The normal is unit length and points to the
// front (outside) half-space.
type Plane struct {
	Normal v3.Vec
	Dist   float64
}

// PlaneFromPointNormal builds a plane through the given anchor point. The
// normal is normalized; a zero normal yields ok == false.
func PlaneFromPointNormal(point, normal v3.Vec) (Plane, bool) {
	if normal.Length() < DistEpsilon {
		return Plane{}, false
	}
	n := normal.Normalize()
	return Plane{Normal: n, Dist: n.Dot(point)}, true
}

// PlaneFromPoints builds a plane through three points wound
// counter-clockwise when viewed from the front half-space. Collinear points
// yield ok == false.
func PlaneFromPoints(a, b, c v3.Vec) (Plane, bool) {
	cross := b.Sub(a).Cross(c.Sub(a))
	if cross.Length() < DistEpsilon {
		return Plane{}, false
	}
	n := cross.Normalize()
	return Plane{Normal: n, Dist: n.Dot(a)}, true
}

// DistanceTo returns the signed distance of p to the plane. Positive means
// p lies in front of the plane (outside).
func (p Plane) DistanceTo(point v3.Vec) float64 {
	return p.Normal.Dot(point) - p.Dist
}

// Side classifies a point with the DistEpsilon tolerance.
func (p Plane) Side(point v3.Vec) PlaneSide {
	d := p.DistanceTo(point)
	switch {
	case d > DistEpsilon:
		return PlaneFront
	case d < -DistEpsilon:
		return PlaneBack
	default:
		return PlaneOn
	}
}

// Flip returns the plane with its orientation reversed.
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Neg(), Dist: -p.Dist}
}

// Anchor returns the point on the plane closest to the origin.
func (p Plane) Anchor() v3.Vec {
	return p.Normal.MulScalar(p.Dist)
}

// Project returns the orthogonal projection of point onto the plane.
func (p Plane) Project(point v3.Vec) v3.Vec {
	return point.Sub(p.Normal.MulScalar(p.DistanceTo(point)))
}

// Basis returns two unit tangent vectors u, w such that u cross w equals
// the plane normal. Together with the normal they form a right-handed
// frame; a rectangle laid out counter-clockwise in (u, w) coordinates is
// wound counter-clockwise when seen from the front half-space.
func (p Plane) Basis() (u, w v3.Vec) {
	// Pick the world axis least aligned with the normal as the up hint.
	up := v3.Vec{X: 1}
	ax := math.Abs(p.Normal.X)
	ay := math.Abs(p.Normal.Y)
	az := math.Abs(p.Normal.Z)
	if ay <= ax && ay <= az {
		up = v3.Vec{Y: 1}
	} else if az <= ax && az <= ay {
		up = v3.Vec{Z: 1}
	}
	u = up.Cross(p.Normal).Normalize()
	w = p.Normal.Cross(u)
	return u, w
}

// IntersectRay returns the ray parameter at which the ray crosses the
// plane. Rays parallel to the plane or crossing it behind the origin yield
// ok == false. Both front and back facing crossings are reported; callers
// that need one-sided tests check the normal/direction sign themselves.
func (p Plane) IntersectRay(r Ray) (float64, bool) {
	denom := p.Normal.Dot(r.Direction)
	if math.Abs(denom) < DistEpsilon {
		return 0, false
	}
	t := -p.DistanceTo(r.Origin) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Equals reports whether two planes coincide in orientation and offset
// within the given tolerance.
func (p Plane) Equals(other Plane, tol float64) bool {
	return p.Normal.Equals(other.Normal, tol) && math.Abs(p.Dist-other.Dist) <= tol
}
