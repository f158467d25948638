package geo

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Ray is a half-line starting at Origin. Direction need not be unit length;
// reported parameters are in multiples of Direction.
type Ray struct {
	Origin    v3.Vec
	Direction v3.Vec
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) v3.Vec {
	return r.Origin.Add(r.Direction.MulScalar(t))
}

// IntersectBox returns the smallest non-negative parameter at which the ray
// enters the box, using the slab method. A ray starting inside the box hits
// at parameter 0. A miss yields ok == false.
func (r Ray) IntersectBox(box sdf.Box3) (float64, bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}

	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < DistEpsilon {
			// Parallel to this slab; must already be within it.
			if origin[i] < lo[i]-DistEpsilon || origin[i] > hi[i]+DistEpsilon {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - origin[i]) / dir[i]
		t2 := (hi[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		// Origin inside the box.
		return 0, true
	}
	return tMin, true
}

// IntersectTriangle returns the parameter at which the ray crosses the
// triangle a, b, c, using the Möller-Trumbore test. Both triangle sides
// count; hits behind the origin do not.
func (r Ray) IntersectTriangle(a, b, c v3.Vec) (float64, bool) {
	ab := b.Sub(a)
	ac := c.Sub(a)

	pvec := r.Direction.Cross(ac)
	det := ab.Dot(pvec)
	if math.Abs(det) < DistEpsilon {
		return 0, false
	}
	invDet := 1 / det

	tvec := r.Origin.Sub(a)
	u := tvec.Dot(pvec) * invDet
	if u < -DistEpsilon || u > 1+DistEpsilon {
		return 0, false
	}

	qvec := tvec.Cross(ab)
	v := r.Direction.Dot(qvec) * invDet
	if v < -DistEpsilon || u+v > 1+DistEpsilon {
		return 0, false
	}

	t := ac.Dot(qvec) * invDet
	if t < 0 {
		return 0, false
	}
	return t, true
}
