package geo

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// BoxFromPoints returns the tight axis-aligned bounding box of the given
// points. At least one point is required; ok is false otherwise.
func BoxFromPoints(points []v3.Vec) (sdf.Box3, bool) {
	if len(points) == 0 {
		return sdf.Box3{}, false
	}
	box := sdf.Box3{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box, true
}

// BoxInclude extends the box to cover the given point.
func BoxInclude(box sdf.Box3, p v3.Vec) sdf.Box3 {
	return sdf.Box3{Min: box.Min.Min(p), Max: box.Max.Max(p)}
}

// MergeBoxes returns the smallest box covering both arguments.
func MergeBoxes(a, b sdf.Box3) sdf.Box3 {
	return sdf.Box3{Min: a.Min.Min(b.Min), Max: a.Max.Max(b.Max)}
}

// BoxContains reports whether the box contains the point, boundary
// inclusive within DistEpsilon.
func BoxContains(box sdf.Box3, p v3.Vec) bool {
	return p.X >= box.Min.X-DistEpsilon && p.X <= box.Max.X+DistEpsilon &&
		p.Y >= box.Min.Y-DistEpsilon && p.Y <= box.Max.Y+DistEpsilon &&
		p.Z >= box.Min.Z-DistEpsilon && p.Z <= box.Max.Z+DistEpsilon
}

// BoxContainsBox reports whether outer fully contains inner.
func BoxContainsBox(outer, inner sdf.Box3) bool {
	return BoxContains(outer, inner.Min) && BoxContains(outer, inner.Max)
}

// BoxIntersects reports whether the two boxes share any point, boundary
// contact included.
func BoxIntersects(a, b sdf.Box3) bool {
	return a.Min.X <= b.Max.X+DistEpsilon && a.Max.X >= b.Min.X-DistEpsilon &&
		a.Min.Y <= b.Max.Y+DistEpsilon && a.Max.Y >= b.Min.Y-DistEpsilon &&
		a.Min.Z <= b.Max.Z+DistEpsilon && a.Max.Z >= b.Min.Z-DistEpsilon
}

// BoxCorners returns the eight corner points of the box.
func BoxCorners(box sdf.Box3) []v3.Vec {
	return []v3.Vec{
		{X: box.Min.X, Y: box.Min.Y, Z: box.Min.Z},
		{X: box.Max.X, Y: box.Min.Y, Z: box.Min.Z},
		{X: box.Min.X, Y: box.Max.Y, Z: box.Min.Z},
		{X: box.Max.X, Y: box.Max.Y, Z: box.Min.Z},
		{X: box.Min.X, Y: box.Min.Y, Z: box.Max.Z},
		{X: box.Max.X, Y: box.Min.Y, Z: box.Max.Z},
		{X: box.Min.X, Y: box.Max.Y, Z: box.Max.Z},
		{X: box.Max.X, Y: box.Max.Y, Z: box.Max.Z},
	}
}

// BoxTranslate returns the box shifted by the given offset.
func BoxTranslate(box sdf.Box3, offset v3.Vec) sdf.Box3 {
	return sdf.Box3{Min: box.Min.Add(offset), Max: box.Max.Add(offset)}
}

// CubeBox returns a box centered at the origin with the given half-extent
// on every axis.
func CubeBox(halfExtent float64) sdf.Box3 {
	h := v3.Vec{X: halfExtent, Y: halfExtent, Z: halfExtent}
	return sdf.Box3{Min: h.Neg(), Max: h}
}

// BoxEquals reports whether two boxes coincide within the given tolerance.
func BoxEquals(a, b sdf.Box3, tol float64) bool {
	return a.Min.Equals(b.Min, tol) && a.Max.Equals(b.Max, tol)
}
