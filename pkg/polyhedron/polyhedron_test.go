package polyhedron

import (
	"errors"
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ktelfer/quarry/pkg/geo"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

var testWorld = geo.CubeBox(1024)

// boxPlanes returns the six outward-facing planes of an axis-aligned box,
// in the order -X, +X, -Y, +Y, -Z, +Z.
func boxPlanes(min, max v3.Vec) []geo.Plane {
	normals := []v3.Vec{{X: -1}, {X: 1}, {Y: -1}, {Y: 1}, {Z: -1}, {Z: 1}}
	anchors := []v3.Vec{min, max, min, max, min, max}
	planes := make([]geo.Plane, len(normals))
	for i := range normals {
		p, ok := geo.PlaneFromPointNormal(anchors[i], normals[i])
		if !ok {
			panic("bad test plane")
		}
		planes[i] = p
	}
	return planes
}

func unitCubePlanes() []geo.Plane {
	return boxPlanes(v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 1})
}

// buildUnitCube constructs the unit cube or fails the test.
func buildUnitCube(t *testing.T) *Polyhedron {
	t.Helper()
	p, err := FromPlanes(testWorld, unitCubePlanes())
	if err != nil {
		t.Fatalf("unit cube construction failed: %v", err)
	}
	return p
}

func errorKind(t *testing.T, err error) GeometryErrorKind {
	t.Helper()
	var ge *GeometryError
	if !errors.As(err, &ge) {
		t.Fatalf("expected *GeometryError, got %T (%v)", err, err)
	}
	return ge.Kind
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestFromPlanesUnitCube(t *testing.T) {
	p := buildUnitCube(t)

	if got := p.FaceCount(); got != 6 {
		t.Errorf("face count = %d, want 6", got)
	}
	if got := len(p.Vertices()); got != 8 {
		t.Errorf("vertex count = %d, want 8", got)
	}
	if got := len(p.Edges()); got != 12 {
		t.Errorf("edge count = %d, want 12", got)
	}
	if v := p.Volume(); math.Abs(v-1) > 1e-6 {
		t.Errorf("volume = %v, want 1", v)
	}

	want := sdf.Box3{Min: v3.Vec{}, Max: v3.Vec{X: 1, Y: 1, Z: 1}}
	if !geo.BoxEquals(p.Bounds(), want, 1e-6) {
		t.Errorf("bounds = %+v, want %+v", p.Bounds(), want)
	}

	for i, f := range p.Faces() {
		if f.PlaneIndex != i {
			t.Errorf("face %d has plane index %d", i, f.PlaneIndex)
		}
		if got, want := f.Polygon.Area(), 1.0; math.Abs(got-want) > 1e-6 {
			t.Errorf("face %d area = %v, want 1", i, got)
		}
		n, ok := f.Polygon.Normal()
		if !ok || !n.Equals(f.Plane.Normal, 1e-6) {
			t.Errorf("face %d polygon normal %v does not match plane normal %v", i, n, f.Plane.Normal)
		}
	}

	for _, e := range p.Edges() {
		if e.Faces[0] == e.Faces[1] {
			t.Errorf("edge %v borders the same face twice", e)
		}
		if e.Faces[0] < 0 || e.Faces[1] < 0 {
			t.Errorf("edge %v has an unset face", e)
		}
	}
}

func TestFromPlanesDropsRedundantPlane(t *testing.T) {
	planes := append(unitCubePlanes(), geo.Plane{Normal: v3.Vec{X: 1}, Dist: 2})

	p, err := FromPlanes(testWorld, planes)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	if got := p.FaceCount(); got != 6 {
		t.Fatalf("face count = %d, want 6 (redundant plane dropped)", got)
	}
	for _, f := range p.Faces() {
		if f.PlaneIndex == 6 {
			t.Error("redundant plane contributed a face")
		}
	}
	if v := p.Volume(); math.Abs(v-1) > 1e-6 {
		t.Errorf("volume = %v, want 1", v)
	}
}

func TestFromPlanesTetrahedron(t *testing.T) {
	n := v3.Vec{X: 1, Y: 1, Z: 1}.Normalize()
	planes := []geo.Plane{
		{Normal: v3.Vec{X: -1}, Dist: 0},
		{Normal: v3.Vec{Y: -1}, Dist: 0},
		{Normal: v3.Vec{Z: -1}, Dist: 0},
		{Normal: n, Dist: n.X}, // x+y+z <= 1
	}

	p, err := FromPlanes(testWorld, planes)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	if got := p.FaceCount(); got != 4 {
		t.Errorf("face count = %d, want 4", got)
	}
	if got := len(p.Vertices()); got != 4 {
		t.Errorf("vertex count = %d, want 4", got)
	}
	if got := len(p.Edges()); got != 6 {
		t.Errorf("edge count = %d, want 6", got)
	}
	if v := p.Volume(); math.Abs(v-1.0/6.0) > 1e-6 {
		t.Errorf("volume = %v, want 1/6", v)
	}
}

// ---------------------------------------------------------------------------
// Degenerate rejection
// ---------------------------------------------------------------------------

func TestFromPlanesTooFewPlanes(t *testing.T) {
	planes := unitCubePlanes()[:3]
	_, err := FromPlanes(testWorld, planes)
	if kind := errorKind(t, err); kind != ErrorUnbounded {
		t.Errorf("error kind = %v, want unbounded", kind)
	}
}

func TestFromPlanesOpenVolume(t *testing.T) {
	// A cube missing its top plane is open toward +Z.
	planes := unitCubePlanes()[:5]
	_, err := FromPlanes(geo.CubeBox(8), planes)
	if kind := errorKind(t, err); kind != ErrorUnbounded {
		t.Errorf("error kind = %v, want unbounded", kind)
	}
}

func TestFromPlanesEmptyIntersection(t *testing.T) {
	// x >= 2 contradicts the cube's x <= 1.
	planes := append(unitCubePlanes(), geo.Plane{Normal: v3.Vec{X: -1}, Dist: -2})
	_, err := FromPlanes(testWorld, planes)
	if kind := errorKind(t, err); kind != ErrorEmpty {
		t.Errorf("error kind = %v, want empty", kind)
	}
}

func TestFromPlanesFlatVolume(t *testing.T) {
	// A box with zero extent along Z.
	planes := boxPlanes(v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 0})
	_, err := FromPlanes(testWorld, planes)
	if kind := errorKind(t, err); kind != ErrorFlat {
		t.Errorf("error kind = %v, want flat", kind)
	}
}

func TestIsDegenerate(t *testing.T) {
	_, err := FromPlanes(testWorld, nil)
	if !IsDegenerate(err) {
		t.Error("construction failure must be degenerate")
	}
	if IsDegenerate(errors.New("disk full")) {
		t.Error("arbitrary errors are not degenerate")
	}
	if (&GeometryError{Kind: ErrorEmpty}).Error() == "" {
		t.Error("error text must not be empty")
	}
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestContainsPoint(t *testing.T) {
	p := buildUnitCube(t)

	cases := []struct {
		point v3.Vec
		want  bool
	}{
		{v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, true},
		{v3.Vec{X: 0, Y: 0.5, Z: 0.5}, true}, // boundary inclusive
		{v3.Vec{X: 1, Y: 1, Z: 1}, true},     // corner inclusive
		{v3.Vec{X: 1.5, Y: 0.5, Z: 0.5}, false},
		{v3.Vec{X: -0.1, Y: 0.5, Z: 0.5}, false},
	}
	for _, c := range cases {
		if got := p.ContainsPoint(c.point); got != c.want {
			t.Errorf("ContainsPoint(%v) = %v, want %v", c.point, got, c.want)
		}
	}
}

func TestContainsBox(t *testing.T) {
	p := buildUnitCube(t)

	inner := sdf.Box3{Min: v3.Vec{X: 0.25, Y: 0.25, Z: 0.25}, Max: v3.Vec{X: 0.75, Y: 0.75, Z: 0.75}}
	if !p.ContainsBox(inner) {
		t.Error("interior box must be contained")
	}
	poking := sdf.Box3{Min: v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, Max: v3.Vec{X: 1.5, Y: 0.75, Z: 0.75}}
	if p.ContainsBox(poking) {
		t.Error("box poking out must not be contained")
	}
}

func TestContainsPolyhedron(t *testing.T) {
	outer := buildUnitCube(t)

	inner, err := FromPlanes(testWorld, boxPlanes(
		v3.Vec{X: 0.25, Y: 0.25, Z: 0.25},
		v3.Vec{X: 0.75, Y: 0.75, Z: 0.75},
	))
	if err != nil {
		t.Fatal(err)
	}
	if !outer.Contains(inner) {
		t.Error("inner cube must be contained")
	}
	if inner.Contains(outer) {
		t.Error("inner cube must not contain the outer cube")
	}
}

func TestIntersectsBox(t *testing.T) {
	p := buildUnitCube(t)

	overlapping := sdf.Box3{Min: v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, Max: v3.Vec{X: 2, Y: 2, Z: 2}}
	if !p.IntersectsBox(overlapping) {
		t.Error("overlapping box must intersect")
	}
	touching := sdf.Box3{Min: v3.Vec{X: 1, Y: 0, Z: 0}, Max: v3.Vec{X: 2, Y: 1, Z: 1}}
	if !p.IntersectsBox(touching) {
		t.Error("touching box must intersect (boundary contact counts)")
	}
	disjoint := sdf.Box3{Min: v3.Vec{X: 3, Y: 3, Z: 3}, Max: v3.Vec{X: 4, Y: 4, Z: 4}}
	if p.IntersectsBox(disjoint) {
		t.Error("disjoint box must not intersect")
	}
}

func TestIntersectsPolyhedron(t *testing.T) {
	a := buildUnitCube(t)

	overlap, err := FromPlanes(testWorld, boxPlanes(
		v3.Vec{X: 0.5, Y: 0.5, Z: 0.5},
		v3.Vec{X: 1.5, Y: 1.5, Z: 1.5},
	))
	if err != nil {
		t.Fatal(err)
	}
	if !a.Intersects(overlap) || !overlap.Intersects(a) {
		t.Error("overlapping cubes must intersect both ways")
	}

	disjoint, err := FromPlanes(testWorld, boxPlanes(
		v3.Vec{X: 5, Y: 5, Z: 5},
		v3.Vec{X: 6, Y: 6, Z: 6},
	))
	if err != nil {
		t.Fatal(err)
	}
	if a.Intersects(disjoint) {
		t.Error("disjoint cubes must not intersect")
	}

	// Near miss across the corner: bounding boxes overlap but a diagonal
	// plane separates the solids.
	n := v3.Vec{X: -1, Y: -1, Z: -1}.Normalize()
	tetra, err := FromPlanes(testWorld, []geo.Plane{
		{Normal: v3.Vec{X: 1}, Dist: 1.5},
		{Normal: v3.Vec{Y: 1}, Dist: 1.5},
		{Normal: v3.Vec{Z: 1}, Dist: 1.5},
		{Normal: n, Dist: n.Dot(v3.Vec{X: 1.1, Y: 1.1, Z: 1.1})}, // x+y+z >= 3.3
	})
	if err != nil {
		t.Fatal(err)
	}
	if a.Intersects(tetra) {
		t.Error("separated tetrahedron must not intersect the cube")
	}
}

func TestIntersectRay(t *testing.T) {
	p := buildUnitCube(t)

	if d, ok := p.IntersectRay(geo.Ray{Origin: v3.Vec{X: -1, Y: 0.5, Z: 0.5}, Direction: v3.Vec{X: 1}}); !ok || math.Abs(d-1) > 1e-9 {
		t.Errorf("front hit: d = %v, ok = %v, want 1, true", d, ok)
	}
	if _, ok := p.IntersectRay(geo.Ray{Origin: v3.Vec{X: -1, Y: 5, Z: 0.5}, Direction: v3.Vec{X: 1}}); ok {
		t.Error("ray missing the cube must not hit")
	}
	if _, ok := p.IntersectRay(geo.Ray{Origin: v3.Vec{X: 2, Y: 0.5, Z: 0.5}, Direction: v3.Vec{X: 1}}); ok {
		t.Error("ray pointing away must not hit")
	}
}
