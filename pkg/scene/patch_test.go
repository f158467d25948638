package scene

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ktelfer/quarry/pkg/geo"
)

func TestNewBezierPatchValidation(t *testing.T) {
	points := make([]v3.Vec, 9)

	cases := []struct {
		name       string
		rows, cols int
		points     []v3.Vec
	}{
		{"even rows", 4, 3, make([]v3.Vec, 12)},
		{"even cols", 3, 4, make([]v3.Vec, 12)},
		{"too small", 1, 3, make([]v3.Vec, 3)},
		{"point count mismatch", 3, 3, points[:8]},
	}
	for _, c := range cases {
		if _, err := NewBezierPatch(c.rows, c.cols, c.points, ""); err == nil {
			t.Errorf("%s: construction must fail", c.name)
		}
	}

	if _, err := NewBezierPatch(3, 3, points, "curve"); err != nil {
		t.Errorf("valid 3x3 grid rejected: %v", err)
	}
}

func TestControlPointRowMajor(t *testing.T) {
	points := make([]v3.Vec, 15)
	for i := range points {
		points[i] = v3.Vec{X: float64(i)}
	}
	p, err := NewBezierPatch(3, 5, points, "")
	if err != nil {
		t.Fatal(err)
	}
	if got := p.ControlPoint(1, 2); got.X != 7 {
		t.Errorf("control point (1,2) = %v, want index 7", got)
	}
	if p.RowCount() != 3 || p.ColCount() != 5 {
		t.Errorf("grid size = %dx%d, want 3x5", p.RowCount(), p.ColCount())
	}
}

func TestEvaluateFlatPatch(t *testing.T) {
	p := makeFlatPatch(t, 0)
	grid := p.Evaluate()

	// One 3x3 section per direction.
	if grid.Rows != patchSubdivision+1 || grid.Cols != patchSubdivision+1 {
		t.Fatalf("grid size = %dx%d, want %dx%d", grid.Rows, grid.Cols,
			patchSubdivision+1, patchSubdivision+1)
	}

	// Uniformly spaced control points make the quadratic linear, so the
	// samples land on an even grid over [0,2]x[0,2].
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			got := grid.Point(row, col)
			want := v3.Vec{
				X: 2 * float64(col) / patchSubdivision,
				Y: 2 * float64(row) / patchSubdivision,
			}
			if !got.Position.Equals(want, 1e-9) {
				t.Errorf("sample (%d,%d) = %v, want %v", row, col, got.Position, want)
			}
			if math.Abs(got.Normal.Length()-1) > 1e-9 {
				t.Errorf("sample (%d,%d) normal %v is not unit length", row, col, got.Normal)
			}
			if math.Abs(math.Abs(got.Normal.Z)-1) > 1e-9 {
				t.Errorf("flat patch normal = %v, want perpendicular to the sheet", got.Normal)
			}
		}
	}

	want := boxOf(v3.Vec{}, v3.Vec{X: 2, Y: 2})
	if !geo.BoxEquals(grid.Bounds, want, 1e-9) {
		t.Errorf("grid bounds = %+v, want %+v", grid.Bounds, want)
	}
}

func TestEvaluateCurvedPatch(t *testing.T) {
	// A ridge: the middle control row is lifted.
	points := []v3.Vec{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
		{X: 0, Y: 1, Z: 2}, {X: 1, Y: 1, Z: 2}, {X: 2, Y: 1, Z: 2},
		{X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2},
	}
	p, err := NewBezierPatch(3, 3, points, "")
	if err != nil {
		t.Fatal(err)
	}
	grid := p.Evaluate()

	// Corners interpolate control corners, the ridge peaks at u = 1/2 with
	// height 2 * 2 * 0.5 * 0.5 = 1.
	if got := grid.Point(0, 0).Position; !got.Equals(v3.Vec{}, 1e-9) {
		t.Errorf("corner sample = %v, want origin", got)
	}
	mid := grid.Point(patchSubdivision/2, patchSubdivision/2).Position
	if math.Abs(mid.Z-1) > 1e-9 {
		t.Errorf("ridge height = %v, want 1", mid.Z)
	}
	if grid.Bounds.Max.Z > 1+1e-9 || grid.Bounds.Max.Z < 1-1e-9 {
		t.Errorf("bounds max Z = %v, want ridge height 1", grid.Bounds.Max.Z)
	}
}

func TestEvaluateMultiSectionSeam(t *testing.T) {
	// Two sections along the columns (3x5 control grid).
	points := make([]v3.Vec, 0, 15)
	for row := 0; row < 3; row++ {
		for col := 0; col < 5; col++ {
			points = append(points, v3.Vec{X: float64(col), Y: float64(row)})
		}
	}
	p, err := NewBezierPatch(3, 5, points, "")
	if err != nil {
		t.Fatal(err)
	}
	grid := p.Evaluate()

	if grid.Cols != 2*patchSubdivision+1 {
		t.Fatalf("grid cols = %d, want %d", grid.Cols, 2*patchSubdivision+1)
	}
	// The seam column belongs to both sections; its samples must coincide
	// with the shared control column.
	for row := 0; row < grid.Rows; row++ {
		got := grid.Point(row, patchSubdivision).Position
		if math.Abs(got.X-2) > 1e-9 {
			t.Errorf("seam sample row %d at x = %v, want 2", row, got.X)
		}
	}
}

func TestPatchNodeGridCache(t *testing.T) {
	n := NewPatchNode(makeFlatPatch(t, 0))

	first := n.Grid()
	if n.Grid() != first {
		t.Error("grid must be cached between reads")
	}

	n.SetPatch(makeFlatPatch(t, 3))
	second := n.Grid()
	if second == first {
		t.Error("SetPatch must drop the cached grid")
	}
	if math.Abs(second.Bounds.Min.Z-3) > 1e-9 {
		t.Errorf("new grid height = %v, want 3", second.Bounds.Min.Z)
	}
}

func TestPatchNodeBoundsInvalidation(t *testing.T) {
	layer := NewLayerNode("l")
	n := NewPatchNode(makeFlatPatch(t, 0))
	if err := layer.AddChild(n); err != nil {
		t.Fatal(err)
	}

	_ = layer.LogicalBounds()
	n.SetPatch(makeFlatPatch(t, 3))

	if layer.LogicalBoundsCached() {
		t.Error("layer keeps stale bounds after SetPatch")
	}
	if math.Abs(layer.LogicalBounds().Max.Z-3) > 1e-9 {
		t.Errorf("layer bounds = %+v, want lifted patch", layer.LogicalBounds())
	}
}

func TestPatchClone(t *testing.T) {
	n := NewPatchNode(makeFlatPatch(t, 0))
	c := n.Clone().(*PatchNode)

	if c.Patch() == n.Patch() {
		t.Error("clone must deep copy the patch")
	}
	if c.Patch().Texture() != n.Patch().Texture() {
		t.Error("clone loses the texture")
	}
	if c.Patch().RowCount() != 3 || c.Patch().ColCount() != 3 {
		t.Error("clone loses the control grid")
	}
}
