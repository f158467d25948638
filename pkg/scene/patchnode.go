package scene

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ktelfer/quarry/pkg/geo"
)

// patchSubdivision is the number of sample intervals per quadratic patch
// section when evaluating the surface grid.
const patchSubdivision = 4

// BezierPatch is a grid of control points defining a piecewise biquadratic
// surface. The control grid has odd dimensions of at least 3 in each
// direction; every 3x3 block of control points forms one surface section.
type BezierPatch struct {
	rows, cols int
	points     []v3.Vec
	texture    string
}

// NewBezierPatch builds a patch from a rows x cols control grid in row
// major order.
func NewBezierPatch(rows, cols int, points []v3.Vec, texture string) (*BezierPatch, error) {
	if rows < 3 || cols < 3 || rows%2 == 0 || cols%2 == 0 {
		return nil, fmt.Errorf("scene: control grid must be odd sized and at least 3x3, got %dx%d", rows, cols)
	}
	if len(points) != rows*cols {
		return nil, fmt.Errorf("scene: control grid %dx%d needs %d points, got %d", rows, cols, rows*cols, len(points))
	}
	copied := make([]v3.Vec, len(points))
	copy(copied, points)
	return &BezierPatch{rows: rows, cols: cols, points: copied, texture: texture}, nil
}

// RowCount returns the control grid row count.
func (p *BezierPatch) RowCount() int { return p.rows }

// ColCount returns the control grid column count.
func (p *BezierPatch) ColCount() int { return p.cols }

// Texture returns the texture name applied to the surface.
func (p *BezierPatch) Texture() string { return p.texture }

// ControlPoint returns the control point at the given grid position.
func (p *BezierPatch) ControlPoint(row, col int) v3.Vec {
	return p.points[row*p.cols+col]
}

// Clone returns a deep copy of the patch.
func (p *BezierPatch) Clone() *BezierPatch {
	points := make([]v3.Vec, len(p.points))
	copy(points, p.points)
	return &BezierPatch{rows: p.rows, cols: p.cols, points: points, texture: p.texture}
}

// PatchPoint is one evaluated surface sample.
type PatchPoint struct {
	Position v3.Vec
	Normal   v3.Vec
}

// PatchGrid is the evaluated surface of a patch: a dense grid of positions
// and normals plus the tight bounds over all samples.
type PatchGrid struct {
	Rows, Cols int
	Points     []PatchPoint
	Bounds     sdf.Box3
}

// Point returns the sample at the given grid position.
func (g *PatchGrid) Point(row, col int) PatchPoint {
	return g.Points[row*g.Cols+col]
}

// Evaluate samples the surface into a grid. Adjacent sections share their
// boundary samples, so the grid is seamless.
func (p *BezierPatch) Evaluate() *PatchGrid {
	sectionRows := (p.rows - 1) / 2
	sectionCols := (p.cols - 1) / 2
	gridRows := sectionRows*patchSubdivision + 1
	gridCols := sectionCols*patchSubdivision + 1

	grid := &PatchGrid{
		Rows:   gridRows,
		Cols:   gridCols,
		Points: make([]PatchPoint, gridRows*gridCols),
	}

	positions := make([]v3.Vec, 0, gridRows*gridCols)
	for row := 0; row < gridRows; row++ {
		sr := row / patchSubdivision
		su := row % patchSubdivision
		if sr == sectionRows {
			sr, su = sectionRows-1, patchSubdivision
		}
		u := float64(su) / patchSubdivision

		for col := 0; col < gridCols; col++ {
			sc := col / patchSubdivision
			sv := col % patchSubdivision
			if sc == sectionCols {
				sc, sv = sectionCols-1, patchSubdivision
			}
			v := float64(sv) / patchSubdivision

			pos, normal := p.evaluateSection(sr, sc, u, v)
			grid.Points[row*gridCols+col] = PatchPoint{Position: pos, Normal: normal}
			positions = append(positions, pos)
		}
	}

	grid.Bounds, _ = geo.BoxFromPoints(positions)
	return grid
}

// evaluateSection samples section (sr, sc) at parameters u, v along the
// row and column directions.
func (p *BezierPatch) evaluateSection(sr, sc int, u, v float64) (pos, normal v3.Vec) {
	// Control points of the 3x3 section.
	var cp [3][3]v3.Vec
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cp[i][j] = p.ControlPoint(2*sr+i, 2*sc+j)
		}
	}

	// Collapse columns at v, then rows at u, keeping tangents.
	var rows [3]v3.Vec
	var rowTangents [3]v3.Vec
	for i := 0; i < 3; i++ {
		rows[i] = quadraticBezier(cp[i][0], cp[i][1], cp[i][2], v)
		rowTangents[i] = quadraticBezierTangent(cp[i][0], cp[i][1], cp[i][2], v)
	}
	pos = quadraticBezier(rows[0], rows[1], rows[2], u)
	du := quadraticBezierTangent(rows[0], rows[1], rows[2], u)
	dv := quadraticBezier(rowTangents[0], rowTangents[1], rowTangents[2], u)

	normal = du.Cross(dv)
	if normal.Length() < geo.DistEpsilon {
		// Degenerate corner; nudge the parameters inward and retry.
		const nudge = 1e-3
		uu := clamp01(u, nudge)
		vv := clamp01(v, nudge)
		if uu != u || vv != v {
			_, normal = p.evaluateSection(sr, sc, uu, vv)
			return pos, normal
		}
		return pos, v3.Vec{Z: 1}
	}
	return pos, normal.Normalize()
}

func quadraticBezier(p0, p1, p2 v3.Vec, t float64) v3.Vec {
	s := 1 - t
	return p0.MulScalar(s * s).
		Add(p1.MulScalar(2 * s * t)).
		Add(p2.MulScalar(t * t))
}

func quadraticBezierTangent(p0, p1, p2 v3.Vec, t float64) v3.Vec {
	s := 1 - t
	return p1.Sub(p0).MulScalar(2 * s).Add(p2.Sub(p1).MulScalar(2 * t))
}

func clamp01(t, margin float64) float64 {
	if t < margin {
		return margin
	}
	if t > 1-margin {
		return 1 - margin
	}
	return t
}

// ---------------------------------------------------------------------------
// PatchNode
// ---------------------------------------------------------------------------

// PatchNode holds a bezier patch in the tree. The evaluated surface grid
// is cached and rebuilt when the patch is replaced.
type PatchNode struct {
	nodeBase
	patch *BezierPatch
	grid  *PatchGrid
}

// NewPatchNode wraps a patch in a tree node.
func NewPatchNode(patch *BezierPatch) *PatchNode {
	n := &PatchNode{patch: patch}
	n.init(n)
	return n
}

func (n *PatchNode) Name() string { return "patch" }

// Patch returns the current surface definition.
func (n *PatchNode) Patch() *BezierPatch { return n.patch }

// SetPatch replaces the surface definition and drops the cached grid.
func (n *PatchNode) SetPatch(patch *BezierPatch) {
	n.patch = patch
	n.grid = nil
	n.InvalidateBounds()
	n.InvalidateIssues()
}

// Grid returns the evaluated surface, computing it on first use.
func (n *PatchNode) Grid() *PatchGrid {
	if n.grid == nil {
		n.grid = n.patch.Evaluate()
	}
	return n.grid
}

func (n *PatchNode) CanAddChild(Node) bool    { return false }
func (n *PatchNode) CanRemoveChild(Node) bool { return false }
func (n *PatchNode) RemoveIfEmpty() bool      { return false }
func (n *PatchNode) Selectable() bool         { return true }

func (n *PatchNode) Accept(v Visitor) { v.VisitPatch(n) }

// Clone copies the node with a deep copy of the patch.
func (n *PatchNode) Clone() Node {
	out := NewPatchNode(n.patch.Clone())
	out.cloneAttributes(&n.nodeBase)
	return out
}

func (n *PatchNode) computeLogicalBounds() sdf.Box3 {
	return n.Grid().Bounds
}

func (n *PatchNode) computePhysicalBounds() sdf.Box3 {
	return n.LogicalBounds()
}

func (n *PatchNode) aggregatesChildBounds() bool { return false }

// Pick intersects the ray with the evaluated surface triangles and reports
// the nearest hit.
func (n *PatchNode) Pick(ctx *EditorContext, ray geo.Ray, result *PickResult) {
	if !ctx.Visible(n) {
		return
	}
	if _, ok := ray.IntersectBox(n.LogicalBounds()); !ok {
		return
	}

	grid := n.Grid()
	var best float64
	found := false
	for row := 0; row+1 < grid.Rows; row++ {
		for col := 0; col+1 < grid.Cols; col++ {
			a := grid.Point(row, col).Position
			b := grid.Point(row, col+1).Position
			c := grid.Point(row+1, col+1).Position
			d := grid.Point(row+1, col).Position
			if t, ok := ray.IntersectTriangle(a, b, c); ok && (!found || t < best) {
				best, found = t, true
			}
			if t, ok := ray.IntersectTriangle(a, c, d); ok && (!found || t < best) {
				best, found = t, true
			}
		}
	}
	if found {
		result.AddHit(Hit{
			Type:      HitTypePatch,
			Distance:  best,
			Point:     ray.At(best),
			Node:      n,
			FaceIndex: -1,
		})
	}
}

// FindNodesContaining uses the surface bounds; a patch is a sheet, not a
// solid, so the box is the closest meaningful containment volume.
func (n *PatchNode) FindNodesContaining(point v3.Vec, found *[]Node) {
	if geo.BoxContains(n.LogicalBounds(), point) {
		*found = append(*found, n)
	}
}
