package scene

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ktelfer/quarry/pkg/brush"
	"github.com/ktelfer/quarry/pkg/geo"
)

// BrushNode holds a brush in the tree. The brush value is immutable;
// edits build a replacement brush and swap it in through SetBrush, which
// refreshes the caches that key off brush identity.
type BrushNode struct {
	nodeBase
	brush *brush.Brush

	// selectedFaceCount mirrors the face selection flags so that hot-path
	// queries do not rescan the face list. SelectFace and DeselectFace
	// maintain it incrementally; SetBrush recomputes it from scratch.
	selectedFaceCount int

	// generation increments on every SetBrush so render caches can detect
	// stale geometry.
	generation uint64
}

// NewBrushNode wraps a brush in a tree node.
func NewBrushNode(b *brush.Brush) *BrushNode {
	n := &BrushNode{brush: b, selectedFaceCount: b.CountSelectedFaces()}
	n.init(n)
	return n
}

func (n *BrushNode) Name() string { return "brush" }

// Brush returns the current brush value.
func (n *BrushNode) Brush() *brush.Brush { return n.brush }

// Generation returns a counter that changes whenever the brush is
// replaced. Cached derived data is valid only for a matching generation.
func (n *BrushNode) Generation() uint64 { return n.generation }

// SetBrush swaps in a replacement brush. Face indices from the old brush
// are invalid afterwards.
func (n *BrushNode) SetBrush(b *brush.Brush) {
	n.brush = b
	n.selectedFaceCount = b.CountSelectedFaces()
	n.generation++
	n.InvalidateBounds()
	n.InvalidateIssues()
}

// SetFaceTexture retextures one face in place. The generation changes so
// render caches rebuild, and cached issues are dropped.
func (n *BrushNode) SetFaceTexture(index int, texture string) {
	n.brush.Face(index).SetTexture(texture)
	n.generation++
	n.InvalidateIssues()
}

// ---------------------------------------------------------------------------
// Face selection
// ---------------------------------------------------------------------------

// SelectedFaceCount returns the number of selected faces.
func (n *BrushNode) SelectedFaceCount() int { return n.selectedFaceCount }

// HasSelectedFaces reports whether any face is selected.
func (n *BrushNode) HasSelectedFaces() bool { return n.selectedFaceCount > 0 }

// SelectFace marks the face at the index as selected.
func (n *BrushNode) SelectFace(index int) {
	f := n.brush.Face(index)
	if !f.Selected() {
		f.Select()
		n.selectedFaceCount++
	}
}

// DeselectFace clears the selection flag of the face at the index.
func (n *BrushNode) DeselectFace(index int) {
	f := n.brush.Face(index)
	if f.Selected() {
		f.Deselect()
		n.selectedFaceCount--
	}
}

// ClearSelectedFaces deselects every face in one pass.
func (n *BrushNode) ClearSelectedFaces() {
	for _, f := range n.brush.Faces() {
		f.Deselect()
	}
	n.selectedFaceCount = 0
}

// ---------------------------------------------------------------------------
// Tree protocol
// ---------------------------------------------------------------------------

func (n *BrushNode) CanAddChild(Node) bool    { return false }
func (n *BrushNode) CanRemoveChild(Node) bool { return false }
func (n *BrushNode) RemoveIfEmpty() bool      { return false }
func (n *BrushNode) Selectable() bool         { return true }

func (n *BrushNode) Accept(v Visitor) { v.VisitBrush(n) }

// Clone copies the node with a deep copy of the brush.
func (n *BrushNode) Clone() Node {
	out := NewBrushNode(n.brush.Clone())
	out.cloneAttributes(&n.nodeBase)
	return out
}

func (n *BrushNode) computeLogicalBounds() sdf.Box3 {
	return n.brush.Bounds()
}

func (n *BrushNode) computePhysicalBounds() sdf.Box3 {
	return n.brush.Bounds()
}

func (n *BrushNode) aggregatesChildBounds() bool { return false }

func (n *BrushNode) ProjectedArea(axis geo.Axis) float64 {
	return n.brush.ProjectedArea(axis)
}

// ---------------------------------------------------------------------------
// Picking and containment
// ---------------------------------------------------------------------------

// Pick reports the first face the ray crosses, in face order. Distance
// ordering across nodes is the pick result's concern.
func (n *BrushNode) Pick(ctx *EditorContext, ray geo.Ray, result *PickResult) {
	if !ctx.Visible(n) {
		return
	}
	if dist, faceIndex, ok := n.brush.FindFaceHit(ray); ok {
		result.AddHit(Hit{
			Type:      HitTypeBrush,
			Distance:  dist,
			Point:     ray.At(dist),
			Node:      n,
			FaceIndex: faceIndex,
		})
	}
}

func (n *BrushNode) FindNodesContaining(point v3.Vec, found *[]Node) {
	if n.brush.ContainsPoint(point) {
		*found = append(*found, n)
	}
}

// Contains reports whether the brush encloses the other node entirely.
// Solids are compared exactly; box-bounded kinds by their logical bounds.
func (n *BrushNode) Contains(other Node) bool {
	contains := false
	other.Accept(Funcs{
		Brush: func(o *BrushNode) {
			contains = n.brush.ContainsBrush(o.brush)
		},
		Patch: func(o *PatchNode) {
			contains = n.containsPatch(o)
		},
		Entity: func(o *EntityNode) {
			contains = n.brush.ContainsBox(o.LogicalBounds())
		},
		Group: func(o *GroupNode) {
			contains = n.brush.ContainsBox(o.LogicalBounds())
		},
	})
	return contains
}

// Intersects reports whether the brush shares any point with the other
// node.
func (n *BrushNode) Intersects(other Node) bool {
	intersects := false
	other.Accept(Funcs{
		Brush: func(o *BrushNode) {
			intersects = n.brush.IntersectsBrush(o.brush)
		},
		Patch: func(o *PatchNode) {
			intersects = n.intersectsPatch(o)
		},
		Entity: func(o *EntityNode) {
			intersects = n.brush.IntersectsBox(o.LogicalBounds())
		},
		Group: func(o *GroupNode) {
			intersects = n.brush.IntersectsBox(o.LogicalBounds())
		},
	})
	return intersects
}

// containsPatch holds when every evaluated surface point lies inside the
// brush; the surface is convex-combination bounded by its samples closely
// enough for editor queries. The grid bounds give a cheap reject.
func (n *BrushNode) containsPatch(o *PatchNode) bool {
	if !n.brush.ContainsBox(o.LogicalBounds()) {
		return false
	}
	grid := o.Grid()
	for _, p := range grid.Points {
		if !n.brush.ContainsPoint(p.Position) {
			return false
		}
	}
	return true
}

// intersectsPatch holds when a surface sample lies inside the brush or a
// grid edge crosses the brush boundary.
func (n *BrushNode) intersectsPatch(o *PatchNode) bool {
	if !geo.BoxIntersects(n.brush.Bounds(), o.LogicalBounds()) {
		return false
	}
	grid := o.Grid()
	for _, p := range grid.Points {
		if n.brush.ContainsPoint(p.Position) {
			return true
		}
	}
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			from := grid.Point(row, col).Position
			if col+1 < grid.Cols && n.segmentCrossesBoundary(from, grid.Point(row, col+1).Position) {
				return true
			}
			if row+1 < grid.Rows && n.segmentCrossesBoundary(from, grid.Point(row+1, col).Position) {
				return true
			}
		}
	}
	return false
}

// segmentCrossesBoundary tests the segment from a to b against the brush
// boundary. The ray direction is left unnormalized so the face hit
// parameter is in segment units.
func (n *BrushNode) segmentCrossesBoundary(a, b v3.Vec) bool {
	ray := geo.Ray{Origin: a, Direction: b.Sub(a)}
	dist, _, ok := n.brush.FindFaceHit(ray)
	return ok && dist <= 1
}

// ---------------------------------------------------------------------------
// Tags
// ---------------------------------------------------------------------------

// UpdateTags refreshes the node tags and every face's tags.
func (n *BrushNode) UpdateTags(tm *TagManager) {
	n.tags = tm.matchNode(n)
	for _, f := range n.brush.Faces() {
		f.SetTagMask(tm.matchFace(n, f))
	}
}

// ClearTags drops the node tags and every face's tags.
func (n *BrushNode) ClearTags() {
	n.tags = 0
	for _, f := range n.brush.Faces() {
		f.ClearTags()
	}
}

// AllFacesHaveAnyTagInMask reports whether every face carries at least one
// tag from the mask.
func (n *BrushNode) AllFacesHaveAnyTagInMask(mask brush.TagMask) bool {
	for _, f := range n.brush.Faces() {
		if !f.HasTag(mask) {
			return false
		}
	}
	return true
}

// AnyFaceHasAnyTag reports whether any face carries any tag at all.
func (n *BrushNode) AnyFaceHasAnyTag() bool {
	for _, f := range n.brush.Faces() {
		if f.TagMask() != 0 {
			return true
		}
	}
	return false
}

// AnyFacesHaveAnyTagInMask reports whether any face carries a tag from the
// mask.
func (n *BrushNode) AnyFacesHaveAnyTagInMask(mask brush.TagMask) bool {
	for _, f := range n.brush.Faces() {
		if f.HasTag(mask) {
			return true
		}
	}
	return false
}
