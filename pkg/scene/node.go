// Package scene implements the editable map structure: a heterogeneous tree
// of world, layer, group, entity, brush and patch nodes with cached bounds,
// visitor dispatch, picking, tagging and advisory issue validation.
//
// The tree is single-owner and single-threaded: mutations must be
// serialized by the caller, and read-only queries may only run concurrently
// with each other while no mutation is in flight.
package scene

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ktelfer/quarry/pkg/brush"
	"github.com/ktelfer/quarry/pkg/geo"
)

// Node is the common capability set of every tree node. Concrete kinds are
// WorldNode, LayerNode, GroupNode, EntityNode, BrushNode and PatchNode;
// the set is closed and typed operations dispatch through Visitor.
type Node interface {
	// Name returns a short descriptive name for the node kind or instance.
	Name() string

	// Parent returns the parent node, or nil for a root. The parent link
	// is a non-owning back reference; ownership flows root to children.
	Parent() Node

	// Children returns the owned child nodes in order. The slice is owned
	// by the node and must not be mutated.
	Children() []Node

	// AddChild appends a child. It fails if the child kind is not
	// accepted by this node or the child already has a parent.
	AddChild(child Node) error

	// RemoveChild detaches a child, releasing ownership to the caller.
	RemoveChild(child Node) error

	// CanAddChild reports whether this node kind accepts the child kind.
	CanAddChild(child Node) bool

	// CanRemoveChild reports whether the child may be removed.
	CanRemoveChild(child Node) bool

	// RemoveIfEmpty reports whether the node should be dissolved once its
	// last child is removed.
	RemoveIfEmpty() bool

	// Selectable reports whether the node can be selected directly.
	Selectable() bool

	Selected() bool
	Select()
	Deselect()

	Hidden() bool
	SetHidden(hidden bool)

	// Locked nodes stay visible but are excluded from selection.
	Locked() bool
	SetLocked(locked bool)

	// LogicalBounds returns the tight bounding box of the node's own
	// content (or its children, for aggregate kinds). Recomputed lazily.
	LogicalBounds() sdf.Box3

	// PhysicalBounds returns the logical bounds extended by render-only
	// extras such as entity model overlays. Recomputed lazily.
	PhysicalBounds() sdf.Box3

	// LogicalBoundsCached reports whether the logical bounds cache is
	// currently valid.
	LogicalBoundsCached() bool

	// PhysicalBoundsCached reports whether the physical bounds cache is
	// currently valid.
	PhysicalBoundsCached() bool

	// InvalidateBounds drops both bounds caches of this node and
	// propagates the physical-bounds invalidation to every ancestor.
	InvalidateBounds()

	// ProjectedArea returns the node's one-sided surface area projected
	// onto the plane perpendicular to the axis.
	ProjectedArea(axis geo.Axis) float64

	// Accept dispatches to the visitor method for the concrete kind.
	Accept(v Visitor)

	// Clone returns a deep copy of the node without its children and
	// without a parent.
	Clone() Node

	// Pick tests the ray against this node and its descendants, adding
	// hits to the result. Hidden nodes are skipped per the context.
	Pick(ctx *EditorContext, ray geo.Ray, result *PickResult)

	// FindNodesContaining appends every node in this subtree whose
	// content contains the point.
	FindNodesContaining(point v3.Vec, found *[]Node)

	// TagMask returns the node's tag bits.
	TagMask() brush.TagMask

	InitializeTags(tm *TagManager)
	UpdateTags(tm *TagManager)
	ClearTags()

	// InvalidateIssues drops the node's cached validation issues.
	InvalidateIssues()

	base() *nodeBase
}

// nodeHooks are the per-kind extension points called by the shared base.
type nodeHooks interface {
	computeLogicalBounds() sdf.Box3
	computePhysicalBounds() sdf.Box3
	childWasAdded(child Node)
	childWasRemoved(child Node)
	// aggregatesChildBounds reports whether the node's logical bounds are
	// defined as an aggregate over its descendants, so that a descendant
	// bounds change invalidates the logical cache too.
	aggregatesChildBounds() bool
}

// ---------------------------------------------------------------------------
// Shared base
// ---------------------------------------------------------------------------

// nodeBase carries the state common to all node kinds. Concrete nodes embed
// it and register themselves via init(self).
type nodeBase struct {
	self     Node
	parent   Node
	children []Node

	// Bounds caches: nil means invalid, recomputed on next read.
	cachedLogical  *sdf.Box3
	cachedPhysical *sdf.Box3

	hidden   bool
	locked   bool
	selected bool
	tags     brush.TagMask

	issues      []*Issue
	issuesValid bool
}

func (b *nodeBase) init(self Node) { b.self = self }

func (b *nodeBase) base() *nodeBase { return b }

func (b *nodeBase) hooks() nodeHooks { return b.self.(nodeHooks) }

func (b *nodeBase) Parent() Node { return b.parent }

func (b *nodeBase) Children() []Node { return b.children }

// AddChild appends child to this node's children. The child must be
// parentless and of a kind this node accepts.
func (b *nodeBase) AddChild(child Node) error {
	if child.Parent() != nil {
		return fmt.Errorf("scene: %s already has a parent", child.Name())
	}
	if !b.self.CanAddChild(child) {
		return fmt.Errorf("scene: %s does not accept %s children", b.self.Name(), child.Name())
	}
	b.children = append(b.children, child)
	child.base().parent = b.self
	b.hooks().childWasAdded(child)
	b.self.InvalidateBounds()
	return nil
}

// RemoveChild detaches child. The caller becomes responsible for the
// detached subtree.
func (b *nodeBase) RemoveChild(child Node) error {
	if !b.self.CanRemoveChild(child) {
		return fmt.Errorf("scene: cannot remove %s from %s", child.Name(), b.self.Name())
	}
	for i, c := range b.children {
		if c == child {
			b.children = append(b.children[:i], b.children[i+1:]...)
			child.base().parent = nil
			b.hooks().childWasRemoved(child)
			b.self.InvalidateBounds()
			return nil
		}
	}
	return fmt.Errorf("scene: %s is not a child of %s", child.Name(), b.self.Name())
}

// Default hooks; overridden by kinds that care.

func (b *nodeBase) childWasAdded(Node)   {}
func (b *nodeBase) childWasRemoved(Node) {}

// ---------------------------------------------------------------------------
// Selection and visibility
// ---------------------------------------------------------------------------

func (b *nodeBase) Selected() bool { return b.selected }
func (b *nodeBase) Select()        { b.selected = true }
func (b *nodeBase) Deselect()      { b.selected = false }

func (b *nodeBase) Hidden() bool          { return b.hidden }
func (b *nodeBase) SetHidden(hidden bool) { b.hidden = hidden }

func (b *nodeBase) Locked() bool          { return b.locked }
func (b *nodeBase) SetLocked(locked bool) { b.locked = locked }

// cloneAttributes copies the shared flags onto a cloned node.
func (b *nodeBase) cloneAttributes(from *nodeBase) {
	b.hidden = from.hidden
	b.locked = from.locked
	b.selected = from.selected
	b.tags = from.tags
}

// ---------------------------------------------------------------------------
// Bounds caching and invalidation
// ---------------------------------------------------------------------------

func (b *nodeBase) LogicalBounds() sdf.Box3 {
	if b.cachedLogical == nil {
		bounds := b.hooks().computeLogicalBounds()
		b.cachedLogical = &bounds
	}
	return *b.cachedLogical
}

func (b *nodeBase) PhysicalBounds() sdf.Box3 {
	if b.cachedPhysical == nil {
		bounds := b.hooks().computePhysicalBounds()
		b.cachedPhysical = &bounds
	}
	return *b.cachedPhysical
}

func (b *nodeBase) LogicalBoundsCached() bool  { return b.cachedLogical != nil }
func (b *nodeBase) PhysicalBoundsCached() bool { return b.cachedPhysical != nil }

// InvalidateBounds drops this node's caches and walks the ancestor chain:
// physical bounds include descendant contributions and are always dropped;
// logical bounds are dropped only for aggregate kinds.
func (b *nodeBase) InvalidateBounds() {
	b.cachedLogical = nil
	b.cachedPhysical = nil
	for p := b.parent; p != nil; p = p.Parent() {
		pb := p.base()
		pb.cachedPhysical = nil
		if pb.hooks().aggregatesChildBounds() {
			pb.cachedLogical = nil
		}
	}
}

// computeLogicalBounds default: the union of the children's logical bounds.
func (b *nodeBase) computeLogicalBounds() sdf.Box3 {
	return unionBounds(b.children, Node.LogicalBounds)
}

// computePhysicalBounds default: the union of the children's physical
// bounds.
func (b *nodeBase) computePhysicalBounds() sdf.Box3 {
	return unionBounds(b.children, Node.PhysicalBounds)
}

func (b *nodeBase) aggregatesChildBounds() bool { return true }

// unionBounds merges the bounds of all nodes, using the given accessor.
func unionBounds(nodes []Node, boundsOf func(Node) sdf.Box3) sdf.Box3 {
	var merged sdf.Box3
	for i, n := range nodes {
		if i == 0 {
			merged = boundsOf(n)
		} else {
			merged = geo.MergeBoxes(merged, boundsOf(n))
		}
	}
	return merged
}

// ProjectedArea default: the cross-section of the physical bounds.
func (b *nodeBase) ProjectedArea(axis geo.Axis) float64 {
	size := b.self.PhysicalBounds().Size()
	switch axis {
	case geo.AxisX:
		return size.Y * size.Z
	case geo.AxisY:
		return size.X * size.Z
	default:
		return size.X * size.Y
	}
}

// ---------------------------------------------------------------------------
// Tags
// ---------------------------------------------------------------------------

func (b *nodeBase) TagMask() brush.TagMask { return b.tags }

func (b *nodeBase) InitializeTags(tm *TagManager) {
	b.self.UpdateTags(tm)
	for _, c := range b.children {
		c.InitializeTags(tm)
	}
}

func (b *nodeBase) UpdateTags(tm *TagManager) {
	b.tags = tm.matchNode(b.self)
}

func (b *nodeBase) ClearTags() {
	b.tags = 0
	for _, c := range b.children {
		c.ClearTags()
	}
}

// ---------------------------------------------------------------------------
// Issues
// ---------------------------------------------------------------------------

func (b *nodeBase) InvalidateIssues() { b.issuesValid = false }

// pickChildren recurses a pick into the children.
func (b *nodeBase) pickChildren(ctx *EditorContext, ray geo.Ray, result *PickResult) {
	for _, c := range b.children {
		c.Pick(ctx, ray, result)
	}
}

// findInChildren recurses containment lookup into the children.
func (b *nodeBase) findInChildren(point v3.Vec, found *[]Node) {
	for _, c := range b.children {
		c.FindNodesContaining(point, found)
	}
}
