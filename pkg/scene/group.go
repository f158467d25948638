package scene

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ktelfer/quarry/pkg/geo"
)

// GroupNode bundles content nodes so they select and move as a unit.
// Groups nest arbitrarily and dissolve when their last member is removed.
type GroupNode struct {
	nodeBase
	name string
}

// NewGroupNode creates an empty named group.
func NewGroupNode(name string) *GroupNode {
	g := &GroupNode{name: name}
	g.init(g)
	return g
}

func (g *GroupNode) Name() string { return g.name }

// SetName renames the group.
func (g *GroupNode) SetName(name string) { g.name = name }

// CanAddChild accepts groups, entities, brushes and patches.
func (g *GroupNode) CanAddChild(child Node) bool {
	switch child.(type) {
	case *GroupNode, *EntityNode, *BrushNode, *PatchNode:
		return true
	default:
		return false
	}
}

func (g *GroupNode) CanRemoveChild(Node) bool { return true }

// RemoveIfEmpty is true: an empty group carries no information.
func (g *GroupNode) RemoveIfEmpty() bool { return true }

func (g *GroupNode) Selectable() bool { return true }

func (g *GroupNode) Accept(v Visitor) { v.VisitGroup(g) }

// Clone copies the group shell without its children.
func (g *GroupNode) Clone() Node {
	out := NewGroupNode(g.name)
	out.cloneAttributes(&g.nodeBase)
	return out
}

func (g *GroupNode) Pick(ctx *EditorContext, ray geo.Ray, result *PickResult) {
	if ctx != nil && !ctx.ShowHidden && g.Hidden() {
		return
	}
	g.pickChildren(ctx, ray, result)
}

func (g *GroupNode) FindNodesContaining(point v3.Vec, found *[]Node) {
	g.findInChildren(point, found)
}
