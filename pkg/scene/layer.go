package scene

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ktelfer/quarry/pkg/geo"
)

// LayerNode partitions the map's content directly below the world. Layers
// cannot nest and are organizational only; they never participate in
// selection themselves.
type LayerNode struct {
	nodeBase
	name      string
	isDefault bool
}

// NewLayerNode creates an empty named layer.
func NewLayerNode(name string) *LayerNode {
	l := &LayerNode{name: name}
	l.init(l)
	return l
}

func (l *LayerNode) Name() string { return l.name }

// SetName renames the layer.
func (l *LayerNode) SetName(name string) { l.name = name }

// IsDefault reports whether this is the world's default layer.
func (l *LayerNode) IsDefault() bool { return l.isDefault }

// CanAddChild accepts groups, entities, brushes and patches. Layers do not
// nest and the world stays at the root.
func (l *LayerNode) CanAddChild(child Node) bool {
	switch child.(type) {
	case *GroupNode, *EntityNode, *BrushNode, *PatchNode:
		return true
	default:
		return false
	}
}

func (l *LayerNode) CanRemoveChild(Node) bool { return true }

func (l *LayerNode) RemoveIfEmpty() bool { return false }
func (l *LayerNode) Selectable() bool    { return false }

func (l *LayerNode) Accept(v Visitor) { v.VisitLayer(l) }

// Clone copies the layer without its children. The default flag is not
// copied; a world has exactly one default layer.
func (l *LayerNode) Clone() Node {
	out := NewLayerNode(l.name)
	out.cloneAttributes(&l.nodeBase)
	return out
}

func (l *LayerNode) Pick(ctx *EditorContext, ray geo.Ray, result *PickResult) {
	if ctx != nil && !ctx.ShowHidden && l.Hidden() {
		return
	}
	l.pickChildren(ctx, ray, result)
}

func (l *LayerNode) FindNodesContaining(point v3.Vec, found *[]Node) {
	l.findInChildren(point, found)
}
