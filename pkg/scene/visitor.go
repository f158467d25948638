package scene

// Visitor receives double-dispatch callbacks for each concrete node kind.
// Callers holding only the Node capability use Accept to reach the typed
// method without inspecting the node themselves.
type Visitor interface {
	VisitWorld(n *WorldNode)
	VisitLayer(n *LayerNode)
	VisitGroup(n *GroupNode)
	VisitEntity(n *EntityNode)
	VisitBrush(n *BrushNode)
	VisitPatch(n *PatchNode)
}

// Funcs is a Visitor assembled from optional per-kind functions; nil
// entries ignore that kind. It is the lightweight way to express a typed
// case analysis at a call site.
type Funcs struct {
	World  func(n *WorldNode)
	Layer  func(n *LayerNode)
	Group  func(n *GroupNode)
	Entity func(n *EntityNode)
	Brush  func(n *BrushNode)
	Patch  func(n *PatchNode)
}

func (f Funcs) VisitWorld(n *WorldNode) {
	if f.World != nil {
		f.World(n)
	}
}

func (f Funcs) VisitLayer(n *LayerNode) {
	if f.Layer != nil {
		f.Layer(n)
	}
}

func (f Funcs) VisitGroup(n *GroupNode) {
	if f.Group != nil {
		f.Group(n)
	}
}

func (f Funcs) VisitEntity(n *EntityNode) {
	if f.Entity != nil {
		f.Entity(n)
	}
}

func (f Funcs) VisitBrush(n *BrushNode) {
	if f.Brush != nil {
		f.Brush(n)
	}
}

func (f Funcs) VisitPatch(n *PatchNode) {
	if f.Patch != nil {
		f.Patch(n)
	}
}

// Walk calls fn for n and every descendant in depth-first order.
func Walk(n Node, fn func(Node)) {
	fn(n)
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// FindContainingLayer walks the ancestor chain and returns the nearest
// enclosing layer, or nil if the node is not inside one. A nil result is a
// valid outcome, not an error.
func FindContainingLayer(n Node) *LayerNode {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if layer, ok := p.(*LayerNode); ok {
			return layer
		}
	}
	return nil
}

// FindContainingGroup walks the ancestor chain and returns the nearest
// enclosing group, or nil if the node is not grouped.
func FindContainingGroup(n Node) *GroupNode {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if group, ok := p.(*GroupNode); ok {
			return group
		}
	}
	return nil
}

// FindContainingEntity walks the ancestor chain and returns the nearest
// entity-like ancestor: the owning entity of a brush inside a brush
// entity, or the world for a brush placed at top level.
func FindContainingEntity(n Node) EntityHolder {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch holder := p.(type) {
		case *EntityNode:
			return holder
		case *WorldNode:
			return holder
		}
	}
	return nil
}
