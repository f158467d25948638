package scene

import (
	"strings"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ktelfer/quarry/pkg/geo"
)

// ---------------------------------------------------------------------------
// Entity-like state shared by WorldNode and EntityNode
// ---------------------------------------------------------------------------

// Property is one key/value pair on an entity-like node.
type Property struct {
	Key   string
	Value string
}

// ClassnameKey is the property holding the entity class.
const ClassnameKey = "classname"

// ModsKey is the world property listing enabled mod search paths,
// separated by semicolons.
const ModsKey = "_mod"

// EntityDefinition describes a known entity class: its name and, for point
// entities, the default placement bounds.
type EntityDefinition struct {
	Name   string
	Bounds sdf.Box3
}

// EntityHolder is the capability shared by WorldNode and EntityNode:
// property storage and an optional resolved definition.
type EntityHolder interface {
	Node
	Classname() string
	Properties() []Property
	Property(key string) (string, bool)
	SetProperty(key, value string)
	RemoveProperty(key string)
	Definition() *EntityDefinition
	SetDefinition(def *EntityDefinition)
}

// entityState implements the property storage half of EntityHolder.
type entityState struct {
	properties []Property
	definition *EntityDefinition
}

func (s *entityState) Properties() []Property { return s.properties }

func (s *entityState) Property(key string) (string, bool) {
	for _, p := range s.properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

func (s *entityState) Classname() string {
	name, _ := s.Property(ClassnameKey)
	return name
}

func (s *entityState) Definition() *EntityDefinition { return s.definition }

func (s *entityState) setProperty(key, value string) {
	for i, p := range s.properties {
		if p.Key == key {
			s.properties[i].Value = value
			return
		}
	}
	s.properties = append(s.properties, Property{Key: key, Value: value})
}

func (s *entityState) removeProperty(key string) {
	for i, p := range s.properties {
		if p.Key == key {
			s.properties = append(s.properties[:i], s.properties[i+1:]...)
			return
		}
	}
}

func (s *entityState) cloneState() entityState {
	out := entityState{definition: s.definition}
	out.properties = append(out.properties, s.properties...)
	return out
}

// ---------------------------------------------------------------------------
// WorldNode
// ---------------------------------------------------------------------------

// WorldNode is the root of a map. It owns the default layer plus any
// custom layers; all other content hangs below a layer.
type WorldNode struct {
	nodeBase
	entityState
	defaultLayer *LayerNode
}

// NewWorldNode creates a world with its default layer attached.
func NewWorldNode() *WorldNode {
	w := &WorldNode{}
	w.init(w)
	w.setProperty(ClassnameKey, "worldspawn")

	w.defaultLayer = NewLayerNode("Default Layer")
	w.defaultLayer.isDefault = true
	// The default layer is always accepted.
	w.children = append(w.children, w.defaultLayer)
	w.defaultLayer.parent = w
	return w
}

func (w *WorldNode) Name() string { return "world" }

// DefaultLayer returns the layer that holds unassigned content.
func (w *WorldNode) DefaultLayer() *LayerNode { return w.defaultLayer }

// CustomLayers returns every layer except the default one, in order.
func (w *WorldNode) CustomLayers() []*LayerNode {
	var layers []*LayerNode
	for _, c := range w.children {
		if layer, ok := c.(*LayerNode); ok && !layer.isDefault {
			layers = append(layers, layer)
		}
	}
	return layers
}

// CanAddChild accepts only layers; content nodes belong to a layer.
func (w *WorldNode) CanAddChild(child Node) bool {
	_, ok := child.(*LayerNode)
	return ok
}

// CanRemoveChild rejects removal of the default layer.
func (w *WorldNode) CanRemoveChild(child Node) bool {
	return child != Node(w.defaultLayer)
}

func (w *WorldNode) RemoveIfEmpty() bool { return false }
func (w *WorldNode) Selectable() bool    { return false }

func (w *WorldNode) Accept(v Visitor) { v.VisitWorld(w) }

// Clone copies the world's properties into a fresh world with a new empty
// default layer. Children are not cloned.
func (w *WorldNode) Clone() Node {
	out := NewWorldNode()
	out.entityState = w.cloneState()
	out.cloneAttributes(&w.nodeBase)
	return out
}

func (w *WorldNode) Pick(ctx *EditorContext, ray geo.Ray, result *PickResult) {
	w.pickChildren(ctx, ray, result)
}

func (w *WorldNode) FindNodesContaining(point v3.Vec, found *[]Node) {
	w.findInChildren(point, found)
}

// SetProperty sets a property and invalidates the world's issues.
func (w *WorldNode) SetProperty(key, value string) {
	w.setProperty(key, value)
	w.InvalidateIssues()
}

// RemoveProperty deletes a property and invalidates the world's issues.
func (w *WorldNode) RemoveProperty(key string) {
	w.removeProperty(key)
	w.InvalidateIssues()
}

// SetDefinition attaches the resolved worldspawn definition.
func (w *WorldNode) SetDefinition(def *EntityDefinition) {
	w.definition = def
	w.InvalidateIssues()
}

// EnabledMods returns the mod search paths listed in the world's mods
// property.
func (w *WorldNode) EnabledMods() []string {
	value, ok := w.Property(ModsKey)
	if !ok || value == "" {
		return nil
	}
	parts := strings.Split(value, ";")
	mods := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			mods = append(mods, trimmed)
		}
	}
	return mods
}

// SetEnabledMods replaces the world's mods property.
func (w *WorldNode) SetEnabledMods(mods []string) {
	if len(mods) == 0 {
		w.RemoveProperty(ModsKey)
		return
	}
	w.SetProperty(ModsKey, strings.Join(mods, ";"))
}
