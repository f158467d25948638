package scene

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ktelfer/quarry/pkg/geo"
	"github.com/ktelfer/quarry/pkg/polyhedron"
)

// DefaultEntityBounds is the placement box of a point entity whose class
// definition carries no bounds of its own.
var DefaultEntityBounds = geo.CubeBox(8)

// EntityModel is the display model attached to a point entity: its bounds
// in model-local space plus an optional convex hull for precise picking.
type EntityModel struct {
	Bounds sdf.Box3
	Hull   *polyhedron.Polyhedron
}

// EntityNode is a game object. Without children it is a point entity,
// located by its origin and sized by its definition bounds; with brush or
// patch children it is a brush entity whose extent is the children's.
// The classification is derived from the child list alone, so adding the
// first child demotes a point entity and removing the last child restores
// it.
type EntityNode struct {
	nodeBase
	entityState

	origin v3.Vec
	// angle is the yaw about the Z axis in degrees.
	angle float64
	model *EntityModel
}

// NewEntityNode creates a point entity of the given class at the origin.
func NewEntityNode(classname string) *EntityNode {
	e := &EntityNode{}
	e.init(e)
	e.setProperty(ClassnameKey, classname)
	return e
}

func (e *EntityNode) Name() string {
	if name := e.Classname(); name != "" {
		return name
	}
	return "entity"
}

// IsPointEntity reports whether the entity has no brush or patch children.
func (e *EntityNode) IsPointEntity() bool { return len(e.children) == 0 }

// Origin returns the placement origin of a point entity.
func (e *EntityNode) Origin() v3.Vec { return e.origin }

// SetOrigin moves the entity.
func (e *EntityNode) SetOrigin(origin v3.Vec) {
	e.origin = origin
	e.InvalidateBounds()
}

// Angle returns the yaw about Z in degrees.
func (e *EntityNode) Angle() float64 { return e.angle }

// SetAngle rotates the entity about Z.
func (e *EntityNode) SetAngle(degrees float64) {
	e.angle = degrees
	e.InvalidateBounds()
}

// Model returns the attached display model, or nil.
func (e *EntityNode) Model() *EntityModel { return e.model }

// SetModel attaches or detaches the display model.
func (e *EntityNode) SetModel(model *EntityModel) {
	e.model = model
	e.InvalidateBounds()
}

// SetProperty sets a property and invalidates the entity's issues.
func (e *EntityNode) SetProperty(key, value string) {
	e.setProperty(key, value)
	e.InvalidateIssues()
}

// RemoveProperty deletes a property and invalidates the entity's issues.
func (e *EntityNode) RemoveProperty(key string) {
	e.removeProperty(key)
	e.InvalidateIssues()
}

// SetDefinition attaches the resolved class definition.
func (e *EntityNode) SetDefinition(def *EntityDefinition) {
	e.definition = def
	e.InvalidateBounds()
	e.InvalidateIssues()
}

// ModelTransformation returns the model-to-world transform: the yaw about
// Z followed by the translation to the origin.
func (e *EntityNode) ModelTransformation() sdf.M44 {
	return sdf.Translate3d(e.origin).Mul(sdf.RotateZ(e.angle * math.Pi / 180))
}

// ---------------------------------------------------------------------------
// Tree protocol
// ---------------------------------------------------------------------------

// CanAddChild accepts brushes and patches.
func (e *EntityNode) CanAddChild(child Node) bool {
	switch child.(type) {
	case *BrushNode, *PatchNode:
		return true
	default:
		return false
	}
}

func (e *EntityNode) CanRemoveChild(Node) bool { return true }

// RemoveIfEmpty is true: a brush entity that loses its last brush reverts
// to a point entity only if the editor wants it to; dissolving is the
// default for entities created around brushes.
func (e *EntityNode) RemoveIfEmpty() bool { return true }

// Selectable is true only for point entities; a brush entity is selected
// through its brushes.
func (e *EntityNode) Selectable() bool { return e.IsPointEntity() }

func (e *EntityNode) Accept(v Visitor) { v.VisitEntity(e) }

// Clone copies the entity without its children. The model is shared; it is
// immutable display data.
func (e *EntityNode) Clone() Node {
	out := &EntityNode{origin: e.origin, angle: e.angle, model: e.model}
	out.init(out)
	out.entityState = e.cloneState()
	out.cloneAttributes(&e.nodeBase)
	return out
}

func (e *EntityNode) childWasAdded(Node)   { e.InvalidateIssues() }
func (e *EntityNode) childWasRemoved(Node) { e.InvalidateIssues() }

// ---------------------------------------------------------------------------
// Bounds
// ---------------------------------------------------------------------------

// definitionBounds returns the local placement box of the point entity.
func (e *EntityNode) definitionBounds() sdf.Box3 {
	if e.definition != nil {
		return e.definition.Bounds
	}
	return DefaultEntityBounds
}

func (e *EntityNode) computeLogicalBounds() sdf.Box3 {
	if !e.IsPointEntity() {
		return unionBounds(e.children, Node.LogicalBounds)
	}
	return geo.BoxTranslate(e.definitionBounds(), e.origin)
}

func (e *EntityNode) computePhysicalBounds() sdf.Box3 {
	if !e.IsPointEntity() {
		return unionBounds(e.children, Node.PhysicalBounds)
	}
	logical := e.LogicalBounds()
	if e.model == nil {
		return logical
	}
	return geo.MergeBoxes(logical, e.modelBounds())
}

// modelBounds returns the world-space box of the transformed model bounds.
func (e *EntityNode) modelBounds() sdf.Box3 {
	tr := e.ModelTransformation()
	corners := geo.BoxCorners(e.model.Bounds)
	for i, c := range corners {
		corners[i] = tr.MulPosition(c)
	}
	bounds, _ := geo.BoxFromPoints(corners)
	return bounds
}

func (e *EntityNode) aggregatesChildBounds() bool { return !e.IsPointEntity() }

// ---------------------------------------------------------------------------
// Picking and containment
// ---------------------------------------------------------------------------

// Pick hits the placement box of a point entity when the ray starts
// outside it. On a box miss, or when the ray starts inside the box, the
// display model hull is tested instead: the model can extend beyond the
// box, and a camera parked inside the oversized box of a modeled entity
// must not pick it through empty space.
func (e *EntityNode) Pick(ctx *EditorContext, ray geo.Ray, result *PickResult) {
	if !e.IsPointEntity() {
		e.pickChildren(ctx, ray, result)
		return
	}
	if !ctx.Visible(e) {
		return
	}

	bounds := e.LogicalBounds()
	if !geo.BoxContains(bounds, ray.Origin) {
		if dist, ok := ray.IntersectBox(bounds); ok {
			result.AddHit(Hit{
				Type:      HitTypeEntity,
				Distance:  dist,
				Point:     ray.At(dist),
				Node:      e,
				FaceIndex: -1,
			})
			return
		}
	}

	if e.model == nil || e.model.Hull == nil {
		return
	}
	// Test the hull in model-local space. The transform is rigid, so
	// distances along the ray carry over unchanged.
	inv := e.ModelTransformation().Inverse()
	localOrigin := inv.MulPosition(ray.Origin)
	localTip := inv.MulPosition(ray.Origin.Add(ray.Direction))
	localRay := geo.Ray{Origin: localOrigin, Direction: localTip.Sub(localOrigin)}
	if dist, ok := e.model.Hull.IntersectRay(localRay); ok {
		result.AddHit(Hit{
			Type:      HitTypeEntity,
			Distance:  dist,
			Point:     ray.At(dist),
			Node:      e,
			FaceIndex: -1,
		})
	}
}

func (e *EntityNode) FindNodesContaining(point v3.Vec, found *[]Node) {
	if !e.IsPointEntity() {
		e.findInChildren(point, found)
		return
	}
	if geo.BoxContains(e.LogicalBounds(), point) {
		*found = append(*found, e)
	}
}
