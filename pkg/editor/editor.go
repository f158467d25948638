// Package editor ties the construction engine, the scene tree and the
// render caches into one headless editing session. UI frontends bind to
// Session instead of wiring the packages themselves.
package editor

import (
	"log"

	"github.com/ktelfer/quarry/pkg/engine"
	"github.com/ktelfer/quarry/pkg/geo"
	"github.com/ktelfer/quarry/pkg/render"
	"github.com/ktelfer/quarry/pkg/scene"
	"github.com/ktelfer/quarry/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to
// meshes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// MeshData is the JSON-serializable mesh format sent to frontends.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	NodeName string    `json:"nodeName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for frontends.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a script.
type EvalResult struct {
	Meshes []MeshData      `json:"meshes"`
	Errors []EvalErrorData `json:"errors"`
}

// Session is one editing session: the current world plus the engine and
// caches serving it. Sessions follow the scene's threading rules and must
// be confined to one goroutine.
type Session struct {
	engine  *engine.Engine
	world   *scene.WorldNode
	cache   *render.BrushCache
	context *scene.EditorContext
}

// NewSession creates a session with an empty world.
func NewSession() *Session {
	return &Session{
		engine:  engine.NewEngine(),
		world:   scene.NewWorldNode(),
		cache:   render.NewBrushCache(),
		context: &scene.EditorContext{},
	}
}

// World returns the current world.
func (s *Session) World() *scene.WorldNode { return s.world }

// Context returns the visibility context used for picking and meshing.
func (s *Session) Context() *scene.EditorContext { return s.context }

// Evaluate replaces the world with the result of the script and returns
// mesh data + errors. On eval errors the previous world is kept.
func (s *Session) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes: []MeshData{},
		Errors: []EvalErrorData{},
	}

	world, evalErrs, err := s.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	s.world = world
	s.cache.Clear()
	result.Meshes = s.Meshes()
	return result
}

// Meshes tessellates the current world, reusing cached brush meshes.
func (s *Session) Meshes() []MeshData {
	meshes := tessellate.Tessellate(s.world, tessellate.Options{
		IncludeHidden: s.context.ShowHidden,
		Cache:         s.cache,
	})

	out := make([]MeshData, 0, len(meshes))
	for i, m := range meshes {
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			NodeName: m.NodeName,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	return out
}

// Pick runs a pick through the world and returns the nearest hit matching
// the mask.
func (s *Session) Pick(ray geo.Ray, mask scene.HitType) (scene.Hit, bool) {
	var result scene.PickResult
	s.world.Pick(s.context, ray, &result)
	return result.First(mask)
}

// SelectAt picks along the ray and selects what it hits: the face and node
// for a brush hit, the node alone otherwise. Locked nodes are reported but
// never selected. It returns the hit, if any.
func (s *Session) SelectAt(ray geo.Ray) (scene.Hit, bool) {
	hit, ok := s.Pick(ray, scene.HitTypeAny)
	if !ok {
		return hit, false
	}
	if hit.Node.Locked() {
		return hit, true
	}
	if bn, isBrush := hit.Node.(*scene.BrushNode); isBrush {
		bn.SelectFace(hit.FaceIndex)
	}
	if hit.Node.Selectable() {
		hit.Node.Select()
	}
	return hit, true
}

// DeselectAll clears every node and face selection in the world.
func (s *Session) DeselectAll() {
	scene.Walk(s.world, func(n scene.Node) {
		n.Deselect()
		if bn, ok := n.(*scene.BrushNode); ok {
			bn.ClearSelectedFaces()
		}
	})
}

// Validate runs the validators over the whole world.
func (s *Session) Validate(validators []scene.Validator) []*scene.Issue {
	return scene.ValidateTree(s.world, validators, scene.IssueAny)
}
