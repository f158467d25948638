package engine

import (
	"math"
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ktelfer/quarry/pkg/geo"
	"github.com/ktelfer/quarry/pkg/scene"
)

// evalSource evaluates a script and fails the test on any error.
func evalSource(t *testing.T, source string) *scene.WorldNode {
	t.Helper()
	world, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return world
}

// ---------------------------------------------------------------------------
// Preprocessing
// ---------------------------------------------------------------------------

func TestPreprocessSource(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"keyword", "(face :texture)", `(face "__kw_texture")`},
		{"keyword with digits", "(e :speed2 5)", `(e "__kw_speed2" 5)`},
		{"assignment preserved", "x := 5", "x := 5"},
		{"kebab identifier", "(func-door)", "(func_door)"},
		{"minus stays", "(- 5 3)", "(- 5 3)"},
		{"negative literal", "(vec3 -1 0 0)", "(vec3 -1 0 0)"},
		{"comment converted", "; note\n(+ 1 2)", "// note\n(+ 1 2)"},
		{"double semicolon", ";; note", "// note"},
		{"string untouched", `(msg "a-b :c ; d")`, `(msg "a-b :c ; d")`},
		{"backtick untouched", "(msg `a-b :c`)", "(msg `a-b :c`)"},
		{"escaped quote", `(msg "say \"hi-ho\"")`, `(msg "say \"hi-ho\"")`},
	}
	for _, c := range cases {
		if got := preprocessSource(c.in); got != c.want {
			t.Errorf("%s: preprocess(%q) = %q, want %q", c.name, c.in, got, c.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Shape builtins
// ---------------------------------------------------------------------------

func TestCuboidBuiltin(t *testing.T) {
	world := evalSource(t, `(cuboid :min (vec3 0 0 0) :max (vec3 64 64 64) :texture "stone")`)

	children := world.DefaultLayer().Children()
	if len(children) != 1 {
		t.Fatalf("content count = %d, want 1", len(children))
	}
	node, ok := children[0].(*scene.BrushNode)
	if !ok {
		t.Fatalf("content is %T, want brush node", children[0])
	}

	b := node.Brush()
	if b.FaceCount() != 6 {
		t.Errorf("face count = %d, want 6", b.FaceCount())
	}
	for i := 0; i < b.FaceCount(); i++ {
		if got := b.Face(i).Texture(); got != "stone" {
			t.Errorf("face %d texture = %q, want stone", i, got)
		}
	}
	want := geo.CubeBox(0)
	want.Max = v3.Vec{X: 64, Y: 64, Z: 64}
	if !geo.BoxEquals(b.Bounds(), want, 1e-6) {
		t.Errorf("bounds = %+v, want 64 cube at the origin", b.Bounds())
	}
}

func TestCuboidRequiresMinMax(t *testing.T) {
	_, evalErrs, err := NewEngine().Evaluate(`(cuboid :max (vec3 64 64 64))`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("missing :min must fail")
	}
}

func TestWedgeBuiltin(t *testing.T) {
	world := evalSource(t, `(wedge :min (vec3 0 0 0) :max (vec3 64 64 32) :texture "ramp")`)

	node := world.DefaultLayer().Children()[0].(*scene.BrushNode)
	b := node.Brush()
	if b.FaceCount() != 5 {
		t.Fatalf("face count = %d, want 5", b.FaceCount())
	}
	// Inside the thick end, outside above the slope.
	if !b.ContainsPoint(v3.Vec{X: 8, Y: 32, Z: 8}) {
		t.Error("point near the thick end must be inside")
	}
	if b.ContainsPoint(v3.Vec{X: 60, Y: 32, Z: 30}) {
		t.Error("point above the slope must be outside")
	}
}

func TestBrushFromFaces(t *testing.T) {
	source := `
(brush
  (face (vec3 0 0 0) (vec3 0 0 64) (vec3 0 64 64) :texture "wall")
  (face (vec3 64 0 0) (vec3 64 64 0) (vec3 64 64 64) :texture "wall")
  (face (vec3 0 0 0) (vec3 64 0 0) (vec3 64 0 64) :texture "wall")
  (face (vec3 0 64 0) (vec3 0 64 64) (vec3 64 64 64) :texture "wall")
  (face (vec3 0 0 0) (vec3 0 64 0) (vec3 64 64 0) :texture "floor")
  (face (vec3 0 0 64) (vec3 64 0 64) (vec3 64 64 64) :texture "ceil"))
`
	world := evalSource(t, source)

	node := world.DefaultLayer().Children()[0].(*scene.BrushNode)
	b := node.Brush()
	if b.FaceCount() != 6 {
		t.Fatalf("face count = %d, want 6", b.FaceCount())
	}
	if !b.ContainsPoint(v3.Vec{X: 32, Y: 32, Z: 32}) {
		t.Error("cube center must be inside")
	}
	textures := map[string]bool{}
	for i := 0; i < b.FaceCount(); i++ {
		textures[b.Face(i).Texture()] = true
	}
	if !textures["floor"] || !textures["ceil"] || !textures["wall"] {
		t.Errorf("textures = %v, want wall/floor/ceil", textures)
	}
}

func TestPlaneBuiltin(t *testing.T) {
	source := `
(brush
  (plane (vec3 0 0 0) (vec3 -1 0 0) :texture "wall")
  (plane (vec3 64 64 64) (vec3 1 0 0) :texture "wall")
  (plane (vec3 0 0 0) (vec3 0 -1 0) :texture "wall")
  (plane (vec3 64 64 64) (vec3 0 1 0) :texture "wall")
  (plane (vec3 0 0 0) (vec3 0 0 -1) :texture "floor")
  (plane (vec3 64 64 64) (vec3 0 0 1) :texture "ceil"))
`
	world := evalSource(t, source)

	node := world.DefaultLayer().Children()[0].(*scene.BrushNode)
	b := node.Brush()
	if b.FaceCount() != 6 {
		t.Fatalf("face count = %d, want 6", b.FaceCount())
	}
	if !b.ContainsPoint(v3.Vec{X: 32, Y: 32, Z: 32}) {
		t.Error("cube center must be inside")
	}
	if b.ContainsPoint(v3.Vec{X: 96, Y: 32, Z: 32}) {
		t.Error("point past the +X plane must be outside")
	}
}

func TestPlaneRejectsZeroNormal(t *testing.T) {
	_, evalErrs, err := NewEngine().Evaluate(`(plane (vec3 0 0 0) (vec3 0 0 0))`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("zero-length normal must be rejected")
	}
}

func TestBrushRequiresFourFaces(t *testing.T) {
	_, evalErrs, err := NewEngine().Evaluate(`
(brush
  (face (vec3 0 0 0) (vec3 0 0 64) (vec3 0 64 64))
  (face (vec3 64 0 0) (vec3 64 64 0) (vec3 64 64 64)))
`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("two faces must be rejected")
	}
}

func TestPatchBuiltin(t *testing.T) {
	source := `
(patch :rows 3 :cols 3 :texture "curve"
  :points (list (vec3 0 0 0) (vec3 1 0 0) (vec3 2 0 0)
                (vec3 0 1 0) (vec3 1 1 1) (vec3 2 1 0)
                (vec3 0 2 0) (vec3 1 2 0) (vec3 2 2 0)))
`
	world := evalSource(t, source)

	node, ok := world.DefaultLayer().Children()[0].(*scene.PatchNode)
	if !ok {
		t.Fatalf("content is %T, want patch node", world.DefaultLayer().Children()[0])
	}
	if node.Patch().Texture() != "curve" {
		t.Errorf("texture = %q, want curve", node.Patch().Texture())
	}
	if node.Patch().RowCount() != 3 || node.Patch().ColCount() != 3 {
		t.Errorf("grid = %dx%d, want 3x3", node.Patch().RowCount(), node.Patch().ColCount())
	}
	bounds := node.LogicalBounds()
	if bounds.Max.Z <= 0 {
		t.Error("lifted middle control point must bulge the surface upward")
	}
}

// ---------------------------------------------------------------------------
// Placement builtins
// ---------------------------------------------------------------------------

func TestEntityBuiltinPoint(t *testing.T) {
	world := evalSource(t, `(entity "info_player_start" :origin (vec3 32 64 24) :angle 90)`)

	children := world.DefaultLayer().Children()
	if len(children) != 1 {
		t.Fatalf("content count = %d, want 1", len(children))
	}
	e, ok := children[0].(*scene.EntityNode)
	if !ok {
		t.Fatalf("content is %T, want entity node", children[0])
	}
	if e.Classname() != "info_player_start" {
		t.Errorf("classname = %q", e.Classname())
	}
	if !e.Origin().Equals(v3.Vec{X: 32, Y: 64, Z: 24}, 1e-9) {
		t.Errorf("origin = %v", e.Origin())
	}
	if math.Abs(e.Angle()-90) > 1e-9 {
		t.Errorf("angle = %v, want 90", e.Angle())
	}
	if !e.IsPointEntity() {
		t.Error("entity without children must be a point entity")
	}
	// origin and angle are placement, not properties.
	if _, ok := e.Property("origin"); ok {
		t.Error("origin leaked into the properties")
	}
}

func TestEntityBuiltinBrushChildren(t *testing.T) {
	source := `
(def door (cuboid :min (vec3 0 0 0) :max (vec3 64 8 96) :texture "door"))
(entity "func_door" door :speed 100 :targetname "door1")
`
	world := evalSource(t, source)

	children := world.DefaultLayer().Children()
	if len(children) != 1 {
		t.Fatalf("layer content = %d nodes, want the entity only", len(children))
	}
	e := children[0].(*scene.EntityNode)
	if e.IsPointEntity() {
		t.Fatal("entity with a brush child must be a brush entity")
	}
	if len(e.Children()) != 1 {
		t.Fatalf("entity children = %d, want 1", len(e.Children()))
	}
	if _, ok := e.Children()[0].(*scene.BrushNode); !ok {
		t.Fatalf("entity child is %T, want brush node", e.Children()[0])
	}

	if got, _ := e.Property("speed"); got != "100" {
		t.Errorf("speed = %q, want 100", got)
	}
	if got, _ := e.Property("targetname"); got != "door1" {
		t.Errorf("targetname = %q, want door1", got)
	}

	// classname first, then the keyword properties in script order.
	props := e.Properties()
	if len(props) != 3 || props[0].Key != scene.ClassnameKey ||
		props[1].Key != "speed" || props[2].Key != "targetname" {
		t.Errorf("property order = %v", props)
	}
}

func TestGroupBuiltin(t *testing.T) {
	source := `
(def step1 (cuboid :min (vec3 0 0 0) :max (vec3 64 16 8)))
(def step2 (cuboid :min (vec3 0 16 0) :max (vec3 64 32 16)))
(group "stairs" step1 step2)
`
	world := evalSource(t, source)

	children := world.DefaultLayer().Children()
	if len(children) != 1 {
		t.Fatalf("layer content = %d nodes, want the group only", len(children))
	}
	g, ok := children[0].(*scene.GroupNode)
	if !ok {
		t.Fatalf("content is %T, want group node", children[0])
	}
	if g.Name() != "stairs" {
		t.Errorf("group name = %q", g.Name())
	}
	if len(g.Children()) != 2 {
		t.Errorf("group members = %d, want 2", len(g.Children()))
	}
}

func TestLayerBuiltin(t *testing.T) {
	source := `
(def detail (cuboid :min (vec3 0 0 0) :max (vec3 8 8 8)))
(layer "detail" detail)
`
	world := evalSource(t, source)

	layers := world.CustomLayers()
	if len(layers) != 1 {
		t.Fatalf("custom layers = %d, want 1", len(layers))
	}
	if layers[0].Name() != "detail" {
		t.Errorf("layer name = %q", layers[0].Name())
	}
	if len(layers[0].Children()) != 1 {
		t.Errorf("layer members = %d, want 1", len(layers[0].Children()))
	}
	if len(world.DefaultLayer().Children()) != 0 {
		t.Error("member must leave the default layer")
	}
}

func TestWorldPropertyBuiltin(t *testing.T) {
	world := evalSource(t, `(world-property "message" "Welcome to the arena")`)
	if got, _ := world.Property("message"); got != "Welcome to the arena" {
		t.Errorf("message = %q", got)
	}
}

func TestCommentsAndKebabSource(t *testing.T) {
	source := `
; build a small arena
(cuboid :min (vec3 0 0 0) :max (vec3 128 128 16) :texture "floor-tile")
(entity "info-player-start" :origin (vec3 64 64 40))
`
	world := evalSource(t, source)

	if got := len(world.DefaultLayer().Children()); got != 2 {
		t.Fatalf("content count = %d, want 2", got)
	}
	// Kebab rewriting applies to identifiers, not string contents.
	var e *scene.EntityNode
	for _, c := range world.DefaultLayer().Children() {
		if ent, ok := c.(*scene.EntityNode); ok {
			e = ent
		}
	}
	if e == nil {
		t.Fatal("entity missing")
	}
	if e.Classname() != "info-player-start" {
		t.Errorf("classname = %q, want the hyphen preserved", e.Classname())
	}
}

func TestVec3Errors(t *testing.T) {
	for _, source := range []string{
		`(vec3 1 2)`,
		`(vec3 "a" 2 3)`,
	} {
		_, evalErrs, err := NewEngine().Evaluate(source)
		if err != nil {
			t.Fatalf("%s: fatal error: %v", source, err)
		}
		if len(evalErrs) == 0 {
			t.Errorf("%s: want eval errors", source)
		}
	}
}

func TestKeywordArgOrderPreserved(t *testing.T) {
	world := evalSource(t, `(entity "light" :light 300 :wait 2 :style 1)`)
	e := world.DefaultLayer().Children()[0].(*scene.EntityNode)

	var keys []string
	for _, p := range e.Properties() {
		keys = append(keys, p.Key)
	}
	want := strings.Join([]string{scene.ClassnameKey, "light", "wait", "style"}, ",")
	if got := strings.Join(keys, ","); got != want {
		t.Errorf("property order = %s, want %s", got, want)
	}
}
