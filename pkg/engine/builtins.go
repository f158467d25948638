package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/ktelfer/quarry/pkg/brush"
	"github.com/ktelfer/quarry/pkg/geo"
	"github.com/ktelfer/quarry/pkg/scene"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms map script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: func-door -> func_door
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a vector literal.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpFace wraps a brush face so it can be returned from `face` and
// consumed by `brush`.
type sexpFace struct {
	face *brush.Face
}

func (f *sexpFace) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(face %q)", f.face.Texture())
}
func (f *sexpFace) Type() *zygo.RegisteredType { return nil }

// sexpNode wraps a scene node so placement builtins can re-parent it.
type sexpNode struct {
	node scene.Node
}

func (n *sexpNode) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(node %s)", n.node.Name())
}
func (n *sexpNode) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	order      []string
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if _, seen := result.kw[name]; !seen {
				result.order = append(result.order, name)
			}
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value; treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a vector from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toNode extracts a scene node from a sexpNode.
func toNode(s zygo.Sexp) (scene.Node, error) {
	if n, ok := s.(*sexpNode); ok {
		return n.node, nil
	}
	return nil, fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
}

// propertyString renders a keyword argument value as an entity property
// value.
func propertyString(s zygo.Sexp) (string, error) {
	switch v := s.(type) {
	case *zygo.SexpStr:
		return v.S, nil
	case *zygo.SexpInt:
		return strconv.FormatInt(v.Val, 10), nil
	case *zygo.SexpFloat:
		return strconv.FormatFloat(v.Val, 'g', -1, 64), nil
	case *sexpVec3:
		return fmt.Sprintf("%g %g %g", v.vec.X, v.vec.Y, v.vec.Z), nil
	}
	return "", fmt.Errorf("expected string, number or vec3, got %T", s)
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Scene assembly helpers
// ---------------------------------------------------------------------------

// reparent moves a node from wherever it currently hangs to the new parent.
func reparent(n scene.Node, to scene.Node) error {
	if p := n.Parent(); p != nil {
		if err := p.RemoveChild(n); err != nil {
			return err
		}
	}
	return to.AddChild(n)
}

// cuboidFaces returns the six outward-facing boundary planes of an
// axis-aligned box.
func cuboidFaces(min, max v3.Vec, texture string) []*brush.Face {
	normals := []v3.Vec{
		{X: -1}, {X: 1},
		{Y: -1}, {Y: 1},
		{Z: -1}, {Z: 1},
	}
	anchors := []v3.Vec{
		min, max,
		min, max,
		min, max,
	}
	faces := make([]*brush.Face, len(normals))
	for i := range normals {
		plane, _ := geo.PlaneFromPointNormal(anchors[i], normals[i])
		faces[i] = brush.NewFaceFromPlane(plane, texture)
	}
	return faces
}

// wedgeFaces returns the five boundary planes of a right triangular prism:
// the box below the slant running from the top edge at min X down to the
// bottom edge at max X.
func wedgeFaces(min, max v3.Vec, texture string) []*brush.Face {
	slantNormal := v3.Vec{X: max.Z - min.Z, Z: max.X - min.X}
	anchors := []v3.Vec{min, min, max, min, {X: min.X, Y: min.Y, Z: max.Z}}
	normals := []v3.Vec{{X: -1}, {Y: -1}, {Y: 1}, {Z: -1}, slantNormal}

	faces := make([]*brush.Face, len(normals))
	for i := range normals {
		plane, _ := geo.PlaneFromPointNormal(anchors[i], normals[i])
		faces[i] = brush.NewFaceFromPlane(plane, texture)
	}
	return faces
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the map DSL builtins into a zygomys
// environment. The builtins populate the provided world during evaluation;
// content nodes land in the default layer until a layer, group or entity
// form claims them.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable string
// literals.
func registerBuiltins(env *zygo.Zlisp, world *scene.WorldNode, worldBounds sdf.Box3) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: v3.Vec{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (face (vec3 ...) (vec3 ...) (vec3 ...) :texture "stone")
	// Points wind counter-clockwise seen from outside the solid.
	// -----------------------------------------------------------------------
	env.AddFunction("face", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("face requires 3 points, got %d", len(pa.positional))
		}

		var points [3]v3.Vec
		for i, arg := range pa.positional {
			v, err := toVec3(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("face: point %d: %w", i+1, err)
			}
			points[i] = v
		}

		texture := ""
		if v, ok := pa.kw["texture"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("face: texture: %w", err)
			}
			texture = s
		}

		f, err := brush.NewFace(points[0], points[1], points[2], texture)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpFace{face: f}, nil
	})

	// -----------------------------------------------------------------------
	// (plane (vec3 point) (vec3 normal) :texture "stone")
	// A face given directly by its boundary plane; the normal points out of
	// the solid.
	// -----------------------------------------------------------------------
	env.AddFunction("plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("plane requires a point and a normal, got %d arguments", len(pa.positional))
		}

		point, err := toVec3(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: point: %w", err)
		}
		normal, err := toVec3(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: normal: %w", err)
		}

		texture := ""
		if v, ok := pa.kw["texture"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: texture: %w", err)
			}
			texture = s
		}

		p, ok := geo.PlaneFromPointNormal(point, normal)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("plane: normal %v has zero length", normal)
		}
		return &sexpFace{face: brush.NewFaceFromPlane(p, texture)}, nil
	})

	// -----------------------------------------------------------------------
	// (brush (face ...) (face ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("brush", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 4 {
			return zygo.SexpNull, fmt.Errorf("brush requires at least 4 faces, got %d", len(args))
		}

		faces := make([]*brush.Face, len(args))
		for i, arg := range args {
			sf, ok := arg.(*sexpFace)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("brush: argument %d: expected face, got %T (%s)",
					i+1, arg, arg.SexpString(nil))
			}
			faces[i] = sf.face
		}

		b, err := brush.New(worldBounds, faces)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("brush: %w", err)
		}

		node := scene.NewBrushNode(b)
		if err := world.DefaultLayer().AddChild(node); err != nil {
			return zygo.SexpNull, fmt.Errorf("brush: %w", err)
		}
		return &sexpNode{node: node}, nil
	})

	// -----------------------------------------------------------------------
	// (cuboid :min (vec3 0 0 0) :max (vec3 64 64 64) :texture "stone")
	// -----------------------------------------------------------------------
	env.AddFunction("cuboid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		min, max, texture, err := boxArgs(parseArgs(args))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cuboid: %w", err)
		}

		b, err := brush.New(worldBounds, cuboidFaces(min, max, texture))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cuboid: %w", err)
		}

		node := scene.NewBrushNode(b)
		if err := world.DefaultLayer().AddChild(node); err != nil {
			return zygo.SexpNull, fmt.Errorf("cuboid: %w", err)
		}
		return &sexpNode{node: node}, nil
	})

	// -----------------------------------------------------------------------
	// (wedge :min (vec3 0 0 0) :max (vec3 64 64 32) :texture "ramp")
	// -----------------------------------------------------------------------
	env.AddFunction("wedge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		min, max, texture, err := boxArgs(parseArgs(args))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wedge: %w", err)
		}

		b, err := brush.New(worldBounds, wedgeFaces(min, max, texture))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wedge: %w", err)
		}

		node := scene.NewBrushNode(b)
		if err := world.DefaultLayer().AddChild(node); err != nil {
			return zygo.SexpNull, fmt.Errorf("wedge: %w", err)
		}
		return &sexpNode{node: node}, nil
	})

	// -----------------------------------------------------------------------
	// (patch :rows 3 :cols 3 :points (list (vec3 ...) ...) :texture "curve")
	// -----------------------------------------------------------------------
	env.AddFunction("patch", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		rows, cols := 3, 3
		if v, ok := pa.kw["rows"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("patch: rows: %w", err)
			}
			rows = int(f)
		}
		if v, ok := pa.kw["cols"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("patch: cols: %w", err)
			}
			cols = int(f)
		}

		texture := ""
		if v, ok := pa.kw["texture"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("patch: texture: %w", err)
			}
			texture = s
		}

		var points []v3.Vec
		if v, ok := pa.kw["points"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("patch: points: %w", err)
			}
			for i, item := range items {
				p, err := toVec3(item)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("patch: point %d: %w", i+1, err)
				}
				points = append(points, p)
			}
		}

		patch, err := scene.NewBezierPatch(rows, cols, points, texture)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("patch: %w", err)
		}

		node := scene.NewPatchNode(patch)
		if err := world.DefaultLayer().AddChild(node); err != nil {
			return zygo.SexpNull, fmt.Errorf("patch: %w", err)
		}
		return &sexpNode{node: node}, nil
	})

	// -----------------------------------------------------------------------
	// (entity "info_player_start" :origin (vec3 0 0 24) :angle 90)
	// (entity "func_door" brush1 brush2 :speed 100)
	// Keyword arguments other than origin and angle become entity
	// properties.
	// -----------------------------------------------------------------------
	env.AddFunction("entity", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("entity requires a classname as first argument")
		}

		classname, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("entity: classname: %w", err)
		}

		node := scene.NewEntityNode(classname)

		for _, key := range pa.order {
			v := pa.kw[key]
			switch key {
			case "origin":
				vec, err := toVec3(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("entity: origin: %w", err)
				}
				node.SetOrigin(vec)
			case "angle":
				deg, err := toFloat64(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("entity: angle: %w", err)
				}
				node.SetAngle(deg)
			default:
				value, err := propertyString(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("entity: %s: %w", key, err)
				}
				node.SetProperty(key, value)
			}
		}

		if err := world.DefaultLayer().AddChild(node); err != nil {
			return zygo.SexpNull, fmt.Errorf("entity: %w", err)
		}

		for i, arg := range pa.positional[1:] {
			child, err := toNode(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("entity: child %d: %w", i+1, err)
			}
			if err := reparent(child, node); err != nil {
				return zygo.SexpNull, fmt.Errorf("entity: child %d: %w", i+1, err)
			}
		}

		return &sexpNode{node: node}, nil
	})

	// -----------------------------------------------------------------------
	// (group "stairs" brush1 brush2 ...)
	// -----------------------------------------------------------------------
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("group requires a name and at least one member")
		}

		groupName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
		}

		node := scene.NewGroupNode(groupName)
		if err := world.DefaultLayer().AddChild(node); err != nil {
			return zygo.SexpNull, fmt.Errorf("group: %w", err)
		}

		for i, arg := range args[1:] {
			child, err := toNode(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("group: member %d: %w", i+1, err)
			}
			if err := reparent(child, node); err != nil {
				return zygo.SexpNull, fmt.Errorf("group: member %d: %w", i+1, err)
			}
		}

		return &sexpNode{node: node}, nil
	})

	// -----------------------------------------------------------------------
	// (layer "detail" node1 node2 ...)
	// -----------------------------------------------------------------------
	env.AddFunction("layer", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("layer requires a name argument")
		}

		layerName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("layer: name: %w", err)
		}

		node := scene.NewLayerNode(layerName)
		if err := world.AddChild(node); err != nil {
			return zygo.SexpNull, fmt.Errorf("layer: %w", err)
		}

		for i, arg := range args[1:] {
			child, err := toNode(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("layer: member %d: %w", i+1, err)
			}
			if err := reparent(child, node); err != nil {
				return zygo.SexpNull, fmt.Errorf("layer: member %d: %w", i+1, err)
			}
		}

		return &sexpNode{node: node}, nil
	})

	// -----------------------------------------------------------------------
	// (world-property "message" "Welcome")
	// Registered as world_property; the preprocessor rewrites the hyphen.
	// -----------------------------------------------------------------------
	env.AddFunction("world_property", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("world-property requires a key and a value")
		}
		key, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("world-property: key: %w", err)
		}
		value, err := propertyString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("world-property: value: %w", err)
		}
		world.SetProperty(key, value)
		return zygo.SexpNull, nil
	})
}

// boxArgs extracts the shared :min/:max/:texture arguments of the box
// shaped brush builtins.
func boxArgs(pa kwArgs) (min, max v3.Vec, texture string, err error) {
	v, ok := pa.kw["min"]
	if !ok {
		return min, max, "", fmt.Errorf("missing :min")
	}
	if min, err = toVec3(v); err != nil {
		return min, max, "", fmt.Errorf("min: %w", err)
	}

	v, ok = pa.kw["max"]
	if !ok {
		return min, max, "", fmt.Errorf("missing :max")
	}
	if max, err = toVec3(v); err != nil {
		return min, max, "", fmt.Errorf("max: %w", err)
	}

	if min.X >= max.X || min.Y >= max.Y || min.Z >= max.Z {
		return min, max, "", fmt.Errorf("min %v must be strictly below max %v on every axis", min, max)
	}

	if v, ok = pa.kw["texture"]; ok {
		if texture, err = toString(v); err != nil {
			return min, max, "", fmt.Errorf("texture: %w", err)
		}
	}
	return min, max, texture, nil
}
