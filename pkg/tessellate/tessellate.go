// Package tessellate walks a scene tree and produces triangle meshes.
// One mesh is produced per brush or patch node.
package tessellate

import (
	"fmt"

	"github.com/ktelfer/quarry/pkg/render"
	"github.com/ktelfer/quarry/pkg/scene"
)

// Options controls which nodes contribute meshes.
type Options struct {
	// IncludeHidden tessellates nodes even when they or an ancestor are
	// hidden.
	IncludeHidden bool

	// Cache, if set, reuses brush meshes across calls.
	Cache *render.BrushCache
}

// Tessellate walks the tree below root and produces one mesh per visible
// brush and patch node. The tessellator is read-only and never mutates the
// tree.
func Tessellate(root scene.Node, opts Options) []*render.Mesh {
	if root == nil {
		return nil
	}

	ctx := &scene.EditorContext{ShowHidden: opts.IncludeHidden}
	var meshes []*render.Mesh
	counts := map[string]int{}

	scene.Walk(root, func(n scene.Node) {
		if !ctx.Visible(n) {
			return
		}
		n.Accept(scene.Funcs{
			Brush: func(bn *scene.BrushNode) {
				var mesh *render.Mesh
				if opts.Cache != nil {
					mesh = opts.Cache.Mesh(bn)
				} else {
					mesh = render.BrushMesh(bn.Brush())
				}
				mesh.NodeName = meshName(bn, counts)
				meshes = append(meshes, mesh)
			},
			Patch: func(pn *scene.PatchNode) {
				mesh := render.PatchMesh(pn.Grid())
				mesh.NodeName = meshName(pn, counts)
				meshes = append(meshes, mesh)
			},
		})
	})

	return meshes
}

// meshName derives a stable display name: the owning entity's classname
// when there is one, suffixed with a per-name counter.
func meshName(n scene.Node, counts map[string]int) string {
	base := n.Name()
	if holder := scene.FindContainingEntity(n); holder != nil {
		if cls := holder.Classname(); cls != "" {
			base = cls + "/" + base
		}
	}
	counts[base]++
	return fmt.Sprintf("%s.%d", base, counts[base])
}
