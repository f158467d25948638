package render

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ktelfer/quarry/pkg/brush"
	"github.com/ktelfer/quarry/pkg/scene"
)

// BrushMesh triangulates a brush into a flat-shaded mesh. Each face is
// fanned from its first vertex; vertices are not shared between faces so
// every face keeps its own normal.
func BrushMesh(b *brush.Brush) *Mesh {
	mesh := &Mesh{}
	for _, f := range b.Faces() {
		appendFace(mesh, f)
	}
	return mesh
}

func appendFace(mesh *Mesh, f *brush.Face) {
	polygon := f.Polygon()
	if len(polygon) < 3 {
		return
	}
	normal := f.Boundary().Normal
	base := uint32(mesh.VertexCount())

	for _, v := range polygon {
		appendVec(&mesh.Vertices, v)
		appendVec(&mesh.Normals, normal)
	}
	// Fan triangulation; valid because boundary polygons are convex.
	for i := 1; i+1 < len(polygon); i++ {
		mesh.Indices = append(mesh.Indices, base, base+uint32(i), base+uint32(i+1))
	}
}

// PatchMesh triangulates an evaluated patch grid. Grid samples are shared
// between the two triangles of each cell, keeping the smooth per-sample
// normals.
func PatchMesh(grid *scene.PatchGrid) *Mesh {
	mesh := &Mesh{}
	for _, p := range grid.Points {
		appendVec(&mesh.Vertices, p.Position)
		appendVec(&mesh.Normals, p.Normal)
	}
	for row := 0; row+1 < grid.Rows; row++ {
		for col := 0; col+1 < grid.Cols; col++ {
			a := uint32(row*grid.Cols + col)
			b := a + 1
			c := uint32((row+1)*grid.Cols + col + 1)
			d := c - 1
			mesh.Indices = append(mesh.Indices, a, b, c, a, c, d)
		}
	}
	return mesh
}

func appendVec(dst *[]float32, v v3.Vec) {
	*dst = append(*dst, float32(v.X), float32(v.Y), float32(v.Z))
}
