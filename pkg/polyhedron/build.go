package polyhedron

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ktelfer/quarry/pkg/geo"
)

// minVolume is the smallest enclosed volume accepted as non-degenerate.
const minVolume = 1e-9

// FromPlanes constructs the convex polyhedron bounded by the given
// half-spaces. Every plane normal points outward; the interior is the set
// of points behind all planes. The intersection must be non-empty, have
// positive volume and fit inside worldBounds, otherwise a *GeometryError
// is returned. Planes that do not contribute a face are dropped silently.
//
// Construction clips one large rectangle per plane against every other
// half-space, which is O(f²) in the number of planes.
func FromPlanes(worldBounds sdf.Box3, planes []geo.Plane) (*Polyhedron, error) {
	if len(planes) < 4 {
		return nil, &GeometryError{
			Kind:   ErrorUnbounded,
			Detail: fmt.Sprintf("%d planes cannot bound a volume", len(planes)),
		}
	}

	// The base rectangle must cover any cross-section of the world volume.
	halfExtent := worldBounds.Size().Length()
	center := worldBounds.Center()

	var faces []Face
	for i, plane := range planes {
		poly := baseRectangle(plane, center, halfExtent)
		for j, clip := range planes {
			if j == i {
				continue
			}
			poly = poly.Clip(clip)
			if poly == nil {
				break
			}
		}
		if len(poly) >= 3 {
			faces = append(faces, Face{Plane: plane, Polygon: poly, PlaneIndex: i})
		}
	}

	if len(faces) == 0 {
		return nil, &GeometryError{Kind: ErrorEmpty}
	}
	if len(faces) < 4 {
		return nil, &GeometryError{
			Kind:   ErrorFlat,
			Detail: fmt.Sprintf("only %d faces survive clipping", len(faces)),
		}
	}

	p := &Polyhedron{faces: faces}
	if err := p.buildVertices(worldBounds); err != nil {
		return nil, err
	}
	if err := p.buildEdges(); err != nil {
		return nil, err
	}

	p.volume = enclosedVolume(faces)
	if p.volume < minVolume {
		return nil, &GeometryError{
			Kind:   ErrorFlat,
			Detail: fmt.Sprintf("enclosed volume %g", p.volume),
		}
	}

	bounds, _ := geo.BoxFromPoints(p.vertices)
	p.bounds = bounds
	return p, nil
}

// baseRectangle returns a square polygon on the plane, centered at the
// projection of center, large enough to cover any bounded cross-section.
// The loop is wound counter-clockwise seen from the plane's front side.
func baseRectangle(plane geo.Plane, center v3.Vec, halfExtent float64) geo.Polygon {
	c := plane.Project(center)
	u, w := plane.Basis()
	u = u.MulScalar(halfExtent)
	w = w.MulScalar(halfExtent)
	return geo.Polygon{
		c.Sub(u).Sub(w),
		c.Add(u).Sub(w),
		c.Add(u).Add(w),
		c.Sub(u).Add(w),
	}
}

// buildVertices merges face polygon corners into a shared vertex set and
// rejects volumes that poke out of the world bounds (the clipped remnant of
// an unbounded intersection always does).
func (p *Polyhedron) buildVertices(worldBounds sdf.Box3) error {
	for fi := range p.faces {
		for _, pos := range p.faces[fi].Polygon {
			if !geo.BoxContains(worldBounds, pos) {
				return &GeometryError{
					Kind:   ErrorUnbounded,
					Detail: "volume exceeds world bounds",
				}
			}
			p.vertexIndex(pos)
		}
	}
	return nil
}

// vertexIndex returns the index of the vertex at pos, adding it if no
// existing vertex lies within the merge tolerance.
func (p *Polyhedron) vertexIndex(pos v3.Vec) int {
	for i, v := range p.vertices {
		if v.Equals(pos, geo.VertexEpsilon) {
			return i
		}
	}
	p.vertices = append(p.vertices, pos)
	return len(p.vertices) - 1
}

// buildEdges derives the edge set from the face loops and checks that every
// edge borders exactly two faces.
func (p *Polyhedron) buildEdges() error {
	type edgeKey struct{ lo, hi int }

	edges := make(map[edgeKey]*Edge)
	order := make([]edgeKey, 0)

	for fi, face := range p.faces {
		loop := p.faceLoop(face.Polygon)
		// A loop that collapses under vertex merging has zero area, which
		// only happens when the volume itself is flat.
		if len(loop) < 3 {
			return &GeometryError{
				Kind:   ErrorFlat,
				Detail: "face loop collapses under vertex merging",
			}
		}
		for i, a := range loop {
			b := loop[(i+1)%len(loop)]
			key := edgeKey{lo: a, hi: b}
			if key.lo > key.hi {
				key.lo, key.hi = key.hi, key.lo
			}
			if e, ok := edges[key]; ok {
				if e.Faces[1] != -1 {
					return &GeometryError{
						Kind:   ErrorInvalid,
						Detail: "edge shared by more than two faces",
					}
				}
				e.Faces[1] = fi
			} else {
				edges[key] = &Edge{A: key.lo, B: key.hi, Faces: [2]int{fi, -1}}
				order = append(order, key)
			}
		}
	}

	p.edges = make([]Edge, 0, len(order))
	for _, key := range order {
		e := edges[key]
		if e.Faces[1] == -1 {
			return &GeometryError{
				Kind:   ErrorInvalid,
				Detail: "open edge borders a single face",
			}
		}
		p.edges = append(p.edges, *e)
	}
	return nil
}

// faceLoop maps a face polygon to vertex indices, dropping consecutive
// duplicates introduced by the merge tolerance.
func (p *Polyhedron) faceLoop(poly geo.Polygon) []int {
	loop := make([]int, 0, len(poly))
	for _, pos := range poly {
		idx := p.vertexIndex(pos)
		if len(loop) > 0 && loop[len(loop)-1] == idx {
			continue
		}
		loop = append(loop, idx)
	}
	if len(loop) > 1 && loop[0] == loop[len(loop)-1] {
		loop = loop[:len(loop)-1]
	}
	return loop
}

// enclosedVolume computes the volume via the divergence theorem: one third
// of the sum over faces of area times the support distance of the face
// plane from the origin.
func enclosedVolume(faces []Face) float64 {
	var sum float64
	for _, f := range faces {
		sum += f.Polygon.Area() * f.Plane.Normal.Dot(f.Polygon.Center())
	}
	return sum / 3
}
