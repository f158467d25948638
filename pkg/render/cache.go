package render

import (
	"github.com/ktelfer/quarry/pkg/scene"
)

// BrushCache holds one mesh per brush node, rebuilt when the node's brush
// generation moves past the cached one. The cache follows the scene's
// threading rules: callers serialize access with tree mutations.
type BrushCache struct {
	entries map[*scene.BrushNode]cacheEntry
}

type cacheEntry struct {
	generation uint64
	mesh       *Mesh
}

// NewBrushCache creates an empty cache.
func NewBrushCache() *BrushCache {
	return &BrushCache{entries: make(map[*scene.BrushNode]cacheEntry)}
}

// Mesh returns the mesh for the node, rebuilding it if the cached entry is
// stale or missing.
func (c *BrushCache) Mesh(n *scene.BrushNode) *Mesh {
	if entry, ok := c.entries[n]; ok && entry.generation == n.Generation() {
		return entry.mesh
	}
	mesh := BrushMesh(n.Brush())
	mesh.NodeName = n.Name()
	c.entries[n] = cacheEntry{generation: n.Generation(), mesh: mesh}
	return mesh
}

// Drop removes the node's entry, e.g. when the node leaves the tree.
func (c *BrushCache) Drop(n *scene.BrushNode) {
	delete(c.entries, n)
}

// Clear empties the cache.
func (c *BrushCache) Clear() {
	c.entries = make(map[*scene.BrushNode]cacheEntry)
}

// Len returns the number of cached meshes.
func (c *BrushCache) Len() int { return len(c.entries) }
