package scene

import (
	"fmt"
	"path"

	"github.com/ktelfer/quarry/pkg/brush"
)

// SmartTag is a named predicate over nodes or brush faces. Registered tags
// get a bit in the 64-bit tag mask; matching is re-evaluated on demand by
// the tag manager, never stored in the tag itself.
type SmartTag struct {
	name      string
	matchNode func(Node) bool
	matchFace func(*BrushNode, *brush.Face) bool
}

// NewNodeTag creates a tag matched against whole nodes.
func NewNodeTag(name string, match func(Node) bool) SmartTag {
	return SmartTag{name: name, matchNode: match}
}

// NewFaceTag creates a tag matched against brush faces. A brush node
// carries a face tag when any of its faces matches.
func NewFaceTag(name string, match func(*BrushNode, *brush.Face) bool) SmartTag {
	return SmartTag{name: name, matchFace: match}
}

// TextureTag creates a face tag matching texture names against a glob
// pattern.
func TextureTag(name, pattern string) SmartTag {
	return NewFaceTag(name, func(_ *BrushNode, f *brush.Face) bool {
		ok, err := path.Match(pattern, f.Texture())
		return err == nil && ok
	})
}

// Name returns the tag's display name.
func (t SmartTag) Name() string { return t.name }

// TagManager assigns mask bits to registered tags and evaluates them
// against nodes and faces.
type TagManager struct {
	tags []SmartTag
}

// NewTagManager creates an empty manager.
func NewTagManager() *TagManager { return &TagManager{} }

// Register adds a tag and returns its mask bit. At most 64 tags fit in the
// mask.
func (tm *TagManager) Register(tag SmartTag) (brush.TagMask, error) {
	if len(tm.tags) >= 64 {
		return 0, fmt.Errorf("scene: tag mask full, cannot register %q", tag.name)
	}
	for _, t := range tm.tags {
		if t.name == tag.name {
			return 0, fmt.Errorf("scene: tag %q already registered", tag.name)
		}
	}
	tm.tags = append(tm.tags, tag)
	return 1 << (len(tm.tags) - 1), nil
}

// MaskFor returns the mask bit of the named tag.
func (tm *TagManager) MaskFor(name string) (brush.TagMask, bool) {
	for i, t := range tm.tags {
		if t.name == name {
			return 1 << i, true
		}
	}
	return 0, false
}

// matchNode evaluates every tag against the node. Face tags mark a brush
// node when any of its faces matches.
func (tm *TagManager) matchNode(n Node) brush.TagMask {
	var mask brush.TagMask
	brushNode, isBrush := n.(*BrushNode)
	for i, t := range tm.tags {
		bit := brush.TagMask(1) << i
		if t.matchNode != nil && t.matchNode(n) {
			mask |= bit
			continue
		}
		if t.matchFace != nil && isBrush {
			for _, f := range brushNode.Brush().Faces() {
				if t.matchFace(brushNode, f) {
					mask |= bit
					break
				}
			}
		}
	}
	return mask
}

// matchFace evaluates the face tags against a single face.
func (tm *TagManager) matchFace(n *BrushNode, f *brush.Face) brush.TagMask {
	var mask brush.TagMask
	for i, t := range tm.tags {
		if t.matchFace != nil && t.matchFace(n, f) {
			mask |= brush.TagMask(1) << i
		}
	}
	return mask
}
