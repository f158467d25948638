package scene

import (
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// HitType identifies which node kind produced a pick hit. The kind set is
// closed, so hit types are a fixed enumeration rather than runtime
// allocated identifiers.
type HitType int

const (
	HitTypeEntity HitType = 1 << iota
	HitTypeBrush
	HitTypePatch

	// HitTypeAny matches every hit type.
	HitTypeAny = HitTypeEntity | HitTypeBrush | HitTypePatch
)

func (t HitType) String() string {
	switch t {
	case HitTypeEntity:
		return "entity"
	case HitTypeBrush:
		return "brush"
	case HitTypePatch:
		return "patch"
	default:
		return "any"
	}
}

// Hit is a single pick result. FaceIndex is only meaningful for brush hits
// and is -1 otherwise; it must not be held across a brush replacement.
type Hit struct {
	Type      HitType
	Distance  float64
	Point     v3.Vec
	Node      Node
	FaceIndex int
}

// PickResult aggregates hits from a pick traversal. Hits are kept ordered
// by distance: individual nodes report their first valid hit in local
// order, and global nearest-hit resolution happens here.
type PickResult struct {
	hits []Hit
}

// AddHit inserts a hit, keeping the hit list sorted by distance. Insertion
// is stable so equidistant hits stay in traversal order.
func (r *PickResult) AddHit(h Hit) {
	i := sort.Search(len(r.hits), func(i int) bool {
		return r.hits[i].Distance > h.Distance
	})
	r.hits = append(r.hits, Hit{})
	copy(r.hits[i+1:], r.hits[i:])
	r.hits[i] = h
}

// All returns every hit in distance order.
func (r *PickResult) All() []Hit { return r.hits }

// Empty reports whether no hit was recorded.
func (r *PickResult) Empty() bool { return len(r.hits) == 0 }

// First returns the nearest hit whose type is in the mask.
func (r *PickResult) First(mask HitType) (Hit, bool) {
	for _, h := range r.hits {
		if h.Type&mask != 0 {
			return h, true
		}
	}
	return Hit{}, false
}

// EditorContext gates which nodes participate in picking and containment
// queries. A nil context makes everything visible.
type EditorContext struct {
	// ShowHidden includes nodes with the hidden flag set.
	ShowHidden bool
}

// Visible reports whether the node and all of its ancestors are visible
// under this context.
func (c *EditorContext) Visible(n Node) bool {
	if c == nil || c.ShowHidden {
		return true
	}
	for p := n; p != nil; p = p.Parent() {
		if p.Hidden() {
			return false
		}
	}
	return true
}
