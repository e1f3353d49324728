package physics2d

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hollow-engine/physics2d/body"
)

// quadTreeMaxDepth caps the tree at 4 levels.
const quadTreeMaxDepth = 4

// quadTreeLocation is where an item currently lives: which node owns it and
// its slot in that node's local item list, so removal is O(1) swap-remove
// rather than a tree-wide search.
type quadTreeLocation struct {
	node  *quadTreeNode
	index int
}

// quadTreeNode is one cell of the broad-phase tree. Children are created
// lazily on first successful descent past this depth; quadrant holds the
// four precomputed child AABBs so a descent never has to recompute them.
type quadTreeNode struct {
	bounds   body.AABB
	quadrant [4]body.AABB
	children [4]*quadTreeNode
	items    []*body.RigidBody
	depth    int
}

func newQuadTreeNode(bounds body.AABB, depth int) *quadTreeNode {
	n := &quadTreeNode{bounds: bounds, depth: depth}
	cx := (bounds.Min.X() + bounds.Max.X()) / 2
	cy := (bounds.Min.Y() + bounds.Max.Y()) / 2
	n.quadrant[0] = body.AABB{Min: bounds.Min, Max: mgl64.Vec2{cx, cy}}
	n.quadrant[1] = body.AABB{Min: mgl64.Vec2{cx, bounds.Min.Y()}, Max: mgl64.Vec2{bounds.Max.X(), cy}}
	n.quadrant[2] = body.AABB{Min: mgl64.Vec2{bounds.Min.X(), cy}, Max: mgl64.Vec2{cx, bounds.Max.Y()}}
	n.quadrant[3] = body.AABB{Min: mgl64.Vec2{cx, cy}, Max: bounds.Max}
	return n
}

// QuadTree is the fixed-bounds region quadtree broad-phase. It owns the
// authoritative item->location mapping the rest of the engine relies on
// before every range query.
type QuadTree struct {
	root     *quadTreeNode
	location map[*body.RigidBody]quadTreeLocation
}

// NewQuadTree builds an empty tree spanning bounds.
func NewQuadTree(bounds body.AABB) *QuadTree {
	return &QuadTree{
		root:     newQuadTreeNode(bounds, 0),
		location: make(map[*body.RigidBody]quadTreeLocation),
	}
}

// Insert places item by its current Bounds(). It returns false if item's
// AABB is not contained by the tree's root bounds — the caller (the engine)
// treats that as item being out of the simulated world.
func (q *QuadTree) Insert(item *body.RigidBody) bool {
	if _, exists := q.location[item]; exists {
		return true
	}
	if !q.root.bounds.Contains(item.Bounds()) {
		slog.Warn("physics2d: quadtree insert out of bounds", "bodyID", item.ID)
		return false
	}
	node := descend(q.root, item.Bounds())
	node.items = append(node.items, item)
	q.location[item] = quadTreeLocation{node: node, index: len(node.items) - 1}
	return true
}

// descend walks from n toward the deepest child whose AABB fully contains
// box, stopping at quadTreeMaxDepth or the first quadrant that doesn't fit.
func descend(n *quadTreeNode, box body.AABB) *quadTreeNode {
	for n.depth < quadTreeMaxDepth {
		fit := -1
		for i := 0; i < 4; i++ {
			if n.quadrant[i].Contains(box) {
				fit = i
				break
			}
		}
		if fit == -1 {
			return n
		}
		if n.children[fit] == nil {
			n.children[fit] = newQuadTreeNode(n.quadrant[fit], n.depth+1)
		}
		n = n.children[fit]
	}
	return n
}

// Remove swap-removes item from its owning node and repairs the moved
// tail item's location entry, then prunes empty nodes bottom-up.
func (q *QuadTree) Remove(item *body.RigidBody) {
	loc, ok := q.location[item]
	if !ok {
		return
	}
	delete(q.location, item)

	items := loc.node.items
	last := len(items) - 1
	items[loc.index] = items[last]
	items[last] = nil
	loc.node.items = items[:last]

	if loc.index < len(loc.node.items) {
		moved := loc.node.items[loc.index]
		q.location[moved] = quadTreeLocation{node: loc.node, index: loc.index}
	}

	prune(q.root)
}

// prune collapses any subtree that is empty and whose children are all
// either absent or themselves prunable, bottom-up. It returns whether n
// itself is now empty/prunable from its parent's view.
func prune(n *quadTreeNode) bool {
	if n == nil {
		return true
	}
	allChildrenEmpty := true
	for i, c := range n.children {
		if c == nil {
			continue
		}
		if prune(c) {
			n.children[i] = nil
		} else {
			allChildrenEmpty = false
		}
	}
	return len(n.items) == 0 && allChildrenEmpty
}

// Update repositions item after it has moved: remove then reinsert against
// its current Bounds(). Reports whether the reinsertion succeeded.
func (q *QuadTree) Update(item *body.RigidBody) bool {
	q.Remove(item)
	return q.Insert(item)
}

// Query appends every item whose AABB overlaps box into dst and returns the
// extended slice. It recurses into every child whose bounds intersect box
// and tests each item's AABB individually; whole subtrees are never taken
// without that per-item test.
func (q *QuadTree) Query(box body.AABB, dst []*body.RigidBody) []*body.RigidBody {
	return queryNode(q.root, box, dst)
}

func queryNode(n *quadTreeNode, box body.AABB, dst []*body.RigidBody) []*body.RigidBody {
	if n == nil || !n.bounds.Intersects(box) {
		return dst
	}
	for _, item := range n.items {
		if item.Bounds().Intersects(box) {
			dst = append(dst, item)
		}
	}
	for _, c := range n.children {
		if c == nil {
			continue
		}
		if box.Contains(c.bounds) || box.Intersects(c.bounds) {
			dst = queryNode(c, box, dst)
		}
	}
	return dst
}

// Contains reports whether item is tracked and present in the node its
// location entry names. It does not check that node against item's current
// Bounds().
func (q *QuadTree) Contains(item *body.RigidBody) bool {
	loc, ok := q.location[item]
	if !ok {
		return false
	}
	for _, it := range loc.node.items {
		if it == item {
			return true
		}
	}
	return false
}
