package sim

// UltrametricTolerance is the relative tolerance used to decide whether two
// tip depths are "the same": a tip whose depth is relatively within this
// tolerance of the tree height counts as currently alive.
const UltrametricTolerance = 1e-6

// Tree owns a root Node and, transitively, every descendant. No node is ever
// shared between two trees.
type Tree struct {
	Root *Node
}

// NewTree creates a tree holding a single root node with zero branch length.
func NewTree() *Tree {
	return &Tree{Root: &Node{Name: "n0"}}
}

// Nodes returns every node of the tree in preorder. Returns nil for an empty
// tree.
func (t *Tree) Nodes() []*Node {
	if t.Root == nil {
		return nil
	}
	var nodes []*Node
	t.Root.walk(func(n *Node) { nodes = append(nodes, n) })
	return nodes
}

// Tips returns every tip in preorder.
func (t *Tree) Tips() []*Node {
	var tips []*Node
	for _, n := range t.Nodes() {
		if n.IsTip() {
			tips = append(tips, n)
		}
	}
	return tips
}

// InternalNodes returns every node with two children, in preorder.
func (t *Tree) InternalNodes() []*Node {
	var internal []*Node
	for _, n := range t.Nodes() {
		if !n.IsTip() {
			internal = append(internal, n)
		}
	}
	return internal
}

// Clone returns an independent deep copy of the tree.
func (t *Tree) Clone() *Tree {
	if t.Root == nil {
		return &Tree{}
	}
	return &Tree{Root: t.Root.clone()}
}

// Height returns the maximum root-to-tip cumulative branch length.
func (t *Tree) Height() float64 {
	max := 0.0
	t.eachTipDepth(func(_ *Node, d float64) {
		if d > max {
			max = d
		}
	})
	return max
}

// eachTipDepth visits every tip together with its root-to-tip depth, computed
// in a single preorder pass.
func (t *Tree) eachTipDepth(visit func(tip *Node, depth float64)) {
	if t.Root == nil {
		return
	}
	var walk func(n *Node, upstream float64)
	walk = func(n *Node, upstream float64) {
		d := upstream + n.Length
		if n.IsTip() {
			visit(n, d)
			return
		}
		for _, c := range n.Children {
			walk(c, d)
		}
	}
	walk(t.Root, 0)
}

// AliveTips returns the tips whose depth is relatively within
// UltrametricTolerance of the tree height. On a tree frozen at calendar time
// T these are the lineages still alive at T; the remaining tips are extinct.
// A zero-height tree reports all tips alive.
func (t *Tree) AliveTips() []*Node {
	h := t.Height()
	var alive []*Node
	t.eachTipDepth(func(tip *Node, d float64) {
		if sameDepth(d, h) {
			alive = append(alive, tip)
		}
	})
	return alive
}

// IsUltrametric reports whether every tip depth is relatively within
// UltrametricTolerance of the maximum depth. Characteristic of pure-birth
// trees; used to validate pure-birth sampler assumptions.
func (t *Tree) IsUltrametric() bool {
	h := t.Height()
	ok := true
	t.eachTipDepth(func(_ *Node, d float64) {
		if !sameDepth(d, h) {
			ok = false
		}
	})
	return ok
}

// sameDepth reports whether depth d matches the reference height within the
// relative ultrametric tolerance.
func sameDepth(d, height float64) bool {
	if height == 0 {
		return true
	}
	return (height-d)/height <= UltrametricTolerance
}

// RemoveTip deletes one tip and collapses the singleton parent left behind:
// the sibling absorbs the parent's branch length and takes its place, so the
// tree stays strictly binary. Deleting the root, a non-tip, or the last tip
// is a no-op; the return value reports whether a tip was actually removed.
func (t *Tree) RemoveTip(tip *Node) bool {
	if tip == nil || !tip.IsTip() || tip.Parent == nil {
		return false
	}
	parent := tip.Parent
	var sibling *Node
	for _, c := range parent.Children {
		if c != tip {
			sibling = c
		}
	}
	if sibling == nil {
		return false
	}
	sibling.Length += parent.Length
	grand := parent.Parent
	if grand == nil {
		sibling.Parent = nil
		t.Root = sibling
		return true
	}
	for i, c := range grand.Children {
		if c == parent {
			grand.Children[i] = sibling
		}
	}
	sibling.Parent = grand
	return true
}

// PruneNames removes every tip whose name is in the given set, preserving the
// topology among the remaining tips. The last tip of a tree is never removed.
func (t *Tree) PruneNames(names map[string]bool) {
	if len(names) == 0 {
		return
	}
	// Tips are re-enumerated after each removal because RemoveTip rewires
	// the tree around the deleted tip's parent.
	for {
		removed := false
		for _, tip := range t.Tips() {
			if names[tip.Name] && t.RemoveTip(tip) {
				removed = true
				break
			}
		}
		if !removed {
			return
		}
	}
}
