package sim

import "math/rand"

// TruncateTime freezes the tree at calendar time age: any branch spanning
// that instant is clamped to end exactly there and loses its subtree, turning
// its node into a new terminal. Branches ending before age are untouched, so
// already-extinct tips survive truncation.
func TruncateTime(t *Tree, age float64) {
	if t == nil || t.Root == nil {
		return
	}
	var walk func(n *Node, upstream float64)
	walk = func(n *Node, upstream float64) {
		end := upstream + n.Length
		if end >= age {
			n.Length = age - upstream
			n.Children = nil
			return
		}
		for _, c := range n.Children {
			walk(c, end)
		}
	}
	walk(t.Root, 0)
}

// TruncateSize reduces the number of currently-alive tips to exactly size by
// deleting a uniformly random subset of them by name, collapsing the
// singleton internals left behind. Extinct tips are never touched. A tree
// with size or fewer alive tips is returned unchanged.
func TruncateSize(t *Tree, size int, rng *rand.Rand) {
	if t == nil || size < 1 {
		return
	}
	alive := t.AliveTips()
	excess := len(alive) - size
	if excess <= 0 {
		return
	}
	doomed := make(map[string]bool, excess)
	for _, i := range rng.Perm(len(alive))[:excess] {
		doomed[alive[i].Name] = true
	}
	t.PruneNames(doomed)
}

// RemoveExtinct deletes every tip that is not within the ultrametric
// tolerance of the tree height, leaving only the lineages alive at the final
// time.
func RemoveExtinct(t *Tree) {
	if t == nil || t.Root == nil {
		return
	}
	h := t.Height()
	doomed := make(map[string]bool)
	t.eachTipDepth(func(tip *Node, d float64) {
		if !sameDepth(d, h) {
			doomed[tip.Name] = true
		}
	})
	t.PruneNames(doomed)
}
