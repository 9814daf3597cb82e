package sim

// Node is a single vertex of a phylogenetic tree. A node owns its children;
// the Parent pointer is a non-owning back-reference. Every node has either
// zero children (a tip) or exactly two (an internal node). Single-child nodes
// may exist only transiently during pruning and must be collapsed before the
// tree is handed back to a caller.
type Node struct {
	Name     string
	Length   float64 // branch length from Parent to this node, >= 0
	Parent   *Node
	Children []*Node
}

// IsTip reports whether the node has no children.
func (n *Node) IsTip() bool {
	return len(n.Children) == 0
}

// Depth returns the cumulative branch length from the root to this node,
// including the node's own branch.
func (n *Node) Depth() float64 {
	d := 0.0
	for p := n; p != nil; p = p.Parent {
		d += p.Length
	}
	return d
}

// split attaches two fresh zero-length children to a tip and returns them.
func (n *Node) split(leftName, rightName string) (*Node, *Node) {
	left := &Node{Name: leftName, Parent: n}
	right := &Node{Name: rightName, Parent: n}
	n.Children = []*Node{left, right}
	return left, right
}

// clone deep-copies the subtree rooted at n. The copy's Parent is nil.
func (n *Node) clone() *Node {
	c := &Node{Name: n.Name, Length: n.Length}
	for _, child := range n.Children {
		cc := child.clone()
		cc.Parent = c
		c.Children = append(c.Children, cc)
	}
	return c
}

// walk visits the subtree rooted at n in preorder.
func (n *Node) walk(visit func(*Node)) {
	visit(n)
	for _, c := range n.Children {
		c.walk(visit)
	}
}
