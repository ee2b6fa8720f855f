package searcher

// Node is one move of the search tree together with the statistics a policy
// keeps for it. A parent exclusively owns its children, so dropping the
// reference to a node releases its whole subtree.
type Node[M comparable, P any] struct {
	Move     M
	Payload  P
	children []*Node[M, P]
}

func (n *Node[M, P]) IsLeaf() bool {
	return len(n.children) == 0
}

func (n *Node[M, P]) Len() int {
	return len(n.children)
}

func (n *Node[M, P]) Child(i int) *Node[M, P] {
	return n.children[i]
}

// Moves returns the moves of the children in order.
func (n *Node[M, P]) Moves() []M {
	moves := make([]M, len(n.children))
	for i, child := range n.children {
		moves[i] = child.Move
	}
	return moves
}

// Expand creates one child per move. It is a no-op on a node that already has
// children or when moves is empty, and reports whether children were created.
func (n *Node[M, P]) Expand(moves []M) bool {
	if !n.IsLeaf() || len(moves) == 0 {
		return false
	}
	n.children = make([]*Node[M, P], len(moves))
	for i, move := range moves {
		n.children[i] = &Node[M, P]{Move: move}
	}
	return true
}

// Size counts the nodes of the subtree rooted at n, n included.
func (n *Node[M, P]) Size() int {
	size := 1
	for _, child := range n.children {
		size += child.Size()
	}
	return size
}
