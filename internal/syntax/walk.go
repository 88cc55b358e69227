package syntax

// Walk visits the subtree rooted at id in pre-order, left to right, using an
// explicit stack so deeply nested input cannot exhaust the goroutine stack.
// Returning false from visit skips the node's children.
func (t *Tree) Walk(id NodeID, visit func(NodeID) bool) {
	if id == NoNode {
		return
	}

	stack := []NodeID{id}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(current) {
			continue
		}

		// Push in reverse so the leftmost child is popped first.
		children := t.nodes[current].Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// Ancestors returns the ancestors of id from its parent up to the root.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var ancestors []NodeID
	for current := t.nodes[id].Parent; current != NoNode; current = t.nodes[current].Parent {
		ancestors = append(ancestors, current)
	}
	return ancestors
}
