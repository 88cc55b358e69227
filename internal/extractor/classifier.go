package extractor

import "github.com/mvp-joe/corex/internal/syntax"

// Classified is a comment-like node found in a tree.
type Classified struct {
	// Node carries the comment text: the comment itself or the docstring's string literal.
	Node syntax.NodeID
	// Anchor is the node whose ancestors define the context. For a docstring
	// it is the enclosing expression statement.
	Anchor syntax.NodeID
	Kind   CommentKind
}

// Classify returns every comment and docstring in tree, in pre-order.
func Classify(tree *syntax.Tree) []Classified {
	var found []Classified

	tree.Walk(tree.Root(), func(id syntax.NodeID) bool {
		switch tree.Kind(id) {
		case syntax.KindComment:
			found = append(found, Classified{Node: id, Anchor: id, Kind: LineComment})
		case syntax.KindExpressionStatement:
			if str := docstringLiteral(tree, id); str != syntax.NoNode {
				found = append(found, Classified{Node: str, Anchor: id, Kind: DocString})
			}
		}
		return true
	})

	return found
}

// docstringLiteral returns the string literal of stmt when stmt is a
// docstring, or NoNode. A docstring is a string-only statement that is the
// first non-comment statement of the module or of a function or class body.
func docstringLiteral(tree *syntax.Tree, stmt syntax.NodeID) syntax.NodeID {
	str := tree.FirstChild(stmt)
	if str == syntax.NoNode || tree.Kind(str) != syntax.KindString {
		return syntax.NoNode
	}

	parent := tree.Parent(stmt)
	if parent == syntax.NoNode {
		return syntax.NoNode
	}

	switch tree.Kind(parent) {
	case syntax.KindModule:
	case syntax.KindBlock:
		owner := tree.Parent(parent)
		if owner == syntax.NoNode || !tree.Kind(owner).IsScope() {
			return syntax.NoNode
		}
	default:
		return syntax.NoNode
	}

	if firstStatement(tree, parent) != stmt {
		return syntax.NoNode
	}
	return str
}

func firstStatement(tree *syntax.Tree, parent syntax.NodeID) syntax.NodeID {
	for _, child := range tree.Children(parent) {
		if tree.Kind(child) != syntax.KindComment {
			return child
		}
	}
	return syntax.NoNode
}
