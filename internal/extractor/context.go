package extractor

import "github.com/mvp-joe/corex/internal/syntax"

// ResolveContext returns the chain of functions and classes enclosing anchor,
// outermost first. The anchor itself never contributes a frame.
func ResolveContext(tree *syntax.Tree, src *SourceUnit, anchor syntax.NodeID) Context {
	if anchor == syntax.NoNode {
		return Context{}
	}
	return contextFrom(tree, src, tree.Parent(anchor))
}

// contextFrom collects frames from start (inclusive) up to the root.
func contextFrom(tree *syntax.Tree, src *SourceUnit, start syntax.NodeID) Context {
	var frames []Frame
	for current := start; current != syntax.NoNode; current = tree.Parent(current) {
		switch tree.Kind(current) {
		case syntax.KindFunction:
			frames = append(frames, buildFrame(tree, src, current, FunctionFrame))
		case syntax.KindClass:
			frames = append(frames, buildFrame(tree, src, current, ClassFrame))
		}
	}

	for i, j := 0, len(frames)-1; i < j; i, j = i+1, j-1 {
		frames[i], frames[j] = frames[j], frames[i]
	}
	return Context{Frames: frames}
}

func buildFrame(tree *syntax.Tree, src *SourceUnit, scope syntax.NodeID, kind FrameKind) Frame {
	frame := Frame{
		Kind:      kind,
		StartLine: tree.StartLine(scope),
		EndLine:   tree.EndLine(scope),
	}
	frame.Code = src.Snippet(frame.StartLine, frame.EndLine)

	if id := scopeName(tree, scope); id != syntax.NoNode {
		name := tree.Text(id)
		frame.Name = &name
	}

	if kind == FunctionFrame {
		frame.Parameters = parameterNames(tree, parameterList(tree, scope))
	}
	return frame
}

// scopeName finds the name of a definition: the child stored under the "name"
// field, else the first identifier child. C-like grammars keep the name under
// one or more declarator nodes, which are descended in turn.
func scopeName(tree *syntax.Tree, scope syntax.NodeID) syntax.NodeID {
	for current := scope; current != syntax.NoNode; current = nextDeclarator(tree, current) {
		if id := tree.ChildByField(current, "name"); id != syntax.NoNode && tree.Kind(id) != syntax.KindError {
			return id
		}
		if id := tree.FirstChildOfKind(current, syntax.KindIdentifier); id != syntax.NoNode {
			return id
		}
	}
	return syntax.NoNode
}

// nextDeclarator follows the "declarator" field, falling back to the first
// declarator child. A qualified return type is never taken for the name.
func nextDeclarator(tree *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	if d := tree.ChildByField(id, "declarator"); d != syntax.NoNode {
		if tree.Kind(d) == syntax.KindDeclarator {
			return d
		}
		return syntax.NoNode
	}
	return tree.FirstChildOfKind(id, syntax.KindDeclarator)
}

// parameterList prefers the list stored under the "parameters" field, so a Go
// method receiver is never mistaken for the parameters.
func parameterList(tree *syntax.Tree, scope syntax.NodeID) syntax.NodeID {
	for current := scope; current != syntax.NoNode; current = nextDeclarator(tree, current) {
		if list := tree.ChildByField(current, "parameters"); list != syntax.NoNode && tree.Kind(list) == syntax.KindParameterList {
			return list
		}
		if list := tree.FirstChildOfKind(current, syntax.KindParameterList); list != syntax.NoNode {
			return list
		}
	}
	return syntax.NoNode
}

// parameterNames returns bare identifier parameters and the name of each
// compound parameter, in declaration order. A compound that declares several
// identifiers under its "name" field (Go's "a, b int") yields all of them;
// otherwise its first identifier outside type annotations is used.
func parameterNames(tree *syntax.Tree, list syntax.NodeID) []string {
	params := []string{}
	if list == syntax.NoNode {
		return params
	}

	for _, child := range tree.Children(list) {
		switch tree.Kind(child) {
		case syntax.KindIdentifier:
			params = append(params, tree.Text(child))
		case syntax.KindParameter:
			if names := namedIdentifiers(tree, child); len(names) > 0 {
				params = append(params, names...)
			} else if id := firstIdentifier(tree, child); id != syntax.NoNode {
				params = append(params, tree.Text(id))
			}
		}
	}
	return params
}

func namedIdentifiers(tree *syntax.Tree, param syntax.NodeID) []string {
	var names []string
	for _, child := range tree.Children(param) {
		if tree.Node(child).Field == "name" && tree.Kind(child) == syntax.KindIdentifier {
			names = append(names, tree.Text(child))
		}
	}
	return names
}

// firstIdentifier searches below id in pre-order, skipping type annotations.
func firstIdentifier(tree *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	found := syntax.NoNode
	tree.Walk(id, func(n syntax.NodeID) bool {
		if found != syntax.NoNode {
			return false
		}
		switch tree.Kind(n) {
		case syntax.KindIdentifier:
			found = n
			return false
		case syntax.KindTypeAnnotation:
			return false
		}
		return true
	})
	return found
}
