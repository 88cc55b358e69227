package grammar

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/corex/internal/syntax"
)

// ErrNoTree is returned when the parser produces no tree at all. Syntax errors
// do not trigger it: tree-sitter still returns a best-effort tree for them.
var ErrNoTree = errors.New("parser returned no tree")

// Parse parses source with this language's grammar and converts the result to
// an arena tree. A fresh parser is created per call because tree-sitter
// parsers must not be shared between goroutines. Cancelling ctx stops the
// parse at the parser's next progress check.
func (l *Language) Parse(ctx context.Context, source []byte) (*syntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(l.handle); err != nil {
		return nil, fmt.Errorf("failed to load %s grammar: %w", l.ID, err)
	}

	length := len(source)
	tree := parser.ParseWithOptions(func(offset int, _ sitter.Point) []byte {
		if offset < length {
			return source[offset:]
		}
		return []byte{}
	}, nil, &sitter.ParseOptions{
		ProgressCallback: func(sitter.ParseState) bool {
			return ctx.Err() != nil
		},
	})
	if tree == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrNoTree, l.ID)
	}
	defer tree.Close()

	return buildArena(tree.RootNode(), source, l.profile), nil
}

// buildArena copies the native tree into a syntax.Tree. The walk uses an
// explicit stack; children of a node are added in source order.
func buildArena(root *sitter.Node, source []byte, profile Profile) *syntax.Tree {
	arena := syntax.NewTree(source)
	if root == nil {
		return arena
	}

	type pending struct {
		node   *sitter.Node
		parent syntax.NodeID
		field  string
	}

	stack := []pending{{node: root, parent: syntax.NoNode}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		converted := convertNode(item.node, profile)
		converted.Field = item.field
		id := arena.Add(item.parent, converted)

		count := int(item.node.ChildCount())
		for i := count - 1; i >= 0; i-- {
			child := item.node.Child(uint(i))
			if child == nil {
				continue
			}
			stack = append(stack, pending{
				node:   child,
				parent: id,
				field:  item.node.FieldNameForChild(uint32(i)),
			})
		}
	}

	return arena
}

func convertNode(node *sitter.Node, profile Profile) syntax.Node {
	kind := syntax.KindOther
	if node.IsError() {
		kind = syntax.KindError
	} else if node.IsNamed() && !node.IsMissing() {
		kind = profile.Kind(node.Kind())
	}

	start := node.StartPosition()
	end := node.EndPosition()

	return syntax.Node{
		Kind:      kind,
		Type:      node.Kind(),
		StartByte: int(node.StartByte()),
		EndByte:   int(node.EndByte()),
		Start:     syntax.Point{Row: int(start.Row), Column: int(start.Column)},
		End:       syntax.Point{Row: int(end.Row), Column: int(end.Column)},
	}
}
