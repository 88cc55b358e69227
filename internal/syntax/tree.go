package syntax

// NodeKind is the closed set of grammar productions the extractor inspects.
// Every other production maps to KindOther.
type NodeKind uint8

const (
	KindOther NodeKind = iota
	KindModule
	KindComment
	KindString
	KindExpressionStatement
	KindBlock
	KindFunction
	KindClass
	KindParameterList
	KindParameter
	KindIdentifier
	KindDeclarator
	KindTypeAnnotation
	KindError
)

var kindNames = [...]string{
	KindOther:               "other",
	KindModule:              "module",
	KindComment:             "comment",
	KindString:              "string",
	KindExpressionStatement: "expression_statement",
	KindBlock:               "block",
	KindFunction:            "function",
	KindClass:               "class",
	KindParameterList:       "parameter_list",
	KindParameter:           "parameter",
	KindIdentifier:          "identifier",
	KindDeclarator:          "declarator",
	KindTypeAnnotation:      "type_annotation",
	KindError:               "error",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsScope reports whether nodes of this kind contribute a context frame.
func (k NodeKind) IsScope() bool {
	return k == KindFunction || k == KindClass
}

// NodeID indexes a node inside its Tree.
type NodeID int32

// NoNode marks a missing parent or child.
const NoNode NodeID = -1

// Point is a 0-indexed row/column position, as reported by the parser.
type Point struct {
	Row    int
	Column int
}

// Node is one entry of the arena. Parent and child links are indices into the
// owning Tree, so the structure has no pointer cycles.
type Node struct {
	Kind      NodeKind
	Type      string // raw grammar production, e.g. "function_definition"
	Field     string // field name under the parent, e.g. "name"; empty if none
	StartByte int
	EndByte   int
	Start     Point
	End       Point
	Parent    NodeID
	Children  []NodeID
}

// Tree is a read-only, index-based concrete syntax tree. Node 0 is the root.
type Tree struct {
	nodes  []Node
	source []byte
}

// NewTree creates an empty tree over source. Nodes are appended with Add.
func NewTree(source []byte) *Tree {
	return &Tree{source: source}
}

// Add appends n as the last child of parent (NoNode for the root) and returns its ID.
func (t *Tree) Add(parent NodeID, n Node) NodeID {
	id := NodeID(len(t.nodes))
	n.Parent = parent
	n.Children = nil
	t.nodes = append(t.nodes, n)
	if parent != NoNode {
		t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	}
	return id
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Root returns the root node, or NoNode for an empty tree.
func (t *Tree) Root() NodeID {
	if len(t.nodes) == 0 {
		return NoNode
	}
	return 0
}

// Source returns the bytes the tree was built from.
func (t *Tree) Source() []byte {
	return t.source
}

// Node returns the node with the given ID.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

func (t *Tree) Kind(id NodeID) NodeKind {
	return t.nodes[id].Kind
}

func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].Parent
}

func (t *Tree) Children(id NodeID) []NodeID {
	return t.nodes[id].Children
}

// FirstChild returns the first child of id, or NoNode.
func (t *Tree) FirstChild(id NodeID) NodeID {
	children := t.nodes[id].Children
	if len(children) == 0 {
		return NoNode
	}
	return children[0]
}

// ChildByField returns the first direct child of id stored under field, or NoNode.
func (t *Tree) ChildByField(id NodeID, field string) NodeID {
	for _, child := range t.nodes[id].Children {
		if t.nodes[child].Field == field {
			return child
		}
	}
	return NoNode
}

// FirstChildOfKind returns the first direct child of id with the given kind, or NoNode.
func (t *Tree) FirstChildOfKind(id NodeID, kind NodeKind) NodeID {
	for _, child := range t.nodes[id].Children {
		if t.nodes[child].Kind == kind {
			return child
		}
	}
	return NoNode
}

// Text returns the verbatim source text covered by id.
func (t *Tree) Text(id NodeID) string {
	n := &t.nodes[id]
	start, end := n.StartByte, n.EndByte
	if start < 0 || end > len(t.source) || start > end {
		return ""
	}
	return string(t.source[start:end])
}

// StartLine returns the 1-indexed first line of id.
func (t *Tree) StartLine(id NodeID) int {
	return t.nodes[id].Start.Row + 1
}

// EndLine returns the 1-indexed last line of id.
func (t *Tree) EndLine(id NodeID) int {
	return t.nodes[id].End.Row + 1
}

// ErrorCount returns the number of error nodes in the tree.
func (t *Tree) ErrorCount() int {
	count := 0
	for i := range t.nodes {
		if t.nodes[i].Kind == KindError {
			count++
		}
	}
	return count
}

// Contains reports whether the 0-indexed position (row, column) falls inside id.
// Both ends are inclusive.
func (t *Tree) Contains(id NodeID, row, column int) bool {
	n := &t.nodes[id]
	if row < n.Start.Row || row > n.End.Row {
		return false
	}
	if row == n.Start.Row && column < n.Start.Column {
		return false
	}
	if row == n.End.Row && column > n.End.Column {
		return false
	}
	return true
}

// SmallestAt returns the deepest node containing (row, column), preferring the
// first matching child at each level. It returns NoNode when the root does not
// contain the position.
func (t *Tree) SmallestAt(row, column int) NodeID {
	current := t.Root()
	if current == NoNode || !t.Contains(current, row, column) {
		return NoNode
	}
	for {
		next := NoNode
		for _, child := range t.nodes[current].Children {
			if t.Contains(child, row, column) {
				next = child
				break
			}
		}
		if next == NoNode {
			return current
		}
		current = next
	}
}
