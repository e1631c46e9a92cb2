package processtree

import "strings"

// Operator tags the control-flow semantics of an internal tree node.
// OpLeaf marks leaves, which carry a Label instead of Children.
type Operator int

const (
	// OpLeaf marks a leaf node: a named activity, or a silent (tau) step
	// when Label is empty.
	OpLeaf Operator = iota

	// OpSequence executes children strictly left to right.
	OpSequence

	// OpXor executes exactly one of the children.
	OpXor

	// OpParallel executes all children, interleaved in any order.
	OpParallel

	// OpLoop has exactly two children: "do" (children[0]) and "redo"
	// (children[1]); execution is do (redo do)*.
	OpLoop
)

// String returns the conventional operator glyph.
func (op Operator) String() string {
	switch op {
	case OpSequence:
		return "->"
	case OpXor:
		return "X"
	case OpParallel:
		return "+"
	case OpLoop:
		return "*"
	default:
		return "leaf"
	}
}

// Node is one node of a process tree.
//
// A leaf has Operator == OpLeaf and no Children; its Label names the
// activity, and an empty Label denotes a silent (tau) step. An operator
// node has a non-OpLeaf Operator and an ordered Children slice; its Label
// is ignored.
type Node struct {
	// Operator tags the node; OpLeaf for leaves.
	Operator Operator

	// Label is the activity name of a leaf; empty for tau and operators.
	Label string

	// Children is the ordered list of subtrees; empty for leaves.
	Children []*Node
}

// Leaf returns a leaf node for the named activity.
func Leaf(label string) *Node {
	return &Node{Operator: OpLeaf, Label: label}
}

// Tau returns a silent (unlabeled) leaf.
func Tau() *Node {
	return &Node{Operator: OpLeaf}
}

// Sequence returns a SEQUENCE node over the given children.
func Sequence(children ...*Node) *Node {
	return &Node{Operator: OpSequence, Children: children}
}

// Xor returns an XOR (exclusive-choice) node over the given children.
func Xor(children ...*Node) *Node {
	return &Node{Operator: OpXor, Children: children}
}

// Parallel returns a PARALLEL (interleaving) node over the given children.
func Parallel(children ...*Node) *Node {
	return &Node{Operator: OpParallel, Children: children}
}

// Loop returns a LOOP node with the given do and redo children.
func Loop(do, redo *Node) *Node {
	return &Node{Operator: OpLoop, Children: []*Node{do, redo}}
}

// IsLeaf reports whether n is a leaf node (activity or tau).
func (n *Node) IsLeaf() bool {
	return n.Operator == OpLeaf && len(n.Children) == 0
}

// IsTau reports whether n is a silent leaf.
func (n *Node) IsTau() bool {
	return n.IsLeaf() && n.Label == ""
}

// String renders the tree in operator notation, e.g. "->( 'a', X( 'b', tau ) )".
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.IsLeaf() {
		if n.Label == "" {
			return "tau"
		}

		return "'" + n.Label + "'"
	}

	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = c.String()
	}

	return n.Operator.String() + "( " + strings.Join(parts, ", ") + " )"
}
