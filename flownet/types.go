package flownet

import "errors"

// Sentinel errors for structural compilation failures. These are fatal:
// a tree that fails to compile is malformed, not retryable.
var (
	// ErrNilTree indicates Compile was called with a nil tree.
	ErrNilTree = errors.New("flownet: nil process tree")

	// ErrLoopArity indicates a LOOP node without exactly two children.
	ErrLoopArity = errors.New("flownet: loop must have exactly two children")

	// ErrUnsupportedOperator indicates an operator outside
	// SEQUENCE/XOR/PARALLEL/LOOP.
	ErrUnsupportedOperator = errors.New("flownet: unsupported operator")

	// ErrLeafChildren indicates a leaf-tagged node that carries children.
	ErrLeafChildren = errors.New("flownet: leaf node must not have children")
)

// Edge is one directed edge of the compiled network, identified by
// (From, To, Index) so parallel edges between the same nodes coexist.
type Edge struct {
	// From and To are node IDs.
	From, To int

	// Index is the parallel-edge index among all From→To edges,
	// assigned in construction order starting at 0.
	Index int

	// Label is the activity carried by this edge; empty means silent
	// (structural) — silent edges never cost anything.
	Label string

	// Capacity bounds per-step flow on this edge: 1/iac at the point of
	// construction.
	Capacity float64

	// Cost is the model-move cost of traversing this edge at full
	// capacity times iac: iac for labeled edges, 0 for silent ones.
	Cost float64

	// Shuffle marks silent edges that implement a parallel spread/join.
	Shuffle bool
}

// Node is one node of the compiled network.
type Node struct {
	// ID is the dense integer identifier (position in Network.Nodes).
	ID int

	// Source and Sink mark the unique entry and exit of the network.
	// In the whole-tree special cases a single node carries both flags.
	Source, Sink bool

	// IsSplit and IsJoin mark parallel fan-out and fan-in points.
	IsSplit, IsJoin bool

	// IAC is the inverse-allocation count active at a split/join node;
	// the shuffle-consistency constraint ties group flow to 1/IAC.
	IAC int

	// Shuffle lists this node's shuffle groups. Each group is a list of
	// positions into Network.Edges; the edges of one group are activated
	// all together or not at all within a solver step.
	Shuffle [][]int
}

// Network is the compiled flow network: immutable once returned by
// Compile, safe for concurrent readers.
type Network struct {
	// Nodes in construction order; Nodes[0] is the source.
	Nodes []Node

	// Edges in construction order.
	Edges []Edge

	in, out [][]int // node ID → incident edge positions

	byLabel map[string][]int // activity → labeled edge positions
}

// Source returns the ID of the source node.
func (n *Network) Source() int {
	return 0
}

// Sink returns the ID of the sink node. With a whole-tree silent leaf or
// a root loop over a silent do-child this is the source node itself.
func (n *Network) Sink() int {
	for i := range n.Nodes {
		if n.Nodes[i].Sink {
			return n.Nodes[i].ID
		}
	}

	return -1
}

// In returns the positions of edges entering node v. The returned slice
// is shared and must not be modified.
func (n *Network) In(v int) []int {
	return n.in[v]
}

// Out returns the positions of edges leaving node v. The returned slice
// is shared and must not be modified.
func (n *Network) Out(v int) []int {
	return n.out[v]
}

// EdgesByLabel returns the positions of all edges carrying the given
// activity label, in construction order. The returned slice is shared
// and must not be modified.
func (n *Network) EdgesByLabel(label string) []int {
	return n.byLabel[label]
}

// index builds the in/out adjacency and the activity→edges map.
// Called once at the end of Compile.
func (n *Network) index() {
	n.in = make([][]int, len(n.Nodes))
	n.out = make([][]int, len(n.Nodes))
	n.byLabel = make(map[string][]int)
	for i := range n.Edges {
		e := &n.Edges[i]
		n.out[e.From] = append(n.out[e.From], i)
		n.in[e.To] = append(n.in[e.To], i)
		if e.Label != "" {
			n.byLabel[e.Label] = append(n.byLabel[e.Label], i)
		}
	}
}
