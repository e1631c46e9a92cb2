package flownet

import (
	"fmt"

	"github.com/katalvlaran/lvalign/processtree"
)

// Compile deterministically translates a process tree into its flow
// network. Node IDs are assigned in construction order; node 0 is the
// source.
//
// Steps:
//  1. Allocate the source node (ID 0).
//  2. Whole-tree base cases: a silent leaf marks node 0 as source and
//     sink and returns; a root LOOP with a silent do-child marks node 0
//     as source and sink and lays out only the redo child as a self-loop
//     region back onto node 0.
//  3. A root LOOP with a visible do-child allocates the sink directly and
//     lays out do forward and redo backward between source and sink.
//  4. Any other tree allocates the sink and recurses with iac = 1.
//  5. Precompute the in/out adjacency and the activity→edges index.
//
// Complexity:
//
//	Time:   O(N + E) over tree nodes and produced edges.
//	Memory: O(N + E) for the network plus its indexes.
func Compile(tree *processtree.Node) (*Network, error) {
	if tree == nil {
		return nil, ErrNilTree
	}

	c := &compiler{multi: make(map[[2]int]int)}

	start := c.newNode()
	c.nodes[start].Source = true

	switch {
	case tree.IsTau():
		// The whole tree is silent: only the empty trace fits.
		c.nodes[start].Sink = true

	case tree.Operator == processtree.OpLoop:
		if len(tree.Children) != 2 {
			return nil, fmt.Errorf("%w: %s", ErrLoopArity, tree)
		}
		if tree.Children[0].IsTau() {
			// Skippable loop: the start node doubles as the sink and
			// the redo child loops back onto it.
			c.nodes[start].Sink = true
			if err := c.build(tree.Children[1], start, start, 1); err != nil {
				return nil, err
			}
		} else {
			end := c.newNode()
			c.nodes[end].Sink = true
			if err := c.build(tree.Children[0], start, end, 1); err != nil {
				return nil, err
			}
			if err := c.build(tree.Children[1], end, start, 1); err != nil {
				return nil, err
			}
		}

	default:
		end := c.newNode()
		c.nodes[end].Sink = true
		if err := c.build(tree, start, end, 1); err != nil {
			return nil, err
		}
	}

	net := &Network{Nodes: c.nodes, Edges: c.edges}
	net.index()

	return net, nil
}

// compiler accumulates nodes and edges during the recursive build.
// The multi map assigns parallel-edge indexes per (from,to) pair.
type compiler struct {
	nodes []Node
	edges []Edge
	multi map[[2]int]int
}

// newNode appends a fresh node and returns its ID.
func (c *compiler) newNode() int {
	id := len(c.nodes)
	c.nodes = append(c.nodes, Node{ID: id})

	return id
}

// addEdge appends an edge from→to and returns its position in c.edges.
func (c *compiler) addEdge(from, to int, label string, capacity, cost float64, shuffle bool) int {
	key := [2]int{from, to}
	idx := c.multi[key]
	c.multi[key] = idx + 1

	pos := len(c.edges)
	c.edges = append(c.edges, Edge{
		From:     from,
		To:       to,
		Index:    idx,
		Label:    label,
		Capacity: capacity,
		Cost:     cost,
		Shuffle:  shuffle,
	})

	return pos
}

// build recursively lays out the subtree between entry and exit under the
// given inverse-allocation count.
func (c *compiler) build(tree *processtree.Node, entry, exit, iac int) error {
	switch tree.Operator {
	case processtree.OpLeaf:
		return c.buildLeaf(tree, entry, exit, iac)
	case processtree.OpSequence:
		return c.buildSequence(tree, entry, exit, iac)
	case processtree.OpXor:
		return c.buildXor(tree, entry, exit, iac)
	case processtree.OpParallel:
		return c.buildParallel(tree, entry, exit, iac)
	case processtree.OpLoop:
		return c.buildLoop(tree, entry, exit, iac)
	default:
		return fmt.Errorf("%w: %v in %s", ErrUnsupportedOperator, tree.Operator, tree)
	}
}

// buildLeaf adds the single edge of a leaf: labeled edges cost iac at
// capacity 1/iac, silent edges are free.
func (c *compiler) buildLeaf(tree *processtree.Node, entry, exit, iac int) error {
	if !tree.IsLeaf() {
		return fmt.Errorf("%w: %s", ErrLeafChildren, tree)
	}

	cost := 0.0
	if tree.Label != "" {
		cost = float64(iac)
	}
	c.addEdge(entry, exit, tree.Label, 1/float64(iac), cost, false)

	return nil
}

// buildSequence chains the children through fresh intermediate nodes.
func (c *compiler) buildSequence(tree *processtree.Node, entry, exit, iac int) error {
	if len(tree.Children) == 1 {
		return c.build(tree.Children[0], entry, exit, iac)
	}

	chain := make([]int, 0, len(tree.Children)+1)
	chain = append(chain, entry)
	for i := 0; i < len(tree.Children)-1; i++ {
		chain = append(chain, c.newNode())
	}
	chain = append(chain, exit)

	for i, child := range tree.Children {
		if err := c.build(child, chain[i], chain[i+1], iac); err != nil {
			return err
		}
	}

	return nil
}

// buildXor lays out every child between the same entry and exit, so the
// branches are mutually exclusive alternative paths.
func (c *compiler) buildXor(tree *processtree.Node, entry, exit, iac int) error {
	for _, child := range tree.Children {
		if err := c.build(child, entry, exit, iac); err != nil {
			return err
		}
	}

	return nil
}

// buildParallel brackets every child with silent shuffle edges at
// capacity 1/(iac·k) and records one shuffle group on the split (entry)
// and one on the join (exit). Shuffle bookkeeping on a node initializes
// only the first time it is used as a split or join.
func (c *compiler) buildParallel(tree *processtree.Node, entry, exit, iac int) error {
	if !c.nodes[entry].IsSplit && !c.nodes[entry].IsJoin {
		c.nodes[entry].IsSplit = true
		c.nodes[entry].IAC = iac
	}
	if !c.nodes[exit].IsSplit && !c.nodes[exit].IsJoin {
		c.nodes[exit].IsJoin = true
		c.nodes[exit].IAC = iac
	}

	localIAC := iac * len(tree.Children)
	capacity := 1 / float64(localIAC)

	split := make([]int, 0, len(tree.Children))
	join := make([]int, 0, len(tree.Children))
	for _, child := range tree.Children {
		branchStart := c.newNode()
		branchEnd := c.newNode()

		split = append(split, c.addEdge(entry, branchStart, "", capacity, 0, true))
		join = append(join, c.addEdge(branchEnd, exit, "", capacity, 0, true))

		if err := c.build(child, branchStart, branchEnd, localIAC); err != nil {
			return err
		}
	}

	c.nodes[entry].Shuffle = append(c.nodes[entry].Shuffle, split)
	c.nodes[exit].Shuffle = append(c.nodes[exit].Shuffle, join)

	return nil
}

// buildLoop brackets the loop body with two silent gate edges and lays
// the redo child backward, deliberately creating a cycle. Repetition is
// bounded by the solver's time expansion, not here.
func (c *compiler) buildLoop(tree *processtree.Node, entry, exit, iac int) error {
	if len(tree.Children) != 2 {
		return fmt.Errorf("%w: %s", ErrLoopArity, tree)
	}

	capacity := 1 / float64(iac)

	gateIn := c.newNode()
	c.addEdge(entry, gateIn, "", capacity, 0, false)
	gateOut := c.newNode()
	c.addEdge(gateOut, exit, "", capacity, 0, false)

	if err := c.build(tree.Children[0], gateIn, gateOut, iac); err != nil {
		return err
	}

	return c.build(tree.Children[1], gateOut, gateIn, iac)
}
