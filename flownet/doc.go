// Package flownet compiles a process tree into the flow-network form the
// align package optimizes over.
//
// Compile translates each operator into graph structure between an entry
// and an exit node, threading an inverse-allocation count (iac) that
// tracks how many parallel copies an edge's unit capacity is divided
// among:
//
//   - Leaf:     one edge entry→exit; capacity 1/iac; cost iac when the
//     leaf is labeled, 0 when silent.
//   - Sequence: a straight chain of fresh intermediate nodes, one child
//     subgraph per link.
//   - Xor:      every child laid out between the same entry and exit, so
//     branches are alternative paths.
//   - Parallel: entry becomes a split and exit a join; each child is
//     bracketed by silent "shuffle" edges of capacity 1/(iac·k), and the
//     per-child entry (resp. exit) shuffle edges are recorded as one
//     shuffle group on the split (resp. join) node. A binary selector per
//     group later forces each step to activate either the whole coherent
//     branch combination or none of it.
//   - Loop:     two fresh gate nodes bracket the body; the do child runs
//     forward between the gates and the redo child runs backward,
//     creating a genuine cycle. The cycle is intentional: repetition is
//     bounded by the per-step time expansion in align, never by the graph.
//
// Two whole-tree special cases collapse the layout: a silent leaf as the
// entire tree marks node 0 as both source and sink (only the empty trace
// fits), and a root LOOP whose do-child is silent marks node 0 as both
// source and sink with the redo child as a self-loop region (the loop is
// skippable and repeatable).
//
// The resulting Network is immutable: node IDs are dense ints assigned in
// construction order (source is always node 0), edges are stored in
// construction order with a parallel index per (from,to) pair, and an
// activity→edge index plus in/out adjacency are precomputed for the
// solver. A Network may be read concurrently.
//
// Errors (all matched via errors.Is, mapping the StructuralError class):
//
//	ErrNilTree             - Compile received a nil tree.
//	ErrLoopArity           - a LOOP node without exactly two children.
//	ErrUnsupportedOperator - an operator outside the supported set.
//	ErrLeafChildren        - a leaf-tagged node carrying children.
package flownet
