// Package align computes optimal alignments between recorded traces and
// a process tree, the canonical conformance-checking diagnostic: the
// minimum-cost explanation of how an observed activity sequence deviates
// from what the model allows.
//
// An alignment is an ordered list of moves:
//
//	(a, a)    synchronous move - the trace event matched a model edge.
//	(a, ">>") log move         - the event has no model explanation.
//	(">>", b) model move       - the model proceeds without the trace.
//
// Synchronous moves are free, log moves cost 1, and model moves on a
// labeled edge cost 1 (apportioned across parallel copies); the optimum
// minimizes the total.
//
// # Method
//
// The tree is compiled once (flownet.Compile) into a flow network whose
// source→sink paths are exactly the model's executions. Aligning a trace
// of length n replicates the network's flow variables across n+1 steps
// and couples the layers with log-move variables (flow waiting at a node
// while an event goes unexplained) and synchronous-move variables (flow
// crossing a matching labeled edge together with the event). Binary
// shuffle selectors keep parallel branch combinations coherent per step,
// and the time expansion is what bounds loop repetition — the network
// itself is cyclic. The resulting mixed-integer program is handed to the
// milp backend and the solution is decoded back into moves.
//
// This is the construction of Schwanen, Pakusa and van der Aalst,
// "Process Tree Alignments" (EDOC 2024).
//
// # Usage
//
//	aligner, err := align.NewAligner(tree, align.DefaultOptions())
//	if err != nil { ... }
//	cost, moves, err := aligner.Align([]string{"a", "b", "c"})
//
// Batches of traces go through AlignAll, which solves each distinct
// variant once on a bounded worker pool and derives fitness
// 1 − cost/(emptyCost + len(trace)) per trace.
//
// # Concurrency
//
// An Aligner is immutable after construction apart from its bounded,
// thread-safe variant cache; Align and AlignAll may be called from any
// number of goroutines. Options.Ctx cancels batch work between variants.
//
// # Errors
//
//	ErrOptimization - the MILP backend failed for one trace; wraps the
//	                  backend error (errors.Is sees both). Not retried.
//	flownet errors  - structural tree defects, surfaced by NewAligner.
package align
