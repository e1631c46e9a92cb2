// Package lvalign aligns recorded execution traces against hierarchical
// process-tree models — the conformance-checking counterpart to the
// lvlath graph toolkit.
//
// 🚀 What is lvalign?
//
//	A library-level computational kernel that explains, event by event,
//	how an observed trace deviates from what a process model allows:
//		• Synchronous moves: trace and model agree
//		• Log moves: events the model cannot explain
//		• Model moves: model steps the trace never recorded
//	The minimum-cost move sequence and its normalized fitness are the
//	standard diagnostics of trace conformance.
//
// Everything is organized under four subpackages:
//
//	processtree/ — SEQUENCE / XOR / PARALLEL / LOOP model trees with
//	               labeled and silent leaves
//	flownet/     — compiles a tree into a (cyclic) flow network whose
//	               source→sink paths are exactly the model's executions
//	milp/        — mixed-integer programming backend: branch-and-bound
//	               over gonum's simplex
//	align/       — the time-expanded alignment solver, variant cache,
//	               batch API and fitness
//
// Quick example:
//
//	tree := processtree.Sequence(processtree.Leaf("a"), processtree.Leaf("b"))
//	aligner, _ := align.NewAligner(tree, align.DefaultOptions())
//	cost, moves, _ := aligner.Align([]string{"a", "x", "b"})
//	// cost = 1; moves = (a,a) (x,>>) (b,b)
//
// The construction follows Schwanen, Pakusa & van der Aalst,
// "Process Tree Alignments" (EDOC 2024).
package lvalign
