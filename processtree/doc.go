// Package processtree defines the hierarchical process-model type consumed
// by the flownet compiler and the align solver.
//
// A process tree is a rooted tree in which every node is either a leaf —
// a named activity, or a silent (tau) step — or an operator node combining
// an ordered list of child subtrees:
//
//	Sequence (->) — children execute left to right.
//	Xor      (X)  — exactly one child executes.
//	Parallel (+)  — all children execute, interleaved arbitrarily.
//	Loop     (*)  — children[0] ("do") executes, then zero or more
//	                repetitions of children[1] ("redo") followed by "do".
//
// Trees are built with the compositional constructors:
//
//	t := processtree.Sequence(
//	    processtree.Leaf("register"),
//	    processtree.Xor(processtree.Leaf("approve"), processtree.Leaf("reject")),
//	    processtree.Tau(),
//	)
//
// Node values are plain data: the package performs no validation on
// construction. Structural requirements (loop arity, supported operators)
// are enforced by flownet.Compile, which is the single consumer that
// depends on them.
package processtree
