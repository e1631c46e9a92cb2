// Package milp solves small mixed-integer linear programs of the form
//
//	minimize  c·x
//	s.t.      AUb·x ≤ bUb
//	          AEq·x = bEq
//	          lower ≤ x ≤ upper   (lower ≥ 0)
//	          x[j] integral for every flagged j
//
// which is exactly the solver contract the align package consumes: a cost
// vector, inequality and equality constraint matrices, per-variable
// bounds, and per-variable integrality flags.
//
// The continuous relaxations are solved by gonum's simplex
// (gonum.org/v1/gonum/optimize/convex/lp); integrality is enforced by a
// depth-first branch-and-bound over the flagged variables, branching on
// the most fractional one and pruning nodes whose relaxation cannot beat
// the incumbent. Bounds are encoded as inequality rows, so branching only
// tightens the bound vectors.
//
// All variables must be bounded below at zero or above; this keeps the
// standard-form assembly a plain slack-column construction instead of the
// free-variable splitting a general-form converter performs, halving the
// simplex column count. The alignment programs satisfy this by
// construction (flows, indicators and selectors are all nonnegative).
//
// Errors:
//
//	ErrBadProblem - inconsistent dimensions or a negative lower bound.
//	ErrInfeasible - no assignment satisfies the constraints.
//	ErrUnbounded  - the objective is unbounded below.
//	ErrNodeLimit  - branch-and-bound exceeded Options.MaxNodes.
package milp
