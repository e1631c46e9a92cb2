package milp

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors returned by Solve.
var (
	// ErrBadProblem indicates inconsistent problem dimensions or a
	// negative lower bound.
	ErrBadProblem = errors.New("milp: malformed problem")

	// ErrInfeasible indicates no assignment satisfies the constraints.
	ErrInfeasible = errors.New("milp: problem is infeasible")

	// ErrUnbounded indicates the objective is unbounded below.
	ErrUnbounded = errors.New("milp: problem is unbounded")

	// ErrNodeLimit indicates branch-and-bound gave up after exploring
	// Options.MaxNodes subproblems without proving optimality.
	ErrNodeLimit = errors.New("milp: branch-and-bound node limit exceeded")
)

// Problem is a mixed-integer linear program in general form.
//
// AUb/BUb and AEq/BEq may be nil when the corresponding constraint family
// is empty. Lower and Upper must have the same length as Cost; Lower
// entries must be ≥ 0, Upper entries may be math.Inf(1). Integer flags
// variables that must take integral values.
type Problem struct {
	// Cost is the objective coefficient vector; its length defines the
	// number of variables.
	Cost []float64

	// AUb, BUb encode AUb·x ≤ BUb.
	AUb *mat.Dense
	BUb []float64

	// AEq, BEq encode AEq·x = BEq.
	AEq *mat.Dense
	BEq []float64

	// Lower, Upper are per-variable bounds.
	Lower, Upper []float64

	// Integer flags the variables constrained to integral values.
	Integer []bool
}

// Solution is an optimal assignment: the objective value and the value of
// every variable, indexed identically to Problem.Cost.
type Solution struct {
	Objective float64
	X         []float64
}

// Options configures Solve.
//
//   - Tol:      simplex optimality tolerance (default 1e-10).
//   - IntTol:   how far from an integer a flagged variable may sit and
//     still count as integral (default 1e-6).
//   - MaxNodes: branch-and-bound subproblem budget (default 16384).
type Options struct {
	Tol      float64
	IntTol   float64
	MaxNodes int
}

// DefaultOptions returns production-safe defaults.
func DefaultOptions() Options {
	return Options{
		Tol:      defaultTol,
		IntTol:   defaultIntTol,
		MaxNodes: defaultMaxNodes,
	}
}

const (
	defaultTol      = 1e-10
	defaultIntTol   = 1e-6
	defaultMaxNodes = 1 << 14
)

// normalize fills zero-valued options with their defaults.
func (o *Options) normalize() {
	if o.Tol <= 0 {
		o.Tol = defaultTol
	}
	if o.IntTol <= 0 {
		o.IntTol = defaultIntTol
	}
	if o.MaxNodes <= 0 {
		o.MaxNodes = defaultMaxNodes
	}
}
