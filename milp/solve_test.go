package milp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvalign/milp"
)

// TestSolve_PureLP verifies a plain LP with one inequality and box bounds:
// min -x1-2x2 s.t. x1+x2 ≤ 1, 0 ≤ x ≤ 1 has optimum (0,1), objective -2.
func TestSolve_PureLP(t *testing.T) {
	p := &milp.Problem{
		Cost:  []float64{-1, -2},
		AUb:   mat.NewDense(1, 2, []float64{1, 1}),
		BUb:   []float64{1},
		Lower: []float64{0, 0},
		Upper: []float64{1, 1},
	}

	sol, err := milp.Solve(p, milp.DefaultOptions())
	require.NoError(t, err, "feasible LP must solve")
	assert.InDelta(t, -2, sol.Objective, 1e-9, "optimum picks the cheaper variable")
	assert.InDelta(t, 1, sol.X[1], 1e-9, "x2 saturates the constraint")
}

// TestSolve_Equality verifies an equality-constrained LP:
// min x1 s.t. x1+x2 = 1 yields objective 0.
func TestSolve_Equality(t *testing.T) {
	p := &milp.Problem{
		Cost:  []float64{1, 0},
		AEq:   mat.NewDense(1, 2, []float64{1, 1}),
		BEq:   []float64{1},
		Lower: []float64{0, 0},
		Upper: []float64{1, 1},
	}

	sol, err := milp.Solve(p, milp.DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, 0, sol.Objective, 1e-9, "x2 should carry the full unit")
	assert.InDelta(t, 1, sol.X[0]+sol.X[1], 1e-9, "equality must hold")
}

// TestSolve_RedundantEqualityRows verifies that linearly dependent
// equality rows are tolerated; time-expanded flow-conservation systems
// always contain one.
func TestSolve_RedundantEqualityRows(t *testing.T) {
	p := &milp.Problem{
		Cost: []float64{1, 0},
		AEq: mat.NewDense(3, 2, []float64{
			1, 1,
			1, 1,
			2, 2,
		}),
		BEq:   []float64{1, 1, 2},
		Lower: []float64{0, 0},
		Upper: []float64{1, 1},
	}

	sol, err := milp.Solve(p, milp.DefaultOptions())
	require.NoError(t, err, "duplicate rows must not break the solve")
	assert.InDelta(t, 0, sol.Objective, 1e-9)
}

// TestSolve_InconsistentEqualityRows verifies that contradictory
// equalities are reported as infeasible before any simplex runs.
func TestSolve_InconsistentEqualityRows(t *testing.T) {
	p := &milp.Problem{
		Cost: []float64{1, 0},
		AEq: mat.NewDense(2, 2, []float64{
			1, 1,
			1, 1,
		}),
		BEq:   []float64{1, 2},
		Lower: []float64{0, 0},
		Upper: []float64{1, 1},
	}

	_, err := milp.Solve(p, milp.DefaultOptions())
	assert.ErrorIs(t, err, milp.ErrInfeasible, "x1+x2 cannot equal both 1 and 2")
}

// TestSolve_InfeasibleBounds verifies infeasibility detection when an
// equality demands more than the bounds allow.
func TestSolve_InfeasibleBounds(t *testing.T) {
	p := &milp.Problem{
		Cost:  []float64{1},
		AEq:   mat.NewDense(1, 1, []float64{1}),
		BEq:   []float64{2},
		Lower: []float64{0},
		Upper: []float64{1},
	}

	_, err := milp.Solve(p, milp.DefaultOptions())
	assert.ErrorIs(t, err, milp.ErrInfeasible, "x = 2 contradicts x ≤ 1")
}

// TestSolve_BranchAndBound verifies that a fractional relaxation is
// driven to an integral optimum: min -(x1+x2) s.t. x1+x2 ≤ 1.5 with both
// variables binary yields objective -1, not -1.5.
func TestSolve_BranchAndBound(t *testing.T) {
	p := &milp.Problem{
		Cost:    []float64{-1, -1},
		AUb:     mat.NewDense(1, 2, []float64{1, 1}),
		BUb:     []float64{1.5},
		Lower:   []float64{0, 0},
		Upper:   []float64{1, 1},
		Integer: []bool{true, true},
	}

	sol, err := milp.Solve(p, milp.DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, -1, sol.Objective, 1e-9, "relaxed optimum -1.5 must be cut to -1")
	for j, v := range sol.X {
		frac := v - math.Floor(v)
		assert.True(t, frac < 1e-6 || frac > 1-1e-6, "variable %d must be integral, got %g", j, v)
	}
}

// TestSolve_MixedIntegrality verifies that unflagged variables may stay
// fractional while flagged ones are forced integral.
func TestSolve_MixedIntegrality(t *testing.T) {
	// min -x1-x2 s.t. 2x1+x2 ≤ 2 with x1 binary: optimum x1=0, x2=2? No:
	// x2 ≤ 1.5 bound keeps it interior. Optimum x1 ∈ {0,1}: x1=0 → x2=1.5
	// (obj -1.5); x1=1 → x2=0 (obj -1). Expect -1.5.
	p := &milp.Problem{
		Cost:    []float64{-1, -1},
		AUb:     mat.NewDense(1, 2, []float64{2, 1}),
		BUb:     []float64{2},
		Lower:   []float64{0, 0},
		Upper:   []float64{1, 1.5},
		Integer: []bool{true, false},
	}

	sol, err := milp.Solve(p, milp.DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, -1.5, sol.Objective, 1e-9)
	assert.InDelta(t, 0, sol.X[0], 1e-6, "binary variable settles at 0")
	assert.InDelta(t, 1.5, sol.X[1], 1e-6, "continuous variable stays fractional")
}

// TestSolve_Unbounded verifies detection of an objective unbounded below.
func TestSolve_Unbounded(t *testing.T) {
	p := &milp.Problem{
		Cost:  []float64{-1},
		Lower: []float64{0},
		Upper: []float64{math.Inf(1)},
	}

	_, err := milp.Solve(p, milp.DefaultOptions())
	assert.ErrorIs(t, err, milp.ErrUnbounded)
}

// TestSolve_BadProblem verifies dimensional validation.
func TestSolve_BadProblem(t *testing.T) {
	p := &milp.Problem{
		Cost:  []float64{1, 1},
		Lower: []float64{0},
		Upper: []float64{1},
	}
	_, err := milp.Solve(p, milp.DefaultOptions())
	assert.ErrorIs(t, err, milp.ErrBadProblem, "bounds shorter than cost must be rejected")

	p = &milp.Problem{
		Cost:  []float64{1},
		Lower: []float64{-1},
		Upper: []float64{1},
	}
	_, err = milp.Solve(p, milp.DefaultOptions())
	assert.ErrorIs(t, err, milp.ErrBadProblem, "negative lower bounds are out of contract")
}

// TestSolve_EmptyProblem verifies the zero-variable degenerate case.
func TestSolve_EmptyProblem(t *testing.T) {
	sol, err := milp.Solve(&milp.Problem{}, milp.DefaultOptions())
	require.NoError(t, err)
	assert.Zero(t, sol.Objective)
	assert.Empty(t, sol.X)
}
