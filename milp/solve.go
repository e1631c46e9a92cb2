package milp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// eqRankTol is the threshold under which a fully eliminated equality row
// counts as redundant. The alignment programs carry coefficients of ±1
// and 1/iac, so the systems are well scaled.
const eqRankTol = 1e-9

// Solve computes an optimal solution of p, or an error from the package
// sentinel set.
//
// Steps:
//  1. Normalize options and validate dimensions (O(n)).
//  2. Drop linearly dependent equality rows; time-expanded flow
//     conservation always carries one redundant row, and gonum's simplex
//     requires full row rank (O(m²·n)).
//  3. Depth-first branch-and-bound: solve the continuous relaxation with
//     lp.Simplex, prune on infeasibility or on objectives that cannot
//     beat the incumbent, otherwise branch on the most fractional
//     integer-flagged variable by tightening its bounds.
//
// Complexity:
//
//	Time:   one simplex solve per explored subproblem, at most
//	        Options.MaxNodes of them; 2^k worst case for k flagged
//	        variables.
//	Memory: O(m·(n+m)) per relaxation for the standard-form matrix.
func Solve(p *Problem, opts Options) (*Solution, error) {
	opts.normalize()

	n := len(p.Cost)
	if n == 0 {
		// Degenerate but legal: nothing to decide, objective 0.
		return &Solution{}, nil
	}
	if err := validate(p, n); err != nil {
		return nil, err
	}

	aEq, bEq, err := reduceEq(p.AEq, p.BEq)
	if err != nil {
		return nil, err
	}

	lower := make([]float64, n)
	copy(lower, p.Lower)
	upper := make([]float64, n)
	copy(upper, p.Upper)

	type bbNode struct {
		lower, upper []float64
	}
	stack := []bbNode{{lower: lower, upper: upper}}

	var best *Solution
	explored := 0
	for len(stack) > 0 {
		if explored >= opts.MaxNodes {
			return nil, ErrNodeLimit
		}
		explored++

		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		obj, x, rerr := relax(p, aEq, bEq, node.lower, node.upper, opts.Tol)
		if errors.Is(rerr, ErrInfeasible) {
			continue
		}
		if rerr != nil {
			return nil, rerr
		}
		if best != nil && obj >= best.Objective-opts.Tol {
			continue
		}

		j := mostFractional(x, p.Integer, opts.IntTol)
		if j < 0 {
			best = &Solution{Objective: obj, X: x}
			continue
		}

		// Branch: x[j] ≤ floor and x[j] ≥ floor+1.
		floor := math.Floor(x[j])
		down := bbNode{lower: cloneVec(node.lower), upper: cloneVec(node.upper)}
		down.upper[j] = floor
		up := bbNode{lower: cloneVec(node.lower), upper: cloneVec(node.upper)}
		up.lower[j] = floor + 1
		stack = append(stack, up, down)
	}

	if best == nil {
		return nil, ErrInfeasible
	}

	return best, nil
}

// validate checks dimensional consistency and the nonnegative-lower-bound
// requirement.
func validate(p *Problem, n int) error {
	if len(p.Lower) != n || len(p.Upper) != n {
		return fmt.Errorf("%w: bounds length %d/%d, want %d", ErrBadProblem, len(p.Lower), len(p.Upper), n)
	}
	if p.Integer != nil && len(p.Integer) != n {
		return fmt.Errorf("%w: integrality length %d, want %d", ErrBadProblem, len(p.Integer), n)
	}
	for j, lb := range p.Lower {
		if lb < 0 {
			return fmt.Errorf("%w: negative lower bound %g on variable %d", ErrBadProblem, lb, j)
		}
		if p.Upper[j] < lb {
			return fmt.Errorf("%w: empty bound interval on variable %d", ErrBadProblem, j)
		}
	}
	if err := checkMatrix(p.AUb, len(p.BUb), n); err != nil {
		return err
	}

	return checkMatrix(p.AEq, len(p.BEq), n)
}

func checkMatrix(a *mat.Dense, rows, n int) error {
	if a == nil {
		if rows != 0 {
			return fmt.Errorf("%w: rhs without matrix", ErrBadProblem)
		}

		return nil
	}
	r, c := a.Dims()
	if r != rows || c != n {
		return fmt.Errorf("%w: matrix %dx%d, want %dx%d", ErrBadProblem, r, c, rows, n)
	}

	return nil
}

// relax solves the continuous relaxation of p under the given bound
// vectors. Bounds are encoded as inequality rows; every inequality row
// gets its own slack column, producing the standard form lp.Simplex
// consumes.
func relax(p *Problem, aEq *mat.Dense, bEq, lower, upper []float64, tol float64) (float64, []float64, error) {
	n := len(p.Cost)

	// Collect the inequality system: user rows, then upper-bound rows,
	// then strictly positive lower-bound rows.
	type bound struct {
		j     int
		coeff float64
		rhs   float64
	}
	var bounds []bound
	for j := 0; j < n; j++ {
		if !math.IsInf(upper[j], 1) {
			bounds = append(bounds, bound{j: j, coeff: 1, rhs: upper[j]})
		}
		if lower[j] > 0 {
			bounds = append(bounds, bound{j: j, coeff: -1, rhs: -lower[j]})
		}
	}

	mUb := len(p.BUb)
	mIneq := mUb + len(bounds)
	mEq := len(bEq)
	rows := mEq + mIneq
	cols := n + mIneq

	if rows == 0 {
		// No constraints at all: minimize over the (nonnegative) box.
		obj := 0.0
		x := make([]float64, n)
		for j, c := range p.Cost {
			if c < 0 {
				return 0, nil, ErrUnbounded
			}
			x[j] = lower[j]
			obj += c * x[j]
		}

		return obj, x, nil
	}

	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	if mEq > 0 {
		a.Slice(0, mEq, 0, n).(*mat.Dense).Copy(aEq)
		copy(b[:mEq], bEq)
	}
	if mUb > 0 {
		a.Slice(mEq, mEq+mUb, 0, n).(*mat.Dense).Copy(p.AUb)
		copy(b[mEq:mEq+mUb], p.BUb)
	}
	for i := range bounds {
		a.Set(mEq+mUb+i, bounds[i].j, bounds[i].coeff)
		b[mEq+mUb+i] = bounds[i].rhs
	}
	// One slack column per inequality row.
	for i := 0; i < mIneq; i++ {
		a.Set(mEq+i, n+i, 1)
	}

	c := make([]float64, cols)
	copy(c, p.Cost)

	obj, x, err := lp.Simplex(c, a, b, tol, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return 0, nil, ErrInfeasible
	case errors.Is(err, lp.ErrUnbounded):
		return 0, nil, ErrUnbounded
	case err != nil:
		return 0, nil, fmt.Errorf("milp: simplex: %w", err)
	}

	return obj, x[:n:n], nil
}

// reduceEq drops equality rows that are linear combinations of earlier
// ones, returning an equivalent full-row-rank system. A row that
// eliminates to zero with a non-negligible right-hand side makes the
// system infeasible outright.
func reduceEq(a *mat.Dense, b []float64) (*mat.Dense, []float64, error) {
	if a == nil || len(b) == 0 {
		return nil, nil, nil
	}
	m, n := a.Dims()

	type pivot struct {
		row []float64
		rhs float64
		col int
	}
	var pivots []pivot
	var keep []int

	work := make([]float64, n)
	for i := 0; i < m; i++ {
		mat.Row(work, i, a)
		rhs := b[i]
		for _, p := range pivots {
			factor := work[p.col] / p.row[p.col]
			if factor == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				work[j] -= factor * p.row[j]
			}
			rhs -= factor * p.rhs
		}

		col, colAbs := -1, eqRankTol
		for j := 0; j < n; j++ {
			if abs := math.Abs(work[j]); abs > colAbs {
				col, colAbs = j, abs
			}
		}
		if col < 0 {
			if math.Abs(rhs) > eqRankTol {
				return nil, nil, ErrInfeasible
			}

			continue
		}
		pivots = append(pivots, pivot{row: cloneVec(work), rhs: rhs, col: col})
		keep = append(keep, i)
	}

	if len(keep) == m {
		return a, b, nil
	}
	if len(keep) == 0 {
		return nil, nil, nil
	}

	reduced := mat.NewDense(len(keep), n, nil)
	rhs := make([]float64, len(keep))
	for k, i := range keep {
		mat.Row(work, i, a)
		reduced.SetRow(k, work)
		rhs[k] = b[i]
	}

	return reduced, rhs, nil
}

// mostFractional returns the flagged variable farthest from integrality,
// or -1 when every flagged variable is within intTol of an integer.
func mostFractional(x []float64, integer []bool, intTol float64) int {
	best, bestDist := -1, intTol
	for j, flagged := range integer {
		if !flagged {
			continue
		}
		frac := x[j] - math.Floor(x[j])
		if d := math.Min(frac, 1-frac); d > bestDist {
			best, bestDist = j, d
		}
	}

	return best
}

func cloneVec(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)

	return out
}
