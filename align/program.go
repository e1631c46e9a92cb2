package align

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvalign/flownet"
	"github.com/katalvlaran/lvalign/milp"
)

// program is the time-expanded mixed-integer program of one trace against
// the compiled network, together with the variable indexes needed to
// decode a solution. It lives for one Align call.
//
// Four variable families, allocated in this fixed order so results are
// deterministic:
//
//	x[i,e] - flow on edge e at step i ∈ [0,n]; bounded by the edge
//	         capacity; objective coefficient = edge cost.
//	y[i,v] - log-move indicator at node v, step i ∈ [1,n]; in [0,1];
//	         objective coefficient 1.
//	z[i,e] - synchronous-move flow at step i ∈ [1,n] on edges labeled
//	         trace[i-1]; bounded by the edge capacity; coefficient
//	         1-cost when cost > 1 (rewarding a sync move exactly by the
//	         waiting cost the other parallel branches incur), else 0.
//	s[i,g] - binary shuffle selector per shuffle group and step.
type program struct {
	net   *flownet.Network
	trace []string

	x [][]int       // [step][edge pos] → variable
	y [][]int       // [step][node] → variable; step 0 unused
	z []map[int]int // [step][edge pos] → variable; step 0 unused

	syncEdges [][]int // [step] → matching edge positions; step 0 unused

	groups []shuffleGroup
	s      [][]int // [step][group] → variable

	problem *milp.Problem
}

// shuffleGroup is one parallel split/join edge group with the inverse
// allocation count of its owning node.
type shuffleGroup struct {
	iac   int
	edges []int
}

// buildProgram assembles the full program for one trace.
//
// Steps:
//  1. Allocate variables family by family (x, y, z, s) with their
//     objective coefficients and bounds.
//  2. Per-step flow conservation equalities: x flows within a layer,
//     y crosses layers waiting at a node, z crosses layers along a
//     matching edge; a unit of flow leaves (source, step 0) and arrives
//     at (sink, step n). Rows touching no variable are dropped.
//  3. Shuffle consistency equalities tying each group's aggregate step
//     flow to 1/iac times its binary selector.
//  4. At-most-one inequalities over duplicate-labeled matching edges.
//
// Complexity:
//
//	Time:   O(n · (V + E)) row construction plus the dense matrix fill.
//	Memory: O(rows · vars) for the dense constraint matrices.
func buildProgram(net *flownet.Network, trace []string) *program {
	n := len(trace)
	steps := n + 1

	pr := &program{
		net:       net,
		trace:     trace,
		x:         make([][]int, steps),
		y:         make([][]int, steps),
		z:         make([]map[int]int, steps),
		syncEdges: make([][]int, steps),
	}

	var (
		cost    []float64
		lower   []float64
		upper   []float64
		integer []bool
	)
	addVar := func(c, up float64, isInt bool) int {
		id := len(cost)
		cost = append(cost, c)
		lower = append(lower, 0)
		upper = append(upper, up)
		integer = append(integer, isInt)

		return id
	}

	// 1) Variables.
	for i := 0; i < steps; i++ {
		pr.x[i] = make([]int, len(net.Edges))
		for e := range net.Edges {
			pr.x[i][e] = addVar(net.Edges[e].Cost, net.Edges[e].Capacity, false)
		}
	}
	for i := 1; i < steps; i++ {
		pr.y[i] = make([]int, len(net.Nodes))
		for v := range net.Nodes {
			pr.y[i][v] = addVar(1, 1, false)
		}
	}
	for i := 1; i < steps; i++ {
		matching := net.EdgesByLabel(trace[i-1])
		pr.syncEdges[i] = matching
		pr.z[i] = make(map[int]int, len(matching))
		for _, e := range matching {
			c := 0.0
			if edgeCost := net.Edges[e].Cost; edgeCost > 1 {
				c = 1 - edgeCost
			}
			pr.z[i][e] = addVar(c, net.Edges[e].Capacity, false)
		}
	}
	for v := range net.Nodes {
		for _, grp := range net.Nodes[v].Shuffle {
			pr.groups = append(pr.groups, shuffleGroup{iac: net.Nodes[v].IAC, edges: grp})
		}
	}
	pr.s = make([][]int, steps)
	for i := 0; i < steps; i++ {
		pr.s[i] = make([]int, len(pr.groups))
		for g := range pr.groups {
			pr.s[i][g] = addVar(0, 1, true)
		}
	}

	nvars := len(cost)

	// 2) Flow conservation.
	type row struct {
		coeff map[int]float64
		rhs   float64
	}
	var eq []row
	for i := 0; i < steps; i++ {
		for v := range net.Nodes {
			r := make(map[int]float64)
			for _, e := range net.In(v) {
				r[pr.x[i][e]]++
			}
			for _, e := range net.Out(v) {
				r[pr.x[i][e]]--
			}
			if i > 0 {
				r[pr.y[i][v]]++
				for _, e := range net.In(v) {
					if zv, ok := pr.z[i][e]; ok {
						r[zv]++
					}
				}
			}
			if i < n {
				r[pr.y[i+1][v]]--
				for _, e := range net.Out(v) {
					if zv, ok := pr.z[i+1][e]; ok {
						r[zv]--
					}
				}
			}

			rhs := 0.0
			if i == 0 && net.Nodes[v].Source {
				rhs--
			}
			if i == n && net.Nodes[v].Sink {
				rhs++
			}

			if len(r) > 0 {
				eq = append(eq, row{coeff: r, rhs: rhs})
			}
		}
	}

	// 3) Shuffle consistency.
	for g := range pr.groups {
		for i := 0; i < steps; i++ {
			r := make(map[int]float64)
			for _, e := range pr.groups[g].edges {
				r[pr.x[i][e]]++
			}
			r[pr.s[i][g]] -= 1 / float64(pr.groups[g].iac)
			eq = append(eq, row{coeff: r})
		}
	}

	// 4) Duplicate-label inequalities: among same-labeled matching edges,
	// at most one cost-weighted sync move per step.
	var ineq []row
	for i := 1; i < steps; i++ {
		if len(pr.syncEdges[i]) < 2 {
			continue
		}
		r := make(map[int]float64)
		for _, e := range pr.syncEdges[i] {
			r[pr.z[i][e]] = net.Edges[e].Cost
		}
		ineq = append(ineq, row{coeff: r, rhs: 1})
	}

	pr.problem = &milp.Problem{
		Cost:    cost,
		Lower:   lower,
		Upper:   upper,
		Integer: integer,
	}
	if len(eq) > 0 {
		a := mat.NewDense(len(eq), nvars, nil)
		b := make([]float64, len(eq))
		for ri, r := range eq {
			for j, c := range r.coeff {
				a.Set(ri, j, c)
			}
			b[ri] = r.rhs
		}
		pr.problem.AEq, pr.problem.BEq = a, b
	}
	if len(ineq) > 0 {
		a := mat.NewDense(len(ineq), nvars, nil)
		b := make([]float64, len(ineq))
		for ri, r := range ineq {
			for j, c := range r.coeff {
				a.Set(ri, j, c)
			}
			b[ri] = r.rhs
		}
		pr.problem.AUb, pr.problem.BUb = a, b
	}

	return pr
}

// decode turns a solved variable vector into the ordered move list.
// Per step, in strict priority: synchronous move, log move, model-only
// moves (one per distinct active label), degenerate log-move fallback.
// The fallback guarantees exactly n decode iterations even on noisy
// solver output.
//
// An empty trace has no decode steps; forced model flow at step 0 is
// reported as model moves in edge-construction order instead.
func (pr *program) decode(x []float64, tol float64) []Move {
	n := len(pr.trace)
	if n == 0 {
		var moves []Move
		for _, label := range pr.activeLabels(0, x, tol) {
			moves = append(moves, Move{Log: Skip, Model: label})
		}

		return moves
	}

	var moves []Move
	for i := 1; i <= n; i++ {
		activity := pr.trace[i-1]

		if pr.syncActive(i, x, tol) {
			moves = append(moves, Move{Log: activity, Model: activity})

			continue
		}

		if pr.logActive(i, x, tol) {
			moves = append(moves, Move{Log: activity, Model: Skip})

			continue
		}

		if labels := pr.activeLabels(i, x, tol); len(labels) > 0 {
			for _, label := range labels {
				moves = append(moves, Move{Log: Skip, Model: label})
			}

			continue
		}

		// No active variable at all: fall back to a log move so the
		// loop always terminates after n iterations.
		moves = append(moves, Move{Log: activity, Model: Skip})
	}

	return moves
}

// syncActive reports whether any matching-edge sync variable of step i is
// active in the solution.
func (pr *program) syncActive(i int, x []float64, tol float64) bool {
	for _, e := range pr.syncEdges[i] {
		if x[pr.z[i][e]] > tol {
			return true
		}
	}

	return false
}

// logActive reports whether any log-move variable of step i is active.
func (pr *program) logActive(i int, x []float64, tol float64) bool {
	for v := range pr.net.Nodes {
		if x[pr.y[i][v]] > tol {
			return true
		}
	}

	return false
}

// activeLabels returns the distinct labels of edges with active flow at
// step i, in edge-construction order.
func (pr *program) activeLabels(i int, x []float64, tol float64) []string {
	var labels []string
	for e := range pr.net.Edges {
		label := pr.net.Edges[e].Label
		if label == "" || x[pr.x[i][e]] <= tol {
			continue
		}
		seen := false
		for _, l := range labels {
			if l == label {
				seen = true

				break
			}
		}
		if !seen {
			labels = append(labels, label)
		}
	}

	return labels
}
