package align

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"
)

// keySep joins trace activities into the cache key. Content-based: two
// distinct slices with equal activities share one entry.
const keySep = "\x1f"

// Align computes the minimum-cost alignment of one trace against the
// model, returning the optimal cost and the ordered move list.
//
// Results are memoized per trace content in the engine's bounded LRU
// cache, so repeated variants invoke the solver at most once; a cache
// entry is written only after a fully successful solve. Align is safe
// for concurrent use.
//
// Steps:
//  1. Serve from the variant cache when possible (O(n) key build).
//  2. Build the time-expanded program (see program.go).
//  3. Solve via Options.Solve; failures surface as ErrOptimization
//     wrapping the backend error, never retried.
//  4. Decode the move list and round the cost to 13 decimals (shaving
//     solver float noise) before caching and returning.
//
// Complexity:
//
//	Time:   dominated by the MILP solve over O(n·(V+E)) variables.
//	Memory: O(rows · vars) for the program, released after the call.
func (a *Aligner) Align(trace []string) (float64, []Move, error) {
	key := strings.Join(trace, keySep)
	if entry, ok := a.cache.Get(key); ok {
		return entry.cost, cloneMoves(entry.moves), nil
	}

	pr := buildProgram(a.net, trace)
	sol, err := a.opts.Solve(pr.problem)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrOptimization, err)
	}

	moves := pr.decode(sol.X, a.opts.DecodeTol)
	cost := roundCost(sol.Objective)
	a.cache.Add(key, cacheEntry{cost: cost, moves: moves})

	return cost, cloneMoves(moves), nil
}

// AlignAll aligns a batch of traces and derives per-trace fitness.
//
// Traces sharing one activity sequence form a variant; each variant is
// solved at most once, on a worker pool bounded by Options.Workers, and
// the results are mapped back onto the input order (cases map to
// variants). The empty-trace cost is computed first and reused for every
// fitness value. Options.Ctx cancels outstanding variants between solves
// without corrupting the cache.
//
// fitness = 1 − cost/(emptyCost + len(trace)) when the denominator is
// positive, else 0.
func (a *Aligner) AlignAll(traces [][]string) ([]Alignment, error) {
	emptyCost, _, err := a.Align(nil)
	if err != nil {
		return nil, err
	}

	// Deduplicate variants, first-seen order.
	type variant struct {
		trace     []string
		positions []int
	}
	index := make(map[string]*variant, len(traces))
	var variants []*variant
	for pos, trace := range traces {
		key := strings.Join(trace, keySep)
		v, ok := index[key]
		if !ok {
			v = &variant{trace: trace}
			index[key] = v
			variants = append(variants, v)
		}
		v.positions = append(v.positions, pos)
	}

	results := make([]Alignment, len(traces))

	g, ctx := errgroup.WithContext(a.opts.Ctx)
	g.SetLimit(a.opts.Workers)
	for _, v := range variants {
		v := v
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			cost, moves, err := a.Align(v.trace)
			if err != nil {
				return err
			}

			fitness := 0.0
			if denom := emptyCost + float64(len(v.trace)); denom > 0 {
				fitness = 1 - cost/denom
			}
			// Variant positions are disjoint across goroutines, so the
			// writes below need no lock.
			for _, pos := range v.positions {
				results[pos] = Alignment{Cost: cost, Moves: moves, Fitness: fitness}
			}
			if a.opts.Verbose {
				fmt.Printf("align: variant [%s] cost %g\n", strings.Join(v.trace, " "), cost)
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// roundCost shaves floating-point noise off an objective value:
// round(cost + 1e-14, 13).
func roundCost(cost float64) float64 {
	return math.Round((cost+1e-14)*1e13) / 1e13
}

func cloneMoves(moves []Move) []Move {
	if moves == nil {
		return nil
	}
	out := make([]Move, len(moves))
	copy(out, moves)

	return out
}
