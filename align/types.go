package align

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/katalvlaran/lvalign/flownet"
	"github.com/katalvlaran/lvalign/milp"
	"github.com/katalvlaran/lvalign/processtree"
)

// Skip marks the absent side of a move: a log move carries Skip on the
// model side, a model move carries Skip on the log side.
const Skip = ">>"

// Move is one alignment step. A synchronous move has Log == Model; a log
// move has Model == Skip; a model move has Log == Skip.
type Move struct {
	Log   string
	Model string
}

// Alignment is the per-trace batch result: the optimal cost, the move
// sequence realizing it, and the normalized fitness in [0,1].
type Alignment struct {
	Cost    float64
	Moves   []Move
	Fitness float64
}

// ErrOptimization wraps a solver failure for one trace. Infeasibility
// cannot occur for a correctly compiled network (log moves explain every
// event, model moves every edge), so this surfaces compiler bugs or
// numerical solver failures; it is fatal per trace and never retried here.
var ErrOptimization = errors.New("align: optimization failed")

// SolveFunc solves one mixed-integer program. The default delegates to
// milp.Solve; tests substitute a counting or failing implementation.
type SolveFunc func(*milp.Problem) (*milp.Solution, error)

// Options configures an Aligner.
//
//   - Ctx:       cancels batch work between variants (default Background).
//   - CacheSize: bound of the per-engine variant cache (default 128).
//   - Workers:   bound of the AlignAll worker pool (default NumCPU).
//   - DecodeTol: activity threshold when reading solver variables
//     (default 1e-5).
//   - Verbose:   log one line per variant completed by AlignAll.
//   - Solve:     MILP backend override; nil selects milp.Solve with MILP.
//   - MILP:      options for the default backend.
type Options struct {
	Ctx       context.Context
	CacheSize int
	Workers   int
	DecodeTol float64
	Verbose   bool
	Solve     SolveFunc
	MILP      milp.Options
}

// DefaultOptions returns production-safe defaults.
func DefaultOptions() Options {
	return Options{
		Ctx:       context.Background(),
		CacheSize: defaultCacheSize,
		Workers:   runtime.NumCPU(),
		DecodeTol: defaultDecodeTol,
		MILP:      milp.DefaultOptions(),
	}
}

const (
	defaultCacheSize = 128
	defaultDecodeTol = 1e-5
)

// normalize fills zero-valued options with their defaults.
func (o *Options) normalize() {
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
	if o.CacheSize <= 0 {
		o.CacheSize = defaultCacheSize
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.DecodeTol <= 0 {
		o.DecodeTol = defaultDecodeTol
	}
	if o.Solve == nil {
		milpOpts := o.MILP
		o.Solve = func(p *milp.Problem) (*milp.Solution, error) {
			return milp.Solve(p, milpOpts)
		}
	}
}

// cacheEntry is one memoized variant result.
type cacheEntry struct {
	cost  float64
	moves []Move
}

// Aligner computes minimum-cost alignments of traces against one process
// tree. The network is compiled once at construction and never mutated;
// an Aligner is safe for concurrent use.
type Aligner struct {
	net   *flownet.Network
	opts  Options
	cache *lru.Cache[string, cacheEntry]
}

// NewAligner compiles the tree and prepares the variant cache.
// Structural tree defects surface here as flownet sentinel errors, before
// any solver work.
func NewAligner(tree *processtree.Node, opts Options) (*Aligner, error) {
	opts.normalize()

	net, err := flownet.Compile(tree)
	if err != nil {
		return nil, err
	}

	cache, err := lru.New[string, cacheEntry](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("align: variant cache: %w", err)
	}

	return &Aligner{net: net, opts: opts, cache: cache}, nil
}

// Network exposes the compiled read-only network.
func (a *Aligner) Network() *flownet.Network {
	return a.net
}
