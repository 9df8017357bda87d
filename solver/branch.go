package solver

import (
	"errors"
	"math"

	"q.log/milp/logger"
	"q.log/milp/model"
	"q.log/milp/simplex"
)

// nodeStatus tracks a search node through its lifecycle.
type nodeStatus uint8

const (
	nodeUnexplored nodeStatus = iota
	nodeIntegral
	nodeBranched
	nodeInfeasible
	nodePruned
)

// node is one subproblem of the search: the root problem plus the bound
// tightenings inherited from its ancestor chain and one new bound of its own.
// Nodes live in a flat arena and refer to each other by index only.
type node struct {
	parent    int
	branchVar int
	lower     float64
	upper     float64
	status    nodeStatus
}

const noParent = -1

type tree struct {
	nodes []node
}

func (t *tree) add(parent, branchVar int, lower, upper float64) int {
	t.nodes = append(t.nodes, node{
		parent:    parent,
		branchVar: branchVar,
		lower:     lower,
		upper:     upper,
	})
	return len(t.nodes) - 1
}

// problem materializes the subproblem of a node by applying every bound on
// the path back to the root. Tightened intersects bounds, so the order of
// application does not matter.
func (t *tree) problem(root *model.Problem, idx int) *model.Problem {
	p := root
	for i := idx; i != noParent; i = t.nodes[i].parent {
		n := t.nodes[i]
		p = p.Tightened(n.branchVar, n.lower, n.upper)
	}
	return p
}

// branchAndBound resolves integrality by depth-first search over LP
// relaxations with tightened bounds. The incumbent is threaded through the
// loop explicitly; there is no shared mutable state beyond the arena.
func branchAndBound(p *model.Problem, cfg Config) (*model.Solution, error) {
	log := logger.Logger()
	opts := cfg.simplexOptions()
	maximize := p.Objective().Kind == model.Maximize

	// improves reports strict improvement over the incumbent objective.
	improves := func(z, incumbent float64) bool {
		if maximize {
			return z > incumbent
		}
		return z < incumbent
	}
	// worthExploring reports whether a relaxation bound can still beat the
	// incumbent; anything within tolerance of it cannot.
	worthExploring := func(z, incumbent float64) bool {
		if maximize {
			return z > incumbent+cfg.Tolerance
		}
		return z < incumbent-cfg.Tolerance
	}

	root, err := simplex.Solve(p, opts)
	if err != nil {
		// Infeasible or unbounded root relaxations settle the whole problem;
		// an iteration limit is reported as-is, never as a wrong answer.
		return failure(err), err
	}

	arena := &tree{}
	var frontier []int

	var incumbent *simplex.Result
	explored := 1

	branch := func(parent int, res *simplex.Result) {
		j := fractionalVariable(p, res.Values, cfg.Tolerance)
		v := res.Values[j]
		// Push the ceil child first so the floor child is explored first.
		frontier = append(frontier,
			arena.add(parent, j, math.Ceil(v), math.Inf(1)),
			arena.add(parent, j, math.Inf(-1), math.Floor(v)),
		)
		log.Debug().Int("variable", j).Float64("value", v).Msg("branching")
	}

	if integral(p, root.Values, cfg.Tolerance) {
		return report(model.StatusOptimal, p, root.Values, root.Objective, cfg.Tolerance), nil
	}
	branch(noParent, root)

	for len(frontier) > 0 {
		if explored >= cfg.NodeLimit {
			log.Debug().Int("explored", explored).Msg("node limit exceeded")
			if incumbent == nil {
				return failure(ErrNodeLimit), ErrNodeLimit
			}
			return report(model.StatusNodeLimit, p, incumbent.Values, incumbent.Objective, cfg.Tolerance), ErrNodeLimit
		}

		idx := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		explored++

		res, err := simplex.Solve(arena.problem(p, idx), opts)
		switch {
		case errors.Is(err, simplex.ErrInfeasible):
			arena.nodes[idx].status = nodeInfeasible
			continue
		case err != nil:
			// Tightening bounds cannot make a bounded relaxation unbounded,
			// so anything else here is a genuine failure.
			return failure(err), err
		}

		if incumbent != nil && !worthExploring(res.Objective, incumbent.Objective) {
			arena.nodes[idx].status = nodePruned
			continue
		}

		if integral(p, res.Values, cfg.Tolerance) {
			arena.nodes[idx].status = nodeIntegral
			if incumbent == nil || improves(res.Objective, incumbent.Objective) {
				incumbent = res
				log.Debug().Float64("objective", res.Objective).Msg("new incumbent")
			}
			continue
		}

		arena.nodes[idx].status = nodeBranched
		branch(idx, res)
	}

	if incumbent == nil {
		// The root relaxation was feasible but no integer assignment exists.
		return failure(ErrInfeasible), ErrInfeasible
	}
	log.Debug().Int("explored", explored).Float64("objective", incumbent.Objective).Msg("branch and bound optimal")
	return report(model.StatusOptimal, p, incumbent.Values, incumbent.Objective, cfg.Tolerance), nil
}

// integral reports whether every integer-restricted variable holds an integer
// value within tolerance.
func integral(p *model.Problem, values []float64, tol float64) bool {
	for _, v := range p.Variables() {
		if !v.IsInteger() {
			continue
		}
		x := values[v.Index]
		if math.Abs(x-math.Round(x)) > tol {
			return false
		}
	}
	return true
}

// fractionalVariable selects the branching variable: the integer-restricted
// variable whose value is closest to a half-integer, lowest index on ties.
func fractionalVariable(p *model.Problem, values []float64, tol float64) int {
	best := -1
	bestScore := math.Inf(1)
	for _, v := range p.Variables() {
		if !v.IsInteger() {
			continue
		}
		x := values[v.Index]
		if math.Abs(x-math.Round(x)) <= tol {
			continue
		}
		score := math.Abs(x - math.Floor(x) - 0.5)
		if score < bestScore {
			bestScore = score
			best = v.Index
		}
	}
	return best
}
