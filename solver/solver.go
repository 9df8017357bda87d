// Package solver is the entry point of the optimization engine. It dispatches
// a Problem to the matching method: gaussian elimination for pure equality
// systems without an objective, two-phase simplex for continuous problems,
// and branch-and-bound on top of simplex when integrality restrictions are
// present.
package solver

import (
	"errors"
	"math"

	"q.log/milp/gaussian"
	"q.log/milp/model"
	"q.log/milp/simplex"
)

var (
	// ErrNodeLimit means branch-and-bound ran out of its node budget before
	// proving optimality. Solve still returns the best incumbent found, if
	// any, carrying StatusNodeLimit.
	ErrNodeLimit = errors.New("solver: node limit exceeded")

	// ErrNoObjective means an integer problem was posed without an objective.
	ErrNoObjective = errors.New("solver: integer problems must specify an objective")

	// Re-exported LP outcomes, so callers match on one package.
	ErrInfeasible     = simplex.ErrInfeasible
	ErrUnbounded      = simplex.ErrUnbounded
	ErrIterationLimit = simplex.ErrIterationLimit
)

const (
	DefaultTolerance      = simplex.DefaultTolerance
	DefaultIterationLimit = simplex.DefaultMaxIterations
	DefaultNodeLimit      = 100_000
)

// Config carries the cross-cutting numeric and budget settings. Zero values
// are replaced by the package defaults.
type Config struct {
	// Tolerance is the absolute tolerance for all comparisons against zero,
	// shared by every component: reduced costs, ratios, bound violations and
	// integrality checks.
	Tolerance float64
	// IterationLimit caps simplex pivots per relaxation solve.
	IterationLimit int
	// NodeLimit caps the number of branch-and-bound nodes explored.
	NodeLimit int
}

func (c Config) withDefaults() Config {
	if c.Tolerance == 0 {
		c.Tolerance = DefaultTolerance
	}
	if c.IterationLimit == 0 {
		c.IterationLimit = DefaultIterationLimit
	}
	if c.NodeLimit == 0 {
		c.NodeLimit = DefaultNodeLimit
	}
	return c
}

func (c Config) simplexOptions() simplex.Options {
	return simplex.Options{Tolerance: c.Tolerance, MaxIterations: c.IterationLimit}
}

// Solve is the sole entry point of the engine. The Problem must be fully
// validated by its loader; Solve never mutates it. Solve outcomes always
// carry a Solution record: infeasible, unbounded and limit results return one
// holding the matching status (plus the best incumbent on ErrNodeLimit, if
// any) alongside the sentinel error. Only contract violations, such as an
// integer problem without an objective, return a nil Solution.
func Solve(p *model.Problem, cfg Config) (*model.Solution, error) {
	cfg = cfg.withDefaults()

	if p.Objective() == nil {
		if p.HasIntegerVariables() {
			return nil, ErrNoObjective
		}
		values, err := gaussian.Solve(p)
		if err != nil {
			return nil, err
		}
		return &model.Solution{Status: model.StatusOptimal, Values: values}, nil
	}

	if !p.HasIntegerVariables() {
		res, err := simplex.Solve(p, cfg.simplexOptions())
		if err != nil {
			return failure(err), err
		}
		return report(model.StatusOptimal, p, res.Values, res.Objective, cfg.Tolerance), nil
	}

	return branchAndBound(p, cfg)
}

// failure maps a solve error to a Solution record carrying the matching
// status and no assignment. Errors outside the solve taxonomy map to nil.
func failure(err error) *model.Solution {
	switch {
	case errors.Is(err, ErrInfeasible):
		return &model.Solution{Status: model.StatusInfeasible}
	case errors.Is(err, ErrUnbounded):
		return &model.Solution{Status: model.StatusUnbounded}
	case errors.Is(err, ErrIterationLimit):
		return &model.Solution{Status: model.StatusIterationLimit}
	case errors.Is(err, ErrNodeLimit):
		return &model.Solution{Status: model.StatusNodeLimit}
	}
	return nil
}

// report assembles the immutable Solution record. Values of integer variables
// are snapped to the nearest integer; they already pass the integrality check
// within tolerance when this is called.
func report(status model.Status, p *model.Problem, values []float64, objective float64, tol float64) *model.Solution {
	out := make([]float64, len(values))
	copy(out, values)
	for _, v := range p.Variables() {
		if v.IsInteger() && math.Abs(out[v.Index]-math.Round(out[v.Index])) <= tol {
			out[v.Index] = math.Round(out[v.Index])
		}
	}
	return &model.Solution{
		Status:       status,
		Objective:    objective,
		HasObjective: true,
		Values:       out,
	}
}
