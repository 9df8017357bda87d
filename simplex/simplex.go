// Package simplex solves linear programs by the two-phase simplex method on
// a dense tableau: phase 1 minimizes the sum of artificial variables to find
// a feasible basis, phase 2 minimizes the true objective.
package simplex

import (
	"errors"
	"math"

	"q.log/milp/logger"
	"q.log/milp/model"
	"q.log/milp/tableau"
)

var (
	ErrInfeasible     = errors.New("simplex: problem is infeasible")
	ErrUnbounded      = errors.New("simplex: problem is unbounded")
	ErrIterationLimit = errors.New("simplex: iteration limit exceeded")
	ErrNoObjective    = errors.New("simplex: problem has no objective")
)

const (
	DefaultTolerance     = 1e-9
	DefaultMaxIterations = 1_000_000
)

// Options configures a single LP solve. Zero values are replaced by the
// package defaults.
type Options struct {
	// Tolerance is the absolute tolerance used for every comparison against
	// zero: reduced costs, ratio-test entries and feasibility checks.
	Tolerance float64
	// MaxIterations caps the total pivot count across both phases.
	MaxIterations int
}

func (o Options) withDefaults() Options {
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	return o
}

// Result is the outcome of a successful solve: variable values in the
// original Model space and the objective in its original direction.
type Result struct {
	Values     []float64
	Objective  float64
	Iterations int
}

// Solve optimizes the Model's linear relaxation, ignoring integrality flags.
func Solve(p *model.Problem, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if p.Objective() == nil {
		return nil, ErrNoObjective
	}
	for _, v := range p.Variables() {
		if v.Lower > v.Upper+opts.Tolerance {
			return nil, ErrInfeasible
		}
	}

	log := logger.Logger()

	sf, err := tableau.Build(p, opts.Tolerance)
	if err != nil {
		return nil, err
	}

	// No constraint rows survived the translation: every standard-form
	// variable is free to grow from zero, so any negative cost is a
	// direction of unbounded improvement.
	if sf.T == nil {
		for _, c := range sf.Cost {
			if c < -opts.Tolerance {
				return nil, ErrUnbounded
			}
		}
		values := sf.Values(make([]float64, len(sf.Cost)))
		return &Result{Values: values, Objective: sf.OriginalObjective(values)}, nil
	}

	t := sf.T
	iterations := 0

	if sf.NumArtificial > 0 {
		phase1 := sf.Phase1Cost()
		log.Debug().Int("rows", t.NumRows()).Int("cols", t.NumCols()).Msg("simplex phase 1")
		n, err := iterate(t, phase1, sf, opts, opts.MaxIterations)
		iterations += n
		if err != nil {
			if errors.Is(err, ErrUnbounded) {
				// The phase-1 objective is bounded below by zero; an
				// unbounded ray here means the row system is inconsistent.
				return nil, ErrInfeasible
			}
			return nil, err
		}
		if residual := t.Objective(phase1); residual > opts.Tolerance {
			log.Debug().Float64("residual", residual).Msg("phase 1 residual positive")
			return nil, ErrInfeasible
		}
		driveOutArtificials(t, sf, opts.Tolerance)
	}

	log.Debug().Int("iterations", iterations).Msg("simplex phase 2")
	n, err := iterate(t, sf.Cost, sf, opts, opts.MaxIterations-iterations)
	iterations += n
	if err != nil {
		return nil, err
	}

	values := sf.Values(t.Solution())
	res := &Result{
		Values:     values,
		Objective:  sf.OriginalObjective(values),
		Iterations: iterations,
	}
	log.Debug().Int("iterations", iterations).Float64("objective", res.Objective).Msg("simplex optimal")
	return res, nil
}

// iterate runs simplex pivots under the given cost vector until optimality,
// unboundedness or the iteration budget. Entering variables follow Dantzig's
// rule (most negative reduced cost, lowest column index on ties); leaving
// rows follow the minimum-ratio test with lowest row index on ties.
// Artificial columns never enter.
func iterate(t *tableau.Tableau, cost []float64, sf *tableau.StandardForm, opts Options, budget int) (int, error) {
	rc := make([]float64, t.NumCols())
	for iter := 0; ; iter++ {
		rc = t.ReducedCosts(cost, rc)
		entering := -1
		best := -opts.Tolerance
		for j := 0; j < t.NumCols(); j++ {
			if t.IsBasic(j) || sf.IsArtificial(j) {
				continue
			}
			if rc[j] < best {
				best = rc[j]
				entering = j
			}
		}
		if entering == -1 {
			return iter, nil
		}
		if iter >= budget {
			return iter, ErrIterationLimit
		}

		if err := pivotOnBestRatio(t, entering, opts.Tolerance); err != nil {
			return iter, err
		}
	}
}

// pivotOnBestRatio applies the minimum-ratio test for the entering column and
// performs the pivot. A near-zero pivot element reported by the tableau is
// recovered by falling through to the next-best leaving row.
func pivotOnBestRatio(t *tableau.Tableau, entering int, tol float64) error {
	type candidate struct {
		row   int
		ratio float64
	}
	var cands []candidate
	for i := 0; i < t.NumRows(); i++ {
		d := t.At(i, entering)
		if d <= tol {
			continue
		}
		cands = append(cands, candidate{row: i, ratio: t.RHS(i) / d})
	}
	if len(cands) == 0 {
		return ErrUnbounded
	}

	// Stable selection order: ascending ratio, lowest row index on ties.
	for len(cands) > 0 {
		best := 0
		for k := 1; k < len(cands); k++ {
			if cands[k].ratio < cands[best].ratio-tol {
				best = k
			}
		}
		err := t.Pivot(entering, cands[best].row)
		if err == nil {
			return nil
		}
		if !errors.Is(err, tableau.ErrDegeneratePivot) {
			return err
		}
		cands = append(cands[:best], cands[best+1:]...)
	}
	return tableau.ErrDegeneratePivot
}

// driveOutArtificials pivots artificial variables that remain basic at zero
// out of the basis after phase 1. Rows where no structural column can take
// over are redundant and keep their artificial at zero; phase 2 never lets
// artificials re-enter, so they stay harmless.
func driveOutArtificials(t *tableau.Tableau, sf *tableau.StandardForm, tol float64) {
	for i, bj := range t.Basis() {
		if !sf.IsArtificial(bj) {
			continue
		}
		for j := 0; j < t.NumCols(); j++ {
			if sf.IsArtificial(j) || t.IsBasic(j) {
				continue
			}
			if math.Abs(t.At(i, j)) > tol {
				if err := t.Pivot(j, i); err == nil {
					break
				}
			}
		}
	}
}
