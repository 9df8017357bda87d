// Package instance loads LP/MIP problem files into a model.Problem. Parsing
// of the MPS format is delegated to GLPK; solving never is.
package instance

import (
	"fmt"
	"math"
	"runtime"

	"github.com/lukpank/go-glpk/glpk"

	"q.log/milp/model"
)

// Reader reads an MPS file to construct a problem
type Reader struct {
	filename string
}

func NewReader(filename string) *Reader {
	return &Reader{
		filename: filename,
	}
}

// ConstructProblemFromFile parses the MPS file and returns the problem with
// its variables, bounds, integrality flags, constraints and objective.
func (r *Reader) ConstructProblemFromFile() (*model.Problem, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	lp := glpk.New()
	defer lp.Delete()
	if err := lp.ReadMPS(glpk.MPS_FILE, nil, r.filename); err != nil {
		return nil, fmt.Errorf("instance: reading %s: %w", r.filename, err)
	}

	p := model.NewProblem()

	for c := 1; c <= lp.NumCols(); c++ {
		kind := model.Continuous
		switch lp.ColKind(c) {
		case glpk.IV:
			kind = model.Integer
		case glpk.BV:
			kind = model.Binary
		}
		if _, err := p.AddBoundedVariable(kind, fromGLPK(lp.ColLB(c)), fromGLPK(lp.ColUB(c))); err != nil {
			return nil, fmt.Errorf("instance: column %d: %w", c, err)
		}
	}

	for row := 1; row <= lp.NumRows(); row++ {
		coeffs := make(map[int]float64)
		idxs, vals := lp.MatRow(row)
		for i, v := range idxs {
			if v == 0 {
				continue
			}
			coeffs[int(v)-1] = vals[i]
		}

		lb := fromGLPK(lp.RowLB(row))
		ub := fromGLPK(lp.RowUB(row))
		switch {
		case math.IsInf(lb, -1) && math.IsInf(ub, 1):
			// free row, carries no restriction
		case math.IsInf(lb, -1):
			if err := p.AddConstraint(coeffs, model.LessEq, ub); err != nil {
				return nil, fmt.Errorf("instance: row %d: %w", row, err)
			}
		case math.IsInf(ub, 1):
			if err := p.AddConstraint(coeffs, model.GreaterEq, lb); err != nil {
				return nil, fmt.Errorf("instance: row %d: %w", row, err)
			}
		case lb == ub:
			if err := p.AddConstraint(coeffs, model.Equal, ub); err != nil {
				return nil, fmt.Errorf("instance: row %d: %w", row, err)
			}
		default:
			// double-bounded row becomes a pair of one-sided constraints
			if err := p.AddConstraint(coeffs, model.GreaterEq, lb); err != nil {
				return nil, fmt.Errorf("instance: row %d: %w", row, err)
			}
			if err := p.AddConstraint(coeffs, model.LessEq, ub); err != nil {
				return nil, fmt.Errorf("instance: row %d: %w", row, err)
			}
		}
	}

	obj := make(map[int]float64)
	for c := 1; c <= lp.NumCols(); c++ {
		if v := lp.ObjCoef(c); v != 0 {
			obj[c-1] = v
		}
	}
	kind := model.Minimize
	if lp.ObjDir() == glpk.MAX {
		kind = model.Maximize
	}
	if err := p.SetSparseObjective(obj, kind); err != nil {
		return nil, fmt.Errorf("instance: objective: %w", err)
	}

	return p, nil
}

// fromGLPK maps GLPK's DBL_MAX bound sentinels to IEEE infinities.
func fromGLPK(v float64) float64 {
	switch v {
	case -math.MaxFloat64:
		return math.Inf(-1)
	case math.MaxFloat64:
		return math.Inf(1)
	}
	return v
}
