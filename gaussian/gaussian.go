// Package gaussian solves square systems of linear equality constraints,
// the path taken for problems that carry no objective.
package gaussian

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"q.log/milp/logger"
	"q.log/milp/model"
)

var (
	ErrHasObjective   = errors.New("gaussian: problem must not have an objective")
	ErrNotSquare      = errors.New("gaussian: number of equality constraints must equal number of variables")
	ErrNonEquality    = errors.New("gaussian: only equality constraints are supported")
	ErrUnderspecified = errors.New("gaussian: constraint rows are linearly dependent")
)

// Solve treats the problem as the linear system A x = b and returns the
// unique solution. Variable bounds and integrality flags are ignored.
func Solve(p *model.Problem) ([]float64, error) {
	if p.Objective() != nil {
		return nil, ErrHasObjective
	}
	n := p.NumVariables()
	if p.NumConstraints() != n {
		return nil, fmt.Errorf("%w: %d constraints, %d variables", ErrNotSquare, p.NumConstraints(), n)
	}
	if n == 0 {
		return nil, nil
	}

	a := mat.NewDense(n, n, nil)
	b := mat.NewVecDense(n, nil)
	for i, c := range p.Constraints() {
		if c.Rel != model.Equal {
			return nil, ErrNonEquality
		}
		for j, v := range c.Coeffs {
			a.Set(i, j, v)
		}
		b.SetVec(i, c.RHS)
	}

	log := logger.Logger()
	log.Debug().Int("size", n).Msg("solving square equality system")

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnderspecified, err)
	}

	out := make([]float64, n)
	copy(out, x.RawVector().Data)
	return out, nil
}
