package tableau

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"q.log/milp/model"
)

// column maps one standard-form structural column back to an original
// variable: the variable's value receives sign * (column value).
type column struct {
	variable int
	sign     float64
}

// row is an intermediate constraint over the structural columns, before
// slack/artificial columns are attached.
type row struct {
	coeffs []float64
	rel    model.Relation
	rhs    float64
}

// StandardForm is the translation of a Model into the equality system
// A x = b, x >= 0 the simplex method operates on. The translation substitutes
// away general bounds: a variable with finite lower bound l becomes l + y,
// one bounded only above by u becomes u - y, and a free variable is split
// into y+ - y-. Finite upper bounds turn into explicit rows.
type StandardForm struct {
	// T is nil when the translation produced no constraint rows at all; the
	// caller decides such problems directly from Cost.
	T *Tableau

	// Cost is the phase-2 cost over all columns, always in minimize sense.
	Cost []float64

	// NumArtificial counts artificial columns; they occupy the highest column
	// indices together with the slacks.
	NumArtificial int

	artificial []bool
	structural []column
	offsets    []float64
	origCost   []float64
	maximize   bool
	numVars    int
}

// Build translates a Model with an objective into standard form with an
// initial basis of slack and artificial columns.
func Build(p *model.Problem, tol float64) (*StandardForm, error) {
	numVars := p.NumVariables()

	sf := &StandardForm{
		offsets:  make([]float64, numVars),
		origCost: make([]float64, numVars),
		numVars:  numVars,
	}
	if obj := p.Objective(); obj != nil {
		sf.maximize = obj.Kind == model.Maximize
		for j, c := range obj.Coeffs {
			sf.origCost[j] = c
		}
	}

	// One or two structural columns per variable, plus a bound row for every
	// finite upper bound that survives the substitution.
	var boundRows []row
	colsOf := make([][]int, numVars)
	for j, v := range p.Variables() {
		switch {
		case !math.IsInf(v.Lower, -1):
			sf.offsets[j] = v.Lower
			colsOf[j] = []int{sf.addColumn(j, 1)}
			if !math.IsInf(v.Upper, 1) {
				boundRows = append(boundRows, row{
					coeffs: unitCoeffs(colsOf[j][0]),
					rel:    model.LessEq,
					rhs:    v.Upper - v.Lower,
				})
			}
		case !math.IsInf(v.Upper, 1):
			sf.offsets[j] = v.Upper
			colsOf[j] = []int{sf.addColumn(j, -1)}
		default:
			colsOf[j] = []int{sf.addColumn(j, 1), sf.addColumn(j, -1)}
		}
	}
	nStruct := len(sf.structural)

	rows := make([]row, 0, p.NumConstraints()+len(boundRows))
	for _, c := range p.Constraints() {
		r := row{coeffs: make([]float64, nStruct), rel: c.Rel, rhs: c.RHS}
		for j, a := range c.Coeffs {
			r.rhs -= a * sf.offsets[j]
			for _, k := range colsOf[j] {
				r.coeffs[k] += a * sf.structural[k].sign
			}
		}
		rows = append(rows, r)
	}
	for _, r := range boundRows {
		if len(r.coeffs) < nStruct {
			padded := make([]float64, nStruct)
			copy(padded, r.coeffs)
			r.coeffs = padded
		}
		rows = append(rows, r)
	}

	// Normalize to non-negative right-hand sides.
	for i := range rows {
		if rows[i].rhs < 0 {
			rows[i].rhs = -rows[i].rhs
			for k := range rows[i].coeffs {
				rows[i].coeffs[k] = -rows[i].coeffs[k]
			}
			switch rows[i].rel {
			case model.LessEq:
				rows[i].rel = model.GreaterEq
			case model.GreaterEq:
				rows[i].rel = model.LessEq
			}
		}
	}

	// Attach one slack/surplus per inequality row and an artificial column
	// wherever the natural slack cannot supply a feasible start.
	m := len(rows)
	nSlack, nArt := 0, 0
	for _, r := range rows {
		if r.rel != model.Equal {
			nSlack++
		}
		if r.rel != model.LessEq {
			nArt++
		}
	}
	nCols := nStruct + nSlack + nArt

	sf.Cost = make([]float64, nCols)
	sf.artificial = make([]bool, nCols)
	for k, c := range sf.structural {
		cost := sf.origCost[c.variable] * c.sign
		if sf.maximize {
			cost = -cost
		}
		sf.Cost[k] = cost
	}
	sf.NumArtificial = nArt

	if m == 0 {
		return sf, nil
	}

	a := mat.NewDense(m, nCols, nil)
	b := make([]float64, m)
	basis := make([]int, m)
	slackCol := nStruct
	artCol := nStruct + nSlack
	for i, r := range rows {
		a.SetRow(i, append(r.coeffs, make([]float64, nCols-nStruct)...))
		b[i] = r.rhs
		switch r.rel {
		case model.LessEq:
			a.Set(i, slackCol, 1)
			basis[i] = slackCol
			slackCol++
		case model.GreaterEq:
			a.Set(i, slackCol, -1)
			slackCol++
			a.Set(i, artCol, 1)
			sf.artificial[artCol] = true
			basis[i] = artCol
			artCol++
		case model.Equal:
			a.Set(i, artCol, 1)
			sf.artificial[artCol] = true
			basis[i] = artCol
			artCol++
		}
	}

	t, err := New(a, b, basis, tol)
	if err != nil {
		return nil, err
	}
	sf.T = t
	return sf, nil
}

func (sf *StandardForm) addColumn(variable int, sign float64) int {
	sf.structural = append(sf.structural, column{variable: variable, sign: sign})
	return len(sf.structural) - 1
}

func unitCoeffs(col int) []float64 {
	c := make([]float64, col+1)
	c[col] = 1
	return c
}

// Phase1Cost returns the artificial-minimization cost vector: one for every
// artificial column, zero elsewhere.
func (sf *StandardForm) Phase1Cost() []float64 {
	c := make([]float64, len(sf.Cost))
	for j, art := range sf.artificial {
		if art {
			c[j] = 1
		}
	}
	return c
}

// IsArtificial reports whether the column is an artificial variable.
func (sf *StandardForm) IsArtificial(col int) bool { return sf.artificial[col] }

// Values maps standard-form column values back to original variable values,
// undoing the bound substitutions.
func (sf *StandardForm) Values(colVals []float64) []float64 {
	x := make([]float64, sf.numVars)
	copy(x, sf.offsets)
	for k, c := range sf.structural {
		x[c.variable] += c.sign * colVals[k]
	}
	return x
}

// OriginalObjective evaluates the Model's objective, in its original
// direction, at the given original variable values.
func (sf *StandardForm) OriginalObjective(x []float64) float64 {
	var z float64
	for j, c := range sf.origCost {
		z += c * x[j]
	}
	return z
}
