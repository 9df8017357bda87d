// Package tableau maintains the simplex working state for one LP in standard
// form: the current constraint matrix, right-hand side and basis, kept in
// canonical form across pivots.
package tableau

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDegeneratePivot is returned by Pivot when the pivot element's magnitude
// is below the numeric tolerance. The caller recovers by choosing a different
// leaving row; the error never escapes the simplex driver.
var ErrDegeneratePivot = errors.New("tableau: pivot element below tolerance")

// Tableau is a dense simplex tableau. Rows are constraints, columns are all
// structural plus slack/artificial variables. The basis names the basic
// variable occupying each row; after every pivot each basic column is a unit
// vector within the row system.
type Tableau struct {
	a     *mat.Dense
	b     []float64
	basis []int
	inBasis []bool
	rows  int
	cols  int
	tol   float64
}

// New builds a tableau from a standard-form system A x = b with the given
// initial basis. The caller must supply a basis whose columns already form an
// identity within A (slack and artificial columns do).
func New(a *mat.Dense, b []float64, basis []int, tol float64) (*Tableau, error) {
	rows, cols := a.Dims()
	if len(b) != rows {
		return nil, fmt.Errorf("tableau: rhs length %d does not match %d rows", len(b), rows)
	}
	if len(basis) != rows {
		return nil, fmt.Errorf("tableau: basis length %d does not match %d rows", len(basis), rows)
	}
	inBasis := make([]bool, cols)
	for _, j := range basis {
		if j < 0 || j >= cols {
			return nil, fmt.Errorf("tableau: basis column %d out of range", j)
		}
		inBasis[j] = true
	}
	return &Tableau{
		a:       a,
		b:       b,
		basis:   basis,
		inBasis: inBasis,
		rows:    rows,
		cols:    cols,
		tol:     tol,
	}, nil
}

func (t *Tableau) NumRows() int { return t.rows }
func (t *Tableau) NumCols() int { return t.cols }

// At returns the current coefficient at (row, col).
func (t *Tableau) At(row, col int) float64 { return t.a.At(row, col) }

// RHS returns the current right-hand side of the given row, which is also the
// value of the basic variable occupying it.
func (t *Tableau) RHS(row int) float64 { return t.b[row] }

// Basis returns the column occupying each row. The slice is owned by the
// tableau and must not be modified.
func (t *Tableau) Basis() []int { return t.basis }

// IsBasic reports whether the column is currently in the basis.
func (t *Tableau) IsBasic(col int) bool { return t.inBasis[col] }

// Pivot exchanges the basic variable of leavingRow for enteringCol: the
// leaving row is scaled so the entering column becomes one there, then the
// entering column is eliminated from every other row.
func (t *Tableau) Pivot(enteringCol, leavingRow int) error {
	pivot := t.a.At(leavingRow, enteringCol)
	if math.Abs(pivot) < t.tol {
		return ErrDegeneratePivot
	}

	pr := t.a.RawRowView(leavingRow)
	inv := 1 / pivot
	for j := range pr {
		pr[j] *= inv
	}
	pr[enteringCol] = 1
	t.b[leavingRow] *= inv

	for i := 0; i < t.rows; i++ {
		if i == leavingRow {
			continue
		}
		factor := t.a.At(i, enteringCol)
		if factor == 0 {
			continue
		}
		row := t.a.RawRowView(i)
		for j := range row {
			row[j] -= factor * pr[j]
		}
		row[enteringCol] = 0
		t.b[i] -= factor * t.b[leavingRow]
	}

	t.inBasis[t.basis[leavingRow]] = false
	t.basis[leavingRow] = enteringCol
	t.inBasis[enteringCol] = true
	return nil
}

// ReducedCosts computes, for every column, the reduced cost under the present
// basis and the given cost vector: c_j - c_B . A_j. Basic columns come out as
// zero up to rounding. dst is reused when it has the right length.
func (t *Tableau) ReducedCosts(cost []float64, dst []float64) []float64 {
	if len(cost) != t.cols {
		panic("tableau: cost vector length mismatch")
	}
	if len(dst) != t.cols {
		dst = make([]float64, t.cols)
	}
	copy(dst, cost)
	for i, bj := range t.basis {
		cb := cost[bj]
		if cb == 0 {
			continue
		}
		row := t.a.RawRowView(i)
		for j := range dst {
			dst[j] -= cb * row[j]
		}
	}
	return dst
}

// Solution returns the value of every column: basic variables take their
// right-hand side entry, non-basic variables are zero.
func (t *Tableau) Solution() []float64 {
	x := make([]float64, t.cols)
	for i, j := range t.basis {
		x[j] = t.b[i]
	}
	return x
}

// Objective returns the current objective value c . x under the given cost
// vector.
func (t *Tableau) Objective(cost []float64) float64 {
	var z float64
	for i, j := range t.basis {
		z += cost[j] * t.b[i]
	}
	return z
}
