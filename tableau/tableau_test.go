package tableau

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/mat"
)

const (
	delta = 1e-9
	tol   = 1e-9
)

func newTestTableau(t *testing.T) *Tableau {
	t.Helper()
	a := mat.NewDense(2, 4, []float64{
		2, 1, 1, 0,
		1, 3, 0, 1,
	})
	tab, err := New(a, []float64{4, 6}, []int{2, 3}, tol)
	require.NoError(t, err)
	return tab
}

func TestNewValidatesShapes(t *testing.T) {
	a := mat.NewDense(2, 4, nil)

	_, err := New(a, []float64{1}, []int{2, 3}, tol)
	assert.Error(t, err)

	_, err = New(a, []float64{1, 2}, []int{2}, tol)
	assert.Error(t, err)

	_, err = New(a, []float64{1, 2}, []int{2, 7}, tol)
	assert.Error(t, err)
}

func TestPivotCanonicalForm(t *testing.T) {
	tab := newTestTableau(t)

	require.NoError(t, tab.Pivot(0, 0))

	// The entering column must be a unit vector at the leaving row.
	assert.InDelta(t, 1, tab.At(0, 0), delta)
	assert.InDelta(t, 0, tab.At(1, 0), delta)

	assert.InDelta(t, 0.5, tab.At(0, 1), delta)
	assert.InDelta(t, 2.5, tab.At(1, 1), delta)
	assert.InDelta(t, 2, tab.RHS(0), delta)
	assert.InDelta(t, 4, tab.RHS(1), delta)

	assert.Equal(t, []int{0, 3}, tab.Basis())
	assert.True(t, tab.IsBasic(0))
	assert.False(t, tab.IsBasic(2))
}

func TestPivotDegenerate(t *testing.T) {
	a := mat.NewDense(1, 2, []float64{1e-12, 1})
	tab, err := New(a, []float64{1}, []int{1}, tol)
	require.NoError(t, err)

	err = tab.Pivot(0, 0)
	assert.ErrorIs(t, err, ErrDegeneratePivot)
}

func TestReducedCosts(t *testing.T) {
	tab := newTestTableau(t)
	cost := []float64{-3, -5, 0, 0}

	rc := tab.ReducedCosts(cost, nil)
	// Slack basis with zero cost leaves the reduced costs untouched.
	assert.InDeltaSlice(t, cost, rc, delta)

	require.NoError(t, tab.Pivot(1, 1))
	rc = tab.ReducedCosts(cost, rc)
	// c_B = (0, -5); rc_j = c_j - c_B . A_j
	assert.InDelta(t, -3-(-5.0/3), rc[0], delta)
	assert.InDelta(t, 0, rc[1], delta)
	assert.InDelta(t, 0, rc[2], delta)
	assert.InDelta(t, 5.0/3, rc[3], delta)
}

func TestSolutionAndObjective(t *testing.T) {
	tab := newTestTableau(t)
	require.NoError(t, tab.Pivot(0, 0))

	x := tab.Solution()
	assert.InDeltaSlice(t, []float64{2, 0, 0, 4}, x, delta)

	cost := []float64{-3, -5, 0, 0}
	assert.InDelta(t, -6, tab.Objective(cost), delta)
}
