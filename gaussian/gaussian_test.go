package gaussian

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"q.log/milp/model"
)

const delta = 1e-6

func TestSolveSquareSystem(t *testing.T) {
	p := model.ContinuousProblem(3)
	require.NoError(t, p.AddRow([]float64{2, 1, 1}, model.Equal, 3))
	require.NoError(t, p.AddRow([]float64{1, 0, 1}, model.Equal, 1.5))
	require.NoError(t, p.AddRow([]float64{2, 1, 0}, model.Equal, 2))

	x, err := Solve(p)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 1, 1}, x, delta)
}

func TestSolveLinearlyDependent(t *testing.T) {
	p := model.ContinuousProblem(3)
	require.NoError(t, p.AddRow([]float64{2, 1, 1}, model.Equal, 3))
	require.NoError(t, p.AddRow([]float64{4, 2, 2}, model.Equal, 6))
	require.NoError(t, p.AddRow([]float64{1, 0, 1}, model.Equal, 1.5))

	_, err := Solve(p)
	assert.ErrorIs(t, err, ErrUnderspecified)
}

func TestSolveRejectsObjective(t *testing.T) {
	p := model.ContinuousProblem(1)
	require.NoError(t, p.AddRow([]float64{1}, model.Equal, 2))
	require.NoError(t, p.SetObjective([]float64{1}, model.Minimize))

	_, err := Solve(p)
	assert.ErrorIs(t, err, ErrHasObjective)
}

func TestSolveRejectsNonSquare(t *testing.T) {
	p := model.ContinuousProblem(2)
	require.NoError(t, p.AddRow([]float64{1, 1}, model.Equal, 2))

	_, err := Solve(p)
	assert.ErrorIs(t, err, ErrNotSquare)
}

func TestSolveRejectsInequality(t *testing.T) {
	p := model.ContinuousProblem(1)
	require.NoError(t, p.AddRow([]float64{1}, model.LessEq, 2))

	_, err := Solve(p)
	assert.ErrorIs(t, err, ErrNonEquality)
}

func TestSolveEmpty(t *testing.T) {
	x, err := Solve(model.NewProblem())
	require.NoError(t, err)
	assert.Empty(t, x)
}
