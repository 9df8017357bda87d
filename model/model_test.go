package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddVariableDefaults(t *testing.T) {
	p := NewProblem()

	x := p.AddVariable(Continuous)
	assert.Equal(t, 0, x.Index)
	assert.Equal(t, 0.0, x.Lower)
	assert.True(t, math.IsInf(x.Upper, 1))
	assert.False(t, x.IsInteger())

	y := p.AddVariable(Integer)
	assert.Equal(t, 1, y.Index)
	assert.True(t, y.IsInteger())

	z := p.AddVariable(Binary)
	assert.Equal(t, 0.0, z.Lower)
	assert.Equal(t, 1.0, z.Upper)
	assert.True(t, z.IsInteger())

	assert.Equal(t, 3, p.NumVariables())
	assert.True(t, p.HasIntegerVariables())
}

func TestAddBoundedVariable(t *testing.T) {
	p := NewProblem()

	v, err := p.AddBoundedVariable(Continuous, -2, 5)
	require.NoError(t, err)
	assert.Equal(t, -2.0, v.Lower)
	assert.Equal(t, 5.0, v.Upper)

	_, err = p.AddBoundedVariable(Continuous, 3, 1)
	assert.ErrorIs(t, err, ErrBadBounds)

	// Binary bounds are fixed regardless of the arguments.
	b, err := p.AddBoundedVariable(Binary, -4, 9)
	require.NoError(t, err)
	assert.Equal(t, 0.0, b.Lower)
	assert.Equal(t, 1.0, b.Upper)
}

func TestConventionProblems(t *testing.T) {
	p := ContinuousProblem(3)
	assert.Equal(t, 3, p.NumVariables())
	assert.False(t, p.HasIntegerVariables())

	q := BooleanProblem(2)
	assert.Equal(t, 2, q.NumVariables())
	assert.True(t, q.HasIntegerVariables())
	assert.Equal(t, 1.0, q.Variable(1).Upper)
}

func TestAddConstraintValidation(t *testing.T) {
	p := ContinuousProblem(2)

	err := p.AddConstraint(map[int]float64{0: 1, 5: 2}, LessEq, 3)
	assert.ErrorIs(t, err, ErrUnknownVariable)
	assert.Equal(t, 0, p.NumConstraints())

	require.NoError(t, p.AddConstraint(map[int]float64{0: 1, 1: 0}, LessEq, 3))
	c := p.ConstraintAt(0)
	assert.Len(t, c.Coeffs, 1)
	assert.Equal(t, LessEq, c.Rel)
	assert.Equal(t, 3.0, c.RHS)
}

func TestAddRowValidation(t *testing.T) {
	p := ContinuousProblem(2)

	err := p.AddRow([]float64{1}, Equal, 2)
	assert.ErrorIs(t, err, ErrCoefficientCount)

	require.NoError(t, p.AddRow([]float64{1, -1}, Equal, 2))
	assert.Equal(t, map[int]float64{0: 1, 1: -1}, p.ConstraintAt(0).Coeffs)
}

func TestSetObjective(t *testing.T) {
	p := ContinuousProblem(2)
	assert.Nil(t, p.Objective())

	err := p.SetObjective([]float64{1}, Minimize)
	assert.ErrorIs(t, err, ErrCoefficientCount)

	require.NoError(t, p.SetObjective([]float64{2, 0}, Maximize))
	obj := p.Objective()
	require.NotNil(t, obj)
	assert.Equal(t, Maximize, obj.Kind)
	assert.Equal(t, map[int]float64{0: 2}, obj.Coeffs)

	err = p.SetSparseObjective(map[int]float64{7: 1}, Minimize)
	assert.ErrorIs(t, err, ErrUnknownVariable)
}

func TestTightened(t *testing.T) {
	p := ContinuousProblem(2)
	require.NoError(t, p.AddRow([]float64{1, 1}, LessEq, 4))
	require.NoError(t, p.SetObjective([]float64{1, 1}, Maximize))

	q := p.Tightened(0, 1, 2)
	assert.Equal(t, 1.0, q.Variable(0).Lower)
	assert.Equal(t, 2.0, q.Variable(0).Upper)
	// The original is untouched; constraints and objective are shared.
	assert.Equal(t, 0.0, p.Variable(0).Lower)
	assert.Equal(t, p.NumConstraints(), q.NumConstraints())
	assert.Equal(t, p.Objective(), q.Objective())

	// Tightening never loosens existing bounds.
	r := q.Tightened(0, 0, math.Inf(1))
	assert.Equal(t, 1.0, r.Variable(0).Lower)
	assert.Equal(t, 2.0, r.Variable(0).Upper)
}

func TestStatusAndKindStrings(t *testing.T) {
	assert.Equal(t, "optimal", StatusOptimal.String())
	assert.Equal(t, "infeasible", StatusInfeasible.String())
	assert.Equal(t, "node limit exceeded", StatusNodeLimit.String())
	assert.Equal(t, "integer", Integer.String())
	assert.Equal(t, ">=", GreaterEq.String())
	assert.Equal(t, "maximize", Maximize.String())
}

func TestSolutionString(t *testing.T) {
	s := &Solution{
		Status:       StatusOptimal,
		Objective:    12,
		HasObjective: true,
		Values:       []float64{0, 4},
	}
	assert.Equal(t, "status = optimal\nobjective = 12.000000\nx[0] = 0.000000\nx[1] = 4.000000\n", s.String())
	assert.Equal(t, 4.0, s.Value(1))

	noObj := &Solution{Status: StatusOptimal, Values: []float64{1}}
	assert.Equal(t, "status = optimal\nx[0] = 1.000000\n", noObj.String())
}
