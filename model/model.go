// Package model holds the user-facing description of an LP/MIP problem:
// variables with bounds and integrality, sparse linear constraints and a
// linear objective. A Problem is built once and treated as immutable by the
// solver packages.
package model

import (
	"errors"
	"fmt"
	"math"
)

// VariableKind restricts the values a variable may take.
type VariableKind int

const (
	Continuous VariableKind = iota
	Integer
	Binary
)

func (k VariableKind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	default:
		return fmt.Sprintf("VariableKind(%d)", int(k))
	}
}

// Variable is one decision variable. Index is assigned by the Problem and is
// stable for the Problem's lifetime.
type Variable struct {
	Index int
	Lower float64
	Upper float64
	Kind  VariableKind
}

// IsInteger reports whether the variable carries an integrality restriction.
func (v Variable) IsInteger() bool {
	return v.Kind == Integer || v.Kind == Binary
}

// Relation is the comparison of a constraint row against its right-hand side.
type Relation int

const (
	LessEq Relation = iota
	GreaterEq
	Equal
)

func (r Relation) String() string {
	switch r {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Equal:
		return "="
	default:
		return fmt.Sprintf("Relation(%d)", int(r))
	}
}

// Constraint is a sparse linear row: sum(Coeffs[j] * x_j) Rel RHS.
// Zero coefficients are omitted from the map.
type Constraint struct {
	Coeffs map[int]float64
	Rel    Relation
	RHS    float64
}

// ObjectiveKind is the optimization direction.
type ObjectiveKind int

const (
	Minimize ObjectiveKind = iota
	Maximize
)

func (k ObjectiveKind) String() string {
	if k == Maximize {
		return "maximize"
	}
	return "minimize"
}

// Objective is a sparse linear objective plus a direction.
type Objective struct {
	Coeffs map[int]float64
	Kind   ObjectiveKind
}

// Problem owns an ordered sequence of variables, a collection of constraints
// and at most one objective. Use the Add* methods to build it; once handed to
// a solver it must not be mutated.
type Problem struct {
	vars        []Variable
	constraints []Constraint
	objective   *Objective
}

var (
	ErrBadBounds        = errors.New("model: variable lower bound exceeds upper bound")
	ErrUnknownVariable  = errors.New("model: constraint references a variable not in the problem")
	ErrCoefficientCount = errors.New("model: coefficient count does not match variable count")
)

func NewProblem() *Problem {
	return &Problem{}
}

// ContinuousProblem returns a problem pre-populated with n continuous
// variables, each bounded below by zero.
func ContinuousProblem(n int) *Problem {
	p := NewProblem()
	for i := 0; i < n; i++ {
		p.AddVariable(Continuous)
	}
	return p
}

// BooleanProblem returns a problem pre-populated with n binary variables.
func BooleanProblem(n int) *Problem {
	p := NewProblem()
	for i := 0; i < n; i++ {
		p.AddVariable(Binary)
	}
	return p
}

// AddVariable appends a variable of the given kind with default bounds:
// [0, +inf) for continuous and integer variables, [0, 1] for binary ones.
func (p *Problem) AddVariable(kind VariableKind) Variable {
	upper := math.Inf(1)
	if kind == Binary {
		upper = 1
	}
	return p.addVar(Variable{Lower: 0, Upper: upper, Kind: kind})
}

// AddBoundedVariable appends a variable with explicit bounds. Binary variables
// ignore the arguments and keep [0, 1].
func (p *Problem) AddBoundedVariable(kind VariableKind, lower, upper float64) (Variable, error) {
	if kind == Binary {
		lower, upper = 0, 1
	}
	if lower > upper {
		return Variable{}, fmt.Errorf("%w: [%v, %v]", ErrBadBounds, lower, upper)
	}
	return p.addVar(Variable{Lower: lower, Upper: upper, Kind: kind}), nil
}

func (p *Problem) addVar(v Variable) Variable {
	v.Index = len(p.vars)
	p.vars = append(p.vars, v)
	return v
}

// AddConstraint appends a sparse constraint. Every referenced variable index
// must exist in the problem.
func (p *Problem) AddConstraint(coeffs map[int]float64, rel Relation, rhs float64) error {
	cp := make(map[int]float64, len(coeffs))
	for j, c := range coeffs {
		if j < 0 || j >= len(p.vars) {
			return fmt.Errorf("%w: index %d", ErrUnknownVariable, j)
		}
		if c != 0 {
			cp[j] = c
		}
	}
	p.constraints = append(p.constraints, Constraint{Coeffs: cp, Rel: rel, RHS: rhs})
	return nil
}

// AddRow appends a dense constraint row; values must cover every variable.
func (p *Problem) AddRow(values []float64, rel Relation, rhs float64) error {
	if len(values) != len(p.vars) {
		return fmt.Errorf("%w: got %d, want %d", ErrCoefficientCount, len(values), len(p.vars))
	}
	coeffs := make(map[int]float64, len(values))
	for j, c := range values {
		if c != 0 {
			coeffs[j] = c
		}
	}
	p.constraints = append(p.constraints, Constraint{Coeffs: coeffs, Rel: rel, RHS: rhs})
	return nil
}

// SetObjective installs the objective from a dense coefficient slice.
func (p *Problem) SetObjective(values []float64, kind ObjectiveKind) error {
	if len(values) != len(p.vars) {
		return fmt.Errorf("%w: got %d, want %d", ErrCoefficientCount, len(values), len(p.vars))
	}
	coeffs := make(map[int]float64, len(values))
	for j, c := range values {
		if c != 0 {
			coeffs[j] = c
		}
	}
	p.objective = &Objective{Coeffs: coeffs, Kind: kind}
	return nil
}

// SetSparseObjective installs the objective from a sparse coefficient map.
func (p *Problem) SetSparseObjective(coeffs map[int]float64, kind ObjectiveKind) error {
	cp := make(map[int]float64, len(coeffs))
	for j, c := range coeffs {
		if j < 0 || j >= len(p.vars) {
			return fmt.Errorf("%w: index %d", ErrUnknownVariable, j)
		}
		if c != 0 {
			cp[j] = c
		}
	}
	p.objective = &Objective{Coeffs: cp, Kind: kind}
	return nil
}

func (p *Problem) NumVariables() int   { return len(p.vars) }
func (p *Problem) NumConstraints() int { return len(p.constraints) }

func (p *Problem) Variable(j int) Variable     { return p.vars[j] }
func (p *Problem) Variables() []Variable       { return p.vars }
func (p *Problem) ConstraintAt(i int) Constraint { return p.constraints[i] }
func (p *Problem) Constraints() []Constraint   { return p.constraints }

// Objective returns the installed objective, or nil if none was set.
func (p *Problem) Objective() *Objective { return p.objective }

// HasIntegerVariables reports whether any variable is integer or binary.
func (p *Problem) HasIntegerVariables() bool {
	for _, v := range p.vars {
		if v.IsInteger() {
			return true
		}
	}
	return false
}

// Tightened returns a copy of the problem with the bounds of variable j
// replaced by the intersection of its current bounds and [lower, upper].
// Constraints and objective are shared with the receiver, which keeps child
// problems cheap during branch-and-bound.
func (p *Problem) Tightened(j int, lower, upper float64) *Problem {
	vars := make([]Variable, len(p.vars))
	copy(vars, p.vars)
	if lower > vars[j].Lower {
		vars[j].Lower = lower
	}
	if upper < vars[j].Upper {
		vars[j].Upper = upper
	}
	return &Problem{
		vars:        vars,
		constraints: p.constraints,
		objective:   p.objective,
	}
}
