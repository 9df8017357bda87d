package model

import (
	"fmt"
	"strings"
)

// Status classifies the outcome of a solve.
type Status int

const (
	// StatusOptimal means the reported solution is proven optimal.
	StatusOptimal Status = iota
	// StatusInfeasible means no point satisfies all constraints.
	StatusInfeasible
	// StatusUnbounded means the objective can be improved without limit.
	StatusUnbounded
	// StatusIterationLimit means the simplex pivot budget ran out before a
	// proof of optimality.
	StatusIterationLimit
	// StatusNodeLimit means branch-and-bound exhausted its node budget; the
	// reported solution is the best incumbent found, not proven optimal.
	StatusNodeLimit
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusIterationLimit:
		return "iteration limit exceeded"
	case StatusNodeLimit:
		return "node limit exceeded"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Solution is the immutable result record of a solve. Values maps variable
// index to value; HasObjective is false for problems solved without an
// objective (pure equality systems).
type Solution struct {
	Status       Status
	Objective    float64
	HasObjective bool
	Values       []float64
}

// Value returns the value assigned to variable j.
func (s *Solution) Value(j int) float64 {
	return s.Values[j]
}

func (s *Solution) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "status = %s\n", s.Status)
	if s.HasObjective {
		fmt.Fprintf(&b, "objective = %.6f\n", s.Objective)
	}
	for j, v := range s.Values {
		fmt.Fprintf(&b, "x[%d] = %.6f\n", j, v)
	}
	return b.String()
}
