package main

import (
	"flag"
	"fmt"
	"os"

	"q.log/milp/instance"
	"q.log/milp/logger"
	"q.log/milp/model"
	"q.log/milp/solver"
)

func main() {
	tolerance := flag.Float64("tolerance", solver.DefaultTolerance, "absolute numeric tolerance")
	iterations := flag.Int("iterations", solver.DefaultIterationLimit, "simplex pivot limit per relaxation")
	nodes := flag.Int("nodes", solver.DefaultNodeLimit, "branch-and-bound node limit")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] problem.mps\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	log := logger.Logger()

	r := instance.NewReader(flag.Arg(0))
	p, err := r.ConstructProblemFromFile()
	if err != nil {
		log.Fatal().Err(err).Msg("loading problem")
	}
	log.Info().
		Int("variables", p.NumVariables()).
		Int("constraints", p.NumConstraints()).
		Msg("problem loaded")

	sol, err := solver.Solve(p, solver.Config{
		Tolerance:      *tolerance,
		IterationLimit: *iterations,
		NodeLimit:      *nodes,
	})
	if sol == nil {
		log.Fatal().Err(err).Msg("solving problem")
	}
	if err != nil && len(sol.Values) > 0 {
		log.Warn().Err(err).Msg("search stopped early, reporting best incumbent")
	}

	fmt.Print(sol)
	if sol.Status != model.StatusOptimal {
		os.Exit(1)
	}
}
