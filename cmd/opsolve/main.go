// Command opsolve solves orienteering problem instances.
//
// Modes: palns (default) runs the parallel adaptive search, greedy stops
// after the construction heuristic, exact runs the branch-and-cut solver.
// Exit code 0 on success, 1 with a diagnostic otherwise.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/katalvlaran/orienteering/bc"
	"github.com/katalvlaran/orienteering/op"
	"github.com/katalvlaran/orienteering/opfile"
	"github.com/katalvlaran/orienteering/palns"
	"github.com/katalvlaran/orienteering/params"
	"github.com/katalvlaran/orienteering/report"
	"github.com/katalvlaran/orienteering/tour"
	"github.com/katalvlaran/orienteering/tsp"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "opsolve:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("opsolve", flag.ContinueOnError)
	var (
		instancePath  = fs.String("instance", "", "instance file (TSPLIB-style OP format, required)")
		problemPath   = fs.String("problem", "", "problem parameter file (JSON, defaults when empty)")
		frameworkPath = fs.String("framework", "", "framework parameter file (JSON, defaults when empty)")
		mode          = fs.String("mode", "palns", "solve mode: palns, greedy or exact")
		jsonPath      = fs.String("json", "", "write the solution as JSON to this file")
		csvPath       = fs.String("csv", "", "append an instance,prize,travel_time line to this file")
		scoresPath    = fs.String("scores", "", "operator-score artifact updated after a palns run")
		lkhPath       = fs.String("lkh", "", "path to an LKH-compatible binary for tour polishing")
		verbose       = fs.Bool("v", false, "debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *instancePath == "" {
		return fmt.Errorf("flag -instance is required")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	g, err := opfile.Load(*instancePath, op.WithLogger(logger))
	if err != nil {
		return err
	}
	prob, err := params.LoadProblem(*problemPath)
	if err != nil {
		return err
	}
	fw, err := params.LoadFramework(*frameworkPath)
	if err != nil {
		return err
	}

	var solver op.TSPSolver = tsp.NewLocal()
	if *lkhPath != "" {
		solver = tsp.NewExternal(*lkhPath,
			tsp.WithSeed(fw.Seed),
			tsp.WithExternalLogger(logger))
	}

	var t *tour.Tour
	switch *mode {
	case "palns":
		res, solveErr := palns.Solve(g, prob, fw,
			palns.WithTSPSolver(solver),
			palns.WithLogger(logger))
		if solveErr != nil {
			return solveErr
		}
		t = res.Tour
		if *scoresPath != "" {
			merged, mergeErr := report.MergeScores(*scoresPath, res.NewBestCounts)
			if mergeErr != nil {
				return mergeErr
			}
			sum := report.Summarize(merged)
			logger.Info("operator scores updated",
				slog.String("file", *scoresPath),
				slog.Int("operators", sum.Operators),
				slog.Int("total", sum.Total),
				slog.Float64("mean", sum.Mean),
				slog.String("top", sum.Top))
		}
	case "greedy":
		t, err = palns.Greedy(g, prob, solver, tsp.RNGFromSeed(fw.Seed), logger)
		if err != nil {
			return err
		}
	case "exact":
		t, err = bc.New(bc.WithLogger(logger)).Solve(g)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown mode %q", *mode)
	}

	fmt.Printf("instance: %s\nprize: %g\ntravel_time: %g\ntour: %v\n",
		g.Name(), t.Prize(), t.TravelTime(), t.Vertices())

	if *jsonPath != "" {
		if err := report.WriteJSON(*jsonPath, t); err != nil {
			return err
		}
	}
	if *csvPath != "" {
		if err := report.WriteCSV(*csvPath, t); err != nil {
			return err
		}
	}
	return nil
}
