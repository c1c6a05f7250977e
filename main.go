package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skolemlab/ddb/basis"
	"github.com/skolemlab/ddb/netlist"
	"github.com/skolemlab/ddb/qbf"
	"github.com/skolemlab/ddb/synth"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	var (
		opts       synth.Options
		timeout    time.Duration
		noTopo     bool
		output     string
		printBasis bool
		verbose    bool
		debug      bool
	)
	code := synth.ExitSuccess
	cmd := &cobra.Command{
		Use:   "ddb <spec.qdimacs>",
		Short: "data-driven Skolem basis synthesis",
		Long: `ddb synthesizes, for each existential output of a 2QBF specification,
a parameterized Skolem function psi = A | (g & !C) where A and C are the
must-1 and must-0 regions of the output. The basis is learned from
samples and repaired against counterexamples until it verifies.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case debug:
				log.SetLevel(logrus.DebugLevel)
			case verbose:
				log.SetLevel(logrus.InfoLevel)
			default:
				log.SetLevel(logrus.WarnLevel)
			}
			opts.SolverTimeout = timeout
			opts.FileOrder = noTopo
			opts.Logger = log
			code = run(log, args[0], opts, output, printBasis)
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Samples, "samples", 500, "number of training samples")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", 50, "max repair iterations")
	cmd.Flags().IntVar(&opts.RepairThreshold, "repair-threshold", 50, "repairs before an output falls back to its semantic definition")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 10, "decision tree depth cap")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "sampler seed")
	cmd.Flags().DurationVar(&timeout, "solver-timeout", 0, "per-call solver timeout (0 = unbounded)")
	cmd.Flags().BoolVar(&noTopo, "no-topo-sort", false, "rank outputs in file order instead of dependency order")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the synthesized circuit and harness to this AIGER file")
	cmd.Flags().BoolVar(&printBasis, "print-basis", false, "print the synthesized basis")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log progress")
	cmd.Flags().BoolVar(&debug, "debug", false, "log per-output detail")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		code = synth.ExitBadInput
	}
	os.Exit(code)
}

func run(log *logrus.Logger, path string, opts synth.Options, output string, printBasis bool) int {
	f, err := os.Open(path)
	if err != nil {
		log.Errorf("could not open %q: %v", path, err)
		return synth.ExitBadInput
	}
	pb, err := qbf.Parse(f)
	f.Close()
	if err != nil {
		log.Errorf("could not parse %q: %v", path, err)
		return synth.ExitCode(nil, err)
	}
	log.WithFields(logrus.Fields{
		"inputs":  len(pb.Inputs),
		"outputs": len(pb.Outputs),
		"clauses": len(pb.Clauses),
	}).Info("specification loaded")

	res, err := synth.New(pb, opts).Run()
	if err != nil {
		log.Errorf("synthesis aborted: %v", err)
		return synth.ExitCode(res, err)
	}
	switch res.Status {
	case synth.Done:
		fmt.Println("SUCCESS: valid Skolem basis synthesized")
	case synth.Unsat:
		fmt.Println("UNSATISFIABLE: specification admits no model")
	case synth.CapReached:
		fmt.Println("FAILURE: iteration cap reached, basis is partial")
	}
	if res.Basis != nil {
		if printBasis {
			printEntries(pb, res.Basis)
		}
		if output != "" {
			if err := writeNetlist(output, pb, res.Basis); err != nil {
				log.Errorf("could not write netlist: %v", err)
				return synth.ExitSolver
			}
			log.WithField("path", output).Info("netlist written")
		}
	}
	return synth.ExitCode(res, nil)
}

func writeNetlist(path string, pb *qbf.Problem, b *basis.Basis) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := netlist.Write(f, pb, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printEntries(pb *qbf.Problem, b *basis.Basis) {
	name := func(v int) string {
		if pb.IsOutput(v) {
			return fmt.Sprintf("y%d", v)
		}
		return fmt.Sprintf("x%d", v)
	}
	for rank := 0; rank < b.Len(); rank++ {
		e := b.At(rank)
		fmt.Printf("y%d (rank %d):\n", e.Var, rank)
		if e.Semantic {
			fmt.Printf("  must-1 (A): semantic cofactor definition\n")
			fmt.Printf("  must-0 (C): semantic cofactor definition\n")
			continue
		}
		fmt.Printf("  must-1 (A): %s [%d cubes, %d clauses]\n",
			e.A.BF(name), len(e.A.Cubes), len(e.A.Clauses))
		fmt.Printf("  must-0 (C): %s [%d cubes, %d clauses]\n",
			e.C.BF(name), len(e.C.Cubes), len(e.C.Clauses))
	}
}
