package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"typegen/internal/config"
	"typegen/internal/generator"
	"typegen/internal/inhabit"
	"typegen/internal/testkit"
	"typegen/internal/xrand"
)

var (
	batchRuns     int
	batchParallel int
	batchNoInhabit bool
)

func init() {
	batchCmd.Flags().IntVar(&batchRuns, "runs", 8, "number of independent graphs to generate")
	batchCmd.Flags().IntVar(&batchParallel, "parallel", 4, "maximum number of runs in flight at once")
	batchCmd.Flags().BoolVar(&batchNoInhabit, "no-inhabit", false, "skip the inhabitability repair pass for each run")
}

type batchOutcome struct {
	seed  int64
	count int
	err   error
}

// batchCmd runs many independent generate+inhabit passes concurrently,
// bounded by --parallel, mirroring the teacher toolchain's errgroup-based
// parallel file-build driver: a preallocated per-index result slice filled
// in by worker goroutines, with no shared mutable state beyond the slice
// itself, so no mutex is needed.
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate many independent graphs in parallel",
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := loadParamsWithOverrides()
		if err != nil {
			return err
		}
		if batchRuns <= 0 {
			return fmt.Errorf("--runs must be positive, got %d", batchRuns)
		}

		outcomes := make([]batchOutcome, batchRuns)

		g := new(errgroup.Group)
		g.SetLimit(batchParallel)
		for i := 0; i < batchRuns; i++ {
			i := i
			g.Go(func() error {
				outcomes[i] = runOneBatchSeed(params, params.Seed+int64(i))
				return nil
			})
		}
		// Errors are collected per-run in outcomes rather than propagated
		// through the group, so one failing seed doesn't cancel the rest.
		_ = g.Wait()

		failures := 0
		for _, o := range outcomes {
			if o.err != nil {
				failures++
				fmt.Fprintf(cmd.ErrOrStderr(), "seed %d: %v\n", o.seed, o.err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seed %d: ok, %d types\n", o.seed, o.count)
		}
		if failures > 0 {
			return fmt.Errorf("%d/%d runs failed", failures, batchRuns)
		}
		return nil
	},
}

func runOneBatchSeed(params config.GeneratorParams, seed int64) batchOutcome {
	rand := xrand.New(seed)
	result, err := generator.Generate(rand, params.Features, params.Sizes, params.N)
	if err != nil {
		return batchOutcome{seed: seed, err: fmt.Errorf("generate: %w", err)}
	}
	if err := testkit.CheckGenerateInvariants(result.Types); err != nil {
		return batchOutcome{seed: seed, err: err}
	}

	types := result.Types
	if !batchNoInhabit {
		types, err = inhabit.MakeInhabitable(types)
		if err != nil {
			return batchOutcome{seed: seed, err: fmt.Errorf("inhabit: %w", err)}
		}
		if err := testkit.CheckInhabitableInvariants(types); err != nil {
			return batchOutcome{seed: seed, err: err}
		}
	}
	return batchOutcome{seed: seed, count: len(types)}
}
