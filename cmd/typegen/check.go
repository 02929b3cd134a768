package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"typegen/internal/inhabit"
	"typegen/internal/observ"
	"typegen/internal/testkit"
)

var checkSkipInhabit bool

func init() {
	checkCmd.Flags().BoolVar(&checkSkipInhabit, "skip-inhabit", false, "only check structural invariants, not inhabitability")
}

// checkCmd generates a graph and runs it through every invariant this
// toolchain knows how to check, exiting non-zero on the first violation.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Generate a graph and verify it against every known invariant",
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := loadParamsWithOverrides()
		if err != nil {
			return err
		}

		result, _, err := generateWithCache(nil, observ.NewTimer(), params)
		if err != nil {
			return err
		}

		if err := testkit.CheckGenerateInvariants(result.Types); err != nil {
			return err
		}
		if err := testkit.CheckSubtypeIndicesReflexive(result.SubtypeIndices); err != nil {
			return err
		}

		types := result.Types
		if !checkSkipInhabit {
			types, err = inhabit.MakeInhabitable(types)
			if err != nil {
				return fmt.Errorf("inhabit: %w", err)
			}
			if err := testkit.CheckInhabitableInvariants(types); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d types, all checks passed\n", len(types))
		return nil
	},
}
