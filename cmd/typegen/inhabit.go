package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"typegen/internal/inhabit"
	"typegen/internal/observ"
	"typegen/internal/testkit"
)

var inhabitVerify bool

func init() {
	inhabitCmd.Flags().BoolVar(&inhabitVerify, "verify", true, "check inhabitability invariants after repair")
}

var inhabitCmd = &cobra.Command{
	Use:   "inhabit",
	Short: "Generate a graph and report on its inhabitability repair",
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := loadParamsWithOverrides()
		if err != nil {
			return err
		}

		result, _, err := generateWithCache(nil, observ.NewTimer(), params)
		if err != nil {
			return err
		}

		before := len(inhabit.GetInhabitable(result.Types))
		repaired, err := inhabit.MakeInhabitable(result.Types)
		if err != nil {
			return fmt.Errorf("inhabit: %w", err)
		}
		after := len(inhabit.GetInhabitable(repaired))

		if inhabitVerify {
			if err := testkit.CheckInhabitableInvariants(repaired); err != nil {
				return fmt.Errorf("repaired graph still uninhabitable: %w", err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "inhabitable before repair: %d/%d\n", before, len(result.Types))
		fmt.Fprintf(cmd.OutOrStdout(), "inhabitable after repair:  %d/%d\n", after, len(repaired))
		return nil
	},
}
