package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"typegen/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "typegen",
	Short: "Random heap-type graph generator and inhabitability repair tool",
	Long:  `typegen generates random structurally-recursive, nominally-subtyped heap type graphs and repairs them so every type can be constructed.`,
}

// main registers subcommands and persistent flags, sets the CLI version, and
// executes the root command. If command execution returns an error, the
// process exits with status code 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(inhabitCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "color mode (auto|on|off); not read by any command, colors follow the terminal detection of the color library")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Duration("timings-warn", 0, "flag phases slower than this duration (0 disables)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this path")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this path")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime trace to this path")

	var stopProfiling func()
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		stopProfiling = cleanup
		return nil
	}

	err := rootCmd.Execute()
	if stopProfiling != nil {
		stopProfiling()
	}
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// resolveColor interprets the --color flag against whether stdout is a
// terminal, matching the teacher CLI's auto/on/off convention.
func resolveColor(mode string, out *os.File) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(out)
	}
}