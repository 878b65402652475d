package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"loxgen/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "loxgen",
	Short: "Deterministic test-stub generator for fixture corpora",
	Long: `loxgen discovers test fixtures laid out as <root>/<category>/<name>.lox
and regenerates the source file that wires them into the conformance
harness, one #[test] stub per fixture, sorted by identifier.`,
}

// main registers subcommands and persistent flags, then executes the root
// command. A command error exits with status code 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(allCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether the file is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
