package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"loxgen/internal/gen"
)

var (
	okColor    = color.New(color.FgGreen)
	skipColor  = color.New(color.FgYellow)
	identColor = color.New(color.FgCyan)
)

// setupColor resolves the persistent --color flag into the global color
// toggle. "auto" colorizes only when stdout is a terminal.
func setupColor(cmd *cobra.Command) {
	flag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return
	}
	switch flag {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}
}

func quietMode(cmd *cobra.Command) bool {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && quiet
}

// printResult writes one summary line for a finished pipeline.
func printResult(w io.Writer, cfg gen.Config, res gen.Result) {
	if res.SkipReason != "" {
		_, _ = skipColor.Fprintf(w, "%s: skipped (%s)\n", cfg.Name, res.SkipReason)
		return
	}
	_, _ = okColor.Fprintf(w, "%s: wrote %s (%d stubs from %d fixtures)\n",
		cfg.Name, cfg.Output, res.Stubs, res.Fixtures)
}
