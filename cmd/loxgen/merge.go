package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"loxgen/internal/fixture"
	"loxgen/internal/gen"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [flags]",
	Short: "Append newly discovered stubs to an existing document",
	Long: `Merge reads an existing document verbatim as a prefix and appends one
#[test] stub per discovered fixture in ascending identifier order. When
either the input or the output file does not exist yet the run is a silent
no-op: generation is optional scaffolding, not a hard requirement.`,
	Args: cobra.NoArgs,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().String("root", "", "fixture corpus root")
	mergeCmd.Flags().String("ext", ".lox", "fixture file extension")
	mergeCmd.Flags().String("out", "", "output document path")
	mergeCmd.Flags().String("input", "", "existing document used as prefix")
	_ = mergeCmd.MarkFlagRequired("root")
	_ = mergeCmd.MarkFlagRequired("out")
	_ = mergeCmd.MarkFlagRequired("input")
}

func runMerge(cmd *cobra.Command, _ []string) error {
	cfg, err := flagConfig(cmd, gen.ModeMerge)
	if err != nil {
		return err
	}
	cfg.Input, err = cmd.Flags().GetString("input")
	if err != nil {
		return fmt.Errorf("failed to get input flag: %w", err)
	}

	res, err := gen.Run(cfg, fixture.Dir{Root: cfg.Root, Ext: cfg.Ext})
	if err != nil {
		return err
	}
	setupColor(cmd)
	if !quietMode(cmd) {
		printResult(os.Stdout, cfg, res)
	}
	return nil
}
