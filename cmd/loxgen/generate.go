package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"loxgen/internal/fixture"
	"loxgen/internal/gen"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags]",
	Short: "Generate a test document from scratch",
	Long: `Generate discovers fixtures matching <root>/<category>/<name><ext> and
writes a fresh test document: the shared-utilities header followed by one
#[test] stub per fixture in ascending identifier order. Any existing
content at the output path is truncated.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("root", "", "fixture corpus root")
	generateCmd.Flags().String("ext", ".lox", "fixture file extension")
	generateCmd.Flags().String("out", "", "output document path")
	generateCmd.Flags().String("header-file", "", "file whose content replaces the default header")
	_ = generateCmd.MarkFlagRequired("root")
	_ = generateCmd.MarkFlagRequired("out")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := flagConfig(cmd, gen.ModeCreate)
	if err != nil {
		return err
	}

	headerFile, err := cmd.Flags().GetString("header-file")
	if err != nil {
		return fmt.Errorf("failed to get header-file flag: %w", err)
	}
	if headerFile != "" {
		data, err := os.ReadFile(headerFile)
		if err != nil {
			return fmt.Errorf("failed to read header file %q: %w", headerFile, err)
		}
		cfg.Header = string(data)
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

// flagConfig builds a pipeline config from the flags shared by generate and
// merge. The pipeline name doubles as the output path in summaries.
func flagConfig(cmd *cobra.Command, mode gen.Mode) (gen.Config, error) {
	root, err := cmd.Flags().GetString("root")
	if err != nil {
		return gen.Config{}, fmt.Errorf("failed to get root flag: %w", err)
	}
	ext, err := cmd.Flags().GetString("ext")
	if err != nil {
		return gen.Config{}, fmt.Errorf("failed to get ext flag: %w", err)
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return gen.Config{}, fmt.Errorf("failed to get out flag: %w", err)
	}
	return gen.Config{
		Name:   cmd.Name(),
		Root:   root,
		Ext:    ext,
		Output: out,
		Mode:   mode,
	}, nil
}
