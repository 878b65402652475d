package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"loxgen/internal/fixture"
	"loxgen/internal/gen"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [path]",
	Short: "Check that generated documents are up to date",
	Long: `Verify recomputes every manifest pipeline's document in memory and
byte-compares it against the file on disk. Stale or missing documents make
the command fail, which makes it suitable as a CI gate. Merge pipelines
whose prerequisites are absent are reported as skipped, not stale.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	m, err := locateManifest(args)
	if err != nil {
		return err
	}
	configs, err := m.genConfigs()
	if err != nil {
		return err
	}
	if err := enterManifestRoot(m); err != nil {
		return err
	}

	setupColor(cmd)
	quiet := quietMode(cmd)

	var stale []string
	for _, cfg := range configs {
		doc, res, err := gen.Document(cfg, fixture.Dir{Root: cfg.Root, Ext: cfg.Ext})
		if err != nil {
			return fmt.Errorf("pipeline %q: %w", cfg.Name, err)
		}
		if res.SkipReason != "" {
			if !quiet {
				_, _ = skipColor.Fprintf(os.Stdout, "%s: skipped (%s)\n", cfg.Name, res.SkipReason)
			}
			continue
		}
		current, err := os.ReadFile(cfg.Output)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				stale = append(stale, cfg.Output)
				continue
			}
			return fmt.Errorf("failed to read %q: %w", cfg.Output, err)
		}
		if !bytes.Equal(doc, current) {
			stale = append(stale, cfg.Output)
			continue
		}
		if !quiet {
			_, _ = okColor.Fprintf(os.Stdout, "%s: up to date\n", cfg.Name)
		}
	}
	if len(stale) > 0 {
		return fmt.Errorf("stale generated documents: %s (run loxgen all)", strings.Join(stale, ", "))
	}
	return nil
}
