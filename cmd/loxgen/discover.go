package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"loxgen/internal/fixture"
)

var discoverCmd = &cobra.Command{
	Use:   "discover [flags]",
	Short: "List discovered fixtures and their identifiers",
	Long: `Discover enumerates fixtures under a corpus root and prints each derived
identifier with its path, sorted by identifier. Useful for inspecting what
a generation run would emit without writing anything.`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().String("root", "", "fixture corpus root")
	discoverCmd.Flags().String("ext", ".lox", "fixture file extension")
	discoverCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	_ = discoverCmd.MarkFlagRequired("root")
}

type discoveredFixture struct {
	Ident string `json:"ident"`
	Path  string `json:"path"`
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	root, err := cmd.Flags().GetString("root")
	if err != nil {
		return fmt.Errorf("failed to get root flag: %w", err)
	}
	ext, err := cmd.Flags().GetString("ext")
	if err != nil {
		return fmt.Errorf("failed to get ext flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	fixtures, err := (fixture.Dir{Root: root, Ext: ext}).Discover()
	if err != nil {
		return err
	}
	entries := make([]discoveredFixture, 0, len(fixtures))
	for _, f := range fixtures {
		entries = append(entries, discoveredFixture{Ident: f.Ident(), Path: f.Path})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Ident != entries[j].Ident {
			return entries[i].Ident < entries[j].Ident
		}
		return entries[i].Path < entries[j].Path
	})

	// The listing is the command's essential output, so --quiet does not
	// suppress it; only coloring follows the persistent flags.
	setupColor(cmd)
	w := cmd.OutOrStdout()

	switch format {
	case "pretty":
		width := 0
		for _, e := range entries {
			if len(e.Ident) > width {
				width = len(e.Ident)
			}
		}
		for _, e := range entries {
			fmt.Fprintf(w, "%s  %s\n", identColor.Sprintf("%-*s", width, e.Ident), e.Path)
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
