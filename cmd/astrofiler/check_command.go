package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"astrofiler/internal/archive"
	"astrofiler/internal/frames"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check archive space, catalog, and naming patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			failed := false

			free, err := archive.FreeSpace(cfg.Paths.RootDir)
			need := cfg.MinFreeBytes()
			switch {
			case err != nil:
				failed = true
				fmt.Fprintf(out, "✗ Archive space: %v\n", err)
			case free < need:
				failed = true
				fmt.Fprintf(out, "✗ Archive space: %s free under %s, %s required\n",
					humanize.IBytes(free), cfg.Paths.RootDir, humanize.IBytes(need))
			default:
				fmt.Fprintf(out, "✓ Archive space: %s free under %s\n", humanize.IBytes(free), cfg.Paths.RootDir)
			}

			if _, err := frames.LoadCatalog(cfg.Paths.CatalogPath); err != nil {
				failed = true
				fmt.Fprintf(out, "✗ Catalog: %v\n", err)
			} else {
				fmt.Fprintf(out, "✓ Catalog: %s\n", cfg.Paths.CatalogPath)
			}

			if problems := frames.UnknownTokens(cfg.Patterns); len(problems) > 0 {
				for _, p := range problems {
					fmt.Fprintf(out, "! Pattern: %s\n", p)
				}
			} else {
				fmt.Fprintln(out, "✓ Patterns: all tokens recognized")
			}

			if failed {
				return fmt.Errorf("archive checks failed")
			}
			return nil
		},
	}
}
